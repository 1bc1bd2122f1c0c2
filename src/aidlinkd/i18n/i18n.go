// Package i18n resolves user-facing messages for a requested locale.
// Built-in English messages are the fallback; installed language packs
// override or extend them per locale.
package i18n

import (
	"encoding/json"
	"sync"

	"github.com/aidlink/aidlink/src/aidlinkd/db"
	"github.com/aidlink/aidlink/src/common/logs"
	"golang.org/x/text/language"
)

// package-level logger, set via SetLogger
var log *logs.Logger

// SetLogger sets the logger for the i18n package
func SetLogger(l *logs.Logger) {
	log = l
}

// DefaultLocale is used when negotiation finds no installed pack
const DefaultLocale = "en"

// defaultMessages are the built-in English strings served without any
// language pack installed. Keys are shared with pack dictionaries.
var defaultMessages = map[string]string{
	"error.internal":       "Something went wrong. Please try again later.",
	"error.unauthorized":   "You need to sign in to do that.",
	"error.forbidden":      "You are not allowed to do that.",
	"error.not_found":      "We could not find what you were looking for.",
	"error.rate_limited":   "Too many requests. Please slow down.",
	"error.validation":     "Some fields need your attention.",
	"auth.verify_subject":  "Confirm your AidLink account",
	"auth.reset_subject":   "Reset your AidLink password",
	"post.updated":         "Your post has been updated.",
	"post.created":         "Your post is now live.",
	"user.verified":        "Your account is verified. Welcome!",
	"user.password_reset":  "Your password has been changed.",
	"org.pending_approval": "Your organization profile is awaiting verification.",
}

// Translator resolves message keys per locale, layering installed
// language packs over the built-in messages.
type Translator struct {
	repo *db.LanguagePackRepository

	mu    sync.RWMutex
	cache map[string]map[string]string
}

// NewTranslator creates a translator backed by the language pack store
func NewTranslator(repo *db.LanguagePackRepository) *Translator {
	return &Translator{
		repo:  repo,
		cache: make(map[string]map[string]string),
	}
}

// flatten collapses a (possibly namespaced) dictionary into dotted keys
func flatten(prefix string, in map[string]interface{}, out map[string]string) {
	for k, v := range in {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch value := v.(type) {
		case string:
			out[key] = value
		case map[string]interface{}:
			flatten(key, value, out)
		}
	}
}

// dictionary returns the flattened message map for a locale, loading and
// caching it on first use. Unknown locales yield an empty map.
func (t *Translator) dictionary(locale string) map[string]string {
	t.mu.RLock()
	if dict, ok := t.cache[locale]; ok {
		t.mu.RUnlock()
		return dict
	}
	t.mu.RUnlock()

	dict := make(map[string]string)
	if t.repo != nil {
		pack, err := t.repo.Get(locale)
		if err != nil {
			if log != nil {
				log.Warn("Failed to load language pack", "locale", locale, "error", err)
			}
		} else if pack != nil {
			var raw map[string]interface{}
			if err := json.Unmarshal([]byte(pack.Dictionary), &raw); err == nil {
				flatten("", raw, dict)
			} else if log != nil {
				log.Warn("Language pack dictionary is not valid JSON", "locale", locale, "error", err)
			}
		}
	}

	t.mu.Lock()
	t.cache[locale] = dict
	t.mu.Unlock()

	return dict
}

// Invalidate drops the cached dictionary for a locale. Called after a
// pack upload or deletion.
func (t *Translator) Invalidate(locale string) {
	t.mu.Lock()
	delete(t.cache, locale)
	t.mu.Unlock()
}

// T resolves a message key for a locale, falling back to the built-in
// English message, then to the key itself. Safe on a nil receiver so
// handlers can hold the translator behind an interface.
func (t *Translator) T(locale, key string) string {
	if t != nil && locale != "" && locale != DefaultLocale {
		if msg, ok := t.dictionary(locale)[key]; ok {
			return msg
		}
	}
	if msg, ok := defaultMessages[key]; ok {
		return msg
	}
	return key
}

// Match negotiates the best installed locale for an Accept-Language
// header value. The default locale wins when nothing matches.
func (t *Translator) Match(acceptLanguage string) string {
	if acceptLanguage == "" || t.repo == nil {
		return DefaultLocale
	}

	packs, err := t.repo.List()
	if err != nil {
		if log != nil {
			log.Warn("Failed to list language packs for negotiation", "error", err)
		}
		return DefaultLocale
	}

	supported := []language.Tag{language.English}
	locales := []string{DefaultLocale}
	for _, pack := range packs {
		tag, err := language.Parse(pack.Locale)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		locales = append(locales, pack.Locale)
	}

	desired, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil {
		return DefaultLocale
	}

	_, index, _ := language.NewMatcher(supported).Match(desired...)
	return locales[index]
}
