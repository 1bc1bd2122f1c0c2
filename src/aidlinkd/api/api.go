package api

import (
	apiauth "github.com/aidlink/aidlink/src/aidlinkd/api/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/api/base"
	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	"github.com/aidlink/aidlink/src/aidlinkd/api/langpacks"
	"github.com/aidlink/aidlink/src/aidlinkd/api/orgs"
	"github.com/aidlink/aidlink/src/aidlinkd/api/posts"
	"github.com/aidlink/aidlink/src/aidlinkd/api/profile"
	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/aidlink/aidlink/src/common/version"
)

// SetLogger sets the logger for the api package and subpackages
func SetLogger(l *logs.Logger) {
	common.SetLogger(l)
	apiauth.SetLogger(l)
	posts.SetLogger(l)
	orgs.SetLogger(l)
	profile.SetLogger(l)
}

// SetVersionInfo sets the version info for the api package and subpackages
func SetVersionInfo(v *version.Info) {
	base.SetVersionInfo(v)
}

// New creates a new API instance with all subpackage handlers
func New(cfg Config) *API {
	var rateLimiter *RateLimiter
	if cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(cfg.RateLimit)
	}

	// A typed nil pointer would not compare equal to nil once stored in
	// the common.Translator interface.
	var translator common.Translator
	if cfg.Translator != nil {
		translator = cfg.Translator
	}

	return &API{
		Base: base.NewHandler(),

		Auth: apiauth.NewHandler(apiauth.Config{
			UserManager: cfg.UserManager,
			JWTService:  cfg.JWTService,
		}),

		Posts: posts.NewHandler(posts.Config{
			PostRepo:   cfg.PostRepo,
			JWTService: cfg.JWTService,
			Translator: translator,
		}),

		Orgs: orgs.NewHandler(orgs.Config{
			UserManager: cfg.UserManager,
			Translator:  translator,
		}),

		Profile: profile.NewHandler(profile.Config{
			UserManager: cfg.UserManager,
			Storage:     cfg.Storage,
			Translator:  translator,
		}),

		LangPacks: langpacks.NewHandler(langpacks.Config{
			LangPackRepo: cfg.LangPackRepo,
			Translator:   cfg.Translator,
		}),

		jwtService:  cfg.JWTService,
		storage:     cfg.Storage,
		translator:  cfg.Translator,
		rateLimiter: rateLimiter,
	}
}

// HasStorage returns true if a storage backend is configured
func (a *API) HasStorage() bool {
	return a.storage != nil
}

// Shutdown stops background workers owned by the API
func (a *API) Shutdown() {
	if a.rateLimiter != nil {
		a.rateLimiter.Stop()
	}
}
