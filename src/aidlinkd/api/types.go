package api

import (
	apiauth "github.com/aidlink/aidlink/src/aidlinkd/api/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/api/base"
	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	"github.com/aidlink/aidlink/src/aidlinkd/api/langpacks"
	"github.com/aidlink/aidlink/src/aidlinkd/api/orgs"
	"github.com/aidlink/aidlink/src/aidlinkd/api/posts"
	"github.com/aidlink/aidlink/src/aidlinkd/api/profile"
	"github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/db"
	"github.com/aidlink/aidlink/src/aidlinkd/i18n"
	"github.com/aidlink/aidlink/src/aidlinkd/storage"
)

// ErrorResponse is an alias to common.ErrorResponse for backwards compatibility
type ErrorResponse = common.ErrorResponse

// API holds all handler instances and dependencies
type API struct {
	// Subpackage handlers
	Base      *base.Handler
	Auth      *apiauth.Handler
	Posts     *posts.Handler
	Orgs      *orgs.Handler
	Profile   *profile.Handler
	LangPacks *langpacks.Handler

	// Direct dependencies for middleware
	jwtService  *auth.JWTService
	storage     storage.Backend
	translator  *i18n.Translator
	rateLimiter *RateLimiter
}

// Config contains API configuration options
type Config struct {
	PostRepo     *db.PostRepository
	LangPackRepo *db.LanguagePackRepository
	Database     *db.Database
	Storage      storage.Backend
	UserManager  *auth.UserManager
	JWTService   *auth.JWTService
	Translator   *i18n.Translator
	RateLimit    RateLimitConfig
}
