package api

import (
	"fmt"
	"net/http"

	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	"github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/aidlinkd/i18n"
	"github.com/aidlink/aidlink/src/common/errors"
	"github.com/gin-gonic/gin"
)

// rateLimitAuth returns middleware that rate-limits auth endpoints (login/register/refresh).
func (a *API) rateLimitAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.rateLimiter == nil {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if !a.rateLimiter.Allow(key, a.rateLimiter.config.AuthRequestsPerMin) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errors.ErrRateLimited.ToResponse())
			return
		}
		c.Next()
	}
}

// rateLimitAPI returns middleware that rate-limits general API endpoints.
func (a *API) rateLimitAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.rateLimiter == nil {
			c.Next()
			return
		}
		// Use user ID if authenticated, otherwise fall back to IP
		key := "ip:" + c.ClientIP()
		if claims, ok := c.Get("claims"); ok {
			if tc, ok := claims.(*auth.TokenClaims); ok {
				key = fmt.Sprintf("user:%s", tc.UserID)
			}
		}
		if !a.rateLimiter.Allow(key, a.rateLimiter.config.APIRequestsPerMin) {
			c.Header("Retry-After", "60")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errors.ErrRateLimited.ToResponse())
			return
		}
		c.Next()
	}
}

// getTokenClaims extracts and validates JWT claims from the request.
// Returns nil if no valid token is present (for optional auth).
func (a *API) getTokenClaims(c *gin.Context) *auth.TokenClaims {
	return common.GetTokenClaimsFromRequest(c, a.jwtService)
}

// authRequired is a middleware that requires a valid JWT token
func (a *API) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := a.getTokenClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "Unauthorized",
				Code:    http.StatusUnauthorized,
				Message: "Authentication required",
			})
			return
		}

		// Store claims in context for handlers to use
		c.Set("claims", claims)
		c.Next()
	}
}

// verifiedRequired is a middleware that requires an authenticated and
// verified account. Unverified accounts can read but not publish.
func (a *API) verifiedRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := a.getTokenClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Error:   "Unauthorized",
				Code:    http.StatusUnauthorized,
				Message: "Authentication required",
			})
			return
		}

		if !claims.Verified {
			c.AbortWithStatusJSON(http.StatusForbidden, errors.ErrUserNotVerified.ToResponse())
			return
		}

		c.Set("claims", claims)
		c.Next()
	}
}

// localeMiddleware negotiates the response locale from the
// Accept-Language header and stores it in the request context.
func (a *API) localeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		locale := i18n.DefaultLocale
		if a.translator != nil {
			locale = a.translator.Match(c.GetHeader("Accept-Language"))
		}
		c.Set("locale", locale)
		c.Next()
	}
}
