// Package common holds response helpers shared by the api subpackages.
package common

import (
	"net/http"

	"github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/common/errors"
	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/gin-gonic/gin"
)

var log = logs.NewDefault()

// SetLogger sets the logger for the common package
func SetLogger(l *logs.Logger) {
	if l != nil {
		log = l
	}
}

// ErrorResponse is the standard error payload
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Translator resolves a message key for a locale
type Translator interface {
	T(locale, key string) string
}

// RespondError writes the HTTP response for a failed operation. Client
// errors keep their structured payload. Anything at or above 500 is
// logged in full and collapses to the generic internal message resolved
// for the request locale, so driver and query detail stays server-side.
func RespondError(c *gin.Context, tr Translator, err error) {
	status := errors.GetHTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "path", c.FullPath(), "error", err)
		message := "Internal server error"
		if tr != nil {
			message = tr.T(GetLocaleFromContext(c), "error.internal")
		}
		c.JSON(status, ErrorResponse{
			Error:   "Internal server error",
			Code:    status,
			Message: message,
		})
		return
	}
	c.JSON(status, errors.NewResponse(err))
}

// GetClaimsFromContext retrieves the token claims stored by auth middleware
func GetClaimsFromContext(c *gin.Context) *auth.TokenClaims {
	if claims, exists := c.Get("claims"); exists {
		if tokenClaims, ok := claims.(*auth.TokenClaims); ok {
			return tokenClaims
		}
	}
	return nil
}

// GetLocaleFromContext retrieves the negotiated locale stored by the
// locale middleware. Empty means the default locale.
func GetLocaleFromContext(c *gin.Context) string {
	return c.GetString("locale")
}

// GetTokenFromRequest extracts the bearer token from the request headers
func GetTokenFromRequest(c *gin.Context) string {
	token := c.GetHeader("X-Subject-Token")
	if token == "" {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}
	return token
}

// GetTokenClaimsFromRequest extracts and validates JWT claims from the request headers
func GetTokenClaimsFromRequest(c *gin.Context, jwtService *auth.JWTService) *auth.TokenClaims {
	token := GetTokenFromRequest(c)
	if token == "" {
		return nil
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}

	return claims
}

// BadRequest sends a 400 Bad Request response
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "Bad request",
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// NotFound sends a 404 Not Found response
func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "Not found",
		Code:    http.StatusNotFound,
		Message: message,
	})
}

// InternalError sends a 500 Internal Server Error response
func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal server error",
		Code:    http.StatusInternalServerError,
		Message: message,
	})
}

// Unauthorized sends a 401 Unauthorized response
func Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "Unauthorized",
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}

// Forbidden sends a 403 Forbidden response
func Forbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, ErrorResponse{
		Error:   "Forbidden",
		Code:    http.StatusForbidden,
		Message: message,
	})
}

// Conflict sends a 409 Conflict response
func Conflict(c *gin.Context, message string) {
	c.JSON(http.StatusConflict, ErrorResponse{
		Error:   "Conflict",
		Code:    http.StatusConflict,
		Message: message,
	})
}

// AbortUnauthorized aborts the request with a 401 Unauthorized response
func AbortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
		Error:   "Unauthorized",
		Code:    http.StatusUnauthorized,
		Message: message,
	})
}

// AbortForbidden aborts the request with a 403 Forbidden response
func AbortForbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
		Error:   "Forbidden",
		Code:    http.StatusForbidden,
		Message: message,
	})
}
