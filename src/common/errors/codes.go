package errors

import "net/http"

// Common error codes used across domains
const (
	CodeNotFound       Code = "not_found"
	CodeAlreadyExists  Code = "already_exists"
	CodeInvalidRequest Code = "invalid_request"
	CodeUnauthorized   Code = "unauthorized"
	CodeForbidden      Code = "forbidden"
	CodeConflict       Code = "conflict"
	CodeInternal       Code = "internal_error"
	CodeUnavailable    Code = "unavailable"
	CodeTimeout        Code = "timeout"
	CodeRateLimited    Code = "rate_limited"
)

// ============================================================================
// Authentication Errors
// ============================================================================

var (
	// ErrInvalidCredentials is returned when authentication fails due to invalid credentials
	ErrInvalidCredentials = New(DomainAuth, "invalid_credentials", http.StatusUnauthorized,
		"Invalid credentials")

	// ErrTokenExpired is returned when a JWT token has expired
	ErrTokenExpired = New(DomainAuth, "token_expired", http.StatusUnauthorized,
		"Token has expired")

	// ErrTokenInvalid is returned when a JWT token is malformed or invalid
	ErrTokenInvalid = New(DomainAuth, "token_invalid", http.StatusUnauthorized,
		"Invalid token")

	// ErrTokenRevoked is returned when a JWT token has been revoked
	ErrTokenRevoked = New(DomainAuth, "token_revoked", http.StatusUnauthorized,
		"Token has been revoked")

	// ErrNoToken is returned when no authentication token is provided
	ErrNoToken = New(DomainAuth, "no_token", http.StatusUnauthorized,
		"No authentication token provided")

	// ErrRefreshTokenInvalid is returned when a refresh token is unknown or malformed
	ErrRefreshTokenInvalid = New(DomainAuth, "refresh_token_invalid", http.StatusUnauthorized,
		"Invalid refresh token")

	// ErrRefreshTokenExpired is returned when a refresh token has passed its expiry
	ErrRefreshTokenExpired = New(DomainAuth, "refresh_token_expired", http.StatusUnauthorized,
		"Refresh token has expired")

	// ErrRefreshTokenRevoked is returned when a refresh token has been revoked
	ErrRefreshTokenRevoked = New(DomainAuth, "refresh_token_revoked", http.StatusUnauthorized,
		"Refresh token has been revoked")

	// ErrNotOwner is returned when a user tries to modify a resource they do not own
	ErrNotOwner = New(DomainAuth, CodeForbidden, http.StatusForbidden,
		"Only the creator may modify this resource")

	// ErrRateLimited is returned when a client exceeds the request rate limit
	ErrRateLimited = New(DomainAuth, CodeRateLimited, http.StatusTooManyRequests,
		"Too many requests")
)

// ============================================================================
// User Errors
// ============================================================================

var (
	// ErrUserNotFound is returned when a user cannot be found
	ErrUserNotFound = New(DomainUser, CodeNotFound, http.StatusNotFound,
		"User not found")

	// ErrEmailAlreadyExists is returned when the email is already registered
	ErrEmailAlreadyExists = New(DomainUser, "email_exists", http.StatusConflict,
		"Email already exists")

	// ErrUserNotVerified is returned when an unverified user attempts a verified-only action
	ErrUserNotVerified = New(DomainUser, "not_verified", http.StatusForbidden,
		"Account is not verified")

	// ErrVerificationFailed is returned when a verification token does not match
	ErrVerificationFailed = New(DomainUser, "verification_failed", http.StatusBadRequest,
		"Verification token does not match")

	// ErrInvalidUserData is returned when user data fails validation
	ErrInvalidUserData = New(DomainUser, CodeInvalidRequest, http.StatusBadRequest,
		"Invalid user data")
)

// ============================================================================
// Post Errors
// ============================================================================

var (
	// ErrPostNotFound is returned when a post cannot be found
	ErrPostNotFound = New(DomainPost, CodeNotFound, http.StatusNotFound,
		"Post not found")

	// ErrPostSlugExists is returned when a post slug is already taken
	ErrPostSlugExists = New(DomainPost, CodeAlreadyExists, http.StatusConflict,
		"Post slug already exists")

	// ErrInvalidPostData is returned when post data fails validation
	ErrInvalidPostData = New(DomainPost, CodeInvalidRequest, http.StatusBadRequest,
		"Invalid post data")

	// ErrInvalidNeed is returned when a need category is outside the known set
	ErrInvalidNeed = New(DomainPost, "invalid_need", http.StatusBadRequest,
		"Unknown need category")
)

// ============================================================================
// Organization Errors
// ============================================================================

var (
	// ErrOrgNotFound is returned when an organization cannot be found
	ErrOrgNotFound = New(DomainOrg, CodeNotFound, http.StatusNotFound,
		"Organization not found")
)

// ============================================================================
// Storage Errors
// ============================================================================

var (
	// ErrStorageNotFound is returned when a storage object cannot be found
	ErrStorageNotFound = New(DomainStorage, CodeNotFound, http.StatusNotFound,
		"Object not found in storage")

	// ErrStorageUploadFailed is returned when a storage upload fails
	ErrStorageUploadFailed = New(DomainStorage, "upload_failed", http.StatusInternalServerError,
		"Failed to upload object to storage")

	// ErrStorageDownloadFailed is returned when a storage download fails
	ErrStorageDownloadFailed = New(DomainStorage, "download_failed", http.StatusInternalServerError,
		"Failed to download object from storage")

	// ErrStorageUnavailable is returned when the storage backend is unavailable
	ErrStorageUnavailable = New(DomainStorage, CodeUnavailable, http.StatusServiceUnavailable,
		"Storage backend unavailable")
)

// ============================================================================
// Database Errors
// ============================================================================

var (
	// ErrDatabaseConnection is returned when database connection fails
	ErrDatabaseConnection = New(DomainDatabase, "connection_failed", http.StatusServiceUnavailable,
		"Database connection failed")

	// ErrDatabaseQuery is returned when a database query fails
	ErrDatabaseQuery = New(DomainDatabase, "query_failed", http.StatusInternalServerError,
		"Database query failed")

	// ErrDatabaseTransaction is returned when a database transaction fails
	ErrDatabaseTransaction = New(DomainDatabase, "transaction_failed", http.StatusInternalServerError,
		"Database transaction failed")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	// ErrValidationFailed is returned when request validation fails
	ErrValidationFailed = New(DomainValidation, "validation_failed", http.StatusUnprocessableEntity,
		"Validation failed")

	// ErrMissingRequiredField is returned when a required field is missing
	ErrMissingRequiredField = New(DomainValidation, "missing_field", http.StatusBadRequest,
		"Missing required field")

	// ErrInvalidFieldValue is returned when a field value is invalid
	ErrInvalidFieldValue = New(DomainValidation, "invalid_value", http.StatusBadRequest,
		"Invalid field value")

	// ErrInvalidJSON is returned when JSON parsing fails
	ErrInvalidJSON = New(DomainValidation, "invalid_json", http.StatusBadRequest,
		"Invalid JSON")
)

// ============================================================================
// I18n Errors
// ============================================================================

var (
	// ErrLanguagePackNotFound is returned when a locale has no installed pack
	ErrLanguagePackNotFound = New(DomainI18n, CodeNotFound, http.StatusNotFound,
		"Language pack not found")

	// ErrInvalidLanguagePack is returned when an uploaded pack fails parsing
	ErrInvalidLanguagePack = New(DomainI18n, CodeInvalidRequest, http.StatusBadRequest,
		"Invalid language pack archive")
)

// ============================================================================
// Internal Errors
// ============================================================================

var (
	// ErrInternal is a generic internal server error
	ErrInternal = New(DomainInternal, CodeInternal, http.StatusInternalServerError,
		"Internal server error")

	// ErrNotImplemented is returned when a feature is not implemented
	ErrNotImplemented = New(DomainInternal, "not_implemented", http.StatusNotImplemented,
		"Not implemented")
)
