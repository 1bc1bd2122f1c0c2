// Package auth provides user accounts, credentials and token management
// for aidlinkd.
package auth

import (
	"time"

	"github.com/aidlink/aidlink/src/aidlinkd/db"
)

// Account types. Organizations get a public profile and appear in the
// organizations directory once verified.
const (
	UserTypeIndividual = "individual"
	UserTypeOrg        = "org"
)

// User represents a platform account
type User struct {
	ID             string       `json:"id"`
	Email          string       `json:"email"`
	PasswordHash   string       `json:"-"` // Never expose in JSON
	Name           string       `json:"name"`
	Type           string       `json:"type"`
	Slug           string       `json:"slug"`
	Verified       bool         `json:"verified"`
	Token          string       `json:"-"` // Pending verification or reset token
	Bio            string       `json:"bio,omitempty"`
	Photo          string       `json:"photo,omitempty"`
	PhotoThumbnail string       `json:"photo_thumbnail,omitempty"`
	Website        string       `json:"website,omitempty"`
	Address        string       `json:"address,omitempty"`
	PostalCode     string       `json:"postal_code,omitempty"`
	City           string       `json:"city,omitempty"`
	District       string       `json:"district,omitempty"`
	Contacts       []db.Contact `json:"contacts"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// TokenClaims represents the JWT token claims
type TokenClaims struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Type     string `json:"type"`
	Verified bool   `json:"verified"`
	TokenID  string `json:"jti"` // JWT ID for revocation tracking
}

// RevokedToken represents a revoked JWT token
type RevokedToken struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"` // Keep until original expiry for cleanup
}

// RefreshToken represents a refresh token stored in the database
type RefreshToken struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	TokenHash  string    `json:"-"` // Never expose the hash
	ExpiresAt  time.Time `json:"expires_at"`
	CreatedAt  time.Time `json:"created_at"`
	LastUsedAt time.Time `json:"last_used_at,omitempty"`
	Revoked    bool      `json:"revoked"`
}

// FieldValue is one (field, value) pair for a partial profile update
type FieldValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}
