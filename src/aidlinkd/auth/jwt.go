package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken is returned when the token is invalid
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token has expired
	ErrExpiredToken = errors.New("token has expired")
	// ErrRevokedToken is returned when the token has been revoked
	ErrRevokedToken = errors.New("token has been revoked")
)

// AccessTokenDuration is the lifetime of an access token. Clients are
// expected to refresh before this elapses.
const AccessTokenDuration = 300 * time.Second

// JWTService handles JWT token generation and validation
type JWTService struct {
	secretKey     []byte
	issuer        string
	tokenDuration time.Duration
	users         *UserManager
}

// JWTConfig holds JWT service configuration
type JWTConfig struct {
	Issuer        string
	TokenDuration time.Duration
	// Secret signs tokens. Empty generates an ephemeral key, which
	// invalidates outstanding tokens on restart.
	Secret string
}

// DefaultJWTConfig returns default JWT configuration
func DefaultJWTConfig() JWTConfig {
	return JWTConfig{
		Issuer:        "aidlinkd",
		TokenDuration: AccessTokenDuration,
	}
}

// generateSecretKey generates a random 256-bit secret key
func generateSecretKey() string {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		// Fallback to a default (not recommended for production)
		return "aidlinkd-default-secret-key-change-me"
	}
	return hex.EncodeToString(bytes)
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg JWTConfig, users *UserManager) *JWTService {
	secret := cfg.Secret
	if secret == "" {
		secret = generateSecretKey()
	}
	duration := cfg.TokenDuration
	if duration == 0 {
		duration = AccessTokenDuration
	}

	return &JWTService{
		secretKey:     []byte(secret),
		issuer:        cfg.Issuer,
		tokenDuration: duration,
		users:         users,
	}
}

// TokenDuration returns the configured access token lifetime
func (s *JWTService) TokenDuration() time.Duration {
	return s.tokenDuration
}

// jwtClaims represents the full JWT claims structure
type jwtClaims struct {
	jwt.RegisteredClaims
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Type     string `json:"type"`
	Verified bool   `json:"verified"`
}

// GenerateToken generates a new JWT access token for a user
func (s *JWTService) GenerateToken(user *User) (string, time.Time, error) {
	tokenID := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(s.tokenDuration)

	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			Issuer:    s.issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
		},
		UserID:   user.ID,
		Email:    user.Email,
		Name:     user.Name,
		Slug:     user.Slug,
		Type:     user.Type,
		Verified: user.Verified,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	if s.users != nil {
		revoked, err := s.users.IsTokenRevoked(claims.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check token revocation: %w", err)
		}
		if revoked {
			return nil, ErrRevokedToken
		}
	}

	return &TokenClaims{
		UserID:   claims.UserID,
		Email:    claims.Email,
		Name:     claims.Name,
		Slug:     claims.Slug,
		Type:     claims.Type,
		Verified: claims.Verified,
		TokenID:  claims.ID,
	}, nil
}

// RevokeToken revokes a JWT access token
func (s *JWTService) RevokeToken(tokenString string) error {
	// Parse without full validation since we are revoking anyway
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})

	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return ErrInvalidToken
	}

	expiresAt := time.Now().UTC().Add(s.tokenDuration)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	return s.users.RevokeToken(claims.ID, claims.UserID, expiresAt)
}

// GetTokenExpiry returns the token expiry time from a token string
func (s *JWTService) GetTokenExpiry(tokenString string) (time.Time, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})

	if err != nil && !errors.Is(err, jwt.ErrTokenExpired) {
		return time.Time{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok {
		return time.Time{}, ErrInvalidToken
	}

	if claims.ExpiresAt != nil {
		return claims.ExpiresAt.Time, nil
	}

	return time.Time{}, ErrInvalidToken
}
