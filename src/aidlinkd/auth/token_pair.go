package auth

import (
	"time"

	"github.com/aidlink/aidlink/src/common/errors"
)

// TokenPair represents an access token and refresh token pair
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	ExpiresIn    int64     `json:"expires_in"` // seconds until access token expiry
}

// GenerateTokenPair issues a fresh access token plus a refresh token
func (s *JWTService) GenerateTokenPair(user *User) (*TokenPair, error) {
	accessToken, expiresAt, err := s.GenerateToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, _, err := s.users.CreateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		ExpiresIn:    int64(time.Until(expiresAt).Seconds()),
	}, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new token
// pair. The used refresh token is rotated: revoked and replaced, so a
// replayed token fails validation.
func (s *JWTService) RefreshAccessToken(plainRefreshToken string) (*TokenPair, *User, error) {
	record, err := s.users.ValidateRefreshToken(plainRefreshToken)
	if err != nil {
		return nil, nil, err
	}

	user, err := s.users.GetUserByID(record.UserID)
	if err != nil {
		return nil, nil, errors.ErrRefreshTokenInvalid
	}

	if err := s.users.UpdateRefreshTokenLastUsed(record.ID); err != nil {
		return nil, nil, err
	}
	if err := s.users.RevokeRefreshToken(record.ID); err != nil {
		return nil, nil, err
	}

	pair, err := s.GenerateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	return pair, user, nil
}
