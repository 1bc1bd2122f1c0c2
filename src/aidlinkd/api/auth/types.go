package auth

import (
	coreauth "github.com/aidlink/aidlink/src/aidlinkd/auth"
)

// Handler handles authentication HTTP requests
type Handler struct {
	userManager *coreauth.UserManager
	jwtService  *coreauth.JWTService
}

// Config contains configuration options for the Handler
type Config struct {
	UserManager *coreauth.UserManager
	JWTService  *coreauth.JWTService
}

// RegisterRequest represents the account registration request body
type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Type     string `json:"type"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the refresh token request body
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// VerifyRequest represents the account verification request body
type VerifyRequest struct {
	Token string `json:"token" binding:"required"`
	Email string `json:"email" binding:"required"`
}

// ForgotPasswordRequest represents the password reset initiation body
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest represents the password reset completion body
type ResetPasswordRequest struct {
	Email    string `json:"email" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required"`
}
