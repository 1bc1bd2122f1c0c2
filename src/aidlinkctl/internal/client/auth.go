package client

import "context"

// User represents the account snapshot returned by the auth endpoints
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Type      string `json:"type"`
	Verified  bool   `json:"verified"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LoginResponse represents the login API response
type LoginResponse struct {
	User         User   `json:"user"`
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
	ExpiresIn    int64  `json:"expires_in"`
}

// ValidateResponse represents the validate API response
type ValidateResponse struct {
	Valid bool `json:"valid"`
	User  User `json:"user"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents an account registration request
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// VerifyRequest represents an account verification request
type VerifyRequest struct {
	Token string `json:"token"`
	Email string `json:"email"`
}

// ForgotPasswordRequest represents a password reset initiation request
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest represents a password reset completion request
type ResetPasswordRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// Login authenticates with the server and returns tokens
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := LoginRequest{Email: email, Password: password}

	var resp LoginResponse
	if err := c.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, email, password, name, accountType string) (*LoginResponse, error) {
	req := RegisterRequest{Email: email, Password: password, Name: name, Type: accountType}

	var resp LoginResponse
	if err := c.Post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout revokes the current token
func (c *Client) Logout(ctx context.Context) error {
	return c.Post(ctx, "/auth/logout", nil, nil)
}

// Refresh exchanges a refresh token for new tokens
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	req := RefreshRequest{RefreshToken: refreshToken}
	var resp LoginResponse
	if err := c.Post(ctx, "/auth/refresh", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Validate checks the current token and returns user info
func (c *Client) Validate(ctx context.Context) (*ValidateResponse, error) {
	var resp ValidateResponse
	if err := c.Get(ctx, "/auth/validate", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Verify confirms an account with the emailed verification token
func (c *Client) Verify(ctx context.Context, token, email string) error {
	req := VerifyRequest{Token: token, Email: email}
	return c.Post(ctx, "/auth/verify", req, nil)
}

// ForgotPassword requests a password reset token for the account
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	req := ForgotPasswordRequest{Email: email}
	return c.Post(ctx, "/auth/forgot-password", req, nil)
}

// ResetPassword completes a password reset with the emailed token
func (c *Client) ResetPassword(ctx context.Context, email, token, password string) error {
	req := ResetPasswordRequest{Email: email, Token: token, Password: password}
	return c.Post(ctx, "/auth/reset-password", req, nil)
}
