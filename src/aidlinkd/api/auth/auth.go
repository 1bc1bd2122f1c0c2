package auth

import (
	"net/http"

	"github.com/aidlink/aidlink/src/aidlinkd/api/common"
	coreauth "github.com/aidlink/aidlink/src/aidlinkd/auth"
	"github.com/aidlink/aidlink/src/common/errors"
	"github.com/aidlink/aidlink/src/common/logs"
	"github.com/aidlink/aidlink/src/common/sanitize"
	"github.com/gin-gonic/gin"
)

var log *logs.Logger

// SetLogger sets the logger for the auth api package
func SetLogger(l *logs.Logger) {
	log = l
}

const minPasswordLength = 8

// NewHandler creates a new auth handler
func NewHandler(cfg Config) *Handler {
	return &Handler{
		userManager: cfg.UserManager,
		jwtService:  cfg.JWTService,
	}
}

func userJSON(user *coreauth.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"email":      user.Email,
		"name":       sanitize.Output(user.Name),
		"slug":       user.Slug,
		"type":       user.Type,
		"verified":   user.Verified,
		"created_at": user.CreatedAt,
	}
}

func claimsJSON(claims *coreauth.TokenClaims) gin.H {
	return gin.H{
		"id":       claims.UserID,
		"email":    claims.Email,
		"name":     claims.Name,
		"slug":     claims.Slug,
		"type":     claims.Type,
		"verified": claims.Verified,
	}
}

// HandleRegister handles account registration and creates a new user
func (h *Handler) HandleRegister(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrInvalidJSON.ToResponse())
		return
	}

	var fields []errors.ValidationError
	if len(req.Password) < minPasswordLength {
		fields = append(fields, errors.NewValidationField("password", "Password must be at least 8 characters"))
	}
	if req.Type == "" {
		req.Type = coreauth.UserTypeIndividual
	}
	if req.Type != coreauth.UserTypeIndividual && req.Type != coreauth.UserTypeOrg {
		fields = append(fields, errors.NewValidationField("type", "Type must be individual or org"))
	}
	if len(fields) > 0 {
		c.JSON(http.StatusUnprocessableEntity, errors.NewValidationResponse(fields))
		return
	}

	user, verificationToken, err := h.userManager.CreateUser(req.Email, req.Password, sanitize.Input(req.Name), req.Type)
	if err != nil {
		status := errors.GetHTTPStatus(err)
		c.JSON(status, errors.NewResponse(err))
		return
	}

	// Verification is delivered out of band. Until a mailer is wired in,
	// the token only lands in the server log.
	if log != nil {
		log.Info("Verification token issued", "user_id", user.ID, "email", user.Email, "token", verificationToken)
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	common.AuditLog(c, common.AuditEvent{
		Action:   "auth.register",
		UserID:   user.ID,
		UserName: user.Slug,
		Resource: "user:" + user.Slug,
		Success:  true,
	})

	c.Header("X-Subject-Token", tokenPair.AccessToken)
	c.JSON(http.StatusCreated, gin.H{
		"user":          userJSON(user),
		"access_token":  tokenPair.AccessToken,
		"refresh_token": tokenPair.RefreshToken,
		"expires_at":    tokenPair.ExpiresAt,
		"expires_in":    tokenPair.ExpiresIn,
	})
}

// HandleLogin handles user authentication with email and password
func (h *Handler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrInvalidJSON.ToResponse())
		return
	}

	user, err := h.userManager.VerifyCredentials(req.Email, req.Password)
	if err != nil {
		common.AuditLog(c, common.AuditEvent{
			Action:  "auth.login",
			Detail:  "invalid credentials",
			Success: false,
		})
		c.JSON(http.StatusUnauthorized, errors.ErrInvalidCredentials.ToResponse())
		return
	}

	tokenPair, err := h.jwtService.GenerateTokenPair(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	common.AuditLog(c, common.AuditEvent{
		Action:   "auth.login",
		UserID:   user.ID,
		UserName: user.Slug,
		Resource: "user:" + user.Slug,
		Success:  true,
	})

	c.Header("X-Subject-Token", tokenPair.AccessToken)
	c.JSON(http.StatusOK, gin.H{
		"user":          userJSON(user),
		"access_token":  tokenPair.AccessToken,
		"refresh_token": tokenPair.RefreshToken,
		"expires_at":    tokenPair.ExpiresAt,
		"expires_in":    tokenPair.ExpiresIn,
	})
}

// HandleLogout handles user logout and revokes the current JWT token
func (h *Handler) HandleLogout(c *gin.Context) {
	token := common.GetTokenFromRequest(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, errors.ErrNoToken.ToResponse())
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		if errors.Is(err, errors.ErrTokenRevoked) {
			c.JSON(http.StatusUnauthorized, errors.ErrTokenRevoked.WithMessage("Token already revoked").ToResponse())
			return
		}
		c.JSON(http.StatusUnauthorized, errors.ErrTokenInvalid.ToResponse())
		return
	}

	if err := h.jwtService.RevokeToken(token); err != nil {
		if log != nil {
			log.Error("Failed to revoke token", "user", claims.Slug, "user_id", claims.UserID, "error", err)
		}
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	if log != nil {
		log.Info("User logged out", "user", claims.Slug, "user_id", claims.UserID)
	}

	common.AuditLog(c, common.AuditEvent{
		Action:   "auth.logout",
		UserID:   claims.UserID,
		UserName: claims.Slug,
		Resource: "user:" + claims.Slug,
		Success:  true,
	})

	c.JSON(498, gin.H{
		"message": "Token revoked successfully",
		"user_id": claims.UserID,
	})
}

// HandleRefresh handles token refresh requests
func (h *Handler) HandleRefresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrInvalidJSON.ToResponse())
		return
	}

	tokenPair, user, err := h.jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		status := errors.GetHTTPStatus(err)
		c.JSON(status, errors.NewResponse(err))
		return
	}

	if log != nil {
		log.Debug("Token refreshed", "user", user.Slug, "user_id", user.ID)
	}

	c.Header("X-Subject-Token", tokenPair.AccessToken)
	c.JSON(http.StatusOK, gin.H{
		"user":          userJSON(user),
		"access_token":  tokenPair.AccessToken,
		"refresh_token": tokenPair.RefreshToken,
		"expires_at":    tokenPair.ExpiresAt,
		"expires_in":    tokenPair.ExpiresIn,
	})
}

// HandleValidate validates the current access token and returns user info
func (h *Handler) HandleValidate(c *gin.Context) {
	token := common.GetTokenFromRequest(c)
	if token == "" {
		c.JSON(http.StatusUnauthorized, errors.ErrNoToken.ToResponse())
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		status := errors.GetHTTPStatus(err)
		c.JSON(status, errors.NewResponse(err))
		return
	}

	if log != nil {
		log.Debug("Token validated", "user", claims.Slug, "user_id", claims.UserID)
	}

	c.JSON(http.StatusOK, gin.H{
		"valid": true,
		"user":  claimsJSON(claims),
	})
}

// HandleVerify confirms an account using the emailed verification token
func (h *Handler) HandleVerify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrInvalidJSON.ToResponse())
		return
	}

	ok, err := h.userManager.VerifyUser(req.Token, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}
	if !ok {
		common.AuditLog(c, common.AuditEvent{
			Action:  "auth.verify",
			Detail:  "token or email mismatch",
			Success: false,
		})
		c.JSON(http.StatusBadRequest, errors.ErrVerificationFailed.ToResponse())
		return
	}

	common.AuditLog(c, common.AuditEvent{
		Action:   "auth.verify",
		Resource: "user:" + req.Email,
		Success:  true,
	})

	c.JSON(http.StatusOK, gin.H{"verified": true})
}

// HandleForgotPassword issues a password reset token for an account
func (h *Handler) HandleForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrInvalidJSON.ToResponse())
		return
	}

	token, err := h.userManager.BeginPasswordReset(req.Email)
	if err != nil {
		// A missing account gets the same response as a found one so the
		// endpoint cannot be used to probe for registered emails.
		if errors.Is(err, errors.ErrUserNotFound) {
			c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset token has been sent"})
			return
		}
		c.JSON(http.StatusInternalServerError, errors.ErrInternal.ToResponse())
		return
	}

	if log != nil {
		log.Info("Password reset token issued", "email", req.Email, "token", token)
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the account exists, a reset token has been sent"})
}

// HandleResetPassword completes a password reset using the emailed token
func (h *Handler) HandleResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ErrInvalidJSON.ToResponse())
		return
	}

	if len(req.Password) < minPasswordLength {
		c.JSON(http.StatusUnprocessableEntity, errors.NewValidationResponse([]errors.ValidationError{
			errors.NewValidationField("password", "Password must be at least 8 characters"),
		}))
		return
	}

	if err := h.userManager.UpdatePassword(req.Email, req.Password, req.Token); err != nil {
		status := errors.GetHTTPStatus(err)
		c.JSON(status, errors.NewResponse(err))
		return
	}

	if user, err := h.userManager.GetUserByEmail(req.Email); err == nil {
		if err := h.userManager.RevokeAllUserRefreshTokens(user.ID); err != nil && log != nil {
			log.Warn("Failed to revoke refresh tokens after password reset", "email", req.Email, "error", err)
		}
	}

	common.AuditLog(c, common.AuditEvent{
		Action:   "auth.reset_password",
		Resource: "user:" + req.Email,
		Success:  true,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}
