package auth

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/aidlink/aidlink/src/common/errors"
)

func TestJWTGenerateAndValidate(t *testing.T) {
	users := NewUserManager(setupTestDB(t))
	jwtService := NewJWTService(DefaultJWTConfig(), users)

	user, _, err := users.CreateUser("jwt@example.com", "pass", "JWT User", UserTypeIndividual)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	token, expiresAt, err := jwtService.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	remaining := time.Until(expiresAt)
	if remaining > AccessTokenDuration || remaining < AccessTokenDuration-10*time.Second {
		t.Errorf("unexpected token lifetime: %v", remaining)
	}

	claims, err := jwtService.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != user.ID || claims.Email != user.Email || claims.Slug != user.Slug {
		t.Errorf("claims do not match the user: %+v", claims)
	}
	if claims.Verified {
		t.Error("claims should carry the unverified state")
	}
}

func TestJWTRejectsGarbage(t *testing.T) {
	users := NewUserManager(setupTestDB(t))
	jwtService := NewJWTService(DefaultJWTConfig(), users)

	if _, err := jwtService.ValidateToken("not.a.token"); !stderrors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestJWTRevocation(t *testing.T) {
	users := NewUserManager(setupTestDB(t))
	jwtService := NewJWTService(DefaultJWTConfig(), users)

	user, _, err := users.CreateUser("revoke@example.com", "pass", "R", UserTypeIndividual)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	token, _, err := jwtService.GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if err := jwtService.RevokeToken(token); err != nil {
		t.Fatalf("RevokeToken failed: %v", err)
	}

	if _, err := jwtService.ValidateToken(token); !stderrors.Is(err, ErrRevokedToken) {
		t.Errorf("expected ErrRevokedToken, got %v", err)
	}
}

func TestRefreshTokenLifecycle(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	user, _, err := users.CreateUser("refresh@example.com", "pass", "R", UserTypeIndividual)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	plain, record, err := users.CreateRefreshToken(user.ID)
	if err != nil {
		t.Fatalf("CreateRefreshToken failed: %v", err)
	}
	if plain == record.TokenHash {
		t.Error("stored hash must differ from the plain token")
	}

	validated, err := users.ValidateRefreshToken(plain)
	if err != nil {
		t.Fatalf("ValidateRefreshToken failed: %v", err)
	}
	if validated.UserID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, validated.UserID)
	}

	if err := users.RevokeRefreshToken(record.ID); err != nil {
		t.Fatalf("RevokeRefreshToken failed: %v", err)
	}
	if _, err := users.ValidateRefreshToken(plain); !stderrors.Is(err, errors.ErrRefreshTokenRevoked) {
		t.Errorf("expected ErrRefreshTokenRevoked, got %v", err)
	}
}

func TestValidateRefreshTokenUnknown(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	if _, err := users.ValidateRefreshToken("never-issued"); !stderrors.Is(err, errors.ErrRefreshTokenInvalid) {
		t.Errorf("expected ErrRefreshTokenInvalid, got %v", err)
	}
}

func TestRevokeAllUserRefreshTokens(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	user, _, err := users.CreateUser("all@example.com", "pass", "A", UserTypeIndividual)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	plain1, _, err := users.CreateRefreshToken(user.ID)
	if err != nil {
		t.Fatalf("CreateRefreshToken failed: %v", err)
	}
	plain2, _, err := users.CreateRefreshToken(user.ID)
	if err != nil {
		t.Fatalf("CreateRefreshToken failed: %v", err)
	}

	if err := users.RevokeAllUserRefreshTokens(user.ID); err != nil {
		t.Fatalf("RevokeAllUserRefreshTokens failed: %v", err)
	}

	for _, plain := range []string{plain1, plain2} {
		if _, err := users.ValidateRefreshToken(plain); err == nil {
			t.Error("revoked token still validates")
		}
	}
}
