package auth

import (
	"database/sql"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/aidlink/aidlink/src/aidlinkd/db"
	"github.com/aidlink/aidlink/src/aidlinkd/db/migrations"
	"github.com/aidlink/aidlink/src/common/errors"
	"golang.org/x/crypto/bcrypt"
)

// setupTestDB creates an in-memory database with the full schema applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.New(db.Config{Path: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Shutdown() })

	if err := migrations.NewRunner(database.DB()).Run(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return database.DB()
}

func TestCreateUser(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	user, token, err := users.CreateUser("ana@example.com", "s3cret-pass", "Ana", UserTypeIndividual)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if user.PasswordHash != "" {
		t.Error("returned user must not carry the password hash")
	}
	if token == "" {
		t.Error("expected a verification token")
	}
	if user.Verified {
		t.Error("new accounts must start unverified")
	}
	if !strings.HasPrefix(user.Slug, "ana-") {
		t.Errorf("slug should derive from the email local part, got %s", user.Slug)
	}

	// The stored hash verifies the password but never equals it
	var storedHash string
	err = users.db.QueryRow("SELECT password_hash FROM users WHERE email = ?", "ana@example.com").Scan(&storedHash)
	if err != nil {
		t.Fatalf("failed to read stored hash: %v", err)
	}
	if storedHash == "s3cret-pass" {
		t.Error("password stored verbatim")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("s3cret-pass")); err != nil {
		t.Errorf("stored hash does not verify the password: %v", err)
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	if _, _, err := users.CreateUser("dup@example.com", "pass1", "First", UserTypeIndividual); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	_, _, err := users.CreateUser("dup@example.com", "pass2", "Second", UserTypeIndividual)
	if !stderrors.Is(err, errors.ErrEmailAlreadyExists) {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestVerifyUser(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	_, token, err := users.CreateUser("org@example.com", "pass", "Org", UserTypeOrg)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	// Wrong token does nothing
	ok, err := users.VerifyUser("wrong-token", "org@example.com")
	if err != nil {
		t.Fatalf("VerifyUser failed: %v", err)
	}
	if ok {
		t.Error("verification must fail on a token mismatch")
	}

	// Right token but wrong email does nothing
	ok, err = users.VerifyUser(token, "someone-else@example.com")
	if err != nil {
		t.Fatalf("VerifyUser failed: %v", err)
	}
	if ok {
		t.Error("verification must require the matching email")
	}

	// Both matching verifies and clears the token
	ok, err = users.VerifyUser(token, "org@example.com")
	if err != nil {
		t.Fatalf("VerifyUser failed: %v", err)
	}
	if !ok {
		t.Fatal("expected verification to succeed")
	}

	user, err := users.GetUserByEmail("org@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if !user.Verified {
		t.Error("user should be verified")
	}
	if user.Token != "" {
		t.Error("verification token should be cleared")
	}

	// The consumed token cannot be replayed
	ok, err = users.VerifyUser(token, "org@example.com")
	if err != nil {
		t.Fatalf("VerifyUser failed: %v", err)
	}
	if ok {
		t.Error("a consumed token must not verify again")
	}
}

func TestUpdateUserFieldPairs(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	user, _, err := users.CreateUser("upd@example.com", "old-pass", "Before", UserTypeIndividual)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	err = users.UpdateUser(user.ID, []FieldValue{
		{Field: "name", Value: "After"},
		{Field: "bio", Value: "community volunteer"},
		{Field: "password", Value: "new-pass"},
	})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}

	got, err := users.GetUserByID(user.ID)
	if err != nil {
		t.Fatalf("GetUserByID failed: %v", err)
	}
	if got.Name != "After" || got.Bio != "community volunteer" {
		t.Errorf("profile fields not updated: %+v", got)
	}

	// Password values are re-hashed, not stored raw
	if got.PasswordHash == "new-pass" {
		t.Error("password stored verbatim")
	}
	if _, err := users.VerifyCredentials("upd@example.com", "new-pass"); err != nil {
		t.Errorf("new password should authenticate: %v", err)
	}
	if _, err := users.VerifyCredentials("upd@example.com", "old-pass"); err == nil {
		t.Error("old password should no longer authenticate")
	}
}

func TestUpdateUserUnknownField(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	user, _, err := users.CreateUser("f@example.com", "pass", "F", UserTypeIndividual)
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	err = users.UpdateUser(user.ID, []FieldValue{{Field: "email", Value: "evil@example.com"}})
	if !stderrors.Is(err, errors.ErrInvalidFieldValue) {
		t.Errorf("expected ErrInvalidFieldValue for a non-allowlisted field, got %v", err)
	}
}

func TestUpdateUserUnknownUser(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	err := users.UpdateUser("missing-id", []FieldValue{{Field: "name", Value: "x"}})
	if !stderrors.Is(err, errors.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdatePasswordWithResetToken(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	if _, _, err := users.CreateUser("reset@example.com", "old", "R", UserTypeIndividual); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if err := users.UpdateUserToken("reset@example.com", "reset-token"); err != nil {
		t.Fatalf("UpdateUserToken failed: %v", err)
	}

	// Wrong token is rejected
	err := users.UpdatePassword("reset@example.com", "hacked", "bad-token")
	if !stderrors.Is(err, errors.ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed, got %v", err)
	}

	if err := users.UpdatePassword("reset@example.com", "brand-new", "reset-token"); err != nil {
		t.Fatalf("UpdatePassword failed: %v", err)
	}
	if _, err := users.VerifyCredentials("reset@example.com", "brand-new"); err != nil {
		t.Errorf("new password should authenticate: %v", err)
	}

	// The token is single use
	err = users.UpdatePassword("reset@example.com", "again", "reset-token")
	if !stderrors.Is(err, errors.ErrVerificationFailed) {
		t.Errorf("expected ErrVerificationFailed on token reuse, got %v", err)
	}
}

func TestVerifyCredentials(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	if _, _, err := users.CreateUser("login@example.com", "right", "L", UserTypeIndividual); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	if _, err := users.VerifyCredentials("login@example.com", "right"); err != nil {
		t.Errorf("valid credentials rejected: %v", err)
	}
	if _, err := users.VerifyCredentials("login@example.com", "wrong"); !stderrors.Is(err, errors.ErrInvalidCredentials) {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := users.VerifyCredentials("ghost@example.com", "right"); !stderrors.Is(err, errors.ErrInvalidCredentials) {
		t.Errorf("unknown email must look like bad credentials, got %v", err)
	}
}

func TestGetOrgs(t *testing.T) {
	users := NewUserManager(setupTestDB(t))

	seed := func(email, name, userType string, verified bool) {
		t.Helper()
		_, token, err := users.CreateUser(email, "pass", name, userType)
		if err != nil {
			t.Fatalf("CreateUser failed: %v", err)
		}
		if verified {
			if _, err := users.VerifyUser(token, email); err != nil {
				t.Fatalf("VerifyUser failed: %v", err)
			}
		}
	}

	seed("zeta@example.com", "Zeta Aid", UserTypeOrg, true)
	seed("alpha@example.com", "Alpha Relief", UserTypeOrg, true)
	seed("pending@example.com", "Pending Org", UserTypeOrg, false)
	seed("person@example.com", "Just A Person", UserTypeIndividual, true)

	orgs, err := users.GetOrgs()
	if err != nil {
		t.Fatalf("GetOrgs failed: %v", err)
	}

	if len(orgs) != 2 {
		t.Fatalf("expected only verified orgs, got %d", len(orgs))
	}
	if orgs[0].Name != "Alpha Relief" || orgs[1].Name != "Zeta Aid" {
		t.Errorf("orgs not ordered by name: %s, %s", orgs[0].Name, orgs[1].Name)
	}

	total, err := users.CountOrgs()
	if err != nil {
		t.Fatalf("CountOrgs failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 verified orgs, got %d", total)
	}

	// Unverified orgs have no public profile
	if _, err := users.GetOrgBySlug("pending-org"); err == nil {
		t.Error("unverified org should not resolve by slug")
	}
}
