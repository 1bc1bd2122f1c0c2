package auth

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/aidlink/aidlink/src/aidlinkd/db"
	"github.com/aidlink/aidlink/src/common/errors"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost matches the work factor used for all stored password hashes
const bcryptCost = 10

// UserManager handles user and token persistence
type UserManager struct {
	db *sql.DB
}

// NewUserManager creates a new user manager
func NewUserManager(db *sql.DB) *UserManager {
	return &UserManager{db: db}
}

// userColumns is the full column list scanned into a User
const userColumns = `
	id, email, password_hash, name, type, slug, verified,
	COALESCE(token, ''), bio, photo, photo_thumbnail, website,
	address, postal_code, city, district, contacts, created_at, updated_at`

func scanUser(row interface{ Scan(...interface{}) error }) (*User, error) {
	var u User
	var contacts string

	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Type,
		&u.Slug, &u.Verified, &u.Token, &u.Bio, &u.Photo, &u.PhotoThumbnail,
		&u.Website, &u.Address, &u.PostalCode, &u.City, &u.District,
		&contacts, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(contacts), &u.Contacts); err != nil {
		u.Contacts = []db.Contact{}
	}

	return &u, nil
}

// slugForEmail derives a unique profile slug from the address local part
// plus a short random suffix.
func slugForEmail(email string) (string, error) {
	local := email
	if at := strings.Index(email, "@"); at >= 0 {
		local = email[:at]
	}
	suffix, err := generateShortToken()
	if err != nil {
		return "", err
	}
	return strings.ToLower(local) + "-" + suffix, nil
}

// CreateUser registers a new unverified account. The returned user never
// carries the password hash; the pending verification token is returned
// separately so the caller can send it by email.
func (m *UserManager) CreateUser(email, password, name, userType string) (*User, string, error) {
	if userType != UserTypeIndividual && userType != UserTypeOrg {
		userType = UserTypeIndividual
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", errors.ErrInternal.WithCause(err)
	}

	slug, err := slugForEmail(email)
	if err != nil {
		return nil, "", errors.ErrInternal.WithCause(err)
	}

	verificationToken, err := generateOpaqueToken()
	if err != nil {
		return nil, "", errors.ErrInternal.WithCause(err)
	}

	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New().String(),
		Email:     email,
		Name:      name,
		Type:      userType,
		Slug:      slug,
		Verified:  false,
		Contacts:  []db.Contact{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	tx, err := m.db.Begin()
	if err != nil {
		return nil, "", errors.ErrDatabaseTransaction.WithCause(err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM users WHERE email = ?", email).Scan(&count); err != nil {
		return nil, "", errors.ErrDatabaseQuery.WithCause(err)
	}
	if count > 0 {
		return nil, "", errors.ErrEmailAlreadyExists
	}

	_, err = tx.Exec(`
		INSERT INTO users (id, email, password_hash, name, type, slug, verified, token, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, FALSE, ?, ?, ?)
	`, user.ID, user.Email, string(hash), user.Name, user.Type, user.Slug,
		verificationToken, user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return nil, "", errors.ErrDatabaseQuery.WithCause(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, "", errors.ErrDatabaseTransaction.WithCause(err)
	}

	return user, verificationToken, nil
}

// VerifyUser marks an account verified when both the token and the email
// match the pending row. Reports whether any account was verified.
func (m *UserManager) VerifyUser(token, email string) (bool, error) {
	result, err := m.db.Exec(`
		UPDATE users
		SET verified = TRUE, token = NULL, updated_at = ?
		WHERE token = ? AND email = ?
	`, time.Now().UTC(), token, email)
	if err != nil {
		return false, errors.ErrDatabaseQuery.WithCause(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errors.ErrDatabaseQuery.WithCause(err)
	}

	return rows > 0, nil
}

// updatableFields maps the accepted profile fields to their columns.
// "password" is special-cased: the value is hashed before storage.
var updatableFields = map[string]string{
	"name":            "name",
	"bio":             "bio",
	"photo":           "photo",
	"photo_thumbnail": "photo_thumbnail",
	"website":         "website",
	"address":         "address",
	"postal_code":     "postal_code",
	"city":            "city",
	"district":        "district",
	"contacts":        "contacts",
	"password":        "password_hash",
}

// UpdateUser applies a list of (field, value) pairs to a user's row.
// Unknown fields are rejected; a password value is re-hashed. An unknown
// user yields ErrUserNotFound.
func (m *UserManager) UpdateUser(userID string, pairs []FieldValue) error {
	if len(pairs) == 0 {
		return nil
	}

	setClauses := make([]string, 0, len(pairs)+1)
	args := make([]interface{}, 0, len(pairs)+2)

	for _, pair := range pairs {
		column, ok := updatableFields[pair.Field]
		if !ok {
			return errors.ErrInvalidFieldValue.WithMessagef("unknown field %q", pair.Field)
		}

		value := pair.Value
		if pair.Field == "password" {
			hash, err := bcrypt.GenerateFromPassword([]byte(value), bcryptCost)
			if err != nil {
				return errors.ErrInternal.WithCause(err)
			}
			value = string(hash)
		}

		setClauses = append(setClauses, column+" = ?")
		args = append(args, value)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now().UTC(), userID)

	result, err := m.db.Exec(
		"UPDATE users SET "+strings.Join(setClauses, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}
	if rows == 0 {
		return errors.ErrUserNotFound
	}

	return nil
}

// UpdateUserToken stores a fresh reset/verification token for an email
func (m *UserManager) UpdateUserToken(email, token string) error {
	result, err := m.db.Exec(`
		UPDATE users SET token = ?, updated_at = ? WHERE email = ?
	`, token, time.Now().UTC(), email)
	if err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}
	if rows == 0 {
		return errors.ErrUserNotFound
	}

	return nil
}

// BeginPasswordReset issues a fresh reset token for the account and
// returns it so the caller can deliver it to the user.
func (m *UserManager) BeginPasswordReset(email string) (string, error) {
	token, err := generateShortToken()
	if err != nil {
		return "", errors.ErrInternal.WithCause(err)
	}
	if err := m.UpdateUserToken(email, token); err != nil {
		return "", err
	}
	return token, nil
}

// UpdatePassword sets a new password for an account holding the given
// reset token, clearing the token in the same statement.
func (m *UserManager) UpdatePassword(email, password, token string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return errors.ErrInternal.WithCause(err)
	}

	result, err := m.db.Exec(`
		UPDATE users
		SET password_hash = ?, token = NULL, updated_at = ?
		WHERE email = ? AND token = ?
	`, string(hash), time.Now().UTC(), email, token)
	if err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.ErrDatabaseQuery.WithCause(err)
	}
	if rows == 0 {
		return errors.ErrVerificationFailed
	}

	return nil
}

// GetUserByEmail retrieves a user by email
func (m *UserManager) GetUserByEmail(email string) (*User, error) {
	user, err := scanUser(m.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID
func (m *UserManager) GetUserByID(id string) (*User, error) {
	user, err := scanUser(m.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	return user, nil
}

// GetUserBySlug retrieves a user by profile slug
func (m *UserManager) GetUserBySlug(slug string) (*User, error) {
	user, err := scanUser(m.db.QueryRow(
		"SELECT "+userColumns+" FROM users WHERE slug = ?", slug))
	if err == sql.ErrNoRows {
		return nil, errors.ErrUserNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	return user, nil
}

// VerifyCredentials checks an email/password pair and returns the account.
// Invalid email and invalid password are indistinguishable to the caller.
func (m *UserManager) VerifyCredentials(email, password string) (*User, error) {
	user, err := m.GetUserByEmail(email)
	if err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, errors.ErrInvalidCredentials
	}

	return user, nil
}

// CountUsers returns the total number of users
func (m *UserManager) CountUsers() (int, error) {
	var count int
	if err := m.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, errors.ErrDatabaseQuery.WithCause(err)
	}
	return count, nil
}
