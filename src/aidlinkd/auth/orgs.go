package auth

import (
	"database/sql"

	"github.com/aidlink/aidlink/src/common/errors"
)

// MaxOrgResults caps the organizations directory listing
const MaxOrgResults = 50

// GetOrgs lists verified organization accounts for the public directory,
// alphabetically by name.
func (m *UserManager) GetOrgs() ([]User, error) {
	rows, err := m.db.Query(`
		SELECT `+userColumns+`
		FROM users
		WHERE type = ? AND verified = TRUE
		ORDER BY name ASC
		LIMIT ?
	`, UserTypeOrg, MaxOrgResults)
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	defer rows.Close()

	orgs := []User{}
	for rows.Next() {
		org, err := scanUser(rows)
		if err != nil {
			return nil, errors.ErrDatabaseQuery.WithCause(err)
		}
		orgs = append(orgs, *org)
	}

	return orgs, rows.Err()
}

// GetOrgBySlug retrieves one verified organization profile
func (m *UserManager) GetOrgBySlug(slug string) (*User, error) {
	org, err := scanUser(m.db.QueryRow(`
		SELECT `+userColumns+`
		FROM users
		WHERE slug = ? AND type = ? AND verified = TRUE
	`, slug, UserTypeOrg))
	if err == sql.ErrNoRows {
		return nil, errors.ErrOrgNotFound
	}
	if err != nil {
		return nil, errors.ErrDatabaseQuery.WithCause(err)
	}
	return org, nil
}

// CountOrgs returns the number of verified organizations
func (m *UserManager) CountOrgs() (int, error) {
	var count int
	err := m.db.QueryRow(`
		SELECT COUNT(*) FROM users WHERE type = ? AND verified = TRUE
	`, UserTypeOrg).Scan(&count)
	if err != nil {
		return 0, errors.ErrDatabaseQuery.WithCause(err)
	}
	return count, nil
}
