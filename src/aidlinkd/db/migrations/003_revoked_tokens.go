package migrations

import (
	"database/sql"
)

func migration003RevokedTokens() Migration {
	return Migration{
		Version:     3,
		Description: "Add revoked tokens denylist for access token logout",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE revoked_tokens (
					token_id TEXT PRIMARY KEY,
					user_id TEXT NOT NULL,
					revoked_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					expires_at DATETIME NOT NULL
				)
			`)
			if err != nil {
				return err
			}

			// Expired entries are pruned by expiry, so index on it
			_, err = tx.Exec(`CREATE INDEX idx_revoked_tokens_expires_at ON revoked_tokens(expires_at)`)
			if err != nil {
				return err
			}

			return nil
		},
	}
}
