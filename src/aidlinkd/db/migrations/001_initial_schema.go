package migrations

import (
	"database/sql"
)

func migration001InitialSchema() Migration {
	return Migration{
		Version:     1,
		Description: "Create users, posts and post_history tables",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE users (
					id TEXT PRIMARY KEY,
					email TEXT NOT NULL UNIQUE,
					password_hash TEXT NOT NULL,
					name TEXT NOT NULL DEFAULT '',
					type TEXT NOT NULL DEFAULT 'individual',
					slug TEXT NOT NULL UNIQUE,
					verified BOOLEAN NOT NULL DEFAULT FALSE,
					token TEXT,
					bio TEXT NOT NULL DEFAULT '',
					photo TEXT NOT NULL DEFAULT '',
					photo_thumbnail TEXT NOT NULL DEFAULT '',
					website TEXT NOT NULL DEFAULT '',
					address TEXT NOT NULL DEFAULT '',
					postal_code TEXT NOT NULL DEFAULT '',
					city TEXT NOT NULL DEFAULT '',
					district TEXT NOT NULL DEFAULT '',
					contacts TEXT NOT NULL DEFAULT '[]',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)
			`)
			if err != nil {
				return err
			}

			_, err = tx.Exec(`CREATE INDEX idx_users_email ON users(email)`)
			if err != nil {
				return err
			}

			_, err = tx.Exec(`CREATE INDEX idx_users_type_verified ON users(type, verified)`)
			if err != nil {
				return err
			}

			_, err = tx.Exec(`
				CREATE TABLE posts (
					id TEXT PRIMARY KEY,
					title TEXT NOT NULL,
					description TEXT NOT NULL,
					locations TEXT NOT NULL DEFAULT '[]',
					needs TEXT NOT NULL DEFAULT '[]',
					schedule TEXT NOT NULL DEFAULT '',
					contacts TEXT NOT NULL DEFAULT '[]',
					state TEXT NOT NULL DEFAULT 'active',
					slug TEXT NOT NULL UNIQUE,
					created_user_id TEXT NOT NULL,
					updated_by TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (created_user_id) REFERENCES users(id) ON DELETE CASCADE
				)
			`)
			if err != nil {
				return err
			}

			_, err = tx.Exec(`CREATE INDEX idx_posts_state_created_at ON posts(state, created_at)`)
			if err != nil {
				return err
			}

			_, err = tx.Exec(`CREATE INDEX idx_posts_created_user_id ON posts(created_user_id)`)
			if err != nil {
				return err
			}

			_, err = tx.Exec(`
				CREATE TABLE post_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					post_id TEXT NOT NULL,
					user_id TEXT NOT NULL,
					title TEXT NOT NULL,
					description TEXT NOT NULL,
					locations TEXT NOT NULL DEFAULT '[]',
					needs TEXT NOT NULL DEFAULT '[]',
					schedule TEXT NOT NULL DEFAULT '',
					contacts TEXT NOT NULL DEFAULT '[]',
					state TEXT NOT NULL,
					slug TEXT NOT NULL,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					FOREIGN KEY (post_id) REFERENCES posts(id) ON DELETE CASCADE
				)
			`)
			if err != nil {
				return err
			}

			_, err = tx.Exec(`CREATE INDEX idx_post_history_post_id ON post_history(post_id)`)
			if err != nil {
				return err
			}

			return nil
		},
	}
}
