package migrations

import (
	"database/sql"
)

func migration004LanguagePacks() Migration {
	return Migration{
		Version:     4,
		Description: "Add language packs table for UI translations",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE language_packs (
					locale TEXT PRIMARY KEY,
					name TEXT NOT NULL,
					author TEXT NOT NULL DEFAULT '',
					version TEXT NOT NULL DEFAULT '',
					dictionary TEXT NOT NULL DEFAULT '{}',
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)
			`)
			return err
		},
	}
}
