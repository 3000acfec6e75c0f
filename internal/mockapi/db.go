package mockapi

import (
	"database/sql"

	_ "modernc.org/sqlite"
)

func OpenDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA foreign_keys=ON;`); err != nil {
		return nil, err
	}

	if err := migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS applications (
			app_key TEXT PRIMARY KEY,
			app_secret TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			created_at INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS consumers (
			consumer_key TEXT PRIMARY KEY,
			app_key TEXT NOT NULL,
			rules_json TEXT NOT NULL DEFAULT '[]',
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			last_used INTEGER NOT NULL DEFAULT 0,
			FOREIGN KEY(app_key) REFERENCES applications(app_key)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_consumers_app ON consumers(app_key, status);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}
