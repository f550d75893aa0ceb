package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent, so it
// is safe on an existing database.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS reload_log (
		id          TEXT PRIMARY KEY,
		started_at  TEXT NOT NULL,
		finished_at TEXT,
		timestamp   INTEGER,
		outcome     TEXT NOT NULL DEFAULT 'running'
		            CHECK(outcome IN ('running','complete','error','superseded')),
		error       TEXT
	)`,

	`CREATE INDEX IF NOT EXISTS idx_reload_log_started ON reload_log(started_at)`,
}
