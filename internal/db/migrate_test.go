package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"kv", "reload_log"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_ReloadOutcomeConstraint(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO reload_log (id, started_at, outcome) VALUES ('r1', '2020-08-01T00:00:00Z', 'exploded')`)
	assert.Error(t, err, "outcome outside the allowed set must be rejected")

	_, err = db.Exec(`INSERT INTO reload_log (id, started_at, outcome) VALUES ('r2', '2020-08-01T00:00:00Z', 'complete')`)
	assert.NoError(t, err)
}

func TestOpenDB_CreatesDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/semplan.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Ping())
}
