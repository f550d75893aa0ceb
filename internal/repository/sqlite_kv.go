package repository

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/alexanderramin/semplan/internal/db"
)

// KVVersion is the current layout version of persisted values. Opening a
// store written under an older version wipes it.
const KVVersion = 1

const versionKey = "version"

// SQLiteKVStore implements KVStore over the kv table.
type SQLiteKVStore struct {
	db  db.DBTX
	uow db.UnitOfWork
}

// NewSQLiteKVStore creates a store on conn. uow may be nil when conn is
// already a transaction.
func NewSQLiteKVStore(conn db.DBTX, uow db.UnitOfWork) *SQLiteKVStore {
	return &SQLiteKVStore{db: conn, uow: uow}
}

// OpenKVStore returns a store on database after applying the version check:
// a missing or older version clears every key and records KVVersion.
func OpenKVStore(ctx context.Context, database *sql.DB) (*SQLiteKVStore, error) {
	s := NewSQLiteKVStore(database, db.NewSQLiteUnitOfWork(database))
	if err := s.ensureVersion(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *SQLiteKVStore) ensureVersion(ctx context.Context) error {
	var version int
	ok, err := s.Get(ctx, versionKey, &version)
	if err != nil {
		return err
	}
	if ok && version >= KVVersion {
		return nil
	}
	reset := func(ctx context.Context, tx db.DBTX) error {
		txStore := NewSQLiteKVStore(tx, nil)
		if err := txStore.Clear(ctx); err != nil {
			return err
		}
		return txStore.Set(ctx, versionKey, KVVersion)
	}
	if s.uow == nil {
		return reset(ctx, s.db)
	}
	if err := s.uow.WithinTx(ctx, reset); err != nil {
		return fmt.Errorf("resetting kv store to version %d: %w", KVVersion, err)
	}
	return nil
}

func (s *SQLiteKVStore) Get(ctx context.Context, key string, v any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("reading key %q: %w", key, err)
	}
	if bytes.Equal(bytes.TrimSpace([]byte(raw)), []byte("null")) {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decoding key %q: %w", key, err)
	}
	return true, nil
}

func (s *SQLiteKVStore) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding key %q: %w", key, err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), nowUTC())
	if err != nil {
		return fmt.Errorf("writing key %q: %w", key, err)
	}
	return nil
}

// SetMany writes every entry in one transaction: either all keys change or
// none do.
func (s *SQLiteKVStore) SetMany(ctx context.Context, entries map[string]any) error {
	write := func(ctx context.Context, tx db.DBTX) error {
		txStore := NewSQLiteKVStore(tx, nil)
		for key, v := range entries {
			if err := txStore.Set(ctx, key, v); err != nil {
				return err
			}
		}
		return nil
	}
	if s.uow == nil {
		return write(ctx, s.db)
	}
	return s.uow.WithinTx(ctx, write)
}

func (s *SQLiteKVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting key %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteKVStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return fmt.Errorf("clearing kv store: %w", err)
	}
	return nil
}
