package repository

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// KVStore is the persisted key-value contract: values are JSON documents
// keyed by string. A key holding JSON null reads as absent.
type KVStore interface {
	// Get decodes the value under key into v. It reports false when the key
	// is absent.
	Get(ctx context.Context, key string, v any) (bool, error)
	Set(ctx context.Context, key string, v any) error
	// SetMany writes all entries atomically.
	SetMany(ctx context.Context, entries map[string]any) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// ReloadOutcome is the terminal state of one recorded reload.
type ReloadOutcome string

const (
	ReloadRunning    ReloadOutcome = "running"
	ReloadComplete   ReloadOutcome = "complete"
	ReloadError      ReloadOutcome = "error"
	ReloadSuperseded ReloadOutcome = "superseded"
)

// ReloadRecord is one row of the reload history.
type ReloadRecord struct {
	ID         string
	StartedAt  time.Time
	FinishedAt *time.Time
	Timestamp  *int64
	Outcome    ReloadOutcome
	Error      string
}

type ReloadLogRepo interface {
	Start(ctx context.Context, id string, startedAt time.Time) error
	Finish(ctx context.Context, id string, outcome ReloadOutcome, timestamp *int64, cause error) error
	GetByID(ctx context.Context, id string) (*ReloadRecord, error)
	ListRecent(ctx context.Context, limit int) ([]*ReloadRecord, error)
}
