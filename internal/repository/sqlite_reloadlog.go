package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/semplan/internal/db"
)

// SQLiteReloadLogRepo implements ReloadLogRepo using a SQLite database.
type SQLiteReloadLogRepo struct {
	db db.DBTX
}

func NewSQLiteReloadLogRepo(conn db.DBTX) *SQLiteReloadLogRepo {
	return &SQLiteReloadLogRepo{db: conn}
}

func (r *SQLiteReloadLogRepo) Start(ctx context.Context, id string, startedAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO reload_log (id, started_at, outcome) VALUES (?, ?, ?)`,
		id, startedAt.UTC().Format(timeLayout), string(ReloadRunning))
	if err != nil {
		return fmt.Errorf("inserting reload %s: %w", id, err)
	}
	return nil
}

func (r *SQLiteReloadLogRepo) Finish(ctx context.Context, id string, outcome ReloadOutcome, timestamp *int64, cause error) error {
	var msg any
	if cause != nil {
		msg = cause.Error()
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE reload_log SET finished_at = ?, outcome = ?, timestamp = ?, error = ? WHERE id = ?`,
		time.Now().UTC().Format(timeLayout), string(outcome), nullableInt64ToValue(timestamp), msg, id)
	if err != nil {
		return fmt.Errorf("finishing reload %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing reload %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("reload %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *SQLiteReloadLogRepo) GetByID(ctx context.Context, id string) (*ReloadRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, started_at, finished_at, timestamp, outcome, error FROM reload_log WHERE id = ?`, id)
	rec, err := scanReload(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reload %s: %w", id, ErrNotFound)
		}
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteReloadLogRepo) ListRecent(ctx context.Context, limit int) ([]*ReloadRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, timestamp, outcome, error
		 FROM reload_log ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing reloads: %w", err)
	}
	defer rows.Close()

	var out []*ReloadRecord
	for rows.Next() {
		rec, err := scanReload(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanReload(row scanner) (*ReloadRecord, error) {
	var (
		rec       ReloadRecord
		started   string
		finished  sql.NullString
		timestamp sql.NullInt64
		outcome   string
		msg       sql.NullString
	)
	if err := row.Scan(&rec.ID, &started, &finished, &timestamp, &outcome, &msg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning reload: %w", err)
	}
	t, err := time.Parse(timeLayout, started)
	if err != nil {
		return nil, fmt.Errorf("parsing started_at %q: %w", started, err)
	}
	rec.StartedAt = t
	rec.FinishedAt = parseNullableTime(finished, timeLayout)
	if timestamp.Valid {
		ts := timestamp.Int64
		rec.Timestamp = &ts
	}
	rec.Outcome = ReloadOutcome(outcome)
	rec.Error = msg.String
	return &rec, nil
}
