package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/semplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReloadLog_StartFinish(t *testing.T) {
	repo := NewSQLiteReloadLogRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	started := time.Date(2020, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Start(ctx, "r1", started))
	rec, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, ReloadRunning, rec.Outcome)
	assert.Nil(t, rec.FinishedAt)
	assert.True(t, started.Equal(rec.StartedAt))

	ts := int64(1596283200000)
	require.NoError(t, repo.Finish(ctx, "r1", ReloadComplete, &ts, nil))
	rec, err = repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, ReloadComplete, rec.Outcome)
	require.NotNil(t, rec.FinishedAt)
	require.NotNil(t, rec.Timestamp)
	assert.Equal(t, ts, *rec.Timestamp)
	assert.Empty(t, rec.Error)
}

func TestReloadLog_FinishWithError(t *testing.T) {
	repo := NewSQLiteReloadLogRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Start(ctx, "r1", time.Now()))
	require.NoError(t, repo.Finish(ctx, "r1", ReloadError, nil, errors.New("title.min.json: 503")))

	rec, err := repo.GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, ReloadError, rec.Outcome)
	assert.Nil(t, rec.Timestamp)
	assert.Equal(t, "title.min.json: 503", rec.Error)
}

func TestReloadLog_FinishUnknown(t *testing.T) {
	repo := NewSQLiteReloadLogRepo(testutil.NewTestDB(t))
	err := repo.Finish(context.Background(), "missing", ReloadComplete, nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReloadLog_ListRecentNewestFirst(t *testing.T) {
	repo := NewSQLiteReloadLogRepo(testutil.NewTestDB(t))
	ctx := context.Background()
	base := time.Date(2020, 8, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Start(ctx, "old", base))
	require.NoError(t, repo.Start(ctx, "mid", base.Add(500*time.Millisecond)))
	require.NoError(t, repo.Start(ctx, "new", base.Add(time.Second)))

	recs, err := repo.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "new", recs[0].ID)
	assert.Equal(t, "mid", recs[1].ID)
}
