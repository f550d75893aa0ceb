// Package fetcher loads the catalog files in manifest order, builds the
// graph and publishes it to the catalog store.
package fetcher

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/semplan/internal/builder"
	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/events"
	"github.com/alexanderramin/semplan/internal/repository"
)

// DefaultPollInterval is the metadata poll period.
const DefaultPollInterval = 60 * time.Second

// Fetcher owns the reload sequence. Every Reload takes a new generation and
// its own buffer map; only the newest generation may publish.
type Fetcher struct {
	src      Source
	bus      *events.Bus
	store    *catalog.Store
	logger   *slog.Logger
	observer Observer
	history  repository.ReloadLogRepo
	now      func() time.Time

	generation atomic.Uint64

	mu        sync.Mutex
	timestamp int64
	meta      *Metadata
}

// Option configures a Fetcher.
type Option func(*Fetcher)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) { f.logger = logger }
}

func WithObserver(o Observer) Option {
	return func(f *Fetcher) { f.observer = o }
}

// WithHistory records every reload's outcome in repo.
func WithHistory(repo repository.ReloadLogRepo) Option {
	return func(f *Fetcher) { f.history = repo }
}

func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) { f.now = now }
}

func New(src Source, bus *events.Bus, store *catalog.Store, opts ...Option) *Fetcher {
	f := &Fetcher{
		src:      src,
		bus:      bus,
		store:    store,
		logger:   slog.Default(),
		observer: NoopObserver{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}
	if f.observer == nil {
		f.observer = NoopObserver{}
	}
	return f
}

// Metadata returns the last metadata successfully fetched, or nil.
func (f *Fetcher) Metadata() *Metadata {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meta
}

// CheckMetadata fetches the metadata file and publishes UpdateAvailable
// when its timestamp differs from the one last seen.
func (f *Fetcher) CheckMetadata(ctx context.Context) (*Metadata, error) {
	data, err := f.fetch(ctx, MetadataPath)
	if err != nil {
		return nil, err
	}
	m, err := ParseMetadata(data)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	changed := f.timestamp != m.Timestamp
	f.timestamp = m.Timestamp
	f.meta = m
	f.mu.Unlock()

	if changed {
		f.bus.UpdateAvailable.Publish(events.UpdateAvailable{Timestamp: m.Timestamp})
	}
	return m, nil
}

// invalidateTimestamp makes the next metadata check report an update.
func (f *Fetcher) invalidateTimestamp() {
	f.mu.Lock()
	f.timestamp = -1
	f.mu.Unlock()
}

// Reload fetches metadata and every catalog file, builds the graph and
// publishes it. On a file or decode failure it publishes one ReloadError and
// leaves the current snapshot in place. A metadata failure is logged and
// the file sequence continues; the snapshot then carries no timestamp or
// years and progress sizes are 0.
func (f *Fetcher) Reload(ctx context.Context, force bool) (*catalog.Snapshot, error) {
	gen := f.generation.Add(1)
	id := uuid.NewString()
	logger := f.logger.With("reload_id", id)
	f.recordStart(ctx, logger, id)

	if force {
		f.invalidateTimestamp()
	}
	meta, err := f.CheckMetadata(ctx)
	if err != nil {
		logger.Warn("metadata fetch failed, catalog timestamp and years unknown", "error", err)
		meta = nil
	}

	paths := builder.AssetPaths()
	raw := make(map[string][]byte, len(paths))
	for i, p := range paths {
		if f.generation.Load() != gen {
			return nil, f.superseded(ctx, logger, id)
		}
		var size int64
		if meta != nil {
			size = meta.FileSizes[p]
		}
		f.bus.ReloadProgress.Publish(events.ReloadProgress{Path: p, Size: size, Index: i, Total: len(paths)})

		data, err := f.fetch(ctx, p)
		if err != nil {
			if f.generation.Load() != gen {
				return nil, f.superseded(ctx, logger, id)
			}
			return nil, f.fail(ctx, logger, id, err)
		}
		raw[p] = data
	}

	c, err := builder.Build(raw)
	if err != nil {
		if f.generation.Load() != gen {
			return nil, f.superseded(ctx, logger, id)
		}
		return nil, f.fail(ctx, logger, id, err)
	}

	snap := &catalog.Snapshot{Catalog: c, LoadedAt: f.now()}
	if meta != nil {
		snap.Timestamp = meta.Timestamp
		snap.Years = meta.Years
	}

	f.mu.Lock()
	if f.generation.Load() != gen {
		f.mu.Unlock()
		return nil, f.superseded(ctx, logger, id)
	}
	f.store.Publish(snap)
	f.mu.Unlock()

	logger.Info("catalog reloaded",
		"timestamp", snap.Timestamp,
		"subjects", len(c.Subjects),
		"courses", len(c.Courses),
		"sections", len(c.Sections),
	)
	f.recordFinish(ctx, logger, id, repository.ReloadComplete, &snap.Timestamp, nil)
	f.bus.ReloadComplete.Publish(events.ReloadComplete{Snapshot: snap})
	return snap, nil
}

func (f *Fetcher) fail(ctx context.Context, logger *slog.Logger, id string, err error) error {
	logger.Error("reload failed", "error", err)
	f.recordFinish(ctx, logger, id, repository.ReloadError, nil, err)
	f.bus.ReloadError.Publish(events.ReloadError{Err: err})
	return err
}

func (f *Fetcher) superseded(ctx context.Context, logger *slog.Logger, id string) error {
	logger.Debug("reload superseded")
	f.recordFinish(ctx, logger, id, repository.ReloadSuperseded, nil, nil)
	return ErrSuperseded
}

// Poll checks metadata immediately and then every interval until ctx is
// done. Failures are logged at debug level and otherwise ignored.
func (f *Fetcher) Poll(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := f.CheckMetadata(ctx); err != nil && ctx.Err() == nil {
			f.logger.Debug("metadata poll failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (f *Fetcher) fetch(ctx context.Context, path string) ([]byte, error) {
	start := time.Now()
	data, err := f.src.Fetch(ctx, path)
	f.observer.OnFetchComplete(FetchEvent{
		Path:      path,
		Bytes:     len(data),
		Latency:   time.Since(start),
		Success:   err == nil,
		ErrorCode: errorCode(err),
	})
	return data, err
}

func (f *Fetcher) recordStart(ctx context.Context, logger *slog.Logger, id string) {
	if f.history == nil {
		return
	}
	if err := f.history.Start(ctx, id, f.now()); err != nil {
		logger.Warn("recording reload start", "error", err)
	}
}

func (f *Fetcher) recordFinish(ctx context.Context, logger *slog.Logger, id string, outcome repository.ReloadOutcome, ts *int64, cause error) {
	if f.history == nil {
		return
	}
	// The reload's own context may already be canceled.
	ctx = context.WithoutCancel(ctx)
	if err := f.history.Finish(ctx, id, outcome, ts, cause); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("recording reload outcome", "error", err)
	}
}
