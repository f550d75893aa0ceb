// Package planner wires the catalog pipeline and the selection for one
// student into a single context object.
package planner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/conflict"
	"github.com/alexanderramin/semplan/internal/events"
	"github.com/alexanderramin/semplan/internal/fetcher"
	"github.com/alexanderramin/semplan/internal/repository"
	"github.com/alexanderramin/semplan/internal/selection"
)

// ErrSectionNotFound indicates a CRN that is not offered in the active term.
var ErrSectionNotFound = errors.New("section not found")

// Planner owns the bus, the catalog store and every component that reads or
// mutates them. Subscriptions keep the conflict engine in step with the
// selection and restore the selection after each reload.
type Planner struct {
	Bus       *events.Bus
	Store     *catalog.Store
	Fetcher   *fetcher.Fetcher
	Engine    *conflict.Engine
	Selection *selection.Manager
	KV        repository.KVStore
	History   repository.ReloadLogRepo

	ctx    context.Context
	logger *slog.Logger

	closeOnce sync.Once
	unsubs    []func()
}

// Option configures a Planner.
type Option func(*options)

type options struct {
	logger   *slog.Logger
	observer fetcher.Observer
	probe    bool
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithFetchObserver attaches per-file fetch telemetry.
func WithFetchObserver(obs fetcher.Observer) Option {
	return func(o *options) { o.observer = obs }
}

// WithProbe logs every bus event at debug level.
func WithProbe() Option {
	return func(o *options) { o.probe = true }
}

// New opens the key-value store and reload history on database and wires
// the pipeline around src. Event handlers run with ctx.
func New(ctx context.Context, database *sql.DB, src fetcher.Source, opts ...Option) (*Planner, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	kv, err := repository.OpenKVStore(ctx, database)
	if err != nil {
		return nil, fmt.Errorf("opening key-value store: %w", err)
	}
	history := repository.NewSQLiteReloadLogRepo(database)

	bus := events.NewBus()
	store := catalog.NewStore()
	fetchOpts := []fetcher.Option{
		fetcher.WithLogger(o.logger.With("component", "fetcher")),
		fetcher.WithHistory(history),
	}
	if o.observer != nil {
		fetchOpts = append(fetchOpts, fetcher.WithObserver(o.observer))
	}

	p := &Planner{
		Bus:       bus,
		Store:     store,
		Fetcher:   fetcher.New(src, bus, store, fetchOpts...),
		Engine:    conflict.NewEngine(),
		Selection: selection.NewManager(kv, store, bus, o.logger.With("component", "selection")),
		KV:        kv,
		History:   history,
		ctx:       ctx,
		logger:    o.logger,
	}
	if o.probe {
		p.unsubs = append(p.unsubs, bus.Probe(o.logger))
	}
	p.subscribe()
	return p, nil
}

func (p *Planner) subscribe() {
	p.unsubs = append(p.unsubs,
		p.Bus.SelectionUpdate.Subscribe(func(e events.SelectionUpdate) {
			p.Engine.SetSelection(e.Sections)
		}),
		p.Bus.ReloadComplete.Subscribe(func(events.ReloadComplete) {
			p.Engine.Invalidate()
			if _, ok := p.Selection.Term(); !ok {
				return
			}
			if err := p.Selection.Restore(p.ctx); err != nil {
				p.logger.Error("restoring selection after reload", "error", err)
			}
		}),
		p.Bus.TermContext.Subscribe(func(e events.TermContext) {
			if err := p.applyTerm(p.ctx, e.Term, e.Year); err != nil {
				p.logger.Error("applying term context", "term", string(e.Term), "year", e.Year, "error", err)
			}
		}),
	)
}

// Close removes the planner's subscriptions.
func (p *Planner) Close() {
	p.closeOnce.Do(func() {
		for _, off := range p.unsubs {
			off()
		}
	})
}

// Init re-establishes the term context saved by a previous run. The
// selection itself is restored once a catalog is loaded.
func (p *Planner) Init(ctx context.Context) error {
	tc, ok, err := p.Selection.LoadTermContext(ctx)
	if err != nil || !ok {
		return err
	}
	p.logger.Debug("resuming term context", "term", string(tc.Term), "year", tc.Year)
	return p.applyTerm(ctx, tc.Term, tc.Year)
}

// Reload runs a full catalog reload.
func (p *Planner) Reload(ctx context.Context, force bool) (*catalog.Snapshot, error) {
	return p.Fetcher.Reload(ctx, force)
}

// EnsureCatalog reloads only when no catalog has been published yet.
func (p *Planner) EnsureCatalog(ctx context.Context) (*catalog.Snapshot, error) {
	if snap := p.Store.Current(); snap != nil {
		return snap, nil
	}
	return p.Reload(ctx, false)
}

// SetTerm makes (term, year) the active context and restores the persisted
// selection against it.
func (p *Planner) SetTerm(ctx context.Context, term catalog.Term, year int) error {
	return p.applyTerm(ctx, term, year)
}

func (p *Planner) applyTerm(ctx context.Context, term catalog.Term, year int) error {
	err := p.Selection.SetTerm(ctx, term, year)
	if errors.Is(err, selection.ErrCatalogNotLoaded) {
		return nil
	}
	return err
}

// ResolveYear returns year when positive, otherwise the year the current
// catalog declares for term.
func (p *Planner) ResolveYear(term catalog.Term, year int) (int, error) {
	if year > 0 {
		return year, nil
	}
	snap := p.Store.Current()
	if snap == nil {
		return 0, selection.ErrCatalogNotLoaded
	}
	y, ok := snap.Years.For(term)
	if !ok || y == 0 {
		return 0, fmt.Errorf("no year declared for %s", term)
	}
	return y, nil
}

// Section looks up crn in the active term.
func (p *Planner) Section(crn int) (*catalog.Section, error) {
	tc, ok := p.Selection.Term()
	if !ok {
		return nil, selection.ErrNoTermContext
	}
	c := p.Store.Catalog()
	if c == nil {
		return nil, selection.ErrCatalogNotLoaded
	}
	s, ok := c.SectionByKey(catalog.SectionKey{Term: tc.Term, Year: tc.Year, CRN: crn})
	if !ok {
		return nil, fmt.Errorf("crn %d in %s %d: %w", crn, tc.Term, tc.Year, ErrSectionNotFound)
	}
	return s, nil
}

// Toggle toggles crn in the active term.
func (p *Planner) Toggle(ctx context.Context, crn int) (*catalog.Section, selection.Transition, error) {
	s, err := p.Section(crn)
	if err != nil {
		return nil, 0, err
	}
	tr, err := p.Selection.Toggle(ctx, s)
	return s, tr, err
}

// Sections returns the active term's sections matching keep, or all of them
// when keep is nil.
func (p *Planner) Sections(keep func(*catalog.Section) bool) ([]*catalog.Section, error) {
	tc, ok := p.Selection.Term()
	if !ok {
		return nil, selection.ErrNoTermContext
	}
	c := p.Store.Catalog()
	if c == nil {
		return nil, selection.ErrCatalogNotLoaded
	}
	all := c.SectionsFor(tc.Term, tc.Year)
	if keep == nil {
		return all, nil
	}
	var out []*catalog.Section
	for _, s := range all {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out, nil
}

// Plan summarizes the current selection.
type Plan struct {
	Term     selection.TermContext
	Sections []*catalog.Section
	Credits  [2]float64
	// NotShown counts selected sections without meeting slots, which a
	// calendar cannot place.
	NotShown int
}

// Plan returns the selection with its credit range and unscheduled count.
func (p *Planner) Plan() (Plan, error) {
	tc, ok := p.Selection.Term()
	if !ok {
		return Plan{}, selection.ErrNoTermContext
	}
	plan := Plan{Term: tc, Sections: p.Selection.Sections()}
	for _, s := range plan.Sections {
		plan.Credits[0] += s.CreditHours[0]
		plan.Credits[1] += s.CreditHours[1]
		if !s.HasSchedule() {
			plan.NotShown++
		}
	}
	return plan, nil
}
