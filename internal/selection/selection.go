// Package selection maintains the student's chosen sections, at most one
// per course, and persists them by CRN.
package selection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/events"
)

// Persisted keys.
const (
	KeyCRNs = "selection.crns"
	KeyTerm = "selection.term"
)

// KV is the persistence the manager needs. SetMany must write all entries
// or none.
type KV interface {
	Get(ctx context.Context, key string, v any) (bool, error)
	SetMany(ctx context.Context, entries map[string]any) error
}

// Transition names what Toggle did.
type Transition int

const (
	Removed Transition = iota
	Swapped
	Added
)

func (t Transition) String() string {
	switch t {
	case Removed:
		return "removed"
	case Swapped:
		return "swapped"
	default:
		return "added"
	}
}

// TermContext is the persisted (term, year) pair.
type TermContext struct {
	Term catalog.Term `json:"term"`
	Year int          `json:"year"`
}

// Manager owns the ordered selection.
type Manager struct {
	kv     KV
	store  *catalog.Store
	bus    *events.Bus
	logger *slog.Logger

	// opMu serializes Toggle and Restore from computing the next selection
	// through publishing it, so updates are delivered in commit order.
	opMu sync.Mutex

	mu       sync.Mutex
	term     *TermContext
	sections []*catalog.Section
}

func NewManager(kv KV, store *catalog.Store, bus *events.Bus, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{kv: kv, store: store, bus: bus, logger: logger}
}

// Sections returns the selection in order.
func (m *Manager) Sections() []*catalog.Section {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*catalog.Section(nil), m.sections...)
}

// Term returns the active term context, if any.
func (m *Manager) Term() (TermContext, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.term == nil {
		return TermContext{}, false
	}
	return *m.term, true
}

// Toggle removes s if selected, otherwise replaces the selected section of
// the same course in place, otherwise appends s. The new selection is
// persisted and published. If persisting fails the selection is unchanged.
func (m *Manager) Toggle(ctx context.Context, s *catalog.Section) (Transition, error) {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	if m.term == nil {
		m.mu.Unlock()
		return 0, ErrNoTermContext
	}
	if s.Term != m.term.Term || s.Year != m.term.Year {
		m.mu.Unlock()
		return 0, fmt.Errorf("crn %d (%s %d): %w", s.CRN, s.Term, s.Year, ErrTermMismatch)
	}

	next := append([]*catalog.Section(nil), m.sections...)
	var tr Transition
	if i := indexOf(next, func(o *catalog.Section) bool { return o.Key() == s.Key() }); i >= 0 {
		next = append(next[:i], next[i+1:]...)
		tr = Removed
	} else if i := indexOf(next, func(o *catalog.Section) bool { return sameCourse(o, s) }); i >= 0 {
		next[i] = s
		tr = Swapped
	} else {
		next = append(next, s)
		tr = Added
	}
	term := *m.term
	m.mu.Unlock()

	if err := m.save(ctx, term, next); err != nil {
		return tr, err
	}
	m.mu.Lock()
	m.sections = next
	m.mu.Unlock()

	m.logger.Debug("selection changed", "crn", s.CRN, "transition", tr.String(), "count", len(next))
	m.publish(next)
	return tr, nil
}

// SetTerm establishes the active term context and restores the persisted
// selection against it.
func (m *Manager) SetTerm(ctx context.Context, term catalog.Term, year int) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()

	m.mu.Lock()
	m.term = &TermContext{Term: term, Year: year}
	m.mu.Unlock()
	return m.restore(ctx)
}

// Restore rebuilds the selection from the persisted CRNs, keeping only
// those offered in the active term and year of the current catalog. CRNs
// that do not resolve are dropped without error. Persisted order is kept.
func (m *Manager) Restore(ctx context.Context) error {
	m.opMu.Lock()
	defer m.opMu.Unlock()
	return m.restore(ctx)
}

func (m *Manager) restore(ctx context.Context) error {
	term, ok := m.Term()
	if !ok {
		return ErrNoTermContext
	}
	c := m.store.Catalog()
	if c == nil {
		return ErrCatalogNotLoaded
	}

	var crns []int
	if _, err := m.kv.Get(ctx, KeyCRNs, &crns); err != nil {
		return fmt.Errorf("loading selection: %w", err)
	}

	sections := make([]*catalog.Section, 0, len(crns))
	seen := make(map[int]bool, len(crns))
	dropped := 0
	for _, crn := range crns {
		if seen[crn] {
			continue
		}
		seen[crn] = true
		s, ok := c.SectionByKey(catalog.SectionKey{Term: term.Term, Year: term.Year, CRN: crn})
		if !ok {
			dropped++
			continue
		}
		sections = append(sections, s)
	}
	if dropped > 0 {
		m.logger.Debug("dropped stale selection entries", "term", string(term.Term), "year", term.Year, "dropped", dropped)
	}

	m.mu.Lock()
	m.sections = sections
	m.mu.Unlock()
	m.publish(sections)
	return nil
}

// LoadTermContext returns the term context saved with the last transition.
func (m *Manager) LoadTermContext(ctx context.Context) (TermContext, bool, error) {
	var tc TermContext
	ok, err := m.kv.Get(ctx, KeyTerm, &tc)
	if err != nil {
		return TermContext{}, false, fmt.Errorf("loading term context: %w", err)
	}
	return tc, ok, nil
}

func (m *Manager) save(ctx context.Context, term TermContext, sections []*catalog.Section) error {
	crns := make([]int, len(sections))
	for i, s := range sections {
		crns[i] = s.CRN
	}
	if err := m.kv.SetMany(ctx, map[string]any{KeyCRNs: crns, KeyTerm: term}); err != nil {
		return fmt.Errorf("saving selection: %w", err)
	}
	return nil
}

func (m *Manager) publish(sections []*catalog.Section) {
	if m.bus == nil {
		return
	}
	m.bus.SelectionUpdate.Publish(events.SelectionUpdate{Sections: append([]*catalog.Section(nil), sections...)})
}

func sameCourse(a, b *catalog.Section) bool {
	return a.Course != nil && a.Course == b.Course
}

func indexOf(sections []*catalog.Section, match func(*catalog.Section) bool) int {
	for i, s := range sections {
		if match(s) {
			return i
		}
	}
	return -1
}
