package catalog

import (
	"sync/atomic"
	"time"
)

// Years holds the academic year declared for each term, indexed like Terms.
type Years [3]int

// For returns the year declared for term.
func (y Years) For(t Term) (int, bool) {
	i := t.Index()
	if i < 0 {
		return 0, false
	}
	return y[i], true
}

// Snapshot is an immutable published catalog together with the metadata it
// was loaded under.
type Snapshot struct {
	Catalog   *Catalog
	Timestamp int64
	Years     Years
	LoadedAt  time.Time
}

// Store holds the current snapshot. Publishing swaps the whole snapshot, so
// readers never observe a partially built graph.
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the published snapshot, or nil before the first
// successful load.
func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Catalog returns the current catalog, or nil before the first load.
func (s *Store) Catalog() *Catalog {
	snap := s.current.Load()
	if snap == nil {
		return nil
	}
	return snap.Catalog
}

// Publish replaces the current snapshot.
func (s *Store) Publish(snap *Snapshot) {
	s.current.Store(snap)
}
