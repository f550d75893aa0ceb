// Package events is the typed notification bus. Each event kind has its own
// Topic with a concrete payload type, so subscribers never type-assert.
package events

import (
	"log/slog"
	"sync"

	"github.com/alexanderramin/semplan/internal/catalog"
)

// Kind names an event kind for logging.
type Kind string

const (
	KindReloadProgress  Kind = "reload.progress"
	KindReloadComplete  Kind = "reload.complete"
	KindReloadError     Kind = "reload.error"
	KindUpdateAvailable Kind = "data.updateAvailable"
	KindSelectionUpdate Kind = "selection.update"
	KindTermContext     Kind = "term-context"
)

// ReloadProgress is published before each catalog file fetch.
type ReloadProgress struct {
	Path  string
	Size  int64 // from the last known metadata; 0 when unknown
	Index int
	Total int
}

// ReloadComplete is published once a new snapshot is current.
type ReloadComplete struct {
	Snapshot *catalog.Snapshot
}

// ReloadError carries the failure that aborted a reload.
type ReloadError struct {
	Err error
}

// UpdateAvailable is published when the metadata timestamp changes.
type UpdateAvailable struct {
	Timestamp int64
}

// SelectionUpdate carries the selection after a transition, in order.
type SelectionUpdate struct {
	Sections []*catalog.Section
}

// TermContext establishes the active term and year.
type TermContext struct {
	Term catalog.Term
	Year int
}

// Topic delivers payloads of one type to its subscribers, synchronously and
// in subscription order, on the publisher's goroutine.
type Topic[T any] struct {
	kind Kind

	mu     sync.RWMutex
	nextID int
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

func newTopic[T any](kind Kind) *Topic[T] {
	return &Topic[T]{kind: kind}
}

// Kind returns the topic's event kind.
func (t *Topic[T]) Kind() Kind { return t.kind }

// Subscribe registers fn and returns a function that removes it.
func (t *Topic[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.subs = append(t.subs, subscriber[T]{id: id, fn: fn})
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			for i, s := range t.subs {
				if s.id == id {
					t.subs = append(t.subs[:i:i], t.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Chan subscribes a buffered channel. Publishing never blocks on it: when
// the buffer is full the event is dropped for this subscriber.
func (t *Topic[T]) Chan(buffer int) (<-chan T, func()) {
	ch := make(chan T, buffer)
	unsubscribe := t.Subscribe(func(v T) {
		select {
		case ch <- v:
		default:
		}
	})
	return ch, unsubscribe
}

// Publish delivers v to every current subscriber.
func (t *Topic[T]) Publish(v T) {
	t.mu.RLock()
	subs := make([]subscriber[T], len(t.subs))
	copy(subs, t.subs)
	t.mu.RUnlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Len reports the number of subscribers.
func (t *Topic[T]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.subs)
}

// Bus groups one topic per event kind.
type Bus struct {
	ReloadProgress  *Topic[ReloadProgress]
	ReloadComplete  *Topic[ReloadComplete]
	ReloadError     *Topic[ReloadError]
	UpdateAvailable *Topic[UpdateAvailable]
	SelectionUpdate *Topic[SelectionUpdate]
	TermContext     *Topic[TermContext]
}

func NewBus() *Bus {
	return &Bus{
		ReloadProgress:  newTopic[ReloadProgress](KindReloadProgress),
		ReloadComplete:  newTopic[ReloadComplete](KindReloadComplete),
		ReloadError:     newTopic[ReloadError](KindReloadError),
		UpdateAvailable: newTopic[UpdateAvailable](KindUpdateAvailable),
		SelectionUpdate: newTopic[SelectionUpdate](KindSelectionUpdate),
		TermContext:     newTopic[TermContext](KindTermContext),
	}
}

// Probe logs every publish on the bus at debug level. The returned function
// removes the probes.
func (b *Bus) Probe(logger *slog.Logger) func() {
	if logger == nil {
		logger = slog.Default()
	}
	offs := []func(){
		probe(b.ReloadProgress, logger, func(e ReloadProgress) []any {
			return []any{"path", e.Path, "size", e.Size, "index", e.Index, "total", e.Total}
		}),
		probe(b.ReloadComplete, logger, func(e ReloadComplete) []any {
			if e.Snapshot == nil {
				return nil
			}
			return []any{"timestamp", e.Snapshot.Timestamp}
		}),
		probe(b.ReloadError, logger, func(e ReloadError) []any {
			return []any{"error", e.Err}
		}),
		probe(b.UpdateAvailable, logger, func(e UpdateAvailable) []any {
			return []any{"timestamp", e.Timestamp}
		}),
		probe(b.SelectionUpdate, logger, func(e SelectionUpdate) []any {
			crns := make([]int, len(e.Sections))
			for i, s := range e.Sections {
				crns[i] = s.CRN
			}
			return []any{"crns", crns}
		}),
		probe(b.TermContext, logger, func(e TermContext) []any {
			return []any{"term", string(e.Term), "year", e.Year}
		}),
	}
	return func() {
		for _, off := range offs {
			off()
		}
	}
}

func probe[T any](t *Topic[T], logger *slog.Logger, attrs func(T) []any) func() {
	return t.Subscribe(func(v T) {
		logger.Debug("event", append([]any{"kind", string(t.kind)}, attrs(v)...)...)
	})
}
