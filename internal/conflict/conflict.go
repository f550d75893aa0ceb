// Package conflict classifies candidate sections against the current
// selection.
package conflict

import (
	"sort"
	"sync"

	"github.com/alexanderramin/semplan/internal/catalog"
)

// Status is a section's classification. The zero value means selectable.
type Status string

const (
	StatusNone     Status = ""
	StatusAdded    Status = "added"
	StatusConflict Status = "conflict"
	StatusFull     Status = "full"
)

type interval struct {
	start, end int
}

// Conflicts reports whether a and b meet at overlapping times on any
// weekday. Intervals are closed: one slot ending at 1000 and another
// starting at 1000 conflict.
func Conflicts(a, b *catalog.Section) bool {
	for i := 0; i < len(catalog.Weekdays); i++ {
		if dayConflict(catalog.Weekdays[i], a, b) {
			return true
		}
	}
	return false
}

func dayConflict(day byte, a, b *catalog.Section) bool {
	var times []interval
	for _, s := range [2]*catalog.Section{a, b} {
		for _, slot := range s.Slots {
			if slot.MeetsOn(day) {
				times = append(times, interval{slot.StartTime, slot.EndTime})
			}
		}
	}
	if len(times) < 2 {
		return false
	}
	sort.SliceStable(times, func(i, j int) bool { return times[i].start < times[j].start })
	for i := 1; i < len(times); i++ {
		if times[i-1].end >= times[i].start {
			return true
		}
	}
	return false
}

// Engine classifies sections against a selection and memoizes the result
// per section key. Any selection change drops the whole cache.
type Engine struct {
	mu       sync.Mutex
	selected []*catalog.Section
	keys     map[catalog.SectionKey]struct{}
	cache    map[catalog.SectionKey]Status
}

func NewEngine() *Engine {
	return &Engine{
		keys:  map[catalog.SectionKey]struct{}{},
		cache: map[catalog.SectionKey]Status{},
	}
}

// SetSelection replaces the selection and clears the cache.
func (e *Engine) SetSelection(sections []*catalog.Section) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.selected = append([]*catalog.Section(nil), sections...)
	e.keys = make(map[catalog.SectionKey]struct{}, len(sections))
	for _, s := range sections {
		e.keys[s.Key()] = struct{}{}
	}
	e.cache = map[catalog.SectionKey]Status{}
}

// Invalidate clears the cache without changing the selection.
func (e *Engine) Invalidate() {
	e.mu.Lock()
	e.cache = map[catalog.SectionKey]Status{}
	e.mu.Unlock()
}

// Selected returns a copy of the current selection.
func (e *Engine) Selected() []*catalog.Section {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*catalog.Section(nil), e.selected...)
}

// Status classifies s: added beats conflict, conflict beats full.
func (e *Engine) Status(s *catalog.Section) Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status(s)
}

func (e *Engine) status(s *catalog.Section) Status {
	key := s.Key()
	if st, ok := e.cache[key]; ok {
		return st
	}
	st := e.classify(s)
	e.cache[key] = st
	return st
}

func (e *Engine) classify(s *catalog.Section) Status {
	key := s.Key()
	if _, ok := e.keys[key]; ok {
		return StatusAdded
	}
	for _, other := range e.selected {
		if other.Key() != key && Conflicts(s, other) {
			return StatusConflict
		}
	}
	if s.IsFull() {
		return StatusFull
	}
	return StatusNone
}

// ConflictsWith returns the selected sections that overlap s.
func (e *Engine) ConflictsWith(s *catalog.Section) []*catalog.Section {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*catalog.Section
	for _, other := range e.selected {
		if other.Key() != s.Key() && Conflicts(s, other) {
			out = append(out, other)
		}
	}
	return out
}

// CourseStatus rolls section statuses up to the course: added when any
// section is selected, full when every section is full, conflict when every
// section conflicts. A course without sections has no status.
func (e *Engine) CourseStatus(c *catalog.Course) Status {
	if len(c.Sections) == 0 {
		return StatusNone
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	allFull, allConflict := true, true
	for _, s := range c.Sections {
		if _, ok := e.keys[s.Key()]; ok {
			return StatusAdded
		}
		if !s.IsFull() {
			allFull = false
		}
		if e.status(s) != StatusConflict {
			allConflict = false
		}
	}
	switch {
	case allFull:
		return StatusFull
	case allConflict:
		return StatusConflict
	default:
		return StatusNone
	}
}

// CacheLen reports how many classifications are memoized.
func (e *Engine) CacheLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.cache)
}
