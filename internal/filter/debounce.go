package filter

import (
	"sync"
	"time"

	"github.com/alexanderramin/semplan/internal/catalog"
)

// Debouncer runs only the last of a burst of triggers. Each Trigger cancels
// the pending call and schedules a fresh one after the delay.
type Debouncer struct {
	delay time.Duration

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any call still pending.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.gen == gen
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

// Stop cancels the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
}

// Live recomputes a filtered view whenever the criteria or the input
// change. Bursts of changes collapse into one recompute.
type Live struct {
	debounce *Debouncer
	sections func() []*catalog.Section
	publish  func(Criteria, []*catalog.Section)

	mu       sync.Mutex
	criteria Criteria
}

// NewLive filters the output of sections and hands each result to publish.
func NewLive(delay time.Duration, criteria Criteria, sections func() []*catalog.Section, publish func(Criteria, []*catalog.Section)) *Live {
	return &Live{
		debounce: NewDebouncer(delay),
		sections: sections,
		publish:  publish,
		criteria: criteria,
	}
}

func (l *Live) Criteria() Criteria {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.criteria
}

// Set replaces the criteria and schedules a recompute.
func (l *Live) Set(c Criteria) {
	l.mu.Lock()
	l.criteria = c
	l.mu.Unlock()
	l.Refresh()
}

// Refresh schedules a recompute with the current criteria.
func (l *Live) Refresh() {
	l.debounce.Trigger(func() {
		c := l.Criteria()
		l.publish(c, Apply(c, l.sections()))
	})
}

// Stop drops any pending recompute.
func (l *Live) Stop() {
	l.debounce.Stop()
}
