package testutil

import "github.com/alexanderramin/semplan/internal/catalog"

// SectionOption configures a section built by NewSection.
type SectionOption func(*catalog.Section)

// WithSlot adds a meeting on days from start to end (HHMM).
func WithSlot(days string, start, end int) SectionOption {
	return func(s *catalog.Section) {
		s.Slots = append(s.Slots, catalog.Slot{Days: days, StartTime: start, EndTime: end})
	}
}

func WithCapacity(enrolled, max int) SectionOption {
	return func(s *catalog.Section) {
		s.Capacity = catalog.Seats{Enrolled: enrolled, Max: max}
	}
}

func WithTerm(term catalog.Term, year int) SectionOption {
	return func(s *catalog.Section) {
		s.Term = term
		s.Year = year
	}
}

// WithCourse attaches the section to c and appends it to c.Sections.
func WithCourse(c *catalog.Course) SectionOption {
	return func(s *catalog.Section) {
		s.Course = c
		c.Sections = append(c.Sections, s)
	}
}

// NewSection creates a fall 2020 section with 30 open seats and no slots.
func NewSection(crn int, opts ...SectionOption) *catalog.Section {
	s := &catalog.Section{
		Campus:   "Main Campus",
		Term:     catalog.TermFall,
		Year:     2020,
		CRN:      crn,
		CourseID: -1,
		Label:    "01",
		Capacity: catalog.Seats{Enrolled: 0, Max: 30},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
