// Package filter narrows a term's sections by user criteria.
package filter

import (
	"sort"
	"strconv"
	"strings"

	"github.com/alexanderramin/semplan/internal/catalog"
)

// Criteria selects sections. Text fields match case-insensitive substrings
// and are ignored when empty; CourseNumber and CreditHours are ignored when
// negative.
type Criteria struct {
	Term         catalog.Term
	Campus       string
	Session      string
	Subject      string
	CourseNumber int
	Title        string
	Instructor   string
	Tag          string
	CreditHours  float64
}

// New returns criteria for term on campus with every other field unset.
func New(term catalog.Term, campus string) Criteria {
	return Criteria{Term: term, Campus: campus, CourseNumber: -1, CreditHours: -1}
}

func contains(value, needle string) bool {
	return needle == "" || strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}

// Match reports whether s satisfies every set criterion.
func (c Criteria) Match(s *catalog.Section) bool {
	if c.Term != catalog.TermUnknown && s.Term != c.Term {
		return false
	}
	var session string
	if s.Session != nil {
		session = *s.Session
	}
	if !contains(s.Campus, c.Campus) ||
		!contains(session, c.Session) ||
		!contains(s.Title, c.Title) ||
		!contains(s.InstructorName(), c.Instructor) {
		return false
	}

	course := s.Course
	if c.Subject != "" {
		if course == nil || course.Subject == nil || !contains(course.Subject.Code, c.Subject) {
			return false
		}
	}
	if c.CourseNumber >= 0 && (course == nil || course.Number != c.CourseNumber) {
		return false
	}
	if c.Tag != "" && (course == nil || !hasTag(course, c.Tag)) {
		return false
	}
	if c.CreditHours >= 0 && (s.CreditHours[0] > c.CreditHours || c.CreditHours > s.CreditHours[1]) {
		return false
	}
	return true
}

func hasTag(course *catalog.Course, needle string) bool {
	for _, t := range course.Tags {
		if contains(TagLabel(*t), needle) {
			return true
		}
	}
	return false
}

// TagLabel renders a tag as "CODE - Name".
func TagLabel(t catalog.Tag) string {
	return t.Code + " - " + t.Name
}

// Apply returns the sections matching c, in input order.
func Apply(c Criteria, sections []*catalog.Section) []*catalog.Section {
	var out []*catalog.Section
	for _, s := range sections {
		if c.Match(s) {
			out = append(out, s)
		}
	}
	return out
}

// OptionLists holds the distinct values offered for each criterion.
type OptionLists struct {
	Campuses      []string
	Sessions      []string
	Subjects      []string
	CourseNumbers []string
	Titles        []string
	Instructors   []string
	Tags          []string
	CreditHours   []float64
}

// Options extracts the choices for each criterion from c.
func Options(c *catalog.Catalog) OptionLists {
	opts := OptionLists{
		Campuses: append([]string(nil), c.Campuses...),
		Sessions: append([]string(nil), c.Sessions...),
		Titles:   append([]string(nil), c.Titles...),
	}
	for _, s := range c.Subjects {
		opts.Subjects = append(opts.Subjects, s.Code)
	}
	for _, t := range c.Tags {
		opts.Tags = append(opts.Tags, TagLabel(t))
	}

	numbers := map[string]bool{}
	for _, course := range c.Courses {
		numbers[strconv.Itoa(course.Number)] = true
	}
	opts.CourseNumbers = sortedKeys(numbers)

	instructors := map[string]bool{}
	hours := map[float64]bool{}
	for i := range c.Sections {
		s := &c.Sections[i]
		if name := s.InstructorName(); name != "" {
			instructors[name] = true
		}
		hours[s.CreditHours[0]] = true
		hours[s.CreditHours[1]] = true
	}
	opts.Instructors = sortedKeys(instructors)
	for h := range hours {
		opts.CreditHours = append(opts.CreditHours, h)
	}
	sort.Float64s(opts.CreditHours)
	return opts
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
