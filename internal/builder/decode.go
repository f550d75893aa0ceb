package builder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/semplan/internal/catalog"
)

func decodeBuilding(_ *catalog.Catalog, t *tuple) catalog.Building {
	return catalog.Building{Code: t.str(0), Name: t.str(1)}
}

func decodeDepartment(c *catalog.Catalog, t *tuple) catalog.Department {
	return catalog.Department{
		Code:     t.str(0),
		Name:     t.str(1),
		Phone:    t.str(2),
		Fax:      t.str(3),
		Email:    t.str(4),
		Website:  t.str(5),
		Building: ref(t, 6, c.Buildings),
	}
}

func decodeEmployee(c *catalog.Catalog, t *tuple) catalog.Employee {
	return catalog.Employee{
		Name:       t.str(0),
		Title:      t.str(1),
		Email:      t.str(2),
		Phone:      t.str(3),
		Building:   ref(t, 4, c.Buildings),
		Room:       t.str(5),
		Department: ref(t, 6, c.Departments),
	}
}

func decodeTag(_ *catalog.Catalog, t *tuple) catalog.Tag {
	return catalog.Tag{Code: t.str(0), Name: t.str(1)}
}

func decodeTerm(t *tuple, i int) catalog.Term {
	idx := t.number(i)
	if t.err != nil {
		return catalog.TermUnknown
	}
	term, err := catalog.TermFromIndex(idx)
	if err != nil {
		t.fail(i, fmt.Errorf("%w: %v", ErrIndexOutOfRange, err))
	}
	return term
}

func decodeSection(c *catalog.Catalog, t *tuple) catalog.Section {
	capacity := t.intPair(7)
	waitlist := t.intPair(8)
	return catalog.Section{
		Campus:        lookup(t, 0, c.Campuses),
		Term:          decodeTerm(t, 1),
		Year:          t.number(2),
		CRN:           t.number(3),
		CourseID:      t.number(4),
		Label:         t.str(5),
		CreditHours:   t.floatPair(6),
		Capacity:      catalog.Seats{Enrolled: capacity[0], Max: capacity[1]},
		Waitlist:      catalog.Seats{Enrolled: waitlist[0], Max: waitlist[1]},
		Title:         lookup(t, 9, c.Titles),
		Notes:         lookups(t, 10, c.Notes),
		Session:       optLookup(t, 11, c.Sessions),
		Instructor:    ref(t, 12, c.Employees),
		Syllabus:      t.optStr(13),
		CrossListings: decodeCrossListings(t, 14),
		Slots:         decodeSlots(c, t, 15),
		Level:         lookup(t, 16, c.Levels),
		Restrictions:  lookups(t, 17, c.Restrictions),
	}
}

func decodeCrossListings(t *tuple, i int) []catalog.CrossListing {
	var raw [][]json.RawMessage
	if !t.decode(i, &raw) {
		return nil
	}
	out := make([]catalog.CrossListing, 0, len(raw))
	for j, pair := range raw {
		sub, err := newTuple(t.file, t.row, pair, 2)
		if err != nil {
			t.fail(i, fmt.Errorf("cross-listing %d: %w", j, err))
			return nil
		}
		cl := catalog.CrossListing{Subject: sub.str(0), Number: sub.number(1)}
		if sub.err != nil {
			t.fail(i, fmt.Errorf("cross-listing %d: %w", j, sub.err))
			return nil
		}
		out = append(out, cl)
	}
	return out
}

// decodeSlots expands [days, start, end, building, room] tuples. The
// building field is a building index, a raw location string, or null.
func decodeSlots(c *catalog.Catalog, t *tuple, i int) []catalog.Slot {
	var raw [][]json.RawMessage
	if !t.decode(i, &raw) {
		return nil
	}
	out := make([]catalog.Slot, 0, len(raw))
	for j, fields := range raw {
		sub, err := newTuple(t.file, t.row, fields, 5)
		if err != nil {
			t.fail(i, fmt.Errorf("slot %d: %w", j, err))
			return nil
		}
		slot := catalog.Slot{
			Days:      sub.str(0),
			StartTime: sub.number(1),
			EndTime:   sub.number(2),
			Location:  decodeLocation(c, sub, 3),
			Room:      sub.str(4),
		}
		if sub.err != nil {
			t.fail(i, fmt.Errorf("slot %d: %w", j, sub.err))
			return nil
		}
		out = append(out, slot)
	}
	return out
}

func decodeLocation(c *catalog.Catalog, t *tuple, i int) catalog.Location {
	field := bytes.TrimSpace(t.fields[i])
	switch {
	case len(field) == 0 || bytes.Equal(field, []byte("null")):
		return catalog.Location{}
	case field[0] == '"':
		return catalog.Location{Raw: t.str(i)}
	default:
		return catalog.Location{Building: ref(t, i, c.Buildings)}
	}
}

func decodeCourse(c *catalog.Catalog, t *tuple) catalog.Course {
	return catalog.Course{
		SubjectID:     t.number(0),
		Number:        t.number(1),
		Campus:        lookup(t, 2, c.Campuses),
		Term:          decodeTerm(t, 3),
		Year:          t.number(4),
		CreditHours:   t.floatPair(5),
		Sections:      refs(t, 6, c.Sections),
		Title:         lookup(t, 7, c.Titles),
		Description:   optLookup(t, 8, c.Descriptions),
		Tags:          refs(t, 9, c.Tags),
		LectureHours:  t.float(10),
		LabHours:      t.optFloat(11),
		Level:         lookup(t, 12, c.Levels),
		ScheduleTypes: lookups(t, 13, c.ScheduleTypes),
		Restrictions:  lookups(t, 14, c.Restrictions),
		Prerequisite:  optLookup(t, 15, c.Prerequisites),
		Attributes:    lookups(t, 16, c.CourseAttributes),
	}
}

// decodeSubject slices the course pool by the [start,end) window carried in
// the tuple. The slice shares the pool's backing array.
func decodeSubject(c *catalog.Catalog, t *tuple) catalog.Subject {
	s := catalog.Subject{Code: t.str(0), Name: t.str(1)}
	start, end := t.number(2), t.number(3)
	if t.err != nil {
		return s
	}
	if start < 0 || end < start || end > len(c.Courses) {
		t.fail(2, fmt.Errorf("%w: [%d,%d) over %d courses", ErrBadSlice, start, end, len(c.Courses)))
		return s
	}
	s.Courses = c.Courses[start:end:end]
	return s
}
