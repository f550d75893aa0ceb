package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/conflict"
	"github.com/alexanderramin/semplan/internal/filter"
)

// FormatReloadSummary describes a freshly published snapshot.
func FormatReloadSummary(snap *catalog.Snapshot) string {
	c := snap.Catalog
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Dim("Published:"), FormatCatalogTime(snap.Timestamp))
	fmt.Fprintf(&b, "%s  %s\n", Dim("Years:    "), formatYears(snap.Years))
	b.WriteString("\n")

	t := NewTable("POOL", "COUNT").AlignRight(1)
	for _, row := range []struct {
		name string
		n    int
	}{
		{"subjects", len(c.Subjects)},
		{"courses", len(c.Courses)},
		{"sections", len(c.Sections)},
		{"employees", len(c.Employees)},
		{"buildings", len(c.Buildings)},
		{"departments", len(c.Departments)},
	} {
		t.AddRow(row.name, strconv.Itoa(row.n))
	}
	b.WriteString(t.Render())
	return RenderBox("Catalog loaded", strings.TrimRight(b.String(), "\n")) + "\n"
}

func formatYears(y catalog.Years) string {
	parts := make([]string, len(catalog.Terms))
	for i, term := range catalog.Terms {
		parts[i] = fmt.Sprintf("%s %d", term, y[i])
	}
	return strings.Join(parts, ", ")
}

// FormatTerms lists the year declared for each term.
func FormatTerms(y catalog.Years) string {
	t := NewTable("TERM", "YEAR").AlignRight(1)
	for i, term := range catalog.Terms {
		year := Dim("-")
		if y[i] > 0 {
			year = strconv.Itoa(y[i])
		}
		t.AddRow(string(term), year)
	}
	return t.Render()
}

// FormatSubjects renders subjects as a tree of their courses, each course
// marked with its rolled-up status and credit hours.
func FormatSubjects(subjects []catalog.Subject, engine *conflict.Engine) string {
	if len(subjects) == 0 {
		return Dim("No subjects offered.") + "\n"
	}
	var items []TreeItem
	for _, s := range subjects {
		items = append(items, TreeItem{Title: Bold(s.Code) + " " + s.Name})
		for i := range s.Courses {
			c := &s.Courses[i]
			items = append(items, TreeItem{
				Title:  fmt.Sprintf("%d %s", c.Number, c.Title),
				Level:  1,
				IsLast: i == len(s.Courses)-1,
				Status: engine.CourseStatus(c),
				Detail: Plural(len(c.Sections), "section") + ", " + FormatCredits(c.CreditHours) + " cr",
			})
		}
	}
	return RenderTree(items)
}

// FormatSections renders a section table with each row coloured by its
// classification against the current selection.
func FormatSections(sections []*catalog.Section, engine *conflict.Engine) string {
	if len(sections) == 0 {
		return Dim("No sections match.") + "\n"
	}
	t := NewTable("CRN", "COURSE", "SEC", "TITLE", "MEETS", "ROOM", "INSTRUCTOR", "SEATS", "CR", "STATUS").
		AlignRight(0, 7, 8)
	for _, s := range sections {
		st := engine.Status(s)
		style := StatusStyle(st)
		course := ""
		if s.Course != nil {
			course = s.Course.Code()
		}
		t.AddRow(
			style.Render(strconv.Itoa(s.CRN)),
			course,
			s.Label,
			s.Title,
			FormatMeetings(s.Slots),
			FormatRooms(s.Slots),
			s.InstructorName(),
			FormatSeats(s.Capacity),
			FormatCredits(s.CreditHours),
			StatusIndicator(st),
		)
	}
	return t.Render() + Dim(Plural(len(sections), "section")) + "\n"
}

// FormatSectionLine is a one-line description used in confirmations.
func FormatSectionLine(s *catalog.Section) string {
	course := "CRN " + strconv.Itoa(s.CRN)
	if s.Course != nil {
		course = s.Course.Code() + "-" + s.Label
	}
	return fmt.Sprintf("%s %s (%s)", course, s.Title, FormatMeetings(s.Slots))
}

// FormatFilterOptions lists the values each filter flag can take, keyed by
// flag name.
func FormatFilterOptions(opts filter.OptionLists) string {
	credits := make([]string, len(opts.CreditHours))
	for i, h := range opts.CreditHours {
		credits[i] = strconv.FormatFloat(h, 'f', -1, 64)
	}

	t := NewTable("FLAG", "CHOICES")
	for _, row := range []struct {
		flag    string
		choices []string
	}{
		{"--campus", opts.Campuses},
		{"--session", opts.Sessions},
		{"--subject", opts.Subjects},
		{"--number", opts.CourseNumbers},
		{"--instructor", opts.Instructors},
		{"--tag", opts.Tags},
		{"--credits", credits},
	} {
		choices := strings.Join(row.choices, ", ")
		if choices == "" {
			choices = Dim("none")
		}
		t.AddRow(row.flag, choices)
	}
	return Header("FILTER OPTIONS") + "\n" + t.Render()
}
