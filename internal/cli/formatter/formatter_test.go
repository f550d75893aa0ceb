package formatter

import (
	"regexp"
	"strings"
	"testing"

	"github.com/alexanderramin/semplan/internal/builder"
	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/conflict"
	"github.com/alexanderramin/semplan/internal/events"
	"github.com/alexanderramin/semplan/internal/filter"
	"github.com/alexanderramin/semplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func standardCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := builder.Build(testutil.StandardCatalog().Files())
	require.NoError(t, err)
	return c
}

func fallSection(t *testing.T, c *catalog.Catalog, crn int) *catalog.Section {
	t.Helper()
	s, ok := c.SectionByKey(catalog.SectionKey{Term: catalog.TermFall, Year: 2020, CRN: crn})
	require.True(t, ok, "crn %d", crn)
	return s
}

func TestTable_Alignment(t *testing.T) {
	tbl := NewTable("A", "NUM").AlignRight(1)
	tbl.AddRow("x", "5")
	tbl.AddRow("yy", "10")

	want := "A   NUM\n" +
		"──  ───\n" +
		"x     5\n" +
		"yy   10\n"
	assert.Equal(t, want, stripANSI(tbl.Render()))
	assert.Equal(t, 2, tbl.Len())
}

func TestTable_RaggedRows(t *testing.T) {
	got := stripANSI(RenderTable([]string{"A", "B"}, [][]string{{"1"}, {"1", "2", "3"}}))
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "1", strings.TrimSpace(lines[2]))
	assert.Equal(t, "1  2", lines[3])

	assert.Empty(t, RenderTable(nil, nil))
}

func TestStatusIndicator(t *testing.T) {
	tests := []struct {
		status conflict.Status
		want   string
	}{
		{conflict.StatusAdded, "● ADDED"},
		{conflict.StatusConflict, "✖ CONFLICT"},
		{conflict.StatusFull, "◐ FULL"},
		{conflict.StatusNone, "○ open"},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(StatusIndicator(tt.status)))
		})
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		name  string
		pct   float64
		width int
		want  string
	}{
		{"empty", 0, 4, "[░░░░]   0%"},
		{"half", 0.5, 4, "[██░░]  50%"},
		{"full", 1, 4, "[████] 100%"},
		{"over clamps", 1.5, 4, "[████] 100%"},
		{"negative clamps", -1, 4, "[░░░░]   0%"},
		{"tiny width", 0.5, 1, "[█░]  50%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripANSI(RenderBar(tt.pct, tt.width)))
		})
	}
}

func TestReloadProgress(t *testing.T) {
	got := stripANSI(ReloadProgress(events.ReloadProgress{Path: "section.min.json", Size: 2048, Index: 15, Total: 18}, 4))
	assert.Contains(t, got, "16/18 section.min.json")
	assert.Contains(t, got, "(2.0 kB)")

	got = stripANSI(ReloadProgress(events.ReloadProgress{Path: "campus.min.json"}, 4))
	assert.Contains(t, got, "(size unknown)")
	assert.Contains(t, got, "1/0 campus.min.json")
}

func TestFormatCredits(t *testing.T) {
	assert.Equal(t, "3", FormatCredits([2]float64{3, 3}))
	assert.Equal(t, "1-4", FormatCredits([2]float64{1, 4}))
	assert.Equal(t, "1.5", FormatCredits([2]float64{1.5, 1.5}))
	assert.Equal(t, "0-4.5", FormatCredits([2]float64{0, 4.5}))
}

func TestFormatSeats(t *testing.T) {
	assert.Equal(t, "12/30", FormatSeats(catalog.Seats{Enrolled: 12, Max: 30}))
	assert.Equal(t, "4", FormatSeats(catalog.Seats{Enrolled: 4}))
}

func TestFormatMeetingsAndRooms(t *testing.T) {
	oec := &catalog.Building{Code: "OEC", Name: "Olin Engineering Complex"}
	slots := []catalog.Slot{
		{Days: "MWF", StartTime: 900, EndTime: 950, Location: catalog.Location{Building: oec}, Room: "120"},
		{Days: "R", StartTime: 1400, EndTime: 1650, Location: catalog.Location{Building: oec}, Room: "120"},
		{Days: "T", StartTime: 800, EndTime: 915, Location: catalog.Location{Raw: "Online"}},
	}
	assert.Equal(t, "MWF 09:00-09:50; R 14:00-16:50; T 08:00-09:15", FormatMeetings(slots))
	assert.Equal(t, "OEC 120, Online", FormatRooms(slots))
	assert.Equal(t, "TBA", stripANSI(FormatMeetings(nil)))
	assert.Empty(t, FormatRooms(nil))
}

func TestFormatCatalogTime(t *testing.T) {
	assert.Equal(t, "unknown", FormatCatalogTime(0))
	assert.Equal(t, "Aug 1, 2020 12:00 UTC", FormatCatalogTime(1596283200000))
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 section", Plural(1, "section"))
	assert.Equal(t, "0 sections", Plural(0, "section"))
	assert.Equal(t, "3 sections", Plural(3, "section"))
}

func TestFormatSections(t *testing.T) {
	c := standardCatalog(t)
	engine := conflict.NewEngine()
	engine.SetSelection([]*catalog.Section{fallSection(t, c, 10001)})

	got := stripANSI(FormatSections(c.SectionsFor(catalog.TermFall, 2020), engine))

	lines := strings.Split(got, "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Contains(t, lines[2], "10001")
	assert.Contains(t, lines[2], "CSE 1001")
	assert.Contains(t, lines[2], "● ADDED")
	assert.Contains(t, lines[3], "◐ FULL")
	assert.Contains(t, lines[3], "30/30")
	assert.Contains(t, lines[4], "✖ CONFLICT")
	assert.Contains(t, lines[5], "Online")
	assert.Contains(t, lines[5], "○ open")
	assert.Contains(t, got, "4 sections")

	assert.Equal(t, "No sections match.\n", stripANSI(FormatSections(nil, engine)))
}

func TestFormatSubjects(t *testing.T) {
	c := standardCatalog(t)
	engine := conflict.NewEngine()
	engine.SetSelection([]*catalog.Section{fallSection(t, c, 10001)})

	got := stripANSI(FormatSubjects(c.SubjectsFor("Main Campus", catalog.TermFall), engine))

	assert.Contains(t, got, "CSE Computer Science")
	assert.Contains(t, got, "├─ ✔ 1001 Intro to Programming")
	assert.Contains(t, got, "└─ 2010 Algorithms ✖ CONFLICT")
	assert.Contains(t, got, "[ 2 sections, 3 cr ]")
	assert.NotContains(t, got, "30001")

	assert.Equal(t, "No subjects offered.\n", stripANSI(FormatSubjects(nil, engine)))
}

func TestFormatTerms(t *testing.T) {
	got := stripANSI(FormatTerms(catalog.Years{2021, 0, 2020}))
	assert.Contains(t, got, "spring  2021")
	assert.Contains(t, got, "summer     -")
	assert.Contains(t, got, "fall    2020")
}

func TestFormatSectionLine(t *testing.T) {
	c := standardCatalog(t)
	assert.Equal(t, "CSE 1001-01 Intro to Programming (MWF 09:00-09:50)", FormatSectionLine(fallSection(t, c, 10001)))
}

func TestFormatFilterOptions(t *testing.T) {
	out := stripANSI(FormatFilterOptions(filter.Options(standardCatalog(t))))

	assert.Contains(t, out, "FILTER OPTIONS")
	assert.Regexp(t, `--campus\s+Main Campus`, out)
	assert.Regexp(t, `--subject\s+CSE, MTH`, out)
	assert.Regexp(t, `--number\s+1001, 2010`, out)
	assert.Regexp(t, `--instructor\s+Ada Lovelace, Alan Turing`, out)
	assert.Regexp(t, `--tag\s+CL - Computer Literacy`, out)
	assert.Regexp(t, `(?m)--credits\s+3\s*$`, out)
}
