package filter

import (
	"testing"

	"github.com/alexanderramin/semplan/internal/builder"
	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standard(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := builder.Build(testutil.StandardCatalog().Files())
	require.NoError(t, err)
	return c
}

func crns(sections []*catalog.Section) []int {
	out := make([]int, len(sections))
	for i, s := range sections {
		out[i] = s.CRN
	}
	return out
}

func TestCriteria_Match(t *testing.T) {
	c := standard(t)
	fall := c.SectionsFor(catalog.TermFall, 2020)

	tests := []struct {
		name   string
		modify func(*Criteria)
		want   []int
	}{
		{"term and campus only", func(*Criteria) {}, []int{10001, 10002, 10003, 20001}},
		{"subject case-insensitive", func(c *Criteria) { c.Subject = "cse" }, []int{10001, 10002, 10003}},
		{"course number exact", func(c *Criteria) { c.CourseNumber = 2010 }, []int{10003}},
		{"title substring", func(c *Criteria) { c.Title = "calc" }, []int{20001}},
		{"instructor substring", func(c *Criteria) { c.Instructor = "lovelace" }, []int{10002}},
		{"credit hours in range", func(c *Criteria) { c.CreditHours = 3 }, []int{10001, 10002, 10003, 20001}},
		{"credit hours out of range", func(c *Criteria) { c.CreditHours = 4 }, nil},
		{"unknown campus", func(c *Criteria) { c.Campus = "Online" }, nil},
		{"session set filters sessionless", func(c *Criteria) { c.Session = "A" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			crit := New(catalog.TermFall, "main campus")
			tt.modify(&crit)
			got := Apply(crit, fall)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, crns(got))
		})
	}
}

func TestCriteria_TermMismatch(t *testing.T) {
	s := testutil.NewSection(1, testutil.WithTerm(catalog.TermSpring, 2021))
	assert.False(t, New(catalog.TermFall, "").Match(s))
	assert.True(t, New(catalog.TermUnknown, "").Match(s))
}

func TestCriteria_Tag(t *testing.T) {
	tag := &catalog.Tag{Code: "CL", Name: "Computer Literacy"}
	course := &catalog.Course{Number: 1001, Tags: []*catalog.Tag{tag}}
	tagged := testutil.NewSection(1, testutil.WithCourse(course))
	untagged := testutil.NewSection(2, testutil.WithCourse(&catalog.Course{Number: 1002}))

	crit := New(catalog.TermFall, "")
	crit.Tag = "cl - computer"
	assert.True(t, crit.Match(tagged))
	assert.False(t, crit.Match(untagged))
}

func TestOptions(t *testing.T) {
	opts := Options(standard(t))

	assert.Equal(t, []string{"Main Campus"}, opts.Campuses)
	assert.Equal(t, []string{"CSE", "MTH"}, opts.Subjects)
	assert.Equal(t, []string{"1001", "2010"}, opts.CourseNumbers)
	assert.Equal(t, []string{"Ada Lovelace", "Alan Turing"}, opts.Instructors)
	assert.Equal(t, []string{"CL - Computer Literacy"}, opts.Tags)
	assert.Equal(t, []float64{3}, opts.CreditHours)
}
