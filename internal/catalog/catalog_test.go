package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTermFromIndex_SentinelAndRange(t *testing.T) {
	term, err := TermFromIndex(-1)
	require.NoError(t, err)
	assert.Equal(t, TermUnknown, term)

	term, err = TermFromIndex(2)
	require.NoError(t, err)
	assert.Equal(t, TermFall, term)

	_, err = TermFromIndex(3)
	assert.Error(t, err)
}

func TestParseTerm_CaseInsensitive(t *testing.T) {
	term, err := ParseTerm(" Summer ")
	require.NoError(t, err)
	assert.Equal(t, TermSummer, term)

	_, err = ParseTerm("winter")
	assert.Error(t, err)
}

func TestSection_IsFull(t *testing.T) {
	tests := []struct {
		name string
		cap  Seats
		want bool
	}{
		{"below max", Seats{Enrolled: 10, Max: 30}, false},
		{"at max", Seats{Enrolled: 30, Max: 30}, true},
		{"over max", Seats{Enrolled: 31, Max: 30}, true},
		{"zero max never full", Seats{Enrolled: 5, Max: 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Section{Capacity: tt.cap}
			assert.Equal(t, tt.want, s.IsFull())
		})
	}
}

func TestSubject_FilterKeepsCampusAndTerm(t *testing.T) {
	pool := []Course{
		{Number: 1001, Campus: "Main Campus", Term: TermFall},
		{Number: 1002, Campus: "Online", Term: TermFall},
		{Number: 1003, Campus: "Main Campus", Term: TermSpring},
	}
	subj := Subject{Code: "CSE", Name: "Computer Science", Courses: pool}

	got := subj.Filter("Main Campus", TermFall)
	require.Len(t, got.Courses, 1)
	assert.Equal(t, 1001, got.Courses[0].Number)
	assert.Equal(t, "CSE", got.Code)
	assert.Len(t, subj.Courses, 3, "filter must not modify the original subject")
}

func TestCatalog_SubjectsForDropsEmpty(t *testing.T) {
	courses := []Course{
		{Number: 1001, Campus: "Main Campus", Term: TermFall},
		{Number: 2001, Campus: "Main Campus", Term: TermSpring},
	}
	c := &Catalog{
		Courses: courses,
		Subjects: []Subject{
			{Code: "CSE", Courses: courses[0:1]},
			{Code: "MTH", Courses: courses[1:2]},
		},
	}

	got := c.SubjectsFor("Main Campus", TermFall)
	require.Len(t, got, 1)
	assert.Equal(t, "CSE", got[0].Code)
}

func TestCatalog_SectionByKey(t *testing.T) {
	c := &Catalog{Sections: []Section{
		{Term: TermFall, Year: 2020, CRN: 100},
		{Term: TermSpring, Year: 2021, CRN: 100},
	}}
	c.IndexSections()

	s, ok := c.SectionByKey(SectionKey{Term: TermSpring, Year: 2021, CRN: 100})
	require.True(t, ok)
	assert.Same(t, &c.Sections[1], s)

	_, ok = c.SectionByKey(SectionKey{Term: TermSummer, Year: 2021, CRN: 100})
	assert.False(t, ok)

	assert.Len(t, c.SectionsFor(TermFall, 2020), 1)
}

func TestFormatHHMM(t *testing.T) {
	assert.Equal(t, "14:30", FormatHHMM(1430))
	assert.Equal(t, "08:05", FormatHHMM(805))
	assert.Equal(t, 14*60+30, Minutes(1430))
}

func TestCourse_LevelBucketAndCode(t *testing.T) {
	subj := &Subject{Code: "CSE"}
	c := Course{Number: 3425, Subject: subj}
	assert.Equal(t, 3000, c.LevelBucket())
	assert.Equal(t, "CSE 3425", c.Code())
}

func TestStore_PublishSwapsSnapshot(t *testing.T) {
	store := NewStore()
	assert.Nil(t, store.Current())
	assert.Nil(t, store.Catalog())

	first := &Snapshot{Catalog: &Catalog{}, Timestamp: 1}
	store.Publish(first)
	assert.Same(t, first, store.Current())

	second := &Snapshot{Catalog: &Catalog{}, Timestamp: 2}
	store.Publish(second)
	assert.Same(t, second, store.Current())
	assert.Equal(t, int64(1), first.Timestamp, "old snapshot is left untouched")
}

func TestYears_For(t *testing.T) {
	y := Years{2021, 2021, 2020}
	got, ok := y.For(TermFall)
	require.True(t, ok)
	assert.Equal(t, 2020, got)

	_, ok = y.For(TermUnknown)
	assert.False(t, ok)
}

func TestLocation_Code(t *testing.T) {
	assert.Equal(t, "OEC", Location{Building: &Building{Code: "OEC"}}.Code())
	assert.Equal(t, "TBA", Location{Raw: "TBA"}.Code())
	assert.Equal(t, "", Location{}.Code())
}
