package testutil

import (
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/semplan/internal/catalog"
)

// MetadataPath is the metadata file name served next to the catalog files.
const MetadataPath = "metaData.min.json"

// RawCatalog describes a small catalog and renders it into the compact
// min.json files the builder consumes. Courses are laid out grouped by
// subject so each subject's window is contiguous.
type RawCatalog struct {
	Buildings []catalog.Building
	Employees []string
	Subjects  []*SubjectSpec

	Descriptions []string
	Notes        []string
	Tags         []catalog.Tag
}

// SubjectSpec is one subject and its courses.
type SubjectSpec struct {
	Code    string
	Name    string
	Courses []*CourseSpec
}

// CourseSpec is one course offering.
type CourseSpec struct {
	Number   int
	Title    string
	Campus   string
	Term     catalog.Term
	Year     int
	Credits  [2]float64
	Sections []*SectionSpec
}

// SectionSpec is one section of a course.
type SectionSpec struct {
	CRN        int
	Label      string
	Capacity   [2]int
	Instructor string
	Session    string
	Slots      []SlotSpec
}

// SlotSpec is one meeting; Building is matched against the building pool by
// code and kept as a raw string otherwise.
type SlotSpec struct {
	Days     string
	Start    int
	End      int
	Building string
	Room     string
}

// CatalogOption configures a RawCatalog.
type CatalogOption func(*RawCatalog)

// WithSubject appends a subject.
func WithSubject(code, name string, courses ...*CourseSpec) CatalogOption {
	return func(r *RawCatalog) {
		r.Subjects = append(r.Subjects, &SubjectSpec{Code: code, Name: name, Courses: courses})
	}
}

// WithBuilding appends a building.
func WithBuilding(code, name string) CatalogOption {
	return func(r *RawCatalog) {
		r.Buildings = append(r.Buildings, catalog.Building{Code: code, Name: name})
	}
}

// NewRawCatalog returns a catalog with one building and the given options
// applied.
func NewRawCatalog(opts ...CatalogOption) *RawCatalog {
	r := &RawCatalog{
		Buildings: []catalog.Building{{Code: "OEC", Name: "Olin Engineering Complex"}},
		Tags:      []catalog.Tag{{Code: "CL", Name: "Computer Literacy"}},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewCourse builds a course spec on Main Campus.
func NewCourse(number int, title string, term catalog.Term, year int, sections ...*SectionSpec) *CourseSpec {
	return &CourseSpec{
		Number:   number,
		Title:    title,
		Campus:   "Main Campus",
		Term:     term,
		Year:     year,
		Credits:  [2]float64{3, 3},
		Sections: sections,
	}
}

// NewSectionSpec builds a section spec with room for 30 students.
func NewSectionSpec(crn int, label string, slots ...SlotSpec) *SectionSpec {
	return &SectionSpec{CRN: crn, Label: label, Capacity: [2]int{0, 30}, Slots: slots}
}

// StandardCatalog is a two-subject fall/spring catalog used across tests:
//
//	CSE 1001 fall 2020: 10001 (MWF 0900-0950), 10002 (TR 1000-1115, full)
//	CSE 2010 fall 2020: 10003 (MWF 0950-1040)
//	MTH 1001 fall 2020: 20001 (TR 1300-1415, raw location)
//	MTH 1001 spring 2021: 30001 (M 0900-1000)
func StandardCatalog() *RawCatalog {
	full := NewSectionSpec(10002, "02", SlotSpec{Days: "TR", Start: 1000, End: 1115, Building: "OEC", Room: "118"})
	full.Capacity = [2]int{30, 30}
	full.Instructor = "Ada Lovelace"

	first := NewSectionSpec(10001, "01", SlotSpec{Days: "MWF", Start: 900, End: 950, Building: "OEC", Room: "120"})
	first.Instructor = "Alan Turing"

	return NewRawCatalog(
		WithSubject("CSE", "Computer Science",
			NewCourse(1001, "Intro to Programming", catalog.TermFall, 2020, first, full),
			NewCourse(2010, "Algorithms", catalog.TermFall, 2020,
				NewSectionSpec(10003, "01", SlotSpec{Days: "MWF", Start: 950, End: 1040, Building: "OEC", Room: "122"})),
		),
		WithSubject("MTH", "Mathematics",
			NewCourse(1001, "Calculus 1", catalog.TermFall, 2020,
				NewSectionSpec(20001, "01", SlotSpec{Days: "TR", Start: 1300, End: 1415, Building: "Online", Room: ""})),
			NewCourse(1001, "Calculus 1", catalog.TermSpring, 2021,
				NewSectionSpec(30001, "01", SlotSpec{Days: "M", Start: 900, End: 1000, Building: "OEC", Room: "101"})),
		),
	)
}

type pool struct {
	values []string
	index  map[string]int
}

func (p *pool) id(s string) int {
	if s == "" {
		return -1
	}
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[s]; ok {
		return i
	}
	p.index[s] = len(p.values)
	p.values = append(p.values, s)
	return p.index[s]
}

func (p *pool) list() []string {
	if p.values == nil {
		return []string{}
	}
	return p.values
}

type minJSON struct {
	Keys   []string `json:"keys"`
	Values [][]any  `json:"values"`
}

// Files renders the catalog into its min.json files keyed by path.
func (r *RawCatalog) Files() map[string][]byte {
	var campuses, titles, sessions, levels, notes, restrictions pool
	level := levels.id("Undergraduate")

	buildingIndex := make(map[string]int)
	var buildings [][]any
	for i, b := range r.Buildings {
		buildingIndex[b.Code] = i
		buildings = append(buildings, []any{b.Code, b.Name})
	}

	employeeIndex := make(map[string]int)
	var employees [][]any
	addEmployee := func(name string) int {
		if name == "" {
			return -1
		}
		if i, ok := employeeIndex[name]; ok {
			return i
		}
		employeeIndex[name] = len(employees)
		employees = append(employees, []any{name, "Professor", "x@example.edu", nil, -1, nil, -1})
		return employeeIndex[name]
	}
	for _, name := range r.Employees {
		addEmployee(name)
	}

	var tags [][]any
	for _, t := range r.Tags {
		tags = append(tags, []any{t.Code, t.Name})
	}

	var sections, courses, subjects [][]any
	for subjectID, subj := range r.Subjects {
		start := len(courses)
		for _, c := range subj.Courses {
			courseID := len(courses)
			var sectionIDs []int
			for _, s := range c.Sections {
				sectionIDs = append(sectionIDs, len(sections))
				slots := make([][]any, 0, len(s.Slots))
				for _, sl := range s.Slots {
					var building any
					if i, ok := buildingIndex[sl.Building]; ok {
						building = i
					} else if sl.Building != "" {
						building = sl.Building
					}
					slots = append(slots, []any{sl.Days, sl.Start, sl.End, building, sl.Room})
				}
				var session any = -1
				if s.Session != "" {
					session = sessions.id(s.Session)
				}
				sections = append(sections, []any{
					campuses.id(c.Campus), c.Term.Index(), c.Year, s.CRN,
					courseID, s.Label, c.Credits, s.Capacity,
					[2]int{0, 10}, titles.id(c.Title), []int{notes.id("Lab fee")}, session,
					addEmployee(s.Instructor), nil, [][]any{}, slots,
					level, []int{restrictions.id("Majors only")},
				})
			}
			if sectionIDs == nil {
				sectionIDs = []int{}
			}
			courses = append(courses, []any{
				subjectID, c.Number, campuses.id(c.Campus), c.Term.Index(),
				c.Year, c.Credits, sectionIDs, titles.id(c.Title),
				-1, []int{}, 3, nil,
				level, []int{}, []int{}, -1,
				[]int{},
			})
		}
		subjects = append(subjects, []any{subj.Code, subj.Name, start, len(courses)})
	}

	files := map[string][]byte{
		"building.min.json":        mustStructured([]string{"code", "name"}, buildings),
		"campus.min.json":          mustJSON(campuses.list()),
		"courseAttribute.min.json": mustJSON([]string{}),
		"department.min.json":      mustStructured([]string{"code", "name", "phone", "fax", "email", "website", "buildingId"}, nil),
		"description.min.json":     mustJSON(nonNil(r.Descriptions)),
		"employee.min.json":        mustStructured([]string{"name", "title", "email", "phone", "buildingId", "room", "departmentId"}, employees),
		"level.min.json":           mustJSON(levels.list()),
		"note.min.json":            mustJSON(notes.list()),
		"prerequisite.min.json":    mustJSON([]string{}),
		"requirement.min.json":     mustJSON([]string{}),
		"restriction.min.json":     mustJSON(restrictions.list()),
		"scheduleType.min.json":    mustJSON([]string{"Lecture"}),
		"session.min.json":         mustJSON(sessions.list()),
		"tag.min.json":             mustStructured([]string{"code", "name"}, tags),
		"title.min.json":           mustJSON(titles.list()),
		"section.min.json":         mustStructured(nil, sections),
		"course3.min.json":         mustStructured(nil, courses),
		"subject.min.json":         mustStructured([]string{"code", "name", "courseIdStart", "courseIdEnd"}, subjects),
	}
	return files
}

// Metadata renders a metadata file declaring sizes for files.
func Metadata(files map[string][]byte, timestamp int64, years catalog.Years) []byte {
	sizes := make(map[string]int, len(files))
	for path, data := range files {
		sizes[path] = len(data)
	}
	return mustJSON(map[string]any{
		"fileSizes": sizes,
		"timestamp": timestamp,
		"years":     years,
	})
}

// FilesWithMetadata renders the catalog files plus a metadata file.
func (r *RawCatalog) FilesWithMetadata(timestamp int64, years catalog.Years) map[string][]byte {
	files := r.Files()
	files[MetadataPath] = Metadata(files, timestamp, years)
	return files
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func mustStructured(keys []string, values [][]any) []byte {
	if values == nil {
		values = [][]any{}
	}
	if keys == nil {
		keys = []string{}
	}
	return mustJSON(minJSON{Keys: keys, Values: values})
}

func mustJSON(v any) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("testutil: encoding fixture: %v", err))
	}
	return data
}
