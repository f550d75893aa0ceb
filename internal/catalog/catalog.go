package catalog

// Catalog is one fully linked catalog graph. Structured pools are flat
// arenas: cross-entity pointers always point into these slices, which are
// never appended to after the build finishes.
type Catalog struct {
	Buildings   []Building
	Departments []Department
	Employees   []Employee
	Tags        []Tag
	Subjects    []Subject
	Courses     []Course
	Sections    []Section

	Campuses         []string
	CourseAttributes []string
	Descriptions     []string
	Levels           []string
	Notes            []string
	Prerequisites    []string
	Requirements     []string
	Restrictions     []string
	ScheduleTypes    []string
	Sessions         []string
	Titles           []string

	sectionIndex map[SectionKey]*Section
}

// IndexSections rebuilds the section lookup table. Sections sharing a key
// resolve to the first one in pool order.
func (c *Catalog) IndexSections() {
	c.sectionIndex = make(map[SectionKey]*Section, len(c.Sections))
	for i := range c.Sections {
		s := &c.Sections[i]
		if _, ok := c.sectionIndex[s.Key()]; !ok {
			c.sectionIndex[s.Key()] = s
		}
	}
}

// SectionByKey looks up a section by term, year and CRN.
func (c *Catalog) SectionByKey(key SectionKey) (*Section, bool) {
	if c.sectionIndex == nil {
		c.IndexSections()
	}
	s, ok := c.sectionIndex[key]
	return s, ok
}

// SectionsFor returns the sections offered in term and year, in pool order.
func (c *Catalog) SectionsFor(term Term, year int) []*Section {
	var out []*Section
	for i := range c.Sections {
		s := &c.Sections[i]
		if s.Term == term && s.Year == year {
			out = append(out, s)
		}
	}
	return out
}

// SubjectsFor returns subjects restricted to courses offered on campus during
// term, dropping subjects left with no courses.
func (c *Catalog) SubjectsFor(campus string, term Term) []Subject {
	var out []Subject
	for i := range c.Subjects {
		s := c.Subjects[i].Filter(campus, term)
		if len(s.Courses) > 0 {
			out = append(out, s)
		}
	}
	return out
}
