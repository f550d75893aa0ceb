// Package builder turns the compact catalog files into a linked catalog
// graph.
//
// Pass one walks the manifest in order, decoding each file against the pools
// already built; every foreign key therefore points backwards in the
// manifest. Pass two (Link) resolves the Section->Course and Course->Subject
// back-references that would otherwise point forwards.
package builder

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/alexanderramin/semplan/internal/catalog"
)

// Asset is one catalog file in the manifest.
type Asset struct {
	Path       string
	Structured bool

	decode func(c *catalog.Catalog, data []byte) error
}

// Assets is the fixed fetch and decode order. Later files may reference
// pools decoded by earlier ones.
var Assets = []Asset{
	structuredPool("building.min.json", 2, func(c *catalog.Catalog) *[]catalog.Building { return &c.Buildings }, decodeBuilding),
	stringPool("campus.min.json", func(c *catalog.Catalog) *[]string { return &c.Campuses }),
	stringPool("courseAttribute.min.json", func(c *catalog.Catalog) *[]string { return &c.CourseAttributes }),
	structuredPool("department.min.json", 7, func(c *catalog.Catalog) *[]catalog.Department { return &c.Departments }, decodeDepartment),
	stringPool("description.min.json", func(c *catalog.Catalog) *[]string { return &c.Descriptions }),
	structuredPool("employee.min.json", 7, func(c *catalog.Catalog) *[]catalog.Employee { return &c.Employees }, decodeEmployee),
	stringPool("level.min.json", func(c *catalog.Catalog) *[]string { return &c.Levels }),
	stringPool("note.min.json", func(c *catalog.Catalog) *[]string { return &c.Notes }),
	stringPool("prerequisite.min.json", func(c *catalog.Catalog) *[]string { return &c.Prerequisites }),
	stringPool("requirement.min.json", func(c *catalog.Catalog) *[]string { return &c.Requirements }),
	stringPool("restriction.min.json", func(c *catalog.Catalog) *[]string { return &c.Restrictions }),
	stringPool("scheduleType.min.json", func(c *catalog.Catalog) *[]string { return &c.ScheduleTypes }),
	stringPool("session.min.json", func(c *catalog.Catalog) *[]string { return &c.Sessions }),
	structuredPool("tag.min.json", 2, func(c *catalog.Catalog) *[]catalog.Tag { return &c.Tags }, decodeTag),
	stringPool("title.min.json", func(c *catalog.Catalog) *[]string { return &c.Titles }),
	structuredPool("section.min.json", 18, func(c *catalog.Catalog) *[]catalog.Section { return &c.Sections }, decodeSection),
	structuredPool("course3.min.json", 17, func(c *catalog.Catalog) *[]catalog.Course { return &c.Courses }, decodeCourse),
	structuredPool("subject.min.json", 4, func(c *catalog.Catalog) *[]catalog.Subject { return &c.Subjects }, decodeSubject),
}

// AssetPaths returns the manifest paths in order.
func AssetPaths() []string {
	paths := make([]string, len(Assets))
	for i, a := range Assets {
		paths[i] = a.Path
	}
	return paths
}

// structuredFile is the {keys, values} encoding. Keys document the tuple
// layout and are not used for lookup.
type structuredFile struct {
	Keys   []string            `json:"keys"`
	Values [][]json.RawMessage `json:"values"`
}

func stringPool(path string, field func(*catalog.Catalog) *[]string) Asset {
	return Asset{
		Path: path,
		decode: func(c *catalog.Catalog, data []byte) error {
			var pool []string
			if err := json.Unmarshal(data, &pool); err != nil {
				return fmt.Errorf("%s: %w: %v", path, ErrBadFormat, err)
			}
			*field(c) = pool
			return nil
		},
	}
}

func structuredPool[T any](path string, arity int, field func(*catalog.Catalog) *[]T, decode func(*catalog.Catalog, *tuple) T) Asset {
	return Asset{
		Path:       path,
		Structured: true,
		decode: func(c *catalog.Catalog, data []byte) error {
			rows, err := parseStructured(path, data)
			if err != nil {
				return err
			}
			pool := make([]T, len(rows))
			for i, fields := range rows {
				t, err := newTuple(path, i, fields, arity)
				if err != nil {
					return err
				}
				pool[i] = decode(c, t)
				if t.err != nil {
					return t.err
				}
			}
			*field(c) = pool
			return nil
		},
	}
}

// parseStructured accepts the keys/values object, or a bare list of tuples
// when a generator emits values only.
func parseStructured(path string, data []byte) ([][]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var rows [][]json.RawMessage
		if err := json.Unmarshal(trimmed, &rows); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", path, ErrBadFormat, err)
		}
		return rows, nil
	}
	var f structuredFile
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrBadFormat, err)
	}
	return f.Values, nil
}

// Build decodes every manifest file from raw and links the result. Nothing
// is returned on failure; callers keep whatever catalog they had.
func Build(raw map[string][]byte) (*catalog.Catalog, error) {
	c := &catalog.Catalog{}
	for _, a := range Assets {
		data, ok := raw[a.Path]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingAsset, a.Path)
		}
		if err := a.decode(c, data); err != nil {
			return nil, err
		}
	}
	if err := Link(c); err != nil {
		return nil, err
	}
	c.IndexSections()
	return c, nil
}

// Link assigns Section.Course and Course.Subject from the integer ids
// decoded in pass one. Running it again over the same pools is a no-op.
func Link(c *catalog.Catalog) error {
	for i := range c.Sections {
		s := &c.Sections[i]
		if s.CourseID == -1 {
			s.Course = nil
			continue
		}
		if s.CourseID < 0 || s.CourseID >= len(c.Courses) {
			return fmt.Errorf("section %d (crn %d): course %w: %d not in [0,%d)",
				i, s.CRN, ErrIndexOutOfRange, s.CourseID, len(c.Courses))
		}
		s.Course = &c.Courses[s.CourseID]
	}
	for i := range c.Courses {
		course := &c.Courses[i]
		if course.SubjectID == -1 {
			course.Subject = nil
			continue
		}
		if course.SubjectID < 0 || course.SubjectID >= len(c.Subjects) {
			return fmt.Errorf("course %d: subject %w: %d not in [0,%d)",
				i, ErrIndexOutOfRange, course.SubjectID, len(c.Subjects))
		}
		course.Subject = &c.Subjects[course.SubjectID]
	}
	return nil
}
