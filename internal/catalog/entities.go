package catalog

// Building is a campus building.
type Building struct {
	Code string
	Name string
}

// Department is an academic department. Contact fields are empty when the
// catalog carries no value for them.
type Department struct {
	Code     string
	Name     string
	Phone    string
	Fax      string
	Email    string
	Website  string
	Building *Building
}

// Employee is a faculty or staff member, typically a section instructor.
type Employee struct {
	Name       string
	Title      string
	Email      string
	Phone      string
	Building   *Building
	Room       string
	Department *Department
}

// Tag is a course tag such as a general-education category.
type Tag struct {
	Code string
	Name string
}

// Subject groups the courses sharing a subject code. Courses is a contiguous
// window of the catalog's course pool, so its elements are the pool's own
// courses rather than copies.
type Subject struct {
	Code    string
	Name    string
	Courses []Course
}

// Filter returns a copy of the subject keeping only the courses offered on
// campus during term.
func (s *Subject) Filter(campus string, term Term) Subject {
	out := Subject{Code: s.Code, Name: s.Name}
	for i := range s.Courses {
		c := &s.Courses[i]
		if c.Campus == campus && c.Term == term {
			out.Courses = append(out.Courses, *c)
		}
	}
	return out
}

// Course is one offering of a course in a given campus, term and year.
type Course struct {
	SubjectID     int
	Number        int
	Campus        string
	Term          Term
	Year          int
	CreditHours   [2]float64
	Sections      []*Section
	Title         string
	Description   *string
	Tags          []*Tag
	LectureHours  float64
	LabHours      *float64
	Level         string
	ScheduleTypes []string
	Restrictions  []string
	Prerequisite  *string
	Attributes    []string

	// Subject is resolved after every pool has been built.
	Subject *Subject
}

// LevelBucket returns the thousands bucket of the course number, e.g. 3000
// for course 3425.
func (c *Course) LevelBucket() int {
	return c.Number / 1000 * 1000
}

// Code renders "SUBJ 1234", falling back to the number alone when the
// subject has not been resolved.
func (c *Course) Code() string {
	if c.Subject == nil {
		return itoa(c.Number)
	}
	return c.Subject.Code + " " + itoa(c.Number)
}

// Seats is an enrolled/maximum pair.
type Seats struct {
	Enrolled int
	Max      int
}

// CrossListing names another course a section is cross-listed with.
type CrossListing struct {
	Subject string
	Number  int
}

// SectionKey identifies a section across catalog reloads. CRNs are only
// unique within a term and year.
type SectionKey struct {
	Term Term
	Year int
	CRN  int
}

// Section is a schedulable offering of a course.
type Section struct {
	Campus        string
	Term          Term
	Year          int
	CRN           int
	CourseID      int
	Label         string
	CreditHours   [2]float64
	Capacity      Seats
	Waitlist      Seats
	Title         string
	Notes         []string
	Session       *string
	Instructor    *Employee
	Syllabus      *string
	CrossListings []CrossListing
	Slots         []Slot
	Level         string
	Restrictions  []string

	// Course is resolved after every pool has been built.
	Course *Course
}

// Key returns the section's stable identifier.
func (s *Section) Key() SectionKey {
	return SectionKey{Term: s.Term, Year: s.Year, CRN: s.CRN}
}

// IsFull reports whether enrollment has reached a positive maximum. A
// maximum of zero means the section is never full.
func (s *Section) IsFull() bool {
	return s.Capacity.Max > 0 && s.Capacity.Enrolled >= s.Capacity.Max
}

// HasSchedule reports whether the section has at least one meeting slot.
func (s *Section) HasSchedule() bool {
	return len(s.Slots) > 0
}

// InstructorName returns the instructor's name or "" when unassigned.
func (s *Section) InstructorName() string {
	if s.Instructor == nil {
		return ""
	}
	return s.Instructor.Name
}

// Location is where a slot meets: either a known building or a raw string
// the catalog could not match to one.
type Location struct {
	Building *Building
	Raw      string
}

// Code returns the building code, the raw location, or "".
func (l Location) Code() string {
	if l.Building != nil {
		return l.Building.Code
	}
	return l.Raw
}

// Slot is one recurring weekly meeting. StartTime and EndTime are HHMM
// integers (1430 is 2:30 PM).
type Slot struct {
	Days      string
	StartTime int
	EndTime   int
	Location  Location
	Room      string
}

// MeetsOn reports whether the slot's day string contains the weekday letter.
func (s Slot) MeetsOn(day byte) bool {
	for i := 0; i < len(s.Days); i++ {
		if s.Days[i] == day {
			return true
		}
	}
	return false
}

// Span renders the slot's times as "HH:MM-HH:MM".
func (s Slot) Span() string {
	return FormatHHMM(s.StartTime) + "-" + FormatHHMM(s.EndTime)
}
