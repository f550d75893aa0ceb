package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/filter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var errNoTerm = errors.New("no term selected: pass --term spring|summer|fall")

// termValue is a pflag.Value accepting a term name in any case.
type termValue struct {
	term catalog.Term
}

func (v *termValue) String() string { return string(v.term) }
func (v *termValue) Type() string   { return "term" }

func (v *termValue) Set(s string) error {
	t, err := catalog.ParseTerm(s)
	if err != nil {
		return err
	}
	v.term = t
	return nil
}

// termFlags selects the active term. Both flags are optional: the term
// falls back to the one saved by the last selection change and the year to
// the one the catalog declares for the term.
type termFlags struct {
	term termValue
	year int
}

func (f *termFlags) register(fs *pflag.FlagSet) {
	fs.Var(&f.term, "term", "Term (spring, summer or fall)")
	fs.IntVar(&f.year, "year", 0, "Academic year (defaults to the catalog's year for the term)")
}

// activate loads the catalog if needed and makes the flagged term current.
func (f *termFlags) activate(cmd *cobra.Command, app *App) error {
	if _, err := app.loadCatalog(cmd, false); err != nil {
		return err
	}

	term, year := f.term.term, f.year
	if term == catalog.TermUnknown {
		tc, ok := app.Planner.Selection.Term()
		if !ok {
			return errNoTerm
		}
		term = tc.Term
		if year == 0 {
			year = tc.Year
		}
	}

	year, err := app.Planner.ResolveYear(term, year)
	if err != nil {
		return err
	}
	if err := app.Planner.SetTerm(cmd.Context(), term, year); err != nil {
		return fmt.Errorf("activating %s %d: %w", term, year, err)
	}
	return nil
}

// filterFlags mirrors filter.Criteria.
type filterFlags struct {
	campus     string
	session    string
	subject    string
	number     int
	title      string
	instructor string
	tag        string
	credits    float64
}

func (f *filterFlags) register(fs *pflag.FlagSet, defaultCampus string) {
	fs.StringVar(&f.campus, "campus", defaultCampus, "Campus (substring match, empty for all)")
	fs.StringVar(&f.session, "session", "", "Session (substring match)")
	fs.StringVar(&f.subject, "subject", "", "Subject code (substring match)")
	fs.IntVar(&f.number, "number", -1, "Course number (exact)")
	fs.StringVar(&f.title, "title", "", "Title (substring match)")
	fs.StringVar(&f.instructor, "instructor", "", "Instructor name (substring match)")
	fs.StringVar(&f.tag, "tag", "", "Course tag code or name (substring match)")
	fs.Float64Var(&f.credits, "credits", -1, "Credit hours the section can be taken for")
}

func (f *filterFlags) criteria(term catalog.Term) filter.Criteria {
	c := filter.New(term, f.campus)
	c.Session = f.session
	c.Subject = f.subject
	c.CourseNumber = f.number
	c.Title = f.title
	c.Instructor = f.instructor
	c.Tag = f.tag
	c.CreditHours = f.credits
	return c
}
