package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/semplan/internal/conflict"
	"github.com/alexanderramin/semplan/internal/planner"
	"github.com/alexanderramin/semplan/internal/repository"
	"github.com/alexanderramin/semplan/internal/selection"
	"github.com/dustin/go-humanize"
)

// FormatPlan renders the selection for the active term with its credit
// total and a note for sections a calendar cannot show.
func FormatPlan(plan planner.Plan, engine *conflict.Engine) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("Plan for %s %d", plan.Term.Term, plan.Term.Year)))
	b.WriteString("\n\n")

	if len(plan.Sections) == 0 {
		b.WriteString(Dim("No sections selected.") + "\n")
		return b.String()
	}

	b.WriteString(FormatSections(plan.Sections, engine))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", Dim("Credit hours:"), Bold(FormatCredits(plan.Credits)))
	if plan.NotShown > 0 {
		fmt.Fprintf(&b, "%s\n", StyleYellow.Render(fmt.Sprintf("%s not shown on the calendar (no meeting times).", Plural(plan.NotShown, "section"))))
	}
	return b.String()
}

// FormatTransition reports the outcome of a toggle.
func FormatTransition(tr selection.Transition, line string) string {
	switch tr {
	case selection.Removed:
		return StyleDim.Render("Removed ") + line + "\n"
	case selection.Swapped:
		return StyleBlue.Render("Swapped in ") + line + "\n"
	default:
		return StyleGreen.Render("Added ") + line + "\n"
	}
}

// FormatHistory lists past reloads, newest first.
func FormatHistory(records []*repository.ReloadRecord) string {
	if len(records) == 0 {
		return Dim("No reloads recorded.") + "\n"
	}
	t := NewTable("STARTED", "OUTCOME", "DURATION", "CATALOG", "ERROR")
	for _, r := range records {
		duration := Dim("-")
		if r.FinishedAt != nil {
			duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond).String()
		}
		published := Dim("-")
		if r.Timestamp != nil {
			published = FormatCatalogTime(*r.Timestamp)
		}
		t.AddRow(humanize.Time(r.StartedAt), outcomePill(r.Outcome), duration, published, r.Error)
	}
	return t.Render()
}

func outcomePill(o repository.ReloadOutcome) string {
	switch o {
	case repository.ReloadComplete:
		return StyleGreen.Render("✔ complete")
	case repository.ReloadError:
		return StyleRed.Render("✖ error")
	case repository.ReloadSuperseded:
		return StyleDim.Render("⊘ superseded")
	default:
		return StyleYellow.Render("● running")
	}
}
