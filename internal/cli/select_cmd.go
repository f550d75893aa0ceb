package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

// ErrConfirmationRequired is returned when a full or conflicting section is
// selected without a terminal to confirm on and without --yes.
var ErrConfirmationRequired = errors.New("confirmation required: pass --yes to select anyway")

func newSelectCmd(app *App) *cobra.Command {
	var tf termFlags
	var yes bool

	cmd := &cobra.Command{
		Use:   "select CRN",
		Short: "Add, swap or remove a section in the plan",
		Long: `Toggles a section. Selecting a section that is already planned removes it;
selecting another section of a planned course swaps it in place.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			crn, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid CRN %q", args[0])
			}
			if err := tf.activate(cmd, app); err != nil {
				return err
			}

			s, err := app.Planner.Section(crn)
			if err != nil {
				return err
			}

			if warning := selectionWarning(app, s); warning != "" && !yes {
				if !app.interactive() {
					return fmt.Errorf("%s: %w", warning, ErrConfirmationRequired)
				}
				ok, err := app.Confirm("Select "+formatter.FormatSectionLine(s)+"?", warning)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Cancelled."))
					return nil
				}
			}

			_, tr, err := app.Planner.Toggle(cmd.Context(), crn)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTransition(tr, formatter.FormatSectionLine(s)))
			return nil
		},
	}

	tf.register(cmd.Flags())
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Select without confirming full or conflicting sections")
	return cmd
}

// selectionWarning explains why adding s deserves a second look, or returns
// "" when it does not. Removing a planned section never warns, and neither
// does an overlap with the section s would replace.
func selectionWarning(app *App, s *catalog.Section) string {
	for _, sel := range app.Planner.Selection.Sections() {
		if sel.Key() == s.Key() {
			return ""
		}
	}

	var reasons []string
	var overlaps []string
	for _, other := range app.Planner.Engine.ConflictsWith(s) {
		if other.Course != nil && other.Course == s.Course {
			continue
		}
		overlaps = append(overlaps, formatter.FormatSectionLine(other))
	}
	if len(overlaps) > 0 {
		reasons = append(reasons, "overlaps "+strings.Join(overlaps, ", "))
	}
	if s.IsFull() {
		reasons = append(reasons, "section is full ("+formatter.FormatSeats(s.Capacity)+")")
	}
	return strings.Join(reasons, "; ")
}
