package cli

import (
	"fmt"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/alexanderramin/semplan/internal/conflict"
	"github.com/alexanderramin/semplan/internal/filter"
	"github.com/spf13/cobra"
)

func newSectionsCmd(app *App) *cobra.Command {
	var tf termFlags
	var ff filterFlags
	var open, options bool

	cmd := &cobra.Command{
		Use:   "sections",
		Short: "List a term's sections with their status against the plan",
		Example: `  semplan sections --term fall --subject CSE
  semplan sections --instructor turing --open
  semplan sections --options`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if options {
				snap, err := app.loadCatalog(cmd, false)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), formatter.FormatFilterOptions(filter.Options(snap.Catalog)))
				return nil
			}
			if err := tf.activate(cmd, app); err != nil {
				return err
			}
			tc, _ := app.Planner.Selection.Term()
			criteria := ff.criteria(tc.Term)

			sections, err := app.Planner.Sections(func(s *catalog.Section) bool {
				if !criteria.Match(s) {
					return false
				}
				if open {
					st := app.Planner.Engine.Status(s)
					return st != conflict.StatusConflict && st != conflict.StatusFull
				}
				return true
			})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSections(sections, app.Planner.Engine))
			return nil
		},
	}

	tf.register(cmd.Flags())
	ff.register(cmd.Flags(), "")
	cmd.Flags().BoolVar(&open, "open", false, "Hide full and conflicting sections")
	cmd.Flags().BoolVar(&options, "options", false, "List the values each filter flag accepts")
	return cmd
}
