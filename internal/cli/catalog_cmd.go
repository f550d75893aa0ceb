package cli

import (
	"fmt"

	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newTermsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "Show the academic year published for each term",
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := app.loadCatalog(cmd, false)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTerms(snap.Years))
			return nil
		},
	}
}

func newSubjectsCmd(app *App) *cobra.Command {
	var tf termFlags
	var campus string

	cmd := &cobra.Command{
		Use:   "subjects",
		Short: "List subjects and courses offered in a term",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tf.activate(cmd, app); err != nil {
				return err
			}
			tc, _ := app.Planner.Selection.Term()
			subjects := app.Planner.Store.Catalog().SubjectsFor(campus, tc.Term)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatSubjects(subjects, app.Planner.Engine))
			return nil
		},
	}

	tf.register(cmd.Flags())
	cmd.Flags().StringVar(&campus, "campus", app.Config.Campus, "Campus")
	return cmd
}
