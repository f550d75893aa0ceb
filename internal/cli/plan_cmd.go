package cli

import (
	"fmt"

	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	var tf termFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the planned sections and credit total",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tf.activate(cmd, app); err != nil {
				return err
			}
			plan, err := app.Planner.Plan()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatPlan(plan, app.Planner.Engine))
			return nil
		},
	}

	tf.register(cmd.Flags())
	return cmd
}
