package cli

import (
	"fmt"

	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/alexanderramin/semplan/internal/events"
	"github.com/spf13/cobra"
)

func newReloadCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reload",
		Short: "Download the catalog and rebuild it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				errOut := cmd.ErrOrStderr()
				off := app.Planner.Bus.ReloadProgress.Subscribe(func(e events.ReloadProgress) {
					fmt.Fprintln(errOut, formatter.ReloadProgress(e, progressWidth))
				})
				defer off()
			}

			stop := app.showProgress(cmd.ErrOrStderr())
			snap, err := app.Planner.Reload(cmd.Context(), force)
			stop()
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatReloadSummary(snap))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Report an update even when the catalog timestamp is unchanged")
	return cmd
}
