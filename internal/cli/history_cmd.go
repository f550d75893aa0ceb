package cli

import (
	"fmt"

	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newHistoryCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent catalog reloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.Planner.History.ListRecent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("listing reloads: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatHistory(records))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Number of reloads to show")
	return cmd
}
