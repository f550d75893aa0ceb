package cli

import (
	"github.com/alexanderramin/semplan/internal/config"
	"github.com/alexanderramin/semplan/internal/planner"
	"github.com/spf13/cobra"
)

// App holds everything the commands need.
type App struct {
	Planner *planner.Planner
	Config  config.Config

	// IsInteractive reports whether stdin is a terminal. Prompts and the
	// reload spinner are only shown when it returns true.
	IsInteractive func() bool

	// Confirm asks a yes/no question. Defaults to a huh confirm dialog.
	Confirm func(title, description string) (bool, error)
}

// skipInit marks commands that never read planner state, so the saved
// term context is not loaded for them.
const skipInit = "semplan/skip-init"

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "semplan" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Confirm == nil {
		app.Confirm = huhConfirm
	}

	root := &cobra.Command{
		Use:           "semplan",
		Short:         "Semester planner over a published course catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipInit] != "" {
				return nil
			}
			return app.Planner.Init(cmd.Context())
		},
	}

	root.AddCommand(
		newReloadCmd(app),
		newTermsCmd(app),
		newSubjectsCmd(app),
		newSectionsCmd(app),
		newSelectCmd(app),
		newPlanCmd(app),
		newWatchCmd(app),
		newServeCmd(app),
		newHistoryCmd(app),
	)

	return root
}
