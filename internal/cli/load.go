package cli

import (
	"fmt"
	"io"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/alexanderramin/semplan/internal/events"
	"github.com/spf13/cobra"
)

const progressWidth = 20

// loadCatalog returns the current snapshot, reloading when none is loaded
// yet or when force is set.
func (a *App) loadCatalog(cmd *cobra.Command, force bool) (*catalog.Snapshot, error) {
	if !force {
		if snap := a.Planner.Store.Current(); snap != nil {
			return snap, nil
		}
	}

	stop := a.showProgress(cmd.ErrOrStderr())
	snap, err := a.Planner.Reload(cmd.Context(), force)
	stop()
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	return snap, nil
}

// showProgress animates reload progress on interactive terminals.
func (a *App) showProgress(w io.Writer) func() {
	if !a.interactive() {
		return func() {}
	}
	sp := formatter.NewSpinner(w, "Loading catalog")
	off := a.Planner.Bus.ReloadProgress.Subscribe(func(e events.ReloadProgress) {
		sp.SetMessage(formatter.ReloadProgress(e, progressWidth))
	})
	sp.Start()
	return func() {
		off()
		sp.Stop()
	}
}
