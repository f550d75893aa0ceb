package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/alexanderramin/semplan/internal/events"
	"github.com/alexanderramin/semplan/internal/filter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// lockedWriter serializes writes from the watch goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func newWatchCmd(app *App) *cobra.Command {
	var tf termFlags
	var ff filterFlags
	var interval time.Duration
	var autoReload bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll for catalog updates until interrupted",
		Long: `Polls the catalog metadata and reports when a new catalog is published.
With --reload each update is downloaded, and when a term is given the number
of sections matching the filter flags is reported after every reload.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &lockedWriter{w: cmd.OutOrStdout()}
			bus := app.Planner.Bus

			if tf.term.term != catalog.TermUnknown {
				if err := tf.activate(cmd, app); err != nil {
					return err
				}
				tc, _ := app.Planner.Selection.Term()
				live := filter.NewLive(app.Config.FilterDebounce, ff.criteria(tc.Term),
					func() []*catalog.Section {
						sections, _ := app.Planner.Sections(nil)
						return sections
					},
					func(_ filter.Criteria, matched []*catalog.Section) {
						fmt.Fprintf(out, "%s match in %s %d\n", formatter.Plural(len(matched), "section"), tc.Term, tc.Year)
					},
				)
				defer live.Stop()
				off := bus.ReloadComplete.Subscribe(func(events.ReloadComplete) { live.Refresh() })
				defer off()
				live.Refresh()
			}

			updates, unsubscribe := bus.UpdateAvailable.Chan(8)
			defer unsubscribe()

			fmt.Fprintf(out, "%s\n", formatter.Dim(fmt.Sprintf("Watching for catalog updates every %s", interval)))

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return ignoreDone(app.Planner.Fetcher.Poll(ctx, interval))
			})
			g.Go(func() error {
				for {
					select {
					case <-ctx.Done():
						return nil
					case e := <-updates:
						fmt.Fprintf(out, "%s published %s\n",
							formatter.StyleYellow.Render("Catalog update available:"), formatter.FormatCatalogTime(e.Timestamp))
						if !autoReload {
							continue
						}
						snap, err := app.Planner.Reload(ctx, false)
						if err != nil {
							if ctx.Err() != nil {
								return nil
							}
							fmt.Fprintf(out, "%s %v\n", formatter.StyleRed.Render("Reload failed:"), err)
							continue
						}
						fmt.Fprintf(out, "%s %s\n", formatter.StyleGreen.Render("Reloaded:"),
							formatter.Plural(len(snap.Catalog.Sections), "section"))
					}
				}
			})
			return g.Wait()
		},
	}

	tf.register(cmd.Flags())
	ff.register(cmd.Flags(), app.Config.Campus)
	cmd.Flags().DurationVar(&interval, "interval", app.Config.PollInterval, "Metadata poll interval")
	cmd.Flags().BoolVar(&autoReload, "reload", false, "Download each update as it is published")
	return cmd
}

func ignoreDone(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}
