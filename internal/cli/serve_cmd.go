package cli

import (
	"fmt"

	"github.com/alexanderramin/semplan/internal/assetserver"
	"github.com/alexanderramin/semplan/internal/catalog"
	"github.com/alexanderramin/semplan/internal/cli/formatter"
	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var dir, addr string
	var years []int

	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Serve a catalog directory over HTTP for local development",
		Annotations: map[string]string{skipInit: "true"},
		Example: `  semplan serve --dir ./data --addr :8080
  SEMPLAN_CATALOG_URL=http://localhost:8080/assets/data/ semplan reload`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(years) != len(catalog.Terms) {
				return fmt.Errorf("--years needs %d values (spring, summer, fall), got %d", len(catalog.Terms), len(years))
			}
			var y catalog.Years
			copy(y[:], years)

			srv := assetserver.NewDir(dir, y)
			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s at %s%s\n", dir, formatter.Bold(addr), assetserver.Prefix)
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "Directory holding the catalog files")
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "Listen address")
	cmd.Flags().IntSliceVar(&years, "years", []int{0, 0, 0}, "Years declared when the directory has no metadata file (spring,summer,fall)")
	return cmd
}
