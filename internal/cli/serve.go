package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsync/internal/api"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags   sourceFlags
		addr    string
		reports bool
	)

	cmd := &cobra.Command{
		Use:   "serve <snapshot>",
		Short: "Serve reconciliation queries over HTTP",
		Long: `Serve exposes the engine over a JSON HTTP API. Module stores are built on
first request and kept until invalidated or evicted.

With --reports, POST /modules/{module}/reports saves a report to the
configured store (MongoDB when DEPSYNC_MONGO_URI is set, else files).`,
		Example: `  depsync serve snapshot.toml
  depsync serve snapshot.toml --addr :9000 --reports
  curl localhost:8080/modules/:app/declared`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx, args[0], flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			cfg := api.Config{
				Engine:  ws.engine,
				Lookup:  ws.lookup,
				Modules: ws.modulePaths(),
				Source:  ws.snap.Hash(),
				Logger:  c.Logger,
			}
			if reports {
				store, err := c.openReportStore(ctx)
				if err != nil {
					return err
				}
				defer store.Close(ctx)
				cfg.Reports = store
			}

			if addr == "" {
				addr = c.Config.Addr
			}
			printInfo("Serving %d modules on %s", len(cfg.Modules), addr)
			return api.New(cfg).ListenAndServe(ctx, addr)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: DEPSYNC_ADDR or :8080)")
	cmd.Flags().BoolVar(&reports, "reports", false, "enable the report endpoints")
	return cmd
}
