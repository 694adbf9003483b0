package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depsync/pkg/report"
)

// reportTTL bounds how long a saved report is reused for an unchanged snapshot.
const reportTTL = 30 * 24 * time.Hour

// reportCommand creates the report command group.
func (c *CLI) reportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Save and inspect reconciliation reports",
		Long: `Reports capture the reconciled state of a module so it can be compared
later or shared. They are stored in MongoDB when DEPSYNC_MONGO_URI is set,
otherwise as JSON files under the cache directory.`,
	}

	cmd.AddCommand(c.reportSaveCommand())
	cmd.AddCommand(c.reportListCommand())
	cmd.AddCommand(c.reportShowCommand())
	cmd.AddCommand(c.reportDeleteCommand())

	return cmd
}

// openReportStore picks MongoDB when configured, else the file store.
func (c *CLI) openReportStore(ctx context.Context) (report.Store, error) {
	if c.Config.MongoURI != "" {
		c.Logger.Debug("using mongo report store", "db", c.Config.MongoDB)
		store, err := report.NewMongoStore(ctx, c.Config.MongoURI, c.Config.MongoDB)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
	store, err := report.NewFileStore(c.Config.ReportDir())
	if err != nil {
		return nil, err
	}
	return store, nil
}

// reportSaveCommand creates the "report save" subcommand.
func (c *CLI) reportSaveCommand() *cobra.Command {
	var (
		flags sourceFlags
		force bool
	)

	cmd := &cobra.Command{
		Use:   "save <snapshot>",
		Short: "Reconcile a module and save the result",
		Long: `Save reconciles a module and stores the report. When a report for the same
snapshot content and module was saved before, its ID is printed instead
unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx, args[0], flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			m, err := ws.module(flags.module)
			if err != nil {
				return err
			}
			store, err := c.openReportStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			key := ws.keyer.ReportKey(ws.snap.Hash(), m.Path())
			if !force {
				if id, ok, _ := ws.cache.Get(ctx, key); ok {
					if prev, err := store.Get(ctx, string(id)); err == nil {
						printInfo("Snapshot unchanged, report %s is current", prev.ID)
						printBuildStats(prev.Stats, true)
						return nil
					}
				}
			}

			r, err := report.Build(ctx, ws.engine, m, ws.snap.Hash())
			if err != nil {
				return err
			}
			if err := store.Save(ctx, r); err != nil {
				return err
			}
			if err := ws.cache.Set(ctx, key, []byte(r.ID), reportTTL); err != nil {
				c.Logger.Warn("could not remember report", "err", err)
			}

			printSuccess("Saved report %s", r.ID)
			printKeyValue("Module", r.Module)
			printKeyValue("Promotions", fmt.Sprintf("%d", len(r.Promotions())))
			printBuildStats(r.Stats, false)
			printNewline()
			printNextStep("Inspect", "depsync report show "+r.ID)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "save even when the snapshot is unchanged")
	return cmd
}

// reportListCommand creates the "report list" subcommand.
func (c *CLI) reportListCommand() *cobra.Command {
	var (
		module string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openReportStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			reports, err := store.List(ctx, report.Filter{Module: module, Limit: limit})
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				printInfo("No reports")
				return nil
			}
			for _, r := range reports {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %-24s %s\n",
					r.ID,
					r.CreatedAt.Local().Format(time.DateTime),
					r.Module,
					StyleDim.Render(fmt.Sprintf("%d nodes, %d promotions", len(r.Nodes), len(r.Promotions()))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&module, "module", "m", "", "only reports for this module")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of reports")
	return cmd
}

// reportShowCommand creates the "report show" subcommand.
func (c *CLI) reportShowCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openReportStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			r, err := store.Get(ctx, args[0])
			if errors.Is(err, report.ErrNotFound) {
				return fmt.Errorf("no report %s", args[0])
			}
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			}
			printKeyValue("Module", r.Module)
			printKeyValue("Created", r.CreatedAt.Local().Format(time.DateTime))
			fmt.Fprintln(cmd.OutOrStdout(), renderNodeTable(r.Nodes))
			printBuildStats(r.Stats, false)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

// reportDeleteCommand creates the "report delete" subcommand.
func (c *CLI) reportDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openReportStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.Delete(ctx, args[0]); err != nil {
				if errors.Is(err, report.ErrNotFound) {
					return fmt.Errorf("no report %s", args[0])
				}
				return err
			}
			printSuccess("Deleted report %s", args[0])
			return nil
		},
	}
}
