package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/reconcile"
	"github.com/matzehuels/depsync/pkg/report"
	"github.com/matzehuels/depsync/pkg/source/snapshot"
)

// declareCommand creates the declare command.
func (c *CLI) declareCommand() *cobra.Command {
	var (
		flags sourceFlags
		save  bool
	)

	cmd := &cobra.Command{
		Use:   "declare <snapshot> <module> <configuration> <coordinate|:module|libs.alias>",
		Short: "Add a dependency statement and show the reconciled result",
		Long: `Declare models an edit of a module's build file: the statement is added to
the snapshot and recorded in the already-built store without a rebuild, the
way an IDE updates its model right after a quick-fix.

Use --save to write the statement back to the snapshot file.`,
		Example: `  depsync declare snapshot.toml :app implementation com.squareup.okio:okio:3.9.0
  depsync declare snapshot.toml :app testImplementation libs.junit
  depsync declare snapshot.toml :app api :core --save`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ws, err := c.openWorkspace(ctx, args[0], flags)
			if err != nil {
				return err
			}
			defer ws.Close()

			m, err := ws.module(args[1])
			if err != nil {
				return err
			}
			configuration, text := args[2], args[3]

			if _, err := ws.engine.Store(ctx, m); err != nil {
				return err
			}
			containers := snapshot.ContainersFor(m, configuration, project.GradleConfigurations{})
			if len(containers) == 0 {
				return errors.New(errors.ErrCodeInvalidInput, "%s applies to no container of %s", configuration, m.Path())
			}
			decls, err := ws.snap.AddDeclaration(m.Path(), configuration, text)
			if err != nil {
				return err
			}

			for _, d := range decls {
				var n *reconcile.Node
				if path := d.ModulePath(); path != "" {
					n, err = ws.engine.DeclareModule(ctx, m, path, containers, d)
				} else {
					var co coord.Coordinate
					co, err = coord.ParseQuery(d.CoordinateText())
					if err != nil {
						return err
					}
					n, err = ws.engine.DeclareLibrary(ctx, m, co, containers, d)
				}
				if err != nil {
					return err
				}

				rn, err := report.NodeOf(ctx, ws.engine, m, n)
				if err != nil {
					return err
				}
				printSuccess("Declared %s", d.String())
				printNode(rn)
				printNewline()
			}

			if save {
				if err := ws.snap.Save(ws.path); err != nil {
					return err
				}
				printFile(ws.path)
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&save, "save", false, "write the statement back to the snapshot")
	return cmd
}
