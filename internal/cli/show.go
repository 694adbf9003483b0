package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depsync/pkg/coord"
	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/reconcile"
	"github.com/matzehuels/depsync/pkg/report"
	"github.com/matzehuels/depsync/pkg/version"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		flags  sourceFlags
		latest bool
	)

	cmd := &cobra.Command{
		Use:   "show <snapshot> <coordinate|family|:module>",
		Short: "Show one reconciled dependency in detail",
		Long: `Show prints the containers, statements, versions and transitive dependencies
of one node. The query is a full coordinate (group:name:version), a family
(group:name) when only one version is present, or a module path.

Underscores may be used instead of colons: com.google.guava_guava.

--latest asks the remote Maven repository for the newest release of the
library and compares it with the resolved version.`,
		Example: `  depsync show snapshot.toml com.squareup.okhttp3:okhttp
  depsync show snapshot.toml com.example:util:3.0.+ --module :app
  depsync show snapshot.toml :core
  depsync show snapshot.toml com.squareup.okio:okio --latest`,
		Args: cobra.ExactArgs(2),
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

			query := args[1]
			var (
				n     *reconcile.Node
				found bool
			)
			if strings.HasPrefix(query, ":") {
				n, found, err = ws.engine.FindModule(ctx, m, query)
			} else {
				store, serr := ws.engine.Store(ctx, m)
				if serr != nil {
					return serr
				}
				n, err = store.LookupLibrary(coord.NormalizeCoordinate(query))
				found = err == nil
				if errors.Is(err, errors.ErrCodeNotFound) {
					err = nil
				}
			}
			if errors.Recoverable(err) {
				printWarning("%s", errors.UserMessage(err))
				printNextStep("List the candidates", "depsync reconcile "+args[0]+" --module "+m.Path())
			}
			if err != nil {
				return err
			}
			if !found {
				return fmt.Errorf("%s has no dependency %s", m.Path(), query)
			}

			rn, err := report.NodeOf(ctx, ws.engine, m, n)
			if err != nil {
				return err
			}
			printNode(rn)

			if latest && n.Kind() == reconcile.KindLibrary {
				client := ws.remote
				if client == nil {
					if client, err = c.newMavenClient(ws.cache, ws.keyer, flags.refresh); err != nil {
						return err
					}
				}
				v, err := client.LatestVersion(ctx, n.Coordinate().Family(), flags.refresh)
				if err != nil {
					printWarning("latest release unavailable: %v", err)
					return nil
				}
				printNewline()
				printKeyValue("Latest", v)
				if rv, ok := n.ResolvedVersion(); ok {
					printDetail("%s", freshness(version.Relate(rv, v)))
				}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&latest, "latest", false, "compare with the newest release in the remote repository")
	return cmd
}

// freshness describes a resolved version relative to the latest release.
func freshness(r version.Relation) string {
	switch r {
	case version.Satisfied:
		return "up to date"
	case version.Promoted:
		return "a newer release is available"
	case version.Downgraded:
		return "resolved version is ahead of the latest release"
	default:
		return "versions are not comparable"
	}
}

// printNode prints the detail view of one node.
func printNode(n report.Node) {
	fmt.Println(StyleTitle.Render(n.Key))
	printKeyValue("Kind", n.Kind)
	printKeyValue("Status", nodeStatus(n))
	if n.DeclaredVersion != "" {
		printKeyValue("Declared", n.DeclaredVersion)
	}
	if n.ResolvedVersion != "" {
		printKeyValue("Resolved", n.ResolvedVersion)
	}
	if n.Message != "" {
		printWarning("%s", n.Message)
	}

	printNewline()
	fmt.Println(StyleDim.Render("Containers"))
	for _, c := range n.Containers {
		printFile(c)
	}
	if len(n.Statements) > 0 {
		printNewline()
		fmt.Println(StyleDim.Render("Statements"))
		for _, s := range n.Statements {
			printFile(s)
		}
	}
	if len(n.Transitive) > 0 {
		printNewline()
		fmt.Println(StyleDim.Render("Transitive dependencies"))
		for _, t := range n.Transitive {
			printFile(t)
		}
	}
}
