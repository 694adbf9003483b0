package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/reconcile"
	"github.com/matzehuels/depsync/pkg/report"
)

// reconcileCommand creates the reconcile command.
func (c *CLI) reconcileCommand() *cobra.Command {
	var (
		flags    sourceFlags
		asJSON   bool
		declared bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile <snapshot>",
		Short: "List the reconciled dependencies of a module",
		Long: `Reconcile joins the declared dependencies of a module with what the build
resolved for each of its (variant, artifact) containers and lists the result.

Promoted declarations show the version that was requested and the version
the resolver picked instead.`,
		Example: `  depsync reconcile snapshot.toml
  depsync reconcile snapshot.toml --module :feature:login --declared
  depsync reconcile snapshot.yaml --json > deps.json`,
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

			nodes, err := collectNodes(ctx, ws.engine, m, declared)
			if err != nil {
				return err
			}
			stats, err := ws.engine.Stats(ctx, m)
			if err != nil {
				return err
			}
			logBuild(c.Logger, m.Path(), stats)

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					Module string               `json:"module"`
					Stats  reconcile.BuildStats `json:"stats"`
					Nodes  []report.Node        `json:"nodes"`
				}{m.Path(), stats, nodes})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderNodeTable(nodes))
			printBuildStats(stats, false)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	cmd.Flags().BoolVar(&declared, "declared", false, "only list dependencies declared in the build file")

	return cmd
}

// collectNodes describes every node of m, or only the declared ones.
func collectNodes(ctx context.Context, e *reconcile.Engine, m project.Module, declaredOnly bool) ([]report.Node, error) {
	each := e.ForEachDependency
	if declaredOnly {
		each = e.ForEachDeclaredDependency
	}
	var raw []*reconcile.Node
	if err := each(ctx, m, func(n *reconcile.Node) { raw = append(raw, n) }); err != nil {
		return nil, err
	}
	nodes := make([]report.Node, 0, len(raw))
	for _, n := range raw {
		rn, err := report.NodeOf(ctx, e, m, n)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, rn)
	}
	return nodes, nil
}

// renderNodeTable renders nodes as a bordered table.
func renderNodeTable(nodes []report.Node) string {
	headerStyle := styleLabel.Bold(true)

	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			n.Key,
			nodeStatus(n),
			dash(n.DeclaredVersion),
			dash(n.ResolvedVersion),
			fmt.Sprintf("%d", len(n.Containers)),
			dash(strings.Join(n.Statements, ", ")),
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Dependency", "Status", "Declared", "Resolved", "Containers", "Statements").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row < 0 || row >= len(nodes) {
				return lipgloss.NewStyle()
			}
			n := nodes[row]
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case col == 1:
				return base.Foreground(statusColor(nodeStatus(n)))
			case col == 0 && n.Declared:
				return base.Foreground(colorAccent)
			case col >= 2:
				return base.Foreground(colorLabel)
			}
			return base
		})

	return t.Render()
}
