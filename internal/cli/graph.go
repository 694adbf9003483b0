package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/depsync/pkg/dag"
	"github.com/matzehuels/depsync/pkg/io"
	"github.com/matzehuels/depsync/pkg/render"
	"github.com/matzehuels/depsync/pkg/render/nodelink"
)

// graphCommand creates the graph command.
func (c *CLI) graphCommand() *cobra.Command {
	var (
		flags    sourceFlags
		format   string
		output   string
		detailed bool
		reduce   bool
	)

	cmd := &cobra.Command{
		Use:   "graph <snapshot>",
		Short: "Export the reconciled graph of a module",
		Long: `Graph exports a module's reconciled dependencies as a directed graph: the
module is the root, declared dependencies hang off it, promoted declarations
point to the version that was resolved and libraries point to their
transitive dependencies. --reduce keeps only edges that are not implied by
a longer path.

Formats: json, dot, svg, pdf, png. PDF and PNG require rsvg-convert.`,
		Example: `  depsync graph snapshot.toml -f json -o graph.json
  depsync graph snapshot.toml -f svg --detailed -o app.svg`,
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
			g, err := ws.engine.Graph(ctx, m)
			if err != nil {
				return err
			}
			if reduce {
				if n := dag.BreakCycles(g); n > 0 {
					c.Logger.Warn("metadata contains cycles", "removed", n)
				}
				dag.TransitiveReduction(g)
			}
			c.Logger.Debug("graph built", "nodes", g.NodeCount(), "edges", g.EdgeCount())

			var data []byte
			switch f := strings.ToLower(format); f {
			case "json":
				var buf bytes.Buffer
				if err := io.WriteJSON(g, &buf); err != nil {
					return err
				}
				data = buf.Bytes()
			case "dot":
				data = []byte(nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}))
			case "svg", "pdf", "png":
				spinner := newSpinner(c.out)
				spinner.Start(ctx, "Rendering %s...", f)
				svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{Detailed: detailed}))
				if err == nil {
					data, err = render.Convert(ctx, svg, render.Format(f))
				}
				spinner.Stop()
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want json, dot, svg, pdf or png)", format)
			}

			if output == "" {
				_, err := cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("Wrote %s graph of %s", format, m.Path())
			printFile(output)
			printGraphStats(g)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json, dot, svg, pdf, png")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "add versions and container counts to node labels")
	cmd.Flags().BoolVar(&reduce, "reduce", false, "drop edges implied by other paths")
	return cmd
}
