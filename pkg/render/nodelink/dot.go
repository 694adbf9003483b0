package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/depsync/pkg/dag"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds versions and container counts to node labels.
	Detailed bool
}

// ToDOT converts a DAG to Graphviz DOT format.
func ToDOT(g *dag.DAG, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		attrs := fmtAttrs(*n, fmtLabel(*n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if promotion, _ := e.Meta["promotion"].(bool); promotion {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=darkorange, label=\"resolved\"];\n", e.From, e.To)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n dag.Node, detailed bool) string {
	if !detailed || n.Kind != dag.NodeKindLibrary {
		return n.ID
	}

	var parts []string
	if v, ok := n.Meta["declared_version"].(string); ok && v != "" {
		parts = append(parts, "declared: "+v)
	}
	if v, ok := n.Meta["version"].(string); ok && v != "" {
		parts = append(parts, "resolved: "+v)
	}
	if c := containerCount(n.Meta["containers"]); c > 0 {
		parts = append(parts, fmt.Sprintf("containers: %d", c))
	}
	if len(parts) == 0 {
		return n.ID
	}
	return n.ID + "\n" + strings.Join(parts, "\n")
}

func containerCount(v any) int {
	switch c := v.(type) {
	case []string:
		return len(c)
	case []any:
		return len(c)
	default:
		return 0
	}
}

func fmtAttrs(n dag.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.IsRoot():
		attrs = append(attrs, "style=filled", "fillcolor=\"#2b4c7e\"", "fontcolor=white")
	case n.Kind == dag.NodeKindModule:
		attrs = append(attrs, "shape=folder", "fillcolor=\"#e8eef7\"")
		if dangling, _ := n.Meta["dangling"].(bool); dangling {
			attrs = append(attrs, "color=red", "fontcolor=red")
		}
	default:
		if promoted, _ := n.Meta["promoted"].(bool); promoted {
			attrs = append(attrs, "color=darkorange", "penwidth=2")
		}
		if declared, _ := n.Meta["declared"].(bool); !declared {
			attrs = append(attrs, "fillcolor=\"#f4f4f4\"")
		}
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
