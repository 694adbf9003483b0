// Package nodelink renders reconciled dependency graphs as node-link
// diagrams.
//
// Convert a DAG to DOT, then render to SVG with Graphviz:
//
//	dot := nodelink.ToDOT(g, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// The module root is drawn as a filled box, module dependencies as folders
// and libraries as rounded boxes. Promoted declarations are outlined in
// orange with a dashed edge to the version that was actually resolved;
// dangling module references are drawn in red.
//
// With Options.Detailed, library labels include the declared and resolved
// versions and the number of containers that reference the node.
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion lives in the parent render package.
package nodelink
