// Package render converts rendered dependency graphs between output formats.
//
// The [nodelink] subpackage draws a reconciled graph with Graphviz and
// produces SVG. [ToPDF] and [ToPNG] convert that SVG with the external
// rsvg-convert tool (from librsvg):
//
//	svg, err := nodelink.RenderSVG(ctx, nodelink.ToDOT(g, nodelink.Options{}))
//	pdf, err := render.ToPDF(ctx, svg)
//
// [nodelink]: github.com/matzehuels/depsync/pkg/render/nodelink
package render
