// Package nodelink renders a settled layout as a node-link diagram.
//
// # Usage
//
// Settle a layout, then export it:
//
//	dot := nodelink.ToDOT(tree, state, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// or in one step with format selection:
//
//	out, err := nodelink.Export(ctx, tree, state, "png", nodelink.Options{})
//
// # Fixed positions
//
// Every node carries pos="x,y!" in points, and rendering uses Graphviz's
// nop2 layout (neato -n2), so the diagram matches the force layout exactly
// instead of being re-laid out by Graphviz. Graph-space y grows downward
// and is flipped for Graphviz.
//
// Node fill follows the role legend; optional edges are dashed. Edges
// whose endpoints have no position are left out.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering; no Graphviz installation is needed.
package nodelink
