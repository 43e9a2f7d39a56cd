// Package render holds static renderers for settled layouts.
//
// The interactive view draws into a terminal through the scene package;
// the renderers here turn the same layout into files. The [nodelink]
// subpackage writes Graphviz DOT with fixed node positions and renders it
// to SVG or PNG in-process, or dumps the positions as JSON.
//
// [nodelink]: github.com/matzehuels/depscope/pkg/render/nodelink
package render
