// Package render holds the genogram renderers.
//
// The [nodelink] subpackage emits Graphviz DOT with pinned node positions
// and renders it to SVG or PNG. JSON output needs no renderer: the layout
// result marshals directly.
//
// [nodelink]: github.com/matzehuels/genogram/pkg/render/nodelink
package render
