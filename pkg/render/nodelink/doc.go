// Package nodelink draws positioned genograms with Graphviz.
//
// [ToDOT] turns a [layout.Result] into DOT source in which every node is
// pinned to its computed position. People are rounded boxes filled by sex
// (blue for men, pink for women, orange otherwise), marriage label nodes are
// small points on the purple marriage line, and parent links run from the
// label node down to each child.
//
//	dot := nodelink.ToDOT(res, nodelink.Options{Focus: 3})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// Rendering uses [github.com/goccy/go-graphviz] in process with the neato
// engine, which honors pinned positions. No external Graphviz install is
// needed.
package nodelink
