package nodelink

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/builder"
	"github.com/matzehuels/genogram/pkg/genogram/layout"
)

// Fill and stroke colors.
const (
	ColorMale     = "#90CAF9"
	ColorFemale   = "#F48FB1"
	ColorOther    = "orange"
	ColorMarriage = "#6a0dad"
	ColorParent   = "#424242"
	ColorFocus    = "#ff5722"
)

// pointsPerInch converts layout units to Graphviz inches.
const pointsPerInch = 72.0

// Options configures genogram diagram generation.
type Options struct {
	// Focus is the key of a person to highlight. Zero highlights nobody.
	Focus int

	// Detailed adds the person key and generation to node labels.
	Detailed bool
}

// ToDOT converts a computed layout to Graphviz DOT.
//
// Every node is pinned at its layout position, so the neato engine used by
// [RenderSVG] and [RenderPNG] only draws the diagram and never moves a box.
// Hidden people are emitted invisible to keep their links anchored.
func ToDOT(res *layout.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  notranslate=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontsize=10, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	for _, n := range res.Nodes {
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(n.Key), strings.Join(fmtAttrs(n, res.Height, opts), ", "))
	}

	buf.WriteString("\n")
	for _, r := range res.Routes {
		attrs := []string{"color=" + strconv.Quote(ColorParent)}
		if r.Kind == builder.LinkMarriage {
			attrs = []string{"color=" + strconv.Quote(ColorMarriage), "penwidth=2.5"}
		}
		if hidden(res, r.From) || hidden(res, r.To) {
			attrs = append(attrs, "style=invis")
		}
		fmt.Fprintf(&buf, "  %s -- %s [%s];\n", nodeID(r.From), nodeID(r.To), strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// nodeID names label nodes apart from people since label keys are negative.
func nodeID(key int) string {
	if key < 0 {
		return "m" + strconv.Itoa(-key)
	}
	return "p" + strconv.Itoa(key)
}

func fmtAttrs(n layout.PlacedNode, height float64, opts Options) []string {
	c := n.Center()
	pos := fmt.Sprintf("pos=\"%s,%s!\"", inches(c.X), inches(height-c.Y))
	if n.IsLabel() {
		return []string{pos, "shape=point", "width=0.04", "color=" + strconv.Quote(ColorMarriage)}
	}

	attrs := []string{
		pos,
		fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed)),
		"width=" + inches(n.Width),
		"height=" + inches(n.Height),
		"fillcolor=" + strconv.Quote(fill(n.Sex)),
	}
	if n.Hidden {
		attrs = append(attrs, "style=invis")
	}
	if opts.Focus != 0 && n.Key == opts.Focus {
		attrs = append(attrs, "penwidth=3", "color="+strconv.Quote(ColorFocus))
	}
	return attrs
}

func fmtLabel(n layout.PlacedNode, detailed bool) string {
	if !detailed {
		return n.Name
	}
	return fmt.Sprintf("%s\nkey: %d\ngeneration: %d", n.Name, n.Key, n.Layer)
}

func fill(s family.Sex) string {
	switch {
	case s.IsMale():
		return ColorMale
	case s.IsFemale():
		return ColorFemale
	default:
		return ColorOther
	}
}

func inches(v float64) string {
	return strconv.FormatFloat(v/pointsPerInch, 'f', 4, 64)
}

func hidden(res *layout.Result, key int) bool {
	n, ok := res.Node(key)
	return ok && n.Hidden
}
