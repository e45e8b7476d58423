package layout

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/builder"
	"github.com/matzehuels/genogram/pkg/layered"
)

// Compute lays out a genogram graph.
//
// The graph is turned into a layered network where each couple is one
// vertex (see makeNetwork), the network is layered, normalized and
// positioned by the layered engine, and the couples are split back into
// spouses by the positioner. Every call starts from a fresh network, so
// computing the same graph twice gives the same result.
//
// Only invalid options produce an error. Parent links dropped to keep the
// generations consistent are reported as diagnostics on the result, after
// the diagnostics already on the graph.
func Compute(g *builder.Graph, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	nw := makeNetwork(g, opts)
	engine := opts.engine()
	engine.AdjustLayers = normalize
	report, err := layered.Layout(nw.net, engine)
	if err != nil {
		return nil, err
	}

	diags := slices.Clone(g.Diagnostics)
	for _, id := range report.Cycles {
		l := g.Links[nw.edges[id]]
		d := family.Diagf(family.DiagCycle, []int{l.From, l.To},
			"dropped parent link %d -> %d to break a cycle", l.From, l.To)
		opts.Logger.Warn(d.Message, "code", d.Code)
		diags = append(diags, d)
	}
	for _, id := range report.Conflicts {
		l := g.Links[nw.edges[id]]
		d := family.Diagf(family.DiagCohortConflict, []int{l.From, l.To},
			"dropped parent link %d -> %d inside one generation of remarried people", l.From, l.To)
		opts.Logger.Warn(d.Message, "code", d.Code)
		diags = append(diags, d)
	}

	res := nw.position().result(report)
	res.Name = g.Name
	res.Direction = opts.Direction
	res.Diagnostics = diags

	opts.Logger.Debug("computed layout",
		"nodes", len(res.Nodes),
		"layers", res.Layers,
		"crossings", res.Crossings,
		"cohorts", len(nw.anchors))
	return res, nil
}

// FromFamily builds the graph for fam and lays it out.
func FromFamily(fam *family.Family, opts Options) (*Result, error) {
	g, err := builder.Build(fam, builder.Options{Logger: opts.Logger})
	if err != nil {
		return nil, err
	}
	return Compute(g, opts)
}

func (p *positioner) result(report *layered.Report) *Result {
	g := p.nw.g
	res := &Result{
		Layers:    report.Layers,
		Crossings: report.Crossings,
		Nodes:     make([]PlacedNode, 0, len(g.Nodes)),
		Routes:    make([]Route, 0, len(g.Links)),
	}

	for _, n := range g.Nodes {
		b, ok := p.boxes[n.Key]
		if !ok {
			continue
		}
		pn := PlacedNode{
			Key:    n.Key,
			Kind:   n.Kind,
			X:      b.x,
			Y:      b.y,
			Width:  b.w,
			Height: b.h,
			Layer:  b.layer,
		}
		if n.Person != nil {
			pn.Name = n.Person.DisplayName()
			pn.Sex = n.Person.Sex
			pn.Hidden = n.Person.Hidden
		}
		res.Nodes = append(res.Nodes, pn)
		res.Width = max(res.Width, b.x+b.w)
		res.Height = max(res.Height, b.y+b.h)
	}

	bends := p.bends()
	for i, l := range g.Links {
		from, okF := p.boxes[l.From]
		to, okT := p.boxes[l.To]
		if !okF || !okT {
			continue
		}
		pts := []layered.Point{{X: from.centerX(), Y: from.centerY()}}
		pts = append(pts, bends[i]...)
		pts = append(pts, layered.Point{X: to.centerX(), Y: to.centerY()})
		res.Routes = append(res.Routes, Route{
			Kind:   l.Kind,
			From:   l.From,
			To:     l.To,
			Label:  l.Label,
			Points: pts,
		})
	}
	return res
}

// bends returns the virtual vertex positions of the first live network edge
// of each link, shifted like the node boxes.
func (p *positioner) bends() map[int][]layered.Point {
	dx, dy := p.offset()
	out := make(map[int][]layered.Point)
	for _, e := range p.nw.net.Edges() {
		idx, ok := p.nw.edges[e.ID]
		if !ok || e.Removed {
			continue
		}
		if _, done := out[idx]; done {
			continue
		}
		pts := make([]layered.Point, 0, len(e.Virtuals))
		for _, id := range e.Virtuals {
			fp := p.nw.net.Vertex(id).FocusPoint()
			pts = append(pts, layered.Point{X: fp.X + dx, Y: fp.Y + dy})
		}
		out[idx] = pts
	}
	return out
}
