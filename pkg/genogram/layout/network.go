package layout

import (
	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/builder"
	"github.com/matzehuels/genogram/pkg/layered"
)

// box is the size of a node.
type box struct{ w, h float64 }

// network is the layered network of a genogram together with the side
// tables that map it back to people and marriages.
type network struct {
	g    *builder.Graph
	opts Options
	net  *layered.Network

	sizes   map[int]box               // node key -> size
	vertex  map[int]int               // person or label key -> vertex ID
	couple  map[int]*builder.Marriage // vertex ID -> marriage, for couple vertices
	anchors []int                     // anchor vertex IDs, one per cohort
	edges   map[int]int               // network edge ID -> index into g.Links
}

// makeNetwork builds the layered network:
//   - one couple vertex per marriage label, wide enough for both spouses
//     with SpouseSpacing between them and focused on that gap;
//   - one vertex per unmarried person;
//   - no vertex for a married person, who is drawn through the couple;
//   - for each parent-child link an edge from the parents' couple vertex to
//     the child's vertex, or to every couple vertex of a married child;
//   - one anchor per cohort of people with more than one marriage, linked
//     to every marriage of the cohort so they share a generation.
func makeNetwork(g *builder.Graph, opts Options) *network {
	nw := &network{
		g:      g,
		opts:   opts,
		net:    layered.NewNetwork(),
		sizes:  make(map[int]box, len(g.Nodes)),
		vertex: make(map[int]int, len(g.Nodes)),
		couple: make(map[int]*builder.Marriage, len(g.Marriages)),
		edges:  make(map[int]int, len(g.Links)),
	}

	var multi []int
	for _, n := range g.Nodes {
		if n.IsLabel() {
			nw.sizes[n.Key] = box{LabelSize, LabelSize}
			continue
		}
		w, h := opts.size(n.Person)
		nw.sizes[n.Key] = box{w, h}
	}

	for i := range g.Marriages {
		m := &g.Marriages[i]
		a, b := nw.sizes[m.One], nw.sizes[m.Two]
		w := a.w + opts.SpouseSpacing + b.w
		h := max(a.h, b.h)
		id := nw.net.AddVertex(m.Label, w, h, layered.Point{X: a.w + opts.SpouseSpacing/2, Y: h / 2})
		nw.vertex[m.Label] = id
		nw.couple[id] = m
	}

	for _, n := range g.Nodes {
		if n.IsLabel() {
			continue
		}
		switch len(g.MarriagesOf(n.Key)) {
		case 0:
			s := nw.sizes[n.Key]
			nw.vertex[n.Key] = nw.net.AddVertex(n.Key, s.w, s.h, layered.Point{X: s.w / 2, Y: s.h / 2})
		case 1:
		default:
			multi = append(multi, n.Key)
		}
	}

	for i, l := range g.Links {
		if l.Kind != builder.LinkParent {
			continue
		}
		parent, ok := nw.vertex[l.From]
		if !ok {
			continue
		}
		if child, ok := nw.vertex[l.To]; ok {
			nw.link(parent, child, i)
			continue
		}
		for _, m := range g.MarriagesOf(l.To) {
			nw.link(parent, nw.vertex[m.Label], i)
		}
	}

	nw.addCohorts(multi)
	return nw
}

func (nw *network) link(from, to, linkIdx int) {
	id, err := nw.net.Link(from, to, linkIdx)
	if err != nil {
		// A child that is its own parents' marriage; layering would drop it.
		nw.opts.Logger.Debug("skipped layout edge", "from", from, "to", to, "err", err)
		return
	}
	nw.edges[id] = linkIdx
}

// addCohorts walks the marriage graph from each pending multi-married
// person and anchors the marriages of everyone reached.
func (nw *network) addCohorts(pending []int) {
	done := make(map[int]bool, len(pending))
	for _, start := range pending {
		if done[start] {
			continue
		}
		cohort := nw.cohort(start)
		for _, k := range cohort {
			done[k] = true
		}

		anchor := nw.net.AddAnchor()
		nw.anchors = append(nw.anchors, anchor)
		seen := make(map[int]bool)
		for _, k := range cohort {
			for _, m := range nw.g.MarriagesOf(k) {
				if seen[m.Label] {
					continue
				}
				seen[m.Label] = true
				if _, err := nw.net.Link(anchor, nw.vertex[m.Label], layered.NoLink); err != nil {
					nw.opts.Logger.Debug("skipped anchor edge", "label", m.Label, "err", err)
				}
			}
		}
	}
}

// cohort returns every person reachable from start through marriages, in
// discovery order.
func (nw *network) cohort(start int) []int {
	visited := map[int]bool{start: true}
	order := []int{start}
	stack := []int{start}
	for len(stack) > 0 {
		k := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, m := range nw.g.MarriagesOf(k) {
			spouse := m.Spouse(k)
			if !visited[spouse] {
				visited[spouse] = true
				order = append(order, spouse)
				stack = append(stack, spouse)
			}
		}
	}
	return order
}

// normalize makes every vertex of a layer as deep as the deepest one and
// anchors its focus on the near edge: the top for vertical layouts, the left
// for horizontal ones.
func normalize(n *layered.Network, horizontal bool) {
	maxSize := make(map[int]float64)
	for _, v := range n.Vertices() {
		if v.Kind != layered.KindRegular {
			continue
		}
		size := v.Height
		if horizontal {
			size = v.Width
		}
		maxSize[v.Layer] = max(maxSize[v.Layer], size)
	}
	for _, v := range n.Vertices() {
		if v.Kind != layered.KindRegular {
			continue
		}
		if horizontal {
			v.Focus = layered.Point{X: 0, Y: v.Height / 2}
			v.Width = maxSize[v.Layer]
		} else {
			v.Focus = layered.Point{X: v.Width / 2, Y: 0}
			v.Height = maxSize[v.Layer]
		}
	}
}

// parentCouple returns the couple vertex a person descends from.
func (nw *network) parentCouple(key int) (*layered.Vertex, bool) {
	m, ok := nw.g.ParentMarriage(key)
	if !ok {
		return nil, false
	}
	id, ok := nw.vertex[m.Label]
	if !ok {
		return nil, false
	}
	return nw.net.Vertex(id), true
}

// sexRank orders spouses left to right: men, then others, then women.
func sexRank(s family.Sex) int {
	switch {
	case s.IsMale():
		return 0
	case s.IsFemale():
		return 2
	default:
		return 1
	}
}
