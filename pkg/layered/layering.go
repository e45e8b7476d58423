package layered

import "slices"

// unionFind groups vertices that must share a layer.
type unionFind []int

func newUnionFind(n int) unionFind {
	uf := make(unionFind, n)
	for i := range uf {
		uf[i] = i
	}
	return uf
}

func (uf unionFind) find(x int) int {
	for uf[x] != x {
		uf[x] = uf[uf[x]]
		x = uf[x]
	}
	return x
}

// union merges the groups of a and b; the smaller ID becomes the
// representative so results do not depend on merge order.
func (uf unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if rb < ra {
		ra, rb = rb, ra
	}
	uf[rb] = ra
}

type classEdge struct {
	to   int
	edge int
}

// layering is the quotient of the network where all successors of an anchor
// collapse into one class.
type layering struct {
	net     *Network
	uf      unionFind
	classes []int         // representatives in ascending order
	out     [][]classEdge // indexed by representative
	indeg   []int
}

// assignLayers gives every vertex a layer using longest path from the
// sources: sources sit on layer 0 and every other vertex one layer below its
// deepest predecessor. All successors of an anchor are layered as a unit, and
// the anchor itself is recorded one layer above them.
//
// Edges that would contradict the layering are marked removed. Edges between
// two vertices aligned by the same anchor are returned as conflicts; edges
// closing a cycle are returned as cycles. Both are reported in ID order.
func assignLayers(n *Network) (cycles, conflicts []int) {
	l := newLayering(n)
	conflicts = l.collapse()
	cycles = l.breakCycles()
	l.longestPath()
	return cycles, conflicts
}

func newLayering(n *Network) *layering {
	uf := newUnionFind(len(n.vertices))
	for _, v := range n.vertices {
		if v.Kind != KindAnchor {
			continue
		}
		first := -1
		for _, e := range n.OutEdges(v.ID) {
			if n.vertices[e.To].Kind == KindAnchor {
				continue
			}
			if first < 0 {
				first = e.To
				continue
			}
			uf.union(first, e.To)
		}
	}
	return &layering{
		net:   n,
		uf:    uf,
		out:   make([][]classEdge, len(n.vertices)),
		indeg: make([]int, len(n.vertices)),
	}
}

// collapse builds the class graph from every live edge between arranged
// vertices. Edges inside one class are removed and returned.
func (l *layering) collapse() []int {
	var conflicts []int
	for _, v := range l.net.vertices {
		if v.Kind != KindAnchor && l.uf.find(v.ID) == v.ID {
			l.classes = append(l.classes, v.ID)
		}
	}
	for _, e := range l.net.edges {
		if e.Removed || !l.net.vertices[e.From].Arranged() || !l.net.vertices[e.To].Arranged() {
			continue
		}
		cf, ct := l.uf.find(e.From), l.uf.find(e.To)
		if cf == ct {
			e.Removed = true
			conflicts = append(conflicts, e.ID)
			continue
		}
		l.out[cf] = append(l.out[cf], classEdge{to: ct, edge: e.ID})
		l.indeg[ct]++
	}
	return conflicts
}

// breakCycles removes back edges found by an iterative depth-first search,
// starting from the source classes and then from any class left unvisited.
func (l *layering) breakCycles() []int {
	const (
		white = iota
		gray
		black
	)
	type frame struct{ class, next int }

	color := make([]int8, len(l.net.vertices))
	var removed []int

	visit := func(root int) {
		color[root] = gray
		stack := []frame{{class: root}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(l.out[top.class]) {
				color[top.class] = black
				stack = stack[:len(stack)-1]
				continue
			}
			ce := l.out[top.class][top.next]
			top.next++
			switch color[ce.to] {
			case white:
				color[ce.to] = gray
				stack = append(stack, frame{class: ce.to})
			case gray:
				e := l.net.edges[ce.edge]
				if !e.Removed {
					e.Removed = true
					l.indeg[ce.to]--
					removed = append(removed, ce.edge)
				}
			}
		}
	}

	for _, c := range l.classes {
		if l.indeg[c] == 0 && color[c] == white {
			visit(c)
		}
	}
	for _, c := range l.classes {
		if color[c] == white {
			visit(c)
		}
	}
	slices.Sort(removed)
	return removed
}

// longestPath runs Kahn's algorithm over the class graph.
func (l *layering) longestPath() {
	layer := make([]int, len(l.net.vertices))
	indeg := make([]int, len(l.indeg))
	copy(indeg, l.indeg)

	queue := make([]int, 0, len(l.classes))
	for _, c := range l.classes {
		if indeg[c] == 0 {
			queue = append(queue, c)
		}
	}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, ce := range l.out[c] {
			if l.net.edges[ce.edge].Removed {
				continue
			}
			if next := layer[c] + 1; next > layer[ce.to] {
				layer[ce.to] = next
			}
			indeg[ce.to]--
			if indeg[ce.to] == 0 {
				queue = append(queue, ce.to)
			}
		}
	}

	for _, v := range l.net.vertices {
		if v.Kind != KindAnchor {
			v.Layer = layer[l.uf.find(v.ID)]
		}
	}
	for _, v := range l.net.vertices {
		if v.Kind != KindAnchor {
			continue
		}
		v.Layer = 0
		first := true
		for _, e := range l.net.OutEdges(v.ID) {
			if to := l.net.vertices[e.To]; to.Arranged() && (first || to.Layer-1 < v.Layer) {
				v.Layer = to.Layer - 1
				first = false
			}
		}
	}
}
