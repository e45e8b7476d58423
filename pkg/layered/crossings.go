package layered

import "slices"

// Crossings returns the number of edge crossings in the current arrangement,
// summed over every pair of consecutive layers. Edges are counted segment by
// segment, so an edge broken by virtual vertices may cross more than once.
func (n *Network) Crossings() int {
	total := 0
	for l := 0; l+1 < len(n.rows); l++ {
		total += n.layerCrossings(l)
	}
	return total
}

// layerCrossings counts crossings between layer l and layer l+1 using a
// Fenwick tree over the lower positions.
//
// Two segments (u1,v1) and (u2,v2) cross if and only if
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// so the count is the number of inversions of lower positions when segments
// are sorted by upper position.
func (n *Network) layerCrossings(l int) int {
	upper, lower := n.rows[l], n.rows[l+1]
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	type segment struct{ upper, lower int }
	segs := make([]segment, 0, len(upper)*2)
	for _, u := range upper {
		for _, w := range n.down[u] {
			segs = append(segs, segment{n.vertices[u].Index, n.vertices[w].Index})
		}
	}
	if len(segs) < 2 {
		return 0
	}

	slices.SortFunc(segs, func(a, b segment) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	fenwick := make([]int, len(lower)+1)
	crossings, seen := 0, 0
	for _, s := range segs {
		lessOrEqual := 0
		for q := s.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		crossings += seen - lessOrEqual

		seen++
		for i := s.lower + 1; i < len(fenwick); i += i & (-i) {
			fenwick[i]++
		}
	}
	return crossings
}
