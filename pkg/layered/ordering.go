package layered

import (
	"cmp"
	"slices"
)

// arrange builds the rows: long edges are split with virtual vertices, every
// arranged vertex is placed in the row of its layer, and the initial order
// comes from a depth-first walk from the sources.
func (n *Network) arrange() {
	n.down = make([][]int, len(n.vertices))
	n.up = make([][]int, len(n.vertices))

	for _, e := range n.edges {
		if e.Removed {
			continue
		}
		from, to := n.vertices[e.From], n.vertices[e.To]
		if !from.Arranged() || !to.Arranged() {
			continue
		}
		prev := from.ID
		for l := from.Layer + 1; l < to.Layer; l++ {
			id := n.add(&Vertex{Kind: KindVirtual, Layer: l})
			n.down = append(n.down, nil)
			n.up = append(n.up, nil)
			e.Virtuals = append(e.Virtuals, id)
			n.segment(prev, id)
			prev = id
		}
		n.segment(prev, to.ID)
	}

	n.rows = make([][]int, n.LayerCount())
	visited := make([]bool, len(n.vertices))
	for _, v := range n.vertices {
		if v.Arranged() && len(n.up[v.ID]) == 0 {
			n.walk(v.ID, visited)
		}
	}
	for _, v := range n.vertices {
		if v.Arranged() && !visited[v.ID] {
			n.walk(v.ID, visited)
		}
	}
	n.reindex()
}

func (n *Network) segment(from, to int) {
	n.down[from] = append(n.down[from], to)
	n.up[to] = append(n.up[to], from)
}

// walk appends vertices to their rows in depth-first preorder.
func (n *Network) walk(root int, visited []bool) {
	stack := []int{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true
		v := n.vertices[id]
		n.rows[v.Layer] = append(n.rows[v.Layer], id)
		next := n.down[id]
		for i := len(next) - 1; i >= 0; i-- {
			if !visited[next[i]] {
				stack = append(stack, next[i])
			}
		}
	}
}

func (n *Network) reindex() {
	for _, row := range n.rows {
		for i, id := range row {
			n.vertices[id].Index = i
		}
	}
}

// reduceCrossings runs alternating barycenter sweeps and keeps the order
// with the fewest crossings seen. It returns that crossing count.
func (n *Network) reduceCrossings(iterations int) int {
	best := n.snapshot()
	bestCount := n.Crossings()
	for i := 0; i < iterations && bestCount > 0; i++ {
		for l := 1; l < len(n.rows); l++ {
			n.sortByBarycenter(l, n.up)
		}
		for l := len(n.rows) - 2; l >= 0; l-- {
			n.sortByBarycenter(l, n.down)
		}
		if c := n.Crossings(); c < bestCount {
			bestCount = c
			best = n.snapshot()
		}
	}
	n.restore(best)
	return bestCount
}

// sortByBarycenter reorders row l by the mean position of each vertex's
// neighbors in adj. A vertex without neighbors keeps its current position
// as its key. The sort is stable, so ties keep their relative order.
func (n *Network) sortByBarycenter(l int, adj [][]int) {
	row := n.rows[l]
	keys := make(map[int]float64, len(row))
	for i, id := range row {
		nbrs := adj[id]
		if len(nbrs) == 0 {
			keys[id] = float64(i)
			continue
		}
		sum := 0
		for _, w := range nbrs {
			sum += n.vertices[w].Index
		}
		keys[id] = float64(sum) / float64(len(nbrs))
	}
	slices.SortStableFunc(row, func(a, b int) int {
		return cmp.Compare(keys[a], keys[b])
	})
	for i, id := range row {
		n.vertices[id].Index = i
	}
}

func (n *Network) snapshot() [][]int {
	out := make([][]int, len(n.rows))
	for i, row := range n.rows {
		out[i] = slices.Clone(row)
	}
	return out
}

func (n *Network) restore(rows [][]int) {
	n.rows = rows
	n.reindex()
}
