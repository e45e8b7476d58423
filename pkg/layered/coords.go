package layered

import "math"

// frame maps a vertex onto the layout axes: breadth runs along a layer,
// depth runs from one layer to the next.
type frame struct{ horizontal bool }

func (f frame) breadth(v *Vertex) (size, focus float64) {
	if f.horizontal {
		return v.Height, v.Focus.Y
	}
	return v.Width, v.Focus.X
}

func (f frame) depth(v *Vertex) (size, focus float64) {
	if f.horizontal {
		return v.Width, v.Focus.X
	}
	return v.Height, v.Focus.Y
}

// assignCoordinates sets X and Y of every arranged vertex.
//
// Along a layer, vertices are first packed left to right with columnSpacing
// between boxes, then pulled toward the mean focus of their neighbors in
// alternating down and up passes. Each pass solves an order-preserving
// least-squares placement, so vertices never overlap or change order.
// Across layers, every layer is as deep as its deepest vertex, layers are
// separated by layerSpacing, and the focus points of one layer share a line.
func (n *Network) assignCoordinates(opts Options) {
	fr := frame{horizontal: opts.Horizontal()}
	pos := make([]float64, len(n.vertices))

	for _, row := range n.rows {
		cursor := 0.0
		for _, id := range row {
			size, focus := fr.breadth(n.vertices[id])
			pos[id] = cursor + focus
			cursor += size + opts.ColumnSpacing
		}
	}
	for i := 0; i < opts.BalanceIterations; i++ {
		for l := 1; l < len(n.rows); l++ {
			n.balance(fr, pos, n.rows[l], n.up, opts.ColumnSpacing)
		}
		for l := len(n.rows) - 2; l >= 0; l-- {
			n.balance(fr, pos, n.rows[l], n.down, opts.ColumnSpacing)
		}
	}

	minEdge := math.Inf(1)
	for _, row := range n.rows {
		if len(row) == 0 {
			continue
		}
		_, focus := fr.breadth(n.vertices[row[0]])
		minEdge = math.Min(minEdge, pos[row[0]]-focus)
	}
	if math.IsInf(minEdge, 1) {
		minEdge = 0
	}

	top, line, total := n.layerOffsets(fr, opts.LayerSpacing)
	mirror := opts.Direction == 180 || opts.Direction == 270
	for l, row := range n.rows {
		for _, id := range row {
			v := n.vertices[id]
			_, bFocus := fr.breadth(v)
			dSize, dFocus := fr.depth(v)
			b := pos[id] - bFocus - minEdge
			d := top[l] + line[l] - dFocus
			if mirror {
				d = total - d - dSize
			}
			if fr.horizontal {
				v.X, v.Y = d, b
			} else {
				v.X, v.Y = b, d
			}
		}
	}
}

// layerOffsets returns the depth at which each layer starts, the offset of
// each layer's focus line from that start, and the total depth of the layout.
func (n *Network) layerOffsets(fr frame, spacing float64) (top, line []float64, total float64) {
	top = make([]float64, len(n.rows))
	line = make([]float64, len(n.rows))
	cursor := 0.0
	for l, row := range n.rows {
		for _, id := range row {
			_, focus := fr.depth(n.vertices[id])
			line[l] = math.Max(line[l], focus)
		}
		extent := 0.0
		for _, id := range row {
			size, focus := fr.depth(n.vertices[id])
			extent = math.Max(extent, line[l]-focus+size)
		}
		top[l] = cursor
		cursor += extent
		if l < len(n.rows)-1 {
			cursor += spacing
		}
	}
	return top, line, cursor
}

// balance moves the vertices of one row toward the mean position of their
// neighbors in adj while keeping them in order and apart.
//
// With gap[i] the minimum focus distance between row[i] and row[i+1], the
// positions are written as p[i] = q[i] + offset[i], where offset is the
// prefix sum of gaps. The constraints become q non-decreasing, which pool
// adjacent violators solves exactly for a squared-distance objective.
func (n *Network) balance(fr frame, pos []float64, row []int, adj [][]int, spacing float64) {
	if len(row) == 0 {
		return
	}
	offset := make([]float64, len(row))
	target := make([]float64, len(row))
	for i, id := range row {
		if i > 0 {
			prevSize, prevFocus := fr.breadth(n.vertices[row[i-1]])
			_, focus := fr.breadth(n.vertices[id])
			offset[i] = offset[i-1] + (prevSize - prevFocus) + spacing + focus
		}
		target[i] = pos[id]
		if nbrs := adj[id]; len(nbrs) > 0 {
			sum := 0.0
			for _, w := range nbrs {
				sum += pos[w]
			}
			target[i] = sum / float64(len(nbrs))
		}
		target[i] -= offset[i]
	}

	for i, q := range isotonic(target) {
		pos[row[i]] = q + offset[i]
	}
}

// isotonic returns the non-decreasing sequence closest to values in the
// least-squares sense.
func isotonic(values []float64) []float64 {
	type block struct {
		sum   float64
		count int
	}
	blocks := make([]block, 0, len(values))
	for _, v := range values {
		blocks = append(blocks, block{sum: v, count: 1})
		for len(blocks) > 1 {
			a, b := blocks[len(blocks)-2], blocks[len(blocks)-1]
			if a.sum/float64(a.count) <= b.sum/float64(b.count) {
				break
			}
			blocks = blocks[:len(blocks)-2]
			blocks = append(blocks, block{sum: a.sum + b.sum, count: a.count + b.count})
		}
	}
	out := make([]float64, 0, len(values))
	for _, b := range blocks {
		mean := b.sum / float64(b.count)
		for range b.count {
			out = append(out, mean)
		}
	}
	return out
}
