package layout

import (
	"math"

	"github.com/matzehuels/genogram/pkg/layered"
)

// rect is a node box in layout coordinates.
type rect struct {
	x, y, w, h float64
	layer      int
}

func (r rect) centerX() float64 { return r.x + r.w/2 }
func (r rect) centerY() float64 { return r.y + r.h/2 }

// overlaps reports whether two boxes share interior area.
func (r rect) overlaps(o rect) bool {
	return r.x < o.x+o.w && o.x < r.x+r.w && r.y < o.y+o.h && o.y < r.y+r.h
}

// positioner turns laid out vertices back into node boxes.
type positioner struct {
	nw    *network
	boxes map[int]*rect
	order []int          // keys in placement order, for deterministic scans
	sides map[int][2]int // label -> left and right spouse
	dx    float64
	dy    float64
}

// position places every node:
//  1. unmarried people at their vertex;
//  2. spouses side by side in their couple vertex, men left and women
//     right, swapped when that would cross the links to their own parents,
//     and collapsed onto one spot when either spouse is hidden;
//  3. each marriage label between its spouses;
//  4. an only child centered below its parents when the spot is free.
//
// A person with several marriages ends up where the last of their couples
// puts them. Finally everything is shifted so no box has a negative
// coordinate.
func (nw *network) position() *positioner {
	p := &positioner{
		nw:    nw,
		boxes: make(map[int]*rect, len(nw.sizes)),
		sides: make(map[int][2]int, len(nw.couple)),
	}
	p.placeSingles()
	p.placeCouples()
	p.placeLabels()
	p.centerOnlyChildren()
	p.shift()
	return p
}

func (p *positioner) set(key int, x, y float64, layer int) {
	s := p.nw.sizes[key]
	if b, ok := p.boxes[key]; ok {
		b.x, b.y, b.layer = x, y, layer
		return
	}
	p.boxes[key] = &rect{x: x, y: y, w: s.w, h: s.h, layer: layer}
	p.order = append(p.order, key)
}

func (p *positioner) placeSingles() {
	for _, v := range p.nw.net.Vertices() {
		if v.Kind != layered.KindRegular {
			continue
		}
		if _, isCouple := p.nw.couple[v.ID]; isCouple {
			continue
		}
		p.set(v.Key, v.X, v.Y, v.Layer)
	}
}

func (p *positioner) placeCouples() {
	g := p.nw.g
	spacing := p.nw.opts.SpouseSpacing
	for _, v := range p.nw.net.Vertices() {
		m, ok := p.nw.couple[v.ID]
		if !ok {
			continue
		}
		left, right := m.One, m.Two
		if sexRank(g.Person(left).Sex) > sexRank(g.Person(right).Sex) {
			left, right = right, left
		}
		lp, okL := p.nw.parentCouple(left)
		rp, okR := p.nw.parentCouple(right)
		if okL && okR && lp.Center().X > rp.Center().X {
			left, right = right, left
		}
		p.sides[m.Label] = [2]int{left, right}

		lw, rw := p.nw.sizes[left].w, p.nw.sizes[right].w
		switch {
		case g.Person(left).Hidden:
			x := v.Center().X - lw/2
			p.set(left, x, v.Y, v.Layer)
			p.set(right, x, v.Y, v.Layer)
		case g.Person(right).Hidden:
			x := v.Center().X - rw/2
			p.set(left, x, v.Y, v.Layer)
			p.set(right, x, v.Y, v.Layer)
		default:
			p.set(left, v.X, v.Y, v.Layer)
			p.set(right, v.X+lw+spacing, v.Y, v.Layer)
		}
	}
}

// placeLabels puts each label node in the gap between its spouses, or on
// their common center when they overlap.
func (p *positioner) placeLabels() {
	for _, m := range p.nw.g.Marriages {
		sides, ok := p.sides[m.Label]
		if !ok {
			continue
		}
		l, r := p.boxes[sides[0]], p.boxes[sides[1]]
		cx := (l.centerX() + r.centerX()) / 2
		if l.x+l.w <= r.x {
			cx = (l.x + l.w + r.x) / 2
		}
		cy := (l.centerY() + r.centerY()) / 2
		layer := p.nw.net.Vertex(p.nw.vertex[m.Label]).Layer
		p.set(m.Label, cx-LabelSize/2.0, cy-LabelSize/2.0, layer)
	}
}

// centerOnlyChildren moves an unmarried person with no other links below the
// center of their parents' couple when they are its only child and the new
// box overlaps nothing.
func (p *positioner) centerOnlyChildren() {
	g := p.nw.g
	for _, v := range p.nw.net.Vertices() {
		if v.Kind != layered.KindRegular {
			continue
		}
		if _, isCouple := p.nw.couple[v.ID]; isCouple {
			continue
		}
		key := v.Key
		if g.Degree(key) > 1 {
			continue
		}
		m, ok := g.ParentMarriage(key)
		if !ok || g.ChildCount(m.Label) != 1 {
			continue
		}
		parents, ok := p.nw.parentCouple(key)
		if !ok {
			continue
		}
		b := p.boxes[key]
		moved := *b
		moved.x = parents.Center().X - b.w/2
		if !p.overlapsOther(key, moved) {
			b.x = moved.x
		}
	}
}

func (p *positioner) overlapsOther(key int, r rect) bool {
	for _, k := range p.order {
		if k != key && p.boxes[k].overlaps(r) {
			return true
		}
	}
	return false
}

// shift moves all boxes so the smallest coordinates are not negative.
func (p *positioner) shift() {
	minX, minY := math.Inf(1), math.Inf(1)
	for _, b := range p.boxes {
		minX = math.Min(minX, b.x)
		minY = math.Min(minY, b.y)
	}
	p.dx, p.dy = math.Max(0, -minX), math.Max(0, -minY)
	if p.dx == 0 && p.dy == 0 {
		return
	}
	for _, b := range p.boxes {
		b.x += p.dx
		b.y += p.dy
	}
}

// offset returns the shift applied to every box.
func (p *positioner) offset() (float64, float64) { return p.dx, p.dy }
