package layered

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownVertex is returned when an edge references a vertex ID that
	// is not part of the network.
	ErrUnknownVertex = errors.New("unknown vertex")

	// ErrSelfLoop is returned when an edge would connect a vertex to itself.
	ErrSelfLoop = errors.New("self loop")
)

// NoLink marks an edge that does not correspond to any caller-side link,
// such as the edges leaving an anchor.
const NoLink = -1

// VertexKind distinguishes caller vertices from the helper vertices the
// engine works with.
type VertexKind int

const (
	// KindRegular is a vertex added by the caller that is arranged and
	// assigned coordinates.
	KindRegular VertexKind = iota
	// KindAnchor is a dummy vertex that aligns all of its successors on one
	// layer. Anchors are layered but never arranged or positioned.
	KindAnchor
	// KindVirtual is inserted by the engine to break an edge spanning more
	// than one layer into single-layer segments.
	KindVirtual
)

func (k VertexKind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindAnchor:
		return "anchor"
	case KindVirtual:
		return "virtual"
	default:
		return fmt.Sprintf("VertexKind(%d)", int(k))
	}
}

// Point is a coordinate in layout space.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Vertex is a unit of layout.
//
// Width and Height are the extent of the vertex; Focus is the point inside
// that box where edges attach and along which vertices of one layer are
// aligned. X and Y are the top-left corner after [Layout].
type Vertex struct {
	ID     int
	Key    int // caller payload, zero for anchors and virtual vertices
	Kind   VertexKind
	Width  float64
	Height float64
	Focus  Point

	Layer int // assigned by layering
	Index int // position within its layer, -1 for anchors
	X, Y  float64
}

// Center returns the center of the vertex box.
func (v *Vertex) Center() Point {
	return Point{X: v.X + v.Width/2, Y: v.Y + v.Height/2}
}

// FocusPoint returns the focus in absolute coordinates.
func (v *Vertex) FocusPoint() Point {
	return Point{X: v.X + v.Focus.X, Y: v.Y + v.Focus.Y}
}

// Arranged reports whether the vertex takes part in ordering and
// coordinate assignment.
func (v *Vertex) Arranged() bool { return v.Kind != KindAnchor }

// Edge is a directed connection between two vertices.
//
// Link is the caller's identifier for the edge ([NoLink] if none). After
// layout, Virtuals lists the virtual vertices inserted along the edge from
// top to bottom, and Removed is set if the edge was dropped to keep the
// network acyclic.
type Edge struct {
	ID       int
	From, To int
	Link     int
	Virtuals []int
	Removed  bool
}

// Network is an arena of vertices and edges. Vertex and edge IDs are their
// positions in the arena and never change.
type Network struct {
	vertices []*Vertex
	edges    []*Edge
	out      [][]int // vertex -> outgoing edge IDs
	in       [][]int // vertex -> incoming edge IDs

	// Arrangement state, rebuilt by every Layout call.
	base int     // vertex count before virtual vertices were added
	rows [][]int // layer -> vertex IDs, left to right
	down [][]int // vertex -> adjacent vertices on the next layer
	up   [][]int // vertex -> adjacent vertices on the previous layer
}

// NewNetwork creates an empty network.
func NewNetwork() *Network {
	return &Network{}
}

// AddVertex adds a regular vertex and returns its ID.
func (n *Network) AddVertex(key int, width, height float64, focus Point) int {
	n.unlayout()
	return n.add(&Vertex{Key: key, Kind: KindRegular, Width: width, Height: height, Focus: focus})
}

// AddAnchor adds an anchor vertex and returns its ID. Every successor of an
// anchor is placed on the same layer.
func (n *Network) AddAnchor() int {
	n.unlayout()
	return n.add(&Vertex{Kind: KindAnchor})
}

func (n *Network) add(v *Vertex) int {
	v.ID = len(n.vertices)
	v.Index = -1
	n.vertices = append(n.vertices, v)
	n.out = append(n.out, nil)
	n.in = append(n.in, nil)
	return v.ID
}

// Link adds an edge from one vertex to another and returns the edge ID.
// Parallel edges are allowed.
func (n *Network) Link(from, to, link int) (int, error) {
	if !n.valid(from) {
		return 0, fmt.Errorf("link %d->%d: %w: %d", from, to, ErrUnknownVertex, from)
	}
	if !n.valid(to) {
		return 0, fmt.Errorf("link %d->%d: %w: %d", from, to, ErrUnknownVertex, to)
	}
	if from == to {
		return 0, fmt.Errorf("link %d->%d: %w", from, to, ErrSelfLoop)
	}
	e := &Edge{ID: len(n.edges), From: from, To: to, Link: link}
	n.edges = append(n.edges, e)
	n.out[from] = append(n.out[from], e.ID)
	n.in[to] = append(n.in[to], e.ID)
	return e.ID, nil
}

func (n *Network) valid(id int) bool { return id >= 0 && id < len(n.vertices) }

// Vertex returns the vertex with the given ID, or nil.
func (n *Network) Vertex(id int) *Vertex {
	if !n.valid(id) {
		return nil
	}
	return n.vertices[id]
}

// Edge returns the edge with the given ID, or nil.
func (n *Network) Edge(id int) *Edge {
	if id < 0 || id >= len(n.edges) {
		return nil
	}
	return n.edges[id]
}

// Vertices returns all vertices in ID order. The slice must not be modified.
func (n *Network) Vertices() []*Vertex { return n.vertices }

// Edges returns all edges in ID order. The slice must not be modified.
func (n *Network) Edges() []*Edge { return n.edges }

// VertexCount returns the number of vertices, including helper vertices.
func (n *Network) VertexCount() int { return len(n.vertices) }

// EdgeCount returns the number of edges, including removed ones.
func (n *Network) EdgeCount() int { return len(n.edges) }

// OutEdges returns the live edges leaving id.
func (n *Network) OutEdges(id int) []*Edge { return n.live(n.out[id]) }

// InEdges returns the live edges entering id.
func (n *Network) InEdges(id int) []*Edge { return n.live(n.in[id]) }

func (n *Network) live(ids []int) []*Edge {
	out := make([]*Edge, 0, len(ids))
	for _, id := range ids {
		if e := n.edges[id]; !e.Removed {
			out = append(out, e)
		}
	}
	return out
}

// Route returns the attachment points of an edge after layout: the focus of
// the source, the focus of every virtual vertex and the focus of the target.
// Edges touching an anchor and removed edges have no route.
func (n *Network) Route(edgeID int) []Point {
	e := n.Edge(edgeID)
	if e == nil || e.Removed {
		return nil
	}
	from, to := n.vertices[e.From], n.vertices[e.To]
	if !from.Arranged() || !to.Arranged() {
		return nil
	}
	pts := make([]Point, 0, len(e.Virtuals)+2)
	pts = append(pts, from.FocusPoint())
	for _, id := range e.Virtuals {
		pts = append(pts, n.vertices[id].FocusPoint())
	}
	return append(pts, to.FocusPoint())
}

// Row returns the vertex IDs of a layer in left-to-right order after
// layout. Anchors never appear in a row.
func (n *Network) Row(layer int) []int {
	if layer < 0 || layer >= len(n.rows) {
		return nil
	}
	return n.rows[layer]
}

// reset drops everything a previous layout derived so the network can be
// laid out again from scratch.
func (n *Network) reset() {
	if n.rows != nil {
		n.vertices = n.vertices[:n.base]
		n.out = n.out[:n.base]
		n.in = n.in[:n.base]
	}
	n.base = len(n.vertices)
	n.rows, n.down, n.up = nil, nil, nil
	for _, v := range n.vertices {
		v.Layer, v.Index, v.X, v.Y = 0, -1, 0, 0
	}
	for _, e := range n.edges {
		e.Removed = false
		e.Virtuals = nil
	}
}

// unlayout discards virtual vertices before the caller changes the network.
func (n *Network) unlayout() {
	if n.rows != nil {
		n.reset()
	}
}

// LayerCount returns one more than the largest layer of any arranged vertex,
// or zero for a network without arranged vertices.
func (n *Network) LayerCount() int {
	count := 0
	for _, v := range n.vertices {
		if v.Arranged() && v.Layer+1 > count {
			count = v.Layer + 1
		}
	}
	return count
}
