package layout

import (
	"github.com/matzehuels/genogram/pkg/family"
	"github.com/matzehuels/genogram/pkg/genogram/builder"
	"github.com/matzehuels/genogram/pkg/layered"
)

// PlacedNode is a person or marriage label node with its final box.
type PlacedNode struct {
	Key    int              `json:"key" msgpack:"key"`
	Kind   builder.NodeKind `json:"kind" msgpack:"kind"`
	Name   string           `json:"name,omitempty" msgpack:"name,omitempty"`
	Sex    family.Sex       `json:"sex,omitempty" msgpack:"sex,omitempty"`
	Hidden bool             `json:"hidden,omitempty" msgpack:"hidden,omitempty"`
	X      float64          `json:"x" msgpack:"x"`
	Y      float64          `json:"y" msgpack:"y"`
	Width  float64          `json:"width" msgpack:"width"`
	Height float64          `json:"height" msgpack:"height"`
	Layer  int              `json:"layer" msgpack:"layer"`
}

// Center returns the center of the node box.
func (n *PlacedNode) Center() layered.Point {
	return layered.Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2}
}

// IsLabel reports whether n is a marriage label node.
func (n *PlacedNode) IsLabel() bool { return n.Kind == builder.KindLabel }

// Route tells the renderer which two nodes a link connects and through
// which points. Points run from the From node to the To node and include any
// bends the layout reserved for links spanning several generations.
type Route struct {
	Kind   builder.LinkKind `json:"kind" msgpack:"kind"`
	From   int              `json:"from" msgpack:"from"`
	To     int              `json:"to" msgpack:"to"`
	Label  int              `json:"label,omitempty" msgpack:"label,omitempty"`
	Points []layered.Point  `json:"points" msgpack:"points"`
}

// Result is a positioned genogram.
type Result struct {
	Name        string              `json:"name,omitempty" msgpack:"name,omitempty"`
	Direction   float64             `json:"direction" msgpack:"direction"`
	Width       float64             `json:"width" msgpack:"width"`
	Height      float64             `json:"height" msgpack:"height"`
	Layers      int                 `json:"layers" msgpack:"layers"`
	Crossings   int                 `json:"crossings" msgpack:"crossings"`
	Nodes       []PlacedNode        `json:"nodes" msgpack:"nodes"`
	Routes      []Route             `json:"routes" msgpack:"routes"`
	Diagnostics []family.Diagnostic `json:"diagnostics,omitempty" msgpack:"diagnostics,omitempty"`
}

// Node returns the placed node with the given key.
func (r *Result) Node(key int) (*PlacedNode, bool) {
	for i := range r.Nodes {
		if r.Nodes[i].Key == key {
			return &r.Nodes[i], true
		}
	}
	return nil, false
}

// People returns the placed person nodes.
func (r *Result) People() []PlacedNode {
	out := make([]PlacedNode, 0, len(r.Nodes))
	for _, n := range r.Nodes {
		if !n.IsLabel() {
			out = append(out, n)
		}
	}
	return out
}
