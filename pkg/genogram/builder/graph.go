package builder

import (
	"github.com/matzehuels/genogram/pkg/family"
)

// NodeKind distinguishes people from marriage label nodes.
type NodeKind string

const (
	KindPerson NodeKind = "person"
	KindLabel  NodeKind = "label"
)

// LinkKind distinguishes the two relationships a genogram draws.
type LinkKind string

const (
	// LinkMarriage connects two spouses. Its Label is the key of the
	// marriage label node riding on the link.
	LinkMarriage LinkKind = "marriage"
	// LinkParent connects a marriage label node to a child.
	LinkParent LinkKind = "parent"
)

// Node is a person or a marriage label node.
type Node struct {
	Key    int            `json:"key" msgpack:"key"`
	Kind   NodeKind       `json:"kind" msgpack:"kind"`
	Person *family.Person `json:"person,omitempty" msgpack:"person,omitempty"`
}

// IsLabel reports whether n is a marriage label node.
func (n *Node) IsLabel() bool { return n.Kind == KindLabel }

// Link is a marriage or parent-child relationship.
type Link struct {
	Kind  LinkKind `json:"kind" msgpack:"kind"`
	From  int      `json:"from" msgpack:"from"`
	To    int      `json:"to" msgpack:"to"`
	Label int      `json:"label,omitempty" msgpack:"label,omitempty"`
}

// Marriage is a realized couple: the label node key, both spouses in
// declaration order and the children attached to it.
type Marriage struct {
	Label    int   `json:"label" msgpack:"label"`
	One      int   `json:"one" msgpack:"one"`
	Two      int   `json:"two" msgpack:"two"`
	Children []int `json:"children,omitempty" msgpack:"children,omitempty"`
}

// Spouse returns the partner of key in m, or 0 if key is not a spouse.
func (m *Marriage) Spouse(key int) int {
	switch key {
	case m.One:
		return m.Two
	case m.Two:
		return m.One
	}
	return 0
}

// Graph is the node/link form of a family.
//
// Nodes lists people in input order followed by one label node per
// marriage. Links lists marriage links followed by parent-child links.
// Marriages is the side table from label keys to spouses and children; the
// layout uses it instead of inspecting link shapes.
type Graph struct {
	Name        string              `json:"name,omitempty"`
	Nodes       []Node              `json:"nodes"`
	Links       []Link              `json:"links"`
	Marriages   []Marriage          `json:"marriages"`
	Diagnostics []family.Diagnostic `json:"diagnostics,omitempty"`

	nodes     map[int]int    // key -> index into Nodes
	labels    map[int]int    // label key -> index into Marriages
	pairs     map[[2]int]int // spouse pair -> index into Marriages
	spouses   map[int][]int  // person key -> indexes into Marriages
	parents   map[int]int    // child key -> index into Marriages (first parent link)
	degree    map[int]int    // key -> number of connected links
	childLink map[[2]int]bool
}

func newGraph(name string) *Graph {
	return &Graph{
		Name:      name,
		Nodes:     []Node{},
		Links:     []Link{},
		Marriages: []Marriage{},
		nodes:     make(map[int]int),
		labels:    make(map[int]int),
		pairs:     make(map[[2]int]int),
		spouses:   make(map[int][]int),
		parents:   make(map[int]int),
		degree:    make(map[int]int),
		childLink: make(map[[2]int]bool),
	}
}

// Node returns the node with the given key.
func (g *Graph) Node(key int) (*Node, bool) {
	i, ok := g.nodes[key]
	if !ok {
		return nil, false
	}
	return &g.Nodes[i], true
}

// Person returns the person with the given key, or nil.
func (g *Graph) Person(key int) *family.Person {
	if n, ok := g.Node(key); ok {
		return n.Person
	}
	return nil
}

// People returns the person nodes in input order.
func (g *Graph) People() []*Node {
	out := make([]*Node, 0, len(g.Nodes)-len(g.Marriages))
	for i := range g.Nodes {
		if !g.Nodes[i].IsLabel() {
			out = append(out, &g.Nodes[i])
		}
	}
	return out
}

// Marriage returns the marriage whose label node has the given key.
func (g *Graph) Marriage(label int) (*Marriage, bool) {
	i, ok := g.labels[label]
	if !ok {
		return nil, false
	}
	return &g.Marriages[i], true
}

// MarriageOf returns the marriage between a and b in either order.
func (g *Graph) MarriageOf(a, b int) (*Marriage, bool) {
	i, ok := g.pairs[family.PairOf(a, b)]
	if !ok {
		return nil, false
	}
	return &g.Marriages[i], true
}

// MarriagesOf returns every marriage of a person in label order.
func (g *Graph) MarriagesOf(key int) []*Marriage {
	idx := g.spouses[key]
	out := make([]*Marriage, len(idx))
	for i, j := range idx {
		out[i] = &g.Marriages[j]
	}
	return out
}

// ParentMarriage returns the marriage a person descends from: the source of
// the first parent-child link into key.
func (g *Graph) ParentMarriage(key int) (*Marriage, bool) {
	i, ok := g.parents[key]
	if !ok {
		return nil, false
	}
	return &g.Marriages[i], true
}

// Degree returns the number of links connected to a node. For a person
// this counts marriage links and the parent-child link into them; for a
// label node it counts the parent-child links leaving it.
func (g *Graph) Degree(key int) int { return g.degree[key] }

// ChildCount returns the number of parent-child links leaving a label node.
func (g *Graph) ChildCount(label int) int {
	if m, ok := g.Marriage(label); ok {
		return len(m.Children)
	}
	return 0
}

// LabelCount returns the number of marriage label nodes.
func (g *Graph) LabelCount() int { return len(g.Marriages) }
