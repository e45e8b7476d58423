package builder

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genogram/pkg/family"
)

// Options configures [Build].
type Options struct {
	// Logger receives one warning per diagnostic. Nil discards them.
	Logger *log.Logger
}

// Build converts a family into a [Graph].
//
// Malformed person records (zero key, missing sex, duplicate key) reject the
// whole family with an INVALID_PERSON error; nothing is fabricated for them.
// Relationship problems never fail the build: the offending marriage or
// parent link is dropped and a diagnostic is recorded on the graph.
//
// The steps are:
//  1. one node per person, in input order;
//  2. one marriage per distinct unordered spouse pair, skipping
//     self-marriages and unknown partners; repeated pairs merge their
//     children into the first declaration;
//  3. a label key per marriage, counting down from -1 and skipping any key
//     used by a person;
//  4. parent-child links from each label to its listed children and to
//     every person whose mother and father are married to each other.
func Build(fam *family.Family, opts Options) (*Graph, error) {
	if err := fam.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	b := &builder{fam: fam, g: newGraph(fam.Name), logger: logger}
	b.addPeople()
	b.addMarriages()
	b.addLabels()
	b.addChildren()
	b.addParents()
	return b.g, nil
}

type builder struct {
	fam    *family.Family
	g      *Graph
	logger *log.Logger
}

func (b *builder) diag(code family.DiagnosticCode, keys []int, format string, args ...any) {
	d := family.Diagf(code, keys, format, args...)
	b.g.Diagnostics = append(b.g.Diagnostics, d)
	b.logger.Warn(d.Message, "code", d.Code, "keys", d.Keys)
}

func (b *builder) addPeople() {
	for i := range b.fam.People {
		p := &b.fam.People[i]
		b.g.nodes[p.Key] = len(b.g.Nodes)
		b.g.Nodes = append(b.g.Nodes, Node{Key: p.Key, Kind: KindPerson, Person: p})
	}
}

func (b *builder) known(key int) bool {
	_, ok := b.g.nodes[key]
	return ok
}

func (b *builder) addMarriages() {
	for _, m := range b.fam.Marriages {
		if m.One == m.Two {
			b.diag(family.DiagSelfMarriage, []int{m.One},
				"cannot create marriage with self: %d", m.One)
			continue
		}
		if !b.known(m.One) || !b.known(m.Two) {
			unknown := m.Two
			if !b.known(m.One) {
				unknown = m.One
			}
			b.diag(family.DiagUnknownPartner, []int{m.One, m.Two},
				"cannot create marriage with unknown person: %d", unknown)
			continue
		}

		pair := m.Pair()
		idx, exists := b.g.pairs[pair]
		if !exists {
			idx = len(b.g.Marriages)
			b.g.pairs[pair] = idx
			b.g.Marriages = append(b.g.Marriages, Marriage{One: m.One, Two: m.Two})
			b.g.spouses[m.One] = append(b.g.spouses[m.One], idx)
			b.g.spouses[m.Two] = append(b.g.spouses[m.Two], idx)
		}
		for _, c := range m.Children {
			if !slices.Contains(b.g.Marriages[idx].Children, c) {
				b.g.Marriages[idx].Children = append(b.g.Marriages[idx].Children, c)
			}
		}
	}
}

// addLabels allocates label keys and emits the label nodes and marriage
// links. Children are cleared here and re-added by the link passes so the
// table only lists children that received a link.
func (b *builder) addLabels() {
	next := -1
	for i := range b.g.Marriages {
		for b.known(next) {
			next--
		}
		m := &b.g.Marriages[i]
		m.Label = next
		next--

		b.g.labels[m.Label] = i
		b.g.nodes[m.Label] = len(b.g.Nodes)
		b.g.Nodes = append(b.g.Nodes, Node{Key: m.Label, Kind: KindLabel})
		b.g.Links = append(b.g.Links, Link{Kind: LinkMarriage, From: m.One, To: m.Two, Label: m.Label})
		b.g.degree[m.One]++
		b.g.degree[m.Two]++
	}
}

// addChildren links every marriage to the children it lists.
func (b *builder) addChildren() {
	for i := range b.g.Marriages {
		m := &b.g.Marriages[i]
		listed := m.Children
		m.Children = nil
		for _, c := range listed {
			if !b.known(c) || b.g.Nodes[b.g.nodes[c]].IsLabel() {
				b.diag(family.DiagUnknownChild, []int{m.One, m.Two, c},
					"cannot attach unknown child %d to marriage %d & %d", c, m.One, m.Two)
				continue
			}
			if c == m.One || c == m.Two {
				b.diag(family.DiagSelfParent, []int{c, m.One, m.Two},
					"cannot make %d a child of their own marriage %d & %d", c, m.One, m.Two)
				continue
			}
			if prev, has := b.g.parents[c]; has && prev != i {
				other := b.g.Marriages[prev]
				b.diag(family.DiagParentConflict, []int{c, m.One, m.Two},
					"child %d of %d & %d is already a child of %d & %d", c, m.One, m.Two, other.One, other.Two)
				continue
			}
			b.link(i, c)
		}
	}
}

// addParents resolves each person's mother and father to a marriage.
func (b *builder) addParents() {
	for _, p := range b.fam.People {
		switch {
		case p.Mother == 0 && p.Father == 0:
			continue
		case p.Key == p.Mother || p.Key == p.Father:
			b.diag(family.DiagSelfParent, []int{p.Key, p.Mother, p.Father},
				"cannot make %d their own parent (%d & %d)", p.Key, p.Mother, p.Father)
			continue
		case p.Mother == 0 || p.Father == 0:
			known := p.Mother + p.Father
			b.diag(family.DiagUnresolvedParent, []int{p.Key, known},
				"cannot resolve parents of %d: only one parent (%d) recorded", p.Key, known)
			continue
		}

		idx, ok := b.g.pairs[family.PairOf(p.Mother, p.Father)]
		if !ok {
			b.diag(family.DiagUnknownMarriage, []int{p.Mother, p.Father, p.Key},
				"unknown marriage: %d & %d", p.Mother, p.Father)
			continue
		}
		if prev, has := b.g.parents[p.Key]; has && prev != idx {
			other := b.g.Marriages[prev]
			b.diag(family.DiagParentConflict, []int{p.Key, p.Mother, p.Father},
				"parents of %d (%d & %d) conflict with marriage %d & %d listing them as a child",
				p.Key, p.Mother, p.Father, other.One, other.Two)
			continue
		}
		b.link(idx, p.Key)
	}
}

// link adds a parent-child link from marriage idx to child once.
func (b *builder) link(idx, child int) {
	m := &b.g.Marriages[idx]
	if b.g.childLink[[2]int{m.Label, child}] {
		return
	}
	b.g.childLink[[2]int{m.Label, child}] = true
	m.Children = append(m.Children, child)
	b.g.Links = append(b.g.Links, Link{Kind: LinkParent, From: m.Label, To: child})
	b.g.degree[m.Label]++
	b.g.degree[child]++
	if _, has := b.g.parents[child]; !has {
		b.g.parents[child] = idx
	}
}
