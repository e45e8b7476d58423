package builder

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/genogram/internal/familytest"
	errs "github.com/matzehuels/genogram/pkg/errors"
	"github.com/matzehuels/genogram/pkg/family"
)

func person(key int, sex family.Sex) family.Person {
	return family.Person{Key: key, Sex: sex}
}

func codes(g *Graph) []family.DiagnosticCode {
	out := make([]family.DiagnosticCode, len(g.Diagnostics))
	for i, d := range g.Diagnostics {
		out[i] = d.Code
	}
	return out
}

func TestBuild_Couple(t *testing.T) {
	c := person(3, family.SexMale)
	c.Mother, c.Father = 2, 1
	fam := &family.Family{
		People:    []family.Person{person(1, family.SexMale), person(2, family.SexFemale), c},
		Marriages: []family.Marriage{{One: 1, Two: 2}},
	}

	g, err := Build(fam, Options{})
	require.NoError(t, err)

	require.Equal(t, 1, g.LabelCount())
	m := g.Marriages[0]
	assert.Equal(t, -1, m.Label)
	assert.Equal(t, []int{3}, m.Children)

	assert.Equal(t, []Link{
		{Kind: LinkMarriage, From: 1, To: 2, Label: -1},
		{Kind: LinkParent, From: -1, To: 3},
	}, g.Links)
	assert.Len(t, g.Nodes, 4)
	assert.Empty(t, g.Diagnostics)

	label, ok := g.Node(-1)
	require.True(t, ok)
	assert.True(t, label.IsLabel())

	pm, ok := g.ParentMarriage(3)
	require.True(t, ok)
	assert.Equal(t, -1, pm.Label)
	assert.Equal(t, 1, g.Degree(3))
	assert.Equal(t, 1, g.Degree(-1))
	assert.Equal(t, 1, g.ChildCount(-1))
	assert.Equal(t, 2, pm.Spouse(1))
	assert.Equal(t, 0, pm.Spouse(3))
}

func TestBuild_SelfMarriage(t *testing.T) {
	fam := &family.Family{
		People:    []family.Person{person(5, family.SexMale)},
		Marriages: []family.Marriage{{One: 5, Two: 5}},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, g.LabelCount())
	assert.Equal(t, []family.DiagnosticCode{family.DiagSelfMarriage}, codes(g))
	assert.Contains(t, g.Diagnostics[0].Message, "self")
}

func TestBuild_UnknownPartner(t *testing.T) {
	fam := &family.Family{
		People:    []family.Person{person(1, family.SexMale)},
		Marriages: []family.Marriage{{One: 1, Two: 9}},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, g.LabelCount())
	assert.Equal(t, []family.DiagnosticCode{family.DiagUnknownPartner}, codes(g))
	assert.Contains(t, g.Diagnostics[0].Message, "9")
}

func TestBuild_DeduplicatesSymmetricPairs(t *testing.T) {
	fam := &family.Family{
		People: []family.Person{person(1, family.SexMale), person(2, family.SexFemale),
			person(3, family.SexMale), person(4, family.SexFemale)},
		Marriages: []family.Marriage{
			{One: 1, Two: 2, Children: []int{3}},
			{One: 2, Two: 1, Children: []int{4, 3}},
		},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	require.Equal(t, 1, g.LabelCount())
	assert.Equal(t, []int{3, 4}, g.Marriages[0].Children)

	parents := 0
	for _, l := range g.Links {
		if l.Kind == LinkParent {
			parents++
		}
	}
	assert.Equal(t, 2, parents)
}

func TestBuild_LabelKeysSkipPeople(t *testing.T) {
	fam := &family.Family{
		People: []family.Person{person(-1, family.SexMale), person(-2, family.SexFemale),
			person(-4, family.SexMale), person(7, family.SexFemale)},
		Marriages: []family.Marriage{{One: -1, Two: -2}, {One: -4, Two: 7}},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	require.Equal(t, 2, g.LabelCount())
	assert.Equal(t, -3, g.Marriages[0].Label)
	assert.Equal(t, -5, g.Marriages[1].Label)
}

func TestBuild_UnknownMarriage(t *testing.T) {
	c := person(3, family.SexFemale)
	c.Mother, c.Father = 10, 11
	fam := &family.Family{
		People: []family.Person{person(10, family.SexFemale), person(11, family.SexMale), c},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)

	_, ok := g.Node(3)
	assert.True(t, ok, "child node must be present")
	assert.Empty(t, g.Links)
	require.Len(t, g.Diagnostics, 1)
	assert.Equal(t, family.DiagUnknownMarriage, g.Diagnostics[0].Code)
	assert.Equal(t, "unknown marriage: 10 & 11", g.Diagnostics[0].Message)
}

func TestBuild_HalfParentage(t *testing.T) {
	c := person(3, family.SexFemale)
	c.Mother = 2
	fam := &family.Family{People: []family.Person{person(2, family.SexFemale), c}}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Equal(t, []family.DiagnosticCode{family.DiagUnresolvedParent}, codes(g))
}

func TestBuild_SpouseListedAsChild(t *testing.T) {
	fam := &family.Family{
		People:    []family.Person{person(1, family.SexMale), person(2, family.SexFemale)},
		Marriages: []family.Marriage{{One: 1, Two: 2, Children: []int{1}}},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Equal(t, []family.DiagnosticCode{family.DiagSelfParent}, codes(g))
	require.Len(t, g.Links, 1)
	assert.Equal(t, LinkMarriage, g.Links[0].Kind)
	assert.Empty(t, g.Marriages[0].Children)
	_, has := g.ParentMarriage(1)
	assert.False(t, has)
}

func TestBuild_OwnParent(t *testing.T) {
	a := person(1, family.SexMale)
	a.Mother, a.Father = 2, 1
	fam := &family.Family{
		People:    []family.Person{a, person(2, family.SexFemale)},
		Marriages: []family.Marriage{{One: 1, Two: 2}},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Equal(t, []family.DiagnosticCode{family.DiagSelfParent}, codes(g))
	for _, l := range g.Links {
		assert.NotEqual(t, LinkParent, l.Kind)
	}
}

func TestBuild_JobWithoutPlace(t *testing.T) {
	p := person(1, family.SexMale)
	p.Jobs = []family.Job{{StartYear: "1990"}}
	g, err := Build(&family.Family{People: []family.Person{p}}, Options{})
	require.NoError(t, err)
	assert.Len(t, g.People(), 1)
	assert.Empty(t, g.Diagnostics)
}

func TestBuild_ZeroKey(t *testing.T) {
	fam := &family.Family{People: []family.Person{person(0, family.SexMale)}}
	_, err := Build(fam, Options{})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidPerson))
	assert.Contains(t, errs.UserMessage(err), "key must be non-zero")
}

func TestBuild_UnknownChild(t *testing.T) {
	fam := &family.Family{
		People:    []family.Person{person(1, family.SexMale), person(2, family.SexFemale)},
		Marriages: []family.Marriage{{One: 1, Two: 2, Children: []int{42}}},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Equal(t, []family.DiagnosticCode{family.DiagUnknownChild}, codes(g))
	assert.Empty(t, g.Marriages[0].Children)
}

func TestBuild_ParentConflict(t *testing.T) {
	c := person(5, family.SexMale)
	c.Mother, c.Father = 4, 3
	fam := &family.Family{
		People: []family.Person{person(1, family.SexMale), person(2, family.SexFemale),
			person(3, family.SexMale), person(4, family.SexFemale), c},
		Marriages: []family.Marriage{
			{One: 1, Two: 2, Children: []int{5}},
			{One: 3, Two: 4},
		},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Equal(t, []family.DiagnosticCode{family.DiagParentConflict}, codes(g))
	pm, ok := g.ParentMarriage(5)
	require.True(t, ok)
	assert.Equal(t, [2]int{1, 2}, family.PairOf(pm.One, pm.Two))
}

func TestBuild_ChildFromBothSources(t *testing.T) {
	c := person(3, family.SexMale)
	c.Mother, c.Father = 2, 1
	fam := &family.Family{
		People:    []family.Person{person(1, family.SexMale), person(2, family.SexFemale), c},
		Marriages: []family.Marriage{{One: 2, Two: 1, Children: []int{3}}},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Len(t, g.Links, 2)
	assert.Empty(t, g.Diagnostics)
}

func TestBuild_MultipleMarriages(t *testing.T) {
	fam := &family.Family{
		People: []family.Person{person(1, family.SexMale), person(2, family.SexFemale), person(4, family.SexFemale)},
		Marriages: []family.Marriage{{One: 1, Two: 2}, {One: 1, Two: 4}},
	}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	ms := g.MarriagesOf(1)
	require.Len(t, ms, 2)
	assert.Equal(t, -1, ms[0].Label)
	assert.Equal(t, -2, ms[1].Label)
	assert.Len(t, g.MarriagesOf(2), 1)
	assert.Equal(t, 2, g.Degree(1))

	m, ok := g.MarriageOf(4, 1)
	require.True(t, ok)
	assert.Equal(t, -2, m.Label)
}

func TestBuild_InvalidPerson(t *testing.T) {
	fam := &family.Family{
		People: []family.Person{{Key: 1}, {Sex: family.SexFemale}, person(3, family.SexMale)},
	}
	g, err := Build(fam, Options{})
	require.Error(t, err)
	assert.Nil(t, g)
	assert.True(t, errs.Is(err, errs.ErrCodeInvalidPerson))
}

func TestBuild_Isolated(t *testing.T) {
	fam := &family.Family{People: []family.Person{person(1, family.SexMale), person(2, "X")}}
	g, err := Build(fam, Options{})
	require.NoError(t, err)
	assert.Len(t, g.People(), 2)
	assert.Empty(t, g.Links)
	assert.Empty(t, g.Diagnostics)
}

func TestBuild_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	properties := gopter.NewProperties(parameters)

	properties.Property("one label per distinct valid pair", prop.ForAll(
		func(seed int64, size int) bool {
			fam := familytest.Random(seed, size)
			g, err := Build(fam, Options{})
			if err != nil {
				return false
			}
			known := make(map[int]bool)
			for _, p := range fam.People {
				known[p.Key] = true
			}
			pairs := make(map[[2]int]bool)
			for _, m := range fam.Marriages {
				if m.One != m.Two && known[m.One] && known[m.Two] {
					pairs[m.Pair()] = true
				}
			}
			return g.LabelCount() == len(pairs)
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.Property("label keys are unique and never person keys", prop.ForAll(
		func(seed int64, size int) bool {
			g, err := Build(familytest.Random(seed, size), Options{})
			if err != nil {
				return false
			}
			seen := make(map[int]bool)
			for _, n := range g.Nodes {
				if seen[n.Key] {
					return false
				}
				seen[n.Key] = true
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.Property("parent links start at the child's parents' label", prop.ForAll(
		func(seed int64, size int) bool {
			fam := familytest.Random(seed, size)
			g, err := Build(fam, Options{})
			if err != nil {
				return false
			}
			for _, l := range g.Links {
				if l.Kind != LinkParent {
					continue
				}
				m, ok := g.Marriage(l.From)
				if !ok {
					return false
				}
				child := g.Person(l.To)
				if child == nil {
					return false
				}
				listed := false
				for _, fm := range fam.Marriages {
					if fm.Pair() == family.PairOf(m.One, m.Two) {
						for _, c := range fm.Children {
							listed = listed || c == l.To
						}
					}
				}
				if !listed && family.PairOf(child.Mother, child.Father) != family.PairOf(m.One, m.Two) {
					return false
				}
			}
			return true
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.Property("build is deterministic", prop.ForAll(
		func(seed int64, size int) bool {
			fam := familytest.Random(seed, size)
			a, errA := Build(fam, Options{})
			b, errB := Build(fam.Clone(), Options{})
			if errA != nil || errB != nil {
				return false
			}
			return assert.ObjectsAreEqual(a.Links, b.Links) &&
				assert.ObjectsAreEqual(a.Marriages, b.Marriages) &&
				assert.ObjectsAreEqual(a.Diagnostics, b.Diagnostics)
		},
		gen.Int64(),
		gen.IntRange(0, 40),
	))

	properties.TestingRun(t)
}
