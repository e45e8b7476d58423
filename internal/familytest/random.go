// Package familytest generates families for property tests.
package familytest

import (
	"math/rand/v2"

	"github.com/matzehuels/genogram/pkg/family"
)

// Random returns a pseudo-random family of size people derived from seed.
//
// Keys run from 1 to size. Marriages are mostly between distinct known
// people, with occasional self-marriages, unknown partners and mirrored
// duplicates mixed in. Children always have higher keys than both parents
// and usually reference a married couple, sometimes an unmarried pair.
func Random(seed int64, size int) *family.Family {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	f := &family.Family{Name: "random"}
	sexes := []family.Sex{family.SexMale, family.SexFemale, family.SexMale, family.SexFemale, "X"}
	for k := 1; k <= size; k++ {
		f.People = append(f.People, family.Person{
			Key:    k,
			Sex:    sexes[r.IntN(len(sexes))],
			Hidden: r.IntN(10) == 0,
		})
	}
	if size < 2 {
		return f
	}

	for i := 0; i < size/2; i++ {
		a, b := 1+r.IntN(size), 1+r.IntN(size)
		switch r.IntN(12) {
		case 0:
			b = a
		case 1:
			b = size + 100
		case 2:
			a, b = b, a
		}
		f.Marriages = append(f.Marriages, family.Marriage{One: a, Two: b})
		if r.IntN(6) == 0 {
			f.Marriages = append(f.Marriages, family.Marriage{One: b, Two: a})
		}
	}

	for i := range f.People {
		p := &f.People[i]
		if r.IntN(3) == 0 {
			continue
		}
		var candidates []family.Marriage
		for _, m := range f.Marriages {
			if m.One != m.Two && m.One < p.Key && m.Two < p.Key {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) > 0 && r.IntN(5) > 0 {
			m := candidates[r.IntN(len(candidates))]
			p.Father, p.Mother = m.One, m.Two
			continue
		}
		if p.Key > 2 && r.IntN(4) == 0 {
			p.Father, p.Mother = 1+r.IntN(p.Key-1), 1+r.IntN(p.Key-1)
		}
	}
	return f
}
