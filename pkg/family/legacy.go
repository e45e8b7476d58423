package family

import (
	"fmt"
	"slices"

	"github.com/tidwall/gjson"
)

// Field aliases accepted by the legacy importer, in lookup order.
var (
	sexFields     = []string{"sex", "s", "gender"}
	nameFields    = []string{"name", "n"}
	motherFields  = []string{"mother", "m", "mom"}
	fatherFields  = []string{"father", "f", "dad"}
	partnerFields = []string{"partner", "wife", "husband", "ux", "vir"}
	attrFields    = []string{"attributes", "a"}
)

// legacyOnly lists person fields that never appear in the canonical shape.
var legacyOnly = []string{"s", "gender", "n", "m", "mom", "f", "dad", "partner", "wife", "husband", "ux", "vir", "a"}

// IsLegacyJSON reports whether data looks like a legacy family document: a
// bare array of people, or a people list that uses any short or per-person
// partner field.
func IsLegacyJSON(data []byte) bool {
	root := gjson.ParseBytes(data)
	if root.IsArray() {
		return true
	}
	legacy := false
	root.Get("people").ForEach(func(_, p gjson.Result) bool {
		for _, f := range legacyOnly {
			if p.Get(f).Exists() {
				legacy = true
				return false
			}
		}
		return true
	})
	return legacy
}

// ReadLegacyJSON imports a family from one of the loosely typed JSON shapes
// found in older genogram data: a bare array of people or an object with
// "name" and "people". Person fields may use short names (n, s, m, f, a),
// alternative names (gender, mom, dad) and per-person partner declarations
// (partner as a number or array, wife, husband, ux, vir).
//
// Partner declarations are converted into [Marriage] entries, merging
// symmetric declarations. Children are not attached to marriages here; the
// builder resolves them from each child's Mother and Father. An explicit
// "marriages" array is kept as-is, after the derived ones.
func ReadLegacyJSON(data []byte) (*Family, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)

	people := root
	f := &Family{}
	if !root.IsArray() {
		f.Name = root.Get("name").String()
		people = root.Get("people")
		if !people.IsArray() {
			return nil, fmt.Errorf("missing people array")
		}
	}

	pairs := make(map[[2]int]bool)
	people.ForEach(func(_, p gjson.Result) bool {
		person := legacyPerson(p)
		f.People = append(f.People, person)
		for _, partner := range legacyPartners(p) {
			pair := PairOf(person.Key, partner)
			if pairs[pair] {
				continue
			}
			pairs[pair] = true
			f.Marriages = append(f.Marriages, Marriage{One: person.Key, Two: partner})
		}
		return true
	})

	root.Get("marriages").ForEach(func(_, m gjson.Result) bool {
		mar := Marriage{
			One: int(m.Get("one").Int()),
			Two: int(m.Get("two").Int()),
		}
		m.Get("children").ForEach(func(_, c gjson.Result) bool {
			mar.Children = append(mar.Children, int(c.Int()))
			return true
		})
		f.Marriages = append(f.Marriages, mar)
		return true
	})
	return f, nil
}

func legacyPerson(p gjson.Result) Person {
	person := Person{
		Key:    int(p.Get("key").Int()),
		Sex:    Sex(first(p, sexFields).String()),
		Name:   first(p, nameFields).String(),
		Mother: int(first(p, motherFields).Int()),
		Father: int(first(p, fatherFields).Int()),
		Origin: p.Get("origin").String(),
		Hidden: p.Get("hidden").Bool(),
		Birth:  legacyEvent(p.Get("birth")),
		Death:  legacyEvent(p.Get("death")),
	}
	first(p, attrFields).ForEach(func(_, a gjson.Result) bool {
		person.Attributes = append(person.Attributes, a.String())
		return true
	})
	p.Get("jobs").ForEach(func(_, j gjson.Result) bool {
		person.Jobs = append(person.Jobs, Job{
			Place:     j.Get("place").String(),
			StartYear: firstString(j, "start_year", "startYear"),
			EndYear:   firstString(j, "end_year", "endYear"),
		})
		return true
	})
	return person
}

func legacyEvent(e gjson.Result) *Event {
	if !e.IsObject() {
		return nil
	}
	return &Event{
		Date:    e.Get("date").String(),
		Time:    e.Get("time").String(),
		Place:   e.Get("place").String(),
		Address: e.Get("address").String(),
	}
}

// legacyPartners collects every partner key declared on p, in field order,
// without duplicates. Zero keys are dropped.
func legacyPartners(p gjson.Result) []int {
	var out []int
	add := func(v gjson.Result) {
		k := int(v.Int())
		if k != 0 && !slices.Contains(out, k) {
			out = append(out, k)
		}
	}
	for _, field := range partnerFields {
		v := p.Get(field)
		if v.IsArray() {
			v.ForEach(func(_, k gjson.Result) bool {
				add(k)
				return true
			})
		} else if v.Exists() {
			add(v)
		}
	}
	return out
}

func first(p gjson.Result, fields []string) gjson.Result {
	for _, f := range fields {
		if v := p.Get(f); v.Exists() {
			return v
		}
	}
	return gjson.Result{}
}

func firstString(p gjson.Result, fields ...string) string {
	return first(p, fields).String()
}
