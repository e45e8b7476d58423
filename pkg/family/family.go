package family

import (
	"slices"
	"strconv"
)

// Sex is the recorded sex of a person. Values other than [SexMale] and
// [SexFemale] are preserved as-is and treated as "other".
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// IsMale reports whether s is [SexMale].
func (s Sex) IsMale() bool { return s == SexMale }

// IsFemale reports whether s is [SexFemale].
func (s Sex) IsFemale() bool { return s == SexFemale }

// Event records when and where something happened to a person.
type Event struct {
	Date    string `json:"date,omitempty" yaml:"date,omitempty" bson:"date,omitempty"` // MM/DD/YYYY
	Time    string `json:"time,omitempty" yaml:"time,omitempty" bson:"time,omitempty"` // HH:mm
	Place   string `json:"place,omitempty" yaml:"place,omitempty" bson:"place,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty" bson:"address,omitempty"`
}

// Job is an entry in a person's work history.
type Job struct {
	Place     string `json:"place,omitempty" yaml:"place,omitempty" bson:"place,omitempty"`
	StartYear string `json:"start_year,omitempty" yaml:"start_year,omitempty" bson:"start_year,omitempty"`
	EndYear   string `json:"end_year,omitempty" yaml:"end_year,omitempty" bson:"end_year,omitempty"`
}

// Person is a single individual in a family.
//
// Key must be non-zero and unique within the family. Mother and Father are
// optional person keys (zero means unknown); a child whose mother and father
// resolve to a marriage is connected to that marriage by the builder.
//
// Hidden marks a placeholder person that keeps its place in the layout but is
// not meant to be drawn. The positioner collapses a couple with a hidden
// spouse onto a single centered position.
type Person struct {
	Key        int      `json:"key" yaml:"key" bson:"key" validate:"required"`
	Sex        Sex      `json:"sex" yaml:"sex" bson:"sex" validate:"required"`
	Name       string   `json:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	Birth      *Event   `json:"birth,omitempty" yaml:"birth,omitempty" bson:"birth,omitempty"`
	Death      *Event   `json:"death,omitempty" yaml:"death,omitempty" bson:"death,omitempty"`
	Jobs       []Job    `json:"jobs,omitempty" yaml:"jobs,omitempty" bson:"jobs,omitempty"`
	Mother     int      `json:"mother,omitempty" yaml:"mother,omitempty" bson:"mother,omitempty"`
	Father     int      `json:"father,omitempty" yaml:"father,omitempty" bson:"father,omitempty"`
	Origin     string   `json:"origin,omitempty" yaml:"origin,omitempty" bson:"origin,omitempty"`
	Attributes []string `json:"attributes,omitempty" yaml:"attributes,omitempty" bson:"attributes,omitempty"`
	Hidden     bool     `json:"hidden,omitempty" yaml:"hidden,omitempty" bson:"hidden,omitempty"`
}

// HasParents reports whether both the mother and the father are recorded.
func (p Person) HasParents() bool { return p.Mother != 0 && p.Father != 0 }

// DisplayName returns the name, or a placeholder derived from the key.
func (p Person) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return "#" + strconv.Itoa(p.Key)
}

// Marriage is the union of two people together with their children.
// The pair is unordered: {One: 1, Two: 2} and {One: 2, Two: 1} describe the
// same couple.
type Marriage struct {
	One      int   `json:"one" yaml:"one" bson:"one"`
	Two      int   `json:"two" yaml:"two" bson:"two"`
	Children []int `json:"children,omitempty" yaml:"children,omitempty" bson:"children,omitempty"`
}

// Pair returns the spouse keys in ascending order, suitable as a map key for
// deduplicating symmetric declarations.
func (m Marriage) Pair() [2]int { return PairOf(m.One, m.Two) }

// PairOf returns a and b in ascending order.
func PairOf(a, b int) [2]int {
	if a > b {
		return [2]int{b, a}
	}
	return [2]int{a, b}
}

// Family is the canonical input to the genogram builder: people plus an
// explicit marriage list. Legacy per-person partner fields are converted into
// Marriages at import time (see [ReadLegacyJSON]).
type Family struct {
	Name      string     `json:"name,omitempty" yaml:"name,omitempty" bson:"name,omitempty"`
	People    []Person   `json:"people" yaml:"people" bson:"people"`
	Marriages []Marriage `json:"marriages,omitempty" yaml:"marriages,omitempty" bson:"marriages,omitempty"`
}

// Person returns the person with the given key.
// This is a linear scan; the builder indexes people once per build.
func (f *Family) Person(key int) (*Person, bool) {
	for i := range f.People {
		if f.People[i].Key == key {
			return &f.People[i], true
		}
	}
	return nil, false
}

// Clone returns a deep copy of the family.
func (f *Family) Clone() *Family {
	out := &Family{
		Name:      f.Name,
		People:    make([]Person, len(f.People)),
		Marriages: make([]Marriage, len(f.Marriages)),
	}
	for i, p := range f.People {
		if p.Birth != nil {
			b := *p.Birth
			p.Birth = &b
		}
		if p.Death != nil {
			d := *p.Death
			p.Death = &d
		}
		p.Jobs = slices.Clone(p.Jobs)
		p.Attributes = slices.Clone(p.Attributes)
		out.People[i] = p
	}
	for i, m := range f.Marriages {
		m.Children = slices.Clone(m.Children)
		out.Marriages[i] = m
	}
	return out
}
