package family

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	errs "github.com/matzehuels/genogram/pkg/errors"
)

// validate is a singleton validator instance; validator caches struct
// metadata per instance.
var validate = validator.New()

// ValidatePerson checks that a single person record carries the identity
// fields the builder cannot fabricate: a non-zero key and a sex.
// idx is the position of the record in its input list and is only used in the
// error message.
func ValidatePerson(idx int, p *Person) error {
	if err := validate.Struct(p); err != nil {
		return errs.New(errs.ErrCodeInvalidPerson, "person #%d (key %d): %s", idx, p.Key, describe(err))
	}
	return nil
}

// Validate checks every person record and key uniqueness.
// All malformed records are reported together as an errors.Join of
// *errors.Error values with code INVALID_PERSON; a nil return means the
// family is safe to build. Relationship problems (self-marriage, unknown
// partners) are not validation errors; the builder reports them as
// diagnostics.
func (f *Family) Validate() error {
	var problems []error
	seen := make(map[int]int, len(f.People))
	for i := range f.People {
		p := &f.People[i]
		if err := ValidatePerson(i, p); err != nil {
			problems = append(problems, err)
			continue
		}
		if prev, dup := seen[p.Key]; dup {
			problems = append(problems, errs.New(errs.ErrCodeInvalidPerson,
				"person #%d: duplicate key %d (first used by person #%d)", i, p.Key, prev))
			continue
		}
		seen[p.Key] = i
	}
	return errors.Join(problems...)
}

// describe flattens validator errors into "missing field" phrases. Keys are
// integers, so a missing key and a zero key look the same.
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch {
		case field == "key" && fe.Tag() == "required":
			parts = append(parts, "key must be non-zero (0 means unknown)")
		case fe.Tag() == "required":
			parts = append(parts, "missing "+field)
		default:
			parts = append(parts, field+" failed "+fe.Tag())
		}
	}
	return strings.Join(parts, ", ")
}
