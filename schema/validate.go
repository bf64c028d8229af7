package schema

import (
	"errors"
	"slices"
	"strings"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/coerce"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"

	"go.uber.org/multierr"
)

// Violations is the result of a validation pass, sorted by path.
type Violations []cfgerr.Error

// Err combines the violations into a single error, or returns nil if there are none.
func (v Violations) Err() error {
	var err error

	for _, violation := range v {
		err = multierr.Append(err, violation)
	}

	return err
}

// Paths returns the path of every violation.
func (v Violations) Paths() []string {
	out := make([]string, len(v))
	for i, violation := range v {
		out[i] = violation.ConfigPath()
	}

	return out
}

// Filter returns the violations matching target with errors.Is.
func (v Violations) Filter(target error) Violations {
	var out Violations

	for _, violation := range v {
		if errors.Is(violation, target) {
			out = append(out, violation)
		}
	}

	return out
}

// Validate checks root against every entry of s and returns all violations. It never fails.
func Validate(root *value.Table, s *Schema) Violations {
	if s == nil {
		return nil
	}

	var out Violations

	for _, entry := range s.entries {
		path := entry.Path.String()

		v, ok := value.Lookup(root, entry.Path)
		if !ok {
			if entry.Required && !entry.HasDefault() {
				out = append(out, &cfgerr.MissingKeyError{Path: path})
			}

			continue
		}

		_, err := coerce.To(path, v, entry.Kind, entry.Mode())

		var mismatch *cfgerr.TypeMismatchError
		if errors.As(err, &mismatch) {
			out = append(out, mismatch)
		}
	}

	if s.strictKeys {
		out = append(out, s.unknown(root, nil)...)
	}

	slices.SortStableFunc(out, func(a, b cfgerr.Error) int {
		return strings.Compare(a.ConfigPath(), b.ConfigPath())
	})

	return out
}

// unknown reports the top-most undeclared paths below base.
func (s *Schema) unknown(t *value.Table, base keypath.Path) Violations {
	var out Violations

	for k, v := range t.All() {
		p := base.Append(k)
		key := p.String()

		if _, declared := s.index[key]; declared {
			continue
		}

		if s.declaresBelow(key) {
			if sub, isTable := v.(*value.Table); isTable {
				out = append(out, s.unknown(sub, p)...)
			}

			continue
		}

		out = append(out, &cfgerr.UnknownKeyError{Path: key})
	}

	return out
}
