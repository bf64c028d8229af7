package coerce

import (
	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/value"
)

// Mode selects which conversions are allowed.
type Mode uint8

const (
	// Widening accepts exact matches and Int to Float widening.
	Widening Mode = iota
	// Strict accepts exact matches only.
	Strict
)

func (m Mode) String() string {
	if m == Strict {
		return "strict"
	}

	return "widening"
}

// Type is the set of Go types a value can be read as.
type Type interface {
	bool | int64 | float64 | string | value.Array | *value.Table
}

// To converts v to the expected kind. The path is only used to annotate errors.
func To(path string, v value.Value, want value.Kind, mode Mode) (value.Value, error) {
	got := value.KindOf(v)
	if got == want && got != value.KindInvalid {
		return v, nil
	}

	if mode == Widening && want == value.KindFloat {
		if i, ok := v.(value.Int); ok {
			return value.Float(float64(i)), nil
		}
	}

	return nil, &cfgerr.TypeMismatchError{Path: path, Expected: want, Actual: got}
}

// Accepts reports whether a value of kind got can be read as kind want.
func Accepts(want, got value.Kind, mode Mode) bool {
	if want == got {
		return want != value.KindInvalid
	}

	return mode == Widening && want == value.KindFloat && got == value.KindInt
}

// KindFor returns the kind that T is read from.
func KindFor[T Type]() value.Kind {
	var zero T

	switch any(zero).(type) {
	case bool:
		return value.KindBool
	case int64:
		return value.KindInt
	case float64:
		return value.KindFloat
	case string:
		return value.KindString
	case value.Array:
		return value.KindArray
	case *value.Table:
		return value.KindTable
	default:
		return value.KindInvalid
	}
}

// As converts v to T. Containers are returned as stored; callers that hand them out to
// untrusted code should clone them.
func As[T Type](path string, v value.Value, mode Mode) (T, error) {
	var zero T

	converted, err := To(path, v, KindFor[T](), mode)
	if err != nil {
		return zero, err
	}

	var out any

	switch x := converted.(type) {
	case value.Bool:
		out = bool(x)
	case value.Int:
		out = int64(x)
	case value.Float:
		out = float64(x)
	case value.String:
		out = string(x)
	case value.Array:
		out = x
	case *value.Table:
		out = x
	}

	result, _ := out.(T)

	return result, nil
}

// From wraps a native T into a Value.
func From[T Type](v T) value.Value {
	switch x := any(v).(type) {
	case bool:
		return value.Bool(x)
	case int64:
		return value.Int(x)
	case float64:
		return value.Float(x)
	case string:
		return value.String(x)
	case value.Array:
		return x
	case *value.Table:
		return x
	default:
		return nil
	}
}
