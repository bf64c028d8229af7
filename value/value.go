package value

import (
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/0xalexb/strictcfg/keypath"
)

// ErrUnsupported is returned by Of for Go values that have no Value representation.
var ErrUnsupported = errors.New("unsupported value type")

// Value is a node of the configuration tree.
type Value interface {
	Kind() Kind

	sealed()
}

// Bool is a boolean scalar.
type Bool bool

// Int is a signed 64-bit integer scalar.
type Int int64

// Float is a double precision scalar.
type Float float64

// String is a UTF-8 string scalar.
type String string

// Array is an ordered sequence of values. Elements may be of different kinds.
type Array []Value

func (Bool) Kind() Kind   { return KindBool }
func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Array) Kind() Kind  { return KindArray }
func (*Table) Kind() Kind { return KindTable }

func (Bool) sealed()   {}
func (Int) sealed()    {}
func (Float) sealed()  {}
func (String) sealed() {}
func (Array) sealed()  {}
func (*Table) sealed() {}

// ArrayOf builds an Array from its elements.
func ArrayOf(elems ...Value) Array {
	if elems == nil {
		return Array{}
	}

	return Array(elems)
}

// KindOf returns the kind of v, or KindInvalid for a nil Value.
func KindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}

	return v.Kind()
}

// Equal reports whether a and b are structurally equal: the same kind at every node, arrays
// pairwise equal in order, tables holding the same keys mapped to equal values regardless of
// key order. NaN is equal to NaN so that trees survive a serialize/parse round-trip.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)

		return ok && x == y
	case Int:
		y, ok := b.(Int)

		return ok && x == y
	case Float:
		y, ok := b.(Float)

		return ok && (x == y || math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	case String:
		y, ok := b.(String)

		return ok && x == y
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}

		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}

		return true
	case *Table:
		y, ok := b.(*Table)

		return ok && x.equal(y)
	default:
		return false
	}
}

// Clone returns a deep copy of v.
func Clone(v Value) Value {
	switch x := v.(type) {
	case Array:
		out := make(Array, len(x))
		for i, elem := range x {
			out[i] = Clone(elem)
		}

		return out
	case *Table:
		return x.Clone()
	default:
		return v
	}
}

// Lookup resolves p against root. The empty path resolves to root itself.
func Lookup(root *Table, p keypath.Path) (Value, bool) {
	if root == nil {
		return nil, false
	}

	var current Value = root

	for _, seg := range p {
		table, ok := current.(*Table)
		if !ok {
			return nil, false
		}

		current, ok = table.Get(seg)
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Of converts a native Go value into a Value. Supported inputs are Value itself, bool, all
// integer kinds that fit into int64, float32/float64, string, []any, []Value and
// map[string]any. Map keys are inserted in sorted order because Go maps carry no order.
func Of(native any) (Value, error) {
	switch x := native.(type) {
	case Value:
		return Clone(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case int8:
		return Int(x), nil
	case int16:
		return Int(x), nil
	case int32:
		return Int(x), nil
	case int64:
		return Int(x), nil
	case uint:
		return fromUint(uint64(x))
	case uint8:
		return Int(x), nil
	case uint16:
		return Int(x), nil
	case uint32:
		return Int(x), nil
	case uint64:
		return fromUint(x)
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []Value:
		return Clone(Array(x)), nil
	case []any:
		out := make(Array, len(x))

		for i, elem := range x {
			v, err := Of(elem)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}

			out[i] = v
		}

		return out, nil
	case map[string]any:
		table := NewTable()

		for _, k := range slices.Sorted(maps.Keys(x)) {
			v, err := Of(x[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}

			table.Put(k, v)
		}

		return table, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupported, native)
	}
}

func fromUint(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupported, u)
	}

	return Int(int64(u)), nil
}

// ToAny converts v into plain Go values: bool, int64, float64, string, []any and
// map[string]any.
func ToAny(v Value) any {
	switch x := v.(type) {
	case Bool:
		return bool(x)
	case Int:
		return int64(x)
	case Float:
		return float64(x)
	case String:
		return string(x)
	case Array:
		out := make([]any, len(x))
		for i, elem := range x {
			out[i] = ToAny(elem)
		}

		return out
	case *Table:
		out := make(map[string]any, x.Len())
		for k, elem := range x.All() {
			out[k] = ToAny(elem)
		}

		return out
	default:
		return nil
	}
}
