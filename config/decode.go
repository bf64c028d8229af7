package config

import (
	"fmt"
	"reflect"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/coerce"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"

	"github.com/go-viper/mapstructure/v2"
)

// TagName is the struct tag Decode reads field names from.
const TagName = "cfg"

// Decode copies the table at path into target, which must be a pointer to a struct or map. An
// empty path decodes the whole document.
//
// Decoding follows the same rules as Get: integers widen to floats and nothing else converts.
// A number that does not fit the field's sized type is a type mismatch.
// Keys without a matching field are errors. Absent paths with a schema default are decoded with
// that default.
func Decode(r Reader, path string, target any) error {
	var p keypath.Path

	if path != "" {
		parsed, err := keypath.Parse(path)
		if err != nil {
			return err
		}

		p = parsed
	}

	section, err := sectionWithDefaults(r, p)
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       kindHook,
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		TagName:          TagName,
		Result:           target,
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}

	err = decoder.Decode(value.ToAny(section))
	if err != nil {
		return fmt.Errorf("decoding %s: %w", displayPath(p), err)
	}

	return nil
}

// sectionWithDefaults returns a copy of the table at p with the bound schema's defaults filled in
// for absent paths below it.
func sectionWithDefaults(r Reader, p keypath.Path) (*value.Table, error) {
	node, ok := r.node(p)
	if !ok {
		node = value.NewTable()
	}

	section, isTable := node.(*value.Table)
	if !isTable {
		return nil, &cfgerr.TypeMismatchError{Path: p.String(), Expected: value.KindTable, Actual: node.Kind()}
	}

	section = section.Clone()

	for _, entry := range r.Schema().Entries() {
		if !entry.HasDefault() || !p.IsAncestorOf(entry.Path) {
			continue
		}

		rel := entry.Path[len(p):]
		if _, present := value.Lookup(section, rel); present {
			continue
		}

		putDefault(section, rel, entry.Default)
	}

	if !ok && section.Len() == 0 {
		return nil, &cfgerr.MissingKeyError{Path: p.String()}
	}

	return section, nil
}

// putDefault inserts v at rel unless a non-table node is in the way.
func putDefault(t *value.Table, rel keypath.Path, v value.Value) {
	for _, seg := range rel.Parent() {
		child, ok := t.Get(seg)
		if !ok {
			next := value.NewTable()
			t.Put(seg, next)
			t = next

			continue
		}

		sub, isTable := child.(*value.Table)
		if !isTable {
			return
		}

		t = sub
	}

	t.Put(rel.Last(), v)
}

func kindHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	got, want := kindOfType(from), kindOfType(to)
	if got == value.KindInvalid || want == value.KindInvalid {
		return data, nil
	}

	if !coerce.Accepts(want, got, coerce.Widening) {
		return nil, fmt.Errorf("%w: expected %s, found %s", cfgerr.ErrTypeMismatch, want, got)
	}

	if !fits(to, data) {
		return nil, fmt.Errorf("%w: %v does not fit in %s", cfgerr.ErrTypeMismatch, data, to)
	}

	return data, nil
}

// fits reports whether a decoded number is representable in the sized type t.
func fits(t reflect.Type, data any) bool {
	zero := reflect.Zero(t)

	switch n := data.(type) {
	case int64:
		switch t.Kind() { //nolint:exhaustive // only integer targets can overflow
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return !zero.OverflowInt(n)
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return n >= 0 && !zero.OverflowUint(uint64(n))
		}
	case float64:
		if t.Kind() == reflect.Float32 {
			return !zero.OverflowFloat(n)
		}
	}

	return true
}

func kindOfType(t reflect.Type) value.Kind {
	switch t.Kind() {
	case reflect.Bool:
		return value.KindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return value.KindInt
	case reflect.Float32, reflect.Float64:
		return value.KindFloat
	case reflect.String:
		return value.KindString
	case reflect.Slice, reflect.Array:
		return value.KindArray
	case reflect.Map, reflect.Struct:
		return value.KindTable
	default:
		return value.KindInvalid
	}
}

func displayPath(p keypath.Path) string {
	if p.IsRoot() {
		return "<root>"
	}

	return p.String()
}
