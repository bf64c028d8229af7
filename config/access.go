package config

import (
	"fmt"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/coerce"
	"github.com/0xalexb/strictcfg/encode"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/schema"
	"github.com/0xalexb/strictcfg/value"
)

// Get reads the value at path as T.
//
// An absent path resolves to the bound schema's default, if there is one, and otherwise fails with
// a *cfgerr.MissingKeyError. A stored value that cannot be read as T fails with a
// *cfgerr.TypeMismatchError. Arrays and tables are returned as copies.
func Get[T coerce.Type](r Reader, path string) (T, error) {
	var zero T

	v, mode, err := resolve(r, path)
	if err != nil {
		return zero, err
	}

	return coerce.As[T](path, value.Clone(v), mode)
}

// GetOr is like Get but returns fallback on any error.
func GetOr[T coerce.Type](r Reader, path string, fallback T) T {
	v, err := Get[T](r, path)
	if err != nil {
		return fallback
	}

	return v
}

// GetKind reads the value at path as kind. It follows the same rules as Get for callers that only
// know the kind at run time.
func GetKind(r Reader, path string, kind value.Kind) (value.Value, error) {
	v, mode, err := resolve(r, path)
	if err != nil {
		return nil, err
	}

	converted, err := coerce.To(path, v, kind, mode)
	if err != nil {
		return nil, err
	}

	return value.Clone(converted), nil
}

// Set writes v at path. See Mutable.SetValue for the rules.
func Set[T coerce.Type](m *Mutable, path string, v T, opts ...SetOption) error {
	return m.SetValue(path, coerce.From(v), opts...)
}

// Lookup returns a copy of the stored node at path without applying defaults or conversions. An
// invalid path is reported as absent.
func Lookup(r Reader, path string) (value.Value, bool) {
	p, err := keypath.Parse(path)
	if err != nil {
		return nil, false
	}

	v, ok := r.node(p)
	if !ok {
		return nil, false
	}

	return value.Clone(v), true
}

// Validate checks doc against s, or against the document's bound schema if s is nil.
func Validate(doc *Document, s *schema.Schema) schema.Violations {
	if s == nil {
		s = doc.schema
	}

	return schema.Validate(doc.root, s)
}

// Serialize renders doc in the native grammar.
func Serialize(doc *Document) string {
	out, err := encode.Serialize(doc.root)
	if err != nil {
		// Every Document constructor checks its keys, which is all the encoder can reject.
		panic(fmt.Sprintf("config: serializing a document with invalid keys: %v", err))
	}

	return out
}

func resolve(r Reader, path string) (value.Value, coerce.Mode, error) {
	p, err := keypath.Parse(path)
	if err != nil {
		return nil, coerce.Widening, err
	}

	mode := coerce.Widening

	entry, declared := r.Schema().Lookup(path)
	if declared {
		mode = entry.Mode()
	}

	v, ok := r.node(p)
	if ok {
		return v, mode, nil
	}

	if declared && entry.HasDefault() {
		return entry.Default, mode, nil
	}

	return nil, mode, &cfgerr.MissingKeyError{Path: path}
}
