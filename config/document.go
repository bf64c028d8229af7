package config

import (
	"errors"
	"fmt"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/coerce"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/schema"
	"github.com/0xalexb/strictcfg/value"
)

// ErrNilValue is returned when a nil value is written into a document.
var ErrNilValue = errors.New("nil value")

// Reader is implemented by Document and Mutable.
type Reader interface {
	Origin() string
	Schema() *schema.Schema
	node(p keypath.Path) (value.Value, bool)
}

// Document is a read-only configuration tree.
type Document struct {
	root   *value.Table
	origin string
	schema *schema.Schema
}

// NewDocument wraps a copy of root. A nil root yields an empty document. Every key in the tree,
// including keys of tables nested in arrays, must be a valid path segment.
func NewDocument(root *value.Table, origin string) (*Document, error) {
	if root == nil {
		root = value.NewTable()
	}

	err := checkKeys(root, nil)
	if err != nil {
		return nil, err
	}

	return &Document{root: root.Clone(), origin: origin}, nil
}

func checkKeys(v value.Value, path keypath.Path) error {
	switch x := v.(type) {
	case *value.Table:
		for k, child := range x.All() {
			if !keypath.ValidSegment(k) {
				return fmt.Errorf("%w: key %q below %q", keypath.ErrInvalidPath, k, path)
			}

			err := checkKeys(child, path.Append(k))
			if err != nil {
				return err
			}
		}
	case value.Array:
		for _, elem := range x {
			err := checkKeys(elem, path)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Origin returns the source the document was read from.
func (d *Document) Origin() string {
	return d.origin
}

// Schema returns the bound schema, or nil.
func (d *Document) Schema() *schema.Schema {
	return d.schema
}

// Root returns a copy of the tree.
func (d *Document) Root() *value.Table {
	return d.root.Clone()
}

// Len returns the number of top-level keys.
func (d *Document) Len() int {
	return d.root.Len()
}

// WithSchema returns a document sharing this tree with s bound for default resolution.
func (d *Document) WithSchema(s *schema.Schema) *Document {
	return &Document{root: d.root, origin: d.origin, schema: s}
}

// Edit returns a mutable handle over a private copy of the document.
func (d *Document) Edit() *Mutable {
	return &Mutable{root: d.root.Clone(), origin: d.origin, schema: d.schema}
}

func (d *Document) node(p keypath.Path) (value.Value, bool) {
	return value.Lookup(d.root, p)
}

// Mutable is a single-owner, writable document. It is not safe for concurrent use.
type Mutable struct {
	root   *value.Table
	origin string
	schema *schema.Schema
}

// Origin returns the source the document was read from.
func (m *Mutable) Origin() string {
	return m.origin
}

// Schema returns the bound schema, or nil.
func (m *Mutable) Schema() *schema.Schema {
	return m.schema
}

// Document snapshots the current state into a new read-only Document.
func (m *Mutable) Document() *Document {
	return &Document{root: m.root.Clone(), origin: m.origin, schema: m.schema}
}

// SetOption configures Set and SetValue.
type SetOption func(*setOptions)

type setOptions struct {
	retype bool
}

// Retype allows a write to replace a node of a different kind.
func Retype() SetOption {
	return func(o *setOptions) {
		o.retype = true
	}
}

// SetValue writes a copy of v at path, creating intermediate tables as needed.
//
// Overwriting a node of another kind, or writing a kind the bound schema does not accept, fails
// with a *cfgerr.TypeMismatchError unless Retype is given. An integer written over a float, or
// where the schema declares a float, is stored as a float unless the entry is strict. A path
// running through a non-table node always fails with expected kind table.
func (m *Mutable) SetValue(path string, v value.Value, opts ...SetOption) error {
	var o setOptions
	for _, apply := range opts {
		apply(&o)
	}

	p, err := keypath.Parse(path)
	if err != nil {
		return err
	}

	if v == nil {
		return ErrNilValue
	}

	err = checkKeys(v, p)
	if err != nil {
		return err
	}

	mode := coerce.Widening

	if entry, declared := m.schema.Lookup(p.String()); declared {
		mode = entry.Mode()

		if !o.retype {
			v, err = coerce.To(p.String(), v, entry.Kind, mode)
			if err != nil {
				return err
			}
		}
	}

	parent, err := m.parentFor(p)
	if err != nil {
		return err
	}

	if existing, ok := parent.Get(p.Last()); ok && !o.retype {
		v, err = coerce.To(p.String(), v, existing.Kind(), mode)
		if err != nil {
			return err
		}
	}

	parent.Put(p.Last(), value.Clone(v))

	return nil
}

// Delete removes the node at path.
func (m *Mutable) Delete(path string) error {
	p, err := keypath.Parse(path)
	if err != nil {
		return err
	}

	parent, ok := value.Lookup(m.root, p.Parent())
	if table, isTable := parent.(*value.Table); ok && isTable && table.Delete(p.Last()) {
		return nil
	}

	return &cfgerr.MissingKeyError{Path: path}
}

func (m *Mutable) node(p keypath.Path) (value.Value, bool) {
	return value.Lookup(m.root, p)
}

// parentFor walks to the table that holds the last segment of p. Missing tables are only
// created once the whole walk is known to succeed.
func (m *Mutable) parentFor(p keypath.Path) (*value.Table, error) {
	table := m.root
	dirs := p.Parent()

	for i, seg := range dirs {
		child, ok := table.Get(seg)
		if !ok {
			for _, rest := range dirs[i:] {
				next := value.NewTable()
				table.Put(rest, next)
				table = next
			}

			return table, nil
		}

		sub, isTable := child.(*value.Table)
		if !isTable {
			return nil, &cfgerr.TypeMismatchError{
				Path:     dirs[:i+1].String(),
				Expected: value.KindTable,
				Actual:   child.Kind(),
			}
		}

		table = sub
	}

	return table, nil
}
