package value

import (
	"errors"
	"iter"
	"slices"
)

// ErrDuplicateKey is returned by Table.Insert when the key is already present.
var ErrDuplicateKey = errors.New("duplicate key")

// Table is an ordered mapping from string keys to values. The zero value is not usable;
// create tables with NewTable. A nil *Table behaves as an empty, read-only table.
type Table struct {
	keys    []string
	entries map[string]Value
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[string]Value)}
}

// Len returns the number of keys.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.keys)
}

// Keys returns the keys in insertion order. The returned slice is a copy.
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}

	return slices.Clone(t.keys)
}

// Get returns the value stored under key.
func (t *Table) Get(key string) (Value, bool) {
	if t == nil {
		return nil, false
	}

	v, ok := t.entries[key]

	return v, ok
}

// Has reports whether key is present.
func (t *Table) Has(key string) bool {
	_, ok := t.Get(key)

	return ok
}

// Insert adds a new key. It fails with ErrDuplicateKey if the key is already present.
func (t *Table) Insert(key string, v Value) error {
	if _, ok := t.entries[key]; ok {
		return ErrDuplicateKey
	}

	t.keys = append(t.keys, key)
	t.entries[key] = v

	return nil
}

// Put inserts or overwrites key. An overwritten key keeps its position.
func (t *Table) Put(key string, v Value) {
	if _, ok := t.entries[key]; !ok {
		t.keys = append(t.keys, key)
	}

	t.entries[key] = v
}

// Delete removes key and reports whether it was present.
func (t *Table) Delete(key string) bool {
	if _, ok := t.entries[key]; !ok {
		return false
	}

	delete(t.entries, key)
	t.keys = slices.DeleteFunc(t.keys, func(k string) bool { return k == key })

	return true
}

// All iterates over the entries in insertion order.
func (t *Table) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if t == nil {
			return
		}

		for _, k := range t.keys {
			if !yield(k, t.entries[k]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := NewTable()
	if t == nil {
		return out
	}

	out.keys = slices.Clone(t.keys)
	for k, v := range t.entries {
		out.entries[k] = Clone(v)
	}

	return out
}

func (t *Table) equal(other *Table) bool {
	if t.Len() != other.Len() {
		return false
	}

	for k, v := range t.All() {
		w, ok := other.Get(k)
		if !ok || !Equal(v, w) {
			return false
		}
	}

	return true
}
