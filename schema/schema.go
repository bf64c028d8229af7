package schema

import (
	"errors"
	"fmt"

	"github.com/0xalexb/strictcfg/coerce"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"
)

// Errors returned while constructing a schema.
var (
	ErrDuplicateEntry   = errors.New("duplicate schema entry")
	ErrInvalidEntry     = errors.New("invalid schema entry")
	ErrConflictingEntry = errors.New("conflicting schema entry")
)

// Entry declares the expectations for one path.
type Entry struct {
	Path     keypath.Path
	Kind     value.Kind
	Required bool
	// Default is used by accessors when the path is absent. Nil means no default.
	Default value.Value
	// Strict disables integer to float widening for this path.
	Strict bool
}

// Mode returns the coercion mode reads of this entry use.
func (e Entry) Mode() coerce.Mode {
	if e.Strict {
		return coerce.Strict
	}

	return coerce.Widening
}

// HasDefault reports whether the entry carries a default value.
func (e Entry) HasDefault() bool {
	return e.Default != nil
}

// Option configures a Schema.
type Option func(*Schema)

// WithStrictKeys makes validation report every document path the schema does not declare.
func WithStrictKeys() Option {
	return func(s *Schema) {
		s.strictKeys = true
	}
}

// Schema is an immutable, ordered set of entries.
type Schema struct {
	entries    []Entry
	index      map[string]int
	ancestors  map[string]struct{}
	strictKeys bool
}

// New builds a schema. It fails if two entries share a path, if an entry is malformed, if a
// default cannot be read as its entry's kind, or if an entry sits below a path declared with
// a non-table kind.
func New(entries []Entry, opts ...Option) (*Schema, error) {
	s := &Schema{
		entries:   make([]Entry, 0, len(entries)),
		index:     make(map[string]int, len(entries)),
		ancestors: make(map[string]struct{}),
	}

	for _, apply := range opts {
		apply(s)
	}

	for _, entry := range entries {
		err := s.add(entry)
		if err != nil {
			return nil, err
		}
	}

	for _, entry := range s.entries {
		for p := entry.Path.Parent(); !p.IsRoot(); p = p.Parent() {
			i, declared := s.index[p.String()]
			if declared && s.entries[i].Kind != value.KindTable {
				return nil, fmt.Errorf("%w: %s is below %s, which is declared as %s",
					ErrConflictingEntry, entry.Path, p, s.entries[i].Kind)
			}
		}
	}

	return s, nil
}

func (s *Schema) add(entry Entry) error {
	if entry.Path.IsRoot() {
		return fmt.Errorf("%w: empty path", ErrInvalidEntry)
	}

	for _, seg := range entry.Path {
		if !keypath.ValidSegment(seg) {
			return fmt.Errorf("%w: invalid path %q", ErrInvalidEntry, entry.Path)
		}
	}

	key := entry.Path.String()

	if entry.Kind == value.KindInvalid || entry.Kind > value.KindTable {
		return fmt.Errorf("%w: %s has no valid kind", ErrInvalidEntry, key)
	}

	if _, exists := s.index[key]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateEntry, key)
	}

	if entry.Default != nil {
		def, err := coerce.To(key, entry.Default, entry.Kind, entry.Mode())
		if err != nil {
			return fmt.Errorf("%w: default: %w", ErrInvalidEntry, err)
		}

		entry.Default = value.Clone(def)
	}

	entry.Path = entry.Path.Append()

	s.index[key] = len(s.entries)
	s.entries = append(s.entries, entry)

	for p := entry.Path.Parent(); !p.IsRoot(); p = p.Parent() {
		s.ancestors[p.String()] = struct{}{}
	}

	return nil
}

// Len returns the number of entries.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}

	return len(s.entries)
}

// Entries returns the entries in declaration order.
func (s *Schema) Entries() []Entry {
	if s == nil {
		return nil
	}

	out := make([]Entry, len(s.entries))
	for i, entry := range s.entries {
		entry.Path = entry.Path.Append()
		entry.Default = value.Clone(entry.Default)
		out[i] = entry
	}

	return out
}

// Lookup returns the entry declared for path.
func (s *Schema) Lookup(path string) (Entry, bool) {
	if s == nil {
		return Entry{}, false
	}

	i, ok := s.index[path]
	if !ok {
		return Entry{}, false
	}

	entry := s.entries[i]
	entry.Default = value.Clone(entry.Default)

	return entry, true
}

// StrictKeys reports whether undeclared paths are violations.
func (s *Schema) StrictKeys() bool {
	return s != nil && s.strictKeys
}

// Defaults returns the number of entries carrying a default.
func (s *Schema) Defaults() int {
	if s == nil {
		return 0
	}

	n := 0

	for _, entry := range s.entries {
		if entry.HasDefault() {
			n++
		}
	}

	return n
}

func (s *Schema) declaresBelow(path string) bool {
	_, ok := s.ancestors[path]

	return ok
}
