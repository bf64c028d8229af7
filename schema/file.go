package schema

import (
	"fmt"

	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"
)

// Field names understood by FromTable.
const (
	FieldType        = "type"
	FieldRequired    = "required"
	FieldDefault     = "default"
	FieldStrict      = "strict"
	FieldDescription = "description"
)

// FromTable reads a schema described as a document. Every table holding a string `type` key is
// one entry at that table's path; other tables only group entries.
func FromTable(root *value.Table, opts ...Option) (*Schema, error) {
	var entries []Entry

	err := collect(root, nil, &entries)
	if err != nil {
		return nil, err
	}

	return New(entries, opts...)
}

func collect(t *value.Table, base keypath.Path, entries *[]Entry) error {
	if t.Has(FieldType) {
		if base.IsRoot() {
			return fmt.Errorf("%w: the root table cannot be an entry", ErrInvalidEntry)
		}

		entry, err := entryFromTable(t, base)
		if err != nil {
			return err
		}

		*entries = append(*entries, entry)

		return nil
	}

	for k, v := range t.All() {
		sub, isTable := v.(*value.Table)
		if !isTable {
			return fmt.Errorf("%w: %s is a %s, expected a table describing an entry",
				ErrInvalidEntry, base.Append(k), v.Kind())
		}

		err := collect(sub, base.Append(k), entries)
		if err != nil {
			return err
		}
	}

	return nil
}

func entryFromTable(t *value.Table, path keypath.Path) (Entry, error) {
	entry := Entry{Path: path}

	for field, v := range t.All() {
		switch field {
		case FieldType:
			name, ok := v.(value.String)
			if !ok {
				return Entry{}, fieldError(path, field, value.KindString, v)
			}

			kind, err := value.ParseKind(string(name))
			if err != nil {
				return Entry{}, fmt.Errorf("%w: %s: %w", ErrInvalidEntry, path, err)
			}

			entry.Kind = kind
		case FieldRequired:
			required, ok := v.(value.Bool)
			if !ok {
				return Entry{}, fieldError(path, field, value.KindBool, v)
			}

			entry.Required = bool(required)
		case FieldStrict:
			strict, ok := v.(value.Bool)
			if !ok {
				return Entry{}, fieldError(path, field, value.KindBool, v)
			}

			entry.Strict = bool(strict)
		case FieldDefault:
			entry.Default = v
		case FieldDescription:
			if _, ok := v.(value.String); !ok {
				return Entry{}, fieldError(path, field, value.KindString, v)
			}
		default:
			return Entry{}, fmt.Errorf("%w: %s: unknown field %q", ErrInvalidEntry, path, field)
		}
	}

	return entry, nil
}

func fieldError(path keypath.Path, field string, want value.Kind, got value.Value) error {
	return fmt.Errorf("%w: %s: field %q must be %s, found %s", ErrInvalidEntry, path, field, want, got.Kind())
}
