package schema

import (
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/value"

	"go.uber.org/multierr"
)

// Builder assembles a Schema fluently. Errors are collected and reported by Build.
type Builder struct {
	entries []Entry
	opts    []Option
	err     error
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Require declares a required path.
func (b *Builder) Require(path string, kind value.Kind) *Builder {
	return b.add(path, Entry{Kind: kind, Required: true})
}

// Optional declares an optional path without a default.
func (b *Builder) Optional(path string, kind value.Kind) *Builder {
	return b.add(path, Entry{Kind: kind})
}

// Default declares an optional path whose absence is covered by def.
func (b *Builder) Default(path string, kind value.Kind, def value.Value) *Builder {
	return b.add(path, Entry{Kind: kind, Default: def})
}

// Strict marks the most recently declared entry as strict.
func (b *Builder) Strict() *Builder {
	if len(b.entries) > 0 {
		b.entries[len(b.entries)-1].Strict = true
	}

	return b
}

// StrictKeys makes the schema reject undeclared paths.
func (b *Builder) StrictKeys() *Builder {
	b.opts = append(b.opts, WithStrictKeys())

	return b
}

// Build returns the schema or every error collected while building it.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}

	return New(b.entries, b.opts...)
}

func (b *Builder) add(path string, entry Entry) *Builder {
	p, err := keypath.Parse(path)
	if err != nil {
		b.err = multierr.Append(b.err, err)

		return b
	}

	entry.Path = p
	b.entries = append(b.entries, entry)

	return b
}
