package config

import (
	"fmt"
	"path/filepath"
	"strings"

	filefetcher "github.com/0xalexb/strictcfg/config/fetcher/file"
	"github.com/0xalexb/strictcfg/config/parser/text"
	tomlparser "github.com/0xalexb/strictcfg/config/parser/toml"
	yamlparser "github.com/0xalexb/strictcfg/config/parser/yaml"
	"github.com/0xalexb/strictcfg/schema"
)

// Options configures Load.
type Options struct {
	Parser  Parser
	Schema  *schema.Schema
	MaxSize int64
}

// Option applies a setting to Options.
type Option func(*Options)

// WithParser overrides the parser chosen from the file extension.
func WithParser(p Parser) Option {
	return func(o *Options) {
		o.Parser = p
	}
}

// WithSchema binds s to the loaded document and validates against it.
func WithSchema(s *schema.Schema) Option {
	return func(o *Options) {
		o.Schema = s
	}
}

// WithMaxSize limits the size of the file read by Load.
func WithMaxSize(n int64) Option {
	return func(o *Options) {
		o.MaxSize = n
	}
}

// ParserFor picks a parser from the file extension: YAML for .yaml and .yml, TOML for .toml and
// the native grammar for anything else.
func ParserFor(path string) Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yamlparser.NewParser()
	case ".toml":
		return tomlparser.NewParser()
	default:
		return text.NewParser()
	}
}

// Parse parses a document in the native grammar.
func Parse(src string) (*Document, error) {
	root, err := text.Parse([]byte(src), "")
	if err != nil {
		return nil, err
	}

	return &Document{root: root}, nil
}

// Load reads and parses the file at path. With WithSchema the document is validated and the
// returned error combines every violation.
func Load(path string, opts ...Option) (*Document, error) {
	options := Options{MaxSize: filefetcher.DefaultMaxSize}
	for _, apply := range opts {
		apply(&options)
	}

	if options.Parser == nil {
		options.Parser = ParserFor(path)
	}

	fetcher, err := filefetcher.NewFetcher(path, filefetcher.WithMaxSize(options.MaxSize))()
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	return DocumentProvider(options.Schema)(options.Parser, fetcher)
}

// LoadSchema reads a schema file. The file is a document in any supported format whose entries
// are tables holding a `type` key; see schema.FromTable.
func LoadSchema(path string, opts ...schema.Option) (*schema.Schema, error) {
	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	s, err := schema.FromTable(doc.root, opts...)
	if err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}

	return s, nil
}
