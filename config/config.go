package config

import (
	"fmt"
	"log/slog"

	"github.com/0xalexb/strictcfg/logging"
	"github.com/0xalexb/strictcfg/schema"
	"github.com/0xalexb/strictcfg/value"
)

// Parser turns raw configuration data into a table. The origin labels parse errors.
type Parser interface {
	Parse(data []byte, origin string) (*value.Table, error)
}

// DataFetcher defines an interface for reading configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Source is implemented by fetchers that know where their data comes from.
type Source interface {
	Origin() string
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// DocumentProvider returns a function that fetches, parses and validates a document against s.
// A nil schema skips validation. The schema is bound to the returned document.
func DocumentProvider(s *schema.Schema) func(Parser, DataFetcher) (*Document, error) {
	return func(parser Parser, fetcher DataFetcher) (*Document, error) {
		origin := ""
		if src, ok := fetcher.(Source); ok {
			origin = src.Origin()
		}

		data, err := fetcher.Fetch()
		if err != nil {
			return nil, fmt.Errorf("reading data error: %w", err)
		}

		root, err := parser.Parse(data, origin)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		if root == nil {
			root = value.NewTable()
		}

		err = checkKeys(root, nil)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		doc := &Document{root: root, origin: origin, schema: s}

		if s.Defaults() > 0 {
			slog.Info("schema defaults available", slog.String("origin", origin), slog.Int("count", s.Defaults()))
		}

		violations := Validate(doc, s)
		if len(violations) > 0 {
			for _, v := range violations {
				slog.Warn("configuration violation", slog.String("origin", origin), logging.ErrorAttr(v))
			}

			return nil, fmt.Errorf("validating error: %w", violations.Err())
		}

		slog.Debug("document loaded", slog.String("origin", origin), slog.Int("keys", root.Len()))

		return doc, nil
	}
}

// Provider returns a function that decodes the section at path into target, then applies its
// defaults and validates it. An empty path decodes the whole document.
func Provider[T any](target *T, path string) func(*Document) (*T, error) {
	return func(doc *Document) (*T, error) {
		err := Decode(doc, path, target)
		if err != nil {
			return nil, fmt.Errorf("decoding error: %w", err)
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				slog.Info("defaults applied", slog.String("path", path))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}
