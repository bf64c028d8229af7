package inspect

import (
	"fmt"
	"sync"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/config/parser/text"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/schema"
	"github.com/0xalexb/strictcfg/value"
)

// Service shares one mutable document between concurrent requests.
type Service struct {
	mu  sync.RWMutex
	doc *config.Mutable
}

// NewService returns a Service editing a copy of doc.
func NewService(doc *config.Document) *Service {
	return &Service{doc: doc.Edit()}
}

// Document returns a snapshot of the current state.
func (s *Service) Document() *config.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.doc.Document()
}

// Replace discards all edits and continues from a copy of doc.
func (s *Service) Replace(doc *config.Document) {
	edit := doc.Edit()

	s.mu.Lock()
	s.doc = edit
	s.mu.Unlock()
}

// Get returns the value at path. With an empty kind the stored node is
// returned as is, falling back to the schema default; otherwise the value is
// converted to kind under the accessor rules.
func (s *Service) Get(path, kind string) (value.Value, error) {
	_, err := keypath.Parse(path)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if kind != "" {
		k, err := value.ParseKind(kind)
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		return config.GetKind(s.doc, path, k) //nolint:wrapcheck
	}

	v, ok := config.Lookup(s.doc, path)
	if ok {
		return v, nil
	}

	if entry, declared := s.doc.Schema().Lookup(path); declared && entry.HasDefault() {
		return entry.Default, nil
	}

	return nil, &cfgerr.MissingKeyError{Path: path}
}

// Set parses literal in the native grammar and stores it at path. It returns
// the value as stored, after any widening.
func (s *Service) Set(path, literal string, retype bool) (value.Value, error) {
	v, err := text.ParseValue(literal)
	if err != nil {
		return nil, fmt.Errorf("value literal: %w", err)
	}

	var opts []config.SetOption
	if retype {
		opts = append(opts, config.Retype())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = s.doc.SetValue(path, v, opts...)
	if err != nil {
		return nil, err //nolint:wrapcheck
	}

	stored, _ := config.Lookup(s.doc, path)

	return stored, nil
}

// Delete removes the key at path.
func (s *Service) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.doc.Delete(path) //nolint:wrapcheck
}

// Violations validates the current state against the document's schema.
func (s *Service) Violations() schema.Violations {
	return config.Validate(s.Document(), nil)
}
