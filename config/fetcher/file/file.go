package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultMaxSize bounds the size of a configuration file.
const DefaultMaxSize = 16 << 20

// Errors returned by NewFetcher.
var (
	ErrPathIsDirectory = errors.New("path is a directory, not a file")
	ErrFileTooLarge    = errors.New("file is too large")
)

// Options configures a Fetcher.
type Options struct {
	MaxSize int64
}

// Option applies a setting to Options.
type Option func(*Options)

// WithMaxSize overrides DefaultMaxSize. Non-positive values disable the limit.
func WithMaxSize(n int64) Option {
	return func(o *Options) {
		o.MaxSize = n
	}
}

// Fetcher implements config.DataFetcher for a single file.
type Fetcher struct {
	filepath string
	data     []byte
}

// NewFetcher returns a constructor that reads and caches the file at fpath. The returned func is
// Fx-friendly: the container decides when the file is read.
func NewFetcher(fpath string, opts ...Option) func() (*Fetcher, error) {
	options := Options{MaxSize: DefaultMaxSize}
	for _, apply := range opts {
		apply(&options)
	}

	return func() (*Fetcher, error) {
		cleanPath := filepath.Clean(fpath)

		stat, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
		}

		if stat.IsDir() {
			return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
		}

		if options.MaxSize > 0 && stat.Size() > options.MaxSize {
			return nil, fmt.Errorf("path %q: %w: %d bytes, limit %d", cleanPath, ErrFileTooLarge, stat.Size(), options.MaxSize)
		}

		data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
		if err != nil {
			return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
		}

		return &Fetcher{
			filepath: cleanPath,
			data:     data,
		}, nil
	}
}

// Fetch returns a copy of the cached file contents.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}

// Origin returns the cleaned path of the file.
func (f *Fetcher) Origin() string {
	return f.filepath
}
