package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/logging"
	"github.com/0xalexb/strictcfg/schema"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for further events before reloading.
const DefaultDebounce = 100 * time.Millisecond

// ErrNilHandler is returned by New when no handler is given.
var ErrNilHandler = errors.New("nil reload handler")

// Handler receives the result of every reload. Exactly one of doc and err is non-nil.
type Handler func(doc *config.Document, err error)

// Options configures a Watcher.
type Options struct {
	Schema   *schema.Schema
	Parser   config.Parser
	Debounce time.Duration
}

// Option applies a setting to Options.
type Option func(*Options)

// WithSchema validates every reload against s.
func WithSchema(s *schema.Schema) Option {
	return func(o *Options) {
		o.Schema = s
	}
}

// WithParser overrides the parser chosen from the file extension.
func WithParser(p config.Parser) Option {
	return func(o *Options) {
		o.Parser = p
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(o *Options) {
		o.Debounce = d
	}
}

// Watcher reloads one file.
type Watcher struct {
	path    string
	options Options
	handler Handler
	fsw     *fsnotify.Watcher
}

// New starts watching the directory of path. Events are only processed while Run is active.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}

	options := Options{Debounce: DefaultDebounce}
	for _, apply := range opts {
		apply(&options)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	err = fsw.Add(filepath.Dir(absPath))
	if err != nil {
		_ = fsw.Close()

		return nil, fmt.Errorf("watching %q: %w", filepath.Dir(absPath), err)
	}

	return &Watcher{
		path:    absPath,
		options: options,
		handler: handler,
		fsw:     fsw,
	}, nil
}

// Path returns the absolute path of the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Run processes file events until ctx is done, then releases the watcher. It returns nil on
// cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() {
		_ = w.fsw.Close()
	}()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	slog.Info("watching configuration", slog.String("origin", w.path))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if !w.relevant(event) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.options.Debounce)
			} else {
				timer.Reset(w.options.Debounce)
			}

			fire = timer.C
		case <-fire:
			fire = nil

			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			slog.Error("watch error", slog.String("origin", w.path), logging.ErrorAttr(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create)
}

func (w *Watcher) reload() {
	opts := []config.Option{config.WithSchema(w.options.Schema)}
	if w.options.Parser != nil {
		opts = append(opts, config.WithParser(w.options.Parser))
	}

	doc, err := config.Load(w.path, opts...)
	if err != nil {
		slog.Warn("configuration reload failed", slog.String("origin", w.path), logging.ErrorAttr(err))
		w.handler(nil, err)

		return
	}

	slog.Info("configuration reloaded", slog.String("origin", w.path), slog.Int("keys", doc.Len()))
	w.handler(doc, nil)
}
