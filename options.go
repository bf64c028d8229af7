package strictcfg

import (
	"context"
	"fmt"

	"github.com/0xalexb/strictcfg/config"
	filefetcher "github.com/0xalexb/strictcfg/config/fetcher/file"
	"github.com/0xalexb/strictcfg/config/watcher"
	"github.com/0xalexb/strictcfg/inspect"
	"github.com/0xalexb/strictcfg/listener"
	"github.com/0xalexb/strictcfg/schema"

	"go.uber.org/fx"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules   []fx.Option
	LogLevel  string
	LogFormat string
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

// WithLogFormat selects "json" (the default) or "text" log output.
func WithLogFormat(format string) Option {
	return func(opts *Options) {
		opts.LogFormat = format
	}
}

// WithDocument loads the file at path once at startup and provides it as
// *config.Document. The parser follows the file extension. When s is non-nil
// the document is bound to it and startup fails on any violation.
func WithDocument(path string, s *schema.Schema) Option {
	return WithModules(fx.Module("document",
		fx.Provide(func() config.Parser { return config.ParserFor(path) }),
		fx.Provide(
			fx.Annotate(
				filefetcher.NewFetcher(path),
				fx.As(new(config.DataFetcher)),
			),
		),
		fx.Provide(config.DocumentProvider(s)),
	))
}

// WithSection provides *T decoded from the section at path of the document,
// defaulted and validated when T implements config.Defaulter or config.Validator.
func WithSection[T any](path string) Option {
	return WithModules(fx.Provide(config.Provider(new(T), path)))
}

// WithInspector serves the document over HTTP on the listener called name.
// Without listener options the listener reads its Config from the document
// section "listeners.<name>".
func WithInspector(name string, opts ...listener.Option) Option {
	modules := []fx.Option{
		fx.Provide(inspect.NewService),
		fx.Provide(fx.Annotate(inspect.NewHandler, fx.ResultTags(listener.Tag(name)))),
	}

	if len(opts) == 0 {
		modules = append(modules, listener.ConfigFromDocument(name, "listeners."+name))
	}

	modules = append(modules, listener.NewModule(name, opts...))

	return WithModules(fx.Module("inspector", modules...))
}

// WithReload watches the file at path while the application runs. Every
// successful reload replaces the state of the inspector, if one is running;
// failed reloads are logged and leave it untouched. The watcher is created
// when the application starts, so a missing directory fails Start.
func WithReload(path string, s *schema.Schema, opts ...watcher.Option) Option {
	return WithModules(fx.Module("reload", fx.Invoke(
		fx.Annotate(
			func(lifecycle fx.Lifecycle, svc *inspect.Service) {
				registerReload(lifecycle, svc, path, append([]watcher.Option{watcher.WithSchema(s)}, opts...))
			},
			fx.ParamTags("", `optional:"true"`),
		),
	)))
}

func registerReload(lifecycle fx.Lifecycle, svc *inspect.Service, path string, opts []watcher.Option) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			// The watcher only exists while the application runs.
			w, err := watcher.New(path, func(doc *config.Document, err error) {
				if err == nil && svc != nil {
					svc.Replace(doc)
				}
			}, opts...)
			if err != nil {
				cancel()
				close(done)

				return fmt.Errorf("reload: %w", err)
			}

			go func() {
				defer close(done)

				_ = w.Run(ctx)
			}()

			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()

			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return fmt.Errorf("reload: %w", stopCtx.Err())
			}
		},
	})
}
