package listener

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/logging"

	"go.uber.org/fx"
)

// Tag returns the DI name tag under which the listener called name finds its
// http.Handler and Config.
func Tag(name string) string {
	return fmt.Sprintf(`name:"%s"`, name)
}

// NewModule creates an Fx module for a named HTTP listener.
// If any options are passed, the module supplies Config from them. Otherwise
// Config must be provided under Tag(name), e.g. by ConfigFromDocument.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func NewModule(name string, opts ...Option) fx.Option {
	if name == "" {
		return fx.Error(ErrEmptyName)
	}

	var moduleOpts []fx.Option

	if len(opts) > 0 {
		var cfg Config

		for _, apply := range opts {
			apply(&cfg)
		}

		moduleOpts = append(moduleOpts, fx.Supply(fx.Annotate(cfg, fx.ResultTags(Tag(name)))))
	}

	moduleOpts = append(moduleOpts, fx.Invoke(
		fx.Annotate(
			func(lifecycle fx.Lifecycle, shutdowner fx.Shutdowner, handler http.Handler, listenerCfg Config) error {
				srv, err := NewServer(name, handler, listenerCfg, func() {
					shutdownErr := shutdowner.Shutdown()
					if shutdownErr != nil {
						slog.Error("failed to trigger shutdown", slog.String("name", name), logging.ErrorAttr(shutdownErr))
					}
				})
				if err != nil {
					return err
				}

				lifecycle.Append(fx.Hook{
					OnStart: srv.Start,
					OnStop:  srv.Stop,
				})

				return nil
			},
			fx.ParamTags("", "", Tag(name), Tag(name)),
		),
	))

	return fx.Module(name, moduleOpts...)
}

// ConfigFromDocument provides the Config of the listener called name by
// decoding the section at path of the *config.Document in the container.
//
//nolint:ireturn // fx.Option is the standard return type for Fx modules
func ConfigFromDocument(name, path string) fx.Option {
	return fx.Provide(fx.Annotate(
		func(doc *config.Document) (Config, error) {
			cfg, err := config.Provider(&Config{}, path)(doc)
			if err != nil {
				return Config{}, fmt.Errorf("listener %s: %w", name, err)
			}

			return *cfg, nil
		},
		fx.ResultTags(Tag(name)),
	))
}
