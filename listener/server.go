package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/0xalexb/strictcfg/listener/middleware"
	"github.com/0xalexb/strictcfg/logging"
)

// Server manages an HTTP server lifecycle.
type Server struct {
	name       string
	config     Config
	server     *http.Server
	listener   net.Listener
	onServeErr func()
}

// NewServer defaults and validates cfg, then builds the underlying http.Server
// serving handler through middleware.Standard.
// The onServeErr callback, if non-nil, runs when the background Serve goroutine fails.
func NewServer(name string, handler http.Handler, cfg Config, onServeErr func()) (*Server, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if handler == nil {
		return nil, ErrNilHandler
	}

	cfg.SetDefaults()

	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	return &Server{
		name:   name,
		config: cfg,
		server: &http.Server{ //nolint:exhaustruct // only relevant fields needed
			Addr: cfg.Address,
			Handler: middleware.Chain(handler,
				middleware.Standard(cfg.MaxBodyBytes, cfg.RequestTimeoutDuration())...),
			ReadHeaderTimeout: cfg.ReadHeaderTimeoutDuration(),
		},
		listener:   nil,
		onServeErr: onServeErr,
	}, nil
}

// Config returns the defaulted configuration the server runs with.
func (s *Server) Config() Config {
	return s.config
}

// Addr returns the bound address once Start has succeeded, or the configured address before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.server.Addr
}

// Start begins listening on TCP and serves HTTP requests in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	listenCfg := net.ListenConfig{} //nolint:exhaustruct // zero-value defaults are fine

	listener, err := listenCfg.Listen(ctx, "tcp", s.server.Addr)
	if err != nil {
		slog.Error("failed to listen", slog.String("name", s.name), slog.String("address", s.server.Addr), logging.ErrorAttr(err))

		return fmt.Errorf("%w: %w", ErrListenFailed, err)
	}

	s.listener = listener

	slog.Info("starting HTTP listener", slog.String("name", s.name), slog.String("address", listener.Addr().String()))

	go func() {
		serveErr := s.server.Serve(listener)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("HTTP listener error", slog.String("name", s.name), logging.ErrorAttr(serveErr))

			if s.onServeErr != nil {
				s.onServeErr()
			}
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	slog.Info("stopping HTTP listener", slog.String("name", s.name))

	err := s.server.Shutdown(ctx)
	if err != nil {
		slog.Error("shutdown failed", slog.String("name", s.name), logging.ErrorAttr(err))

		return fmt.Errorf("%w: %w", ErrShutdownFailed, err)
	}

	return nil
}
