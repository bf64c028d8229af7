package listener

import "time"

// Option defines a function type for configuring an HTTP listener.
type Option func(*Config)

// WithAddress sets the address for the HTTP listener.
func WithAddress(addr string) Option {
	return func(cfg *Config) {
		cfg.Address = addr
	}
}

// WithRequestTimeout bounds the time a handler may take. It is rounded down to whole seconds.
func WithRequestTimeout(d time.Duration) Option {
	return func(cfg *Config) {
		cfg.RequestTimeout = int64(d / time.Second)
	}
}

// WithMaxBodyBytes limits request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(cfg *Config) {
		cfg.MaxBodyBytes = n
	}
}
