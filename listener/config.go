package listener

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults applied by Config.SetDefaults.
const (
	DefaultAddress           = ":8080"
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultRequestTimeout    = 30 * time.Second
	DefaultMaxBodyBytes      = 1 << 20
)

// Errors returned by the listener.
var (
	ErrEmptyAddress   = errors.New("address must not be empty")
	ErrInvalidConfig  = errors.New("invalid listener config")
	ErrListenFailed   = errors.New("failed to listen")
	ErrShutdownFailed = errors.New("shutdown failed")
	ErrEmptyName      = errors.New("listener name must not be empty")
	ErrNilHandler     = errors.New("handler must not be nil")
)

//nolint:gochecknoglobals // validator caches struct metadata and is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Config holds the configuration for an HTTP listener. Durations are whole seconds so the
// struct can be decoded from a configuration document.
type Config struct {
	Address           string `cfg:"address"             validate:"required,hostname_port"`
	ReadHeaderTimeout int64  `cfg:"read_header_timeout" validate:"gte=0,lte=300"`
	RequestTimeout    int64  `cfg:"request_timeout"     validate:"gte=0,lte=3600"`
	MaxBodyBytes      int64  `cfg:"max_body_bytes"      validate:"gte=0"`
}

// SetDefaults fills in zero fields and reports whether anything changed.
func (c *Config) SetDefaults() bool {
	changed := false

	if c.Address == "" {
		c.Address = DefaultAddress
		changed = true
	}

	if c.ReadHeaderTimeout == 0 {
		c.ReadHeaderTimeout = int64(DefaultReadHeaderTimeout / time.Second)
		changed = true
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = int64(DefaultRequestTimeout / time.Second)
		changed = true
	}

	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
		changed = true
	}

	return changed
}

// Validate validates the Config.
func (c *Config) Validate() error {
	if c.Address == "" {
		return ErrEmptyAddress
	}

	err := validate.Struct(c)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// ReadHeaderTimeoutDuration returns ReadHeaderTimeout as a time.Duration.
func (c *Config) ReadHeaderTimeoutDuration() time.Duration {
	return time.Duration(c.ReadHeaderTimeout) * time.Second
}

// RequestTimeoutDuration returns RequestTimeout as a time.Duration.
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}
