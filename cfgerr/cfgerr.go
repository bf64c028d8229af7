package cfgerr

import (
	"errors"
	"fmt"

	"github.com/0xalexb/strictcfg/value"
)

// Sentinels matched by the error types of this package.
var (
	ErrParse        = errors.New("parse error")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrMissingKey   = errors.New("missing key")
	ErrUnknownKey   = errors.New("unknown key")
)

// Error is implemented by every error of the taxonomy. The set is closed.
type Error interface {
	error

	// ConfigPath returns the dotted path the error refers to, or "" if it has none.
	ConfigPath() string

	configError()
}

// ParseError reports malformed input. Line and Column are 1-based.
type ParseError struct {
	Origin  string
	Line    int
	Column  int
	Message string
	// Err is the underlying cause, a *DuplicateKeyError or a decoder error from another format.
	Err error
}

func (e *ParseError) Error() string {
	origin := e.Origin
	if origin == "" {
		origin = "<input>"
	}

	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", origin, e.Message)
	}

	return fmt.Sprintf("%s:%d:%d: %s", origin, e.Line, e.Column, e.Message)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse //nolint:errorlint // sentinel identity.
}

// ConfigPath returns the path of a wrapped DuplicateKeyError, if any.
func (e *ParseError) ConfigPath() string {
	var dup *DuplicateKeyError
	if errors.As(e.Err, &dup) {
		return dup.Path
	}

	return ""
}

func (*ParseError) configError() {}

// DuplicateKeyError reports a key defined twice within the same table.
type DuplicateKeyError struct {
	Path   string
	Line   int
	Column int
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key %q", e.Path)
}

// Is matches ErrDuplicateKey.
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey //nolint:errorlint // sentinel identity.
}

// ConfigPath implements Error.
func (e *DuplicateKeyError) ConfigPath() string { return e.Path }

func (*DuplicateKeyError) configError() {}

// TypeMismatchError reports a value whose kind cannot serve the expected kind.
type TypeMismatchError struct {
	Path     string
	Expected value.Kind
	Actual   value.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, found %s", displayPath(e.Path), e.Expected, e.Actual)
}

// Is matches ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool {
	return target == ErrTypeMismatch //nolint:errorlint // sentinel identity.
}

// ConfigPath implements Error.
func (e *TypeMismatchError) ConfigPath() string { return e.Path }

func (*TypeMismatchError) configError() {}

// MissingKeyError reports an absent path.
type MissingKeyError struct {
	Path string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: missing key", displayPath(e.Path))
}

// Is matches ErrMissingKey.
func (e *MissingKeyError) Is(target error) bool {
	return target == ErrMissingKey //nolint:errorlint // sentinel identity.
}

// ConfigPath implements Error.
func (e *MissingKeyError) ConfigPath() string { return e.Path }

func (*MissingKeyError) configError() {}

// UnknownKeyError reports a path that a strict schema does not declare.
type UnknownKeyError struct {
	Path string
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("%s: unknown key", displayPath(e.Path))
}

// Is matches ErrUnknownKey.
func (e *UnknownKeyError) Is(target error) bool {
	return target == ErrUnknownKey //nolint:errorlint // sentinel identity.
}

// ConfigPath implements Error.
func (e *UnknownKeyError) ConfigPath() string { return e.Path }

func (*UnknownKeyError) configError() {}

// Path returns the configuration path carried by err, or "" if err is not (and does not wrap)
// an Error.
func Path(err error) string {
	var cfgErr Error
	if errors.As(err, &cfgErr) {
		return cfgErr.ConfigPath()
	}

	return ""
}

func displayPath(p string) string {
	if p == "" {
		return "<root>"
	}

	return p
}
