package logging

import (
	"errors"
	"log/slog"

	"github.com/0xalexb/strictcfg/cfgerr"
)

// ErrorKey is the attribute key ErrorAttr writes under.
const ErrorKey = "error"

// ErrorAttr renders err as a structured group. Configuration errors expose their kind, path and,
// for parse errors, position; any other error is logged by message only.
func ErrorAttr(err error) slog.Attr {
	if err == nil {
		return slog.String(ErrorKey, "")
	}

	var cfgErr cfgerr.Error
	if !errors.As(err, &cfgErr) {
		return slog.String(ErrorKey, err.Error())
	}

	attrs := []any{
		slog.String("kind", ErrorKind(err)),
		slog.String("msg", err.Error()),
	}

	if path := cfgErr.ConfigPath(); path != "" {
		attrs = append(attrs, slog.String("path", path))
	}

	var parseErr *cfgerr.ParseError
	if errors.As(err, &parseErr) && parseErr.Line > 0 {
		attrs = append(attrs, slog.Int("line", parseErr.Line), slog.Int("column", parseErr.Column))
	}

	return slog.Group(ErrorKey, attrs...)
}

// ErrorKind names the taxonomy member err belongs to, or "other".
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, cfgerr.ErrDuplicateKey):
		return "duplicate_key"
	case errors.Is(err, cfgerr.ErrParse):
		return "parse"
	case errors.Is(err, cfgerr.ErrTypeMismatch):
		return "type_mismatch"
	case errors.Is(err, cfgerr.ErrMissingKey):
		return "missing_key"
	case errors.Is(err, cfgerr.ErrUnknownKey):
		return "unknown_key"
	default:
		return "other"
	}
}
