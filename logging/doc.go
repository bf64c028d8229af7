// Package logging builds the slog loggers used by strictcfg and renders configuration errors as
// structured attributes.
//
// Output is JSON by default; LoggerConfig.Format = "text" selects slog's text handler, which the
// CLI uses on terminals.
package logging
