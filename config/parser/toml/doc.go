// Package toml reads TOML documents into the configuration value model using the expression
// parser of github.com/pelletier/go-toml/v2.
//
// The tree is built directly from the parsed expressions, so keys keep their source order and a
// key defined twice is reported as a *cfgerr.DuplicateKeyError with its position. Dates and times
// have no counterpart in the value model and are rejected, as are quoted keys that are not bare
// keys.
package toml
