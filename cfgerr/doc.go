// Package cfgerr defines the closed set of errors produced by the configuration engine.
//
//   - *ParseError: the input could not be parsed. Fatal to a parse or load call.
//   - *DuplicateKeyError: a key appeared twice in one table. Always reported wrapped in a *ParseError.
//   - *TypeMismatchError: a stored value does not have, and cannot be widened to, the expected kind.
//   - *MissingKeyError: a required path is absent.
//   - *UnknownKeyError: a path is present that a strict schema does not declare.
//
// Every type implements Error and matches one sentinel with errors.Is, so callers can branch
// either on the sentinel or on the concrete type with errors.As:
//
//	if errors.Is(err, cfgerr.ErrMissingKey) { ... }
//
//	var mismatch *cfgerr.TypeMismatchError
//	if errors.As(err, &mismatch) { log.Print(mismatch.Expected) }
package cfgerr
