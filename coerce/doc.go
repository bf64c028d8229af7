// Package coerce enforces value kinds.
//
// To converts a stored value to an expected kind following a fixed rule set:
//
//  1. An exact kind match always succeeds.
//  2. Int widens to Float. Float never narrows to Int.
//  3. Bool, String, Array and Table never convert to or from anything else.
//  4. Everything else fails with *cfgerr.TypeMismatchError.
//
// Strict mode drops rule 2, leaving exact matches only. As is the generic form that returns
// native Go values.
package coerce
