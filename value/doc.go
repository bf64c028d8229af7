// Package value implements the untyped tree that parsed configuration is stored in.
//
// Value is a closed sum type. Its only implementations are Bool, Int, Float, String, Array and
// *Table; the interface is sealed so no other package can add a variant. Consumers switch on the
// concrete type (or on Kind) and treat any other case as unreachable.
//
// A Table keeps its keys in insertion order. Order matters for display and serialization only:
// Equal compares tables as key sets.
//
// This package holds data only. Converting between kinds is the job of package coerce.
package value
