// Package schema declares the expected shape of a configuration document and validates
// documents against it.
//
// A Schema is an ordered set of entries keyed by path. Each entry names the expected kind,
// whether the path is required, an optional default and whether reads must match the kind
// exactly (strict) or may widen integers to floats.
//
//	s, err := schema.NewBuilder().
//	    Require("timeout", value.KindInt).
//	    Default("db.port", value.KindInt, value.Int(5432)).
//	    Optional("ratio", value.KindFloat).Strict().
//	    StrictKeys().
//	    Build()
//
// Validate never stops at the first problem. It returns every violation, sorted by path, so a
// misconfigured document is reported in one pass. Defaults are never written into the
// document; accessors resolve them when a path is read.
//
// Schemas can also be written in the native grammar and loaded with FromTable. Every table
// holding a string `type` key describes one entry:
//
//	[timeout]
//	type = "int64"
//	required = true
//
//	[db.port]
//	type = "int64"
//	default = 5432
//	strict = true
package schema
