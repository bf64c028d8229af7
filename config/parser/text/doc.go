// Package text parses the native configuration grammar into a value tree.
//
// The grammar is line oriented:
//
//	# comment
//	port = 8080                      # integers are signed 64-bit
//	ratio = 0.75                     # floats need a '.' or an exponent (also inf, nan)
//	name = "api \"edge\""            # double-quoted strings with escapes
//	hosts = ["a", "b", 3]            # arrays, heterogeneous, may span lines
//	limits = { rps = 10, burst = 20 } # inline tables
//	log.level = "debug"              # dotted keys create nested tables
//
//	[db.primary]                     # section header, later keys land in db.primary
//	host = "localhost"
//
// Parsing stops at the first error, which is always a *cfgerr.ParseError with a 1-based line
// and column. A key defined twice in one table is reported as a ParseError wrapping a
// *cfgerr.DuplicateKeyError. No partial tree is ever returned.
package text
