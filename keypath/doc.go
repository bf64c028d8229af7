// Package keypath provides dotted paths that address nodes in a configuration tree.
//
// A Path is a sequence of bare-key segments. Segments may contain ASCII letters, digits,
// underscores and dashes, which keeps every path representable in the native text grammar:
//
//	p, err := keypath.Parse("db.port")  // keypath.Path{"db", "port"}
//	p.String()                          // "db.port"
//
// Paths are plain values. They are never owned by a document and the same Path can be
// resolved against any number of documents.
package keypath
