// Package inspect serves a live configuration document over HTTP.
//
// A Service owns a mutable copy of a document and guards it with a
// read/write lock; NewHandler exposes it with chi:
//
//	GET    /values/{path}?kind=int64   read a value, optionally converted
//	PUT    /values/{path}?retype=true  write a value given as a grammar literal
//	DELETE /values/{path}              remove a key
//	GET    /document                   the document in the native grammar
//	GET    /violations                 schema violations of the current state
package inspect
