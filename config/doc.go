// Package config loads configuration documents and reads and writes typed values in them.
//
// A Document is a parsed tree plus the name of its source and, optionally, a bound schema. It is
// read-only and safe for concurrent readers. Edit returns a Mutable handle over a private copy;
// Mutable.Document snapshots the edits back into a new Document.
//
//	doc, err := config.Load("app.conf")
//	port, err := config.Get[int64](doc, "db.port")
//
//	m := doc.Edit()
//	err = config.Set(m, "db.port", int64(6432))
//	fmt.Print(config.Serialize(m.Document()))
//
// Reads never convert silently: the only conversion is integer to float widening, and a strict
// schema entry disables even that. A mismatch is a *cfgerr.TypeMismatchError. When a schema is
// bound to the document, an absent path with a schema default resolves to that default; the
// default is never written into the tree, so serializing a loaded document reproduces its
// source.
//
// # Extension points
//
// The loading pipeline keeps three interfaces:
//   - Parser: turns raw bytes into a table (config/parser/text, yaml, toml)
//   - DataFetcher: retrieves the raw bytes (config/fetcher/file)
//   - Validator and Defaulter: hooks on structs produced by Provider
//
// DocumentProvider wires a Parser and a DataFetcher into a validated Document; Provider decodes a
// section of that Document into a struct. Both return Fx-friendly constructor functions.
// LoadSchema reads a schema written in the native grammar.
package config
