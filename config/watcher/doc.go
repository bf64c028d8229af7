// Package watcher reloads a configuration file whenever it changes on disk.
//
// The watcher observes the file's directory rather than the file itself, so editors that save by
// writing a temporary file and renaming it over the original are handled. Bursts of events are
// debounced into one reload. Every reload runs the full config.Load pipeline and hands the
// handler either a fresh Document or the error that prevented one; the previous Document stays
// valid either way.
package watcher
