// Package file provides a file-based DataFetcher for the config package.
//
// The file is read once, at construction time, and cached: every Fetch returns the same bytes.
// Reloading is the job of config/watcher, which builds a fresh Fetcher on every change.
//
// Usage:
//
//	fetcher, err := file.NewFetcher("/etc/app/app.conf", file.WithMaxSize(1<<20))()
//	if err != nil {
//	    // file not found, permission denied, path is a directory, file too large
//	}
//	data, err := fetcher.Fetch()
//
// Origin returns the cleaned path, which config uses to label parse errors.
package file
