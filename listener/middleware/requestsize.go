package middleware

import (
	"log/slog"
	"net/http"
)

const defaultMaxRequestSizeBytes int64 = 1 << 20

// MaxRequestSize limits request bodies to bytes. A request announcing a larger
// Content-Length is answered with 413 before the handler runs; bodies of
// unknown length are capped with http.MaxBytesReader, so a handler reading past
// the limit gets an *http.MaxBytesError.
//
// If bytes is zero or negative, it defaults to 1MiB and logs a warning.
func MaxRequestSize(bytes int64) func(http.Handler) http.Handler {
	if bytes <= 0 {
		slog.Warn("middleware: bytes must be positive, using default",
			slog.Int64("provided", bytes), slog.Int64("default", defaultMaxRequestSizeBytes))

		bytes = defaultMaxRequestSizeBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > bytes {
				http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)

				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, bytes)
			next.ServeHTTP(w, r)
		})
	}
}
