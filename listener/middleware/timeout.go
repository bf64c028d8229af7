package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const defaultTimeoutDuration = 30 * time.Second

// Timeout puts a deadline on the request context. A handler that observes the
// cancelled context and returns without writing is answered with 504.
// If duration is not positive, it defaults to 30s with a warning log.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	if duration <= 0 {
		slog.Warn("middleware: duration must be positive, using default",
			slog.Duration("provided", duration), slog.Duration("default", defaultTimeoutDuration))

		duration = defaultTimeoutDuration
	}

	return chimw.Timeout(duration)
}
