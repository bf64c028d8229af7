package middleware

import (
	"net/http"
	"time"
)

// Middleware wraps an http.Handler.
type Middleware = func(http.Handler) http.Handler

// Chain wraps h so that mws run in the given order; mws[0] is outermost.
func Chain(h http.Handler, mws ...Middleware) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return h
}

// Standard is the stack every listener serves through: request ID, access
// log, panic recovery, body limit and request deadline.
func Standard(maxBodyBytes int64, timeout time.Duration) []Middleware {
	return []Middleware{
		RequestID(),
		Logging(),
		Recovery(),
		MaxRequestSize(maxBodyBytes),
		Timeout(timeout),
	}
}
