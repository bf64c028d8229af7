package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Recovery recovers from panics in downstream handlers, logs the panic value
// and stack via global slog and answers 500. When the handler already started
// the response, only the log entry is written. http.ErrAbortHandler is re-panicked.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() { //nolint:contextcheck
				rec := recover()
				if rec == nil {
					return
				}

				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				attrs := []slog.Attr{
					slog.String("panic", fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}

				if reqID := GetRequestID(r.Context()); reqID != "" {
					attrs = append(attrs, slog.String("request_id", reqID))
				}

				if ww.Status() != 0 {
					attrs = append(attrs, slog.Bool("response_already_written", true))
					slog.LogAttrs(r.Context(), slog.LevelError,
						"panic recovered after response was already written", attrs...)

					return
				}

				slog.LogAttrs(r.Context(), slog.LevelError, "panic recovered", attrs...)

				http.Error(ww, "Internal Server Error", http.StatusInternalServerError)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
