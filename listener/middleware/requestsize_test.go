package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// echoBody answers 413 when the body exceeds the configured limit.
func echoBody(t *testing.T) http.Handler {
	t.Helper()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			assert.True(t, errors.As(err, &tooLarge))

			http.Error(w, "too large", http.StatusRequestEntityTooLarge)

			return
		}

		_, _ = w.Write(body)
	})
}

func TestMaxRequestSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		limit         int64
		body          string
		unknownLength bool
		wantStatus    int
		wantBody      string
	}{
		{name: "small body", limit: 1024, body: "port = 8080", wantStatus: http.StatusOK, wantBody: "port = 8080"},
		{name: "exact limit", limit: 5, body: "12345", wantStatus: http.StatusOK, wantBody: "12345"},
		{name: "no body", limit: 5, wantStatus: http.StatusOK},
		{name: "declared too large", limit: 10, body: strings.Repeat("x", 100), wantStatus: http.StatusRequestEntityTooLarge},
		{
			name: "unknown length too large", limit: 10, body: strings.Repeat("x", 100), unknownLength: true,
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{name: "zero limit uses default", limit: 0, body: strings.Repeat("x", 2048), wantStatus: http.StatusOK},
		{name: "negative limit uses default", limit: -1, body: "abc", wantStatus: http.StatusOK, wantBody: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodPut, "/values/a", strings.NewReader(tt.body))
			if tt.unknownLength {
				req.ContentLength = -1
			}

			rec := httptest.NewRecorder()
			MaxRequestSize(tt.limit)(echoBody(t)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestMaxRequestSize_RejectsBeforeHandler(t *testing.T) {
	t.Parallel()

	called := false
	handler := MaxRequestSize(4)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/values/a", strings.NewReader("too long")))

	assert.False(t, called)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
