package inspect

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/0xalexb/strictcfg/cfgerr"
	"github.com/0xalexb/strictcfg/config"
	"github.com/0xalexb/strictcfg/encode"
	"github.com/0xalexb/strictcfg/keypath"
	"github.com/0xalexb/strictcfg/listener/middleware"
	"github.com/0xalexb/strictcfg/logging"
	"github.com/0xalexb/strictcfg/value"

	"github.com/go-chi/chi/v5"
)

const (
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

// ValueResponse describes one value. Value is null for floats JSON cannot carry.
type ValueResponse struct {
	Path    string `json:"path"`
	Kind    string `json:"kind"`
	Literal string `json:"literal"`
	Value   any    `json:"value"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error     string `json:"error"`
	Kind      string `json:"kind"`
	Path      string `json:"path,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// Violation is one schema violation.
type Violation struct {
	Kind    string `json:"kind"`
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ViolationsResponse lists the violations of the current state.
type ViolationsResponse struct {
	Valid      bool        `json:"valid"`
	Violations []Violation `json:"violations"`
}

type handler struct {
	svc *Service
}

// NewHandler routes the inspector endpoints to svc.
func NewHandler(svc *Service) http.Handler {
	h := &handler{svc: svc}

	r := chi.NewRouter()
	r.Get("/values/{path}", h.getValue)
	r.Put("/values/{path}", h.putValue)
	r.Delete("/values/{path}", h.deleteValue)
	r.Get("/document", h.getDocument)
	r.Get("/violations", h.getViolations)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusNotFound, ErrorResponse{
			Error: "no such endpoint", Kind: "other", RequestID: middleware.GetRequestID(r.Context()),
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusMethodNotAllowed, ErrorResponse{
			Error: "method not allowed", Kind: "other", RequestID: middleware.GetRequestID(r.Context()),
		})
	})

	return r
}

func (h *handler) getValue(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")

	v, err := h.svc.Get(path, r.URL.Query().Get("kind"))
	if err != nil {
		respondWithError(w, r, path, err)

		return
	}

	respondWithValue(w, r, http.StatusOK, path, v)
}

func (h *handler) putValue(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")

	retype := false

	if raw := r.URL.Query().Get("retype"); raw != "" {
		var err error

		retype, err = strconv.ParseBool(raw)
		if err != nil {
			respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
				Error: "retype must be a boolean", Kind: "other", Path: path,
				RequestID: middleware.GetRequestID(r.Context()),
			})

			return
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondWithError(w, r, path, err)

		return
	}

	v, err := h.svc.Set(path, string(body), retype)
	if err != nil {
		respondWithError(w, r, path, err)

		return
	}

	slog.Info("value set", slog.String("path", path), slog.String("kind", value.KindOf(v).String()),
		slog.Bool("retype", retype))

	respondWithValue(w, r, http.StatusOK, path, v)
}

func (h *handler) deleteValue(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "path")

	err := h.svc.Delete(path)
	if err != nil {
		respondWithError(w, r, path, err)

		return
	}

	slog.Info("value deleted", slog.String("path", path))

	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) getDocument(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", contentTypeText)
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, config.Serialize(h.svc.Document()))
}

func (h *handler) getViolations(w http.ResponseWriter, _ *http.Request) {
	violations := h.svc.Violations()

	resp := ViolationsResponse{
		Valid:      len(violations) == 0,
		Violations: make([]Violation, 0, len(violations)),
	}

	for _, v := range violations {
		resp.Violations = append(resp.Violations, Violation{
			Kind:    logging.ErrorKind(v),
			Path:    v.ConfigPath(),
			Message: v.Error(),
		})
	}

	respondWithJSON(w, http.StatusOK, resp)
}

func respondWithValue(w http.ResponseWriter, r *http.Request, status int, path string, v value.Value) {
	literal, err := encode.FormatValue(v)
	if err != nil {
		respondWithError(w, r, path, err)

		return
	}

	var native any
	if jsonSafe(v) {
		native = value.ToAny(v)
	}

	respondWithJSON(w, status, ValueResponse{
		Path:    path,
		Kind:    value.KindOf(v).String(),
		Literal: literal,
		Value:   native,
	})
}

func respondWithError(w http.ResponseWriter, r *http.Request, path string, err error) {
	status := statusFor(err)

	if status >= http.StatusInternalServerError {
		slog.Error("inspector request failed", slog.String("path", path), logging.ErrorAttr(err))
	}

	if p := cfgerr.Path(err); p != "" {
		path = p
	}

	respondWithJSON(w, status, ErrorResponse{
		Error:     err.Error(),
		Kind:      logging.ErrorKind(err),
		Path:      path,
		RequestID: middleware.GetRequestID(r.Context()),
	})
}

func respondWithJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", logging.ErrorAttr(err))
	}
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.Is(err, cfgerr.ErrMissingKey):
		return http.StatusNotFound
	case errors.Is(err, cfgerr.ErrTypeMismatch):
		return http.StatusConflict
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, cfgerr.ErrParse),
		errors.Is(err, keypath.ErrInvalidPath),
		errors.Is(err, value.ErrUnknownKind):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// jsonSafe reports whether v holds no NaN or infinite floats.
func jsonSafe(v value.Value) bool {
	switch x := v.(type) {
	case value.Float:
		f := float64(x)

		return !math.IsNaN(f) && !math.IsInf(f, 0)
	case value.Array:
		for _, elem := range x {
			if !jsonSafe(elem) {
				return false
			}
		}
	case *value.Table:
		for _, elem := range x.All() {
			if !jsonSafe(elem) {
				return false
			}
		}
	}

	return true
}
