package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/satheeshds/phonebook/models"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// unknownEndpoint is the catch-all for unmatched routes.
func unknownEndpoint(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "unknown endpoint")
}

type errorKind int

const (
	kindInternal errorKind = iota
	kindInput
	kindNotFound
)

// apiError is a failure already classified into the response it maps to.
type apiError struct {
	kind errorKind
	msg  string
	err  error
}

func (e *apiError) Error() string { return e.msg }
func (e *apiError) Unwrap() error { return e.err }

func inputError(msg string, err error) error {
	return &apiError{kind: kindInput, msg: msg, err: err}
}

// classify maps store and model failures onto an error kind.
func classify(err error) *apiError {
	var aerr *apiError
	if errors.As(err, &aerr) {
		return aerr
	}
	var verr *models.ValidationError
	switch {
	case errors.Is(err, models.ErrMalformedID):
		return &apiError{kind: kindInput, msg: "malformatted id", err: err}
	case errors.As(err, &verr):
		return &apiError{kind: kindInput, msg: verr.Error(), err: err}
	case errors.Is(err, models.ErrNotFound):
		return &apiError{kind: kindNotFound, err: err}
	default:
		return &apiError{kind: kindInternal, msg: "internal server error", err: err}
	}
}

// handlerFunc is an HTTP handler that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts fn to http.HandlerFunc, writing any returned error once.
func (h *Handler) handle(fn handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := fn(w, r)
		if err == nil {
			return
		}
		aerr := classify(err)
		switch aerr.kind {
		case kindInput:
			h.logger.Debug("rejected request", "path", r.URL.Path, "error", err, "request_id", middleware.GetReqID(r.Context()))
			writeError(w, http.StatusBadRequest, aerr.msg)
		case kindNotFound:
			w.WriteHeader(http.StatusNotFound)
		default:
			h.logger.Error("request failed", "path", r.URL.Path, "error", err, "request_id", middleware.GetReqID(r.Context()))
			writeError(w, http.StatusInternalServerError, aerr.msg)
		}
	}
}

var buckets = metrics.ExponentialBuckets(1e-3, 5, 6)

// meterRequests records request counts and durations labelled by route pattern.
func meterRequests(set *metrics.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			labels := `{method="` + r.Method + `",path="` + path + `",status="` + strconv.Itoa(status) + `"}`
			set.GetOrCreateCounter(`http_requests_total` + labels).Inc()
			set.GetOrCreatePrometheusHistogramExt(`http_request_duration_seconds`+labels, buckets).UpdateDuration(start)
		})
	}
}
