// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LayoutDependencies
	JobDependencies
	SampleDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	layoutHandler  *LayoutHandler
	jobsHandler    *JobsHandler
	samplesHandler *SamplesHandler
}

// NewServer creates a new API server with all handlers.
// maxInputBytes bounds the schedule text accepted in request bodies.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxInputBytes int) *Server {
	limit := bodyLimit(maxInputBytes)
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		layoutHandler:  NewLayoutHandler(deps, limit),
		jobsHandler:    NewJobsHandler(deps, limit),
		samplesHandler: NewSamplesHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/layout", MetricsMiddleware(s.layoutHandler.HandleLayout, "layout"))
	mux.HandleFunc("/jobs", MetricsMiddleware(s.jobsHandler.HandleSubmit, "jobs"))
	mux.HandleFunc("/jobs/", MetricsMiddleware(s.jobsHandler.HandleGetJob, "job"))
	mux.HandleFunc("/samples", MetricsMiddleware(s.samplesHandler.HandleList, "samples"))
	mux.HandleFunc("/samples/", MetricsMiddleware(s.samplesHandler.HandleGet, "sample"))
}

// JSON bodies escape non-ASCII and control characters, so the encoded text
// can be several times larger than the raw text.
const (
	bodyExpansion = 6
	bodyOverhead  = 1 << 10
)

func bodyLimit(maxInputBytes int) int64 {
	if maxInputBytes <= 0 {
		return 0
	}
	return int64(maxInputBytes)*bodyExpansion + bodyOverhead
}

// layoutRequest mirrors the OpenAPI schema for POST /layout and POST /jobs.
type layoutRequest struct {
	Text *string `json:"text"`
}

func (l layoutRequest) validate() error {
	if l.Text == nil {
		return errors.New("missing text")
	}
	return nil
}

// decodeLayoutRequest reads a layoutRequest from r, refusing bodies over limit.
// Errors are of kind ErrInputTooLarge or ErrBadRequest.
func decodeLayoutRequest(w http.ResponseWriter, r *http.Request, op string, limit int64) (string, error) {
	body := r.Body
	if limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	var req layoutRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", WrapKind(op, ErrInputTooLarge, err)
		}
		if errors.Is(err, io.EOF) {
			return "", WrapKind(op, ErrBadRequest, errors.New("empty body"))
		}
		return "", WrapKind(op, ErrBadRequest, err)
	}
	if err := req.validate(); err != nil {
		return "", WrapKind(op, ErrBadRequest, err)
	}
	return *req.Text, nil
}

// writeRequestError reports a body that could not be decoded.
func writeRequestError(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrInputTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "input_too_large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "bad_request", err)
}

// pathID returns the single path segment after prefix, or "" when absent
// or nested.
func pathID(path, prefix string) string {
	id := strings.TrimPrefix(path, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
