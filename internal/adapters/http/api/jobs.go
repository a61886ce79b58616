package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/posterboard/internal/app"
	"github.com/okian/posterboard/internal/domain/model"
)

// JobDependencies defines the asynchronous layout operations.
type JobDependencies interface {
	// Submit queues text for layout. Returns the job id.
	Submit(ctx context.Context, text string) (string, error)
	Job(ctx context.Context, id string) (model.Job, error)
}

// JobsHandler handles layout job requests.
type JobsHandler struct {
	deps  JobDependencies
	limit int64
}

type submitResponse struct {
	ID     string          `json:"id"`
	Status model.JobStatus `json:"status"`
}

// NewJobsHandler creates a new jobs handler.
func NewJobsHandler(deps JobDependencies, limit int64) *JobsHandler {
	return &JobsHandler{deps: deps, limit: limit}
}

// HandleSubmit handles POST /jobs requests.
func (h *JobsHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	const op = "api.submit_job"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	text, err := decodeLayoutRequest(w, r, op, h.limit)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	id, err := h.deps.Submit(r.Context(), text)
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, submitResponse{ID: id, Status: model.JobPending})
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	case errors.Is(err, service.ErrInputTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "input_too_large", WrapKind(op, ErrInputTooLarge, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// HandleGetJob handles GET /jobs/{id} requests.
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	id := pathID(r.URL.Path, "/jobs/")
	if id == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	job, err := h.deps.Job(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}
