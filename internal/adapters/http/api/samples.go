package api

import (
	"errors"
	"net/http"

	"github.com/okian/posterboard/internal/domain/samples"
)

// SampleDependencies exposes the canned schedule inputs.
type SampleDependencies interface {
	SampleNames() []string
	Sample(name string) (string, error)
}

// SamplesHandler handles sample requests.
type SamplesHandler struct {
	deps SampleDependencies
}

type sampleListResponse struct {
	Samples []string `json:"samples"`
}

type sampleResponse struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// NewSamplesHandler creates a new samples handler.
func NewSamplesHandler(deps SampleDependencies) *SamplesHandler {
	return &SamplesHandler{deps: deps}
}

// HandleList handles GET /samples requests.
func (h *SamplesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	names := h.deps.SampleNames()
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, sampleListResponse{Samples: names})
}

// HandleGet handles GET /samples/{name} requests.
func (h *SamplesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_sample"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name := pathID(r.URL.Path, "/samples/")
	if name == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	text, err := h.deps.Sample(name)
	if err != nil {
		if errors.Is(err, samples.ErrUnknownSample) {
			writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, sampleResponse{Name: name, Text: text})
}
