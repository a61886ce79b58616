package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/posterboard/internal/app"
	"github.com/okian/posterboard/internal/domain/model"
)

// LayoutDependencies defines the synchronous layout operation.
type LayoutDependencies interface {
	Layout(ctx context.Context, text string) (model.Layout, error)
}

// LayoutHandler handles layout requests.
type LayoutHandler struct {
	deps  LayoutDependencies
	limit int64
}

// NewLayoutHandler creates a new layout handler.
func NewLayoutHandler(deps LayoutDependencies, limit int64) *LayoutHandler {
	return &LayoutHandler{deps: deps, limit: limit}
}

// HandleLayout handles POST /layout requests.
func (h *LayoutHandler) HandleLayout(w http.ResponseWriter, r *http.Request) {
	const op = "api.layout"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	text, err := decodeLayoutRequest(w, r, op, h.limit)
	if err != nil {
		writeRequestError(w, err)
		return
	}

	layout, err := h.deps.Layout(r.Context(), text)
	if err != nil {
		if errors.Is(err, service.ErrInputTooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "input_too_large", WrapKind(op, ErrInputTooLarge, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, layout)
}
