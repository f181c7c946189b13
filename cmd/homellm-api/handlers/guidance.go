package handlers

import (
	"net/http"

	"github.com/spherical/homellm/internal/dataset"
	"github.com/spherical/homellm/internal/guidance"
	"github.com/spherical/homellm/internal/observability"
)

// GuidanceHandler serves the static guidance tables and dataset.
type GuidanceHandler struct {
	logger   *observability.Logger
	examples []dataset.Example
}

// NewGuidanceHandler creates a new guidance handler.
func NewGuidanceHandler(logger *observability.Logger, examples []dataset.Example) *GuidanceHandler {
	return &GuidanceHandler{logger: logger, examples: examples}
}

// Snapshot handles GET /guidance.
func (h *GuidanceHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	snap := guidance.BuildSnapshot(guidance.Selection{
		Issue:      q.Get("issue"),
		Recipient:  q.Get("recipient"),
		Escalation: q.Get("escalation"),
		Urgency:    q.Get("urgency"),
		State:      q.Get("state"),
	})
	writeJSON(w, http.StatusOK, snap)
}

// Tables handles GET /guidance/tables.
func (h *GuidanceHandler) Tables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, guidance.SelectorOptions())
}

// DatasetResponseDTO lists the bundled training examples.
type DatasetResponseDTO struct {
	Examples []dataset.Example `json:"examples"`
	Count    int               `json:"count"`
}

// Dataset handles GET /dataset.
func (h *GuidanceHandler) Dataset(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, DatasetResponseDTO{Examples: h.examples, Count: len(h.examples)})
}
