// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// InvalidateHandler handles explicit cache invalidation requests.
type InvalidateHandler struct {
	deps Invalidator
}

// NewInvalidateHandler creates a new invalidation handler.
func NewInvalidateHandler(deps Invalidator) *InvalidateHandler {
	return &InvalidateHandler{deps: deps}
}

// HandleInvalidate handles POST /leaderboard/invalidate requests. The
// cached snapshot and secondary stats are dropped synchronously; the
// rebuild happens lazily on the next read.
func (h *InvalidateHandler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	h.deps.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, ackResponse{Status: "invalidated"})
}
