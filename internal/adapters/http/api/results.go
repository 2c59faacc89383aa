// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// ResultsHandler handles raw result submissions.
type ResultsHandler struct {
	queue Submitter
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(queue Submitter) *ResultsHandler {
	return &ResultsHandler{queue: queue}
}

// HandlePostResult handles POST /results requests.
func (h *ResultsHandler) HandlePostResult(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_result"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxResultBody)
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	// Hand off for async persistence. A saturated or closed queue is a
	// capacity signal, not a client fault, so it maps to 503 rather
	// than 4xx and the caller may retry.
	if err := h.queue.Enqueue(r.Context(), req.toRecord(time.Now())); err != nil {
		writeError(w, http.StatusServiceUnavailable, "backpressure", WrapKind(op, ErrBackpressure, err))
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
}
