// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// StatsHandler handles aggregate statistics requests.
type StatsHandler struct {
	deps StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsProvider) *StatsHandler {
	return &StatsHandler{deps: deps}
}

// HandleGetStats handles GET /leaderboard/stats requests.
func (h *StatsHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_stats"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	stats, err := h.deps.Stats(r.Context())
	if err != nil {
		writeReadError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
