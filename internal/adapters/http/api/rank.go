// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/hanawi96/testiq-sub006/internal/leaderboard"
)

// RankHandler handles rank neighborhood requests.
type RankHandler struct {
	deps WindowProvider
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps WindowProvider) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{identity} requests. The identity is
// matched against subject IDs first and identity keys second, so both
// forms work as a path parameter.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /rank/
	identity := strings.TrimPrefix(r.URL.Path, "/rank/")
	if identity == "" || strings.Contains(identity, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	window, err := h.deps.Window(r.Context(), identity)
	if err != nil {
		if errors.Is(err, leaderboard.ErrIdentityNotFound) {
			writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
			return
		}
		writeReadError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, window)
}
