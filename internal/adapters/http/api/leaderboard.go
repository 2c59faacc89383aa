// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// BoardHandler handles paginated leaderboard requests.
type BoardHandler struct {
	deps PageProvider
}

// NewBoardHandler creates a new leaderboard page handler.
func NewBoardHandler(deps PageProvider) *BoardHandler {
	return &BoardHandler{deps: deps}
}

// HandleGetLeaderboard handles GET /leaderboard?page=N&size=M requests.
// Missing parameters fall through as zero so the engine applies its own
// defaults and clamps; only non-numeric values are rejected here.
func (h *BoardHandler) HandleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_leaderboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	page, err := queryInt(r, "page")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	size, err := queryInt(r, "size")
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
		return
	}
	result, err := h.deps.Page(r.Context(), page, size)
	if err != nil {
		writeReadError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
