// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hanawi96/testiq-sub006/internal/domain/model"
	"github.com/hanawi96/testiq-sub006/internal/domain/types"
	"github.com/hanawi96/testiq-sub006/internal/leaderboard"
)

// maxResultBody bounds POST bodies so a misbehaving client cannot
// hold a handler goroutine on an unbounded read.
const maxResultBody = 1 << 20

// Stats mirrors the aggregate shape returned by leaderboard queries.
type Stats = types.Stats

// PageProvider serves paginated leaderboard reads.
type PageProvider interface {
	Page(ctx context.Context, page, size int) (leaderboard.Page, error)
}

// StatsProvider serves aggregate leaderboard statistics.
type StatsProvider interface {
	Stats(ctx context.Context) (Stats, error)
}

// WindowProvider serves rank neighborhoods around a single identity.
type WindowProvider interface {
	Window(ctx context.Context, identity string) (leaderboard.Window, error)
}

// Invalidator drops cached leaderboard state so the next read rebuilds it.
type Invalidator interface {
	Invalidate(ctx context.Context)
}

// Dependencies required by the read-side HTTP handlers. Using an interface
// bundle keeps the handler layer loosely coupled to implementations in
// other packages.
type Dependencies interface {
	PageProvider
	StatsProvider
	WindowProvider
	Invalidator
}

// Submitter accepts raw results for async persistence.
type Submitter interface {
	Enqueue(ctx context.Context, rec model.TestResultRecord) error
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	boardHandler      *BoardHandler
	statsHandler      *StatsHandler
	resultsHandler    *ResultsHandler
	rankHandler       *RankHandler
	invalidateHandler *InvalidateHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, queue Submitter) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		boardHandler:      NewBoardHandler(deps),
		statsHandler:      NewStatsHandler(deps),
		resultsHandler:    NewResultsHandler(queue),
		rankHandler:       NewRankHandler(deps),
		invalidateHandler: NewInvalidateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/results", MetricsMiddleware(s.resultsHandler.HandlePostResult, "results"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.boardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/leaderboard/stats", MetricsMiddleware(s.statsHandler.HandleGetStats, "stats"))
	mux.HandleFunc("/leaderboard/invalidate", MetricsMiddleware(s.invalidateHandler.HandleInvalidate, "invalidate"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
}

// resultRequest mirrors the OpenAPI schema for POST /results.
type resultRequest struct {
	IdentityKey string `json:"identityKey"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
	Location    string `json:"location"`
	Gender      string `json:"gender"`
	Age         int    `json:"age"`
	TestedAt    string `json:"testedAt"`
	SubjectID   string `json:"subjectId"`
}

func (req resultRequest) validate() error {
	switch {
	case strings.TrimSpace(req.DisplayName) == "":
		return errors.New("missing displayName")
	case req.Score <= 0:
		return errors.New("missing or non-positive score")
	}
	if strings.TrimSpace(req.TestedAt) != "" {
		if _, err := time.Parse(time.RFC3339, req.TestedAt); err != nil {
			return errors.New("invalid testedAt; must be RFC3339")
		}
	}
	return nil
}

// toRecord converts the wire shape into a raw result record. Records with
// no testedAt timestamp are stamped with the current time so growth stats
// still see them. The store assigns the record ID on insert.
func (req resultRequest) toRecord(now time.Time) model.TestResultRecord {
	testedAt := now.UTC()
	if raw := strings.TrimSpace(req.TestedAt); raw != "" {
		if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
			testedAt = parsed.UTC()
		}
	}
	return model.TestResultRecord{
		IdentityKey: strings.TrimSpace(req.IdentityKey),
		DisplayName: strings.TrimSpace(req.DisplayName),
		Score:       req.Score,
		Location:    strings.TrimSpace(req.Location),
		Gender:      strings.TrimSpace(req.Gender),
		Age:         req.Age,
		TestedAt:    testedAt,
		SubjectID:   strings.TrimSpace(req.SubjectID),
	}
}

type ackResponse struct {
	Status string `json:"status"`
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

// writeReadError maps engine read failures onto HTTP statuses. A degraded
// store with no snapshot to fall back on surfaces as 503 so load balancers
// can route around the instance; anything else is a plain 500.
func writeReadError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, leaderboard.ErrStoreUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", Wrap(op, err))
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
}
