// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/arena/internal/adapters/repository"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	LeaderboardDependencies
	RankDependencies
	MatchupsDependencies
	HistoryDependencies
	RefreshDependencies
	StatsProvider
}

// Entry mirrors the read shape returned by leaderboard queries.
type Entry = types.Entry

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	rankHandler        *RankHandler
	matchupsHandler    *MatchupsHandler
	historyHandler     *HistoryHandler
	refreshHandler     *RefreshHandler
}

// NewServer creates a new API server with all handlers. maxLimit caps the
// leaderboard and history page size.
func NewServer(deps Dependencies, maxLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps, maxLimit),
		rankHandler:        NewRankHandler(deps),
		matchupsHandler:    NewMatchupsHandler(deps),
		historyHandler:     NewHistoryHandler(deps, maxLimit),
		refreshHandler:     NewRefreshHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/status", MetricsMiddleware(s.refreshHandler.HandleStatus, "status"))
	mux.HandleFunc("/refresh", MetricsMiddleware(s.refreshHandler.HandleRefresh, "refresh"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(s.leaderboardHandler.HandleGetLeaderboard, "leaderboard"))
	mux.HandleFunc("/rank/", MetricsMiddleware(s.rankHandler.HandleGetRank, "rank"))
	mux.HandleFunc("/matchups/", MetricsMiddleware(s.matchupsHandler.HandleGetMatchups, "matchups"))
	mux.HandleFunc("/history/", MetricsMiddleware(s.historyHandler.HandleGetHistory, "history"))
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

// classify maps errors from lower layers onto API kinds.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return WrapKind(op, ErrNotFound, err)
	case errors.Is(err, repository.ErrNoSnapshot):
		return WrapKind(op, ErrNotReady, err)
	case errors.Is(err, repository.ErrInvalidLimit):
		return WrapKind(op, ErrBadRequest, err)
	case errors.Is(err, service.ErrRefreshInFlight):
		return WrapKind(op, ErrConflict, err)
	case errors.Is(err, service.ErrHistoryDisabled):
		return WrapKind(op, ErrNotEnabled, err)
	case errors.Is(err, service.ErrRefreshFailed), errors.Is(err, service.ErrNoFetcher):
		return WrapKind(op, ErrUpstream, err)
	default:
		return WrapKind(op, ErrInternal, err)
	}
}

// respondError writes err with the status and code of its kind.
func respondError(w http.ResponseWriter, err error) {
	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, ErrLimitExceeded):
		status, code = http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, ErrBadRequest):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, ErrNotReady):
		status, code = http.StatusServiceUnavailable, "not_ready"
	case errors.Is(err, ErrConflict):
		status, code = http.StatusConflict, "refresh_in_progress"
	case errors.Is(err, ErrNotEnabled):
		status, code = http.StatusNotImplemented, "not_enabled"
	case errors.Is(err, ErrUpstream):
		status, code = http.StatusBadGateway, "upstream_error"
	}
	writeError(w, status, code, err)
}
