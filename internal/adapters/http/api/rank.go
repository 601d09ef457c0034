package api

import (
	"context"
	"net/http"

	"github.com/okian/arena/internal/domain/types"
)

// RankDependencies defines the interface for rank operations.
type RankDependencies interface {
	Rank(ctx context.Context, model string) (Entry, error)
}

// RankHandler handles rank requests.
type RankHandler struct {
	deps RankDependencies
}

// NewRankHandler creates a new rank handler.
func NewRankHandler(deps RankDependencies) *RankHandler {
	return &RankHandler{deps: deps}
}

// HandleGetRank handles GET /rank/{model} requests.
func (h *RankHandler) HandleGetRank(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_rank"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name, ok := pathParam(r, "/rank/")
	if !ok {
		respondError(w, NewKind(op, ErrBadRequest))
		return
	}
	entry, err := h.deps.Rank(r.Context(), name)
	if err != nil {
		respondError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// MatchupsDependencies defines the interface for head-to-head lookups.
type MatchupsDependencies interface {
	Matchups(ctx context.Context, model string) ([]types.MatchupRow, error)
}

// MatchupsHandler handles head-to-head requests.
type MatchupsHandler struct {
	deps MatchupsDependencies
}

// NewMatchupsHandler creates a new matchups handler.
func NewMatchupsHandler(deps MatchupsDependencies) *MatchupsHandler {
	return &MatchupsHandler{deps: deps}
}

// HandleGetMatchups handles GET /matchups/{model} requests.
func (h *MatchupsHandler) HandleGetMatchups(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_matchups"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name, ok := pathParam(r, "/matchups/")
	if !ok {
		respondError(w, NewKind(op, ErrBadRequest))
		return
	}
	rows, err := h.deps.Matchups(r.Context(), name)
	if err != nil {
		respondError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HistoryDependencies defines the interface for rating history lookups.
type HistoryDependencies interface {
	History(ctx context.Context, model string, limit int) ([]types.HistoryPoint, error)
}

// HistoryHandler handles rating history requests.
type HistoryHandler struct {
	deps     HistoryDependencies
	maxLimit int
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(deps HistoryDependencies, maxLimit int) *HistoryHandler {
	return &HistoryHandler{deps: deps, maxLimit: maxLimit}
}

// HandleGetHistory handles GET /history/{model}?limit=N requests.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_history"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	name, ok := pathParam(r, "/history/")
	if !ok {
		respondError(w, NewKind(op, ErrBadRequest))
		return
	}
	limit, err := parseLimit(op, r, h.maxLimit, h.maxLimit)
	if err != nil {
		respondError(w, err)
		return
	}
	points, err := h.deps.History(r.Context(), name, limit)
	if err != nil {
		respondError(w, classify(op, err))
		return
	}
	if points == nil {
		points = []types.HistoryPoint{}
	}
	writeJSON(w, http.StatusOK, points)
}
