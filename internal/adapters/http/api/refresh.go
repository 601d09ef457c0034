package api

import (
	"context"
	"net/http"

	"github.com/okian/arena/internal/domain/types"
)

// RefreshDependencies triggers refreshes and reports their status.
type RefreshDependencies interface {
	Refresh(ctx context.Context) (types.RefreshReport, error)
	Status(ctx context.Context) types.Status
}

// RefreshHandler handles manual refresh and status requests.
type RefreshHandler struct {
	deps RefreshDependencies
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies) *RefreshHandler {
	return &RefreshHandler{deps: deps}
}

// HandleRefresh handles POST /refresh. The refresh runs within the request;
// 409 means another refresh is already running.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_refresh"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.Refresh(r.Context())
	if err != nil {
		respondError(w, classify(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, report)
}

// HandleStatus handles GET /status.
func (h *RefreshHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Status(r.Context()))
}
