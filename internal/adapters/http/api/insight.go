package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/matchcast/internal/domain/types"
)

// InsightDependencies defines the interface for match insights.
type InsightDependencies interface {
	Insight(ctx context.Context, matchID int) (types.MatchInsight, error)
}

// InsightHandler handles match insight requests.
type InsightHandler struct {
	deps InsightDependencies
}

// NewInsightHandler creates a new insight handler.
func NewInsightHandler(deps InsightDependencies) *InsightHandler {
	return &InsightHandler{deps: deps}
}

// HandleGetInsight handles GET /api/v1/matches/{matchID}/insight requests.
func (h *InsightHandler) HandleGetInsight(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_insight"
	id, err := strconv.Atoi(mux.Vars(r)["matchID"])
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	insight, err := h.deps.Insight(r.Context(), id)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, insight)
}
