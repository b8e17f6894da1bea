package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/okian/matchcast/internal/domain/types"
)

// CompetitionDependencies defines the interface for competition listings.
type CompetitionDependencies interface {
	Competitions(ctx context.Context) ([]types.CompetitionEntry, error)
	Matches(ctx context.Context, code string) ([]types.MatchSummary, error)
}

// CompetitionHandler handles competition and fixture listing requests.
type CompetitionHandler struct {
	deps CompetitionDependencies
}

// NewCompetitionHandler creates a new competition handler.
func NewCompetitionHandler(deps CompetitionDependencies) *CompetitionHandler {
	return &CompetitionHandler{deps: deps}
}

// HandleListCompetitions handles GET /api/v1/competitions requests.
func (h *CompetitionHandler) HandleListCompetitions(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_competitions"
	entries, err := h.deps.Competitions(r.Context())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// HandleListMatches handles GET /api/v1/competitions/{code}/matches requests.
func (h *CompetitionHandler) HandleListMatches(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_matches"
	code := strings.TrimSpace(mux.Vars(r)["code"])
	if code == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	matches, err := h.deps.Matches(r.Context(), code)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, matches)
}
