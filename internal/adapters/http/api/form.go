package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/okian/matchcast/internal/domain/types"
)

// Form table limits.
const (
	defaultFormLimit = 5
	maxFormLimit     = 50
)

// FormDependencies defines the interface for team form lookups.
type FormDependencies interface {
	TeamForm(ctx context.Context, teamID, limit int) (types.TeamForm, error)
}

// FormHandler handles team form requests.
type FormHandler struct {
	deps     FormDependencies
	maxLimit int
}

// NewFormHandler creates a new form handler.
func NewFormHandler(deps FormDependencies, maxLimit int) *FormHandler {
	return &FormHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetForm handles GET /api/v1/teams/{teamID}/form?limit=N requests.
// The limit defaults to five rows.
func (h *FormHandler) HandleGetForm(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_form"
	teamID, err := strconv.Atoi(mux.Vars(r)["teamID"])
	if err != nil || teamID < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	limit := defaultFormLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		if n > h.maxLimit {
			writeError(w, http.StatusBadRequest, "limit_exceeded", NewKind(op, ErrBadRequest))
			return
		}
		limit = n
	}

	tf, err := h.deps.TeamForm(r.Context(), teamID, limit)
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, tf)
}
