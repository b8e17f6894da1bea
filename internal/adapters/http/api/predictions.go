package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/matchcast/internal/domain/model"
	"github.com/okian/matchcast/internal/domain/prediction"
	"github.com/okian/matchcast/internal/domain/types"
)

// maxPredictionBody caps the request body of POST /api/v1/predictions.
const maxPredictionBody = 1 << 20

// PredictionDependencies defines the interface for offline predictions.
type PredictionDependencies interface {
	Predict(ctx context.Context, in prediction.Input) (types.PredictionView, error)
}

// predictionRequest mirrors the OpenAPI schema for POST /api/v1/predictions.
// Matches use the football-data.org match shape.
type predictionRequest struct {
	HomeTeamID  int           `json:"home_team_id"`
	AwayTeamID  int           `json:"away_team_id"`
	HomeMatches []model.Match `json:"home_matches"`
	AwayMatches []model.Match `json:"away_matches"`
	Weather     string        `json:"weather"`
}

func (p predictionRequest) validate() error {
	switch {
	case p.HomeTeamID < 1:
		return errors.New("missing home_team_id")
	case p.AwayTeamID < 0:
		return errors.New("invalid away_team_id")
	case p.HomeTeamID == p.AwayTeamID:
		return errors.New("home_team_id and away_team_id must differ")
	}
	return nil
}

func (p predictionRequest) input() prediction.Input {
	return prediction.Input{
		HomeTeamID:  p.HomeTeamID,
		AwayTeamID:  p.AwayTeamID,
		HomeMatches: p.HomeMatches,
		AwayMatches: p.AwayMatches,
		Weather:     strings.TrimSpace(p.Weather),
	}
}

// PredictionHandler handles offline prediction requests.
type PredictionHandler struct {
	deps PredictionDependencies
}

// NewPredictionHandler creates a new prediction handler.
func NewPredictionHandler(deps PredictionDependencies) *PredictionHandler {
	return &PredictionHandler{deps: deps}
}

// HandlePostPrediction handles POST /api/v1/predictions requests.
func (h *PredictionHandler) HandlePostPrediction(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_prediction"
	var req predictionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictionBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	view, err := h.deps.Predict(r.Context(), req.input())
	if err != nil {
		writeFailure(w, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, view)
}
