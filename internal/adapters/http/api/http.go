// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/okian/matchcast/internal/adapters/provider/upstream"
	service "github.com/okian/matchcast/internal/app"
	"github.com/okian/matchcast/internal/domain/prediction"
	"github.com/okian/matchcast/internal/domain/types"
)

// APIPrefix is the path prefix of the versioned JSON API.
const APIPrefix = "/api/v1"

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Competitions(ctx context.Context) ([]types.CompetitionEntry, error)
	Matches(ctx context.Context, code string) ([]types.MatchSummary, error)
	Insight(ctx context.Context, matchID int) (types.MatchInsight, error)
	TeamForm(ctx context.Context, teamID, limit int) (types.TeamForm, error)
	Predict(ctx context.Context, in prediction.Input) (types.PredictionView, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	competitionHandler *CompetitionHandler
	insightHandler     *InsightHandler
	formHandler        *FormHandler
	predictionHandler  *PredictionHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		competitionHandler: NewCompetitionHandler(deps),
		insightHandler:     NewInsightHandler(deps),
		formHandler:        NewFormHandler(deps, maxFormLimit),
		predictionHandler:  NewPredictionHandler(deps),
	}
}

// Register attaches all HTTP routes to router. The request ID middleware is
// installed on the API subrouter and the operational endpoints.
func (s *Server) Register(_ context.Context, router *mux.Router) {
	if router == nil {
		panic("router is nil")
	}

	router.HandleFunc("/healthz", RequestIDMiddleware(MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))).Methods(http.MethodGet)
	router.HandleFunc("/stats", RequestIDMiddleware(MetricsMiddleware(s.statsHandler.HandleStats, "stats"))).Methods(http.MethodGet)

	v1 := router.PathPrefix(APIPrefix).Subrouter()
	v1.HandleFunc("/competitions",
		RequestIDMiddleware(MetricsMiddleware(s.competitionHandler.HandleListCompetitions, "competitions"))).Methods(http.MethodGet)
	v1.HandleFunc("/competitions/{code}/matches",
		RequestIDMiddleware(MetricsMiddleware(s.competitionHandler.HandleListMatches, "matches"))).Methods(http.MethodGet)
	v1.HandleFunc("/matches/{matchID:[0-9]+}/insight",
		RequestIDMiddleware(MetricsMiddleware(s.insightHandler.HandleGetInsight, "insight"))).Methods(http.MethodGet)
	v1.HandleFunc("/teams/{teamID:[0-9]+}/form",
		RequestIDMiddleware(MetricsMiddleware(s.formHandler.HandleGetForm, "form"))).Methods(http.MethodGet)
	v1.HandleFunc("/predictions",
		RequestIDMiddleware(MetricsMiddleware(s.predictionHandler.HandlePostPrediction, "predictions"))).Methods(http.MethodPost)
	v1.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
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

// writeFailure maps a dependency error onto its HTTP status and error code.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

// classify translates service and provider sentinels into a status and code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, upstream.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, upstream.ErrMissingAPIKey):
		return http.StatusServiceUnavailable, "not_configured"
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrNotConfigured):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "upstream_timeout"
	case errors.Is(err, upstream.ErrUpstream), errors.Is(err, upstream.ErrDecode):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
