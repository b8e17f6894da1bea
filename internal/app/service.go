// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchcast/internal/adapters/provider/upstream"
	"github.com/okian/matchcast/internal/domain/form"
	"github.com/okian/matchcast/internal/domain/model"
	"github.com/okian/matchcast/internal/domain/prediction"
	"github.com/okian/matchcast/internal/domain/types"
	"github.com/okian/matchcast/pkg/logger"
	"github.com/okian/matchcast/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultFormTableSize = 5
	maxFormLimit         = 50
)

// MatchSource reads competitions and matches from the football data provider.
type MatchSource interface {
	Configured() bool
	Competitions(ctx context.Context) ([]model.Competition, error)
	Matches(ctx context.Context, code string) ([]model.Match, error)
	Match(ctx context.Context, id int) (model.Match, error)
	TeamMatches(ctx context.Context, teamID, limit int) ([]model.Match, error)
}

// Locator geocodes a team's home stadium.
type Locator interface {
	Locate(ctx context.Context, team string) (model.Location, error)
	MapURL(loc model.Location) string
}

// WeatherSource reports current weather. It never fails.
type WeatherSource interface {
	Current(ctx context.Context, loc model.Location) model.Weather
}

// Forecaster is the prediction engine as used by the service.
type Forecaster interface {
	Summarize(matches []model.Match, teamID int) form.Summary
	PredictFromForm(home, away form.Summary, weather string) (prediction.Prediction, error)
	FormWindow() int
}

// Service implements the API dependencies for match predictions.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	matches MatchSource
	locator Locator
	weather WeatherSource
	engine  Forecaster

	// Configuration
	formTableSize int
	includeGrid   bool

	// State
	started bool

	// Counters exposed by GetStats
	insights         atomic.Int64
	predictions      atomic.Int64
	predictionErrors atomic.Int64
	formFallbacks    atomic.Int64
	weatherDampened  atomic.Int64
	upstreamFailures atomic.Int64

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMatchSource sets the football data provider.
func WithMatchSource(src MatchSource) Option {
	return func(s *Service) {
		if src != nil {
			s.matches = src
		}
	}
}

// WithLocator sets the stadium geocoder.
func WithLocator(l Locator) Option {
	return func(s *Service) {
		if l != nil {
			s.locator = l
		}
	}
}

// WithWeatherSource sets the weather provider.
func WithWeatherSource(w WeatherSource) Option {
	return func(s *Service) {
		if w != nil {
			s.weather = w
		}
	}
}

// WithForecaster replaces the default prediction engine.
func WithForecaster(f Forecaster) Option {
	return func(s *Service) {
		if f != nil {
			s.engine = f
		}
	}
}

// WithFormTableSize sets the number of rows in the recent form tables.
func WithFormTableSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.formTableSize = n
		}
	}
}

// WithGrid includes the scoreline grid in prediction views.
func WithGrid(include bool) Option {
	return func(s *Service) {
		s.includeGrid = include
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		engine:        prediction.New(),
		formTableSize: defaultFormTableSize,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start checks the collaborators and marks the service ready.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.matches == nil || s.locator == nil || s.weather == nil {
		return ErrNotConfigured
	}
	if !s.matches.Configured() {
		s.logger.Warn(ctx, "football data api key is not set; match endpoints will fail")
	}

	s.started = true
	s.logger.Info(ctx, "prediction service started",
		logger.Int("formWindow", s.engine.FormWindow()),
		logger.Int("formTableSize", s.formTableSize),
	)
	return nil
}

// Stop marks the service as stopped.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "prediction service stopped")
}

func (s *Service) ready() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// requireFootballKey fails before any upstream call when the key is missing.
func (s *Service) requireFootballKey() error {
	if err := s.ready(); err != nil {
		return err
	}
	if !s.matches.Configured() {
		return fmt.Errorf("football data: %w", upstream.ErrMissingAPIKey)
	}
	return nil
}

// Competitions returns the selectable competitions.
func (s *Service) Competitions(ctx context.Context) ([]types.CompetitionEntry, error) {
	if err := s.requireFootballKey(); err != nil {
		return nil, err
	}
	comps, err := s.matches.Competitions(ctx)
	if err != nil {
		s.upstreamFailure(ctx, "competitions", err)
		return nil, err
	}
	out := make([]types.CompetitionEntry, 0, len(comps))
	for _, c := range comps {
		out = append(out, types.NewCompetitionEntry(c))
	}
	return out, nil
}

// Matches returns the selectable fixtures of a competition.
func (s *Service) Matches(ctx context.Context, code string) ([]types.MatchSummary, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: competition code is required", ErrInvalidArgument)
	}
	if err := s.requireFootballKey(); err != nil {
		return nil, err
	}
	matches, err := s.matches.Matches(ctx, code)
	if err != nil {
		s.upstreamFailure(ctx, "matches", err)
		return nil, err
	}
	out := make([]types.MatchSummary, 0, len(matches))
	for _, m := range matches {
		out = append(out, types.NewMatchSummary(m))
	}
	return out, nil
}

// TeamForm returns a team's summary over the form window and its form table.
func (s *Service) TeamForm(ctx context.Context, teamID, limit int) (types.TeamForm, error) {
	if teamID <= 0 {
		return types.TeamForm{}, fmt.Errorf("%w: team id must be positive", ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = s.formTableSize
	}
	limit = min(limit, maxFormLimit)
	if err := s.requireFootballKey(); err != nil {
		return types.TeamForm{}, err
	}

	recent, err := s.matches.TeamMatches(ctx, teamID, max(limit, s.engine.FormWindow()))
	if err != nil {
		s.upstreamFailure(ctx, "team_matches", err)
		return types.TeamForm{}, err
	}
	return types.TeamForm{
		TeamID:  teamID,
		Summary: s.engine.Summarize(recent, teamID),
		Table:   types.NewFormTable(recent, teamID, limit),
	}, nil
}

// Insight builds the full report for a match: venue, weather, prediction and
// both teams' recent form.
func (s *Service) Insight(ctx context.Context, matchID int) (types.MatchInsight, error) {
	if matchID <= 0 {
		return types.MatchInsight{}, fmt.Errorf("%w: match id must be positive", ErrInvalidArgument)
	}
	if err := s.requireFootballKey(); err != nil {
		return types.MatchInsight{}, err
	}

	m, err := s.matches.Match(ctx, matchID)
	if err != nil {
		s.upstreamFailure(ctx, "match", err)
		return types.MatchInsight{}, err
	}

	loc, err := s.locator.Locate(ctx, m.HomeTeam.DisplayName())
	if err != nil {
		s.upstreamFailure(ctx, "geocode", err)
		return types.MatchInsight{}, err
	}
	wx := s.weather.Current(ctx, loc)

	homeRecent := s.recentMatches(ctx, m.HomeTeam)
	awayRecent := s.recentMatches(ctx, m.AwayTeam)

	view, err := s.forecast(ctx,
		s.engine.Summarize(homeRecent, m.HomeTeam.ID),
		s.engine.Summarize(awayRecent, m.AwayTeam.ID),
		wx.Description,
	)
	if err != nil {
		return types.MatchInsight{}, err
	}

	s.insights.Add(1)
	metrics.RecordInsightServed()

	return types.MatchInsight{
		MatchID:    m.ID,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		Kickoff:    types.KickoffLabel(m),
		Status:     m.Status,
		Venue:      types.Venue{Location: loc, MapURL: s.locator.MapURL(loc)},
		Weather:    wx,
		Prediction: view,
		HomeRecent: types.NewFormTable(homeRecent, m.HomeTeam.ID, s.formTableSize),
		AwayRecent: types.NewFormTable(awayRecent, m.AwayTeam.ID, s.formTableSize),
	}, nil
}

// recentMatches returns a team's form window. An undecided team or a failed
// lookup yields no matches, so its form falls back to the default summary.
func (s *Service) recentMatches(ctx context.Context, team model.Team) []model.Match {
	if team.ID <= 0 {
		return nil
	}
	recent, err := s.matches.TeamMatches(ctx, team.ID, s.engine.FormWindow())
	if err != nil {
		s.upstreamFailure(ctx, "team_matches", err)
		s.logger.Warn(ctx, "recent matches unavailable, using default form",
			logger.Int("teamID", team.ID),
			logger.String("team", team.DisplayName()),
		)
		return nil
	}
	return recent
}

// Predict runs the engine on caller-supplied matches without any upstream call.
func (s *Service) Predict(ctx context.Context, in prediction.Input) (types.PredictionView, error) {
	if err := s.ready(); err != nil {
		return types.PredictionView{}, err
	}
	return s.forecast(ctx,
		s.engine.Summarize(in.HomeMatches, in.HomeTeamID),
		s.engine.Summarize(in.AwayMatches, in.AwayTeamID),
		in.Weather,
	)
}

func (s *Service) forecast(ctx context.Context, home, away form.Summary, weather string) (types.PredictionView, error) {
	start := time.Now()
	p, err := s.engine.PredictFromForm(home, away, weather)
	if err != nil {
		s.predictionErrors.Add(1)
		metrics.RecordPredictionError()
		metrics.RecordErrorByComponent("prediction", "engine_error")
		s.logger.Error(ctx, "prediction failed", logger.Error(err))
		return types.PredictionView{}, fmt.Errorf("predict: %w", err)
	}
	latencyMs := float64(time.Since(start).Nanoseconds()) / 1e6

	s.predictions.Add(1)
	metrics.RecordPrediction(latencyMs, p.Rates.Home, p.Rates.Away)
	if home.IsDefault() {
		s.formFallbacks.Add(1)
		metrics.RecordFormFallback("home")
	}
	if away.IsDefault() {
		s.formFallbacks.Add(1)
		metrics.RecordFormFallback("away")
	}
	if p.WeatherDampened {
		s.weatherDampened.Add(1)
		metrics.RecordWeatherDampened()
	}

	id := uuid.NewString()
	s.logger.Debug(ctx, "prediction computed",
		logger.String("predictionID", id),
		logger.Float64("lambdaHome", p.Rates.Home),
		logger.Float64("lambdaAway", p.Rates.Away),
		logger.Float64("pHome", p.Outcome.Home),
		logger.Float64("pDraw", p.Outcome.Draw),
		logger.Float64("pAway", p.Outcome.Away),
		logger.Bool("weatherDampened", p.WeatherDampened),
	)
	return types.NewPredictionView(id, p, s.includeGrid), nil
}

func (s *Service) upstreamFailure(ctx context.Context, op string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.upstreamFailures.Add(1)
	metrics.RecordErrorByComponent("upstream", op)
	s.logger.Warn(ctx, "upstream call failed", logger.String("op", op), logger.Error(err))
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":          started,
		"formWindow":       s.engine.FormWindow(),
		"formTableSize":    s.formTableSize,
		"insights":         s.insights.Load(),
		"predictions":      s.predictions.Load(),
		"predictionErrors": s.predictionErrors.Load(),
		"formFallbacks":    s.formFallbacks.Load(),
		"weatherDampened":  s.weatherDampened.Load(),
		"upstreamFailures": s.upstreamFailures.Load(),
	}
	if s.matches != nil {
		stats["footballConfigured"] = s.matches.Configured()
	}
	return stats
}
