package prediction

import (
	"fmt"

	"github.com/okian/matchcast/internal/domain/form"
	"github.com/okian/matchcast/internal/domain/model"
	"github.com/okian/matchcast/internal/domain/poisson"
)

// DefaultFormWindow is the number of recent finished matches behind a form summary.
const DefaultFormWindow = 8

// Input carries already-fetched data for one fixture.
type Input struct {
	HomeTeamID  int
	AwayTeamID  int
	HomeMatches []model.Match
	AwayMatches []model.Match
	Weather     string
}

// Prediction is the full forecast for one fixture.
type Prediction struct {
	HomeForm        form.Summary      `json:"home_form"`
	AwayForm        form.Summary      `json:"away_form"`
	Rates           Rates             `json:"rates"`
	Grid            poisson.Grid      `json:"grid"`
	Outcome         poisson.Outcome   `json:"outcome"`
	Scoreline       poisson.Scoreline `json:"scoreline"`
	WeatherDampened bool              `json:"weather_dampened"`
}

// Predictor forecasts a fixture from resolved inputs.
type Predictor interface {
	Predict(in Input) (Prediction, error)
}

// Engine chains form summaries, rate estimation, the scoreline grid and outcome
// aggregation. It holds configuration only and is safe for concurrent use.
type Engine struct {
	maxGoals      int
	homeAdvantage float64
	formWindow    int
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		maxGoals:      poisson.DefaultMaxGoals,
		homeAdvantage: DefaultHomeAdvantage,
		formWindow:    DefaultFormWindow,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxGoals returns the configured goal cap.
func (e *Engine) MaxGoals() int { return e.maxGoals }

// FormWindow returns the configured form window.
func (e *Engine) FormWindow() int { return e.formWindow }

// Summarize returns the form of teamID over the engine's window.
func (e *Engine) Summarize(matches []model.Match, teamID int) form.Summary {
	return form.Summarize(e.window(matches), teamID)
}

// Estimate computes rates using the engine's home advantage.
func (e *Engine) Estimate(home, away form.Summary, weather string) Rates {
	return estimate(home, away, weather, e.homeAdvantage)
}

// Predict runs the whole chain for in.
func (e *Engine) Predict(in Input) (Prediction, error) {
	home := e.Summarize(in.HomeMatches, in.HomeTeamID)
	away := e.Summarize(in.AwayMatches, in.AwayTeamID)
	return e.PredictFromForm(home, away, in.Weather)
}

// PredictFromForm runs the chain from already summarized form.
func (e *Engine) PredictFromForm(home, away form.Summary, weather string) (Prediction, error) {
	rates := e.Estimate(home, away, weather)
	grid := poisson.BuildGrid(rates.Home, rates.Away, e.maxGoals)
	outcome, err := poisson.Aggregate(grid)
	if err != nil {
		return Prediction{}, fmt.Errorf("aggregate grid: %w", err)
	}

	return Prediction{
		HomeForm:        home,
		AwayForm:        away,
		Rates:           rates,
		Grid:            grid,
		Outcome:         outcome,
		Scoreline:       poisson.MostLikelyScoreline(grid),
		WeatherDampened: IsAdverseWeather(weather),
	}, nil
}

func (e *Engine) window(matches []model.Match) []model.Match {
	if len(matches) > e.formWindow {
		return matches[:e.formWindow]
	}
	return matches
}
