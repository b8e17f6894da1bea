// Package form summarizes a team's recent finished matches into per-game rates.
package form

import (
	"github.com/okian/matchcast/internal/domain/model"
)

// Points awarded per outcome.
const (
	pointsWin  = 3
	pointsDraw = 1
	pointsLoss = 0

	// formBaseline is subtracted from points per game to centre the form value.
	formBaseline = 1.0
)

// Outcome is the result of a match from one team's perspective.
type Outcome string

// Possible outcomes.
const (
	Win  Outcome = "WIN"
	Draw Outcome = "DRAW"
	Loss Outcome = "LOSS"
)

// Points returns the league points earned for the outcome.
func (o Outcome) Points() int {
	switch o {
	case Win:
		return pointsWin
	case Draw:
		return pointsDraw
	default:
		return pointsLoss
	}
}

// Result is a finished match seen from one team's side.
type Result struct {
	TeamID       int
	GoalsFor     int
	GoalsAgainst int
	Outcome      Outcome
}

// Summary is a team's recent form.
type Summary struct {
	GoalsForPerGame     float64 `json:"goals_for_per_game"`
	GoalsAgainstPerGame float64 `json:"goals_against_per_game"`
	PointsPerGame       float64 `json:"points_per_game"`
	FormValue           float64 `json:"form_value"`
	// Matches is the number of valid matches behind the summary; zero for the default.
	Matches int `json:"matches"`
}

// DefaultSummary is returned when a team has no usable finished match.
// It describes a mid-table side: slightly more goals scored than conceded and
// 1.5 points per game.
var DefaultSummary = Summary{
	GoalsForPerGame:     1.2,
	GoalsAgainstPerGame: 1.1,
	PointsPerGame:       1.5,
	FormValue:           0.0,
}

// IsDefault reports whether s came from the default policy rather than data.
func (s Summary) IsDefault() bool {
	return s.Matches == 0
}

// ResultOf converts m into a Result from teamID's perspective. ok is false when
// the match has no complete full-time score or either side has negative goals.
func ResultOf(m model.Match, teamID int) (Result, bool) {
	home, away, ok := m.FinalGoals()
	if !ok || home < 0 || away < 0 {
		return Result{}, false
	}

	isHome := teamID == m.HomeTeam.ID
	r := Result{TeamID: teamID, GoalsFor: away, GoalsAgainst: home}
	if isHome {
		r.GoalsFor, r.GoalsAgainst = home, away
	}
	r.Outcome = outcomeOf(m, teamID, home, away)
	return r, true
}

// outcomeOf prefers the provider's winner designation and falls back to the goals.
func outcomeOf(m model.Match, teamID, home, away int) Outcome {
	winner := m.Score.Winner
	if winner == nil {
		switch {
		case home == away:
			return Draw
		case home > away && teamID == m.HomeTeam.ID:
			return Win
		case away > home && teamID == m.AwayTeam.ID:
			return Win
		default:
			return Loss
		}
	}

	switch *winner {
	case model.WinnerDraw:
		return Draw
	case model.WinnerHome:
		if teamID == m.HomeTeam.ID {
			return Win
		}
	case model.WinnerAway:
		if teamID == m.AwayTeam.ID {
			return Win
		}
	}
	return Loss
}

// Results returns the valid finished matches of the window from teamID's side.
func Results(matches []model.Match, teamID int) []Result {
	out := make([]Result, 0, len(matches))
	for _, m := range matches {
		if r, ok := ResultOf(m, teamID); ok {
			out = append(out, r)
		}
	}
	return out
}

// Summarize aggregates matches into a Summary for teamID. It never fails: when
// no match carries a complete score the DefaultSummary is returned.
func Summarize(matches []model.Match, teamID int) Summary {
	results := Results(matches, teamID)
	if len(results) == 0 {
		return DefaultSummary
	}

	var gf, ga, pts int
	for _, r := range results {
		gf += r.GoalsFor
		ga += r.GoalsAgainst
		pts += r.Outcome.Points()
	}

	games := float64(max(len(results), 1))
	ppg := float64(pts) / games
	return Summary{
		GoalsForPerGame:     float64(gf) / games,
		GoalsAgainstPerGame: float64(ga) / games,
		PointsPerGame:       ppg,
		FormValue:           ppg - formBaseline,
		Matches:             len(results),
	}
}
