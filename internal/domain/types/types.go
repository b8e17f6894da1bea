// Package types contains the views returned by the HTTP API and shared with the CLI.
package types

import (
	"fmt"
	"strconv"

	"github.com/okian/matchcast/internal/domain/form"
	"github.com/okian/matchcast/internal/domain/model"
	"github.com/okian/matchcast/internal/domain/poisson"
	"github.com/okian/matchcast/internal/domain/prediction"
)

// Display layouts.
const (
	DateLayout    = "2006-01-02"
	KickoffLayout = "2006-01-02 15:04"

	missingGoals = "?"
)

// CompetitionEntry is a selectable competition.
type CompetitionEntry struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Label string `json:"label"`
}

// NewCompetitionEntry labels c as "Name (CODE)".
func NewCompetitionEntry(c model.Competition) CompetitionEntry {
	return CompetitionEntry{
		Code:  c.Code,
		Name:  c.Name,
		Label: fmt.Sprintf("%s (%s)", c.Name, c.Code),
	}
}

// MatchSummary is a selectable fixture.
type MatchSummary struct {
	ID       int        `json:"id"`
	Label    string     `json:"label"`
	UTCDate  string     `json:"utc_date"`
	Status   string     `json:"status"`
	HomeTeam model.Team `json:"home_team"`
	AwayTeam model.Team `json:"away_team"`
}

// NewMatchSummary labels m with both team names and the kickoff date.
func NewMatchSummary(m model.Match) MatchSummary {
	return MatchSummary{
		ID:       m.ID,
		Label:    fmt.Sprintf("%s vs %s — %s", m.HomeTeam.DisplayName(), m.AwayTeam.DisplayName(), matchDate(m)),
		UTCDate:  m.UTCDate,
		Status:   m.Status,
		HomeTeam: m.HomeTeam,
		AwayTeam: m.AwayTeam,
	}
}

func matchDate(m model.Match) string {
	if ts := m.Kickoff(); !ts.IsZero() {
		return ts.Format(DateLayout)
	}
	if len(m.UTCDate) >= len(DateLayout) {
		return m.UTCDate[:len(DateLayout)]
	}
	return m.UTCDate
}

// FormRow is one line of a recent form table.
type FormRow struct {
	Date     string `json:"date"`
	Opponent string `json:"opponent"`
	// Result is the provider's winner designation; empty when not decided.
	Result  string       `json:"result"`
	Outcome form.Outcome `json:"outcome,omitempty"`
	Score   string       `json:"score"`
}

// NewFormTable renders up to limit matches from teamID's perspective.
func NewFormTable(matches []model.Match, teamID, limit int) []FormRow {
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	rows := make([]FormRow, 0, len(matches))
	for _, m := range matches {
		opponent := m.HomeTeam
		if m.HomeTeam.ID == teamID {
			opponent = m.AwayTeam
		}
		row := FormRow{
			Date:     matchDate(m),
			Opponent: opponent.DisplayName(),
			Score:    ScoreLabel(m),
		}
		if m.Score.Winner != nil {
			row.Result = string(*m.Score.Winner)
		}
		if r, ok := form.ResultOf(m, teamID); ok {
			row.Outcome = r.Outcome
		}
		rows = append(rows, row)
	}
	return rows
}

// ScoreLabel renders the full-time score as "h - a" with "?" for a missing side.
func ScoreLabel(m model.Match) string {
	home, away := missingGoals, missingGoals
	if ft := m.Score.FullTime; ft != nil {
		if ft.Home != nil {
			home = strconv.Itoa(*ft.Home)
		}
		if ft.Away != nil {
			away = strconv.Itoa(*ft.Away)
		}
	}
	return home + " - " + away
}

// TeamForm is a team's form summary and table.
type TeamForm struct {
	TeamID  int          `json:"team_id"`
	Summary form.Summary `json:"summary"`
	Table   []FormRow    `json:"table"`
}

// PredictionView is the public shape of a prediction.
type PredictionView struct {
	ID              string            `json:"id"`
	Rates           prediction.Rates  `json:"expected_goals"`
	Outcome         poisson.Outcome   `json:"probabilities"`
	Scoreline       poisson.Scoreline `json:"scoreline"`
	HomeForm        form.Summary      `json:"home_form"`
	AwayForm        form.Summary      `json:"away_form"`
	WeatherDampened bool              `json:"weather_dampened"`
	Grid            poisson.Grid      `json:"grid,omitempty"`
}

// NewPredictionView converts p. The grid is included only when withGrid is set.
func NewPredictionView(id string, p prediction.Prediction, withGrid bool) PredictionView {
	v := PredictionView{
		ID:              id,
		Rates:           p.Rates,
		Outcome:         p.Outcome,
		Scoreline:       p.Scoreline,
		HomeForm:        p.HomeForm,
		AwayForm:        p.AwayForm,
		WeatherDampened: p.WeatherDampened,
	}
	if withGrid {
		v.Grid = p.Grid
	}
	return v
}

// Venue is the geocoded home stadium.
type Venue struct {
	model.Location
	MapURL string `json:"map_url"`
}

// MatchInsight is the full dashboard report for one fixture.
type MatchInsight struct {
	MatchID    int            `json:"match_id"`
	HomeTeam   model.Team     `json:"home_team"`
	AwayTeam   model.Team     `json:"away_team"`
	Kickoff    string         `json:"kickoff"`
	Status     string         `json:"status"`
	Venue      Venue          `json:"venue"`
	Weather    model.Weather  `json:"weather"`
	Prediction PredictionView `json:"prediction"`
	HomeRecent []FormRow      `json:"home_recent"`
	AwayRecent []FormRow      `json:"away_recent"`
}

// KickoffLabel renders the kickoff as "YYYY-MM-DD HH:MM" in UTC, falling back to
// the raw provider value when it cannot be parsed.
func KickoffLabel(m model.Match) string {
	if ts := m.Kickoff(); !ts.IsZero() {
		return ts.Format(KickoffLayout)
	}
	return m.UTCDate
}
