// Package model contains the plain records passed between adapters and the
// prediction engine. Field tags follow the football-data.org v4 payloads so the
// same shapes can be decoded from the provider and from API clients.
package model

import (
	"strings"
	"time"
)

// Winner designates which side won a finished match.
type Winner string

// Winner designations used by the provider.
const (
	WinnerHome Winner = "HOME_TEAM"
	WinnerAway Winner = "AWAY_TEAM"
	WinnerDraw Winner = "DRAW"
)

// Team identifies one side of a match. ID is zero when the provider has not
// decided the team yet (e.g. a knockout slot).
type Team struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	ShortName string `json:"shortName,omitempty"`
	Crest     string `json:"crest,omitempty"`
}

// DisplayName returns the team name or "TBD" for an undecided slot.
func (t Team) DisplayName() string {
	if strings.TrimSpace(t.Name) == "" {
		return "TBD"
	}
	return t.Name
}

// FullTime holds the final goal counts. Either side is nil until the match is over.
type FullTime struct {
	Home *int `json:"home"`
	Away *int `json:"away"`
}

// Score is the provider's score block.
type Score struct {
	Winner   *Winner   `json:"winner"`
	FullTime *FullTime `json:"fullTime"`
}

// Match is a single fixture or result.
type Match struct {
	ID       int    `json:"id"`
	UTCDate  string `json:"utcDate"`
	Status   string `json:"status,omitempty"`
	HomeTeam Team   `json:"homeTeam"`
	AwayTeam Team   `json:"awayTeam"`
	Score    Score  `json:"score"`
}

// FinalGoals returns the full-time goals and whether both are present.
func (m Match) FinalGoals() (home, away int, ok bool) {
	ft := m.Score.FullTime
	if ft == nil || ft.Home == nil || ft.Away == nil {
		return 0, 0, false
	}
	return *ft.Home, *ft.Away, true
}

// Kickoff parses UTCDate. The zero time is returned when it cannot be parsed.
func (m Match) Kickoff() time.Time {
	ts, err := time.Parse(time.RFC3339, m.UTCDate)
	if err != nil {
		return time.Time{}
	}
	return ts.UTC()
}

// Competition is a league or cup offered by the provider.
type Competition struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Plan string `json:"plan,omitempty"`
}

// Location is a geocoded stadium position.
type Location struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Query string  `json:"query,omitempty"`
}

// Weather is the current weather at a venue.
type Weather struct {
	Description  string  `json:"description"`
	TemperatureC float64 `json:"temperature_c"`
	Humidity     int     `json:"humidity"`
}

// UnknownWeather is reported when no weather data is available.
var UnknownWeather = Weather{Description: "unknown", TemperatureC: 18.0, Humidity: 60}

// Goals is a convenience for building FullTime blocks.
func Goals(n int) *int { return &n }

// WinnerOf is a convenience for building Score blocks.
func WinnerOf(w Winner) *Winner { return &w }
