// Package prediction turns two teams' recent form into expected goal rates and
// a Poisson outcome forecast.
package prediction

import (
	"math"
	"strings"

	"github.com/okian/matchcast/internal/domain/form"
)

// Rate model constants.
const (
	// attackWeight and defenceWeight blend a side's scoring with the opponent's conceding.
	attackWeight  = 0.65
	defenceWeight = 0.35

	// DefaultHomeAdvantage multiplies the home side's base rate.
	DefaultHomeAdvantage = 1.12

	// MinRate and MaxRate bound every expected goal rate.
	MinRate = 0.2
	MaxRate = 3.2

	// weatherFactor dampens both rates in rain or snow.
	weatherFactor = 0.95
)

// Rates are the expected goals of each side.
type Rates struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Estimate computes expected goal rates with the default home advantage.
func Estimate(home, away form.Summary, weather string) Rates {
	return estimate(home, away, weather, DefaultHomeAdvantage)
}

func estimate(home, away form.Summary, weather string, homeAdvantage float64) Rates {
	r := Rates{
		Home: math.Max(MinRate, attackWeight*home.GoalsForPerGame+defenceWeight*away.GoalsAgainstPerGame) * homeAdvantage,
		Away: math.Max(MinRate, attackWeight*away.GoalsForPerGame+defenceWeight*home.GoalsAgainstPerGame),
	}
	if IsAdverseWeather(weather) {
		r.Home *= weatherFactor
		r.Away *= weatherFactor
	}
	r.Home = clamp(r.Home)
	r.Away = clamp(r.Away)
	return r
}

// IsAdverseWeather reports whether the first word of the description is rain or snow.
// "light rain" is not adverse: only the first word is inspected.
func IsAdverseWeather(description string) bool {
	words := strings.Fields(strings.ToLower(description))
	if len(words) == 0 {
		return false
	}
	switch words[0] {
	case "rain", "snow":
		return true
	default:
		return false
	}
}

// clamp keeps a rate in [MinRate, MaxRate]. The lower bound matters after the
// weather factor pulls a floored rate below it.
func clamp(v float64) float64 {
	if math.IsNaN(v) {
		return MinRate
	}
	return math.Min(MaxRate, math.Max(MinRate, v))
}
