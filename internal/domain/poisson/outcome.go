package poisson

import (
	"errors"
	"math"
)

// Aggregation errors.
var (
	// ErrZeroMass is returned when a grid carries no probability at all.
	ErrZeroMass = errors.New("scoreline grid has zero probability mass")
	// ErrNonFiniteMass is returned when grid cells overflowed to NaN or infinity.
	ErrNonFiniteMass = errors.New("scoreline grid has non-finite probability mass")
)

// Outcome holds normalized home win, draw and away win probabilities.
type Outcome struct {
	Home float64 `json:"home"`
	Draw float64 `json:"draw"`
	Away float64 `json:"away"`
}

// Scoreline is an exact final score.
type Scoreline struct {
	Home int `json:"home"`
	Away int `json:"away"`
}

// Aggregate sums the grid below, on and above the diagonal and divides each
// part by the grid total, so the mass truncated by the goal cap is spread
// proportionally over the three outcomes.
func Aggregate(g Grid) (Outcome, error) {
	var home, draw, away float64
	for h, row := range g {
		for a, p := range row {
			switch {
			case h > a:
				home += p
			case h == a:
				draw += p
			default:
				away += p
			}
		}
	}

	total := home + draw + away
	switch {
	case math.IsNaN(total), math.IsInf(total, 0):
		return Outcome{}, ErrNonFiniteMass
	case total <= 0:
		return Outcome{}, ErrZeroMass
	}
	return Outcome{
		Home: home / total,
		Draw: draw / total,
		Away: away / total,
	}, nil
}

// MostLikelyScoreline returns the cell with the highest probability. Ties go to
// the first cell in row-major order (home goals ascending, then away goals).
func MostLikelyScoreline(g Grid) Scoreline {
	var best Scoreline
	bestP := -1.0
	for h, row := range g {
		for a, p := range row {
			if p > bestP {
				bestP = p
				best = Scoreline{Home: h, Away: a}
			}
		}
	}
	return best
}
