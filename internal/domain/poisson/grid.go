// Package poisson builds scoreline probability grids from two independent
// Poisson goal rates and reduces them to match outcome probabilities.
package poisson

import "math"

// Goal cap bounds.
const (
	// DefaultMaxGoals is the per-side goal cap of a grid.
	DefaultMaxGoals = 6
	// MaxGoalsLimit is the largest cap the engine accepts. Far above it the
	// factorial and power terms overflow and cells turn into NaN.
	MaxGoalsLimit = 20
)

// Grid holds scoreline probabilities; Grid[h][a] is P(home scores h, away scores a).
// Scorelines above the cap are not represented, so the cells sum to slightly less
// than one.
type Grid [][]float64

// PMF returns P(X = k) for X ~ Poisson(lambda), i.e. e^-λ · λ^k / k!.
func PMF(k int, lambda float64) float64 {
	if k < 0 {
		return 0
	}
	return math.Exp(-lambda) * math.Pow(lambda, float64(k)) / factorial(k)
}

func factorial(k int) float64 {
	f := 1.0
	for i := 2; i <= k; i++ {
		f *= float64(i)
	}
	return f
}

// BuildGrid returns the (maxGoals+1)×(maxGoals+1) grid for the two rates. The
// sides are independent: each cell is the product of the marginals.
func BuildGrid(lambdaHome, lambdaAway float64, maxGoals int) Grid {
	if maxGoals < 0 {
		maxGoals = 0
	}
	n := maxGoals + 1

	home := make([]float64, n)
	away := make([]float64, n)
	for k := 0; k < n; k++ {
		home[k] = PMF(k, lambdaHome)
		away[k] = PMF(k, lambdaAway)
	}

	g := make(Grid, n)
	for h := 0; h < n; h++ {
		g[h] = make([]float64, n)
		for a := 0; a < n; a++ {
			g[h][a] = home[h] * away[a]
		}
	}
	return g
}

// MaxGoals returns the goal cap the grid was built with.
func (g Grid) MaxGoals() int {
	return len(g) - 1
}

// Total returns the probability mass held by the grid.
func (g Grid) Total() float64 {
	var sum float64
	for _, row := range g {
		for _, p := range row {
			sum += p
		}
	}
	return sum
}

// At returns the cell for the scoreline, or zero outside the grid.
func (g Grid) At(home, away int) float64 {
	if home < 0 || home >= len(g) || away < 0 || away >= len(g[home]) {
		return 0
	}
	return g[home][away]
}
