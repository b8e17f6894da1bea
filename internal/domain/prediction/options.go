package prediction

import "github.com/okian/matchcast/internal/domain/poisson"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithMaxGoals sets the per-side goal cap of the scoreline grid. Values outside
// [1, poisson.MaxGoalsLimit] are ignored.
func WithMaxGoals(n int) Option {
	return func(e *Engine) {
		if n > 0 && n <= poisson.MaxGoalsLimit {
			e.maxGoals = n
		}
	}
}

// WithHomeAdvantage sets the multiplier applied to the home side's base rate.
func WithHomeAdvantage(f float64) Option {
	return func(e *Engine) {
		if f > 0 {
			e.homeAdvantage = f
		}
	}
}

// WithFormWindow limits how many of the most recent matches feed a team's form.
func WithFormWindow(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.formWindow = n
		}
	}
}
