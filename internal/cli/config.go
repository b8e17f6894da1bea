// Package cli implements the matchcast command line client. It talks to a
// running server over the JSON API and renders listings and predictions as
// text tables or JSON.
package cli

import (
	"fmt"
	"strings"
	"time"
)

// Commands understood by Run.
const (
	CommandHealth       = "health"
	CommandCompetitions = "competitions"
	CommandMatches      = "matches"
	CommandInsight      = "insight"
	CommandForm         = "form"
	CommandSlate        = "slate"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
)

// Config holds configuration for one CLI invocation.
type Config struct {
	BaseURL     string        // Base URL of the service
	Command     string        // One of the Command* constants
	Competition string        // Competition code for matches and slate
	MatchID     int           // Match id for insight
	TeamID      int           // Team id for form
	Limit       int           // Form table rows
	Workers     int           // Concurrent insight requests for slate
	Timeout     time.Duration // HTTP request timeout
	Output      string        // text or json
	Verbose     bool          // Enable verbose logging
}

// Validate checks that the arguments required by the command are present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("%w: -url must not be empty", ErrUsage)
	}
	if c.Output != OutputText && c.Output != OutputJSON {
		return fmt.Errorf("%w: -output must be %q or %q", ErrUsage, OutputText, OutputJSON)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: -timeout must be positive", ErrUsage)
	}

	switch c.Command {
	case CommandHealth, CommandCompetitions:
	case CommandMatches, CommandSlate:
		if strings.TrimSpace(c.Competition) == "" {
			return fmt.Errorf("%w: %s requires -competition", ErrUsage, c.Command)
		}
		if c.Command == CommandSlate && c.Workers < 1 {
			return fmt.Errorf("%w: -workers must be positive", ErrUsage)
		}
	case CommandInsight:
		if c.MatchID < 1 {
			return fmt.Errorf("%w: insight requires -match", ErrUsage)
		}
	case CommandForm:
		if c.TeamID < 1 {
			return fmt.Errorf("%w: form requires -team", ErrUsage)
		}
		if c.Limit < 1 {
			return fmt.Errorf("%w: -limit must be positive", ErrUsage)
		}
	case "":
		return fmt.Errorf("%w: missing command", ErrUsage)
	default:
		return fmt.Errorf("%w: unknown command %q", ErrUsage, c.Command)
	}
	return nil
}

// SlateEntry is one row of a competition slate.
type SlateEntry struct {
	MatchID int     `json:"match_id"`
	Label   string  `json:"label"`
	Home    float64 `json:"home"`
	Draw    float64 `json:"draw"`
	Away    float64 `json:"away"`
	Score   string  `json:"score"`
	Weather string  `json:"weather"`
	Error   string  `json:"error,omitempty"`
}

// Stats holds slate statistics.
type Stats struct {
	Requested  int
	Successful int
	Failed     int
	StartTime  time.Time
	Duration   time.Duration
}
