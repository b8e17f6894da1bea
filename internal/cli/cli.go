package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/matchcast/pkg/logger"
)

// SetupLogging initializes the global logger on stderr so command output on
// stdout stays machine readable.
func SetupLogging(verbose bool) error {
	return setupLogging(os.Stderr, verbose)
}

func setupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("failed to set log level: %w", err)
	}
	return nil
}

// ShowHelp prints usage information for the predict tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Matchcast Prediction Client
===========================

Queries a running matchcast server and prints listings and predictions.

Usage:
  go run ./cmd/predict [options] <command>

Commands:
  health          Check that the server is up
  competitions    List the available competitions
  matches         List the matches of -competition
  insight         Show the full prediction for -match
  form            Show the recent form of -team
  slate           Predict every listed match of -competition concurrently

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -competition string
        Competition code, e.g. PL
  -match int
        Match id
  -team int
        Team id
  -limit int
        Form table rows (default 5)
  -workers int
        Concurrent insight requests for slate (default 4)
  -timeout duration
        HTTP request timeout (default 1m)
  -output string
        Output format: text or json (default "text")
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  go run ./cmd/predict competitions
  go run ./cmd/predict -competition PL matches
  go run ./cmd/predict -match 497410 insight
  go run ./cmd/predict -team 57 -limit 8 -output json form
  go run ./cmd/predict -competition SA -workers 8 slate
`)
}
