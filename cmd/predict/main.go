package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/matchcast/internal/cli"
)

// Default configuration constants.
const (
	defaultLimit   = 5
	defaultWorkers = 4
	defaultTimeout = time.Minute
)

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:9080", "Base URL of the service")
		competition = flag.String("competition", "", "Competition code, e.g. PL")
		matchID     = flag.Int("match", 0, "Match id")
		teamID      = flag.Int("team", 0, "Team id")
		limit       = flag.Int("limit", defaultLimit, "Form table rows")
		workers     = flag.Int("workers", defaultWorkers, "Concurrent insight requests for slate")
		timeout     = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		output      = flag.String("output", cli.OutputText, "Output format: text or json")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help || flag.NArg() == 0 {
		cli.ShowHelp(os.Stdout)
		return
	}

	if err := cli.SetupLogging(*verbose); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	config := &cli.Config{
		BaseURL:     *baseURL,
		Command:     flag.Arg(0),
		Competition: *competition,
		MatchID:     *matchID,
		TeamID:      *teamID,
		Limit:       *limit,
		Workers:     *workers,
		Timeout:     *timeout,
		Output:      *output,
		Verbose:     *verbose,
	}

	if err := cli.Run(ctx, config, os.Stdout); err != nil {
		os.Stderr.WriteString("Error: " + err.Error() + "\n")
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
