package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/matchcast/internal/domain/types"
	"github.com/okian/matchcast/pkg/logger"
)

// Run executes the configured command and writes its result to w.
func Run(ctx context.Context, config *Config, w io.Writer) error {
	if err := config.Validate(); err != nil {
		return err
	}

	log := logger.Get().Named("cli")
	log.Debug(ctx, "running command",
		logger.String("command", config.Command),
		logger.String("baseURL", config.BaseURL),
		logger.Duration("timeout", config.Timeout),
	)

	client := NewClient(config.BaseURL, config.Timeout)
	r := newRenderer(w, config.Output)

	switch config.Command {
	case CommandHealth:
		if err := client.Health(ctx); err != nil {
			return fmt.Errorf("service health check failed: %w", err)
		}
		return r.health()

	case CommandCompetitions:
		list, err := client.Competitions(ctx)
		if err != nil {
			return fmt.Errorf("list competitions: %w", err)
		}
		return r.competitions(list)

	case CommandMatches:
		list, err := client.Matches(ctx, config.Competition)
		if err != nil {
			return fmt.Errorf("list matches: %w", err)
		}
		return r.matches(list)

	case CommandInsight:
		insight, err := client.Insight(ctx, config.MatchID)
		if err != nil {
			return fmt.Errorf("insight %d: %w", config.MatchID, err)
		}
		return r.insight(insight)

	case CommandForm:
		tf, err := client.TeamForm(ctx, config.TeamID, config.Limit)
		if err != nil {
			return fmt.Errorf("form of team %d: %w", config.TeamID, err)
		}
		return r.form(tf)

	case CommandSlate:
		entries, stats, err := runSlate(ctx, client, config)
		if err != nil {
			return err
		}
		log.Info(ctx, "slate completed",
			logger.Int("requested", stats.Requested),
			logger.Int("successful", stats.Successful),
			logger.Int("failed", stats.Failed),
			logger.Duration("duration", stats.Duration),
		)
		return r.slate(entries)
	}
	return nil
}

// runSlate predicts every listed match of a competition concurrently. Failed
// insights are kept as rows carrying the error.
func runSlate(ctx context.Context, client *Client, config *Config) ([]SlateEntry, Stats, error) {
	stats := Stats{StartTime: time.Now()}

	matches, err := client.Matches(ctx, config.Competition)
	if err != nil {
		return nil, stats, fmt.Errorf("list matches: %w", err)
	}
	stats.Requested = len(matches)

	var (
		successful int64
		failed     int64
		mu         sync.Mutex
		entries    = make([]SlateEntry, 0, len(matches))
	)

	matchChan := make(chan types.MatchSummary, config.Workers*2)
	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for m := range matchChan {
				entry := slateEntry(ctx, client, m)
				if entry.Error != "" {
					atomic.AddInt64(&failed, 1)
				} else {
					atomic.AddInt64(&successful, 1)
				}
				mu.Lock()
				entries = append(entries, entry)
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(matchChan)
		for _, m := range matches {
			select {
			case <-ctx.Done():
				return
			case matchChan <- m:
			}
		}
	}()

	wg.Wait()

	// Keep the provider's listing order.
	order := make(map[int]int, len(matches))
	for i, m := range matches {
		order[m.ID] = i
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return order[entries[i].MatchID] < order[entries[j].MatchID]
	})

	stats.Successful = int(atomic.LoadInt64(&successful))
	stats.Failed = int(atomic.LoadInt64(&failed))
	stats.Duration = time.Since(stats.StartTime)

	if err := ctx.Err(); err != nil {
		return entries, stats, fmt.Errorf("slate interrupted: %w", err)
	}
	return entries, stats, nil
}

func slateEntry(ctx context.Context, client *Client, m types.MatchSummary) SlateEntry {
	entry := SlateEntry{MatchID: m.ID, Label: m.Label}
	insight, err := client.Insight(ctx, m.ID)
	if err != nil {
		entry.Error = err.Error()
		return entry
	}
	p := insight.Prediction
	entry.Home = p.Outcome.Home
	entry.Draw = p.Outcome.Draw
	entry.Away = p.Outcome.Away
	entry.Score = fmt.Sprintf("%d - %d", p.Scoreline.Home, p.Scoreline.Away)
	entry.Weather = insight.Weather.Description
	return entry
}
