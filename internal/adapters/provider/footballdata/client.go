// Package footballdata reads competitions and matches from the football-data.org v4 API.
package footballdata

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/matchcast/internal/adapters/provider/upstream"
	"github.com/okian/matchcast/internal/domain/model"
)

// Provider constants.
const (
	ProviderName = "football-data"
	authHeader   = "X-Auth-Token"

	// TierOne is the plan of the competitions available on the free tier.
	TierOne = "TIER_ONE"

	// DefaultRecentLimit is the number of finished matches fetched per team.
	DefaultRecentLimit = 8
)

// StatusOrder is the order in which match statuses are tried when listing a
// competition: the first status with any match wins.
var StatusOrder = []string{"LIVE", "SCHEDULED", "IN_PLAY", "PAUSED", "TIMED", "FINISHED"} //nolint:gochecknoglobals // fixed provider order

type competitionsEnvelope struct {
	Competitions []model.Competition `json:"competitions"`
}

type matchesEnvelope struct {
	Matches []model.Match `json:"matches"`
}

// Client is a football-data.org client.
type Client struct {
	api     *upstream.Client
	baseURL string
	apiKey  string
}

// New creates a Client. baseURL defaults to the public v4 endpoint when empty.
func New(api *upstream.Client, baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.football-data.org/v4"
	}
	return &Client{api: api, baseURL: baseURL, apiKey: strings.TrimSpace(apiKey)}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// Competitions returns the TIER_ONE competitions.
func (c *Client) Competitions(ctx context.Context) ([]model.Competition, error) {
	var env competitionsEnvelope
	if err := c.get(ctx, "/competitions", nil, &env); err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	out := make([]model.Competition, 0, len(env.Competitions))
	for _, comp := range env.Competitions {
		if comp.Plan == TierOne {
			out = append(out, comp)
		}
	}
	return out, nil
}

// Matches returns the matches of a competition for the first status in
// StatusOrder that has any. An empty slice means no status had matches.
func (c *Client) Matches(ctx context.Context, code string) ([]model.Match, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, fmt.Errorf("%w: empty competition code", upstream.ErrNotFound)
	}
	path := "/competitions/" + url.PathEscape(code) + "/matches"
	for _, status := range StatusOrder {
		var env matchesEnvelope
		if err := c.get(ctx, path, url.Values{"status": {status}}, &env); err != nil {
			return nil, fmt.Errorf("list matches of %s (%s): %w", code, status, err)
		}
		if len(env.Matches) > 0 {
			return env.Matches, nil
		}
	}
	return []model.Match{}, nil
}

// Match returns a single match.
func (c *Client) Match(ctx context.Context, id int) (model.Match, error) {
	var m model.Match
	if err := c.get(ctx, "/matches/"+strconv.Itoa(id), nil, &m); err != nil {
		return model.Match{}, fmt.Errorf("get match %d: %w", id, err)
	}
	return m, nil
}

// TeamMatches returns up to limit finished matches of a team, most recent first
// as ordered by the provider.
func (c *Client) TeamMatches(ctx context.Context, teamID, limit int) ([]model.Match, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	q := url.Values{"status": {"FINISHED"}, "limit": {strconv.Itoa(limit)}}
	var env matchesEnvelope
	if err := c.get(ctx, "/teams/"+strconv.Itoa(teamID)+"/matches", q, &env); err != nil {
		return nil, fmt.Errorf("recent matches of team %d: %w", teamID, err)
	}
	return env.Matches, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, target any) error {
	if !c.Configured() {
		return upstream.ErrMissingAPIKey
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return c.api.GetJSON(ctx, u, map[string]string{authHeader: c.apiKey}, target)
}
