package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/matchcast/internal/domain/types"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxResponseBytes caps the bodies read from the server.
const maxResponseBytes = 8 << 20

// Client calls the matchcast JSON API.
type Client struct {
	client  *http.Client
	baseURL string
}

// NewClient creates a new API client with timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Health checks that the service is up.
func (c *Client) Health(ctx context.Context) error {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/healthz", &out); err != nil {
		return err
	}
	if out.Status != "ok" {
		return fmt.Errorf("%w: health status %q", ErrRequest, out.Status)
	}
	return nil
}

// Competitions lists the selectable competitions.
func (c *Client) Competitions(ctx context.Context) ([]types.CompetitionEntry, error) {
	var out []types.CompetitionEntry
	return out, c.getJSON(ctx, "/api/v1/competitions", &out)
}

// Matches lists the matches of a competition.
func (c *Client) Matches(ctx context.Context, code string) ([]types.MatchSummary, error) {
	var out []types.MatchSummary
	return out, c.getJSON(ctx, "/api/v1/competitions/"+url.PathEscape(code)+"/matches", &out)
}

// Insight fetches the full insight of a match.
func (c *Client) Insight(ctx context.Context, matchID int) (types.MatchInsight, error) {
	var out types.MatchInsight
	return out, c.getJSON(ctx, "/api/v1/matches/"+strconv.Itoa(matchID)+"/insight", &out)
}

// TeamForm fetches a team's form.
func (c *Client) TeamForm(ctx context.Context, teamID, limit int) (types.TeamForm, error) {
	var out types.TeamForm
	path := "/api/v1/teams/" + strconv.Itoa(teamID) + "/form?limit=" + strconv.Itoa(limit)
	return out, c.getJSON(ctx, path, &out)
}

func (c *Client) getJSON(ctx context.Context, path string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %w", ErrRequest, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &payload) == nil {
			apiErr.Code, apiErr.Message = payload.Code, payload.Message
		}
		return apiErr
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrRequest, path, err)
	}
	return nil
}
