// Package upstream is the shared JSON-over-HTTP client behind the provider adapters.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/matchcast/pkg/logger"
	"github.com/okian/matchcast/pkg/metrics"
)

// Client defaults.
const (
	DefaultTimeout = 20 * time.Second

	maxBodyBytes = 6 << 20
	maxErrorBody = 256
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // shared codec

// Option applies a configuration option to the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every request sent by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// Client sends GET requests and decodes JSON bodies. Each call is attempted once.
type Client struct {
	provider string
	http     *http.Client
	timeout  time.Duration
	log      logger.Logger
}

// New creates a Client labelled with provider for logs and metrics.
func New(provider string, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		http:     &http.Client{},
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Provider returns the provider label.
func (c *Client) Provider() string {
	return c.provider
}

// GetJSON fetches rawURL with the given headers and decodes the body into target.
// Non-2xx responses map to ErrNotFound (404) or ErrUpstream; decoding failures
// map to ErrDecode.
func (c *Client) GetJSON(ctx context.Context, rawURL string, headers map[string]string, target any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	raw, status, err := c.execute(ctx, rawURL, headers)
	latencyMs := float64(time.Since(start).Nanoseconds()) / 1e6
	if err != nil {
		metrics.RecordUpstreamRequest(c.provider, "transport_error", latencyMs)
		c.debug(ctx, "upstream transport error", logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrUpstream, c.provider, err)
	}
	metrics.RecordUpstreamRequest(c.provider, strconv.Itoa(status), latencyMs)

	switch {
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, c.provider)
	case status < 200 || status >= 300:
		c.debug(ctx, "upstream status", logger.Int("status", status), logger.String("body", abbreviate(raw)))
		return fmt.Errorf("%w: %s status=%d", ErrUpstream, c.provider, status)
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrDecode, c.provider, err)
	}
	return nil
}

func (c *Client) execute(ctx context.Context, rawURL string, headers map[string]string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error embeds the full URL, which may carry an api key.
		var ue *url.Error
		if errors.As(err, &ue) {
			err = ue.Err
		}
		return nil, 0, fmt.Errorf("send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response body: %w", err)
	}
	return raw, resp.StatusCode, nil
}

func (c *Client) debug(ctx context.Context, msg string, fields ...logger.Field) {
	if c.log == nil {
		return
	}
	c.log.Debug(ctx, msg, append(fields, logger.String("provider", c.provider))...)
}

func abbreviate(raw []byte) string {
	if len(raw) > maxErrorBody {
		return string(raw[:maxErrorBody]) + "..."
	}
	return string(raw)
}
