// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and MATCHCAST_* environment variables on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// maxGoalsLimit bounds max_goals so the scoreline grid stays finite.
const maxGoalsLimit = 20

// Default upstream endpoints.
const (
	DefaultFootballBaseURL = "https://api.football-data.org/v4"
	DefaultGeocodeBaseURL  = "https://maps.googleapis.com"
	DefaultWeatherBaseURL  = "https://api.openweathermap.org"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Provider API keys. Empty keys disable the provider: football data and
	// geocoding fail with a missing key error, weather falls back to unknown.
	FootballAPIKey    string `koanf:"football_api_key"`
	GoogleMapsAPIKey  string `koanf:"google_maps_api_key"`
	OpenWeatherAPIKey string `koanf:"openweather_api_key"`

	// Provider base URLs, overridable for tests and proxies.
	FootballBaseURL string `koanf:"football_base_url"`
	GeocodeBaseURL  string `koanf:"geocode_base_url"`
	WeatherBaseURL  string `koanf:"weather_base_url"`

	// UpstreamTimeoutMS bounds each provider call.
	UpstreamTimeoutMS int `koanf:"upstream_timeout_ms"`

	// FormWindow is the number of recent finished matches behind a form summary.
	FormWindow int `koanf:"form_window"`

	// FormTableSize is the number of rows in the recent form tables.
	FormTableSize int `koanf:"form_table_size"`

	// MaxGoals caps goals per side in the scoreline grid.
	MaxGoals int `koanf:"max_goals"`

	// HomeAdvantage multiplies the home side's expected goals.
	HomeAdvantage float64 `koanf:"home_advantage"`

	// IncludeGrid adds the full scoreline grid to prediction responses.
	IncludeGrid bool `koanf:"include_grid"`
}

// New creates a Config with defaults. Context is accepted first to satisfy the
// project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		FootballBaseURL:   DefaultFootballBaseURL,
		GeocodeBaseURL:    DefaultGeocodeBaseURL,
		WeatherBaseURL:    DefaultWeatherBaseURL,
		UpstreamTimeoutMS: 20_000,
		FormWindow:        8,
		FormTableSize:     5,
		MaxGoals:          6,
		HomeAdvantage:     1.12,
	}
}

// UpstreamTimeout returns UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// Validate checks the values a running service depends on.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.FormWindow < 1:
		return fmt.Errorf("%w: form_window must be at least 1, got %d", ErrInvalidConfig, c.FormWindow)
	case c.FormTableSize < 1:
		return fmt.Errorf("%w: form_table_size must be at least 1, got %d", ErrInvalidConfig, c.FormTableSize)
	case c.MaxGoals < 1 || c.MaxGoals > maxGoalsLimit:
		return fmt.Errorf("%w: max_goals must be between 1 and %d, got %d", ErrInvalidConfig, maxGoalsLimit, c.MaxGoals)
	case c.HomeAdvantage <= 0:
		return fmt.Errorf("%w: home_advantage must be positive, got %g", ErrInvalidConfig, c.HomeAdvantage)
	case c.UpstreamTimeoutMS <= 0:
		return fmt.Errorf("%w: upstream_timeout_ms must be positive, got %d", ErrInvalidConfig, c.UpstreamTimeoutMS)
	}
	return nil
}
