// Package weather reads current conditions from the OpenWeather API.
package weather

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/okian/matchcast/internal/adapters/provider/upstream"
	"github.com/okian/matchcast/internal/domain/model"
	"github.com/okian/matchcast/pkg/logger"
	"github.com/okian/matchcast/pkg/metrics"
)

// ProviderName labels weather requests in logs and metrics.
const ProviderName = "openweather"

type response struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main *struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
}

// Client is an OpenWeather client.
type Client struct {
	api     *upstream.Client
	baseURL string
	apiKey  string
	log     logger.Logger
}

// New creates a Client. baseURL defaults to the public endpoint when empty.
// log may be nil.
func New(api *upstream.Client, baseURL, apiKey string, log logger.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://api.openweathermap.org"
	}
	return &Client{api: api, baseURL: baseURL, apiKey: strings.TrimSpace(apiKey), log: log}
}

// Current returns the weather at loc in metric units. It never fails: a
// missing key, a failed request or an incomplete body yields
// model.UnknownWeather.
func (c *Client) Current(ctx context.Context, loc model.Location) model.Weather {
	if c.apiKey == "" {
		return c.fallback(ctx, "missing api key")
	}

	q := url.Values{
		"lat":   {strconv.FormatFloat(loc.Lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(loc.Lng, 'f', -1, 64)},
		"appid": {c.apiKey},
		"units": {"metric"},
	}
	var resp response
	if err := c.api.GetJSON(ctx, c.baseURL+"/data/2.5/weather?"+q.Encode(), nil, &resp); err != nil {
		return c.fallback(ctx, err.Error())
	}
	if len(resp.Weather) == 0 || resp.Main == nil {
		return c.fallback(ctx, "incomplete payload")
	}

	return model.Weather{
		Description:  resp.Weather[0].Description,
		TemperatureC: resp.Main.Temp,
		Humidity:     resp.Main.Humidity,
	}
}

func (c *Client) fallback(ctx context.Context, reason string) model.Weather {
	metrics.RecordWeatherFallback()
	if c.log != nil {
		c.log.Warn(ctx, "weather unavailable, using unknown report", logger.String("reason", reason))
	}
	return model.UnknownWeather
}
