// Package geocode locates a team's home stadium with the Google Geocoding API.
package geocode

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
	ProviderName = "geocode"
	statusOK     = "OK"

	mapEmbedURL  = "https://www.google.com/maps/embed/v1/view"
	mapEmbedZoom = 13
)

// stadiums maps provider team names whose plain "<team> football stadium"
// query resolves poorly.
var stadiums = map[string]string{ //nolint:gochecknoglobals // static lookup table
	"CA Mineiro":             "Clube Atlético Mineiro Arena MRV Brazil",
	"Fortaleza EC":           "Estádio Castelão Fortaleza Brazil",
	"Burnley FC":             "Turf Moor Burnley England",
	"Chelsea FC":             "Stamford Bridge London",
	"Real Madrid CF":         "Santiago Bernabéu Madrid",
	"FC Barcelona":           "Camp Nou Barcelona",
	"Liverpool FC":           "Anfield Liverpool",
	"Manchester City FC":     "Etihad Stadium Manchester",
	"Manchester United FC":   "Old Trafford Manchester",
	"Juventus FC":            "Allianz Stadium Turin",
	"Paris Saint-Germain FC": "Parc des Princes Paris",
	"Bayern München":         "Allianz Arena Munich",
	"Arsenal FC":             "Emirates Stadium London",
	"Tottenham Hotspur FC":   "Tottenham Hotspur Stadium London",
	"AC Milan":               "San Siro Milan",
	"Inter Milano":           "San Siro Milan",
	"AS Roma":                "Stadio Olimpico Rome",
}

// StadiumQuery returns the geocoding query for a team's home ground.
func StadiumQuery(team string) string {
	if q, ok := stadiums[team]; ok {
		return q
	}
	return team + " football stadium"
}

type response struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

// Client is a Google Geocoding client.
type Client struct {
	api     *upstream.Client
	baseURL string
	apiKey  string
}

// New creates a Client. baseURL defaults to the public Maps endpoint when empty.
func New(api *upstream.Client, baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://maps.googleapis.com"
	}
	return &Client{api: api, baseURL: baseURL, apiKey: strings.TrimSpace(apiKey)}
}

// Locate geocodes the home stadium of team. Any status other than OK, or an
// OK response without results, is an upstream failure.
func (c *Client) Locate(ctx context.Context, team string) (model.Location, error) {
	if c.apiKey == "" {
		return model.Location{}, fmt.Errorf("geocode: %w", upstream.ErrMissingAPIKey)
	}

	query := StadiumQuery(team)
	u := c.baseURL + "/maps/api/geocode/json?" + url.Values{"address": {query}, "key": {c.apiKey}}.Encode()

	var resp response
	if err := c.api.GetJSON(ctx, u, nil, &resp); err != nil {
		return model.Location{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if resp.Status != statusOK || len(resp.Results) == 0 {
		return model.Location{}, fmt.Errorf("%w: could not fetch stadium coordinates for %s (query %q, status %s)",
			upstream.ErrUpstream, team, query, resp.Status)
	}

	loc := resp.Results[0].Geometry.Location
	return model.Location{Lat: loc.Lat, Lng: loc.Lng, Query: query}, nil
}

// MapURL returns the embeddable map centred on loc.
func (c *Client) MapURL(loc model.Location) string {
	return MapEmbedURL(c.apiKey, loc)
}

// MapEmbedURL builds a Google Maps embed URL centred on loc.
func MapEmbedURL(key string, loc model.Location) string {
	center := strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', -1, 64)
	q := url.Values{"key": {key}, "center": {center}, "zoom": {strconv.Itoa(mapEmbedZoom)}}
	return mapEmbedURL + "?" + q.Encode()
}
