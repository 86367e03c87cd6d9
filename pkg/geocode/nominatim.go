package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/kisanportal/mandi-cli/internal/resilience"
)

// DefaultNominatimURL is the public OpenStreetMap Nominatim instance.
const DefaultNominatimURL = "https://nominatim.openstreetmap.org"

// nominatimResult is one element of the /search JSON array.
type nominatimResult struct {
	PlaceID     int64  `json:"place_id"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// NominatimProvider geocodes via the OpenStreetMap Nominatim search API.
// The public instance allows at most one request per second.
type NominatimProvider struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	country    string
	limiter    *rate.Limiter
}

// Name implements Provider.
func (p *NominatimProvider) Name() string { return "nominatim" }

// Available implements Provider.
func (p *NominatimProvider) Available() bool { return p.baseURL != "" }

// Geocode implements Provider using the first search result.
func (p *NominatimProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim rate limit")
	}

	params := url.Values{
		"format": {"json"},
		"q":      {withCountry(query, p.country)},
		"limit":  {"1"},
	}
	reqURL := p.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim build request")
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "geocode: nominatim request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, resilience.StatusError("geocode: nominatim", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim read body")
	}

	var results []nominatimResult
	if err := json.Unmarshal(body, &results); err != nil {
		return nil, eris.Wrap(err, "geocode: nominatim parse response")
	}
	if len(results) == 0 {
		return &Result{Matched: false, Source: "nominatim"}, nil
	}

	first := results[0]
	lat, latErr := strconv.ParseFloat(first.Lat, 64)
	lon, lonErr := strconv.ParseFloat(first.Lon, 64)
	if latErr != nil || lonErr != nil {
		return &Result{Matched: false, Source: "nominatim"}, nil
	}

	return &Result{
		Latitude:    lat,
		Longitude:   lon,
		DisplayName: first.DisplayName,
		Source:      "nominatim",
		Matched:     true,
	}, nil
}
