package geocode

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/kisanportal/mandi-cli/internal/resilience"
)

const googleGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// googleGeocodeResponse is the JSON response from the Google Geocoding API.
type googleGeocodeResponse struct {
	Results []googleResult `json:"results"`
	Status  string         `json:"status"`
}

type googleResult struct {
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
	FormattedAddress string `json:"formatted_address"`
}

// GoogleProvider geocodes via the Google Geocoding API, biased to India.
type GoogleProvider struct {
	httpClient *http.Client
	apiKey     string
	country    string
	limiter    *rate.Limiter
}

// Name implements Provider.
func (p *GoogleProvider) Name() string { return "google" }

// Available implements Provider.
func (p *GoogleProvider) Available() bool { return p.apiKey != "" }

// Geocode implements Provider.
func (p *GoogleProvider) Geocode(ctx context.Context, query string) (*Result, error) {
	if p.apiKey == "" {
		return nil, eris.New("geocode: google api key not configured")
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "geocode: google rate limit")
	}

	params := url.Values{
		"address": {withCountry(query, p.country)},
		"region":  {"in"},
		"key":     {p.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleGeocodeURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google build request")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, resilience.NewTransientError(eris.Wrap(err, "geocode: google request"), 0)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, resilience.StatusError("geocode: google", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "geocode: google read body")
	}

	var googleResp googleGeocodeResponse
	if err := json.Unmarshal(body, &googleResp); err != nil {
		return nil, eris.Wrap(err, "geocode: google parse response")
	}

	if googleResp.Status != "OK" || len(googleResp.Results) == 0 {
		return &Result{Matched: false, Source: "google"}, nil
	}

	first := googleResp.Results[0]
	return &Result{
		Latitude:    first.Geometry.Location.Lat,
		Longitude:   first.Geometry.Location.Lng,
		DisplayName: first.FormattedAddress,
		Source:      "google",
		Matched:     true,
	}, nil
}
