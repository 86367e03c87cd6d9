// Package geocode resolves free-text place names to coordinates using
// OpenStreetMap Nominatim (primary) and Google (optional fallback).
package geocode

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/kisanportal/mandi-cli/internal/model"
)

// DefaultCountry disambiguates bare market and district names.
const DefaultCountry = "India"

// Client resolves a place name to its best-guess location.
type Client interface {
	// Geocode returns Matched=false without error when nothing was found.
	Geocode(ctx context.Context, query string) (*Result, error)
}

// Result holds the geocoding output for a query.
type Result struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
	Source      string // "nominatim" or "google"
	Matched     bool
}

// Coordinate returns the result location when it matched and is usable.
func (r *Result) Coordinate() (model.Coordinate, bool) {
	if r == nil || !r.Matched {
		return model.Coordinate{}, false
	}
	c := model.Coordinate{Lat: r.Latitude, Lng: r.Longitude}
	return c, c.Valid()
}

// Option configures NewClient.
type Option func(*settings)

type settings struct {
	httpClient   *http.Client
	userAgent    string
	country      string
	nominatimURL string
	googleKey    string
	interval     time.Duration
}

// WithHTTPClient sets a custom HTTP client for all providers.
func WithHTTPClient(hc *http.Client) Option {
	return func(s *settings) { s.httpClient = hc }
}

// WithUserAgent sets the User-Agent sent to Nominatim, which requires one.
func WithUserAgent(ua string) Option {
	return func(s *settings) { s.userAgent = ua }
}

// WithCountry sets the country appended to every query.
func WithCountry(country string) Option {
	return func(s *settings) { s.country = country }
}

// WithNominatimURL overrides the Nominatim base URL.
func WithNominatimURL(u string) Option {
	return func(s *settings) { s.nominatimURL = u }
}

// WithGoogleAPIKey enables Google Geocoding as a fallback provider.
func WithGoogleAPIKey(key string) Option {
	return func(s *settings) { s.googleKey = key }
}

// WithMinInterval sets the minimum spacing between requests to each provider.
func WithMinInterval(d time.Duration) Option {
	return func(s *settings) { s.interval = d }
}

// NewClient builds a CascadeClient over Nominatim and, when a key is
// configured, Google.
func NewClient(opts ...Option) *CascadeClient {
	s := &settings{
		httpClient:   &http.Client{Timeout: 15 * time.Second},
		userAgent:    "mandi-cli/1.0",
		country:      DefaultCountry,
		nominatimURL: DefaultNominatimURL,
		interval:     time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	providers := []Provider{
		&NominatimProvider{
			httpClient: s.httpClient,
			baseURL:    strings.TrimRight(s.nominatimURL, "/"),
			userAgent:  s.userAgent,
			country:    s.country,
			limiter:    newLimiter(s.interval),
		},
	}
	if s.googleKey != "" {
		providers = append(providers, &GoogleProvider{
			httpClient: s.httpClient,
			apiKey:     s.googleKey,
			country:    s.country,
			limiter:    newLimiter(s.interval),
		})
	}
	return NewCascadeClient(providers)
}

// newLimiter allows one request per interval; a non-positive interval disables limiting.
func newLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// withCountry appends ", <country>" unless the query already ends with it.
func withCountry(query, country string) string {
	query = strings.TrimSpace(query)
	country = strings.TrimSpace(country)
	if country == "" || query == "" {
		return query
	}
	if strings.HasSuffix(strings.ToLower(query), strings.ToLower(country)) {
		return query
	}
	return query + ", " + country
}
