package main

import (
	"github.com/kisanportal/mandi-cli/internal/config"
	"github.com/kisanportal/mandi-cli/internal/directions"
	"github.com/kisanportal/mandi-cli/internal/fetcher"
	"github.com/kisanportal/mandi-cli/internal/geospatial"
	"github.com/kisanportal/mandi-cli/internal/resilience"
	"github.com/kisanportal/mandi-cli/internal/search"
	"github.com/kisanportal/mandi-cli/pkg/datagov"
	"github.com/kisanportal/mandi-cli/pkg/geocode"
)

// appEnv holds the clients shared by the commands and the HTTP server.
type appEnv struct {
	Prices   datagov.Client
	Geocoder geocode.Client
	Search   *search.Service
	Links    *directions.Builder
}

// initEnv wires the upstream clients from configuration.
func initEnv(c *config.Config) *appEnv {
	f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent: c.Geocode.UserAgent,
		Timeout:   c.Datagov.Timeout(),
		Headers:   map[string]string{"Accept": "application/json"},
	})
	prices := datagov.NewClient(f, c.Datagov.BaseURL, c.Datagov.APIKey)

	opts := []geocode.Option{
		geocode.WithNominatimURL(c.Geocode.NominatimURL),
		geocode.WithUserAgent(c.Geocode.UserAgent),
		geocode.WithCountry(c.Geocode.Country),
		geocode.WithMinInterval(c.Geocode.Interval()),
	}
	if c.Geocode.GoogleAPIKey != "" {
		opts = append(opts, geocode.WithGoogleAPIKey(c.Geocode.GoogleAPIKey))
	}
	geocoder := geocode.NewClient(opts...)

	queue := geospatial.NewGeocodeQueue(geocoder, geospatial.QueueOptions{
		Pacer:      geospatial.NewFixedPacer(c.Geocode.Interval()),
		MaxLookups: c.Geocode.MaxLookups,
		Breaker: resilience.NewBreaker(resilience.BreakerConfig{
			Name:      "geocode",
			Threshold: c.Geocode.BreakerThreshold,
		}),
	})

	links := directions.NewBuilder(c.Directions.BaseURL)

	return newAppEnv(prices, geocoder, queue, links, search.Options{
		MaxDistanceKm: c.Search.MaxDistanceKm,
		Limit:         c.Search.Limit,
		MaxCandidates: c.Search.MaxCandidates,
		FetchLimit:    c.Datagov.DefaultLimit,
		BrowseLimit:   c.Search.BrowseLimit,
	})
}

func newAppEnv(prices datagov.Client, geocoder geocode.Client, queue *geospatial.GeocodeQueue, links *directions.Builder, opts search.Options) *appEnv {
	if links == nil {
		links = directions.NewBuilder(directions.DefaultBaseURL)
	}
	return &appEnv{
		Prices:   prices,
		Geocoder: geocoder,
		Search:   search.NewService(prices, geocoder, queue, links, opts),
		Links:    links,
	}
}
