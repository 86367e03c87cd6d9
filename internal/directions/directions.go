// Package directions builds Google Maps deep links for driving to a market.
package directions

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/kisanportal/mandi-cli/internal/model"
	"github.com/kisanportal/mandi-cli/internal/normalize"
)

// DefaultBaseURL is the Google Maps URL prefix links are built on.
const DefaultBaseURL = "https://www.google.com/maps"

// TravelMode is fixed for routed links.
const TravelMode = "driving"

// Builder constructs directions links against a maps base URL.
type Builder struct {
	baseURL string
}

// NewBuilder returns a Builder for baseURL, falling back to DefaultBaseURL.
func NewBuilder(baseURL string) *Builder {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Builder{baseURL: baseURL}
}

// Build returns a link to dest. A valid origin produces a routed driving
// link. When dest is invalid the address is used instead; with no address
// the raw dest coordinates go into a search link.
func (b *Builder) Build(dest model.Coordinate, origin *model.Coordinate, address string) string {
	address = strings.TrimSpace(address)
	hasOrigin := origin != nil && origin.Valid()

	if !dest.Valid() && address != "" {
		if hasOrigin {
			return b.route(formatCoord(*origin), address)
		}
		return b.search(address)
	}

	if hasOrigin && dest.Valid() {
		return b.route(formatCoord(*origin), formatCoord(dest))
	}
	return b.search(formatCoord(dest))
}

// Link mirrors Build for callers holding loose values; nil user components
// mean no origin.
func (b *Builder) Link(destLat, destLng float64, userLat, userLng *float64, address string) string {
	var origin *model.Coordinate
	if userLat != nil && userLng != nil {
		origin = &model.Coordinate{Lat: *userLat, Lng: *userLng}
	}
	return b.Build(model.Coordinate{Lat: destLat, Lng: destLng}, origin, address)
}

// ForRecord links to rec's market, using its "market, district, state"
// string when the record has no usable location.
func (b *Builder) ForRecord(rec model.PriceRecord, origin *model.Coordinate) string {
	var dest model.Coordinate
	if rec.Latitude != nil && rec.Longitude != nil {
		dest = model.Coordinate{Lat: *rec.Latitude, Lng: *rec.Longitude}
	}
	return b.Build(dest, origin, normalize.LocationQuery(rec))
}

func (b *Builder) route(origin, destination string) string {
	return b.baseURL + "/dir/?api=1" +
		"&origin=" + url.QueryEscape(origin) +
		"&destination=" + url.QueryEscape(destination) +
		"&travelmode=" + TravelMode
}

func (b *Builder) search(query string) string {
	return b.baseURL + "/search/?api=1&query=" + url.QueryEscape(query)
}

func formatCoord(c model.Coordinate) string {
	return strconv.FormatFloat(c.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(c.Lng, 'f', -1, 64)
}
