// Package model defines the canonical mandi price types shared across packages.
package model

// UnknownName is the placeholder for a market or commodity missing from the source.
const UnknownName = "Unknown"

// RawRecord is one upstream price record with unpredictable field naming.
// Values are strings or JSON numbers as decoded by encoding/json.
type RawRecord map[string]any

// PriceRecord is a normalized mandi price row.
type PriceRecord struct {
	MarketName string   `json:"market_name" yaml:"market_name"`
	Commodity  string   `json:"commodity" yaml:"commodity"`
	MinPrice   float64  `json:"min_price" yaml:"min_price"`
	MaxPrice   float64  `json:"max_price" yaml:"max_price"`
	ModalPrice float64  `json:"modal_price" yaml:"modal_price"`
	State      string   `json:"state" yaml:"state"`
	District   string   `json:"district" yaml:"district"`
	Latitude   *float64 `json:"latitude,omitempty" yaml:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty" yaml:"longitude,omitempty"`
	DistanceKm *float64 `json:"distance_km,omitempty" yaml:"distance_km,omitempty"`
}

// Coordinate returns the record's location when both components are present
// and valid.
func (p PriceRecord) Coordinate() (Coordinate, bool) {
	if p.Latitude == nil || p.Longitude == nil {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: *p.Latitude, Lng: *p.Longitude}
	if !c.Valid() {
		return Coordinate{}, false
	}
	return c, true
}

// WithCoordinate returns a copy of p located at c.
func (p PriceRecord) WithCoordinate(c Coordinate) PriceRecord {
	lat, lng := c.Lat, c.Lng
	p.Latitude = &lat
	p.Longitude = &lng
	return p
}

// WithDistance returns a copy of p carrying the given distance.
func (p PriceRecord) WithDistance(km float64) PriceRecord {
	d := km
	p.DistanceKm = &d
	return p
}
