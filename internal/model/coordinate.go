package model

import (
	"fmt"
	"math"
)

// Coordinate is a WGS84 latitude/longitude pair in degrees.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ValidLat reports whether lat is a usable latitude. Exact zero is rejected
// because upstream sources use it for unset fields.
func ValidLat(lat float64) bool {
	return finite(lat) && lat >= -90 && lat <= 90 && lat != 0
}

// ValidLng reports whether lng is a usable longitude. Exact zero is rejected
// for the same reason as ValidLat.
func ValidLng(lng float64) bool {
	return finite(lng) && lng >= -180 && lng <= 180 && lng != 0
}

// Valid reports whether both components are usable.
func (c Coordinate) Valid() bool {
	return ValidLat(c.Lat) && ValidLng(c.Lng)
}

// String formats the coordinate as "lat,lng".
func (c Coordinate) String() string {
	return fmt.Sprintf("%g,%g", c.Lat, c.Lng)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
