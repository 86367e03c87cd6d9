// Package geo provides great-circle distance and nearest-market ranking.
package geo

import (
	"math"

	"github.com/kisanportal/mandi-cli/internal/model"
)

// EarthRadiusKm is the mean Earth radius used by Distance.
const EarthRadiusKm = 6371.0

// Distance returns the Haversine great-circle distance between a and b in
// kilometers, rounded to one decimal place.
func Distance(a, b model.Coordinate) float64 {
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return math.Round(EarthRadiusKm*c*10) / 10
}

// WithinRadius reports whether rec has a valid location no more than km from origin.
func WithinRadius(origin model.Coordinate, rec model.PriceRecord, km float64) bool {
	c, ok := rec.Coordinate()
	if !ok {
		return false
	}
	return Distance(origin, c) <= km
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
