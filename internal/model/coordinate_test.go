package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoordinateValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		coord Coordinate
		want  bool
	}{
		{"delhi", Coordinate{28.6139, 77.2090}, true},
		{"southern hemisphere", Coordinate{-33.86, 151.21}, true},
		{"bounds inclusive", Coordinate{90, -180}, true},
		{"null island", Coordinate{0, 0}, false},
		{"zero lat", Coordinate{0, 77.2}, false},
		{"zero lng", Coordinate{28.6, 0}, false},
		{"lat out of range", Coordinate{91, 10}, false},
		{"lng out of range", Coordinate{10, 181}, false},
		{"nan lat", Coordinate{math.NaN(), 10}, false},
		{"inf lng", Coordinate{10, math.Inf(1)}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.coord.Valid())
		})
	}
}

func TestCoordinateString(t *testing.T) {
	assert.Equal(t, "12.9,77.5", Coordinate{Lat: 12.9, Lng: 77.5}.String())
}

func TestPriceRecordCoordinate(t *testing.T) {
	lat, lng := 12.97, 77.59
	zero := 0.0

	rec := PriceRecord{Latitude: &lat, Longitude: &lng}
	c, ok := rec.Coordinate()
	assert.True(t, ok)
	assert.Equal(t, Coordinate{Lat: 12.97, Lng: 77.59}, c)

	_, ok = PriceRecord{Latitude: &lat}.Coordinate()
	assert.False(t, ok, "missing longitude")

	_, ok = PriceRecord{Latitude: &zero, Longitude: &lng}.Coordinate()
	assert.False(t, ok, "zero latitude means absent")
}

func TestPriceRecordWithCopies(t *testing.T) {
	orig := PriceRecord{MarketName: "Azadpur"}

	located := orig.WithCoordinate(Coordinate{Lat: 28.7, Lng: 77.17})
	ranked := located.WithDistance(12.5)

	assert.Nil(t, orig.Latitude)
	assert.Nil(t, located.DistanceKm)
	if assert.NotNil(t, ranked.DistanceKm) {
		assert.InDelta(t, 12.5, *ranked.DistanceKm, 0.0001)
	}
	assert.Equal(t, "Azadpur", ranked.MarketName)
}
