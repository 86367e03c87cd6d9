package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisanportal/mandi-cli/internal/model"
)

var origin = model.Coordinate{Lat: 20.0, Lng: 77.0}

// northOf returns a record due north of origin at roughly km kilometers.
func northOf(name string, km float64) model.PriceRecord {
	dLat := km / EarthRadiusKm * 180 / math.Pi
	return model.PriceRecord{MarketName: name}.WithCoordinate(model.Coordinate{Lat: origin.Lat + dLat, Lng: origin.Lng})
}

func distances(recs []model.PriceRecord) []float64 {
	out := make([]float64, 0, len(recs))
	for _, r := range recs {
		out = append(out, *r.DistanceKm)
	}
	return out
}

func TestRank_FiltersAndSorts(t *testing.T) {
	recs := []model.PriceRecord{
		northOf("a", 50),
		northOf("b", 250),
		northOf("c", 10),
		northOf("d", 200.1),
		northOf("e", 199.9),
	}

	ranked := Rank(origin, recs, RankOptions{})
	require.Len(t, ranked, 3)
	assert.InDeltaSlice(t, []float64{10, 50, 199.9}, distances(ranked), 0.05)
	assert.Equal(t, "c", ranked[0].MarketName)
	assert.Equal(t, "a", ranked[1].MarketName)
	assert.Equal(t, "e", ranked[2].MarketName)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	recs := []model.PriceRecord{northOf("a", 50), northOf("b", 10)}
	_ = Rank(origin, recs, RankOptions{})

	assert.Equal(t, "a", recs[0].MarketName)
	assert.Nil(t, recs[0].DistanceKm)
	assert.Nil(t, recs[1].DistanceKm)
}

func TestRank_SkipsMissingCoordinates(t *testing.T) {
	zero := 0.0
	lng := 77.0
	recs := []model.PriceRecord{
		{MarketName: "no coords"},
		{MarketName: "zero lat", Latitude: &zero, Longitude: &lng},
		northOf("ok", 5),
	}

	ranked := Rank(origin, recs, RankOptions{})
	require.Len(t, ranked, 1)
	assert.Equal(t, "ok", ranked[0].MarketName)
}

func TestRank_StableTies(t *testing.T) {
	recs := []model.PriceRecord{northOf("first", 30), northOf("second", 30), northOf("third", 30)}

	ranked := Rank(origin, recs, RankOptions{})
	require.Len(t, ranked, 3)
	assert.Equal(t, "first", ranked[0].MarketName)
	assert.Equal(t, "second", ranked[1].MarketName)
	assert.Equal(t, "third", ranked[2].MarketName)
}

func TestRank_Limit(t *testing.T) {
	var recs []model.PriceRecord
	for i := 15; i > 0; i-- {
		recs = append(recs, northOf("m", float64(i*5)))
	}

	ranked := Rank(origin, recs, RankOptions{})
	require.Len(t, ranked, DefaultRankLimit)
	assert.InDelta(t, 5, *ranked[0].DistanceKm, 0.05)
	assert.InDelta(t, 50, *ranked[9].DistanceKm, 0.05)

	ranked = Rank(origin, recs, RankOptions{Limit: 3, MaxDistanceKm: 12})
	assert.InDeltaSlice(t, []float64{5, 10}, distances(ranked), 0.05)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(origin, nil, RankOptions{}))
}
