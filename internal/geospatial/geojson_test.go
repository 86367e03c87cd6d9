package geospatial

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kisanportal/mandi-cli/internal/model"
)

func TestMarketsGeoJSON(t *testing.T) {
	lat, lng, dist := 28.71, 77.18, 12.5
	recs := []model.PriceRecord{
		{MarketName: "Azadpur", Commodity: "Onion", ModalPrice: 1800, Latitude: &lat, Longitude: &lng, DistanceKm: &dist},
		{MarketName: "Nowhere", Commodity: "Onion"},
	}

	b, err := MarketsGeoJSON(recs)
	require.NoError(t, err)

	var doc struct {
		Type     string `json:"type"`
		Features []struct {
			Type     string `json:"type"`
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))

	assert.Equal(t, "FeatureCollection", doc.Type)
	require.Len(t, doc.Features, 1)
	f := doc.Features[0]
	assert.Equal(t, "Feature", f.Type)
	assert.Equal(t, "Point", f.Geometry.Type)
	assert.Equal(t, []float64{77.18, 28.71}, f.Geometry.Coordinates)
	assert.Equal(t, "Azadpur", f.Properties["market"])
	assert.InDelta(t, 1800, f.Properties["modal_price"], 1e-9)
	assert.InDelta(t, 12.5, f.Properties["distance_km"], 1e-9)
}

func TestMarketsGeoJSON_Empty(t *testing.T) {
	b, err := MarketsGeoJSON(nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"FeatureCollection","features":[]}`, string(b))
}
