package geospatial

import (
	"encoding/json"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/kisanportal/mandi-cli/internal/model"
)

// MarketsFeatureCollection converts records with coordinates into GeoJSON
// Point features. Records without a valid location are skipped.
func MarketsFeatureCollection(recs []model.PriceRecord) *geojson.FeatureCollection {
	fc := &geojson.FeatureCollection{Features: make([]*geojson.Feature, 0, len(recs))}
	for _, rec := range recs {
		c, ok := rec.Coordinate()
		if !ok {
			continue
		}
		props := map[string]any{
			"market":      rec.MarketName,
			"commodity":   rec.Commodity,
			"state":       rec.State,
			"district":    rec.District,
			"min_price":   rec.MinPrice,
			"max_price":   rec.MaxPrice,
			"modal_price": rec.ModalPrice,
		}
		if rec.DistanceKm != nil {
			props["distance_km"] = *rec.DistanceKm
		}
		fc.Features = append(fc.Features, &geojson.Feature{
			Geometry:   geom.NewPointFlat(geom.XY, []float64{c.Lng, c.Lat}),
			Properties: props,
		})
	}
	return fc
}

// MarketsGeoJSON encodes recs as a GeoJSON FeatureCollection.
func MarketsGeoJSON(recs []model.PriceRecord) ([]byte, error) {
	b, err := json.Marshal(MarketsFeatureCollection(recs))
	if err != nil {
		return nil, eris.Wrap(err, "geospatial: encode geojson")
	}
	return b, nil
}
