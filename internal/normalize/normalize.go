// Package normalize maps heterogeneous data.gov.in price records onto model.PriceRecord.
package normalize

import (
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kisanportal/mandi-cli/internal/model"
)

// Candidate source keys per logical attribute, tried first-match-wins.
// New upstream variants are supported by extending these lists.
var (
	MarketKeys    = []string{"mandi", "market", "market_name"}
	CommodityKeys = []string{"commodity", "crop", "commodity_name"}
	MinPriceKeys  = []string{"min_price", "min", "min_price_rs_quintal"}
	MaxPriceKeys  = []string{"max_price", "max", "max_price_rs_quintal"}
	ModalKeys     = []string{"modal_price", "modal", "modal_price_rs_quintal"}
	StateKeys     = []string{"state", "state_name"}
	DistrictKeys  = []string{"district", "district_name"}
)

// coordKeys lists separate latitude/longitude key pairs in priority order.
var coordKeys = [][2]string{
	{"latitude", "longitude"},
	{"lat", "lng"},
}

// combinedCoordKeys hold a single "lat,long" string.
var combinedCoordKeys = []string{"lat_long"}

// Normalize converts one raw record into a PriceRecord. It never fails:
// missing text becomes the default, malformed numbers become zero.
func Normalize(raw model.RawRecord) model.PriceRecord {
	rec := model.PriceRecord{
		MarketName: stringField(raw, MarketKeys, model.UnknownName),
		Commodity:  stringField(raw, CommodityKeys, model.UnknownName),
		MinPrice:   priceField(raw, MinPriceKeys),
		MaxPrice:   priceField(raw, MaxPriceKeys),
		ModalPrice: priceField(raw, ModalKeys),
		State:      stringField(raw, StateKeys, ""),
		District:   stringField(raw, DistrictKeys, ""),
	}
	if c, ok := coordinates(raw); ok {
		rec = rec.WithCoordinate(c)
	}
	return rec
}

// NormalizeAll normalizes every raw record, preserving order.
func NormalizeAll(raws []model.RawRecord) []model.PriceRecord {
	out := make([]model.PriceRecord, 0, len(raws))
	for _, r := range raws {
		out = append(out, Normalize(r))
	}
	return out
}

// LocationQuery builds the free-text string used to geocode a market,
// "market, district, state", skipping empty or unknown parts.
func LocationQuery(rec model.PriceRecord) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{rec.MarketName, rec.District, rec.State} {
		p = strings.TrimSpace(p)
		if p == "" || p == model.UnknownName {
			continue
		}
		parts = append(parts, p)
	}
	return strings.Join(parts, ", ")
}

// UniqueCommodities returns the sorted set of commodity names present in raws.
func UniqueCommodities(raws []model.RawRecord) []string {
	seen := make(map[string]struct{})
	for _, r := range raws {
		name := stringField(r, CommodityKeys, "")
		if name == "" {
			continue
		}
		seen[name] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// lookup returns the first candidate value that is present and non-empty.
// Empty strings, nil and numeric zero fall through to the next key.
func lookup(raw model.RawRecord, keys []string) (any, bool) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || isBlank(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	}
	return false
}

func stringField(raw model.RawRecord, keys []string, def string) string {
	v, ok := lookup(raw, keys)
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	}
	return def
}

func priceField(raw model.RawRecord, keys []string) float64 {
	v, ok := lookup(raw, keys)
	if !ok {
		return 0
	}
	f, ok := toFloat(v)
	if !ok || f < 0 {
		return 0
	}
	return f
}

// toFloat parses v leniently. Thousands separators are stripped.
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case int:
		f = float64(t)
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(t), ",", "")
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// coordinates extracts a location, trying separate lat/lng fields first and a
// combined "lat,long" string last. A candidate that is out of range or has a
// zero component is skipped.
func coordinates(raw model.RawRecord) (model.Coordinate, bool) {
	for _, pair := range coordKeys {
		latV, okLat := lookup(raw, pair[:1])
		lngV, okLng := lookup(raw, pair[1:])
		if !okLat || !okLng {
			continue
		}
		lat, okLat := toFloat(latV)
		lng, okLng := toFloat(lngV)
		if c := (model.Coordinate{Lat: lat, Lng: lng}); okLat && okLng && c.Valid() {
			return c, true
		}
	}

	v, ok := lookup(raw, combinedCoordKeys)
	if !ok {
		return model.Coordinate{}, false
	}
	s, ok := v.(string)
	if !ok {
		return model.Coordinate{}, false
	}
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return model.Coordinate{}, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return model.Coordinate{}, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return model.Coordinate{}, false
	}
	c := model.Coordinate{Lat: lat, Lng: lng}
	if !c.Valid() {
		return model.Coordinate{}, false
	}
	return c, true
}
