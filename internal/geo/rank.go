package geo

import (
	"sort"

	"github.com/kisanportal/mandi-cli/internal/model"
)

// Ranking defaults.
const (
	DefaultMaxDistanceKm = 200.0
	DefaultRankLimit     = 10
)

// RankOptions bounds a ranking. Zero values select the defaults.
type RankOptions struct {
	MaxDistanceKm float64
	Limit         int
}

func (o RankOptions) withDefaults() RankOptions {
	if o.MaxDistanceKm <= 0 {
		o.MaxDistanceKm = DefaultMaxDistanceKm
	}
	if o.Limit <= 0 {
		o.Limit = DefaultRankLimit
	}
	return o
}

// Rank returns the records nearest to origin. Records without a valid
// location are skipped, the rest get DistanceKm set, anything beyond
// MaxDistanceKm is dropped, and the remainder is stably sorted ascending and
// truncated to Limit. The input slice is not modified.
func Rank(origin model.Coordinate, recs []model.PriceRecord, opts RankOptions) []model.PriceRecord {
	opts = opts.withDefaults()

	ranked := make([]model.PriceRecord, 0, len(recs))
	for _, rec := range recs {
		c, ok := rec.Coordinate()
		if !ok {
			continue
		}
		d := Distance(origin, c)
		if d > opts.MaxDistanceKm {
			continue
		}
		ranked = append(ranked, rec.WithDistance(d))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].DistanceKm < *ranked[j].DistanceKm
	})

	if len(ranked) > opts.Limit {
		ranked = ranked[:opts.Limit]
	}
	return ranked
}
