package search

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/kisanportal/mandi-cli/internal/model"
)

// FilterCrop keeps records whose commodity contains crop, ignoring case.
// An empty crop keeps everything.
func FilterCrop(recs []model.PriceRecord, crop string) []model.PriceRecord {
	crop = strings.TrimSpace(crop)
	if crop == "" {
		return recs
	}
	fold := cases.Fold()
	needle := fold.String(crop)

	out := make([]model.PriceRecord, 0, len(recs))
	for _, rec := range recs {
		if strings.Contains(fold.String(rec.Commodity), needle) {
			out = append(out, rec)
		}
	}
	return out
}
