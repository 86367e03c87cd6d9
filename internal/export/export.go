// Package export renders price records for the CLI in table, JSON, YAML,
// XLSX and GeoJSON form.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
	"gopkg.in/yaml.v3"

	"github.com/kisanportal/mandi-cli/internal/geospatial"
	"github.com/kisanportal/mandi-cli/internal/model"
)

// Format names an output encoding.
type Format string

// Supported formats.
const (
	FormatTable   Format = "table"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatXLSX    Format = "xlsx"
	FormatGeoJSON Format = "geojson"
)

// ParseFormat validates s against the allowed formats.
func ParseFormat(s string, allowed ...Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		f = FormatTable
	}
	if !slices.Contains(allowed, f) {
		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = string(a)
		}
		return "", eris.Errorf("export: unsupported format %q (want one of %s)", s, strings.Join(names, ", "))
	}
	return f, nil
}

var inPrinter = message.NewPrinter(language.Make("en-IN"))

// Rupees formats v with Indian digit grouping, e.g. "₹1,800".
func Rupees(v float64) string {
	return "₹" + inPrinter.Sprintf("%v", number.Decimal(v, number.MaxFractionDigits(2)))
}

// Row is one line of table output. Link is optional.
type Row struct {
	Record model.PriceRecord
	Link   string
}

// Rows wraps records without links.
func Rows(recs []model.PriceRecord) []Row {
	out := make([]Row, len(recs))
	for i, r := range recs {
		out[i] = Row{Record: r}
	}
	return out
}

// Table writes rows as aligned columns. The distance column appears when
// any row carries a distance; the link column when any row has a link.
func Table(w io.Writer, rows []Row) error {
	withDistance, withLink := false, false
	for _, r := range rows {
		withDistance = withDistance || r.Record.DistanceKm != nil
		withLink = withLink || r.Link != ""
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	header := "MARKET\tCOMMODITY\tDISTRICT\tSTATE\tMIN\tMAX\tMODAL"
	if withDistance {
		header += "\tDISTANCE"
	}
	if withLink {
		header += "\tDIRECTIONS"
	}
	_, _ = fmt.Fprintln(tw, header)

	for _, r := range rows {
		rec := r.Record
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s",
			rec.MarketName, rec.Commodity, rec.District, rec.State,
			Rupees(rec.MinPrice), Rupees(rec.MaxPrice), Rupees(rec.ModalPrice),
		)
		if withDistance {
			d := "-"
			if rec.DistanceKm != nil {
				d = fmt.Sprintf("%.1f km", *rec.DistanceKm)
			}
			line += "\t" + d
		}
		if withLink {
			line += "\t" + r.Link
		}
		_, _ = fmt.Fprintln(tw, line)
	}
	return eris.Wrap(tw.Flush(), "export: flush table")
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(v), "export: encode json")
}

// YAML writes v as YAML.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "export: encode yaml")
	}
	return eris.Wrap(enc.Close(), "export: close yaml encoder")
}

// GeoJSON writes recs with coordinates as a FeatureCollection.
func GeoJSON(w io.Writer, recs []model.PriceRecord) error {
	b, err := geospatial.MarketsGeoJSON(recs)
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return eris.Wrap(err, "export: write geojson")
}
