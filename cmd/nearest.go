package main

import (
	"fmt"
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kisanportal/mandi-cli/internal/export"
	"github.com/kisanportal/mandi-cli/internal/model"
	"github.com/kisanportal/mandi-cli/internal/search"
)

var (
	nearestState    string
	nearestLocation string
	nearestLat      float64
	nearestLng      float64
	nearestLimit    int
	nearestFormat   string
)

var nearestCmd = &cobra.Command{
	Use:   "nearest",
	Short: "Find the mandis closest to a location",
	Example: `  mandi-cli nearest --state Maharashtra --location Nashik
  mandi-cli nearest --state Punjab --lat 30.90 --lng 75.85 --format geojson`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(nearestFormat, export.FormatTable, export.FormatJSON, export.FormatYAML, export.FormatGeoJSON)
		if err != nil {
			return err
		}

		q := search.Query{
			State:    nearestState,
			Location: nearestLocation,
			Limit:    nearestLimit,
		}
		if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
			q.Device = &model.Coordinate{Lat: nearestLat, Lng: nearestLng}
		}
		if err := search.Validate(q); err != nil {
			return err
		}
		if err := cfg.Validate("nearest"); err != nil {
			return err
		}

		res, err := initEnv(cfg).Search.Nearest(cmd.Context(), q)
		if err != nil {
			return eris.Wrap(err, "nearest")
		}

		for _, n := range res.Notices {
			_, _ = fmt.Fprintln(cmd.ErrOrStderr(), n)
		}
		return renderNearest(cmd.OutOrStdout(), format, res)
	},
}

func renderNearest(w io.Writer, format export.Format, res *search.Result) error {
	switch format {
	case export.FormatJSON:
		return export.JSON(w, res)
	case export.FormatYAML:
		return export.YAML(w, res)
	case export.FormatGeoJSON:
		return export.GeoJSON(w, res.Records())
	}

	if len(res.Markets) == 0 {
		_, err := fmt.Fprintln(w, "No mandis found within range.")
		return err
	}
	_, _ = fmt.Fprintf(w, "Nearest mandis to %s (%s):\n\n", res.Origin, res.OriginSource)
	rows := make([]export.Row, len(res.Markets))
	for i, m := range res.Markets {
		rows[i] = export.Row{Record: m.PriceRecord, Link: m.DirectionsURL}
	}
	return export.Table(w, rows)
}

func init() {
	nearestCmd.Flags().StringVar(&nearestState, "state", "", "state to search (required)")
	nearestCmd.Flags().StringVar(&nearestLocation, "location", "", "your city or village")
	nearestCmd.Flags().Float64Var(&nearestLat, "lat", 0, "your latitude (skips geocoding the location)")
	nearestCmd.Flags().Float64Var(&nearestLng, "lng", 0, "your longitude")
	nearestCmd.Flags().IntVar(&nearestLimit, "limit", 0, "max markets to show (default from config)")
	nearestCmd.Flags().StringVar(&nearestFormat, "format", "table", "output format: table, json, yaml, geojson")
	rootCmd.AddCommand(nearestCmd)
}
