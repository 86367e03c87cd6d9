package main

import (
	"fmt"
	"math"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kisanportal/mandi-cli/internal/directions"
)

var (
	dirDestLat float64
	dirDestLng float64
	dirLat     float64
	dirLng     float64
	dirAddress string
)

var directionsCmd = &cobra.Command{
	Use:   "directions",
	Short: "Print a Google Maps directions link to a market",
	RunE: func(cmd *cobra.Command, args []string) error {
		destSet := cmd.Flags().Changed("dest-lat") && cmd.Flags().Changed("dest-lng")
		if !destSet && dirAddress == "" {
			return eris.New("directions: --dest-lat and --dest-lng or --address are required")
		}
		destLat, destLng := dirDestLat, dirDestLng
		if !destSet {
			destLat, destLng = math.NaN(), math.NaN()
		}

		var userLat, userLng *float64
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") {
			userLat, userLng = &dirLat, &dirLng
		}

		link := directions.NewBuilder(cfg.Directions.BaseURL).Link(destLat, destLng, userLat, userLng, dirAddress)
		_, err := fmt.Fprintln(cmd.OutOrStdout(), link)
		return err
	},
}

func init() {
	directionsCmd.Flags().Float64Var(&dirDestLat, "dest-lat", 0, "market latitude")
	directionsCmd.Flags().Float64Var(&dirDestLng, "dest-lng", 0, "market longitude")
	directionsCmd.Flags().Float64Var(&dirLat, "lat", 0, "your latitude")
	directionsCmd.Flags().Float64Var(&dirLng, "lng", 0, "your longitude")
	directionsCmd.Flags().StringVar(&dirAddress, "address", "", "market address used when coordinates are missing")
	rootCmd.AddCommand(directionsCmd)
}
