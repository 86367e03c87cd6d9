package main

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kisanportal/mandi-cli/internal/export"
	"github.com/kisanportal/mandi-cli/internal/model"
	"github.com/kisanportal/mandi-cli/internal/normalize"
	"github.com/kisanportal/mandi-cli/internal/search"
	"github.com/kisanportal/mandi-cli/pkg/datagov"
)

var (
	pricesState  string
	pricesCrop   string
	pricesLimit  int
	pricesOffset int
	pricesFormat string
	pricesOut    string
)

var pricesCmd = &cobra.Command{
	Use:   "prices",
	Short: "List today's mandi prices for a state",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := export.ParseFormat(pricesFormat, export.FormatTable, export.FormatJSON, export.FormatYAML, export.FormatXLSX)
		if err != nil {
			return err
		}
		if format == export.FormatXLSX && pricesOut == "" {
			return eris.New("prices: --out is required for xlsx output")
		}
		if err := cfg.Validate("prices"); err != nil {
			return err
		}

		env := initEnv(cfg)
		state := pricesState
		if state == search.AllStates {
			state = ""
		}

		resp, err := env.Prices.Prices(cmd.Context(), datagov.Query{State: state, Limit: pricesLimit, Offset: pricesOffset})
		if err != nil {
			return eris.Wrap(err, "prices")
		}
		recs := search.FilterCrop(normalize.NormalizeAll(resp.Records), pricesCrop)

		zap.L().Info("prices fetched",
			zap.String("state", state),
			zap.Int("records", len(resp.Records)),
			zap.Int("matched", len(recs)),
			zap.Int("total", resp.Total),
		)

		w, closeFn, err := openOutput(pricesOut, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		if err := renderPrices(w, format, recs); err != nil {
			_ = closeFn()
			return err
		}
		return closeFn()
	},
}

func renderPrices(w io.Writer, format export.Format, recs []model.PriceRecord) error {
	switch format {
	case export.FormatJSON:
		return export.JSON(w, recs)
	case export.FormatYAML:
		return export.YAML(w, recs)
	case export.FormatXLSX:
		return export.XLSX(w, recs)
	default:
		return export.Table(w, export.Rows(recs))
	}
}

func init() {
	pricesCmd.Flags().StringVar(&pricesState, "state", "", "state filter (empty for all states)")
	pricesCmd.Flags().StringVar(&pricesCrop, "crop", "", "case-insensitive commodity filter")
	pricesCmd.Flags().IntVar(&pricesLimit, "limit", datagov.DefaultLimit, "max records to fetch")
	pricesCmd.Flags().IntVar(&pricesOffset, "offset", datagov.DefaultOffset, "records to skip")
	pricesCmd.Flags().StringVar(&pricesFormat, "format", "table", "output format: table, json, yaml, xlsx")
	pricesCmd.Flags().StringVar(&pricesOut, "out", "", "write output to file instead of stdout")
	rootCmd.AddCommand(pricesCmd)
}
