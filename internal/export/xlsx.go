package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/kisanportal/mandi-cli/internal/model"
)

// SheetName is the worksheet written by XLSX.
const SheetName = "Mandi Prices"

var xlsxHeader = []string{
	"Market", "Commodity", "District", "State",
	"Min Price (₹/Quintal)", "Max Price (₹/Quintal)", "Modal Price (₹/Quintal)",
	"Latitude", "Longitude", "Distance (km)",
}

// XLSX writes recs as a single-sheet workbook. Prices are numeric cells.
func XLSX(w io.Writer, recs []model.PriceRecord) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, h := range xlsxHeader {
		header.AddCell().SetString(h)
	}

	for _, rec := range recs {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.MarketName)
		row.AddCell().SetString(rec.Commodity)
		row.AddCell().SetString(rec.District)
		row.AddCell().SetString(rec.State)
		row.AddCell().SetFloat(rec.MinPrice)
		row.AddCell().SetFloat(rec.MaxPrice)
		row.AddCell().SetFloat(rec.ModalPrice)
		optionalFloat(row.AddCell(), rec.Latitude)
		optionalFloat(row.AddCell(), rec.Longitude)
		optionalFloat(row.AddCell(), rec.DistanceKm)
	}

	return eris.Wrap(file.Write(w), "export: write xlsx")
}

func optionalFloat(cell *xlsx.Cell, v *float64) {
	if v == nil {
		cell.SetString("")
		return
	}
	cell.SetFloat(*v)
}
