package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/kisanportal/mandi-cli/internal/model"
)

func sampleRecords() []model.PriceRecord {
	lat, lng, dist := 28.7041, 77.175, 9.1
	return []model.PriceRecord{
		{MarketName: "Azadpur", Commodity: "Onion", District: "North Delhi", State: "Delhi",
			MinPrice: 1500, MaxPrice: 2100, ModalPrice: 1800, Latitude: &lat, Longitude: &lng, DistanceKm: &dist},
		{MarketName: "Ghazipur", Commodity: "Tomato", State: "Delhi", MinPrice: 900, MaxPrice: 1200, ModalPrice: 1000},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("", FormatTable, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatTable, f)

	f, err = ParseFormat(" JSON ", FormatTable, FormatJSON)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xlsx", FormatTable, FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table, json")
}

func TestRupees(t *testing.T) {
	assert.Equal(t, "₹1,800", Rupees(1800))
	assert.Equal(t, "₹0", Rupees(0))
	assert.Equal(t, "₹950", Rupees(950))
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	rows := Rows(sampleRecords())
	rows[0].Link = "https://www.google.com/maps/search/?api=1&query=x"
	require.NoError(t, Table(&buf, rows))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "MARKET")
	assert.Contains(t, lines[0], "DISTANCE")
	assert.Contains(t, lines[0], "DIRECTIONS")
	assert.Contains(t, lines[1], "Azadpur")
	assert.Contains(t, lines[1], "₹1,800")
	assert.Contains(t, lines[1], "9.1 km")
	assert.Contains(t, lines[2], "Ghazipur")
	assert.Contains(t, lines[2], "-")
}

func TestTable_NoOptionalColumns(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Table(&buf, Rows(sampleRecords()[1:])))
	assert.NotContains(t, buf.String(), "DISTANCE")
	assert.NotContains(t, buf.String(), "DIRECTIONS")
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, sampleRecords()))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Azadpur", got[0]["market_name"])
	assert.NotContains(t, got[1], "latitude")
}

func TestYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, YAML(&buf, sampleRecords()))

	var got []map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Ghazipur", got[1]["market_name"])
	assert.EqualValues(t, 1000, got[1]["modal_price"])
}

func TestGeoJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, GeoJSON(&buf, sampleRecords()))
	assert.Contains(t, buf.String(), `"FeatureCollection"`)
	assert.Equal(t, 1, strings.Count(buf.String(), `"Feature"`))
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, XLSX(&buf, sampleRecords()))

	file, err := xlsx.OpenBinary(buf.Bytes())
	require.NoError(t, err)
	sheet, ok := file.Sheet[SheetName]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, "Market", sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "Azadpur", sheet.Rows[1].Cells[0].String())

	modal, err := sheet.Rows[1].Cells[6].Float()
	require.NoError(t, err)
	assert.InDelta(t, 1800, modal, 1e-9)
}
