package excel_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pricetrack/backend/internal/config"
	"github.com/pricetrack/backend/internal/excel"
)

var testImportConfig = config.ImportConfig{
	FilePrefix: "Publications",
	SheetName:  "Publication",
	MaxErrors:  10,
}

// buildWorkbook renders rows into an in-memory .xlsx with a single sheet.
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestExtractDateFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     time.Time
	}{
		{"Publications-20240115.xlsx", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"Publications-20231231.xlsx", time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"Publications-20240115-final.xlsx", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"Publications.xlsx", time.Time{}},
		{"Publications-2024.xlsx", time.Time{}},
		{"Prices-20240115.xlsx", time.Time{}},
		{"Publications-99999999.xlsx", time.Time{}},
	}

	for _, tt := range tests {
		got := excel.ExtractDateFromFilename("Publications", tt.filename)
		assert.True(t, got.Equal(tt.want), "%s: got %v, want %v", tt.filename, got, tt.want)
	}
}

func TestMapColumns_GermanHeader(t *testing.T) {
	mapping, err := excel.MapColumns([]string{"Artikelnummer", "Bezeichnung", "Kategorie", "Einheit", "Preis"})

	require.NoError(t, err)
	assert.Equal(t, 0, mapping.ProductNumber)
	assert.Equal(t, 1, mapping.Description)
	assert.Equal(t, 2, mapping.Category)
	assert.Equal(t, 3, mapping.Unit)
	assert.Equal(t, 4, mapping.Price)
}

func TestMapColumns_EnglishHeaderWithGaps(t *testing.T) {
	mapping, err := excel.MapColumns([]string{"SKU", "Description", "", "Price"})

	require.NoError(t, err)
	assert.Equal(t, 0, mapping.ProductNumber)
	assert.Equal(t, 1, mapping.Description)
	assert.Equal(t, -1, mapping.Category)
	assert.Equal(t, -1, mapping.Unit)
	assert.Equal(t, 3, mapping.Price)
}

func TestMapColumns_FirstColumnClaimingAFieldKeepsIt(t *testing.T) {
	mapping, err := excel.MapColumns([]string{"Item Number", "Old Price", "New Price"})

	require.NoError(t, err)
	assert.Equal(t, 0, mapping.ProductNumber)
	assert.Equal(t, 1, mapping.Price)
}

func TestMapColumns_MissingRequiredColumns(t *testing.T) {
	_, err := excel.MapColumns([]string{"Description", "Price"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "product number")

	_, err = excel.MapColumns([]string{"Artikelnummer", "Beschreibung"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "price")
}

func TestSource_Records(t *testing.T) {
	data := buildWorkbook(t, "Publication", [][]interface{}{
		{"Artikelnummer", "Beschreibung", "Kategorie", "Einheit", "Preis"},
		{"A-100", "Widget", "Hardware", "pcs", "19.99"},
		{"B-200", "Gadget", "", "box", ""},
		{"", "Dangling row", "", "", "5.00"},
	})

	src := excel.NewBytesSource(data, "Publications-20240115.xlsx", testImportConfig)

	assert.Equal(t, "Publications-20240115.xlsx", src.Label())
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), src.EffectiveDate())

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "A-100", records[0].ProductNumber)
	assert.Equal(t, "Widget", records[0].Description)
	assert.Equal(t, "Hardware", records[0].Category)
	assert.Equal(t, "pcs", records[0].Unit)
	assert.Equal(t, "19.99", records[0].Price)
	assert.Equal(t, "row 2", records[0].RowRef)

	assert.Equal(t, "B-200", records[1].ProductNumber)
	assert.Empty(t, records[1].Price)

	assert.Empty(t, records[2].ProductNumber)
	assert.Equal(t, "row 4", records[2].RowRef)
}

func TestSource_FallsBackToFirstSheet(t *testing.T) {
	data := buildWorkbook(t, "Preisliste", [][]interface{}{
		{"Nummer", "Preis"},
		{"A-100", "10.00"},
	})

	src := excel.NewBytesSource(data, "Publications-20240115.xlsx", testImportConfig)

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A-100", records[0].ProductNumber)
}

func TestSource_HeaderOnlyYieldsNoRecords(t *testing.T) {
	data := buildWorkbook(t, "Publication", [][]interface{}{
		{"Artikelnummer", "Preis"},
	})

	src := excel.NewBytesSource(data, "Publications-20240115.xlsx", testImportConfig)

	records, err := src.Records(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSource_UnmappableHeaderFails(t *testing.T) {
	data := buildWorkbook(t, "Publication", [][]interface{}{
		{"Foo", "Bar"},
		{"A-100", "10.00"},
	})

	src := excel.NewBytesSource(data, "Publications-20240115.xlsx", testImportConfig)

	_, err := src.Records(context.Background())
	require.Error(t, err)
}
