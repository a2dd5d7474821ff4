// internal/excel/source.go

// Package excel reads price-list spreadsheets and turns them into normalized
// records for the ingestion coordinator. Column positions are detected from
// the header row by keyword matching, and the effective date comes from the
// file name.
package excel

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"github.com/pricetrack/backend/internal/config"
	"github.com/pricetrack/backend/internal/services"
)

// Source implements services.RecordSource for one .xlsx file.
type Source struct {
	filename  string
	sheetName string
	prefix    string
	open      func() (*excelize.File, error)
}

// NewFileSource reads from a file on disk.
func NewFileSource(path string, cfg config.ImportConfig) *Source {
	return &Source{
		filename:  filepath.Base(path),
		sheetName: cfg.SheetName,
		prefix:    cfg.FilePrefix,
		open: func() (*excelize.File, error) {
			return excelize.OpenFile(path)
		},
	}
}

// NewBytesSource reads from an uploaded file held in memory.
func NewBytesSource(data []byte, filename string, cfg config.ImportConfig) *Source {
	return &Source{
		filename:  filepath.Base(filename),
		sheetName: cfg.SheetName,
		prefix:    cfg.FilePrefix,
		open: func() (*excelize.File, error) {
			return excelize.OpenReader(bytes.NewReader(data))
		},
	}
}

func (s *Source) Label() string { return s.filename }

// EffectiveDate derives the batch date from the file name, e.g.
// Publications-20250101.xlsx. Zero when the name carries no date; the
// coordinator then falls back to the wall clock.
func (s *Source) EffectiveDate() time.Time {
	return ExtractDateFromFilename(s.prefix, s.filename)
}

func (s *Source) Records(ctx context.Context) ([]services.RawRecord, error) {
	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	rows, err := s.sheetRows(f)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		// Header only, or nothing at all.
		return nil, nil
	}

	mapping, err := MapColumns(rows[0])
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"file":    s.filename,
		"rows":    len(rows) - 1,
		"columns": mapping,
	}).Debug("Detected column mapping")

	records := make([]services.RawRecord, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		records = append(records, services.RawRecord{
			ProductNumber: cell(row, mapping.ProductNumber),
			Description:   cell(row, mapping.Description),
			Category:      cell(row, mapping.Category),
			Unit:          cell(row, mapping.Unit),
			Price:         cell(row, mapping.Price),
			// Sheet row number, header included, matching what a user sees
			// in their spreadsheet application.
			RowRef: fmt.Sprintf("row %d", i+1),
		})
	}

	return records, nil
}

// sheetRows returns the configured sheet's rows, falling back to the first
// sheet when the configured one does not exist.
func (s *Source) sheetRows(f *excelize.File) ([][]string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel file %s has no sheets", s.filename)
	}

	name := s.sheetName
	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		logrus.WithFields(logrus.Fields{"file": s.filename, "sheet": name}).
			Debugf("Sheet not found, using %q", sheets[0])
		name = sheets[0]
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	return rows, nil
}

// ColumnMapping holds the detected column index per field, -1 for absent
// optional columns.
type ColumnMapping struct {
	ProductNumber int
	Description   int
	Category      int
	Unit          int
	Price         int
}

var columnKeywords = []struct {
	field    string
	keywords []string
}{
	{"product_number", []string{"nummer", "number", "nr", "artikel", "item", "sku"}},
	{"description", []string{"beschreibung", "description", "name", "bezeichnung"}},
	{"category", []string{"kategorie", "category", "gruppe", "group"}},
	{"unit", []string{"einheit", "unit", "me", "uom"}},
	{"price", []string{"preis", "price", "betrag", "amount"}},
}

// MapColumns detects the field -> column assignment from a header row. Each
// header matches at most one field, the first keyword hit wins, and the first
// column claiming a field keeps it. Product number and price columns are
// required.
func MapColumns(header []string) (ColumnMapping, error) {
	mapping := ColumnMapping{
		ProductNumber: -1,
		Description:   -1,
		Category:      -1,
		Unit:          -1,
		Price:         -1,
	}
	assigned := make(map[string]bool)

	for i, col := range header {
		name := strings.ToLower(strings.TrimSpace(col))
		if name == "" {
			continue
		}

		for _, ck := range columnKeywords {
			if !matchesAny(name, ck.keywords) {
				continue
			}
			if !assigned[ck.field] {
				assigned[ck.field] = true
				mapping.set(ck.field, i)
			}
			break
		}
	}

	if mapping.ProductNumber < 0 {
		return mapping, fmt.Errorf("no product number column found in header %v", header)
	}
	if mapping.Price < 0 {
		return mapping, fmt.Errorf("no price column found in header %v", header)
	}

	return mapping, nil
}

func (m *ColumnMapping) set(field string, index int) {
	switch field {
	case "product_number":
		m.ProductNumber = index
	case "description":
		m.Description = index
	case "category":
		m.Category = index
	case "unit":
		m.Unit = index
	case "price":
		m.Price = index
	}
}

func matchesAny(name string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// ExtractDateFromFilename pulls the effective date out of names like
// <prefix>-20250101.xlsx. Zero time when no date can be derived.
func ExtractDateFromFilename(prefix, filename string) time.Time {
	re := regexp.MustCompile(regexp.QuoteMeta(prefix) + `-(\d{8})`)
	m := re.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}
	}

	date, err := time.Parse("20060102", m[1])
	if err != nil {
		return time.Time{}
	}
	return date
}
