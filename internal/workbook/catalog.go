package workbook

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/CornwellsLTD/JasperCurrent/internal"
	"github.com/CornwellsLTD/JasperCurrent/internal/config"
)

var log = config.Logger

// BuildCatalog walks the supplier folder tree under root and writes the
// summary workbook: one sheet per supplier folder, one row per PDF, plus a
// Summary sheet. Hand-entered values in the editable columns of an existing
// workbook are preserved, keyed by Full Path.
func BuildCatalog(root, outPath string) error {
	existing, err := readExisting(outPath)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("reading invoice root %s: %w", root, err)
	}

	type supplierSheet struct {
		folder string
		code   string
		name   string
		rows   []internal.CatalogRow
	}

	var sheets []supplierSheet
	counter := 1
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		code := fmt.Sprintf("SUP%04d", counter)
		counter++
		sheetName := CleanSheetName(entry.Name())

		rows, err := collectPDFRows(filepath.Join(root, entry.Name()), code, existing[sheetName])
		if err != nil {
			return err
		}
		if len(rows) == 0 {
			continue
		}
		sheets = append(sheets, supplierSheet{folder: entry.Name(), code: code, name: sheetName, rows: rows})
	}

	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	if first != summarySheet {
		if err := f.SetSheetName(first, summarySheet); err != nil {
			return err
		}
	}

	totalCount := 0
	totalSizeMB := 0.0
	summaryHeaders := []string{"Supplier Name", "Supplier Code", "Invoice Count", "Total Size (MB)"}
	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(summarySheet, cell, h)
	}

	for i, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeCatalogSheet(f, s.name, s.rows); err != nil {
			return err
		}

		sizeMB := 0.0
		for _, row := range s.rows {
			sizeMB += row.FileSizeKB / 1024
		}
		sizeMB = math.Round(sizeMB*100) / 100
		totalCount += len(s.rows)
		totalSizeMB += sizeMB

		r := i + 2
		setSummary(f, r, s.folder, s.code, len(s.rows), sizeMB)
	}
	setSummary(f, len(sheets)+2, "TOTALS", "", totalCount, math.Round(totalSizeMB*100)/100)

	for col, width := range map[string]float64{"A": 40, "B": 15, "C": 15, "D": 15} {
		if err := f.SetColWidth(summarySheet, col, col, width); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outPath)
}

func setSummary(f *excelize.File, row int, name, code string, count int, sizeMB float64) {
	values := []any{name, code, count, sizeMB}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		_ = f.SetCellValue(summarySheet, cell, v)
	}
}

func collectPDFRows(dir, code string, existing map[string]internal.CatalogRow) ([]internal.CatalogRow, error) {
	var rows []internal.CatalogRow
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}

		row := internal.CatalogRow{
			InvoiceFile:  d.Name(),
			PeriodFolder: filepath.Base(filepath.Dir(path)),
			FileSizeKB:   math.Round(float64(info.Size())/1024*100) / 100,
			FullPath:     path,
			SupplierCode: code,
		}
		if prev, ok := existing[path]; ok {
			row.InvoiceDate = prev.InvoiceDate
			row.InvoiceNumber = prev.InvoiceNumber
			row.ReferenceNumber = prev.ReferenceNumber
			row.PreVATTotal = prev.PreVATTotal
			row.TotalAmount = prev.TotalAmount
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].FullPath < rows[j].FullPath })
	return rows, nil
}

// readExisting loads the editable columns of a previous workbook so a
// rebuild never discards hand-entered data.
func readExisting(path string) (map[string]map[string]internal.CatalogRow, error) {
	out := map[string]map[string]internal.CatalogRow{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return out, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		log.Warnf("could not load existing workbook %s: %v", path, err)
		return out, nil
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		if sheet == summarySheet {
			continue
		}
		raw, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		byPath := map[string]internal.CatalogRow{}
		for i, cells := range raw {
			if i == 0 {
				continue
			}
			row := rowFromCells(cells)
			if row.FullPath != "" {
				byPath[row.FullPath] = row
			}
		}
		out[sheet] = byPath
	}
	return out, nil
}
