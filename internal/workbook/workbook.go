// Package workbook reads and writes the invoice summary workbook: one sheet
// per supplier plus a Summary sheet.
package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/CornwellsLTD/JasperCurrent/internal"
	"github.com/CornwellsLTD/JasperCurrent/internal/procerror"
)

// Column order of every supplier sheet. Extraction only ever writes the
// editable columns; the rest are set at catalog-build time.
var columns = []string{
	"Invoice File",
	"Invoice Date",
	"Invoice/Tax Point Number",
	"Reference Number",
	"Pre-VAT Total",
	"Total Amount",
	"Period Folder",
	"File Size (KB)",
	"Full Path",
	"Supplier Code",
}

var columnWidths = map[string]float64{
	"A": 30, "B": 15, "C": 20, "D": 20, "E": 15,
	"F": 15, "G": 20, "H": 15, "I": 50, "J": 15,
}

const summarySheet = "Summary"

// FindSupplierSheet resolves a supplier's sheet by case-insensitive substring
// match of the template's sheet identifier; first match wins.
func FindSupplierSheet(path, identifier string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	needle := strings.ToLower(identifier)
	for _, name := range f.GetSheetList() {
		if strings.Contains(strings.ToLower(name), needle) {
			return name, nil
		}
	}
	return "", &procerror.SheetNotFoundError{WorkbookPath: path, Identifier: identifier}
}

// ReadSheet returns the sheet's catalog rows in order.
func ReadSheet(path, sheet string) ([]internal.CatalogRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	raw, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %s: %w", sheet, err)
	}

	var out []internal.CatalogRow
	for i, cells := range raw {
		if i == 0 {
			continue
		}
		row := rowFromCells(cells)
		if row.FullPath == "" && row.InvoiceFile == "" {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

// WriteSheet replaces the sheet's contents with the given rows, preserving
// all other sheets in the workbook.
func WriteSheet(path, sheet string, rows []internal.CatalogRow) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	if err := f.DeleteSheet(sheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := writeCatalogSheet(f, sheet, rows); err != nil {
		return err
	}
	return f.Save()
}

func writeCatalogSheet(f *excelize.File, sheet string, rows []internal.CatalogRow) error {
	for i, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return err
		}
	}
	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, row.InvoiceFile)
		set(2, row.InvoiceDate)
		set(3, row.InvoiceNumber)
		set(4, row.ReferenceNumber)
		set(5, row.PreVATTotal)
		set(6, row.TotalAmount)
		set(7, row.PeriodFolder)
		set(8, row.FileSizeKB)
		set(9, row.FullPath)
		set(10, row.SupplierCode)
	}
	for col, width := range columnWidths {
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}
	return nil
}

func rowFromCells(cells []string) internal.CatalogRow {
	get := func(i int) string {
		if i < len(cells) {
			return strings.TrimSpace(cells[i])
		}
		return ""
	}
	size, _ := strconv.ParseFloat(get(7), 64)
	return internal.CatalogRow{
		InvoiceFile:     get(0),
		InvoiceDate:     get(1),
		InvoiceNumber:   get(2),
		ReferenceNumber: get(3),
		PreVATTotal:     get(4),
		TotalAmount:     get(5),
		PeriodFolder:    get(6),
		FileSizeKB:      size,
		FullPath:        get(8),
		SupplierCode:    get(9),
	}
}

// CleanSheetName strips characters Excel forbids in sheet names and caps the
// result at 31 characters.
func CleanSheetName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
		default:
			b.WriteRune(r)
		}
	}
	cleaned := []rune(b.String())
	if len(cleaned) > 31 {
		cleaned = cleaned[:31]
	}
	return string(cleaned)
}
