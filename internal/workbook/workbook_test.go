package workbook

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/CornwellsLTD/JasperCurrent/internal"
	"github.com/CornwellsLTD/JasperCurrent/internal/procerror"
)

func newTestWorkbook(t *testing.T, sheets ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Invoice_Summary.xlsx")

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), summarySheet))
	for _, sheet := range sheets {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestFindSupplierSheetCaseInsensitiveSubstring(t *testing.T) {
	path := newTestWorkbook(t, "Abbott Laboratories Limited", "AJ Bell Business Solutions")

	sheet, err := FindSupplierSheet(path, "abbott")
	require.NoError(t, err)
	assert.Equal(t, "Abbott Laboratories Limited", sheet)

	sheet, err = FindSupplierSheet(path, "BELL")
	require.NoError(t, err)
	assert.Equal(t, "AJ Bell Business Solutions", sheet)
}

func TestFindSupplierSheetNotFound(t *testing.T) {
	path := newTestWorkbook(t, "Abbott Laboratories Limited")

	_, err := FindSupplierSheet(path, "valley")
	var notFound *procerror.SheetNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "valley", notFound.Identifier)
}

func TestWriteReadSheetRoundTrip(t *testing.T) {
	path := newTestWorkbook(t, "Abbott Laboratories Limited")
	rows := []internal.CatalogRow{
		{
			InvoiceFile:     "1234567.pdf",
			InvoiceDate:     "01/02/2023",
			InvoiceNumber:   "1234567",
			ReferenceNumber: "99",
			PreVATTotal:     "100.00",
			TotalAmount:     "120.00",
			PeriodFolder:    "2023-02",
			FileSizeKB:      34.5,
			FullPath:        "/invoices/Abbott/2023-02/1234567.pdf",
			SupplierCode:    "SUP0001",
		},
		{
			InvoiceFile:  "7654321.pdf",
			PeriodFolder: "2023-03",
			FileSizeKB:   12,
			FullPath:     "/invoices/Abbott/2023-03/7654321.pdf",
			SupplierCode: "SUP0001",
		},
	}

	require.NoError(t, WriteSheet(path, "Abbott Laboratories Limited", rows))

	got, err := ReadSheet(path, "Abbott Laboratories Limited")
	require.NoError(t, err)
	assert.Equal(t, rows, got)

	// Other sheets survive a rewrite.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), summarySheet)
}

func TestReadSheetSkipsBlankRows(t *testing.T) {
	path := newTestWorkbook(t, "Abbott Laboratories Limited")
	rows := []internal.CatalogRow{
		{InvoiceFile: "a.pdf", FullPath: "/a.pdf"},
		{},
		{InvoiceFile: "b.pdf", FullPath: "/b.pdf"},
	}
	require.NoError(t, WriteSheet(path, "Abbott Laboratories Limited", rows))

	got, err := ReadSheet(path, "Abbott Laboratories Limited")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a.pdf", got[0].InvoiceFile)
	assert.Equal(t, "b.pdf", got[1].InvoiceFile)
}

func TestCleanSheetName(t *testing.T) {
	assert.Equal(t, "ASH Waste Services Ltd", CleanSheetName("ASH Waste Services Ltd"))
	assert.Equal(t, "AB Ltd", CleanSheetName("A[B]: *?/\\ Ltd"))

	long := "Alliance Healthcare (Distribution) Limited Trading"
	assert.Len(t, []rune(CleanSheetName(long)), 31)
}
