// Package batch runs the extraction engine over one supplier's catalogued
// invoices and merges accepted results back into the workbook.
package batch

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/CornwellsLTD/JasperCurrent/internal"
	"github.com/CornwellsLTD/JasperCurrent/internal/config"
	"github.com/CornwellsLTD/JasperCurrent/internal/extract"
	"github.com/CornwellsLTD/JasperCurrent/internal/procerror"
	"github.com/CornwellsLTD/JasperCurrent/internal/template"
	"github.com/CornwellsLTD/JasperCurrent/internal/workbook"
)

// TextExtractor produces the first-page text for a catalogued PDF.
type TextExtractor func(path string) (string, error)

// Catalog is the tabular store the processor reads rows from and checkpoints
// rows back to.
type Catalog interface {
	FindSupplierSheet(identifier string) (string, error)
	ReadSheet(sheet string) ([]internal.CatalogRow, error)
	WriteSheet(sheet string, rows []internal.CatalogRow) error
}

// RunStore records completed runs and the rows queued for human review.
type RunStore interface {
	InsertRun(code, traceID string, stats internal.RunStats, durationMs float64) (int64, error)
	InsertReviewItem(runID int64, code, fullPath string, confidence float64, reason string, fields map[string]string) error
}

type Processor struct {
	registry        *template.Registry
	catalog         Catalog
	extractText     TextExtractor
	runs            RunStore
	checkpointEvery int
	log             *logrus.Logger
}

func NewProcessor(registry *template.Registry, catalog Catalog, extractText TextExtractor, runs RunStore, checkpointEvery int) *Processor {
	if checkpointEvery <= 0 {
		checkpointEvery = 10
	}
	return &Processor{
		registry:        registry,
		catalog:         catalog,
		extractText:     extractText,
		runs:            runs,
		checkpointEvery: checkpointEvery,
		log:             config.Logger,
	}
}

type reviewEntry struct {
	fullPath   string
	confidence float64
	reason     string
	fields     map[string]string
}

// Process runs one batch pass for the supplier. Setup failures (unknown
// supplier, missing sheet, unreadable workbook) abort the run; per-row
// failures are logged and skipped.
func (p *Processor) Process(code string) (internal.RunStats, error) {
	start := time.Now()

	tpl, err := p.registry.Get(code)
	if err != nil {
		return internal.RunStats{}, err
	}
	if err := tpl.Validate(); err != nil {
		return internal.RunStats{}, err
	}

	sheet, err := p.catalog.FindSupplierSheet(tpl.SheetIdentifier)
	if err != nil {
		return internal.RunStats{}, err
	}
	rows, err := p.catalog.ReadSheet(sheet)
	if err != nil {
		return internal.RunStats{}, err
	}

	stats := internal.RunStats{Total: len(rows)}
	var review []reviewEntry

	p.log.Infof("processing %d catalogued files for %s (%s)", len(rows), code, tpl.Name)

	for i := range rows {
		row := &rows[i]
		if row.Processed() {
			stats.Skipped++
		} else {
			p.processRow(tpl, row, &stats, &review)
		}

		if (i+1)%p.checkpointEvery == 0 {
			if err := p.catalog.WriteSheet(sheet, rows); err != nil {
				return stats, fmt.Errorf("checkpoint after %d rows: %w", i+1, err)
			}
			p.log.Infof("progress saved after %d files", i+1)
		}
	}

	if err := p.catalog.WriteSheet(sheet, rows); err != nil {
		return stats, fmt.Errorf("final save: %w", err)
	}

	stats.RunDate = start.Format("2006-01-02 15:04:05")
	if stats.Total > 0 {
		stats.SuccessRate = float64(stats.Accepted) / float64(stats.Total) * 100
	}

	if err := p.registry.RecordRunStats(code, stats); err != nil {
		return stats, err
	}
	if p.runs != nil {
		runID, err := p.runs.InsertRun(code, traceID(), stats, float64(time.Since(start).Milliseconds()))
		if err != nil {
			p.log.Warnf("could not record run: %v", err)
		} else {
			for _, entry := range review {
				if err := p.runs.InsertReviewItem(runID, code, entry.fullPath, entry.confidence, entry.reason, entry.fields); err != nil {
					p.log.Warnf("could not queue %s for review: %v", entry.fullPath, err)
				}
			}
		}
	}

	p.log.Infof("run complete for %s: total=%d skipped=%d accepted=%d review=%d rejected=%d errors=%d",
		code, stats.Total, stats.Skipped, stats.Accepted, stats.NeedsReview, stats.Rejected, stats.Errors)
	return stats, nil
}

func (p *Processor) processRow(tpl *template.SupplierTemplate, row *internal.CatalogRow, stats *internal.RunStats, review *[]reviewEntry) {
	text, err := p.extractText(row.FullPath)
	if err != nil {
		stats.Errors++
		p.log.Warnf("skipping %s: %v", row.InvoiceFile, err)
		return
	}

	result, err := extract.Extract(text, filepath.Base(row.FullPath), tpl)
	if err != nil {
		stats.Errors++
		p.log.Warnf("skipping %s: %v", row.InvoiceFile, err)
		return
	}

	switch result.Decision {
	case internal.DecisionAccepted:
		if flagged := applyFields(row, result.Fields, p.log); flagged {
			*review = append(*review, reviewEntry{
				fullPath:   row.FullPath,
				confidence: result.ConfidenceScore,
				reason:     "numeric conversion failed",
				fields:     result.Fields,
			})
			stats.NeedsReview++
		} else {
			stats.Accepted++
			p.log.Infof("updated %s (confidence %.1f%%)", row.InvoiceFile, result.ConfidenceScore)
		}
	case internal.DecisionNeedsReview:
		// Below the high threshold nothing is written back; the row is
		// queued so a human can inspect the partial match.
		stats.NeedsReview++
		*review = append(*review, reviewEntry{
			fullPath:   row.FullPath,
			confidence: result.ConfidenceScore,
			reason:     "confidence below high threshold",
			fields:     result.Fields,
		})
		p.log.Infof("review needed for %s (confidence %.1f%%)", row.InvoiceFile, result.ConfidenceScore)
	default:
		stats.Rejected++
		p.log.Infof("rejected %s: %s", row.InvoiceFile, result.Reason)
	}
}

// applyFields merges accepted captures into the row using the fixed
// field-to-column mapping. Numeric fields must parse as decimal amounts; a
// failed conversion keeps the textual fields, leaves the numeric blank, and
// flags the row for review.
func applyFields(row *internal.CatalogRow, fields map[string]string, log *logrus.Logger) bool {
	flagged := false
	for field, value := range fields {
		switch field {
		case internal.FieldInvoiceNumber:
			row.InvoiceNumber = value
		case internal.FieldInvoiceDate:
			row.InvoiceDate = value
		case internal.FieldReferenceNumber:
			row.ReferenceNumber = value
		case internal.FieldPreVATTotal, internal.FieldTotalAmount:
			amount, err := parseAmount(field, value)
			if err != nil {
				flagged = true
				log.Warnf("%s: %v", row.InvoiceFile, err)
				continue
			}
			if field == internal.FieldPreVATTotal {
				row.PreVATTotal = amount
			} else {
				row.TotalAmount = amount
			}
		default:
			// Supplier-specific extension fields are extracted but have no
			// catalog column.
		}
	}
	return flagged
}

func parseAmount(field, value string) (string, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return "", &procerror.ConversionError{Field: field, Value: value, Err: err}
	}
	return d.StringFixed(2), nil
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}

// WorkbookCatalog adapts the workbook package to the Catalog interface for
// a workbook on disk.
type WorkbookCatalog struct {
	Path string
}

func (w WorkbookCatalog) FindSupplierSheet(identifier string) (string, error) {
	return workbook.FindSupplierSheet(w.Path, identifier)
}

func (w WorkbookCatalog) ReadSheet(sheet string) ([]internal.CatalogRow, error) {
	return workbook.ReadSheet(w.Path, sheet)
}

func (w WorkbookCatalog) WriteSheet(sheet string, rows []internal.CatalogRow) error {
	return workbook.WriteSheet(w.Path, sheet, rows)
}
