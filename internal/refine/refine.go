// Package refine helps an operator draft a new supplier template from a
// sample invoice before registering it.
package refine

import (
	"regexp"

	"github.com/CornwellsLTD/JasperCurrent/internal/extract"
	"github.com/CornwellsLTD/JasperCurrent/internal/template"
)

// StarterPatterns is the fixed probe set run against a sample invoice. The
// operator hand-tunes from here; these are deliberately generic.
func StarterPatterns() map[string]string {
	return map[string]string{
		"invoice_number":   `(?:Invoice No[.: ]*|^)(\d{6})`,
		"invoice_date":     `(?:Invoice Date[.: ]*|Date[.: ]*)(\d{2}/\d{2}/\d{4})`,
		"due_date":         `(?:Inv Due By|Due Date)[.: ]*(\d{2}/\d{2}/\d{4})`,
		"pre_vat_total":    `Sub[- ]?Total\s*(\d+\.\d{2})`,
		"vat_amount":       `VAT @ \d+%\s*(\d+\.\d{2})`,
		"total_amount":     `TOTAL DUE \(£\)\s*(\d+\.\d{2})`,
		"reference_number": `(?:Our Ref|Customer Ref)[.: ]*([A-Z0-9\-]+)`,
	}
}

var filenameInvoiceNo = regexp.MustCompile(`^(\d{6})`)

// Report is the per-field confidence report plus a suggested draft template.
type Report struct {
	Fields    []extract.FieldReport
	Suggested *template.SupplierTemplate

	// FilenameInvoiceNumber is set when the filename starts with a six-digit
	// invoice number; some suppliers only carry the number there.
	FilenameInvoiceNumber string
}

// Analyze probes the sample text and filename with the starter pattern set.
func Analyze(text, filename, code, name, sheetIdentifier string) Report {
	patterns := StarterPatterns()
	report := Report{
		Fields: extract.AnalyzeFields(text, patterns),
	}

	if m := filenameInvoiceNo.FindStringSubmatch(filename); m != nil {
		report.FilenameInvoiceNumber = m[1]
		for i := range report.Fields {
			if report.Fields[i].Field == "invoice_number" && !report.Fields[i].Success {
				report.Fields[i].Success = true
				report.Fields[i].MatchesFound = 1
				report.Fields[i].SampleMatches = []string{m[1]}
			}
		}
	}

	suggested := &template.SupplierTemplate{
		Code:                      code,
		Name:                      name,
		SheetIdentifier:           sheetIdentifier,
		ValidationMarkers:         []string{"INVOICE"},
		ExclusionMarkers:          []string{"STATEMENT", "CREDIT NOTE"},
		Patterns:                  patterns,
		HighConfidenceThreshold:   template.DefaultHighConfidenceThreshold,
		ReviewConfidenceThreshold: template.DefaultReviewConfidenceThreshold,
	}
	if report.FilenameInvoiceNumber != "" {
		suggested.FilenameFields = []string{"invoice_number"}
	}
	report.Suggested = suggested
	return report
}

// Sample is one catalogued invoice used to trial a proposed template.
type Sample struct {
	Text     string
	Filename string
}

// SampleResult is the per-sample outcome of a validation trial.
type SampleResult struct {
	Filename      string
	MatchedFields int
	TotalPatterns int
	AllMatched    bool
}

// ValidateOnSamples trials a proposed template against sample invoices and
// reports the share where every pattern matched.
func ValidateOnSamples(tpl *template.SupplierTemplate, samples []Sample) (float64, []SampleResult, error) {
	results := make([]SampleResult, 0, len(samples))
	successes := 0
	for _, sample := range samples {
		res, err := extract.Extract(sample.Text, sample.Filename, tpl)
		if err != nil {
			return 0, nil, err
		}
		all := res.TotalPatterns > 0 && res.MatchedFields == res.TotalPatterns
		if all {
			successes++
		}
		results = append(results, SampleResult{
			Filename:      sample.Filename,
			MatchedFields: res.MatchedFields,
			TotalPatterns: res.TotalPatterns,
			AllMatched:    all,
		})
	}
	if len(samples) == 0 {
		return 0, results, nil
	}
	return float64(successes) / float64(len(samples)) * 100, results, nil
}
