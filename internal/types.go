package internal

// Decision classifies an extraction outcome against the template thresholds.
type Decision string

// RejectReason names why a document was rejected before or after field matching.
type RejectReason string

const (
	DecisionAccepted    Decision = "ACCEPTED"
	DecisionNeedsReview Decision = "NEEDS_REVIEW"
	DecisionRejected    Decision = "REJECTED"

	ReasonMissingMarker RejectReason = "missing validation marker"
	ReasonExcluded      RejectReason = "excluded by marker"
	ReasonLowConfidence RejectReason = "below review threshold"
	ReasonNone          RejectReason = ""
)

// Canonical field names understood by the catalog column mapping. Templates
// may define extra fields; those are extracted but not columnized.
const (
	FieldInvoiceNumber   = "invoice_number"
	FieldInvoiceDate     = "invoice_date"
	FieldReferenceNumber = "reference_number"
	FieldPreVATTotal     = "pre_vat_total"
	FieldTotalAmount     = "total_amount"
)

// ExtractionResult is the engine output for one document.
type ExtractionResult struct {
	Fields          map[string]string `json:"fields"`
	MatchedFields   int               `json:"matchedFields"`
	TotalPatterns   int               `json:"totalPatterns"`
	ConfidenceScore float64           `json:"confidenceScore"`
	Decision        Decision          `json:"decision"`
	Reason          RejectReason      `json:"reason,omitempty"`
}

// CatalogRow is one PDF's entry in a supplier sheet. FullPath is the unique
// key; the editable fields may be hand-corrected between runs and must be
// preserved once InvoiceDate and TotalAmount are both set.
type CatalogRow struct {
	InvoiceFile     string
	InvoiceDate     string
	InvoiceNumber   string
	ReferenceNumber string
	PreVATTotal     string
	TotalAmount     string
	PeriodFolder    string
	FileSizeKB      float64
	FullPath        string
	SupplierCode    string
}

// Processed reports whether a row was already filled in by an earlier run or
// by hand. Such rows are never re-extracted.
func (r CatalogRow) Processed() bool {
	return r.InvoiceDate != "" && r.TotalAmount != ""
}

// RunStats aggregates one batch pass over a supplier's catalog.
type RunStats struct {
	RunDate     string  `json:"run_date"`
	Total       int     `json:"total"`
	Skipped     int     `json:"skipped"`
	Accepted    int     `json:"accepted"`
	NeedsReview int     `json:"needs_review"`
	Rejected    int     `json:"rejected"`
	Errors      int     `json:"errors"`
	SuccessRate float64 `json:"success_rate"`
}
