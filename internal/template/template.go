// Package template holds the per-supplier extraction templates and the
// registry that persists them.
package template

import (
	"regexp"
	"sort"

	"github.com/CornwellsLTD/JasperCurrent/internal/procerror"
)

// SupplierTemplate bundles the match rules for one vendor's invoice layout.
// JSON field names mirror the on-disk registry document, so an existing
// registry file loads unchanged.
type SupplierTemplate struct {
	Code              string            `json:"code"`
	Name              string            `json:"name"`
	SheetIdentifier   string            `json:"sheet_identifier"`
	ValidationMarkers []string          `json:"validation_markers"`
	ExclusionMarkers  []string          `json:"exclusion_markers"`
	Patterns          map[string]string `json:"patterns"`

	// FilenameFields lists fields whose pattern is applied to the PDF's
	// filename instead of the body text. Some suppliers only carry the
	// invoice number in the filename.
	FilenameFields []string `json:"filename_fields,omitempty"`

	HighConfidenceThreshold   float64 `json:"high_confidence_threshold"`
	ReviewConfidenceThreshold float64 `json:"review_confidence_threshold"`

	// Run statistics, updated by RecordRunStats only.
	LastRunDate    string  `json:"last_run_date"`
	TotalProcessed int     `json:"total_processed"`
	SuccessRate    float64 `json:"success_rate"`
}

const (
	DefaultHighConfidenceThreshold   = 95.0
	DefaultReviewConfidenceThreshold = 75.0
)

// Validate checks that the template is usable for extraction: at least one
// pattern, every pattern compiles, every pattern has a capture group.
func (t *SupplierTemplate) Validate() error {
	if len(t.Patterns) == 0 {
		return &procerror.InvalidTemplateError{Code: t.Code, Reason: "no patterns defined"}
	}
	for _, field := range t.FieldNames() {
		pattern := t.Patterns[field]
		re, err := regexp.Compile(pattern)
		if err != nil {
			return &procerror.InvalidTemplateError{Code: t.Code, Field: field, Reason: err.Error()}
		}
		if re.NumSubexp() < 1 {
			return &procerror.InvalidTemplateError{Code: t.Code, Field: field, Reason: "pattern has no capture group"}
		}
	}
	return nil
}

// Compile returns the compiled pattern set. Call Validate first; a template
// that fails Validate returns the same InvalidTemplateError here.
func (t *SupplierTemplate) Compile() (map[string]*regexp.Regexp, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	compiled := make(map[string]*regexp.Regexp, len(t.Patterns))
	for field, pattern := range t.Patterns {
		compiled[field] = regexp.MustCompile(pattern)
	}
	return compiled, nil
}

// FieldNames returns the pattern keys in sorted order so extraction and
// reporting are deterministic.
func (t *SupplierTemplate) FieldNames() []string {
	names := make([]string, 0, len(t.Patterns))
	for field := range t.Patterns {
		names = append(names, field)
	}
	sort.Strings(names)
	return names
}

// MatchesFilename reports whether the field's pattern targets the filename.
func (t *SupplierTemplate) MatchesFilename(field string) bool {
	for _, f := range t.FilenameFields {
		if f == field {
			return true
		}
	}
	return false
}
