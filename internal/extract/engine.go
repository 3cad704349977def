// Package extract implements the supplier-pattern-matching extraction engine:
// validation and exclusion gates, per-field regex matching, confidence
// scoring, and the accept/review/reject decision.
package extract

import (
	"strings"

	"github.com/CornwellsLTD/JasperCurrent/internal"
	"github.com/CornwellsLTD/JasperCurrent/internal/template"
)

// Extract applies one supplier template to a document's first-page text and
// filename. It is pure: it only reads its arguments and returns a result.
//
// A template with zero patterns (or an uncompilable one) is an
// InvalidTemplateError, never a divide-by-zero score.
func Extract(text, filename string, tpl *template.SupplierTemplate) (internal.ExtractionResult, error) {
	compiled, err := tpl.Compile()
	if err != nil {
		return internal.ExtractionResult{}, err
	}

	total := len(tpl.Patterns)
	result := internal.ExtractionResult{
		Fields:        map[string]string{},
		TotalPatterns: total,
	}

	for _, marker := range tpl.ValidationMarkers {
		if !strings.Contains(text, marker) {
			result.Decision = internal.DecisionRejected
			result.Reason = internal.ReasonMissingMarker
			return result, nil
		}
	}
	for _, marker := range tpl.ExclusionMarkers {
		if strings.Contains(text, marker) {
			result.Decision = internal.DecisionRejected
			result.Reason = internal.ReasonExcluded
			return result, nil
		}
	}

	for _, field := range tpl.FieldNames() {
		subject := text
		if tpl.MatchesFilename(field) {
			subject = filename
		}
		// First match wins; an empty capture still counts as a match.
		match := compiled[field].FindStringSubmatch(subject)
		if match == nil {
			continue
		}
		result.Fields[field] = match[1]
		result.MatchedFields++
	}

	result.ConfidenceScore = float64(result.MatchedFields) / float64(total) * 100
	switch {
	case result.ConfidenceScore >= tpl.HighConfidenceThreshold:
		result.Decision = internal.DecisionAccepted
	case result.ConfidenceScore >= tpl.ReviewConfidenceThreshold:
		result.Decision = internal.DecisionNeedsReview
	default:
		result.Decision = internal.DecisionRejected
		result.Reason = internal.ReasonLowConfidence
	}

	return result, nil
}
