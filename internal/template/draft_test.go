package template

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validDraft = `{
    "code": "NEWCO",
    "name": "Newco Ltd",
    "sheet_identifier": "newco",
    "validation_markers": ["NEWCO LTD", "INVOICE"],
    "exclusion_markers": ["STATEMENT"],
    "patterns": {
        "invoice_number": "Invoice No\\.\\s*(\\d+)",
        "total_amount": "Total\\s*(\\d+\\.\\d{2})"
    }
}`

func TestParseDraftAppliesDefaults(t *testing.T) {
	tpl, err := ParseDraft([]byte(validDraft))
	require.NoError(t, err)

	assert.Equal(t, "NEWCO", tpl.Code)
	assert.Equal(t, DefaultHighConfidenceThreshold, tpl.HighConfidenceThreshold)
	assert.Equal(t, DefaultReviewConfidenceThreshold, tpl.ReviewConfidenceThreshold)
	assert.Len(t, tpl.Patterns, 2)
}

func TestParseDraftKeepsExplicitThresholds(t *testing.T) {
	doc := `{
        "code": "NEWCO", "name": "Newco Ltd", "sheet_identifier": "newco",
        "validation_markers": ["NEWCO"], "patterns": {"invoice_number": "No (\\d+)"},
        "high_confidence_threshold": 90, "review_confidence_threshold": 60
    }`
	tpl, err := ParseDraft([]byte(doc))
	require.NoError(t, err)
	assert.InDelta(t, 90.0, tpl.HighConfidenceThreshold, 1e-9)
	assert.InDelta(t, 60.0, tpl.ReviewConfidenceThreshold, 1e-9)
}

func TestParseDraftRejectsMissingRequiredField(t *testing.T) {
	doc := `{"code": "NEWCO", "name": "Newco Ltd", "patterns": {"invoice_number": "No (\\d+)"}}`
	_, err := ParseDraft([]byte(doc))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema")
}

func TestParseDraftRejectsUnknownProperty(t *testing.T) {
	doc := `{
        "code": "NEWCO", "name": "Newco Ltd", "sheet_identifier": "newco",
        "validation_markers": [], "patterns": {"invoice_number": "No (\\d+)"},
        "exec": "import os"
    }`
	_, err := ParseDraft([]byte(doc))
	require.Error(t, err)
}

func TestParseDraftRejectsLowercaseCode(t *testing.T) {
	doc := `{
        "code": "newco", "name": "Newco Ltd", "sheet_identifier": "newco",
        "validation_markers": [], "patterns": {"invoice_number": "No (\\d+)"}
    }`
	_, err := ParseDraft([]byte(doc))
	require.Error(t, err)
}

func TestParseDraftRejectsEmptyPatterns(t *testing.T) {
	doc := `{
        "code": "NEWCO", "name": "Newco Ltd", "sheet_identifier": "newco",
        "validation_markers": [], "patterns": {}
    }`
	_, err := ParseDraft([]byte(doc))
	require.Error(t, err)
}

func TestParseDraftRejectsPatternWithoutCaptureGroup(t *testing.T) {
	doc := `{
        "code": "NEWCO", "name": "Newco Ltd", "sheet_identifier": "newco",
        "validation_markers": [], "patterns": {"invoice_number": "\\d+"}
    }`
	_, err := ParseDraft([]byte(doc))
	require.Error(t, err)
}

func TestParseDraftRejectsMalformedJSON(t *testing.T) {
	_, err := ParseDraft([]byte(`{"code": `))
	require.Error(t, err)
}
