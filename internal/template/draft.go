package template

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Proposed templates arrive as JSON documents from the refinement workflow.
// They are validated against this schema before being constructed; template
// text is never evaluated as code.
const draftSchema = `{
    "$schema": "https://json-schema.org/draft/2020-12/schema",
    "type": "object",
    "required": ["code", "name", "sheet_identifier", "validation_markers", "patterns"],
    "additionalProperties": false,
    "properties": {
        "code": {"type": "string", "minLength": 1, "pattern": "^[A-Z][A-Z0-9_]*$"},
        "name": {"type": "string", "minLength": 1},
        "sheet_identifier": {"type": "string", "minLength": 1},
        "validation_markers": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "exclusion_markers": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "patterns": {
            "type": "object",
            "minProperties": 1,
            "additionalProperties": {"type": "string", "minLength": 1}
        },
        "filename_fields": {"type": "array", "items": {"type": "string", "minLength": 1}},
        "high_confidence_threshold": {"type": "number", "minimum": 0, "maximum": 100},
        "review_confidence_threshold": {"type": "number", "minimum": 0, "maximum": 100},
        "last_run_date": {"type": "string"},
        "total_processed": {"type": "integer", "minimum": 0},
        "success_rate": {"type": "number", "minimum": 0, "maximum": 100}
    }
}`

var compiledDraftSchema = jsonschema.MustCompileString("template.schema.json", draftSchema)

// ParseDraft validates a proposed template document against the schema and
// the pattern rules, returning a ready-to-register template. Thresholds
// default when the draft omits them.
func ParseDraft(data []byte) (*SupplierTemplate, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("draft is not valid JSON: %w", err)
	}
	if err := compiledDraftSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("draft failed schema validation: %w", err)
	}

	tpl := &SupplierTemplate{
		HighConfidenceThreshold:   DefaultHighConfidenceThreshold,
		ReviewConfidenceThreshold: DefaultReviewConfidenceThreshold,
	}
	if err := json.Unmarshal(data, tpl); err != nil {
		return nil, err
	}
	if err := tpl.Validate(); err != nil {
		return nil, err
	}
	return tpl, nil
}
