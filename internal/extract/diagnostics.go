package extract

import (
	"regexp"
	"sort"
)

const maxSampleMatches = 3

// FieldReport describes how well one pattern matched a sample text. Used by
// the refinement workflow to hand-tune patterns.
type FieldReport struct {
	Field         string   `json:"field"`
	Success       bool     `json:"success"`
	MatchesFound  int      `json:"matches_found"`
	SampleMatches []string `json:"sample_matches"`
}

// AnalyzeFields runs every pattern against the sample text and reports match
// counts and up to three sample captures per field, in field-name order.
// Patterns that fail to compile report zero matches rather than aborting the
// analysis; a draft pattern under refinement is expected to be rough.
func AnalyzeFields(text string, patterns map[string]string) []FieldReport {
	fields := make([]string, 0, len(patterns))
	for field := range patterns {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := make([]FieldReport, 0, len(fields))
	for _, field := range fields {
		report := FieldReport{Field: field, SampleMatches: []string{}}
		re, err := regexp.Compile(patterns[field])
		if err == nil && re.NumSubexp() >= 1 {
			matches := re.FindAllStringSubmatch(text, -1)
			report.MatchesFound = len(matches)
			report.Success = len(matches) > 0
			for i, m := range matches {
				if i == maxSampleMatches {
					break
				}
				report.SampleMatches = append(report.SampleMatches, m[1])
			}
		}
		out = append(out, report)
	}
	return out
}
