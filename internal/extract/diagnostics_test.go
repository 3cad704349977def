package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFieldsReportsMatches(t *testing.T) {
	text := "Invoice No. 1234567\nInvoice No. 7654321\nTotal 99.00"
	patterns := map[string]string{
		"invoice_number": `Invoice No\.\s*(\d{7})`,
		"total_amount":   `Grand Total\s*(\d+\.\d{2})`,
	}

	reports := AnalyzeFields(text, patterns)
	require.Len(t, reports, 2)

	// Field-name order.
	assert.Equal(t, "invoice_number", reports[0].Field)
	assert.True(t, reports[0].Success)
	assert.Equal(t, 2, reports[0].MatchesFound)
	assert.Equal(t, []string{"1234567", "7654321"}, reports[0].SampleMatches)

	assert.Equal(t, "total_amount", reports[1].Field)
	assert.False(t, reports[1].Success)
	assert.Zero(t, reports[1].MatchesFound)
	assert.Empty(t, reports[1].SampleMatches)
}

func TestAnalyzeFieldsCapsSampleMatches(t *testing.T) {
	text := "N1 N2 N3 N4 N5"
	reports := AnalyzeFields(text, map[string]string{"n": `N(\d)`})

	require.Len(t, reports, 1)
	assert.Equal(t, 5, reports[0].MatchesFound)
	assert.Equal(t, []string{"1", "2", "3"}, reports[0].SampleMatches)
}

func TestAnalyzeFieldsToleratesBrokenPattern(t *testing.T) {
	reports := AnalyzeFields("anything", map[string]string{
		"bad":        `([unclosed`,
		"no_capture": `\d+`,
	})

	require.Len(t, reports, 2)
	for _, report := range reports {
		assert.False(t, report.Success)
		assert.Zero(t, report.MatchesFound)
	}
}
