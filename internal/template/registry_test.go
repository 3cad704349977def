package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CornwellsLTD/JasperCurrent/internal"
	"github.com/CornwellsLTD/JasperCurrent/internal/procerror"
)

func tempRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(filepath.Join(t.TempDir(), "supplier_templates.json"))
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	r := tempRegistry(t)
	require.NoError(t, r.Load())

	tpl, err := r.Get("ABBOTT")
	require.NoError(t, err)
	assert.Equal(t, "Abbott Laboratories Limited", tpl.Name)
}

func TestSaveLoadRoundTripIsExact(t *testing.T) {
	r := tempRegistry(t)
	require.NoError(t, r.Load())
	require.NoError(t, r.Save())

	first, err := os.ReadFile(r.path)
	require.NoError(t, err)

	reloaded := NewRegistry(r.path)
	require.NoError(t, reloaded.Load())
	require.NoError(t, reloaded.Save())

	second, err := os.ReadFile(r.path)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	// Every field survives, including untouched run stats.
	for _, code := range r.Codes() {
		want, err := r.Get(code)
		require.NoError(t, err)
		got, err := reloaded.Get(code)
		require.NoError(t, err)
		assert.Equal(t, want, got, code)
	}
}

func TestLoadRejectsBrokenTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "supplier_templates.json")
	doc := `{"BAD": {"code": "BAD", "name": "Bad", "sheet_identifier": "bad",
		"validation_markers": [], "exclusion_markers": [],
		"patterns": {"invoice_number": "([unclosed"},
		"high_confidence_threshold": 95, "review_confidence_threshold": 75,
		"last_run_date": "", "total_processed": 0, "success_rate": 0}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	r := NewRegistry(path)
	err := r.Load()
	var invalid *procerror.InvalidTemplateError
	require.ErrorAs(t, err, &invalid)
}

func TestGetUnknownSupplier(t *testing.T) {
	r := tempRegistry(t)
	require.NoError(t, r.Load())

	_, err := r.Get("NOPE")
	var unknown *procerror.UnknownSupplierError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "NOPE", unknown.Code)
}

func TestUpsertReplacesTemplate(t *testing.T) {
	r := tempRegistry(t)
	require.NoError(t, r.Load())

	r.Upsert("NEWCO", &SupplierTemplate{
		Name:                      "Newco Ltd",
		SheetIdentifier:           "newco",
		Patterns:                  map[string]string{"invoice_number": `No (\d+)`},
		HighConfidenceThreshold:   DefaultHighConfidenceThreshold,
		ReviewConfidenceThreshold: DefaultReviewConfidenceThreshold,
	})

	tpl, err := r.Get("NEWCO")
	require.NoError(t, err)
	assert.Equal(t, "NEWCO", tpl.Code)
	assert.Equal(t, "Newco Ltd", tpl.Name)
}

func TestRecordRunStats(t *testing.T) {
	r := tempRegistry(t)
	require.NoError(t, r.Load())

	stats := internal.RunStats{
		RunDate:     "2023-02-01 09:30:00",
		Total:       40,
		Accepted:    30,
		SuccessRate: 75,
	}
	require.NoError(t, r.RecordRunStats("ABBOTT", stats))

	reloaded := NewRegistry(r.path)
	require.NoError(t, reloaded.Load())
	tpl, err := reloaded.Get("ABBOTT")
	require.NoError(t, err)
	assert.Equal(t, "2023-02-01 09:30:00", tpl.LastRunDate)
	assert.Equal(t, 40, tpl.TotalProcessed)
	assert.InDelta(t, 75.0, tpl.SuccessRate, 1e-9)
}

func TestRecordRunStatsUnknownSupplier(t *testing.T) {
	r := tempRegistry(t)
	require.NoError(t, r.Load())

	err := r.RecordRunStats("NOPE", internal.RunStats{})
	var unknown *procerror.UnknownSupplierError
	require.ErrorAs(t, err, &unknown)

	// Nothing was persisted for the failed update.
	_, statErr := os.Stat(r.path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRefreshDefaultsPersists(t *testing.T) {
	r := tempRegistry(t)
	require.NoError(t, r.RefreshDefaults())

	reloaded := NewRegistry(r.path)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, []string{"ABBOTT", "ADEPT", "AJBELL", "ALLIANCE", "ASH_WASTE", "VALLEY"}, reloaded.Codes())
}
