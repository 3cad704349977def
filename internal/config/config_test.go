package config

import (
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"JASPER_WORKBOOK_PATH", "JASPER_INVOICE_ROOT", "JASPER_TEMPLATES_PATH",
		"JASPER_DB_PATH", "JASPER_OUTPUT_DIR", "JASPER_CHECKPOINT_EVERY", "JASPER_VALIDATION_SAMPLES",
	} {
		// t.Setenv registers the restore; the unset makes Load fall back.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.CheckpointEvery)
	assert.Equal(t, 20, cfg.ValidationSamples)
	assert.Contains(t, cfg.TemplatesPath, "supplier_templates.json")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JASPER_WORKBOOK_PATH", "/srv/jasper/Invoice_Summary.xlsx")
	t.Setenv("JASPER_CHECKPOINT_EVERY", "5")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/srv/jasper/Invoice_Summary.xlsx", cfg.WorkbookPath)
	assert.Equal(t, 5, cfg.CheckpointEvery)
}

func TestLoadIgnoresUnparseableInt(t *testing.T) {
	t.Setenv("JASPER_CHECKPOINT_EVERY", "often")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.CheckpointEvery)
}

func TestConfigureLogging(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	logger := ConfigureLogging()
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)

	t.Setenv("LOG_LEVEL", "nonsense")
	logger = ConfigureLogging()
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}
