package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Logger is the shared application logger, configured by ConfigureLogging.
var Logger = logrus.New()

type Config struct {
	WorkbookPath  string
	InvoiceRoot   string
	TemplatesPath string
	DBPath        string
	OutputDir     string

	CheckpointEvery   int
	ValidationSamples int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		WorkbookPath:  getEnv("JASPER_WORKBOOK_PATH", filepath.Join(cwd, "Invoice_Summary.xlsx")),
		InvoiceRoot:   getEnv("JASPER_INVOICE_ROOT", filepath.Join(cwd, "invoices")),
		TemplatesPath: getEnv("JASPER_TEMPLATES_PATH", filepath.Join(cwd, "supplier_templates", "supplier_templates.json")),
		DBPath:        getEnv("JASPER_DB_PATH", filepath.Join(cwd, "data", "runs.db")),
		OutputDir:     getEnv("JASPER_OUTPUT_DIR", filepath.Join(cwd, "out")),

		CheckpointEvery:   getEnvInt("JASPER_CHECKPOINT_EVERY", 10),
		ValidationSamples: getEnvInt("JASPER_VALIDATION_SAMPLES", 20),
	}

	return cfg, nil
}

// ConfigureLogging sets level and format on the shared logger from
// LOG_LEVEL / LOG_FORMAT and returns it.
func ConfigureLogging() *logrus.Logger {
	levelStr := getEnv("LOG_LEVEL", "info")
	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		Logger.Warnf("invalid log level %q, using info", levelStr)
		level = logrus.InfoLevel
	}
	Logger.SetLevel(level)

	if strings.EqualFold(getEnv("LOG_FORMAT", ""), "json") {
		Logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return Logger
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
