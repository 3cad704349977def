package template

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/CornwellsLTD/JasperCurrent/internal"
	"github.com/CornwellsLTD/JasperCurrent/internal/procerror"
)

// Registry holds the known supplier templates keyed by code and persists
// them as a single JSON document.
type Registry struct {
	path      string
	templates map[string]*SupplierTemplate
}

func NewRegistry(path string) *Registry {
	return &Registry{path: path, templates: map[string]*SupplierTemplate{}}
}

// Load reads the registry document, falling back to the built-in defaults
// when the file does not exist yet. Every loaded template is validated so a
// broken pattern surfaces here, not mid-batch.
func (r *Registry) Load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.templates = Defaults()
		return r.validateAll()
	}
	if err != nil {
		return fmt.Errorf("reading registry %s: %w", r.path, err)
	}

	templates := map[string]*SupplierTemplate{}
	if err := json.Unmarshal(data, &templates); err != nil {
		return fmt.Errorf("parsing registry %s: %w", r.path, err)
	}
	r.templates = templates
	return r.validateAll()
}

func (r *Registry) validateAll() error {
	for _, tpl := range r.templates {
		if err := tpl.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the full registry document. Serializing and reloading must
// reproduce every field exactly, including thresholds and empty run stats.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(r.templates, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(r.path, data, 0o644)
}

func (r *Registry) Get(code string) (*SupplierTemplate, error) {
	tpl, ok := r.templates[code]
	if !ok {
		return nil, &procerror.UnknownSupplierError{Code: code}
	}
	return tpl, nil
}

// Upsert inserts or fully replaces the template for code. Partial updates
// must be constructed by the caller from the current template.
func (r *Registry) Upsert(code string, tpl *SupplierTemplate) {
	tpl.Code = code
	r.templates[code] = tpl
}

// RecordRunStats updates the template's run statistics and persists the
// registry. An unknown code is an error, not a silent no-op.
func (r *Registry) RecordRunStats(code string, stats internal.RunStats) error {
	tpl, ok := r.templates[code]
	if !ok {
		return &procerror.UnknownSupplierError{Code: code}
	}
	tpl.LastRunDate = stats.RunDate
	tpl.TotalProcessed = stats.Total
	tpl.SuccessRate = stats.SuccessRate
	return r.Save()
}

// RefreshDefaults overwrites the registry with the built-in template set and
// persists it. Used for recovery and first-time bootstrap.
func (r *Registry) RefreshDefaults() error {
	r.templates = Defaults()
	return r.Save()
}

// Codes returns the registered supplier codes in sorted order.
func (r *Registry) Codes() []string {
	codes := make([]string, 0, len(r.templates))
	for code := range r.templates {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
