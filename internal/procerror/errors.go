// Package procerror defines the typed errors surfaced by the invoice
// processing pipeline.
package procerror

import "fmt"

// UnknownSupplierError reports a supplier code with no registered template.
type UnknownSupplierError struct {
	Code string
}

func (e *UnknownSupplierError) Error() string {
	return fmt.Sprintf("unknown supplier code %q", e.Code)
}

// SheetNotFoundError reports that no workbook sheet matched a supplier's
// sheet identifier.
type SheetNotFoundError struct {
	WorkbookPath string
	Identifier   string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("no sheet matching %q in %s", e.Identifier, e.WorkbookPath)
}

// DocumentError reports a single PDF that could not be read or parsed. The
// batch recovers from these per row.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("unreadable document %s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// InvalidTemplateError reports a template that cannot be used for extraction:
// zero patterns, a pattern that does not compile, or one with no capture
// group. Raised at load/validate time, not mid-batch.
type InvalidTemplateError struct {
	Code   string
	Field  string
	Reason string
}

func (e *InvalidTemplateError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid template %s: field %q: %s", e.Code, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid template %s: %s", e.Code, e.Reason)
}

// ConversionError reports a matched numeric capture that is not parseable as
// a decimal amount. The row's textual fields are still recorded.
type ConversionError struct {
	Field string
	Value string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("field %q: cannot parse %q as amount: %v", e.Field, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}
