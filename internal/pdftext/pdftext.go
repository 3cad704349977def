// Package pdftext extracts plain text from invoice PDFs.
package pdftext

import (
	"bytes"
	"errors"
	"os"
	"strings"

	pdf "github.com/ledongthuc/pdf"

	"github.com/CornwellsLTD/JasperCurrent/internal/procerror"
)

// FirstPageText returns the plain text of the first page. Field extraction
// only ever looks at page one.
func FirstPageText(path string) (string, error) {
	r, err := open(path)
	if err != nil {
		return "", err
	}
	if r.NumPage() < 1 {
		return "", &procerror.DocumentError{Path: path, Err: errors.New("document has no pages")}
	}
	page := r.Page(1)
	if page.V.IsNull() {
		return "", &procerror.DocumentError{Path: path, Err: errors.New("first page is empty")}
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return "", &procerror.DocumentError{Path: path, Err: err}
	}
	return text, nil
}

// FullText returns the text of every page, for the inspect command.
func FullText(path string) (string, error) {
	r, err := open(path)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}
	return b.String(), nil
}

func open(path string) (*pdf.Reader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &procerror.DocumentError{Path: path, Err: err}
	}
	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &procerror.DocumentError{Path: path, Err: err}
	}
	return r, nil
}
