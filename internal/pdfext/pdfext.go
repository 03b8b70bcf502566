// Package pdfext extracts plain text from PDF handbooks.
package pdfext

import (
	"bytes"
	"strings"

	pdf "github.com/dslipak/pdf"
)

func Extract(path string) (string, error) {
	r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}

	reader, err := r.GetPlainText()
	if err != nil {
		return "", err
	}

	buf := bytes.NewBuffer(nil)
	if _, err := buf.ReadFrom(reader); err != nil {
		return "", err
	}

	return strings.TrimSpace(buf.String()), nil
}
