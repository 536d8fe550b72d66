// Package extractor turns an uploaded transcript file into plain text.
package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned for any extension other than .txt, .pdf
// and .docx.
var ErrUnsupportedType = errors.New("unsupported file type, expected .txt, .pdf or .docx")

// Extensions lists the accepted file types in display order.
var Extensions = []string{".txt", ".pdf", ".docx"}

// Supported reports whether filename has an accepted extension.
func Supported(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Extract dispatches on the file extension.
func Extract(filename string, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		text, err = ExtractTXT(data)
	case ".pdf":
		text, err = ExtractPDF(data)
	case ".docx":
		text, err = ExtractDOCX(data)
	default:
		return "", fmt.Errorf("%s: %w", filepath.Base(filename), ErrUnsupportedType)
	}
	if err != nil {
		return "", fmt.Errorf("%s: %w", filepath.Base(filename), err)
	}
	return text, nil
}
