package extractor

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoText is returned for documents without an extractable text layer,
// typically scanned slides.
var ErrNoText = errors.New("no text could be extracted from the PDF")

// ExtractPDF returns the text of every page, one row per line and a blank
// line between pages. Unreadable pages are skipped.
func ExtractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	pages := make([]string, 0, reader.NumPage())
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		if text := pageText(page); text != "" {
			pages = append(pages, text)
		}
	}

	if len(pages) == 0 {
		return "", ErrNoText
	}
	return strings.Join(pages, "\n\n"), nil
}

// pageText keeps the row layout of a page so speaker turns and timestamps
// stay on their own lines. Pages whose rows cannot be grouped fall back to
// the flat text stream.
func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil || len(rows) == 0 {
		text, err := page.GetPlainText(nil)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(text)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		var b strings.Builder
		for _, word := range row.Content {
			b.WriteString(word.S)
		}
		if line := strings.TrimSpace(b.String()); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}
