package render

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ArtifactName derives the export file name from the transcript name:
// extension dropped, whitespace runs collapsed to underscores.
func ArtifactName(source string, style models.PDFStyle) string {
	base := filepath.Base(strings.TrimSpace(source))
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = whitespaceRun.ReplaceAllString(strings.TrimSpace(stem), "_")
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "transcript"
	}
	return stem + "_summary_" + strings.ToLower(string(style)) + ".pdf"
}
