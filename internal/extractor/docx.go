package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const documentPart = "word/document.xml"

type wordDocument struct {
	XMLName xml.Name `xml:"document"`
	Body    struct {
		Paragraphs []wordParagraph `xml:"p"`
	} `xml:"body"`
}

type wordParagraph struct {
	Runs []wordRun `xml:"r"`
}

type wordRun struct {
	Text  []string   `xml:"t"`
	Tabs  []struct{} `xml:"tab"`
	Break []struct{} `xml:"br"`
}

// ExtractDOCX reads the main document part, one line per paragraph.
func ExtractDOCX(data []byte) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read DOCX as ZIP: %w", err)
	}

	var documentFile *zip.File
	for _, file := range zipReader.File {
		if file.Name == documentPart {
			documentFile = file
			break
		}
	}
	if documentFile == nil {
		return "", fmt.Errorf("%s not found in DOCX", documentPart)
	}

	xmlFile, err := documentFile.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", documentPart, err)
	}
	defer xmlFile.Close()

	xmlData, err := io.ReadAll(xmlFile)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", documentPart, err)
	}

	var doc wordDocument
	if err := xml.Unmarshal(xmlData, &doc); err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", documentPart, err)
	}

	var textBuilder strings.Builder
	for _, para := range doc.Body.Paragraphs {
		for _, run := range para.Runs {
			for range run.Tabs {
				textBuilder.WriteString("\t")
			}
			textBuilder.WriteString(strings.Join(run.Text, ""))
			for range run.Break {
				textBuilder.WriteString("\n")
			}
		}
		textBuilder.WriteString("\n")
	}

	extractedText := strings.TrimSpace(textBuilder.String())
	if extractedText == "" {
		return "", fmt.Errorf("no text could be extracted from DOCX")
	}

	return extractedText, nil
}
