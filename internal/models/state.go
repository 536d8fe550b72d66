package models

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusIdle          Status = "IDLE"
	StatusAnalyzing     Status = "ANALYZING"
	StatusStructuring   Status = "STRUCTURING"
	StatusReview        Status = "REVIEW"
	StatusGeneratingPDF Status = "GENERATING_PDF"
	StatusCompleted     Status = "COMPLETED"
	StatusError         Status = "ERROR"
)

// Busy reports whether an asynchronous operation is in flight.
func (s Status) Busy() bool {
	return s == StatusAnalyzing || s == StatusStructuring || s == StatusGeneratingPDF
}

type Mode string

const (
	ModeStandard Mode = "STANDARD"
	ModeDetailed Mode = "DETAILED"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeStandard:
		return ModeStandard, nil
	case ModeDetailed:
		return ModeDetailed, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

type PDFStyle string

const (
	StyleClassic  PDFStyle = "CLASSIC"
	StyleAcademic PDFStyle = "ACADEMIC"
	StyleCreative PDFStyle = "CREATIVE"
)

// Styles lists the export styles in display order.
var Styles = []PDFStyle{StyleClassic, StyleAcademic, StyleCreative}

func ParseStyle(s string) (PDFStyle, error) {
	want := PDFStyle(strings.ToUpper(strings.TrimSpace(s)))
	for _, style := range Styles {
		if style == want {
			return style, nil
		}
	}
	return "", fmt.Errorf("unknown pdf style %q", s)
}

// ProcessingState is the single source of truth for the client UI.
type ProcessingState struct {
	Status           Status   `json:"status"`
	FileName         *string  `json:"fileName"`
	Topic            string   `json:"topic"`
	Mode             Mode     `json:"mode"`
	PDFStyle         PDFStyle `json:"pdfStyle"`
	PreviewText      *string  `json:"previewText"`
	GeneratedSummary *string  `json:"generatedSummary"`
	ErrorMessage     *string  `json:"errorMessage,omitempty"`
	IsAdminOpen      bool     `json:"isAdminOpen"`
}

// InitialState returns the documented defaults.
func InitialState() ProcessingState {
	return ProcessingState{
		Status:   StatusIdle,
		Mode:     ModeStandard,
		PDFStyle: StyleClassic,
	}
}
