package models

// GenerateRequest is the relay request body. Prompt is decoded loosely so a
// non-string value can be rejected with 400 instead of a decode error.
type GenerateRequest struct {
	Prompt any    `json:"prompt"`
	Model  string `json:"model,omitempty"`
}

type GenerateResponse struct {
	Text  string `json:"text"`
	Usage *Usage `json:"usage"`
	Model string `json:"model"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Completion is what the upstream provider returned for one prompt.
type Completion struct {
	Text  string
	Usage *Usage
	Model string
}

type ExportRequest struct {
	Summary  string `json:"summary"`
	FileName string `json:"fileName"`
	Style    string `json:"style"`
}

// Artifact is a rendered summary document.
type Artifact struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Pages       int    `json:"pages"`
	Location    string `json:"location,omitempty"`
	Data        []byte `json:"-"`
}
