package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

const (
	embeddedFamily = "Roboto"
	coreFamily     = "Helvetica"
	maxFontBytes   = 8 << 20
)

// Font is the body font resolved for one document. A Font without data is
// the built-in Helvetica, which only covers cp1252.
type Font struct {
	Family string
	data   []byte
}

func (f Font) Embedded() bool {
	return len(f.data) > 0
}

// install registers the font on pdf and returns the text translator to use
// for every string drawn or measured with it.
func (f Font) install(pdf *gofpdf.Fpdf) func(string) string {
	if f.Embedded() {
		pdf.AddUTF8FontFromBytes(f.Family, "", f.data)
		return func(s string) string { return s }
	}
	return pdf.UnicodeTranslatorFromDescriptor("")
}

// FontLoader downloads the body font once. Failures are not cached so a
// later export can retry.
type FontLoader struct {
	url    string
	client *http.Client
	logger *utils.Logger

	mu     sync.Mutex
	cached []byte
}

func NewFontLoader(url string, logger *utils.Logger) *FontLoader {
	return &FontLoader{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}
}

// Load never fails: any problem fetching or parsing the font yields the
// core fallback.
func (l *FontLoader) Load(ctx context.Context) Font {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.cached != nil {
		return Font{Family: embeddedFamily, data: l.cached}
	}
	if l.url == "" {
		return Font{Family: coreFamily}
	}

	data, err := l.fetch(ctx)
	if err == nil {
		err = validateFont(data)
	}
	if err != nil {
		l.logger.Warn("Font unavailable, using built-in Helvetica", "url", l.url, "error", err)
		return Font{Family: coreFamily}
	}

	l.cached = data
	return Font{Family: embeddedFamily, data: data}
}

func (l *FontLoader) fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create font request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch font: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("font request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFontBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("font response was empty")
	}
	return data, nil
}

// validateFont parses the font on a scratch document. The TTF parser panics
// on some malformed input.
func validateFont(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid font: %v", r)
		}
	}()

	scratch := gofpdf.New("P", "mm", "A4", "")
	scratch.AddUTF8FontFromBytes(embeddedFamily, "", data)
	scratch.SetFont(embeddedFamily, "", 11)
	if scratch.Err() {
		return fmt.Errorf("invalid font: %w", scratch.Error())
	}
	return nil
}
