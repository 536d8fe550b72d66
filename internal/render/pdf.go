package render

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf/v2"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
	"github.com/BerylCAtieno/transcript-summarizer/internal/utils"
)

const (
	documentTitle = "Summary"
	footerCaption = "Mono-Assistant • Created for clarity"
	sidebarWidth  = 5
)

// fpdfMeasurer measures text with the font installed on a document.
type fpdfMeasurer struct {
	pdf       *gofpdf.Fpdf
	family    string
	translate func(string) string
}

func (m fpdfMeasurer) TextWidth(text string, size float64) float64 {
	m.pdf.SetFont(m.family, "", size)
	return m.pdf.GetStringWidth(m.translate(text))
}

// Writer turns a Markdown-subset summary into a styled PDF.
type Writer struct {
	fonts  *FontLoader
	geo    Geometry
	logger *utils.Logger
	now    func() time.Time
}

func NewWriter(fonts *FontLoader, logger *utils.Logger) *Writer {
	return &Writer{
		fonts:  fonts,
		geo:    A4,
		logger: logger,
		now:    time.Now,
	}
}

// Render builds the document in memory. sourceName is the transcript file
// name shown in the header and used for the artifact name.
func (w *Writer) Render(ctx context.Context, summary, sourceName string, style models.PDFStyle) (*models.Artifact, error) {
	profile, err := Profile(style)
	if err != nil {
		return nil, err
	}

	font := w.fonts.Load(ctx)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(documentTitle, true)
	pdf.SetCreator("Mono-Assistant", true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(w.geo.Margin, w.geo.Margin, w.geo.Margin)
	translate := font.install(pdf)

	measure := fpdfMeasurer{pdf: pdf, family: font.Family, translate: translate}
	pages := NewPaginator(w.geo, measure).Paginate(summary, profile)

	d := &drawer{pdf: pdf, geo: w.geo, family: font.Family, translate: translate, profile: profile}
	for _, page := range pages {
		pdf.AddPage()
		d.decorate()
		if page.Number == 1 {
			d.header(sourceName, w.now())
		}
		for _, line := range page.Lines {
			d.line(line)
		}
		d.footer(page.Number)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}

	w.logger.Debug("Rendered summary",
		"style", style,
		"pages", len(pages),
		"embedded_font", font.Embedded(),
	)

	return &models.Artifact{
		Name:        ArtifactName(sourceName, style),
		ContentType: "application/pdf",
		Pages:       len(pages),
		Data:        buf.Bytes(),
	}, nil
}

type drawer struct {
	pdf       *gofpdf.Fpdf
	geo       Geometry
	family    string
	translate func(string) string
	profile   StyleProfile
}

func (d *drawer) color(c RGB) {
	d.pdf.SetTextColor(c.R, c.G, c.B)
}

func (d *drawer) decorate() {
	if !d.profile.Sidebar {
		return
	}
	c := d.profile.SidebarColor
	d.pdf.SetFillColor(c.R, c.G, c.B)
	d.pdf.Rect(0, 0, sidebarWidth, d.geo.PageHeight, "F")
}

func (d *drawer) header(sourceName string, now time.Time) {
	m := d.geo.Margin
	y := m

	d.pdf.SetFont(d.family, "", titleSize)
	d.color(d.profile.Heading)
	d.pdf.Text(m, y+8, d.translate(documentTitle))
	y += titleAdvance

	d.pdf.SetFont(d.family, "", metaSize)
	d.color(metaColor)
	meta := fmt.Sprintf("Source: %s • %s • Style: %s", sourceName, now.Format("02.01.2006"), d.profile.Name)
	d.pdf.Text(m, y+6, d.translate(meta))
	y += metaAdvance

	a := d.profile.Accent
	d.pdf.SetDrawColor(a.R, a.G, a.B)
	d.pdf.SetLineWidth(d.profile.RuleWeight)
	rule := y + ruleAdvance/2
	d.pdf.Line(m, rule, d.geo.PageWidth-m, rule)
}

func (d *drawer) line(l PlacedLine) {
	d.pdf.SetFont(d.family, "", l.Size)

	base := bodyColor
	switch l.Kind {
	case KindHeading:
		base = d.profile.Heading
	case KindSubheading:
		base = subheadingColor
	}

	x := l.X
	for _, seg := range l.Segments {
		text := d.translate(seg.Text)
		if seg.Emphasis || seg.Glyph {
			d.color(d.profile.Heading)
		} else {
			d.color(base)
		}
		d.pdf.Text(x, l.Baseline, text)
		x += d.pdf.GetStringWidth(text)
	}
}

func (d *drawer) footer(page int) {
	d.pdf.SetFont(d.family, "", footerSize)
	d.color(metaColor)
	y := d.geo.PageHeight - d.geo.Margin/2

	d.pdf.Text(d.geo.Margin, y, d.translate(footerCaption))

	number := d.translate(fmt.Sprintf("%d", page))
	d.pdf.Text(d.geo.PageWidth-d.geo.Margin-d.pdf.GetStringWidth(number), y, number)
}
