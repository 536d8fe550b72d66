package render

import (
	"strings"
)

// Measurer reports the rendered width of text at a font size, in page units.
type Measurer interface {
	TextWidth(text string, size float64) float64
}

// Geometry describes the page in millimetres.
type Geometry struct {
	PageWidth  float64
	PageHeight float64
	Margin     float64
}

var A4 = Geometry{PageWidth: 210, PageHeight: 297, Margin: 20}

func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - 2*g.Margin
}

// Header block on the first page: title, metadata line and rule.
const (
	titleSize    = 26
	metaSize     = 9
	titleAdvance = 10
	metaAdvance  = 12
	ruleAdvance  = 12
	headerHeight = titleAdvance + metaAdvance + ruleAdvance
	footerSize   = 8
	blankAdvance = 4
	bulletIndent = 5
	bulletInset  = 8
	baselineAt   = 0.8
)

type blockMetrics struct {
	size       float64
	lineHeight float64
	before     float64
	after      float64
}

var metricsByKind = map[Kind]blockMetrics{
	KindHeading:    {size: 18, lineHeight: 8, before: 5, after: 3},
	KindSubheading: {size: 14, lineHeight: 7, before: 3, after: 2},
	KindBullet:     {size: 11, lineHeight: 6, before: 0, after: 1},
	KindParagraph:  {size: 11, lineHeight: 6, before: 0, after: 2},
}

// Segment is a piece of a wrapped line drawn in one colour.
type Segment struct {
	Text     string
	Emphasis bool
	Glyph    bool
}

// PlacedLine is one wrapped sub-line at its final position. Y is the top of
// the line box; Baseline is where the text is drawn.
type PlacedLine struct {
	Kind       Kind
	X          float64
	Y          float64
	Baseline   float64
	Size       float64
	LineHeight float64
	Segments   []Segment
}

func (l PlacedLine) Text() string {
	var b strings.Builder
	for _, s := range l.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

type Page struct {
	Number int
	Lines  []PlacedLine
}

// Text is the visible text of the page, one wrapped line per row.
func (p Page) Text() string {
	rows := make([]string, 0, len(p.Lines))
	for _, l := range p.Lines {
		rows = append(rows, l.Text())
	}
	return strings.Join(rows, "\n")
}

type Paginator struct {
	geo     Geometry
	measure Measurer
}

func NewPaginator(geo Geometry, measure Measurer) *Paginator {
	return &Paginator{geo: geo, measure: measure}
}

// BodyTop is where body content starts on the given 1-based page.
func (p *Paginator) BodyTop(page int) float64 {
	if page == 1 {
		return p.geo.Margin + headerHeight
	}
	return p.geo.Margin
}

// BodyBottom is the lowest y any line box may reach.
func (p *Paginator) BodyBottom() float64 {
	return p.geo.PageHeight - p.geo.Margin
}

// Paginate lays the summary out over pages. A block that does not fit in the
// remaining space starts a new page; a block taller than the remaining space
// of a fresh page continues line by line on the following pages.
func (p *Paginator) Paginate(summary string, style StyleProfile) []Page {
	pages := []Page{{Number: 1}}
	y := p.BodyTop(1)
	bottom := p.BodyBottom()

	current := func() *Page { return &pages[len(pages)-1] }
	atTop := func() bool { return y <= p.BodyTop(current().Number) }
	newPage := func() {
		pages = append(pages, Page{Number: len(pages) + 1})
		y = p.BodyTop(len(pages))
	}

	for _, line := range ClassifyAll(summary) {
		if line.Kind == KindBlank {
			y += blankAdvance
			continue
		}

		m := metricsByKind[line.Kind]
		x := p.geo.Margin
		width := p.geo.ContentWidth()

		tokens := tokenize(ParseInline(line.Text))
		if line.Kind == KindBullet {
			x += bulletIndent
			width -= bulletInset
			tokens = append([]token{{text: style.BulletGlyph, glyph: true}}, tokens...)
		}

		wrapped := p.wrap(tokens, width, m.size)

		if y+m.before+float64(len(wrapped))*m.lineHeight > bottom && !atTop() {
			newPage()
		}
		y += m.before

		for _, segments := range wrapped {
			if y+m.lineHeight > bottom && !atTop() {
				newPage()
			}
			current().Lines = append(current().Lines, PlacedLine{
				Kind:       line.Kind,
				X:          x,
				Y:          y,
				Baseline:   y + m.lineHeight*baselineAt,
				Size:       m.size,
				LineHeight: m.lineHeight,
				Segments:   segments,
			})
			y += m.lineHeight
		}
		y += m.after
	}

	return pages
}

type token struct {
	text     string
	emphasis bool
	glyph    bool
	// attached tokens follow the previous one without a space, such as
	// punctuation right after an emphasis span.
	attached bool
}

func tokenize(spans []Span) []token {
	var tokens []token
	gap := true
	for _, s := range spans {
		words := strings.Fields(s.Text)
		for i, word := range words {
			tok := token{text: word, emphasis: s.Emphasis}
			if i == 0 && !gap && !startsWithSpace(s.Text) {
				tok.attached = true
			}
			tokens = append(tokens, tok)
		}
		if len(words) > 0 {
			gap = endsWithSpace(s.Text)
		} else if s.Text != "" {
			gap = true
		}
	}
	return tokens
}

func startsWithSpace(s string) bool {
	return s != "" && strings.TrimLeft(s, " \t") != s
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRight(s, " \t") != s
}

// word groups attached tokens so they wrap as a unit.
type word []token

func groupWords(tokens []token) []word {
	var words []word
	for _, tok := range tokens {
		if tok.attached && len(words) > 0 {
			words[len(words)-1] = append(words[len(words)-1], tok)
			continue
		}
		words = append(words, word{tok})
	}
	return words
}

func (p *Paginator) wordWidth(w word, size float64) float64 {
	total := 0.0
	for _, tok := range w {
		total += p.measure.TextWidth(tok.text, size)
	}
	return total
}

// wrap fills lines greedily. A word wider than the line is broken by rune.
func (p *Paginator) wrap(tokens []token, width, size float64) [][]Segment {
	var lines [][]token
	var line []token
	lineWidth := 0.0
	space := p.measure.TextWidth(" ", size)

	flush := func() {
		lines = append(lines, line)
		line = nil
		lineWidth = 0
	}

	for _, w := range groupWords(tokens) {
		for _, piece := range p.breakWord(w, width, size) {
			pw := p.wordWidth(piece, size)
			extra := pw
			if len(line) > 0 {
				extra += space
			}
			if len(line) > 0 && lineWidth+extra > width {
				flush()
				extra = pw
			}
			piece[0].attached = false
			line = append(line, piece...)
			lineWidth += extra
		}
	}
	if len(line) > 0 || len(lines) == 0 {
		flush()
	}

	out := make([][]Segment, 0, len(lines))
	for _, l := range lines {
		out = append(out, joinTokens(l))
	}
	return out
}

// breakWord splits a word group wider than the line by rune. Pieces of an
// attached group keep each token's emphasis and stay attached to each other.
func (p *Paginator) breakWord(w word, width, size float64) []word {
	if (len(w) == 1 && w[0].glyph) || p.wordWidth(w, size) <= width {
		return []word{w}
	}

	var pieces []word
	var current word
	for _, tok := range w {
		var run []rune
		for _, r := range tok.text {
			used := p.wordWidth(current, size)
			if (len(current) > 0 || len(run) > 0) && used+p.measure.TextWidth(string(append(run, r)), size) > width {
				if len(run) > 0 {
					current = append(current, token{text: string(run), emphasis: tok.emphasis, attached: len(current) > 0})
				}
				pieces = append(pieces, current)
				current, run = nil, nil
			}
			run = append(run, r)
		}
		if len(run) > 0 {
			current = append(current, token{text: string(run), emphasis: tok.emphasis, attached: len(current) > 0})
		}
	}
	if len(current) > 0 {
		pieces = append(pieces, current)
	}
	return pieces
}

// joinTokens merges neighbouring tokens of the same kind into segments. The
// separating space belongs to the following segment.
func joinTokens(tokens []token) []Segment {
	var segments []Segment
	for i, tok := range tokens {
		text := tok.text
		if i > 0 && !tok.attached {
			text = " " + text
		}
		if n := len(segments); n > 0 && !tok.glyph && !segments[n-1].Glyph && segments[n-1].Emphasis == tok.emphasis {
			segments[n-1].Text += text
			continue
		}
		segments = append(segments, Segment{Text: text, Emphasis: tok.emphasis, Glyph: tok.glyph})
	}
	return segments
}
