package render

import "strings"

// Kind is the syntactic class of one summary line.
type Kind int

const (
	KindBlank Kind = iota
	KindHeading
	KindSubheading
	KindBullet
	KindParagraph
)

func (k Kind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindSubheading:
		return "subheading"
	case KindBullet:
		return "bullet"
	case KindParagraph:
		return "paragraph"
	default:
		return "blank"
	}
}

// Line is a classified summary line. Text has the structural prefix removed
// but still carries inline emphasis markers.
type Line struct {
	Kind Kind
	Text string
}

// Classify applies the prefix rules. Anything unrecognised is a paragraph.
func Classify(raw string) Line {
	raw = strings.TrimRight(raw, "\r")

	switch {
	case strings.HasPrefix(raw, "## "):
		return Line{Kind: KindHeading, Text: strings.TrimSpace(raw[len("## "):])}
	case strings.HasPrefix(raw, "### "):
		return Line{Kind: KindSubheading, Text: strings.TrimSpace(raw[len("### "):])}
	}

	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == "":
		return Line{Kind: KindBlank}
	case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
		return Line{Kind: KindBullet, Text: strings.TrimSpace(trimmed[2:])}
	default:
		return Line{Kind: KindParagraph, Text: trimmed}
	}
}

// ClassifyAll splits a summary into classified lines.
func ClassifyAll(summary string) []Line {
	raw := strings.Split(summary, "\n")
	lines := make([]Line, 0, len(raw))
	for _, r := range raw {
		lines = append(lines, Classify(r))
	}
	return lines
}

const emphasisMarker = "**"

// Span is a run of inline text.
type Span struct {
	Text     string
	Emphasis bool
}

// ParseInline splits text on paired ** markers. A marker without a partner
// is kept as literal text.
func ParseInline(text string) []Span {
	var spans []Span
	appendSpan := func(s string, emphasis bool) {
		if s == "" {
			return
		}
		if n := len(spans); n > 0 && spans[n-1].Emphasis == emphasis {
			spans[n-1].Text += s
			return
		}
		spans = append(spans, Span{Text: s, Emphasis: emphasis})
	}

	rest := text
	for {
		open := strings.Index(rest, emphasisMarker)
		if open < 0 {
			appendSpan(rest, false)
			break
		}
		closeAt := strings.Index(rest[open+len(emphasisMarker):], emphasisMarker)
		if closeAt < 0 {
			appendSpan(rest, false)
			break
		}
		closeAt += open + len(emphasisMarker)

		appendSpan(rest[:open], false)
		appendSpan(rest[open+len(emphasisMarker):closeAt], true)
		rest = rest[closeAt+len(emphasisMarker):]
	}

	return spans
}

// PlainText is the visible text of spans, markers removed.
func PlainText(spans []Span) string {
	var b strings.Builder
	for _, s := range spans {
		b.WriteString(s.Text)
	}
	return b.String()
}
