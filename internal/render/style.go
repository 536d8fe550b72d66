package render

import (
	"fmt"

	"github.com/BerylCAtieno/transcript-summarizer/internal/models"
)

type RGB struct {
	R, G, B int
}

// StyleProfile bundles the presentation parameters of one export style.
type StyleProfile struct {
	Name         models.PDFStyle
	Accent       RGB
	Heading      RGB
	RuleWeight   float64
	Sidebar      bool
	SidebarColor RGB
	BulletGlyph  string
}

var (
	subheadingColor = RGB{80, 80, 80}
	bodyColor       = RGB{60, 60, 60}
	metaColor       = RGB{150, 150, 150}
)

// Adding a style means adding a row here.
var profiles = map[models.PDFStyle]StyleProfile{
	models.StyleClassic: {
		Name:        models.StyleClassic,
		Accent:      RGB{230, 230, 250},
		Heading:     RGB{74, 74, 74},
		RuleWeight:  0.8,
		BulletGlyph: "•",
	},
	models.StyleAcademic: {
		Name:        models.StyleAcademic,
		Accent:      RGB{40, 40, 40},
		Heading:     RGB{0, 0, 0},
		RuleWeight:  0.3,
		BulletGlyph: "–",
	},
	models.StyleCreative: {
		Name:         models.StyleCreative,
		Accent:       RGB{176, 224, 230},
		Heading:      RGB{0, 128, 128},
		RuleWeight:   1.5,
		Sidebar:      true,
		SidebarColor: RGB{216, 243, 220},
		BulletGlyph:  "›",
	},
}

func Profile(style models.PDFStyle) (StyleProfile, error) {
	p, ok := profiles[style]
	if !ok {
		return StyleProfile{}, fmt.Errorf("unknown pdf style %q", style)
	}
	return p, nil
}
