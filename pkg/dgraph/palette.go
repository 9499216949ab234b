package dgraph

import (
	"fmt"
	"math/rand/v2"

	"github.com/lucasb-eyer/go-colorful"
)

// Palette is a read-only list of display colours. The entry at Neutral
// (usually black) is never handed out for new nodes. Neutral is -1 when the
// palette has no neutral entry.
type Palette struct {
	Colours []colorful.Color
	Neutral int
}

var defaultPaletteHex = []string{
	"#000000", // neutral
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// DefaultPalette returns the built-in palette. Index 0 is black.
func DefaultPalette() Palette {
	p, err := ParsePalette(defaultPaletteHex)
	if err != nil {
		panic(err) // built-in table
	}
	return p
}

// ParsePalette builds a palette from "#rrggbb" strings. The first pure
// black entry becomes the neutral colour.
func ParsePalette(hex []string) (Palette, error) {
	p := Palette{Neutral: -1}
	for _, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			return Palette{}, fmt.Errorf("dgraph: palette colour %q: %w", h, err)
		}
		if p.Neutral < 0 && c.Hex() == "#000000" {
			p.Neutral = len(p.Colours)
		}
		p.Colours = append(p.Colours, c)
	}
	return p, nil
}

// Random picks a colour from the palette, skipping the neutral entry. A
// palette with nothing but the neutral colour returns that colour.
func (p Palette) Random(r *rand.Rand) colorful.Color {
	var eligible []colorful.Color
	for i, c := range p.Colours {
		if i != p.Neutral {
			eligible = append(eligible, c)
		}
	}
	if len(eligible) == 0 {
		if len(p.Colours) > 0 {
			return p.Colours[0]
		}
		return colorful.Color{}
	}
	return eligible[r.IntN(len(eligible))]
}

// OutlineFor derives an outline colour for a fill by darkening it in Lab space.
func OutlineFor(fill colorful.Color) colorful.Color {
	return fill.BlendLab(colorful.Color{}, 0.45).Clamped()
}
