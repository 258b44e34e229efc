package variation

import (
	"math"
	"strings"

	"github.com/matzehuels/adlayout/pkg/palette"
	"github.com/matzehuels/adlayout/pkg/vision"
)

// Style is the visual context variations mutate from.
type Style struct {
	Dominant   string  `json:"dominant"`
	Accent     string  `json:"accent"`
	Background string  `json:"background"`
	Tone       string  `json:"tone,omitempty"`
	Asymmetry  float64 `json:"asymmetry"` // 0-100, before mutation
}

// Palette returns the style colors, dominant first.
func (s Style) Palette() []string {
	return []string{s.Dominant, s.Accent, s.Background}
}

// Default style colors.
const (
	DefaultDominant   = "#1D4ED8"
	DefaultAccent     = "#F59E0B"
	DefaultBackground = "#FFFFFF"
)

var toneAsymmetry = map[string]float64{
	"bold":         30,
	"playful":      25,
	"modern":       15,
	"professional": 10,
	"luxury":       5,
	"elegant":      5,
}

const defaultAsymmetry = 15

// DeriveStyle builds a style from brand colors, falling back to the product
// image colors and then to defaults per color. An off-center product adds
// a quarter of its balance offset to the tone's asymmetry. Invalid colors
// are ignored.
func DeriveStyle(tone, dominant, accent, background string, a *vision.Analysis) Style {
	s := Style{
		Dominant:   dominant,
		Accent:     accent,
		Background: background,
		Tone:       strings.ToLower(tone),
	}.fill(a)
	asym, ok := toneAsymmetry[s.Tone]
	if !ok {
		asym = defaultAsymmetry
	}
	if a != nil && !a.Heuristic {
		asym += math.Abs(a.Composition.Balance-50) / 4
	}
	s.Asymmetry = math.Min(100, asym)
	return s
}

func pick(candidates ...string) string {
	for _, c := range candidates {
		if n, err := palette.Normalize(c); err == nil {
			return n
		}
	}
	return ""
}
