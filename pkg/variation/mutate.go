package variation

import (
	"math"
	"slices"

	"github.com/matzehuels/adlayout/pkg/palette"
	"github.com/matzehuels/adlayout/pkg/templates"
)

// =============================================================================
// Mutation Levels
// =============================================================================

// MaxLevel is the highest mutation level.
const MaxLevel = 10

// Level returns the mutation level of variation i out of count:
// 1 + floor(10i/count). It is non-decreasing in i and within 1-10.
func Level(i, count int) int {
	if count <= 0 {
		return 1
	}
	return 1 + min(MaxLevel*i/count, MaxLevel-1)
}

// =============================================================================
// Color
// =============================================================================

// Strategy is a color mutation strategy.
type Strategy string

// Color strategies in rotation order.
const (
	StrategyShift         Strategy = "shift"
	StrategyComplementary Strategy = "complementary"
	StrategyAnalogous     Strategy = "analogous"
	StrategyTriadic       Strategy = "triadic"
	StrategyInvert        Strategy = "invert"
)

var strategies = []Strategy{StrategyShift, StrategyComplementary, StrategyAnalogous, StrategyTriadic, StrategyInvert}

const (
	shiftPerLevel     = 36.0
	analogousSpread   = 30.0
	gradientMinLevel  = 5
	gradientBaseAngle = 45.0
	gradientPerLevel  = 15.0

	// lookAccentShare is how much of the template accent enters the palette.
	lookAccentShare = 0.5
)

// Gradient is a linear background gradient.
type Gradient struct {
	Colors []string `json:"colors"`
	Angle  float64  `json:"angle"`
}

// ColorMutation is the mutated palette.
type ColorMutation struct {
	Strategy Strategy  `json:"strategy"`
	Palette  []string  `json:"palette"`
	Dominant string    `json:"dominant"`
	Accent   string    `json:"accent"`
	Gradient *Gradient `json:"gradient,omitempty"`
}

// MutateColors applies the strategy for level to the style palette, with
// the template accent blended into the style accent. Levels above 5 add a
// linear gradient of the first two palette colors.
func MutateColors(s Style, look templates.Look, level int) ColorMutation {
	if look.Accent != "" {
		if c, err := palette.Blend(s.Accent, look.Accent, lookAccentShare); err == nil {
			s.Accent = c
		}
	}
	m := ColorMutation{
		Strategy: strategies[level%len(strategies)],
		Palette:  s.Palette(),
		Dominant: s.Dominant,
		Accent:   s.Accent,
	}
	switch m.Strategy {
	case StrategyShift:
		deg := float64(level) * shiftPerLevel
		m.Palette = mapColors(m.Palette, func(c string) (string, error) { return palette.Shift(c, deg) })
		m.Dominant, m.Accent = m.Palette[0], m.Palette[1]
	case StrategyComplementary:
		if p, err := palette.Complementary(s.Dominant); err == nil {
			m.Palette = append(p, palette.White)
			m.Accent = p[1]
		}
	case StrategyAnalogous:
		if p, err := palette.Analogous(s.Dominant, analogousSpread); err == nil {
			m.Palette = p
		}
	case StrategyTriadic:
		if p, err := palette.Triadic(s.Dominant); err == nil {
			m.Palette = p
			m.Accent = p[1]
		}
	case StrategyInvert:
		m.Palette = mapColors(m.Palette, palette.Invert)
		m.Dominant, m.Accent = m.Palette[0], m.Palette[1]
	}
	if level > gradientMinLevel && len(m.Palette) >= 2 {
		m.Gradient = &Gradient{
			Colors: []string{m.Palette[0], m.Palette[1]},
			Angle:  gradientBaseAngle + float64(level)*gradientPerLevel,
		}
	}
	return m
}

// mapColors applies fn to each color, keeping the original on error.
func mapColors(colors []string, fn func(string) (string, error)) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		if v, err := fn(c); err == nil {
			out[i] = v
		} else {
			out[i] = c
		}
	}
	return out
}

// =============================================================================
// Layout
// =============================================================================

// Transform is a layout transformation.
type Transform string

// Layout transforms.
const (
	TransformNone    Transform = "none"
	TransformRotate  Transform = "rotate"
	TransformScale   Transform = "scale"
	TransformFlip    Transform = "flip"
	TransformReorder Transform = "reorder"
)

// Spacing is a spacing preset.
type Spacing string

// Spacing presets.
const (
	SpacingTighter Spacing = "tighter"
	SpacingNormal  Spacing = "normal"
	SpacingLooser  Spacing = "looser"
	SpacingExtreme Spacing = "extreme"
)

// Alignment values. Justified applies to body text only.
const (
	AlignLeft      = "left"
	AlignCenter    = "center"
	AlignRight     = "right"
	AlignJustified = "justified"
)

var (
	transforms = []Transform{TransformNone, TransformRotate, TransformScale, TransformFlip, TransformReorder}
	spacings   = []Spacing{SpacingTighter, SpacingNormal, SpacingLooser, SpacingExtreme}
	alignments = []string{AlignLeft, AlignCenter, AlignRight, AlignJustified}
)

const asymmetryPerLevel = 5.0

// LayoutMutation is the mutated arrangement.
type LayoutMutation struct {
	Transform Transform `json:"transform"`
	Spacing   Spacing   `json:"spacing"`
	Alignment string    `json:"alignment"`
	Asymmetry float64   `json:"asymmetry"` // 0-100
}

// MutateLayout derives the layout mutation for level.
func MutateLayout(s Style, level int) LayoutMutation {
	return LayoutMutation{
		Transform: transforms[min(level, len(transforms)-1)],
		Spacing:   spacings[min(level/3, len(spacings)-1)],
		Alignment: alignments[level%len(alignments)],
		Asymmetry: math.Min(s.Asymmetry+asymmetryPerLevel*float64(level), 100),
	}
}

// =============================================================================
// Typography
// =============================================================================

// FontPairing is a headline/body font pair.
type FontPairing struct {
	Headline string `json:"headline"`
	Body     string `json:"body"`
}

// FontPairings is the fixed pairing rotation.
var FontPairings = []FontPairing{
	{"Inter", "Inter"},
	{"Playfair Display", "Lato"},
	{"Montserrat", "Open Sans"},
	{"Poppins", "Roboto"},
	{"Oswald", "Source Sans Pro"},
	{"Bebas Neue", "Arial"},
	{"Raleway", "Merriweather"},
}

// Weight is a font weight adjustment.
type Weight string

// Weight adjustments.
const (
	WeightLighter Weight = "lighter"
	WeightNormal  Weight = "normal"
	WeightBolder  Weight = "bolder"
)

var weights = []Weight{WeightLighter, WeightNormal, WeightBolder}

// Delta returns the font weight change, in CSS weight units.
func (w Weight) Delta() int {
	switch w {
	case WeightLighter:
		return -100
	case WeightBolder:
		return 100
	}
	return 0
}

// TypographyMutation is the mutated type treatment.
type TypographyMutation struct {
	Pairing       FontPairing `json:"pairing"`
	SizeScale     float64     `json:"size_scale"`
	Weight        Weight      `json:"weight"`
	LetterSpacing float64     `json:"letter_spacing"`
	LineHeight    float64     `json:"line_height"`
}

// MutateTypography derives the typography mutation for level. The pairing
// rotation starts at the template's own pairing. Size scale, letter
// spacing and line height grow linearly with the level.
func MutateTypography(look templates.Look, level int) TypographyMutation {
	l := float64(level)
	start := max(0, slices.IndexFunc(FontPairings, func(p FontPairing) bool { return p.Headline == look.HeadlineFont }))
	return TypographyMutation{
		Pairing:       FontPairings[(start+level)%len(FontPairings)],
		SizeScale:     round2(0.8 + 0.05*l),
		Weight:        weights[level%len(weights)],
		LetterSpacing: round2(-2 + 1.2*l),
		LineHeight:    round2(1.2 + 0.08*l),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// =============================================================================
// Elements
// =============================================================================

// Shape styles.
const (
	ShapeSharp   = "sharp"
	ShapeRounded = "rounded"
	ShapeCircle  = "circle"
	ShapeOrganic = "organic"
)

// Shadow intensities.
const (
	ShadowNone     = "none"
	ShadowSubtle   = "subtle"
	ShadowModerate = "moderate"
	ShadowDramatic = "dramatic"
)

// Border styles.
const (
	BorderNone     = "none"
	BorderSolid    = "solid"
	BorderDashed   = "dashed"
	BorderGradient = "gradient"
)

// Text effects.
const (
	EffectShadow   = "shadow"
	EffectOutline  = "outline"
	EffectGradient = "gradient"
	EffectGlow     = "glow"
)

var (
	shapes  = []string{ShapeSharp, ShapeRounded, ShapeCircle, ShapeOrganic}
	shadows = []string{ShadowNone, ShadowSubtle, ShadowModerate, ShadowDramatic}
	borders = []string{BorderNone, BorderSolid, BorderDashed, BorderGradient}

	// effectLevels unlocks each effect above its level.
	effectLevels = []struct {
		effect string
		above  int
	}{
		{EffectShadow, 3},
		{EffectOutline, 5},
		{EffectGradient, 7},
		{EffectGlow, 9},
	}
)

// ElementMutation is the mutated ornamentation.
type ElementMutation struct {
	Shape   string   `json:"shape"`
	Shadow  string   `json:"shadow"`
	Border  string   `json:"border"`
	Effects []string `json:"effects"`
}

// MutateElements derives the element mutation for level. The shape
// rotation starts at the template's own shape.
func MutateElements(look templates.Look, level int) ElementMutation {
	start := max(0, slices.Index(shapes, look.Shape))
	m := ElementMutation{
		Shape:   shapes[(start+level)%len(shapes)],
		Shadow:  shadows[min(level/3, len(shadows)-1)],
		Border:  borders[level%len(borders)],
		Effects: []string{},
	}
	for _, e := range effectLevels {
		if level > e.above {
			m.Effects = append(m.Effects, e.effect)
		}
	}
	return m
}
