package variation

import (
	"math"

	"github.com/matzehuels/adlayout/pkg/palette"
)

// Scores is the quality bundle of a variation, each 0-100.
type Scores struct {
	Uniqueness  float64 `json:"uniqueness"`
	Harmony     float64 `json:"harmony"`
	Balance     float64 `json:"balance"`
	Readability float64 `json:"readability"`
	Overall     float64 `json:"overall"`
}

// Uniqueness and readability constants.
const (
	uniquenessBase           = 60.0
	uniquenessStrategyBonus  = 20.0
	uniquenessTransformBonus = 15.0
	readabilityMin           = 50.0
	readabilityPerSpacing    = 5.0
)

// Score grades a mutation set:
//
//   - uniqueness: 60, +20 for a non-shift strategy, +15 for any transform
//   - harmony: [palette.Harmony] of the mutated palette
//   - balance: 100 minus the layout asymmetry
//   - readability: 100 minus 5 per point of letter spacing, at least 50
//
// Overall is the weighted sum. Every score is rounded to an integer.
func Score(c ColorMutation, l LayoutMutation, t TypographyMutation, w Weights) Scores {
	u := uniquenessBase
	if c.Strategy != StrategyShift {
		u += uniquenessStrategyBonus
	}
	if l.Transform != TransformNone {
		u += uniquenessTransformBonus
	}
	h := palette.Harmony(c.Palette).Overall
	b := 100 - l.Asymmetry
	r := math.Max(readabilityMin, 100-math.Abs(t.LetterSpacing)*readabilityPerSpacing)

	overall := u*w.Uniqueness + h*w.Harmony + b*w.Balance + r*w.Readability
	return Scores{
		Uniqueness:  math.Round(u),
		Harmony:     math.Round(h),
		Balance:     math.Round(b),
		Readability: math.Round(r),
		Overall:     math.Round(overall),
	}
}

// Similarity returns how alike two variations are, 0-100: the sum of the
// weights of the attributes they share.
func Similarity(a, b Variation, w SimilarityWeights) float64 {
	var s float64
	if a.Colors.Strategy == b.Colors.Strategy {
		s += w.ColorStrategy
	}
	if a.Layout.Transform == b.Layout.Transform {
		s += w.Transform
	}
	if a.Layout.Spacing == b.Layout.Spacing {
		s += w.Spacing
	}
	if a.Typography.Pairing.Headline == b.Typography.Pairing.Headline {
		s += w.HeadlineFont
	}
	if a.Elements.Shape == b.Elements.Shape {
		s += w.ShapeStyle
	}
	return s
}
