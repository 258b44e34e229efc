package palette

import (
	"cmp"
	"math"
	"slices"

	"github.com/lucasb-eyer/go-colorful"
)

// Shift rotates the hue of hex by deg degrees.
func Shift(hex string, deg float64) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	return rotate(c, deg), nil
}

func rotate(c colorful.Color, deg float64) string {
	h, s, l := c.Hsl()
	return Format(colorful.Hsl(normalizeHue(h+deg), s, l))
}

func normalizeHue(h float64) float64 {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	return h
}

// Complementary returns the base color and its 180° complement.
func Complementary(hex string) ([]string, error) {
	return scheme(hex, 0, 180)
}

// Analogous returns the neighbors at ±spread degrees around the base.
func Analogous(hex string, spread float64) ([]string, error) {
	return scheme(hex, -spread, 0, spread)
}

// Triadic returns three colors 120° apart.
func Triadic(hex string) ([]string, error) {
	return scheme(hex, 0, 120, 240)
}

// SplitComplementary returns the base plus the two neighbors of its complement.
func SplitComplementary(hex string) ([]string, error) {
	return scheme(hex, 0, 150, 210)
}

func scheme(hex string, offsets ...float64) ([]string, error) {
	c, err := Parse(hex)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(offsets))
	for i, d := range offsets {
		out[i] = rotate(c, d)
	}
	return out, nil
}

// Monochromatic returns darker, base and lighter variants of hex.
func Monochromatic(hex string) ([]string, error) {
	base, err := Normalize(hex)
	if err != nil {
		return nil, err
	}
	darker, _ := Darken(base, 0.2)
	lighter, _ := Lighten(base, 0.2)
	return []string{darker, base, lighter}, nil
}

// Blend mixes a toward b in Lab space; t=0 is a, t=1 is b.
func Blend(a, b string, t float64) (string, error) {
	ca, err := Parse(a)
	if err != nil {
		return "", err
	}
	cb, err := Parse(b)
	if err != nil {
		return "", err
	}
	return Format(ca.BlendLab(cb, clamp01(t))), nil
}

// Invert flips every RGB channel.
func Invert(hex string) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	return Format(colorful.Color{R: 1 - c.R, G: 1 - c.G, B: 1 - c.B}), nil
}

// Scheme is a named palette derived from one base color.
type Scheme struct {
	Name    string       `json:"name"`
	Colors  []string     `json:"colors"`
	Harmony HarmonyScore `json:"harmony"`
}

// schemeSpread is the hue spread of the analogous scheme.
const schemeSpread = 30.0

// Schemes derives the classic harmony schemes of base, best scoring first.
// Ties keep the order complementary, analogous, triadic,
// split-complementary, monochromatic.
func Schemes(base string) ([]Scheme, error) {
	gens := []struct {
		name string
		fn   func(string) ([]string, error)
	}{
		{"complementary", Complementary},
		{"analogous", func(h string) ([]string, error) { return Analogous(h, schemeSpread) }},
		{"triadic", Triadic},
		{"split-complementary", SplitComplementary},
		{"monochromatic", Monochromatic},
	}
	out := make([]Scheme, 0, len(gens))
	for _, g := range gens {
		colors, err := g.fn(base)
		if err != nil {
			return nil, err
		}
		out = append(out, Scheme{Name: g.name, Colors: colors, Harmony: Harmony(colors)})
	}
	slices.SortStableFunc(out, func(a, b Scheme) int {
		return cmp.Compare(b.Harmony.Overall, a.Harmony.Overall)
	})
	return out, nil
}

// HarmonyScore grades a palette on a 0-100 scale.
type HarmonyScore struct {
	Overall     float64 `json:"overall"`
	Balance     float64 `json:"balance"`     // hue spread
	Contrast    float64 `json:"contrast"`    // lightness range
	Saturation  float64 `json:"saturation"`  // saturation consistency
	Temperature float64 `json:"temperature"` // warm/cool balance
}

// Harmony weights.
const (
	harmonyBalanceWeight     = 0.3
	harmonyContrastWeight    = 0.3
	harmonySaturationWeight  = 0.2
	harmonyTemperatureWeight = 0.2

	// A lightness range of 80 points or more scores full contrast.
	harmonyFullContrastRange = 80.0
)

// Harmony scores a palette. Palettes with fewer than two valid colors score zero.
//
//   - Balance: standard deviation of hues, capped at 100.
//   - Contrast: lightness range relative to an 80-point range.
//   - Saturation: 100 minus the standard deviation of saturations.
//   - Temperature: 100 minus the warm/cool imbalance in percent.
func Harmony(colors []string) HarmonyScore {
	var hues, sats, lights []float64
	for _, hex := range colors {
		c, err := Parse(hex)
		if err != nil {
			continue
		}
		h, s, l := c.Hsl()
		hues = append(hues, h)
		sats = append(sats, s*100)
		lights = append(lights, l*100)
	}
	if len(hues) < 2 {
		return HarmonyScore{}
	}

	balance := math.Min(100, stddev(hues))
	lo, hi := lights[0], lights[0]
	for _, l := range lights[1:] {
		lo, hi = math.Min(lo, l), math.Max(hi, l)
	}
	contrast := math.Min(100, (hi-lo)/harmonyFullContrastRange*100)
	saturation := math.Max(0, 100-stddev(sats))

	var warm, cool int
	for _, h := range hues {
		switch {
		case h < 60 || h >= 300:
			warm++
		case h >= 120 && h < 300:
			cool++
		}
	}
	temperature := 100 - math.Abs(float64(warm-cool))/float64(len(hues))*100

	overall := balance*harmonyBalanceWeight + contrast*harmonyContrastWeight +
		saturation*harmonySaturationWeight + temperature*harmonyTemperatureWeight

	return HarmonyScore{
		Overall:     math.Round(overall),
		Balance:     math.Round(balance),
		Contrast:    math.Round(contrast),
		Saturation:  math.Round(saturation),
		Temperature: math.Round(temperature),
	}
}

func stddev(vs []float64) float64 {
	var mean float64
	for _, v := range vs {
		mean += v
	}
	mean /= float64(len(vs))
	var sq float64
	for _, v := range vs {
		sq += (v - mean) * (v - mean)
	}
	return math.Sqrt(sq / float64(len(vs)))
}
