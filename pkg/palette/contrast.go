package palette

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// WCAG thresholds.
const (
	RatioAA       = 4.5 // normal text, level AA
	RatioAALarge  = 3.0 // large text, level AA; also UI components
	RatioAAA      = 7.0
	RatioAAALarge = 4.5

	// Large text starts at 24px regular or 19px bold (18pt / 14pt).
	LargeTextSize     = 24.0
	LargeBoldTextSize = 19.0
	BoldWeight        = 700
)

// Passes holds the WCAG level outcomes for one color pair.
type Passes struct {
	AA       bool `json:"aa"`
	AALarge  bool `json:"aa_large"`
	AAA      bool `json:"aaa"`
	AAALarge bool `json:"aaa_large"`
}

// Result is the outcome of a contrast validation.
type Result struct {
	Ratio     float64 `json:"ratio"`
	LargeText bool    `json:"large_text"`
	Passes    Passes  `json:"passes"`
}

// Required returns the AA ratio that applies to the validated text size.
func (r Result) Required() float64 {
	if r.LargeText {
		return RatioAALarge
	}
	return RatioAA
}

// String formats the ratio the way it is usually quoted, e.g. "4.52:1".
func (r Result) String() string {
	return fmt.Sprintf("%.2f:1", r.Ratio)
}

// IsLargeText reports whether text of the given size and weight counts as
// large for WCAG purposes.
func IsLargeText(size float64, weight int) bool {
	return size >= LargeTextSize || (size >= LargeBoldTextSize && weight >= BoldWeight)
}

// Validate computes the contrast of fg on bg and classifies it for text of
// the given size (px) and weight. AA and AAA apply the large-text thresholds
// when the text is large.
func Validate(fg, bg string, size float64, weight int) (Result, error) {
	r, err := Ratio(fg, bg)
	if err != nil {
		return Result{}, err
	}
	large := IsLargeText(size, weight)
	aa, aaa := RatioAA, RatioAAA
	if large {
		aa, aaa = RatioAALarge, RatioAAALarge
	}
	return Result{
		Ratio:     r,
		LargeText: large,
		Passes: Passes{
			AA:       r >= aa,
			AALarge:  r >= RatioAALarge,
			AAA:      r >= aaa,
			AAALarge: r >= RatioAAALarge,
		},
	}, nil
}

// adjustStep is the HSL lightness increment used by AutoAdjust.
const adjustStep = 0.05

// AutoAdjust returns a variant of fg whose contrast against bg reaches
// target. Lightness is walked in HSL space, keeping hue and saturation,
// toward whichever extreme (white or black) contrasts more with bg. If that
// direction runs out the other one is tried, and as a last resort the
// accessible text color for bg is returned.
//
// Every target up to 4.5 is always reached. Higher targets are met when
// possible, otherwise the best available color is returned.
func AutoAdjust(fg, bg string, target float64) (string, error) {
	fc, err := Parse(fg)
	if err != nil {
		return "", err
	}
	bc, err := Parse(bg)
	if err != nil {
		return "", err
	}
	if ratio(fc, bc) >= target {
		return Format(fc), nil
	}

	white, black := colorful.Color{R: 1, G: 1, B: 1}, colorful.Color{}
	lighten := ratio(white, bc) >= ratio(black, bc)

	for _, up := range []bool{lighten, !lighten} {
		if c, ok := walkLightness(fc, bc, target, up); ok {
			return c, nil
		}
	}
	return AccessibleTextColor(bg)
}

func walkLightness(fc, bc colorful.Color, target float64, up bool) (string, bool) {
	h, s, l := fc.Hsl()
	step := adjustStep
	if !up {
		step = -step
	}
	for {
		l = clamp01(l + step)
		hex := Format(colorful.Hsl(h, s, l))
		c, _ := colorful.Hex(hex)
		if ratio(c, bc) >= target {
			return hex, true
		}
		if l == 0 || l == 1 {
			return "", false
		}
	}
}

// AccessibleTextColor returns pure black or pure white, whichever has the
// higher contrast against bg.
func AccessibleTextColor(bg string) (string, error) {
	bc, err := Parse(bg)
	if err != nil {
		return "", err
	}
	white, black := colorful.Color{R: 1, G: 1, B: 1}, colorful.Color{}
	if ratio(white, bc) >= ratio(black, bc) {
		return White, nil
	}
	return Black, nil
}

// CTAColors is a button background with a readable label color.
type CTAColors struct {
	Background string `json:"background"`
	Text       string `json:"text"`
	Adjusted   bool   `json:"adjusted"`
}

// SafeCTAColor keeps the brand color as the button background when it
// stands out from the page (ratio ≥ 3, the WCAG threshold for UI
// components), otherwise it substitutes an adjusted brand color. The label
// color is always the accessible text color for the button background.
func SafeCTAColor(bg, brand string) (CTAColors, error) {
	r, err := Ratio(brand, bg)
	if err != nil {
		return CTAColors{}, err
	}
	out := CTAColors{}
	if r >= RatioAALarge {
		out.Background, _ = Normalize(brand)
	} else {
		adjusted, err := AutoAdjust(brand, bg, RatioAALarge)
		if err != nil {
			return CTAColors{}, err
		}
		out.Background, out.Adjusted = adjusted, true
	}
	out.Text, err = AccessibleTextColor(out.Background)
	if err != nil {
		return CTAColors{}, err
	}
	return out, nil
}

// Accessible is a small palette built around one brand color where every
// text/background pairing meets AA.
type Accessible struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Text          string `json:"text"`
	Background    string `json:"background"`
	BackgroundAlt string `json:"background_alt"`
}

// AccessiblePalette derives a dark or light palette from base depending on
// its luminance.
func AccessiblePalette(base string) (Accessible, error) {
	primary, err := Normalize(base)
	if err != nil {
		return Accessible{}, err
	}
	if IsDark(primary) {
		secondary, _ := Lighten(primary, 0.2)
		return Accessible{
			Primary:       primary,
			Secondary:     secondary,
			Text:          White,
			Background:    Black,
			BackgroundAlt: "#1A1A1A",
		}, nil
	}
	secondary, _ := Darken(primary, 0.2)
	return Accessible{
		Primary:       primary,
		Secondary:     secondary,
		Text:          "#1A1A1A",
		Background:    White,
		BackgroundAlt: "#F5F5F5",
	}, nil
}

// TextCheck is one foreground/background pairing to audit.
type TextCheck struct {
	Name       string  `json:"name"`
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	Size       float64 `json:"size"`
	Weight     int     `json:"weight"`
}

// Violation is a pairing that fails AA.
type Violation struct {
	Index    int     `json:"index"`
	Name     string  `json:"name"`
	Ratio    float64 `json:"ratio"`
	Required float64 `json:"required"`
	Message  string  `json:"message"`
}

// Audit validates every pairing and reports those failing AA. Pairings with
// unparseable colors are reported as violations with a zero ratio.
func Audit(checks []TextCheck) []Violation {
	var out []Violation
	for i, c := range checks {
		res, err := Validate(c.Foreground, c.Background, c.Size, c.Weight)
		if err != nil {
			out = append(out, Violation{Index: i, Name: c.Name, Required: RatioAA, Message: err.Error()})
			continue
		}
		if !res.Passes.AA {
			out = append(out, Violation{
				Index:    i,
				Name:     c.Name,
				Ratio:    res.Ratio,
				Required: res.Required(),
				Message:  fmt.Sprintf("%s fails WCAG AA (ratio %s, required %.1f:1)", c.Name, res, res.Required()),
			})
		}
	}
	return out
}
