package palette

import (
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/adlayout/pkg/errors"
)

// Common colors.
const (
	Black = "#000000"
	White = "#FFFFFF"
)

// Parse converts a hex string into a color.
func Parse(hex string) (colorful.Color, error) {
	if err := errors.ValidateHexColor("color", hex); err != nil {
		return colorful.Color{}, err
	}
	s := strings.TrimPrefix(hex, "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	c, err := colorful.Hex("#" + s)
	if err != nil {
		return colorful.Color{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "parse %q", hex)
	}
	return c, nil
}

// Normalize returns hex in canonical "#RRGGBB" form.
func Normalize(hex string) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	return Format(c), nil
}

// Format renders a color as upper-case "#RRGGBB", clamping out-of-gamut values.
func Format(c colorful.Color) string {
	return strings.ToUpper(c.Clamped().Hex())
}

// Composite paints top over bottom at the given opacity and returns the
// resulting color.
func Composite(top, bottom string, opacity float64) (string, error) {
	t, err := Parse(top)
	if err != nil {
		return "", err
	}
	b, err := Parse(bottom)
	if err != nil {
		return "", err
	}
	return Format(b.BlendRgb(t, clamp01(opacity))), nil
}

// Luminance returns the WCAG relative luminance of hex in [0, 1].
func Luminance(hex string) (float64, error) {
	c, err := Parse(hex)
	if err != nil {
		return 0, err
	}
	return luminance(c), nil
}

func luminance(c colorful.Color) float64 {
	c = c.Clamped()
	return 0.2126*channel(c.R) + 0.7152*channel(c.G) + 0.0722*channel(c.B)
}

func channel(v float64) float64 {
	// Quantize first so results match what a renderer sees for the hex value.
	v = math.Round(v*255) / 255
	if v <= 0.03928 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

// Ratio returns the contrast ratio between a and b, in [1, 21].
func Ratio(a, b string) (float64, error) {
	ca, err := Parse(a)
	if err != nil {
		return 0, err
	}
	cb, err := Parse(b)
	if err != nil {
		return 0, err
	}
	return ratio(ca, cb), nil
}

func ratio(a, b colorful.Color) float64 {
	la, lb := luminance(a), luminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// IsDark reports whether hex has a relative luminance below 0.5.
func IsDark(hex string) bool {
	l, err := Luminance(hex)
	return err == nil && l < 0.5
}

// Lighten raises HSL lightness by amount (0..1).
func Lighten(hex string, amount float64) (string, error) {
	return shiftLightness(hex, amount)
}

// Darken lowers HSL lightness by amount (0..1).
func Darken(hex string, amount float64) (string, error) {
	return shiftLightness(hex, -amount)
}

func shiftLightness(hex string, delta float64) (string, error) {
	c, err := Parse(hex)
	if err != nil {
		return "", err
	}
	h, s, l := c.Hsl()
	return Format(colorful.Hsl(h, s, clamp01(l+delta))), nil
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
