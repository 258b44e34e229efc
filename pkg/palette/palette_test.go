package palette

import (
	"math"
	"testing"

	"github.com/matzehuels/adlayout/pkg/errors"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"#000000", "#000000"},
		{"fff", "#FFFFFF"},
		{"#abc", "#AABBCC"},
		{"ff5733", "#FF5733"},
	}
	for _, tt := range tests {
		got, err := Normalize(tt.in)
		if err != nil {
			t.Errorf("Normalize(%q) error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "zzzzzz", "rgb(0,0,0)"} {
		if _, err := Parse(in); !errors.Is(err, errors.ErrCodeInvalidColor) {
			t.Errorf("Parse(%q) error = %v, want INVALID_COLOR", in, err)
		}
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		hex  string
		want float64
	}{
		{"#000000", 0},
		{"#FFFFFF", 1},
		{"#FF0000", 0.2126},
		{"#00FF00", 0.7152},
		{"#0000FF", 0.0722},
	}
	for _, tt := range tests {
		got, err := Luminance(tt.hex)
		if err != nil {
			t.Fatal(err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Luminance(%s) = %v, want %v", tt.hex, got, tt.want)
		}
	}
}

func TestValidateBlackOnWhite(t *testing.T) {
	res, err := Validate("#000000", "#FFFFFF", 16, 400)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.Ratio-21) > 1e-9 {
		t.Errorf("Ratio = %v, want 21", res.Ratio)
	}
	if !res.Passes.AA || !res.Passes.AAA {
		t.Errorf("Passes = %+v, want AA and AAA", res.Passes)
	}
	if res.String() != "21.00:1" {
		t.Errorf("String() = %q, want %q", res.String(), "21.00:1")
	}
}

func TestValidateMidGraysFail(t *testing.T) {
	res, err := Validate("#777777", "#808080", 16, 400)
	if err != nil {
		t.Fatal(err)
	}
	if res.Passes.AA {
		t.Errorf("#777777 on #808080 passes AA with ratio %v, want fail", res.Ratio)
	}
	if res.Ratio >= 1.5 {
		t.Errorf("Ratio = %v, want close to 1", res.Ratio)
	}
}

func TestValidateSymmetric(t *testing.T) {
	a, _ := Validate("#336699", "#FFEECC", 16, 400)
	b, _ := Validate("#FFEECC", "#336699", 16, 400)
	if a.Ratio != b.Ratio {
		t.Errorf("Ratio not symmetric: %v vs %v", a.Ratio, b.Ratio)
	}
}

func TestIsLargeText(t *testing.T) {
	tests := []struct {
		size   float64
		weight int
		want   bool
	}{
		{16, 400, false},
		{23, 400, false},
		{24, 400, true},
		{19, 700, true},
		{18, 700, false},
		{19, 600, false},
		{72, 900, true},
	}
	for _, tt := range tests {
		if got := IsLargeText(tt.size, tt.weight); got != tt.want {
			t.Errorf("IsLargeText(%v, %d) = %v, want %v", tt.size, tt.weight, got, tt.want)
		}
	}
}

func TestValidateLargeTextThreshold(t *testing.T) {
	// #888888 on white is about 3.54:1: large text only.
	small, _ := Validate("#888888", "#FFFFFF", 16, 400)
	large, _ := Validate("#888888", "#FFFFFF", 32, 400)
	if small.Passes.AA {
		t.Errorf("small text passes AA at %v", small.Ratio)
	}
	if !large.Passes.AA {
		t.Errorf("large text fails AA at %v", large.Ratio)
	}
	if large.Required() != RatioAALarge {
		t.Errorf("Required() = %v, want %v", large.Required(), RatioAALarge)
	}
}

func TestAutoAdjustPassesAA(t *testing.T) {
	pairs := []struct{ fg, bg string }{
		{"#111111", "#000000"},
		{"#777777", "#808080"},
		{"#FFFF00", "#FFFFFF"},
		{"#3366FF", "#2255EE"},
		{"#FF0000", "#00FF00"},
		{"#767676", "#777777"},
		{"#F5F5F5", "#FFFFFF"},
		{"#0A0A0A", "#121212"},
		{"#808080", "#7F7F7F"},
	}
	for _, p := range pairs {
		before, _ := Validate(p.fg, p.bg, 16, 400)
		if before.Passes.AA {
			t.Fatalf("test pair %s on %s already passes", p.fg, p.bg)
		}
		adjusted, err := AutoAdjust(p.fg, p.bg, RatioAA)
		if err != nil {
			t.Fatalf("AutoAdjust(%s, %s): %v", p.fg, p.bg, err)
		}
		after, _ := Validate(adjusted, p.bg, 16, 400)
		if !after.Passes.AA {
			t.Errorf("AutoAdjust(%s, %s) = %s with ratio %v, want AA pass", p.fg, p.bg, adjusted, after.Ratio)
		}
		again, _ := AutoAdjust(adjusted, p.bg, RatioAA)
		if again != adjusted {
			t.Errorf("AutoAdjust not idempotent: %s then %s", adjusted, again)
		}
	}
}

func TestAutoAdjustKeepsPassingColor(t *testing.T) {
	got, err := AutoAdjust("#000000", "#FFFFFF", RatioAA)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#000000" {
		t.Errorf("AutoAdjust of passing pair = %s, want unchanged", got)
	}
}

func TestAutoAdjustPreservesHue(t *testing.T) {
	got, err := AutoAdjust("#3366FF", "#FFFFFF", RatioAA)
	if err != nil {
		t.Fatal(err)
	}
	in, _ := Parse("#3366FF")
	out, _ := Parse(got)
	hi, _, _ := in.Hsl()
	ho, _, lo := out.Hsl()
	if lo > 0 && lo < 1 && math.Abs(hi-ho) > 2 {
		t.Errorf("hue changed from %.1f to %.1f (%s)", hi, ho, got)
	}
}

func TestAccessibleTextColor(t *testing.T) {
	tests := []struct {
		bg, want string
	}{
		{"#000000", White},
		{"#FFFFFF", Black},
		{"#1E3A8A", White},
		{"#FDE68A", Black},
	}
	for _, tt := range tests {
		got, err := AccessibleTextColor(tt.bg)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("AccessibleTextColor(%s) = %s, want %s", tt.bg, got, tt.want)
		}
	}
}

func TestSafeCTAColor(t *testing.T) {
	t.Run("brand kept", func(t *testing.T) {
		got, err := SafeCTAColor("#FFFFFF", "#1D4ED8")
		if err != nil {
			t.Fatal(err)
		}
		if got.Background != "#1D4ED8" || got.Adjusted {
			t.Errorf("Background = %s (adjusted %v), want brand color", got.Background, got.Adjusted)
		}
		if got.Text != White {
			t.Errorf("Text = %s, want %s", got.Text, White)
		}
	})
	t.Run("brand adjusted", func(t *testing.T) {
		got, err := SafeCTAColor("#FFFFFF", "#FFF3B0")
		if err != nil {
			t.Fatal(err)
		}
		if !got.Adjusted {
			t.Errorf("pale brand on white should be adjusted, got %+v", got)
		}
		r, _ := Ratio(got.Background, "#FFFFFF")
		if r < RatioAALarge {
			t.Errorf("adjusted CTA ratio = %v, want >= %v", r, RatioAALarge)
		}
		label, _ := Validate(got.Text, got.Background, 28, 700)
		if !label.Passes.AA {
			t.Errorf("CTA label fails AA: %v", label.Ratio)
		}
	})
}

func TestAccessiblePalette(t *testing.T) {
	for _, base := range []string{"#0F172A", "#FACC15", "#2563EB"} {
		p, err := AccessiblePalette(base)
		if err != nil {
			t.Fatal(err)
		}
		res, _ := Validate(p.Text, p.Background, 16, 400)
		if !res.Passes.AA {
			t.Errorf("%s: text %s on %s fails AA", base, p.Text, p.Background)
		}
	}
}

func TestAudit(t *testing.T) {
	checks := []TextCheck{
		{Name: "headline", Foreground: "#000000", Background: "#FFFFFF", Size: 64, Weight: 800},
		{Name: "body", Foreground: "#777777", Background: "#808080", Size: 16, Weight: 400},
		{Name: "broken", Foreground: "nope", Background: "#FFFFFF", Size: 16, Weight: 400},
	}
	v := Audit(checks)
	if len(v) != 2 {
		t.Fatalf("len(Audit) = %d, want 2", len(v))
	}
	if v[0].Index != 1 || v[1].Index != 2 {
		t.Errorf("violation indexes = %d,%d, want 1,2", v[0].Index, v[1].Index)
	}
}
