package palette

import (
	"math"
	"testing"
)

func hue(t *testing.T, hex string) float64 {
	t.Helper()
	c, err := Parse(hex)
	if err != nil {
		t.Fatal(err)
	}
	h, _, _ := c.Hsl()
	return h
}

func hueDistance(a, b float64) float64 {
	d := math.Abs(a - b)
	return math.Min(d, 360-d)
}

func TestShift(t *testing.T) {
	got, err := Shift("#FF0000", 120)
	if err != nil {
		t.Fatal(err)
	}
	if got != "#00FF00" {
		t.Errorf("Shift(red, 120) = %s, want #00FF00", got)
	}
	back, _ := Shift(got, -120)
	if back != "#FF0000" {
		t.Errorf("Shift back = %s, want #FF0000", back)
	}
}

func TestSchemes(t *testing.T) {
	base := "#2563EB"
	h := hue(t, base)

	comp, _ := Complementary(base)
	if len(comp) != 2 || hueDistance(hue(t, comp[1]), h) < 178 {
		t.Errorf("Complementary = %v", comp)
	}

	tri, _ := Triadic(base)
	if len(tri) != 3 {
		t.Fatalf("Triadic len = %d", len(tri))
	}
	for i, c := range tri[1:] {
		want := 120.0 * float64(i+1)
		if d := hueDistance(hue(t, c), math.Mod(h+want, 360)); d > 2 {
			t.Errorf("Triadic[%d] hue off by %.1f", i+1, d)
		}
	}

	ana, _ := Analogous(base, 30)
	if len(ana) != 3 || ana[1] != base {
		t.Errorf("Analogous = %v, want base in the middle", ana)
	}

	split, _ := SplitComplementary(base)
	if len(split) != 3 {
		t.Errorf("SplitComplementary len = %d", len(split))
	}

	mono, _ := Monochromatic(base)
	if len(mono) != 3 || mono[1] != base {
		t.Errorf("Monochromatic = %v", mono)
	}
}

func TestSchemesRanked(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		wantErr bool
	}{
		{"blue", "#2563EB", false},
		{"gold", "#C9A96E", false},
		{"short form", "#F00", false},
		{"invalid", "blue", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Schemes(tt.base)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != 5 {
				t.Fatalf("len = %d, want 5", len(got))
			}
			names := map[string]bool{}
			for i, s := range got {
				names[s.Name] = true
				if i > 0 && s.Harmony.Overall > got[i-1].Harmony.Overall {
					t.Errorf("%s scores %.1f above %s", s.Name, s.Harmony.Overall, got[i-1].Name)
				}
				if s.Harmony != Harmony(s.Colors) {
					t.Errorf("%s harmony does not match its colors", s.Name)
				}
			}
			if !names["split-complementary"] || !names["monochromatic"] {
				t.Errorf("names = %v", names)
			}
		})
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		t    float64
		want string
	}{
		{"start", "#FF0000", "#0000FF", 0, "#FF0000"},
		{"end", "#FF0000", "#0000FF", 1, "#0000FF"},
		{"same", "#336699", "#336699", 0.5, "#336699"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Blend(tt.a, tt.b, tt.t)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("Blend = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestInvert(t *testing.T) {
	tests := map[string]string{
		"#000000": "#FFFFFF",
		"#FFFFFF": "#000000",
		"#FF8000": "#007FFF",
	}
	for in, want := range tests {
		got, err := Invert(in)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("Invert(%s) = %s, want %s", in, got, want)
		}
	}
}

func TestHarmony(t *testing.T) {
	if got := Harmony([]string{"#FF0000"}); got.Overall != 0 {
		t.Errorf("single color Overall = %v, want 0", got.Overall)
	}
	if got := Harmony([]string{"#FF0000", "bad"}); got.Overall != 0 {
		t.Errorf("one valid color Overall = %v, want 0", got.Overall)
	}

	grays := Harmony([]string{"#000000", "#FFFFFF"})
	if grays.Contrast != 100 {
		t.Errorf("black/white Contrast = %v, want 100", grays.Contrast)
	}

	tri, _ := Triadic("#E11D48")
	spread := Harmony(append(tri, "#FFFFFF"))
	flat := Harmony([]string{"#E11D48", "#E11D48", "#E11D48"})
	if spread.Overall <= flat.Overall {
		t.Errorf("triadic palette %v should outscore flat palette %v", spread.Overall, flat.Overall)
	}
	for _, s := range []HarmonyScore{grays, spread, flat} {
		if s.Overall < 0 || s.Overall > 100 {
			t.Errorf("Overall %v out of range", s.Overall)
		}
	}
}
