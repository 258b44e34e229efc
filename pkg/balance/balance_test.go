package balance

import (
	"strings"
	"testing"

	"github.com/matzehuels/adlayout/pkg/document"
)

func box(id string, x, y, w, h float64) document.Layer {
	return document.NewShape(id, id, document.RoleNone, document.Geometry{X: x, Y: y, Width: w, Height: h}, 1,
		document.ShapeProps{Shape: document.ShapeRect, Fill: "#000000"})
}

func TestWeight(t *testing.T) {
	text := document.NewText("t", "t", document.RoleHeadline, document.Geometry{Width: 10, Height: 10}, 1,
		document.TextProps{FontWeight: 800, FontSize: 10})
	if got := Weight(text); got != 100*0.8*2 {
		t.Errorf("Weight(text 800) = %v, want 160", got)
	}
	img := document.NewImage("p", "p", document.RoleProduct, document.Geometry{Width: 10, Height: 10}, 1, document.ImageProps{})
	img.Opacity = 0.5
	if got := Weight(img); got != 75 {
		t.Errorf("Weight(image 50%%) = %v, want 75", got)
	}
}

func TestSymmetricLayout(t *testing.T) {
	layers := []document.Layer{
		document.NewBackground("bg", 1000, 1000, document.BackgroundProps{Color: "#FFFFFF"}),
		box("tl", 100, 100, 350, 350),
		box("tr", 550, 100, 350, 350),
		box("bl", 100, 550, 350, 350),
		box("br", 550, 550, 350, 350),
	}
	r := Score(layers, 1000, 1000, DefaultConfig())
	if r.Horizontal != 100 || r.Vertical != 100 {
		t.Errorf("Horizontal, Vertical = %v, %v, want 100, 100", r.Horizontal, r.Vertical)
	}
	if r.Overlap != 100 || len(r.Overlaps) != 0 {
		t.Errorf("Overlap = %v with %v, want 100 and none", r.Overlap, r.Overlaps)
	}
	if r.Whitespace != 100 {
		t.Errorf("Whitespace = %v, want 100", r.Whitespace)
	}
}

func TestOneSidedSkew(t *testing.T) {
	layers := []document.Layer{
		box("a", 0, 400, 200, 200),
		box("b", 0, 100, 200, 200),
	}
	r := Score(layers, 1000, 1000, DefaultConfig())
	if r.Horizontal != 0 {
		t.Errorf("Horizontal = %v, want 0", r.Horizontal)
	}
	found := false
	for _, is := range r.Issues {
		if strings.Contains(is, "Horizontal imbalance") {
			found = true
		}
	}
	if !found {
		t.Errorf("Issues = %v, want horizontal imbalance", r.Issues)
	}
	if len(r.Issues) != len(r.Suggestions) {
		t.Errorf("%d issues but %d suggestions", len(r.Issues), len(r.Suggestions))
	}
}

func TestOverlapExclusions(t *testing.T) {
	accent := box("accent", 0, 0, 600, 600)
	accent.Role = document.RoleAccent
	hidden := box("hidden", 100, 100, 100, 100)
	hidden.Visible = false

	layers := []document.Layer{
		document.NewBackground("bg", 1000, 1000, document.BackgroundProps{}),
		accent,
		hidden,
		box("a", 100, 100, 200, 200),
		box("b", 250, 250, 200, 200),
		box("c", 700, 700, 100, 100),
	}
	r := Score(layers, 1000, 1000, DefaultConfig())
	if len(r.Overlaps) != 1 || r.Overlaps[0] != (Pair{A: "a", B: "b"}) {
		t.Fatalf("Overlaps = %v, want only a/b", r.Overlaps)
	}
	if r.Overlap != 75 {
		t.Errorf("Overlap = %v, want 75", r.Overlap)
	}
}

func TestOverlapFloor(t *testing.T) {
	var layers []document.Layer
	for i := 0; i < 6; i++ {
		layers = append(layers, box(string(rune('a'+i)), 100, 100, 100, 100))
	}
	if r := Score(layers, 1000, 1000, DefaultConfig()); r.Overlap != 0 {
		t.Errorf("Overlap = %v, want 0", r.Overlap)
	}
}

func TestWhitespace(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name string
		used float64
		want float64
	}{
		{"ideal", 0.5, 100},
		{"cramped", 0.8, 50},
		{"empty", 0.1, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			side := 1000.0
			l := box("x", 0, 0, side, side*tt.used)
			got, _ := whitespace(elements([]document.Layer{l}), side, side, cfg)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("whitespace = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSpacing(t *testing.T) {
	tight := []document.Layer{box("a", 0, 0, 100, 100), box("b", 110, 0, 100, 100)}
	loose := []document.Layer{box("a", 0, 0, 100, 100), box("b", 200, 0, 100, 100)}
	if got := Score(tight, 1000, 1000, DefaultConfig()).Spacing; got != 25 {
		t.Errorf("tight Spacing = %v, want 25", got)
	}
	if got := Score(loose, 1000, 1000, DefaultConfig()).Spacing; got != 100 {
		t.Errorf("loose Spacing = %v, want 100", got)
	}
}

func TestOverallUsesConfigWeights(t *testing.T) {
	layers := []document.Layer{box("a", 0, 0, 200, 200)}
	cfg := DefaultConfig()
	cfg.Weights = Weights{Overlap: 1}
	if got := Score(layers, 1000, 1000, cfg).Overall; got != 100 {
		t.Errorf("Overall with overlap-only weights = %v, want 100", got)
	}
	for _, n := range []int{0, 1, 3, 8} {
		var ls []document.Layer
		for i := 0; i < n; i++ {
			ls = append(ls, box(string(rune('a'+i)), float64(i*37), float64(i*53), 400, 300))
		}
		o := Score(ls, 1080, 1080, DefaultConfig()).Overall
		if o < 0 || o > 100 {
			t.Errorf("Overall = %v out of range for %d layers", o, n)
		}
	}
}

func TestEmptyLayout(t *testing.T) {
	r := Score(nil, 1080, 1080, DefaultConfig())
	if r.Horizontal != 100 || r.Vertical != 100 || r.Overlap != 100 || r.Spacing != 100 {
		t.Errorf("empty layout = %+v", r)
	}
	if !strings.Contains(strings.Join(r.Issues, " "), "empty") {
		t.Errorf("Issues = %v, want empty-layout whitespace issue", r.Issues)
	}
}
