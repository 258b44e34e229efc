package typography

import (
	"strings"
	"testing"

	"github.com/matzehuels/adlayout/pkg/grid"
)

func TestApproxMeasure(t *testing.T) {
	m := ApproxMeasurer{}
	got := m.Measure("hello", "Inter", 400, 10, 0)
	if got.Width != 30 {
		t.Errorf("Width = %v, want 30", got.Width)
	}
	if got.LineCount != 1 || got.Height != 12 {
		t.Errorf("LineCount = %d, Height = %v, want 1 and 12", got.LineCount, got.Height)
	}
	if empty := m.Measure("   ", "Inter", 400, 10, 100); empty.LineCount != 0 {
		t.Errorf("blank text LineCount = %d, want 0", empty.LineCount)
	}
}

func TestWrap(t *testing.T) {
	advance := func(s string) float64 { return float64(len(s)) }
	tests := []struct {
		text     string
		maxWidth float64
		want     []string
	}{
		{"one two three", 0, []string{"one two three"}},
		{"one two three", 7, []string{"one two", "three"}},
		{"one two three", 3, []string{"one", "two", "three"}},
		{"a\nb c", 10, []string{"a", "b c"}},
		{"supercalifragilistic word", 5, []string{"supercalifragilistic", "word"}},
	}
	for _, tt := range tests {
		got := Wrap(tt.text, tt.maxWidth, advance)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("Wrap(%q, %v) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
		}
	}
}

func TestFindOptimalSizeFits(t *testing.T) {
	m := ApproxMeasurer{}
	c := Constraints{MaxWidth: 600, MaxHeight: 200, Weight: 800}
	fit := FindOptimalSize(m, "Summer Sale", c)
	if fit.Overflow {
		t.Fatalf("unexpected overflow: %+v", fit)
	}
	if fit.Width > c.MaxWidth || fit.Height > c.MaxHeight {
		t.Errorf("fit %+v exceeds %vx%v", fit, c.MaxWidth, c.MaxHeight)
	}
	next := FindOptimalSize(m, "Summer Sale", Constraints{
		MaxWidth: 600, MaxHeight: 200, Weight: 800,
		MinSize: int(fit.Size) + 1, MaxSize: int(fit.Size) + 1,
	})
	if !next.Overflow {
		t.Errorf("size %v fits, so %v was not the largest", next.Size, fit.Size)
	}
}

func TestFindOptimalSizeMaxBound(t *testing.T) {
	fit := FindOptimalSize(ApproxMeasurer{}, "Hi", Constraints{MaxWidth: 2000, MaxHeight: 2000})
	if fit.Size != DefaultMaxSize {
		t.Errorf("Size = %v, want %v", fit.Size, DefaultMaxSize)
	}
}

func TestFindOptimalSizeOverflow(t *testing.T) {
	text := strings.Repeat("word ", 200)
	fit := FindOptimalSize(ApproxMeasurer{}, text, Constraints{MaxWidth: 200, MaxHeight: 40, MinSize: 16})
	if !fit.Overflow {
		t.Errorf("Overflow = false, want true")
	}
	if fit.Size != 16 {
		t.Errorf("Size = %v, want MinSize 16", fit.Size)
	}
}

func TestFindOptimalSizeMonotonicInBox(t *testing.T) {
	m := ApproxMeasurer{}
	small := FindOptimalSize(m, "Limited time offer", Constraints{MaxWidth: 300, MaxHeight: 100})
	large := FindOptimalSize(m, "Limited time offer", Constraints{MaxWidth: 900, MaxHeight: 300})
	if large.Size < small.Size {
		t.Errorf("bigger box gave smaller size: %v < %v", large.Size, small.Size)
	}
}

func TestFaceMeasurer(t *testing.T) {
	m, err := NewFaceMeasurer()
	if err != nil {
		t.Fatalf("NewFaceMeasurer: %v", err)
	}
	defer m.Close()

	short := m.Measure("Sale", "Inter", 400, 40, 0)
	long := m.Measure("Sale Sale Sale", "Inter", 400, 40, 0)
	if short.Width <= 0 || long.Width <= short.Width {
		t.Errorf("widths short=%v long=%v, want 0 < short < long", short.Width, long.Width)
	}
	bigger := m.Measure("Sale", "Inter", 400, 80, 0)
	if bigger.Width <= short.Width {
		t.Errorf("80px width %v not larger than 40px width %v", bigger.Width, short.Width)
	}
	wrapped := m.Measure("Sale Sale Sale", "Inter", 700, 40, short.Width*1.5)
	if wrapped.LineCount < 2 {
		t.Errorf("LineCount = %d, want wrapping", wrapped.LineCount)
	}

	fit := FindOptimalSize(m, "Premium headphones", Constraints{MaxWidth: 960, MaxHeight: 240, Weight: 800})
	if fit.Overflow || fit.Width > 960 || fit.Height > 240 {
		t.Errorf("fit = %+v, want within 960x240", fit)
	}
}

func TestDefaultMeasurer(t *testing.T) {
	if Default() == nil {
		t.Fatal("Default() = nil")
	}
	if Default() != Default() {
		t.Error("Default() not shared")
	}
}

func TestPairingFor(t *testing.T) {
	for _, mood := range Moods {
		p := PairingFor(mood)
		if p.Headline.Family == "" || p.Body.Family == "" || p.CTA.Family == "" {
			t.Errorf("PairingFor(%s) has empty family: %+v", mood, p)
		}
	}
	if PairingFor("unknown") != PairingFor(MoodModern) {
		t.Error("unknown mood should fall back to modern")
	}
	if PairingFor("ELEGANT").Headline.Family != "Playfair Display" {
		t.Error("mood lookup should be case-insensitive")
	}
}

func TestLetterSpacingMonotonic(t *testing.T) {
	weights := []int{300, 400, 700, 900}
	for _, w := range weights {
		prev := LetterSpacing(8, w)
		for size := 9.0; size <= 150; size++ {
			got := LetterSpacing(size, w)
			if got > prev {
				t.Errorf("LetterSpacing(%v, %d) = %v looser than %v at smaller size", size, w, got, prev)
			}
			prev = got
		}
	}
	for size := 8.0; size <= 150; size += 4 {
		for i := 1; i < len(weights); i++ {
			if LetterSpacing(size, weights[i]) > LetterSpacing(size, weights[i-1]) {
				t.Errorf("bolder text looser at size %v", size)
			}
		}
	}
	if got := LetterSpacing(72, 800); got != -1 {
		t.Errorf("LetterSpacing(72, 800) = %v, want -1", got)
	}
}

func TestRecommendedSize(t *testing.T) {
	tests := []struct {
		el     Element
		format grid.Format
		want   float64
	}{
		{ElementH1, grid.FormatSquare, 72},
		{ElementH1, grid.FormatStory, 79},
		{ElementH1, grid.FormatLandscape, 65},
		{ElementCTA, grid.FormatPortrait, 29},
		{"unknown", grid.FormatSquare, 24},
	}
	for _, tt := range tests {
		if got := RecommendedSize(tt.el, tt.format); got != tt.want {
			t.Errorf("RecommendedSize(%s, %s) = %v, want %v", tt.el, tt.format, got, tt.want)
		}
	}
}

func TestIsReadable(t *testing.T) {
	tests := []struct {
		size   float64
		weight int
		want   bool
	}{
		{20, 400, true},
		{19, 400, false},
		{18, 700, true},
		{17, 900, false},
	}
	for _, tt := range tests {
		if got := IsReadable(tt.size, tt.weight); got != tt.want {
			t.Errorf("IsReadable(%v, %d) = %v, want %v", tt.size, tt.weight, got, tt.want)
		}
	}
}
