package compose

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/palette"
	"github.com/matzehuels/adlayout/pkg/templates"
	"github.com/matzehuels/adlayout/pkg/typography"
)

func testEngine() *Engine {
	return NewEngine(typography.ApproxMeasurer{}, log.New(io.Discard))
}

func baseInput() Input {
	return Input{
		Headline:    "Summer Sale",
		CTAText:     "Shop Now",
		ProductName: "Sneaker X",
	}
}

func hasIssue(out *Output, substr string) bool {
	for _, is := range out.Quality.Issues {
		if strings.Contains(is, substr) {
			return true
		}
	}
	return false
}

func TestComposeCorrectsFailingTextColor(t *testing.T) {
	in := baseInput()
	in.Format = grid.FormatSquare
	in.Colors = Colors{Background: "#000000", Text: "#111111"}
	enforce := true
	in.EnforceAccessibility = &enforce

	out, err := testEngine().Compose(context.Background(), in)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	h := out.Document.ByRole(document.RoleHeadline)
	if h == nil {
		t.Fatal("no headline layer")
	}
	if h.Text.Color == "#111111" {
		t.Errorf("headline color not corrected")
	}
	if !out.Quality.AccessibilityPassed {
		t.Errorf("AccessibilityPassed = false, issues: %v", out.Quality.Issues)
	}
	if !hasIssue(out, "adjusted from #111111") {
		t.Errorf("correction not recorded in issues: %v", out.Quality.Issues)
	}
	if out.Document.BackgroundColor != "#000000" {
		t.Errorf("BackgroundColor = %s, want #000000", out.Document.BackgroundColor)
	}
}

func TestComposeWithoutEnforcement(t *testing.T) {
	in := baseInput()
	in.Colors = Colors{Background: "#000000", Text: "#111111"}
	off := false
	in.EnforceAccessibility = &off

	out, err := testEngine().Compose(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.Document.ByRole(document.RoleHeadline).Text.Color; got != "#111111" {
		t.Errorf("headline color = %s, want unchanged #111111", got)
	}
	if out.Quality.AccessibilityPassed {
		t.Error("AccessibilityPassed = true, want false")
	}
	if !hasIssue(out, "fails WCAG AA") {
		t.Errorf("failure not reported: %v", out.Quality.Issues)
	}
}

func TestComposeInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
		code   errors.Code
	}{
		{"no headline", func(in *Input) { in.Headline = "  " }, errors.ErrCodeInvalidInput},
		{"no cta", func(in *Input) { in.CTAText = "" }, errors.ErrCodeInvalidInput},
		{"no product", func(in *Input) { in.ProductName = "" }, errors.ErrCodeInvalidInput},
		{"format", func(in *Input) { in.Format = "banner" }, errors.ErrCodeInvalidFormat},
		{"pattern", func(in *Input) { in.Pattern = "retro" }, errors.ErrCodeInvalidPattern},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput()
			tt.mutate(&in)
			_, err := testEngine().Compose(context.Background(), in)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestComposeTemplateSelection(t *testing.T) {
	e := testEngine()

	in := baseInput()
	in.HasOffer = true
	out, err := e.Compose(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if out.Metadata.TemplateID != "urgency-v1" {
		t.Errorf("TemplateID = %s, want urgency-v1", out.Metadata.TemplateID)
	}

	in.Pattern = templates.PatternLuxury
	out, err = e.Compose(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	if out.Metadata.TemplateID != "luxury-v1" {
		t.Errorf("explicit pattern: TemplateID = %s, want luxury-v1", out.Metadata.TemplateID)
	}
}

func TestComposeBindsContent(t *testing.T) {
	in := baseInput()
	in.ProductImage = "https://cdn.example.com/sneaker.png"
	in.Pattern = templates.PatternEcommerce
	in.Benefits = []string{"Lightweight", "Waterproof"}
	in.Colors.Primary = "#1D4ED8"

	out, err := testEngine().Compose(context.Background(), in)
	if err != nil {
		t.Fatal(err)
	}
	doc := out.Document

	cta := doc.ByRole(document.RoleCTA)
	if cta.CTA.Text != "SHOP NOW" {
		t.Errorf("CTA text = %q, want SHOP NOW", cta.CTA.Text)
	}
	if cta.CTA.Background != "#1D4ED8" {
		t.Errorf("CTA background = %s, want brand color", cta.CTA.Background)
	}
	if res, _ := palette.Validate(cta.CTA.Color, cta.CTA.Background, cta.CTA.FontSize, cta.CTA.FontWeight); !res.Passes.AA {
		t.Errorf("CTA label fails AA: %v", res)
	}
	if p := doc.ByRole(document.RoleProduct); p.Image.Src != in.ProductImage {
		t.Errorf("product src = %q", p.Image.Src)
	}
	if b := doc.ByRole(document.RoleBenefits); b.Text.Text != "✓ Lightweight\n✓ Waterproof" || !b.Visible {
		t.Errorf("benefits = %q (visible %v)", b.Text.Text, b.Visible)
	}
	if sp := doc.ByRole(document.RoleSocialProof); sp.Visible {
		t.Error("social proof without copy should be hidden")
	}
	h := doc.ByRole(document.RoleHeadline)
	if h.Text.FontSize < 40 || h.Text.FontSize > 100 {
		t.Errorf("headline size = %v, want within 40..100", h.Text.FontSize)
	}
	if err := doc.Validate(); err != nil {
		t.Errorf("document invalid: %v", err)
	}
}

func TestComposeInvalidBrandColorRecorded(t *testing.T) {
	in := baseInput()
	in.Colors.Primary = "not-a-color"
	out, err := testEngine().Compose(context.Background(), in)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !hasIssue(out, "primary color") {
		t.Errorf("issues = %v, want invalid primary color", out.Quality.Issues)
	}
	if out.Quality.Degraded {
		t.Error("bad brand color should not degrade the output")
	}
}

type panicMeasurer struct{}

func (panicMeasurer) Measure(string, string, int, float64, float64) typography.Metrics {
	panic("font backend crashed")
}

func TestComposeMeasurerFailureRecorded(t *testing.T) {
	e := NewEngine(panicMeasurer{}, log.New(io.Discard))
	out, err := e.Compose(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if out.Quality.Degraded {
		t.Error("measurer failure should not degrade the output")
	}
	if !hasIssue(out, "could not measure") {
		t.Errorf("issues = %v, want measurement failure", out.Quality.Issues)
	}
	if out.Document.ByRole(document.RoleHeadline).Text.Text != "Summer Sale" {
		t.Error("headline not bound")
	}
}

func TestComposeFallbackOnTemplateFailure(t *testing.T) {
	e := testEngine()
	e.resolve = func(Input) (templates.Definition, error) {
		return templates.Definition{
			ID: "broken",
			Build: func(grid.Config) ([]document.Layer, error) {
				return nil, errors.New(errors.ErrCodeInternal, "boom")
			},
		}, nil
	}
	out, err := e.Compose(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !out.Quality.Degraded {
		t.Error("Degraded = false, want true")
	}
	if out.Metadata.TemplateID != "minimal-v1" {
		t.Errorf("fallback template = %s, want minimal-v1", out.Metadata.TemplateID)
	}
	if out.Quality.BalanceScore != 0 {
		t.Errorf("fallback BalanceScore = %v, want unscored", out.Quality.BalanceScore)
	}
	if h := out.Document.ByRole(document.RoleHeadline); h == nil || h.Text.Text != "Summer Sale" {
		t.Error("fallback headline not bound")
	}
	if MeetsQualityStandards(out) {
		t.Error("degraded output meets quality standards")
	}
}

func TestComposeFallbackOnPanic(t *testing.T) {
	e := testEngine()
	e.resolve = func(Input) (templates.Definition, error) {
		return templates.Definition{
			ID: "panics",
			Build: func(grid.Config) ([]document.Layer, error) {
				panic("unexpected")
			},
		}, nil
	}
	out, err := e.Compose(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !out.Quality.Degraded {
		t.Error("Degraded = false, want true")
	}
}

func TestComposeEveryFormatAndPattern(t *testing.T) {
	e := testEngine()
	for _, f := range grid.Formats {
		for _, p := range templates.Patterns {
			in := baseInput()
			in.Format, in.Pattern = f, p
			in.Description = "Breathable mesh and all-day comfort"
			out, err := e.Compose(context.Background(), in)
			if err != nil {
				t.Errorf("%s/%s: %v", f, p, err)
				continue
			}
			if out.Quality.Degraded {
				t.Errorf("%s/%s: degraded: %v", f, p, out.Quality.Issues)
			}
			if !out.Quality.AccessibilityPassed {
				t.Errorf("%s/%s: accessibility failed: %v", f, p, out.Quality.Issues)
			}
			if out.Quality.BalanceScore < 0 || out.Quality.BalanceScore > 100 {
				t.Errorf("%s/%s: balance %v out of range", f, p, out.Quality.BalanceScore)
			}
			if err := out.Document.Validate(); err != nil {
				t.Errorf("%s/%s: %v", f, p, err)
			}
		}
	}
}

func TestComposeContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := testEngine().Compose(ctx, baseInput()); err == nil {
		t.Error("Compose with canceled context succeeded")
	}
}

func TestComposeFormats(t *testing.T) {
	formats := []grid.Format{grid.FormatStory, grid.FormatSquare, grid.FormatLandscape}
	outs, err := testEngine().ComposeFormats(context.Background(), baseInput(), formats)
	if err != nil {
		t.Fatal(err)
	}
	for i, f := range formats {
		if outs[i].Metadata.Format != f {
			t.Errorf("outs[%d].Format = %s, want %s", i, outs[i].Metadata.Format, f)
		}
	}
	if outs[0].Document.Height != 1920 {
		t.Errorf("story height = %v", outs[0].Document.Height)
	}
}

func TestComposeVariants(t *testing.T) {
	outs, err := testEngine().ComposeVariants(context.Background(), baseInput())
	if err != nil {
		t.Fatal(err)
	}
	if len(outs) != len(templates.Patterns) {
		t.Fatalf("len = %d, want %d", len(outs), len(templates.Patterns))
	}
	seen := map[string]bool{}
	for i, o := range outs {
		seen[o.Metadata.TemplateID] = true
		if i > 0 && o.Quality.BalanceScore > outs[i-1].Quality.BalanceScore {
			t.Errorf("variants not sorted at %d", i)
		}
	}
	if len(seen) != len(templates.Patterns) {
		t.Errorf("templates used = %v", seen)
	}
}

// shapeUnderHeadline is a dark page with an opaque white panel behind the
// headline.
func shapeUnderHeadline(grid.Config) ([]document.Layer, error) {
	panel := document.Geometry{X: 60, Y: 60, Width: 960, Height: 400}
	return []document.Layer{
		document.NewBackground("background", 1080, 1080, document.BackgroundProps{Color: "#111111"}),
		document.NewShape("panel", "Panel", document.RoleAccent, panel, 1,
			document.ShapeProps{Shape: document.ShapeRect, Fill: "#FFFFFF"}),
		document.NewText("headline", "Headline", document.RoleHeadline,
			document.Geometry{X: 120, Y: 160, Width: 840, Height: 200}, 3,
			document.TextProps{FontFamily: "Inter", FontSize: 72, FontWeight: 800, LineHeight: 1.1}),
		document.NewCTA("cta", "CTA", document.Geometry{X: 340, Y: 800, Width: 400, Height: 100}, 4,
			document.CTAProps{FontFamily: "Inter", FontSize: 28, FontWeight: 700}),
	}, nil
}

func TestComposeChecksTextAgainstShapes(t *testing.T) {
	tests := []struct {
		name    string
		enforce bool
		passed  bool
		issue   string
	}{
		{"enforced", true, true, "adjusted from #FFFFFF"},
		{"reported", false, false, "fails WCAG AA"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := testEngine()
			e.resolve = func(Input) (templates.Definition, error) {
				return templates.Definition{ID: "panel-v1", Name: "Panel", Build: shapeUnderHeadline}, nil
			}
			in := baseInput()
			in.EnforceAccessibility = &tt.enforce

			out, err := e.Compose(context.Background(), in)
			if err != nil {
				t.Fatalf("Compose: %v", err)
			}
			if out.Quality.AccessibilityPassed != tt.passed {
				t.Errorf("AccessibilityPassed = %v, want %v: %v", out.Quality.AccessibilityPassed, tt.passed, out.Quality.Issues)
			}
			if !hasIssue(out, tt.issue) {
				t.Errorf("issues = %v, want %q", out.Quality.Issues, tt.issue)
			}
			h := out.Document.ByRole(document.RoleHeadline)
			res, _ := palette.Validate(h.Text.Color, "#FFFFFF", h.Text.FontSize, h.Text.FontWeight)
			if res.Passes.AA != tt.enforce {
				t.Errorf("headline %s on the white panel passes AA = %v", h.Text.Color, res.Passes.AA)
			}
		})
	}
}

func TestComposeReportsViolations(t *testing.T) {
	e := testEngine()
	in := baseInput()
	in.Format, in.Pattern = grid.FormatStory, templates.PatternUrgency

	out, err := e.Compose(context.Background(), in)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	want := out.Document.Check()
	if len(want) == 0 {
		t.Fatal("expected layers outside the story safe area")
	}
	if !slices.Equal(out.Quality.Violations, want) {
		t.Errorf("Violations = %v, want %v", out.Quality.Violations, want)
	}
}

func TestComposeSizesFollowTypeScale(t *testing.T) {
	for _, f := range grid.Formats {
		lo, hi := sizeRange(document.RoleHeadline, f)
		rec := typography.RecommendedSize(typography.ElementH1, f)
		if float64(lo) > rec || float64(hi) < rec {
			t.Errorf("%s headline range %d..%d excludes recommended %v", f, lo, hi, rec)
		}
	}
	if lo, hi := sizeRange("unknown", grid.FormatSquare); lo != 13 || hi != 32 {
		t.Errorf("unknown role range = %d..%d, want body 13..32", lo, hi)
	}
}

// crampedMeasurer reports every text as too large for any box.
type crampedMeasurer struct{}

func (crampedMeasurer) Measure(string, string, int, float64, float64) typography.Metrics {
	return typography.Metrics{Width: 1e6, Height: 1e6, LineCount: 99}
}

func TestComposeFlagsSmallText(t *testing.T) {
	e := NewEngine(crampedMeasurer{}, log.New(io.Discard))
	out, err := e.Compose(context.Background(), baseInput())
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	cta := out.Document.ByRole(document.RoleCTA)
	if typography.IsReadable(cta.CTA.FontSize, cta.CTA.FontWeight) {
		t.Fatalf("CTA at %vpx is readable, want the minimum size", cta.CTA.FontSize)
	}
	found := false
	for _, s := range out.Quality.Suggestions {
		if strings.Contains(s, "cta text at") && strings.Contains(s, "hard to read") {
			found = true
		}
	}
	if !found {
		t.Errorf("suggestions = %v, want a CTA readability hint", out.Quality.Suggestions)
	}
}

func TestMeetsQualityStandards(t *testing.T) {
	good := &Output{Quality: Quality{BalanceScore: 80, AccessibilityPassed: true}}
	tests := []struct {
		name string
		out  *Output
		want bool
	}{
		{"good", good, true},
		{"nil", nil, false},
		{"low balance", &Output{Quality: Quality{BalanceScore: 69, AccessibilityPassed: true}}, false},
		{"inaccessible", &Output{Quality: Quality{BalanceScore: 90}}, false},
		{"issues", &Output{Quality: Quality{BalanceScore: 90, AccessibilityPassed: true, Issues: []string{"x"}}}, false},
	}
	for _, tt := range tests {
		if got := MeetsQualityStandards(tt.out); got != tt.want {
			t.Errorf("%s: MeetsQualityStandards = %v, want %v", tt.name, got, tt.want)
		}
	}
}
