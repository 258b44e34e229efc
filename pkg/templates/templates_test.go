package templates

import (
	"reflect"
	"testing"

	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
)

func TestCatalog(t *testing.T) {
	all := All()
	if len(all) < 5 {
		t.Fatalf("len(All()) = %d, want at least 5", len(all))
	}
	seen := map[string]bool{}
	for i, d := range all {
		if d.Pattern != Patterns[i] {
			t.Errorf("All()[%d].Pattern = %s, want %s", i, d.Pattern, Patterns[i])
		}
		if seen[d.ID] {
			t.Errorf("duplicate id %s", d.ID)
		}
		seen[d.ID] = true
		if got, err := Get(d.ID); err != nil || got.Pattern != d.Pattern {
			t.Errorf("Get(%s) = %v, %v", d.ID, got.Pattern, err)
		}
	}
	if _, err := Get("nope"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Get(nope) error = %v, want NOT_FOUND", err)
	}
	if _, err := ByPattern("retro"); !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("ByPattern(retro) error = %v, want INVALID_PATTERN", err)
	}
}

func TestParsePattern(t *testing.T) {
	if p, err := ParsePattern(" Bold "); err != nil || p != PatternBold {
		t.Errorf("ParsePattern(Bold) = %q, %v", p, err)
	}
	if p, err := ParsePattern(""); err != nil || p != "" {
		t.Errorf("ParsePattern(\"\") = %q, %v", p, err)
	}
	if _, err := ParsePattern("retro"); !errors.Is(err, errors.ErrCodeInvalidPattern) {
		t.Errorf("ParsePattern(retro) error = %v", err)
	}
}

func TestBuildEveryFormat(t *testing.T) {
	for _, d := range All() {
		for _, f := range grid.Formats {
			cfg := grid.MustConfig(f)
			layers, err := d.Build(cfg)
			if err != nil {
				t.Errorf("%s/%s: Build error: %v", d.ID, f, err)
				continue
			}
			doc := document.New(d.Name, cfg)
			doc.Layers = layers
			if err := doc.Validate(); err != nil {
				t.Errorf("%s/%s: invalid layers: %v", d.ID, f, err)
			}
			canvas := cfg.Canvas()
			for _, l := range layers {
				if !canvas.Contains(l.Geometry.Rect()) {
					t.Errorf("%s/%s: layer %s %+v outside canvas", d.ID, f, l.ID, l.Geometry)
				}
			}
			for _, role := range d.Roles {
				if doc.ByRole(role) == nil {
					t.Errorf("%s/%s: required role %s missing", d.ID, f, role)
				}
			}
			if layers[0].Kind != document.KindBackground {
				t.Errorf("%s/%s: first layer is %s, want background", d.ID, f, layers[0].Kind)
			}
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	for _, d := range All() {
		cfg := grid.MustConfig(grid.FormatSquare)
		a, _ := d.Build(cfg)
		b, _ := d.Build(cfg)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: Build is not deterministic", d.ID)
		}
	}
}

func TestBuildInvalidConfig(t *testing.T) {
	cfg := grid.MustConfig(grid.FormatSquare)
	cfg.Columns = 0
	if _, err := registry[PatternMinimal].Build(cfg); err == nil {
		t.Error("Build with zero columns succeeded")
	}
}

func TestStructuralDifferences(t *testing.T) {
	cfg := grid.MustConfig(grid.FormatSquare)
	get := func(p Pattern) *document.Document {
		layers, err := registry[p].Build(cfg)
		if err != nil {
			t.Fatal(err)
		}
		d := document.New("", cfg)
		d.Layers = layers
		return d
	}

	bold := get(PatternBold)
	if a := bold.ByRole(document.RoleAccent); a == nil || a.Geometry.Rotation != 15 {
		t.Error("bold: want rotated accent shape")
	}
	if bold.ByRole(document.RoleHeadline).Text.Align != document.AlignLeft {
		t.Error("bold: want left-aligned headline")
	}
	if get(PatternMinimal).ByRole(document.RoleHeadline).Text.Align != document.AlignCenter {
		t.Error("minimal: want centered headline")
	}
	if get(PatternEcommerce).ByRole(document.RoleBenefits) == nil {
		t.Error("ecommerce: want benefits list")
	}
	urgency := get(PatternUrgency)
	if b := urgency.ByRole(document.RoleBadge); b == nil || b.Geometry.Height != urgencyBadgeHeight {
		t.Error("urgency: want fixed-height badge")
	}
	if get(PatternLuxury).ByRole(document.RoleHeadline).Text.FontFamily != "Playfair Display" {
		t.Error("luxury: want serif headline")
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		ctx  Context
		want Pattern
	}{
		{"empty", Context{}, PatternMinimal},
		{"offer", Context{HasOffer: true}, PatternUrgency},
		{"conversion", Context{Goal: GoalConversion}, PatternUrgency},
		{"offer beats luxury", Context{HasOffer: true, Tone: "luxury"}, PatternUrgency},
		{"luxury tone", Context{Tone: "luxury"}, PatternLuxury},
		{"luxury product", Context{ProductType: "luxury watch"}, PatternLuxury},
		{"luxury beats bold", Context{Tone: "luxury", Goal: GoalAwareness}, PatternLuxury},
		{"bold tone", Context{Tone: "bold"}, PatternBold},
		{"awareness", Context{Goal: GoalAwareness}, PatternBold},
		{"bold beats ecommerce", Context{Tone: "bold", ProductType: "ecommerce"}, PatternBold},
		{"ecommerce", Context{ProductType: "ecommerce apparel"}, PatternEcommerce},
		{"consideration", Context{Goal: GoalConsideration}, PatternEcommerce},
		{"unknown tone", Context{Tone: "quirky"}, PatternMinimal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Select(tt.ctx).Pattern; got != tt.want {
				t.Errorf("Select(%+v) = %s, want %s", tt.ctx, got, tt.want)
			}
		})
	}
}

func TestRank(t *testing.T) {
	ctx := Context{Tone: "bold", ProductType: "ecommerce"}
	ranked := Rank(ctx)
	if len(ranked) != len(Patterns) {
		t.Fatalf("len(Rank) = %d, want %d", len(ranked), len(Patterns))
	}
	if ranked[0].Definition.Pattern != PatternBold {
		t.Errorf("Rank[0] = %s, want bold", ranked[0].Definition.Pattern)
	}
	if ranked[1].Definition.Pattern != PatternEcommerce {
		t.Errorf("Rank[1] = %s, want ecommerce", ranked[1].Definition.Pattern)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Suitability > ranked[i-1].Suitability {
			t.Errorf("Rank not sorted at %d", i)
		}
	}
	// Ties keep catalog order: minimal, luxury, urgency all score the base.
	tail := []Pattern{ranked[2].Definition.Pattern, ranked[3].Definition.Pattern, ranked[4].Definition.Pattern}
	want := []Pattern{PatternMinimal, PatternLuxury, PatternUrgency}
	if !reflect.DeepEqual(tail, want) {
		t.Errorf("tie order = %v, want %v", tail, want)
	}
}
