package adaptive

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/matzehuels/adlayout/pkg/balance"
	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/palette"
	"github.com/matzehuels/adlayout/pkg/vision"
)

// SideBonus is added to the balance score when text and product occupy
// opposite sides and subtracted when they occupy the same side.
const SideBonus = 20.0

// Zone geometry, in pixels of a 1080px reference canvas.
const (
	headlineOffset    = 100.0
	headlineHeight    = 120.0
	descriptionOffset = 250.0
	descriptionHeight = 80.0
	bandHeadline      = 100.0 // headline height above or below a centered product
	bandMargin        = 90.0
	ctaWidth          = 300.0
	ctaHeight         = 60.0
	ctaBottomOffset   = 100.0
	ctaFallbackOffset = 120.0

	headlineMaxSize    = 64
	descriptionMaxSize = 24

	idealZoneGap = 40.0
)

// TextZone is a region reserved for one text role.
type TextZone struct {
	Role        document.Role `json:"role"`
	Bounds      grid.Rect     `json:"bounds"`
	Align       string        `json:"align"`
	MaxFontSize int           `json:"max_font_size"`
}

// Layout is the adapted placement of product, text and CTA.
type Layout struct {
	ProductZone grid.Rect  `json:"product_zone"`
	TextZones   []TextZone `json:"text_zones"`
	CTAZone     grid.Rect  `json:"cta_zone"`
}

// Headline returns the headline zone.
func (l Layout) Headline() (TextZone, bool) {
	for _, z := range l.TextZones {
		if z.Role == document.RoleHeadline {
			return z, true
		}
	}
	return TextZone{}, false
}

// Balance is the adapted balance score. Score = clamp(RawScore +
// Adjustment) where Adjustment is +SideBonus, -SideBonus or 0.
type Balance struct {
	Score       float64  `json:"score"`
	RawScore    float64  `json:"raw_score"`
	Adjustment  float64  `json:"adjustment"`
	Opposite    bool     `json:"opposite"`
	Adjustments []string `json:"adjustments"`
}

// Harmony grades how well the layout fits the product, each 0-100.
type Harmony struct {
	ColorMatch   float64 `json:"color_match"`   // harmony of the product colors
	SpacingFlow  float64 `json:"spacing_flow"`  // gap between text zones vs. the ideal
	VisualRhythm float64 `json:"visual_rhythm"` // balance score of the placed zones
}

// Template is an adaptive layout.
type Template struct {
	Layout    Layout          `json:"layout"`
	Balance   Balance         `json:"balance"`
	Harmony   Harmony         `json:"harmony"`
	Analysis  vision.Analysis `json:"analysis"`
	Heuristic bool            `json:"heuristic"`
}

// Generate builds the adaptive layout for an analysis.
func Generate(a vision.Analysis) Template {
	canvas := a.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = vision.DefaultCanvas
	}
	a.Canvas = canvas

	zones := textZones(a)
	layout := Layout{
		ProductZone: a.BoundingBox,
		TextZones:   zones,
		CTAZone:     ctaZone(a),
	}
	return Template{
		Layout:    layout,
		Balance:   score(a, zones),
		Harmony:   harmony(a, layout),
		Analysis:  a,
		Heuristic: a.Heuristic,
	}
}

// FromImage analyzes image with a (falling back to the heuristic analysis
// on failure or timeout) and generates the layout. The error is the
// fallback cause, for logging; the template is always usable.
func FromImage(ctx context.Context, a vision.Analyzer, image []byte, timeout time.Duration) (Template, error) {
	analysis, cause := vision.Resilient(ctx, a, image, timeout)
	return Generate(analysis), cause
}

func scale(a vision.Analysis) float64 {
	return a.Canvas.Width / vision.DefaultCanvas.Width
}

func textZones(a vision.Analysis) []TextZone {
	switch a.Composition.DominantSide {
	case vision.SideLeft:
		return sideZones(a, vision.RegionRight)
	case vision.SideRight:
		return sideZones(a, vision.RegionLeft)
	}
	return bandZones(a)
}

// sideZones stacks headline and description in the free space of region,
// or in the most suitable free space when that side is full.
func sideZones(a vision.Analysis, region vision.Region) []TextZone {
	space, ok := a.FreeSpace(region)
	if !ok {
		if len(a.FreeSpaces) == 0 {
			return nil
		}
		space = a.FreeSpaces[0]
	}
	if space.Region == vision.RegionTop || space.Region == vision.RegionBottom {
		return bandZones(a)
	}
	s := scale(a)
	b := space.Bounds
	return []TextZone{
		{
			Role:        document.RoleHeadline,
			Bounds:      grid.Rect{X: b.X, Y: b.Y + headlineOffset*s, Width: b.Width, Height: headlineHeight * s},
			Align:       document.AlignLeft,
			MaxFontSize: headlineMaxSize,
		},
		{
			Role:        document.RoleDescription,
			Bounds:      grid.Rect{X: b.X, Y: b.Y + descriptionOffset*s, Width: b.Width, Height: descriptionHeight * s},
			Align:       document.AlignLeft,
			MaxFontSize: descriptionMaxSize,
		},
	}
}

// bandZones centers the headline in the top or bottom free space, picking
// the one that suits text better. Ties go to the bottom.
func bandZones(a vision.Analysis) []TextZone {
	top, hasTop := a.FreeSpace(vision.RegionTop)
	bottom, hasBottom := a.FreeSpace(vision.RegionBottom)
	var space vision.FreeSpace
	switch {
	case hasTop && (!hasBottom || top.Suitability > bottom.Suitability):
		space = top
	case hasBottom:
		space = bottom
	default:
		return nil
	}
	s := scale(a)
	return []TextZone{{
		Role: document.RoleHeadline,
		Bounds: grid.Rect{
			X:      a.Canvas.X + bandMargin*s,
			Y:      space.Bounds.Y,
			Width:  a.Canvas.Width - 2*bandMargin*s,
			Height: bandHeadline * s,
		},
		Align:       document.AlignCenter,
		MaxFontSize: headlineMaxSize,
	}}
}

func ctaZone(a vision.Analysis) grid.Rect {
	s := scale(a)
	w, h := ctaWidth*s, ctaHeight*s
	x := a.Canvas.X + (a.Canvas.Width-w)/2
	if bottom, ok := a.FreeSpace(vision.RegionBottom); ok {
		return grid.Rect{X: x, Y: bottom.Bounds.Bottom() - ctaBottomOffset*s, Width: w, Height: h}
	}
	return grid.Rect{X: x, Y: a.Canvas.Bottom() - ctaFallbackOffset*s, Width: w, Height: h}
}

func score(a vision.Analysis, zones []TextZone) Balance {
	b := Balance{RawScore: a.Composition.Balance, Adjustments: []string{}}
	productSide := a.Composition.DominantSide
	if len(zones) > 0 && productSide != vision.SideCenter {
		cx, _ := a.Canvas.Center()
		textSide := vision.SideRight
		if zx, _ := zones[0].Bounds.Center(); zx < cx {
			textSide = vision.SideLeft
		}
		if textSide != productSide {
			b.Opposite = true
			b.Adjustment = SideBonus
			b.Adjustments = append(b.Adjustments, "Text placed opposite to product for balance")
		} else {
			b.Adjustment = -SideBonus
			b.Adjustments = append(b.Adjustments, "Consider moving text to the side opposite the product")
		}
	}
	b.Score = math.Max(0, math.Min(100, b.RawScore+b.Adjustment))
	return b
}

func harmony(a vision.Analysis, l Layout) Harmony {
	h := Harmony{SpacingFlow: 100}
	c := a.Colors
	h.ColorMatch = palette.Harmony([]string{c.Dominant, c.Accent, c.Background}).Overall

	if len(l.TextZones) > 1 {
		var dev float64
		for i := 1; i < len(l.TextZones); i++ {
			gap := l.TextZones[i].Bounds.Y - l.TextZones[i-1].Bounds.Bottom()
			dev += math.Abs(gap - idealZoneGap*scale(a))
		}
		h.SpacingFlow = math.Max(0, 100-dev/float64(len(l.TextZones)-1))
	}

	r := balance.Score(l.Layers(), a.Canvas.Width, a.Canvas.Height, balance.DefaultConfig())
	h.VisualRhythm = r.Overall
	return h
}

// Layers returns placeholder layers for the layout: product image, one
// text layer per zone and the CTA.
func (l Layout) Layers() []document.Layer {
	layers := []document.Layer{
		document.NewImage("product", "Product", document.RoleProduct, document.FromRect(l.ProductZone), 1,
			document.ImageProps{Fit: "contain"}),
	}
	for i, z := range l.TextZones {
		layers = append(layers, document.NewText(fmt.Sprintf("text-%s", z.Role), string(z.Role), z.Role,
			document.FromRect(z.Bounds), 2+i, document.TextProps{
				FontSize:   float64(z.MaxFontSize),
				FontWeight: 400,
				LineHeight: 1.2,
				Align:      z.Align,
				Color:      palette.Black,
			}))
	}
	layers = append(layers, document.NewCTA("cta", "CTA", document.FromRect(l.CTAZone), 2+len(l.TextZones),
		document.CTAProps{FontSize: 24, FontWeight: 700, Color: palette.White, Background: palette.Black}))
	return layers
}
