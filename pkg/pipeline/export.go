package pipeline

import (
	"fmt"

	"github.com/matzehuels/adlayout/pkg/adaptive"
	"github.com/matzehuels/adlayout/pkg/cache"
	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/palette"
	"github.com/matzehuels/adlayout/pkg/variation"
)

// =============================================================================
// Export
// =============================================================================

// CTA corner radii by element shape style.
const (
	ctaRadiusCircle  = 30.0
	ctaRadiusRounded = 12.0
)

// Base export sizes, before the variation's size scale.
const (
	exportHeadlineSize    = 64.0
	exportDescriptionSize = 24.0
	exportCTASize         = 24.0
	exportHeadlineWeight  = 700
	exportBodyWeight      = 400
)

var shadows = map[string]*document.Shadow{
	variation.ShadowSubtle:   {Color: palette.Black, Blur: 8, OffsetY: 2, Opacity: 0.15},
	variation.ShadowModerate: {Color: palette.Black, Blur: 16, OffsetY: 6, Opacity: 0.25},
	variation.ShadowDramatic: {Color: palette.Black, Blur: 32, OffsetY: 12, Opacity: 0.4},
}

// Export turns a ranked variation into a renderable document. With an
// adaptive layout the product and text zones follow it, scaled from the
// analysis canvas; otherwise the grid presets place them. opts must have
// been validated.
//
// The document's soft problems, such as text leaving the safe area, are
// returned alongside it. They are reported, never enforced.
func Export(v variation.Variation, at *adaptive.Template, opts Options) (*document.Document, []document.Violation, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, nil, err
	}
	cfg, err := grid.ConfigFor(opts.Format)
	if err != nil {
		return nil, nil, err
	}

	bg := background(v)
	text, err := palette.AccessibleTextColor(bg)
	if err != nil {
		return nil, nil, err
	}
	name := opts.BrandName
	if name == "" {
		name = opts.ProductName
	}
	doc := document.New(fmt.Sprintf("%s - variation %d", name, v.Index+1), cfg)
	doc.TemplateID = v.TemplateID
	doc.BackgroundColor = bg

	bgProps := document.BackgroundProps{Color: bg}
	if g := v.Colors.Gradient; g != nil {
		bgProps.Gradient = &document.Gradient{Angle: g.Angle, Stops: append([]string(nil), g.Colors...)}
	}
	doc.Layers = append(doc.Layers, document.NewBackground("background", cfg.Width, cfg.Height, bgProps))

	z := zones(at, cfg)

	if len(opts.ProductImage) > 0 || at != nil {
		src := ""
		if len(opts.ProductImage) > 0 {
			src = "sha256:" + cache.Hash(opts.ProductImage)
		}
		doc.Layers = append(doc.Layers, document.NewImage("product", "Product", document.RoleProduct,
			document.FromRect(z.product), 1, document.ImageProps{
				Src:    src,
				Alt:    opts.ProductName,
				Fit:    "contain",
				Shadow: shadows[v.Elements.Shadow],
			}))
	}

	t := v.Typography
	align := v.Layout.Alignment
	if align == variation.AlignJustified {
		align = document.AlignLeft
	}
	content := map[document.Role]string{
		document.RoleHeadline:    opts.ProductName,
		document.RoleDescription: opts.Description,
	}
	for i, tz := range z.text {
		value := content[tz.role]
		if value == "" {
			continue
		}
		family, weight := t.Pairing.Body, exportBodyWeight
		if tz.role == document.RoleHeadline {
			family, weight = t.Pairing.Headline, exportHeadlineWeight
		}
		doc.Layers = append(doc.Layers, document.NewText(string(tz.role), string(tz.role), tz.role,
			document.FromRect(tz.bounds), 2+i, document.TextProps{
				Text:          value,
				FontFamily:    family,
				FontSize:      tz.size * t.SizeScale,
				FontWeight:    clampWeight(weight + t.Weight.Delta()),
				LineHeight:    t.LineHeight,
				LetterSpacing: t.LetterSpacing,
				Align:         align,
				Color:         text,
				Effects:       append([]string(nil), v.Elements.Effects...),
			}))
	}

	cta, err := palette.SafeCTAColor(bg, v.Colors.Accent)
	if err != nil {
		return nil, nil, err
	}
	props := document.CTAProps{
		Text:       opts.CTAText,
		FontFamily: t.Pairing.Body,
		FontSize:   exportCTASize * t.SizeScale,
		FontWeight: exportHeadlineWeight,
		Color:      cta.Text,
		Background: cta.Background,
		Radius:     ctaRadius(v.Elements.Shape),
		Shadow:     shadows[v.Elements.Shadow],
	}
	if v.Elements.Border != variation.BorderNone {
		props.Border = fmt.Sprintf("%s %s", v.Elements.Border, cta.Text)
	}
	doc.Layers = append(doc.Layers, document.NewCTA("cta", "CTA", document.FromRect(z.cta), 2+len(z.text), props))

	doc.SortByZ()
	if err := doc.Validate(); err != nil {
		return nil, nil, err
	}
	return doc, doc.Check(), nil
}

func ctaRadius(shape string) float64 {
	switch shape {
	case variation.ShapeCircle:
		return ctaRadiusCircle
	case variation.ShapeRounded:
		return ctaRadiusRounded
	}
	return 0
}

// background is the last palette color: the background slot for shift,
// invert and complementary palettes and the outermost hue otherwise.
func background(v variation.Variation) string {
	if n := len(v.Colors.Palette); n > 0 {
		if c, err := palette.Normalize(v.Colors.Palette[n-1]); err == nil {
			return c
		}
	}
	return palette.White
}

func clampWeight(w int) int {
	return max(100, min(900, w))
}

type textZone struct {
	role   document.Role
	bounds grid.Rect
	size   float64
}

type exportZones struct {
	product grid.Rect
	text    []textZone
	cta     grid.Rect
}

// zones places product, text and CTA from the adaptive layout, or from the
// grid presets without one.
func zones(at *adaptive.Template, cfg grid.Config) exportZones {
	if at != nil {
		canvas := at.Analysis.Canvas
		sx, sy := cfg.Width/canvas.Width, cfg.Height/canvas.Height
		z := exportZones{
			product: scale(at.Layout.ProductZone, sx, sy),
			cta:     scale(at.Layout.CTAZone, sx, sy),
		}
		for _, tz := range at.Layout.TextZones {
			z.text = append(z.text, textZone{role: tz.Role, bounds: scale(tz.Bounds, sx, sy), size: float64(tz.MaxFontSize)})
		}
		return z
	}

	product, _ := grid.ProductCentered(cfg)
	headline, _ := grid.Headline(cfg)
	description, _ := grid.Description(cfg)
	cta, _ := grid.CTABottom(cfg)
	return exportZones{
		product: product.Rect,
		text: []textZone{
			{role: document.RoleHeadline, bounds: headline.Rect, size: exportHeadlineSize},
			{role: document.RoleDescription, bounds: description.Rect, size: exportDescriptionSize},
		},
		cta: cta.Rect,
	}
}

func scale(r grid.Rect, sx, sy float64) grid.Rect {
	return grid.Rect{X: r.X * sx, Y: r.Y * sy, Width: r.Width * sx, Height: r.Height * sy}
}
