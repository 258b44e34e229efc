package templates

import (
	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/grid"
)

// builder accumulates layers and keeps the first placement error.
type builder struct {
	cfg    grid.Config
	layers []document.Layer
	err    error
}

func newBuilder(cfg grid.Config, bg document.BackgroundProps) *builder {
	b := &builder{cfg: cfg}
	if err := cfg.Validate(); err != nil {
		b.err = err
	}
	b.add(document.NewBackground("background", cfg.Width, cfg.Height, bg))
	return b
}

func (b *builder) add(l document.Layer) { b.layers = append(b.layers, l) }

func (b *builder) keep(p grid.Position, err error) document.Geometry {
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return document.Geometry{}
	}
	return document.FromRect(p.Rect)
}

// at places a span on the reference grid.
func (b *builder) at(col, colSpan, row, rowSpan int) document.Geometry {
	return b.keep(grid.PlaceReference(b.cfg, col, colSpan, row, rowSpan))
}

func (b *builder) preset(fn func(grid.Config) (grid.Position, error)) document.Geometry {
	return b.keep(fn(b.cfg))
}

func (b *builder) done() ([]document.Layer, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.layers, nil
}

func productImage(g document.Geometry, shadow *document.Shadow) document.Layer {
	return document.NewImage("product", "Product", document.RoleProduct, g, 2,
		document.ImageProps{Fit: "contain", Shadow: shadow})
}

// =============================================================================
// Minimal
// =============================================================================

func buildMinimal(cfg grid.Config) ([]document.Layer, error) {
	b := newBuilder(cfg, document.BackgroundProps{Color: "#FFFFFF"})

	b.add(document.NewText("headline", "Headline", document.RoleHeadline, b.preset(grid.Headline), 3,
		document.TextProps{
			Text: "Your Headline Here", FontFamily: "Inter", FontSize: 72, FontWeight: 800,
			LineHeight: 1.1, Align: document.AlignCenter, Color: "#000000",
		}))
	b.add(productImage(b.preset(grid.ProductHero),
		&document.Shadow{Color: "#000000", Blur: 40, OffsetY: 20, Opacity: 0.2}))
	b.add(document.NewCTA("cta", "CTA", b.preset(grid.CTABottom), 4,
		document.CTAProps{
			Text: "SHOP NOW", FontFamily: "Inter", FontSize: 28, FontWeight: 700,
			Color: "#FFFFFF", Background: "#000000", Radius: 100,
			Shadow: &document.Shadow{Color: "#000000", Blur: 20, OffsetY: 10, Opacity: 0.3},
		}))
	return b.done()
}

// =============================================================================
// Bold
// =============================================================================

func buildBold(cfg grid.Config) ([]document.Layer, error) {
	b := newBuilder(cfg, document.BackgroundProps{Color: "#0A0A0A"})

	accent := b.at(1, 6, 1, 8)
	accent.Rotation = 15
	shape := document.NewShape("accent", "Accent", document.RoleAccent, accent, 1,
		document.ShapeProps{Shape: document.ShapeRect, Fill: "#FFFFFF"})
	shape.Opacity = 0.1
	shape.Locked = true
	b.add(shape)

	b.add(document.NewText("headline", "Headline", document.RoleHeadline, b.at(1, 10, 1, 2), 3,
		document.TextProps{
			Text: "BOLD HEADLINE", FontFamily: "Montserrat", FontSize: 84, FontWeight: 900,
			LineHeight: 1.0, Align: document.AlignLeft, Color: "#FFFFFF",
			Shadow: &document.Shadow{Color: "#000000", Blur: 20, Opacity: 0.8},
		}))

	desc := document.NewText("description", "Description", document.RoleDescription, b.at(1, 8, 3, 1), 3,
		document.TextProps{
			Text: "Your description here", FontFamily: "Montserrat", FontSize: 32, FontWeight: 500,
			LineHeight: 1.4, Align: document.AlignLeft, Color: "#FFFFFF",
		})
	desc.Opacity = 0.9
	b.add(desc)

	product := b.at(6, 6, 4, 4)
	product.Rotation = -5
	b.add(productImage(product, &document.Shadow{Color: "#000000", Blur: 50, OffsetY: 25, Opacity: 0.4}))

	b.add(document.NewCTA("cta", "CTA", b.at(1, 5, 8, 1), 4,
		document.CTAProps{
			Text: "GET YOURS NOW", FontFamily: "Montserrat", FontSize: 30, FontWeight: 700,
			Color: "#000000", Background: "#FFFFFF", Radius: 12,
			Shadow: &document.Shadow{Color: "#FFFFFF", Blur: 30, Opacity: 0.4},
		}))
	return b.done()
}

// =============================================================================
// E-commerce
// =============================================================================

func buildEcommerce(cfg grid.Config) ([]document.Layer, error) {
	b := newBuilder(cfg, document.BackgroundProps{Color: "#F8F9FA"})

	b.add(document.NewText("headline", "Headline", document.RoleHeadline, b.at(1, 12, 1, 1), 3,
		document.TextProps{
			Text: "Product Name", FontFamily: "Inter", FontSize: 64, FontWeight: 700,
			LineHeight: 1.1, Align: document.AlignCenter, Color: "#1A1A1A",
		}))
	b.add(productImage(b.at(3, 8, 2, 3), &document.Shadow{Color: "#000000", Blur: 30, OffsetY: 15, Opacity: 0.15}))
	b.add(document.NewText("benefits", "Benefits", document.RoleBenefits, b.at(2, 10, 5, 2), 3,
		document.TextProps{
			Text: "✓ Feature 1\n✓ Feature 2\n✓ Feature 3", FontFamily: "Inter", FontSize: 28, FontWeight: 500,
			LineHeight: 1.5, Align: document.AlignLeft, Color: "#333333",
		}))

	proof := document.NewText("social-proof", "Social Proof", document.RoleSocialProof, b.at(3, 8, 7, 1), 3,
		document.TextProps{
			Text: "★★★★★ 10,000+ Reviews", FontFamily: "Inter", FontSize: 24, FontWeight: 600,
			LineHeight: 1.2, Align: document.AlignCenter, Color: "#333333",
		})
	proof.Opacity = 0.8
	b.add(proof)

	b.add(document.NewCTA("cta", "CTA", b.at(4, 6, 8, 1), 4,
		document.CTAProps{
			Text: "ADD TO CART", FontFamily: "Inter", FontSize: 28, FontWeight: 700,
			Color: "#FFFFFF", Background: "#000000", Radius: 8,
		}))
	return b.done()
}

// =============================================================================
// Luxury
// =============================================================================

func buildLuxury(cfg grid.Config) ([]document.Layer, error) {
	b := newBuilder(cfg, document.BackgroundProps{Color: "#1C1C1C"})

	b.add(document.NewText("headline", "Headline", document.RoleHeadline, b.at(2, 10, 1, 2), 3,
		document.TextProps{
			Text: "Timeless Elegance", FontFamily: "Playfair Display", FontSize: 68, FontWeight: 700,
			LineHeight: 1.2, LetterSpacing: 1, Align: document.AlignCenter, Color: "#F5F1EB",
		}))
	b.add(productImage(b.at(3, 8, 3, 4), &document.Shadow{Color: "#000000", Blur: 60, OffsetY: 30, Opacity: 0.3}))

	desc := document.NewText("description", "Description", document.RoleDescription, b.at(3, 8, 7, 1), 3,
		document.TextProps{
			Text: "Crafted with precision", FontFamily: "Inter", FontSize: 26, FontWeight: 300,
			LineHeight: 1.4, LetterSpacing: 2, Align: document.AlignCenter, Color: "#F5F1EB",
		})
	desc.Opacity = 0.7
	b.add(desc)

	b.add(document.NewCTA("cta", "CTA", b.at(4, 6, 8, 1), 4,
		document.CTAProps{
			Text: "Discover More", FontFamily: "Inter", FontSize: 24, FontWeight: 400,
			Color: "#F5F1EB", Background: "#1C1C1C", Radius: 4, Border: "solid",
		}))
	return b.done()
}

// =============================================================================
// Urgency
// =============================================================================

// urgencyBadgeHeight is the fixed badge height in pixels.
const urgencyBadgeHeight = 80

func buildUrgency(cfg grid.Config) ([]document.Layer, error) {
	b := newBuilder(cfg, document.BackgroundProps{Color: "#FFFFFF"})

	badge := b.keep(grid.Place(cfg, 9, 3, 1, 1))
	badge.Width *= 0.8
	badge.Height = urgencyBadgeHeight
	badgeLayer := document.NewCTA("badge", "Badge", badge, 5,
		document.CTAProps{
			Text: "24H ONLY", FontFamily: "Inter", FontSize: 22, FontWeight: 800,
			Color: "#FFFFFF", Background: "#B91C1C", Radius: 8,
		})
	badgeLayer.Role = document.RoleBadge
	b.add(badgeLayer)

	b.add(document.NewText("headline", "Headline", document.RoleHeadline, b.at(1, 12, 2, 2), 3,
		document.TextProps{
			Text: "LIMITED TIME OFFER!", FontFamily: "Inter", FontSize: 76, FontWeight: 900,
			LineHeight: 1.0, Align: document.AlignCenter, Color: "#000000",
		}))
	b.add(productImage(b.at(3, 8, 4, 3), &document.Shadow{Color: "#000000", Blur: 40, OffsetY: 20, Opacity: 0.25}))
	b.add(document.NewText("urgency", "Urgency", document.RoleUrgency, b.at(2, 10, 7, 1), 3,
		document.TextProps{
			Text: "Only 5 left in stock!", FontFamily: "Inter", FontSize: 32, FontWeight: 700,
			LineHeight: 1.2, Align: document.AlignCenter, Color: "#B91C1C",
		}))

	cta := b.at(3, 8, 8, 1)
	cta.Height = grid.RowHeight
	b.add(document.NewCTA("cta", "CTA", cta, 4,
		document.CTAProps{
			Text: "CLAIM NOW →", FontFamily: "Inter", FontSize: 32, FontWeight: 800,
			Color: "#FFFFFF", Background: "#B91C1C", Radius: 12,
			Shadow: &document.Shadow{Color: "#B91C1C", Blur: 30, OffsetY: 12, Opacity: 0.5},
		}))
	return b.done()
}
