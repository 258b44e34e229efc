package document

import (
	"slices"

	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
)

// Kind discriminates the layer payload.
type Kind string

// Layer kinds.
const (
	KindBackground Kind = "background"
	KindImage      Kind = "image"
	KindText       Kind = "text"
	KindShape      Kind = "shape"
	KindCTA        Kind = "cta"
)

// Kinds lists every layer kind.
var Kinds = []Kind{KindBackground, KindImage, KindText, KindShape, KindCTA}

// Role is the purpose of a layer within an ad.
type Role string

// Layer roles.
const (
	RoleNone        Role = ""
	RoleHeadline    Role = "headline"
	RoleDescription Role = "description"
	RoleProduct     Role = "product"
	RoleCTA         Role = "cta"
	RoleBadge       Role = "badge"
	RoleSocialProof Role = "socialProof"
	RoleBackground  Role = "background"
	RoleAccent      Role = "accent"
	RoleBenefits    Role = "benefits"
	RoleUrgency     Role = "urgency"
)

// Geometry is a layer's box in canvas pixels. Rotation is in degrees
// around the box center.
type Geometry struct {
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Width    float64 `json:"width" bson:"width"`
	Height   float64 `json:"height" bson:"height"`
	Rotation float64 `json:"rotation" bson:"rotation"`
}

// FromRect returns an unrotated geometry covering r.
func FromRect(r grid.Rect) Geometry {
	return Geometry{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height}
}

// Rect returns the unrotated bounding rectangle.
func (g Geometry) Rect() grid.Rect {
	return grid.Rect{X: g.X, Y: g.Y, Width: g.Width, Height: g.Height}
}

// Shadow is a drop shadow.
type Shadow struct {
	Color   string  `json:"color" bson:"color"`
	Blur    float64 `json:"blur" bson:"blur"`
	OffsetX float64 `json:"offset_x,omitempty" bson:"offset_x,omitempty"`
	OffsetY float64 `json:"offset_y,omitempty" bson:"offset_y,omitempty"`
	Opacity float64 `json:"opacity" bson:"opacity"`
}

// Gradient is a linear gradient through Stops at Angle degrees.
type Gradient struct {
	Angle float64  `json:"angle" bson:"angle"`
	Stops []string `json:"stops" bson:"stops"`
}

// BackgroundProps is the payload of a background layer.
type BackgroundProps struct {
	Color    string    `json:"color" bson:"color"`
	Gradient *Gradient `json:"gradient,omitempty" bson:"gradient,omitempty"`
	Src      string    `json:"src,omitempty" bson:"src,omitempty"`
}

// ImageProps is the payload of an image layer. Src is a reference
// (URL or asset id); pixels are never embedded.
type ImageProps struct {
	Src    string  `json:"src" bson:"src"`
	Alt    string  `json:"alt,omitempty" bson:"alt,omitempty"`
	Fit    string  `json:"fit" bson:"fit"`
	Shadow *Shadow `json:"shadow,omitempty" bson:"shadow,omitempty"`
}

// Text alignment values.
const (
	AlignLeft   = "left"
	AlignCenter = "center"
	AlignRight  = "right"
)

// TextProps is the payload of a text layer.
type TextProps struct {
	Text          string   `json:"text" bson:"text"`
	FontFamily    string   `json:"font_family" bson:"font_family"`
	FontSize      float64  `json:"font_size" bson:"font_size"`
	FontWeight    int      `json:"font_weight" bson:"font_weight"`
	LineHeight    float64  `json:"line_height" bson:"line_height"`
	LetterSpacing float64  `json:"letter_spacing" bson:"letter_spacing"`
	Align         string   `json:"align" bson:"align"`
	Color         string   `json:"color" bson:"color"`
	Overflow      bool     `json:"overflow,omitempty" bson:"overflow,omitempty"`
	Shadow        *Shadow  `json:"shadow,omitempty" bson:"shadow,omitempty"`
	Effects       []string `json:"effects,omitempty" bson:"effects,omitempty"`
}

// Shape types.
const (
	ShapeRect    = "rect"
	ShapeCircle  = "circle"
	ShapeEllipse = "ellipse"
	ShapeLine    = "line"
)

// ShapeProps is the payload of a shape layer.
type ShapeProps struct {
	Shape        string    `json:"shape" bson:"shape"`
	Fill         string    `json:"fill" bson:"fill"`
	Stroke       string    `json:"stroke,omitempty" bson:"stroke,omitempty"`
	StrokeWidth  float64   `json:"stroke_width,omitempty" bson:"stroke_width,omitempty"`
	CornerRadius float64   `json:"corner_radius,omitempty" bson:"corner_radius,omitempty"`
	Gradient     *Gradient `json:"gradient,omitempty" bson:"gradient,omitempty"`
}

// CTAProps is the payload of a call-to-action button.
type CTAProps struct {
	Text       string  `json:"text" bson:"text"`
	FontFamily string  `json:"font_family" bson:"font_family"`
	FontSize   float64 `json:"font_size" bson:"font_size"`
	FontWeight int     `json:"font_weight" bson:"font_weight"`
	Color      string  `json:"color" bson:"color"`
	Background string  `json:"background" bson:"background"`
	Radius     float64 `json:"radius" bson:"radius"`
	Border     string  `json:"border,omitempty" bson:"border,omitempty"`
	Shadow     *Shadow `json:"shadow,omitempty" bson:"shadow,omitempty"`
}

// Layer is one element of a document. Exactly one payload is set and it
// matches Kind.
type Layer struct {
	ID       string   `json:"id" bson:"id"`
	Name     string   `json:"name" bson:"name"`
	Kind     Kind     `json:"kind" bson:"kind"`
	Role     Role     `json:"role,omitempty" bson:"role,omitempty"`
	Geometry Geometry `json:"geometry" bson:"geometry"`
	Opacity  float64  `json:"opacity" bson:"opacity"`
	Visible  bool     `json:"visible" bson:"visible"`
	Locked   bool     `json:"locked,omitempty" bson:"locked,omitempty"`
	Z        int      `json:"z" bson:"z"`

	Background *BackgroundProps `json:"background,omitempty" bson:"background,omitempty"`
	Image      *ImageProps      `json:"image,omitempty" bson:"image,omitempty"`
	Text       *TextProps       `json:"text,omitempty" bson:"text,omitempty"`
	Shape      *ShapeProps      `json:"shape,omitempty" bson:"shape,omitempty"`
	CTA        *CTAProps        `json:"cta,omitempty" bson:"cta,omitempty"`
}

func base(id, name string, kind Kind, role Role, g Geometry, z int) Layer {
	return Layer{ID: id, Name: name, Kind: kind, Role: role, Geometry: g, Opacity: 1, Visible: true, Z: z}
}

// NewBackground returns a locked full-canvas background layer.
func NewBackground(id string, width, height float64, p BackgroundProps) Layer {
	l := base(id, "Background", KindBackground, RoleBackground, Geometry{Width: width, Height: height}, 0)
	l.Locked = true
	l.Background = &p
	return l
}

// NewImage returns an image layer.
func NewImage(id, name string, role Role, g Geometry, z int, p ImageProps) Layer {
	l := base(id, name, KindImage, role, g, z)
	l.Image = &p
	return l
}

// NewText returns a text layer.
func NewText(id, name string, role Role, g Geometry, z int, p TextProps) Layer {
	l := base(id, name, KindText, role, g, z)
	l.Text = &p
	return l
}

// NewShape returns a shape layer.
func NewShape(id, name string, role Role, g Geometry, z int, p ShapeProps) Layer {
	l := base(id, name, KindShape, role, g, z)
	l.Shape = &p
	return l
}

// NewCTA returns a call-to-action layer.
func NewCTA(id, name string, g Geometry, z int, p CTAProps) Layer {
	l := base(id, name, KindCTA, RoleCTA, g, z)
	l.CTA = &p
	return l
}

// Validate checks that the layer is well formed: a known kind, exactly one
// payload matching it, non-negative size and opacity in [0, 1].
func (l Layer) Validate() error {
	if l.ID == "" {
		return errors.New(errors.ErrCodeInvalidDocument, "layer has no id")
	}
	if !slices.Contains(Kinds, l.Kind) {
		return errors.New(errors.ErrCodeInvalidDocument, "layer %s: unknown kind %q", l.ID, l.Kind)
	}

	set := map[Kind]bool{
		KindBackground: l.Background != nil,
		KindImage:      l.Image != nil,
		KindText:       l.Text != nil,
		KindShape:      l.Shape != nil,
		KindCTA:        l.CTA != nil,
	}
	for _, k := range Kinds {
		ok := set[k]
		if k == l.Kind && !ok {
			return errors.New(errors.ErrCodeInvalidDocument, "layer %s: %s payload missing", l.ID, k)
		}
		if k != l.Kind && ok {
			return errors.New(errors.ErrCodeInvalidDocument, "layer %s: unexpected %s payload on %s layer", l.ID, k, l.Kind)
		}
	}

	if l.Geometry.Width < 0 || l.Geometry.Height < 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "layer %s: negative size", l.ID)
	}
	if l.Opacity < 0 || l.Opacity > 1 {
		return errors.New(errors.ErrCodeInvalidDocument, "layer %s: opacity %.2f out of range", l.ID, l.Opacity)
	}
	return nil
}

// Clone returns a deep copy of l.
func (l Layer) Clone() Layer {
	out := l
	if l.Background != nil {
		p := *l.Background
		p.Gradient = cloneGradient(p.Gradient)
		out.Background = &p
	}
	if l.Image != nil {
		p := *l.Image
		p.Shadow = cloneShadow(p.Shadow)
		out.Image = &p
	}
	if l.Text != nil {
		p := *l.Text
		p.Shadow = cloneShadow(p.Shadow)
		p.Effects = slices.Clone(p.Effects)
		out.Text = &p
	}
	if l.Shape != nil {
		p := *l.Shape
		p.Gradient = cloneGradient(p.Gradient)
		out.Shape = &p
	}
	if l.CTA != nil {
		p := *l.CTA
		p.Shadow = cloneShadow(p.Shadow)
		out.CTA = &p
	}
	return out
}

func cloneShadow(s *Shadow) *Shadow {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func cloneGradient(g *Gradient) *Gradient {
	if g == nil {
		return nil
	}
	c := *g
	c.Stops = slices.Clone(g.Stops)
	return &c
}

// IsForeground reports whether the layer is visible content rather than
// the background.
func (l Layer) IsForeground() bool {
	return l.Kind != KindBackground && l.Role != RoleBackground && l.Visible
}
