package document

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/adlayout/pkg/grid"
)

// Document is a composed ad: canvas, safe area and layers in paint order.
type Document struct {
	ID              string      `json:"id" bson:"_id"`
	Name            string      `json:"name" bson:"name"`
	Format          grid.Format `json:"format,omitempty" bson:"format,omitempty"`
	TemplateID      string      `json:"template_id,omitempty" bson:"template_id,omitempty"`
	Width           float64     `json:"width" bson:"width"`
	Height          float64     `json:"height" bson:"height"`
	BackgroundColor string      `json:"background_color" bson:"background_color"`
	SafeArea        grid.Rect   `json:"safe_area" bson:"safe_area"`
	Layers          []Layer     `json:"layers" bson:"layers"`
	CreatedAt       time.Time   `json:"created_at" bson:"created_at"`
}

// New returns an empty document sized for cfg with a fresh id.
func New(name string, cfg grid.Config) *Document {
	return &Document{
		ID:              uuid.NewString(),
		Name:            name,
		Format:          cfg.Format,
		Width:           cfg.Width,
		Height:          cfg.Height,
		BackgroundColor: "#FFFFFF",
		SafeArea:        cfg.SafeArea(),
		Layers:          []Layer{},
		CreatedAt:       time.Now().UTC(),
	}
}

// Canvas returns the full canvas rectangle.
func (d *Document) Canvas() grid.Rect {
	return grid.Rect{Width: d.Width, Height: d.Height}
}

// ByRole returns the first layer with role, or nil.
func (d *Document) ByRole(role Role) *Layer {
	for i := range d.Layers {
		if d.Layers[i].Role == role {
			return &d.Layers[i]
		}
	}
	return nil
}

// AllByRole returns every layer with role, in paint order.
func (d *Document) AllByRole(role Role) []*Layer {
	var out []*Layer
	for i := range d.Layers {
		if d.Layers[i].Role == role {
			out = append(out, &d.Layers[i])
		}
	}
	return out
}

// Clone returns a deep copy of d.
func (d *Document) Clone() *Document {
	out := *d
	out.Layers = make([]Layer, len(d.Layers))
	for i, l := range d.Layers {
		out.Layers[i] = l.Clone()
	}
	return &out
}

// SortByZ orders layers by ascending z, keeping the existing order for ties.
func (d *Document) SortByZ() {
	slices.SortStableFunc(d.Layers, func(a, b Layer) int { return a.Z - b.Z })
}

// Validate checks every layer and rejects duplicate layer ids.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Layers))
	for _, l := range d.Layers {
		if err := l.Validate(); err != nil {
			return err
		}
		if seen[l.ID] {
			return invalid("duplicate layer id %q", l.ID)
		}
		seen[l.ID] = true
	}
	return nil
}

// singletonRoles may appear at most once per document.
var singletonRoles = []Role{RoleHeadline, RoleProduct, RoleCTA, RoleBackground}

// Violation is a soft problem with a document. Violations are reported,
// never enforced.
type Violation struct {
	LayerID string `json:"layer_id,omitempty"`
	Message string `json:"message"`
}

func (v Violation) String() string {
	if v.LayerID == "" {
		return v.Message
	}
	return fmt.Sprintf("%s: %s", v.LayerID, v.Message)
}

// Check reports visible layers outside the canvas, layers outside the safe
// area, and duplicated headline/product/cta/background roles.
func (d *Document) Check() []Violation {
	var out []Violation
	canvas := d.Canvas()
	counts := make(map[Role]int)
	for _, l := range d.Layers {
		counts[l.Role]++
		if !l.Visible || l.Kind == KindBackground {
			continue
		}
		r := l.Geometry.Rect()
		switch {
		case !canvas.Contains(r):
			out = append(out, Violation{LayerID: l.ID, Message: "extends beyond the canvas"})
		case d.SafeArea.Width > 0 && !d.SafeArea.Contains(r) && l.Role != RoleAccent:
			out = append(out, Violation{LayerID: l.ID, Message: "extends outside the safe area"})
		}
	}
	for _, role := range singletonRoles {
		if counts[role] > 1 {
			out = append(out, Violation{Message: fmt.Sprintf("%d layers with role %s", counts[role], role)})
		}
	}
	return out
}
