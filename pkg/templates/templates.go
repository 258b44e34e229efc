package templates

import (
	"slices"
	"strings"

	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
)

// Pattern is an archetype family.
type Pattern string

// Archetype patterns.
const (
	PatternMinimal   Pattern = "minimal"
	PatternBold      Pattern = "bold"
	PatternEcommerce Pattern = "ecommerce"
	PatternLuxury    Pattern = "luxury"
	PatternUrgency   Pattern = "urgency"
)

// Patterns lists the archetypes in catalog order.
var Patterns = []Pattern{PatternMinimal, PatternBold, PatternEcommerce, PatternLuxury, PatternUrgency}

// ParsePattern validates a pattern name. An empty name is allowed and
// means "select automatically".
func ParsePattern(s string) (Pattern, error) {
	p := Pattern(strings.ToLower(strings.TrimSpace(s)))
	if p == "" || slices.Contains(Patterns, p) {
		return p, nil
	}
	return "", errors.New(errors.ErrCodeInvalidPattern, "unknown pattern %q", s)
}

// Look is the signature treatment of an archetype. Variations mutate from
// it, so two archetypes never yield the same variation set.
type Look struct {
	// Accent is blended into the brand accent. Empty keeps the brand accent.
	Accent       string `json:"accent,omitempty"`
	HeadlineFont string `json:"headline_font"`
	BodyFont     string `json:"body_font"`
	// Shape is the ornament style: sharp, rounded, circle or organic.
	Shape string `json:"shape"`
}

// Definition is one archetype.
type Definition struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Pattern     Pattern         `json:"pattern"`
	Description string          `json:"description"`
	BestFor     []string        `json:"best_for"`
	Roles       []document.Role `json:"roles"`
	Look        Look            `json:"look"`

	// Build returns the placeholder layers for cfg in paint order.
	Build func(cfg grid.Config) ([]document.Layer, error) `json:"-"`
}

var registry = map[Pattern]Definition{
	PatternMinimal: {
		ID:          "minimal-v1",
		Name:        "Minimal Focus",
		Pattern:     PatternMinimal,
		Description: "Clean layout with maximum breathing room. Product takes center stage.",
		BestFor:     []string{"Premium products", "Tech", "Fashion"},
		Roles:       []document.Role{document.RoleHeadline, document.RoleProduct, document.RoleCTA},
		Look:        Look{HeadlineFont: "Inter", BodyFont: "Inter", Shape: "circle"},
		Build:       buildMinimal,
	},
	PatternBold: {
		ID:          "bold-v1",
		Name:        "Bold Impact",
		Pattern:     PatternBold,
		Description: "High-contrast design with diagonal energy and heavy typography.",
		BestFor:     []string{"Sales", "Promotions", "Events"},
		Roles:       []document.Role{document.RoleHeadline, document.RoleProduct, document.RoleDescription, document.RoleCTA},
		Look:        Look{Accent: "#FACC15", HeadlineFont: "Montserrat", BodyFont: "Open Sans", Shape: "sharp"},
		Build:       buildBold,
	},
	PatternEcommerce: {
		ID:          "ecommerce-v1",
		Name:        "E-commerce Grid",
		Pattern:     PatternEcommerce,
		Description: "Product showcase with feature bullets and social proof.",
		BestFor:     []string{"E-commerce", "Product launches", "Multi-feature products"},
		Roles: []document.Role{document.RoleHeadline, document.RoleProduct, document.RoleBenefits,
			document.RoleSocialProof, document.RoleCTA},
		Look:  Look{Accent: "#16A34A", HeadlineFont: "Poppins", BodyFont: "Roboto", Shape: "rounded"},
		Build: buildEcommerce,
	},
	PatternLuxury: {
		ID:          "luxury-v1",
		Name:        "Luxury Minimal",
		Pattern:     PatternLuxury,
		Description: "Serif typography, dark palette and generous whitespace.",
		BestFor:     []string{"Luxury goods", "Jewelry", "Premium services"},
		Roles:       []document.Role{document.RoleHeadline, document.RoleProduct, document.RoleDescription, document.RoleCTA},
		Look:        Look{Accent: "#C9A96E", HeadlineFont: "Playfair Display", BodyFont: "Lato", Shape: "organic"},
		Build:       buildLuxury,
	},
	PatternUrgency: {
		ID:          "urgency-v1",
		Name:        "Urgency Driver",
		Pattern:     PatternUrgency,
		Description: "Scarcity badge, countdown copy and an oversized CTA.",
		BestFor:     []string{"Flash sales", "Limited offers", "Conversion campaigns"},
		Roles: []document.Role{document.RoleBadge, document.RoleHeadline, document.RoleProduct,
			document.RoleUrgency, document.RoleCTA},
		Look:  Look{Accent: "#B91C1C", HeadlineFont: "Bebas Neue", BodyFont: "Arial", Shape: "rounded"},
		Build: buildUrgency,
	},
}

// All returns every definition in catalog order.
func All() []Definition {
	out := make([]Definition, len(Patterns))
	for i, p := range Patterns {
		out[i] = registry[p]
	}
	return out
}

// Get returns the definition with the given id.
func Get(id string) (Definition, error) {
	for _, p := range Patterns {
		if registry[p].ID == id {
			return registry[p], nil
		}
	}
	return Definition{}, errors.New(errors.ErrCodeNotFound, "template %q not found", id)
}

// ByPattern returns the definition for pattern.
func ByPattern(p Pattern) (Definition, error) {
	d, ok := registry[p]
	if !ok {
		return Definition{}, errors.New(errors.ErrCodeInvalidPattern, "unknown pattern %q", p)
	}
	return d, nil
}

// Goal is the campaign objective.
type Goal string

// Campaign goals.
const (
	GoalAwareness     Goal = "awareness"
	GoalConsideration Goal = "consideration"
	GoalConversion    Goal = "conversion"
)

// Context is the campaign information used to pick an archetype.
type Context struct {
	HasOffer    bool   `json:"has_offer"`
	Goal        Goal   `json:"goal,omitempty"`
	Tone        string `json:"tone,omitempty"`
	ProductType string `json:"product_type,omitempty"`
}

func (c Context) tone() string { return strings.ToLower(c.Tone) }

func (c Context) productIs(kind string) bool {
	return strings.Contains(strings.ToLower(c.ProductType), kind)
}

// cues returns, per pattern, the context signals that favor it. The order
// of Patterns in Select's table is the priority order.
func (c Context) cues(p Pattern) []bool {
	switch p {
	case PatternUrgency:
		return []bool{c.HasOffer, c.Goal == GoalConversion}
	case PatternLuxury:
		return []bool{c.tone() == "luxury", c.productIs("luxury")}
	case PatternBold:
		return []bool{c.tone() == "bold", c.Goal == GoalAwareness}
	case PatternEcommerce:
		return []bool{c.productIs("ecommerce"), c.Goal == GoalConsideration}
	}
	return nil
}

// selectionOrder is the decision table priority.
var selectionOrder = []Pattern{PatternUrgency, PatternLuxury, PatternBold, PatternEcommerce}

// Select picks an archetype. Rules apply in this order, first match wins:
// an offer or conversion goal selects urgency; a luxury tone or product
// selects luxury; a bold tone or awareness goal selects bold; an ecommerce
// product or consideration goal selects ecommerce; otherwise minimal.
func Select(c Context) Definition {
	for _, p := range selectionOrder {
		if slices.Contains(c.cues(p), true) {
			return registry[p]
		}
	}
	return registry[PatternMinimal]
}

// Candidate is a definition with its suitability for a context.
type Candidate struct {
	Definition  Definition `json:"definition"`
	Suitability float64    `json:"suitability"`
}

// Suitability scores.
const (
	suitabilitySelected = 100.0
	suitabilityBase     = 50.0
	suitabilityPerCue   = 20.0
)

// Rank orders every archetype by suitability. The archetype Select would
// choose always ranks first; the others score by how many of their cues
// match, with ties kept in catalog order.
func Rank(c Context) []Candidate {
	selected := Select(c).Pattern
	out := make([]Candidate, 0, len(Patterns))
	for _, p := range Patterns {
		score := suitabilityBase
		if p == selected {
			score = suitabilitySelected
		} else {
			for _, ok := range c.cues(p) {
				if ok {
					score += suitabilityPerCue
				}
			}
		}
		out = append(out, Candidate{Definition: registry[p], Suitability: score})
	}
	slices.SortStableFunc(out, func(a, b Candidate) int {
		switch {
		case a.Suitability > b.Suitability:
			return -1
		case a.Suitability < b.Suitability:
			return 1
		}
		return 0
	})
	return out
}
