package compose

import (
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/templates"
	"github.com/matzehuels/adlayout/pkg/typography"
)

// DefaultTargetBalance is the balance score below which an issue is raised.
const DefaultTargetBalance = 70

// Colors are the brand colors. Every field is optional.
type Colors struct {
	Primary    string `json:"primary,omitempty" toml:"primary"`
	Secondary  string `json:"secondary,omitempty" toml:"secondary"`
	Accent     string `json:"accent,omitempty" toml:"accent"`
	Text       string `json:"text,omitempty" toml:"text"`
	Background string `json:"background,omitempty" toml:"background"`
}

// Input is the content and context of one ad.
type Input struct {
	// Content
	Headline        string   `json:"headline"`
	Subheadline     string   `json:"subheadline,omitempty"`
	Description     string   `json:"description,omitempty"`
	CTAText         string   `json:"cta_text"`
	ProductImage    string   `json:"product_image,omitempty"`
	BackgroundImage string   `json:"background_image,omitempty"`
	Benefits        []string `json:"benefits,omitempty"`
	SocialProof     string   `json:"social_proof,omitempty"`
	UrgencyText     string   `json:"urgency_text,omitempty"`
	BadgeText       string   `json:"badge_text,omitempty"`

	// Context
	ProductName string         `json:"product_name"`
	BrandName   string         `json:"brand_name,omitempty"`
	Tone        string         `json:"tone,omitempty"`
	ProductType string         `json:"product_type,omitempty"`
	Goal        templates.Goal `json:"goal,omitempty"`
	HasOffer    bool           `json:"has_offer,omitempty"`

	// Design
	Colors Colors `json:"colors"`

	// Options
	Format               grid.Format       `json:"format,omitempty"`
	Pattern              templates.Pattern `json:"pattern,omitempty"`
	EnforceAccessibility *bool             `json:"enforce_accessibility,omitempty"`
	TargetBalance        float64           `json:"target_balance,omitempty"`
}

// ValidateAndSetDefaults checks required fields and fills defaults.
func (in *Input) ValidateAndSetDefaults() error {
	if err := errors.ValidateText("headline", in.Headline); err != nil {
		return err
	}
	if err := errors.ValidateText("cta_text", in.CTAText); err != nil {
		return err
	}
	if err := errors.ValidateText("product_name", in.ProductName); err != nil {
		return err
	}
	optional := []struct{ field, value string }{
		{"subheadline", in.Subheadline},
		{"description", in.Description},
		{"brand_name", in.BrandName},
		{"social_proof", in.SocialProof},
		{"urgency_text", in.UrgencyText},
		{"badge_text", in.BadgeText},
	}
	for _, o := range optional {
		if err := errors.ValidateOptionalText(o.field, o.value); err != nil {
			return err
		}
	}

	f, err := grid.ParseFormat(string(in.Format))
	if err != nil {
		return err
	}
	in.Format = f

	p, err := templates.ParsePattern(string(in.Pattern))
	if err != nil {
		return err
	}
	in.Pattern = p

	if in.EnforceAccessibility == nil {
		enforce := true
		in.EnforceAccessibility = &enforce
	}
	if in.TargetBalance <= 0 {
		in.TargetBalance = DefaultTargetBalance
	}
	return nil
}

// Enforce reports whether accessibility enforcement is on. Nil means on.
func (in Input) Enforce() bool {
	return in.EnforceAccessibility == nil || *in.EnforceAccessibility
}

// TemplateContext is the selection context derived from the input.
func (in Input) TemplateContext() templates.Context {
	return templates.Context{
		HasOffer:    in.HasOffer,
		Goal:        in.Goal,
		Tone:        in.Tone,
		ProductType: in.ProductType,
	}
}

// Mood maps the tone to a font pairing mood.
func (in Input) Mood() typography.Mood {
	switch in.Tone {
	case "luxury", "elegant":
		return typography.MoodElegant
	case "bold":
		return typography.MoodBold
	case "playful":
		return typography.MoodPlayful
	case "professional":
		return typography.MoodProfessional
	}
	return typography.MoodModern
}
