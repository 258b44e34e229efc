// Package pipeline orchestrates the full ad generation flow for adlayout.
//
// This package sequences every engine into one request that can be used by
// the CLI and the HTTP API. By centralizing this logic, both entry points
// produce the same ranking for the same input.
//
// # Architecture
//
// An orchestration runs five stages:
//
//  1. Analysis: analyze the product image (cached, with heuristic fallback)
//     and derive the style context
//  2. Adaptive: place text around the product, only when an image is given
//  3. Template search: rank the archetypes for the campaign context
//  4. Variation: generate variations per candidate template
//  5. Rank: apply the global quality floor, sort and truncate
//
// Stage timings go to [Telemetry], to the logger and to the observability
// hooks.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Orchestrate(ctx, pipeline.Options{
//	    ProductName: "Trail Runner",
//	    Tone:        "bold",
//	    Count:       20,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc, violations, err := pipeline.Export(result.Variations[0], result.Adaptive, result.Options)
package pipeline

import (
	"github.com/matzehuels/adlayout/pkg/adaptive"
	"github.com/matzehuels/adlayout/pkg/compose"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/templates"
	"github.com/matzehuels/adlayout/pkg/variation"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultCount is the number of variations requested.
	DefaultCount = 50

	// MaxResults caps the ranked output regardless of Count.
	MaxResults = 50

	// DefaultMinQuality is the global quality floor.
	DefaultMinQuality = variation.DefaultQualityFloor

	// DefaultMaxTemplates is the number of candidate templates searched.
	DefaultMaxTemplates = 5

	// DefaultCTAText labels the exported call-to-action.
	DefaultCTAText = "Shop Now"
)

// =============================================================================
// Options - Orchestration Configuration
// =============================================================================

// Options contains the configuration of one orchestration. It supports JSON
// for API requests; ProductImage travels as base64.
type Options struct {
	// Content
	ProductName string `json:"product_name"`
	Description string `json:"description,omitempty"`
	BrandName   string `json:"brand_name,omitempty"`
	CTAText     string `json:"cta_text,omitempty"`

	// Context
	Category string         `json:"category,omitempty"`
	Tone     string         `json:"tone,omitempty"`
	Goal     templates.Goal `json:"goal,omitempty"`
	HasOffer bool           `json:"has_offer,omitempty"`

	// Design
	Colors       compose.Colors `json:"colors"`
	Format       grid.Format    `json:"format,omitempty"`
	ProductImage []byte         `json:"product_image,omitempty"`

	// Generation
	Count        int     `json:"count,omitempty"`
	MinQuality   float64 `json:"min_quality,omitempty"`
	MaxTemplates int     `json:"max_templates,omitempty"`
	Refresh      bool    `json:"refresh,omitempty"` // bypass the variation cache

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of an orchestration.
type Result struct {
	// Variations are the ranked survivors, best first.
	Variations []variation.Variation `json:"variations"`

	// Templates are the candidates searched, in rank order.
	Templates []templates.Candidate `json:"templates"`

	// Adaptive is the image-driven layout, nil without a product image.
	Adaptive *adaptive.Template `json:"adaptive,omitempty"`

	// Style is the style context variations were mutated from.
	Style variation.Style `json:"style"`

	// Options are the validated options the run used.
	Options Options `json:"-"`

	Telemetry Telemetry `json:"telemetry"`
	CacheInfo CacheInfo `json:"cache_info"`
}

// Best returns the top-ranked variation.
func (r *Result) Best() (variation.Variation, bool) {
	if r == nil || len(r.Variations) == 0 {
		return variation.Variation{}, false
	}
	return r.Variations[0], true
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateText("product_name", o.ProductName); err != nil {
		return err
	}
	for _, f := range []struct{ field, value string }{
		{"description", o.Description},
		{"brand_name", o.BrandName},
		{"cta_text", o.CTAText},
	} {
		if err := errors.ValidateOptionalText(f.field, f.value); err != nil {
			return err
		}
	}
	for _, c := range []struct{ field, value string }{
		{"primary color", o.Colors.Primary},
		{"secondary color", o.Colors.Secondary},
		{"accent color", o.Colors.Accent},
		{"text color", o.Colors.Text},
		{"background color", o.Colors.Background},
	} {
		if err := errors.ValidateOptionalHexColor(c.field, c.value); err != nil {
			return err
		}
	}

	f, err := grid.ParseFormat(string(o.Format))
	if err != nil {
		return err
	}
	o.Format = f

	switch {
	case o.Count < 0 || o.Count > variation.MaxCount:
		return errors.New(errors.ErrCodeInvalidInput, "count must be 0-%d, got %d", variation.MaxCount, o.Count)
	case o.Count == 0:
		o.Count = DefaultCount
	}
	switch {
	case o.MinQuality < 0 || o.MinQuality > 100:
		return errors.New(errors.ErrCodeInvalidInput, "min_quality must be 0-100, got %v", o.MinQuality)
	case o.MinQuality == 0:
		o.MinQuality = DefaultMinQuality
	}
	switch {
	case o.MaxTemplates < 0:
		return errors.New(errors.ErrCodeInvalidInput, "max_templates must be >= 0, got %d", o.MaxTemplates)
	case o.MaxTemplates == 0 || o.MaxTemplates > len(templates.Patterns):
		o.MaxTemplates = min(DefaultMaxTemplates, len(templates.Patterns))
	}
	if o.CTAText == "" {
		o.CTAText = DefaultCTAText
	}
	o.validated = true
	return nil
}

// TemplateContext is the template search context.
func (o *Options) TemplateContext() templates.Context {
	return templates.Context{
		HasOffer:    o.HasOffer,
		Goal:        o.Goal,
		Tone:        o.Tone,
		ProductType: o.Category,
	}
}

// Limit is the number of ranked variations returned: min(Count, MaxResults).
func (o *Options) Limit() int {
	return min(o.Count, MaxResults)
}

// ComposeInput maps the options onto a base composition input.
func (o *Options) ComposeInput(headline string) compose.Input {
	if headline == "" {
		headline = o.ProductName
	}
	return compose.Input{
		Headline:    headline,
		Description: o.Description,
		CTAText:     o.CTAText,
		ProductName: o.ProductName,
		BrandName:   o.BrandName,
		Tone:        o.Tone,
		ProductType: o.Category,
		Goal:        o.Goal,
		HasOffer:    o.HasOffer,
		Colors:      o.Colors,
		Format:      o.Format,
	}
}
