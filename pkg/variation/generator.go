package variation

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/observability"
	"github.com/matzehuels/adlayout/pkg/templates"
	"github.com/matzehuels/adlayout/pkg/vision"
)

// MaxCount bounds the variations requested in one call.
const MaxCount = 500

// Variation is one scored mutation of a template. Variations are values
// and never change after they are scored.
type Variation struct {
	ID         string             `json:"id"`
	TemplateID string             `json:"template_id"`
	Index      int                `json:"index"`
	Level      int                `json:"level"`
	Colors     ColorMutation      `json:"colors"`
	Layout     LayoutMutation     `json:"layout"`
	Typography TypographyMutation `json:"typography"`
	Elements   ElementMutation    `json:"elements"`
	Scores     Scores             `json:"scores"`
}

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/matzehuels/adlayout/variation"))

// variationID is deterministic over template, level and index.
func variationID(templateID string, level, index int) string {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("%s/%d/%d", templateID, level, index))).String()
}

// New builds variation index at level from the base template and style.
func New(base templates.Definition, s Style, index, level int, w Weights) Variation {
	v := Variation{
		ID:         variationID(base.ID, level, index),
		TemplateID: base.ID,
		Index:      index,
		Level:      level,
		Colors:     MutateColors(s, base.Look, level),
		Layout:     MutateLayout(s, level),
		Typography: MutateTypography(base.Look, level),
		Elements:   MutateElements(base.Look, level),
	}
	v.Scores = Score(v.Colors, v.Layout, v.Typography, w)
	return v
}

// Generator produces filtered, deduplicated variations. It is safe for
// concurrent use.
type Generator struct {
	Config Config
	Logger *log.Logger
}

// NewGenerator validates cfg. A nil logger discards output.
func NewGenerator(cfg Config, logger *log.Logger) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Generator{Config: cfg, Logger: logger}, nil
}

// Generate builds count variations of base in parallel, drops those below
// the quality floor and collapses near-duplicates to the lowest index.
// Results are in index order. Style colors left empty are taken from the
// analysis, when given.
func (g *Generator) Generate(ctx context.Context, base templates.Definition, s Style, analysis *vision.Analysis, count int) ([]Variation, error) {
	if base.ID == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "base template has no id")
	}
	if count <= 0 || count > MaxCount {
		return nil, errors.New(errors.ErrCodeInvalidInput, "count must be 1-%d, got %d", MaxCount, count)
	}
	s = s.fill(analysis)

	all := make([]Variation, count)
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.Config.workers())
	for i := range count {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			all[i] = New(base, s, i, Level(i, count), g.Config.Weights)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	kept := g.Filter(all)
	g.Logger.Debug("variations generated", "template", base.ID, "generated", count, "kept", len(kept))
	observability.Pipeline().OnVariations(ctx, base.ID, count, len(kept))
	return kept, nil
}

// Filter keeps variations at or above the quality floor, then drops every
// variation more similar than the threshold to an earlier kept one.
func (g *Generator) Filter(vs []Variation) []Variation {
	out := make([]Variation, 0, len(vs))
	for _, v := range vs {
		if v.Scores.Overall < g.Config.QualityFloor {
			continue
		}
		duplicate := false
		for _, k := range out {
			if Similarity(v, k, g.Config.Similarity) > g.Config.SimilarityThreshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			out = append(out, v)
		}
	}
	return out
}

// fill completes missing style colors from the analysis and defaults.
func (s Style) fill(a *vision.Analysis) Style {
	var c vision.Colors
	if a != nil {
		c = a.Colors
	}
	s.Dominant = pick(s.Dominant, c.Dominant, DefaultDominant)
	s.Accent = pick(s.Accent, c.Accent, DefaultAccent)
	s.Background = pick(s.Background, c.Background, DefaultBackground)
	return s
}
