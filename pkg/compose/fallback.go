package compose

import (
	"fmt"
	"strings"
	"time"

	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/palette"
	"github.com/matzehuels/adlayout/pkg/templates"
)

// Fallback returns the last-resort layout: the minimal template with black
// on white, content bound without fitting, and no scoring. The output is
// flagged Degraded and cause is recorded as an issue.
func Fallback(in Input, cause error) *Output {
	cfg, err := grid.ConfigFor(in.Format)
	if err != nil {
		cfg = grid.MustConfig(grid.FormatSquare)
	}
	def, _ := templates.ByPattern(templates.PatternMinimal)

	layers, err := def.Build(cfg)
	if err != nil {
		layers = []document.Layer{
			document.NewBackground("background", cfg.Width, cfg.Height, document.BackgroundProps{Color: palette.White}),
		}
	}
	for i := range layers {
		l := &layers[i]
		switch {
		case l.Kind == document.KindBackground:
			l.Background.Color = palette.White
		case l.Kind == document.KindText && l.Role == document.RoleHeadline:
			l.Text.Text = in.Headline
			l.Text.Color = palette.Black
		case l.Kind == document.KindCTA:
			l.CTA.Text = strings.ToUpper(in.CTAText)
			l.CTA.Background, l.CTA.Color = palette.Black, palette.White
		case l.Kind == document.KindImage && l.Role == document.RoleProduct:
			l.Image.Src = in.ProductImage
			l.Image.Alt = in.ProductName
		}
	}

	doc := document.New(documentName(in, def), cfg)
	doc.TemplateID = def.ID
	doc.Layers = layers

	msg := "composition failed; returned minimal fallback layout"
	if cause != nil {
		msg = fmt.Sprintf("composition failed (%v); returned minimal fallback layout", cause)
	}
	return &Output{
		Document: doc,
		Quality: Quality{
			Issues:      []string{msg},
			Suggestions: []string{"Retry with an explicit pattern"},
			Degraded:    true,
		},
		Metadata: Metadata{
			TemplateID:  def.ID,
			Pattern:     def.Pattern,
			Format:      cfg.Format,
			GeneratedAt: time.Now().UTC(),
		},
	}
}
