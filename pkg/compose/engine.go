package compose

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adlayout/pkg/balance"
	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/observability"
	"github.com/matzehuels/adlayout/pkg/palette"
	"github.com/matzehuels/adlayout/pkg/templates"
	"github.com/matzehuels/adlayout/pkg/typography"
)

// Quality is the quality bundle of a composition. Shortfalls are reported
// here and never returned as errors.
type Quality struct {
	BalanceScore        float64         `json:"balance_score"`
	Balance             *balance.Report `json:"balance,omitempty"`
	AccessibilityPassed bool            `json:"accessibility_passed"`
	Issues              []string        `json:"issues"`
	Suggestions         []string        `json:"suggestions"`
	Degraded            bool            `json:"degraded"`

	// Violations are layers outside the canvas or safe area and duplicated
	// roles. They are reported and do not affect MeetsQualityStandards.
	Violations []document.Violation `json:"violations,omitempty"`
}

// Metadata describes how a composition was produced.
type Metadata struct {
	TemplateID  string            `json:"template_id"`
	Pattern     templates.Pattern `json:"pattern"`
	Format      grid.Format       `json:"format"`
	GeneratedAt time.Time         `json:"generated_at"`
	Duration    time.Duration     `json:"duration"`
}

// Output is a composed ad.
type Output struct {
	Document *document.Document `json:"document"`
	Quality  Quality            `json:"quality"`
	Metadata Metadata           `json:"metadata"`
}

// MeetsQualityStandards reports whether out has a balance score of at least
// 70, passed accessibility and has no outstanding issues.
func MeetsQualityStandards(out *Output) bool {
	return out != nil &&
		out.Quality.BalanceScore >= DefaultTargetBalance &&
		out.Quality.AccessibilityPassed &&
		len(out.Quality.Issues) == 0
}

// Engine composes ads. It holds no per-request state and is safe for
// concurrent use.
type Engine struct {
	Measurer typography.Measurer
	Balance  balance.Config
	Logger   *log.Logger

	// resolve picks the template for an input; tests replace it.
	resolve func(Input) (templates.Definition, error)
}

// NewEngine creates an engine. A nil measurer uses [typography.Default] and
// a nil logger uses log.Default.
func NewEngine(m typography.Measurer, logger *log.Logger) *Engine {
	if m == nil {
		m = typography.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{
		Measurer: m,
		Balance:  balance.DefaultConfig(),
		Logger:   logger,
	}
}

// Template returns the definition used for in: the explicit pattern, or
// the archetype chosen by [templates.Select].
func Template(in Input) (templates.Definition, error) {
	if in.Pattern != "" {
		return templates.ByPattern(in.Pattern)
	}
	return templates.Select(in.TemplateContext()), nil
}

// Compose builds a layout document for in. Only invalid input and context
// cancellation are returned as errors.
func (e *Engine) Compose(ctx context.Context, in Input) (out *Output, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := in.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	cfg, err := grid.ConfigFor(in.Format)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			e.Logger.Error("composition panicked, using fallback", "panic", r)
			out, err = Fallback(in, errors.New(errors.ErrCodeInternal, "composition panicked: %v", r)), nil
		}
	}()

	resolve := e.resolve
	if resolve == nil {
		resolve = Template
	}
	def, err := resolve(in)
	if err != nil {
		if errors.IsConfiguration(err) {
			return nil, err
		}
		e.Logger.Warn("template selection failed, using fallback", "error", err)
		return Fallback(in, err), nil
	}
	layers, err := def.Build(cfg)
	if err != nil {
		e.Logger.Warn("template build failed, using fallback", "template", def.ID, "error", err)
		return Fallback(in, err), nil
	}

	doc := document.New(documentName(in, def), cfg)
	doc.TemplateID = def.ID
	doc.Layers = layers
	doc.SortByZ()

	c := &composition{engine: e, in: in, cfg: cfg, def: def, doc: doc, layers: doc.Layers}
	c.resolveColors()
	c.bind()
	passed := c.enforceAccessibility()
	report := balance.Score(c.layers, cfg.Width, cfg.Height, e.Balance)
	c.issues = append(c.issues, report.Issues...)
	c.suggestions = append(c.suggestions, report.Suggestions...)
	if report.Overall < in.TargetBalance {
		c.issue(fmt.Sprintf("Visual balance score (%.0f) below target (%.0f)", report.Overall, in.TargetBalance),
			"Try another pattern or reduce the amount of copy")
	}

	doc.BackgroundColor = c.bg

	out = &Output{
		Document: doc,
		Quality: Quality{
			BalanceScore:        report.Overall,
			Balance:             &report,
			AccessibilityPassed: passed,
			Issues:              c.issues,
			Suggestions:         c.suggestions,
			Violations:          doc.Check(),
		},
		Metadata: Metadata{
			TemplateID:  def.ID,
			Pattern:     def.Pattern,
			Format:      cfg.Format,
			GeneratedAt: time.Now().UTC(),
			Duration:    time.Since(start),
		},
	}
	e.Logger.Debug("composed ad",
		"template", def.ID,
		"format", cfg.Format,
		"balance", report.Overall,
		"issues", len(c.issues),
		"violations", len(out.Quality.Violations),
		"duration", out.Metadata.Duration)
	observability.Pipeline().OnCompose(ctx, def.ID, string(cfg.Format), report.Overall, false, out.Metadata.Duration)
	return out, nil
}

func documentName(in Input, def templates.Definition) string {
	name := in.BrandName
	if name == "" {
		name = in.ProductName
	}
	return fmt.Sprintf("%s - %s", name, def.Name)
}

// =============================================================================
// Composition state
// =============================================================================

type composition struct {
	engine *Engine
	in     Input
	cfg    grid.Config
	def    templates.Definition
	doc    *document.Document
	layers []document.Layer // doc.Layers

	bg     string
	text   string
	accent string
	cta    palette.CTAColors

	issues      []string
	suggestions []string
}

func (c *composition) issue(msg, suggestion string) {
	c.issues = append(c.issues, msg)
	if suggestion != "" {
		c.suggestions = append(c.suggestions, suggestion)
	}
}

// color returns the normalized brand color, or "" with an issue recorded
// when it is set but invalid.
func (c *composition) color(name, value string) string {
	if value == "" {
		return ""
	}
	n, err := palette.Normalize(value)
	if err != nil {
		c.issue(fmt.Sprintf("%s color %q is invalid and was ignored", name, value),
			fmt.Sprintf("Use a hex color such as #1A73E8 for the %s color", name))
		return ""
	}
	return n
}

func (c *composition) templateColor(role document.Role) string {
	for _, l := range c.layers {
		switch {
		case l.Kind == document.KindBackground && role == document.RoleBackground:
			return l.Background.Color
		case l.Kind == document.KindCTA && l.Role == role:
			return l.CTA.Background
		}
	}
	return ""
}

func (c *composition) resolveColors() {
	colors := c.in.Colors
	c.bg = c.color("background", colors.Background)
	if c.bg == "" {
		c.bg = c.templateColor(document.RoleBackground)
	}
	if c.bg == "" {
		c.bg = palette.White
	}

	c.text = c.color("text", colors.Text)
	if c.text == "" {
		c.text, _ = palette.AccessibleTextColor(c.bg)
	}

	primary := c.color("primary", colors.Primary)
	c.accent = c.color("accent", colors.Accent)
	if c.accent == "" {
		c.accent = primary
	}

	brand := primary
	if brand == "" {
		brand = c.templateColor(document.RoleCTA)
	}
	if brand == "" {
		brand = palette.Black
	}
	cta, err := palette.SafeCTAColor(c.bg, brand)
	if err != nil {
		c.issue(fmt.Sprintf("could not derive CTA colors: %v", err), "")
		cta = palette.CTAColors{Background: palette.Black, Text: palette.White}
	}
	c.cta = cta
	if cta.Adjusted {
		c.issue(fmt.Sprintf("Brand color %s lacks contrast with the background; CTA uses %s", brand, cta.Background),
			"Pick a brand color that stands out from the background")
	}
}

// =============================================================================
// Content binding
// =============================================================================

// roleElements maps roles to their slot in the type scale.
var roleElements = map[document.Role]typography.Element{
	document.RoleHeadline:    typography.ElementH1,
	document.RoleDescription: typography.ElementBody,
	document.RoleBenefits:    typography.ElementBody,
	document.RoleSocialProof: typography.ElementCaption,
	document.RoleUrgency:     typography.ElementH3,
	document.RoleCTA:         typography.ElementCTA,
	document.RoleBadge:       typography.ElementCaption,
}

// Fitted sizes may range from these fractions of the recommended size.
const (
	minSizeFactor = 0.55
	maxSizeFactor = 1.35
)

// sizeRange returns the font size bounds for role in format, around the
// recommended type-scale size.
func sizeRange(role document.Role, format grid.Format) (int, int) {
	el, ok := roleElements[role]
	if !ok {
		el = typography.ElementBody
	}
	rec := typography.RecommendedSize(el, format)
	return int(math.Round(rec * minSizeFactor)), int(math.Round(rec * maxSizeFactor))
}

// ctaPadding is the horizontal padding inside buttons.
const ctaPadding = 24

func (c *composition) bind() {
	pairing := typography.PairingFor(c.in.Mood())
	for i := range c.layers {
		l := &c.layers[i]
		switch l.Kind {
		case document.KindBackground:
			l.Background.Color = c.bg
			l.Background.Src = c.in.BackgroundImage
		case document.KindImage:
			if l.Role == document.RoleProduct {
				l.Image.Src = c.in.ProductImage
				l.Image.Alt = c.in.ProductName
			}
		case document.KindShape:
			if l.Role == document.RoleAccent && c.accent != "" {
				l.Shape.Fill = c.accent
			}
		case document.KindText:
			c.bindText(l, pairing)
		case document.KindCTA:
			c.bindCTA(l, pairing)
		}
	}
}

func (c *composition) bindText(l *document.Layer, pairing typography.Pairing) {
	t := l.Text
	t.Color = c.text
	t.FontFamily, t.FontWeight = pairing.Body.Family, pairing.Body.Weight

	switch l.Role {
	case document.RoleHeadline:
		t.Text = c.in.Headline
		t.FontFamily, t.FontWeight = pairing.Headline.Family, pairing.Headline.Weight
	case document.RoleDescription:
		t.Text = c.in.Description
		if t.Text == "" {
			t.Text = c.in.Subheadline
		}
	case document.RoleBenefits:
		lines := make([]string, 0, len(c.in.Benefits))
		for _, b := range c.in.Benefits {
			if b = strings.TrimSpace(b); b != "" {
				lines = append(lines, "✓ "+b)
			}
		}
		t.Text = strings.Join(lines, "\n")
	case document.RoleSocialProof:
		t.Text = c.in.SocialProof
	case document.RoleUrgency:
		if c.in.UrgencyText != "" {
			t.Text = c.in.UrgencyText
		}
		if c.accent != "" {
			t.Color = c.accent
		}
		t.FontWeight = max(t.FontWeight, 700)
	}

	if strings.TrimSpace(t.Text) == "" {
		l.Visible = false
		return
	}
	c.fit(l, t.Text, t.FontFamily, t.FontWeight, l.Geometry.Width, l.Geometry.Height, t.LineHeight)
}

func (c *composition) bindCTA(l *document.Layer, pairing typography.Pairing) {
	b := l.CTA
	b.FontFamily, b.FontWeight = pairing.CTA.Family, pairing.CTA.Weight

	switch l.Role {
	case document.RoleCTA:
		b.Text = strings.ToUpper(c.in.CTAText)
		b.Background, b.Color = c.cta.Background, c.cta.Text
	case document.RoleBadge:
		if c.in.BadgeText != "" {
			b.Text = strings.ToUpper(c.in.BadgeText)
		}
		brand := c.accent
		if brand == "" {
			brand = b.Background
		}
		if colors, err := palette.SafeCTAColor(c.bg, brand); err == nil {
			b.Background, b.Color = colors.Background, colors.Text
		}
	}
	if b.Text == "" {
		l.Visible = false
		return
	}
	c.fit(l, b.Text, b.FontFamily, b.FontWeight,
		l.Geometry.Width-2*ctaPadding, l.Geometry.Height*0.6, 1)
}

// fit sizes the text of l. Measurement failures keep the template size.
func (c *composition) fit(l *document.Layer, text, family string, weight int, w, h, lineHeight float64) {
	lo, hi := sizeRange(l.Role, c.cfg.Format)
	fit, err := c.engine.measure(text, typography.Constraints{
		MaxWidth:   w,
		MaxHeight:  h,
		MinSize:    lo,
		MaxSize:    hi,
		Family:     family,
		Weight:     weight,
		LineHeight: lineHeight,
	})
	if err != nil {
		c.issue(fmt.Sprintf("could not measure %s text, kept template size: %v", l.Role, err), "")
		return
	}
	if fit.Overflow {
		c.issue(fmt.Sprintf("%s text overflows its box even at %.0fpx", l.Role, fit.Size),
			fmt.Sprintf("Shorten the %s copy", l.Role))
	}
	if !typography.IsReadable(fit.Size, weight) {
		c.suggestions = append(c.suggestions,
			fmt.Sprintf("%s text at %.0fpx may be hard to read in a feed; shorten it or give it more room", l.Role, fit.Size))
	}
	switch l.Kind {
	case document.KindText:
		l.Text.FontSize = fit.Size
		l.Text.LetterSpacing = fit.LetterSpacing
		l.Text.Overflow = fit.Overflow
	case document.KindCTA:
		l.CTA.FontSize = fit.Size
	}
}

// measure runs the fit and turns a measurer panic into an error.
func (e *Engine) measure(text string, cons typography.Constraints) (fit typography.Fit, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeMeasurement, "measurer panicked: %v", r)
		}
	}()
	return typography.FindOptimalSize(e.Measurer, text, cons), nil
}

// =============================================================================
// Accessibility
// =============================================================================

type auditTarget struct {
	color  *string
	button bool
}

// enforceAccessibility audits every visible text and button label. Text
// is checked against what is painted behind it. With enforcement on,
// failing colors are corrected and each correction is recorded as an
// issue. It reports whether all pairings pass afterwards.
func (c *composition) enforceAccessibility() bool {
	var checks []palette.TextCheck
	var targets []auditTarget
	for i := range c.layers {
		l := &c.layers[i]
		if !l.Visible {
			continue
		}
		switch l.Kind {
		case document.KindText:
			checks = append(checks, palette.TextCheck{Name: l.Name, Foreground: l.Text.Color,
				Background: c.backdrop(l), Size: l.Text.FontSize, Weight: l.Text.FontWeight})
			targets = append(targets, auditTarget{color: &l.Text.Color})
		case document.KindCTA:
			checks = append(checks, palette.TextCheck{Name: l.Name, Foreground: l.CTA.Color,
				Background: l.CTA.Background, Size: l.CTA.FontSize, Weight: l.CTA.FontWeight})
			targets = append(targets, auditTarget{color: &l.CTA.Color, button: true})
		}
	}

	enforce := c.in.Enforce()
	passed := true
	for _, v := range palette.Audit(checks) {
		chk := checks[v.Index]
		if v.Ratio == 0 {
			c.issue(fmt.Sprintf("%s has an invalid color: %s", v.Name, v.Message), "")
			passed = false
			continue
		}
		if !enforce {
			passed = false
			c.issue(v.Message, fmt.Sprintf("Increase the contrast of the %s color", v.Name))
			continue
		}

		target := targets[v.Index]
		var adjusted string
		var err error
		if target.button {
			adjusted, err = palette.AccessibleTextColor(chk.Background)
		} else {
			adjusted, err = palette.AutoAdjust(chk.Foreground, chk.Background, v.Required)
		}
		if err != nil {
			passed = false
			c.issue(fmt.Sprintf("could not correct %s color: %v", v.Name, err), "")
			continue
		}
		after, _ := palette.Validate(adjusted, chk.Background, chk.Size, chk.Weight)
		c.issue(fmt.Sprintf("%s color adjusted from %s to %s for WCAG AA (ratio %.2f:1 to %s)",
			v.Name, chk.Foreground, adjusted, v.Ratio, after), "")
		*target.color = adjusted
		if !after.Passes.AA {
			passed = false
		}
	}
	return passed
}

// backdrop returns the color behind text layer l: the page background with
// every visible accent shape painted below l that covers its center
// composited on top. Shape rotation is ignored.
func (c *composition) backdrop(l *document.Layer) string {
	bg := c.bg
	x, y := l.Geometry.Rect().Center()
	for _, s := range c.doc.AllByRole(document.RoleAccent) {
		if !s.Visible || s.Kind != document.KindShape || s.Shape == nil || s.Z >= l.Z {
			continue
		}
		r := s.Geometry.Rect()
		if x < r.X || x > r.Right() || y < r.Y || y > r.Bottom() {
			continue
		}
		if mixed, err := palette.Composite(s.Shape.Fill, bg, s.Opacity); err == nil {
			bg = mixed
		}
	}
	return bg
}
