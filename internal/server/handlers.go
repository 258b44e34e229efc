package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/adlayout/pkg/buildinfo"
	"github.com/matzehuels/adlayout/pkg/compose"
	"github.com/matzehuels/adlayout/pkg/document"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/palette"
	"github.com/matzehuels/adlayout/pkg/pipeline"
	"github.com/matzehuels/adlayout/pkg/templates"
	"github.com/matzehuels/adlayout/pkg/variation"
	"github.com/matzehuels/adlayout/pkg/vision"
)

// DefaultVariationCount is used when a variations request omits count.
const DefaultVariationCount = 20

// =============================================================================
// Meta
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, buildinfo.Current())
}

// =============================================================================
// Catalog
// =============================================================================

// handleTemplates ranks every archetype for the context given as query
// parameters (has_offer, goal, tone, product_type).
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c := templates.Context{
		Goal:        templates.Goal(q.Get("goal")),
		Tone:        q.Get("tone"),
		ProductType: q.Get("product_type"),
	}
	if v := q.Get("has_offer"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "has_offer: %q is not a boolean", v))
			return
		}
		c.HasOffer = b
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": templates.Rank(c)})
}

type gridResponse struct {
	Config      grid.Config  `json:"config"`
	ColumnWidth float64      `json:"column_width"`
	Rows        int          `json:"rows"`
	Overlay     grid.Overlay `json:"overlay"`
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	f, err := grid.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cfg := grid.MustConfig(f)
	writeJSON(w, http.StatusOK, gridResponse{
		Config:      cfg,
		ColumnWidth: cfg.ColumnWidth(),
		Rows:        cfg.Rows(),
		Overlay:     grid.NewOverlay(cfg),
	})
}

// =============================================================================
// Composition
// =============================================================================

// withDefaults fills fields the request left empty from the compose config.
func (s *Server) withDefaults(in compose.Input) compose.Input {
	d := s.Config.Compose
	if in.CTAText == "" {
		in.CTAText = d.CTAText
	}
	if in.Format == "" {
		in.Format = d.Format
	}
	if in.EnforceAccessibility == nil {
		enforce := d.EnforceAccessibility
		in.EnforceAccessibility = &enforce
	}
	if in.TargetBalance == 0 {
		in.TargetBalance = d.TargetBalance
	}
	return in
}

func (s *Server) wantSave(r *http.Request) bool {
	if v := r.URL.Query().Get("save"); v != "" {
		b, _ := strconv.ParseBool(v)
		return b
	}
	return s.Config.Server.SaveByDefault
}

type composeResponse struct {
	Output *compose.Output `json:"output"`
	Cached bool            `json:"cached"`
	Saved  bool            `json:"saved"`
}

func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	var in compose.Input
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	out, cached, err := s.Runner.Compose(r.Context(), s.Engine, s.withDefaults(in))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := composeResponse{Output: out, Cached: cached}
	if s.wantSave(r) {
		if err := s.Store.Save(r.Context(), out.Document); err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Saved = true
	}
	writeJSON(w, http.StatusOK, resp)
}

type formatsRequest struct {
	Input   compose.Input `json:"input"`
	Formats []grid.Format `json:"formats"`
}

func (s *Server) handleComposeFormats(w http.ResponseWriter, r *http.Request) {
	var req formatsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	for i, f := range req.Formats {
		parsed, err := grid.ParseFormat(string(f))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		req.Formats[i] = parsed
	}
	outs, err := s.Engine.ComposeFormats(r.Context(), s.withDefaults(req.Input), req.Formats)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outputs": outs})
}

func (s *Server) handleComposeVariants(w http.ResponseWriter, r *http.Request) {
	var in compose.Input
	if err := decode(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}
	outs, err := s.Engine.ComposeVariants(r.Context(), s.withDefaults(in))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"outputs": outs})
}

// =============================================================================
// Variations and orchestration
// =============================================================================

type variationsRequest struct {
	TemplateID   string         `json:"template_id"`
	Tone         string         `json:"tone,omitempty"`
	Colors       compose.Colors `json:"colors"`
	Count        int            `json:"count,omitempty"`
	ProductImage []byte         `json:"product_image,omitempty"`
}

type variationsResponse struct {
	Variations []variation.Variation `json:"variations"`
	Style      variation.Style       `json:"style"`
	Cached     bool                  `json:"cached"`
}

func (s *Server) handleVariations(w http.ResponseWriter, r *http.Request) {
	var req variationsRequest
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	def, err := templates.Get(req.TemplateID)
	if err != nil {
		s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "template_id"))
		return
	}
	for _, c := range []struct{ field, value string }{
		{"primary color", req.Colors.Primary},
		{"accent color", req.Colors.Accent},
		{"background color", req.Colors.Background},
	} {
		if err := errors.ValidateOptionalHexColor(c.field, c.value); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	if req.Count == 0 {
		req.Count = DefaultVariationCount
	}

	var analysis *vision.Analysis
	if len(req.ProductImage) > 0 {
		a, _ := s.Runner.Analyze(r.Context(), req.ProductImage)
		analysis = &a
	}
	style := variation.DeriveStyle(req.Tone, req.Colors.Primary, req.Colors.Accent, req.Colors.Background, analysis)
	vs, cached, err := s.Runner.Variations(r.Context(), def, style, analysis, req.Count, false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, variationsResponse{Variations: vs, Style: style, Cached: cached})
}

type orchestrateResponse struct {
	Result   *pipeline.Result   `json:"result"`
	Document *document.Document `json:"document,omitempty"`
	// Violations are the soft problems of Document.
	Violations []document.Violation `json:"violations,omitempty"`
}

func (s *Server) handleOrchestrate(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := decode(w, r, &opts); err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.CTAText == "" {
		opts.CTAText = s.Config.Compose.CTAText
	}
	if opts.Format == "" {
		opts.Format = s.Config.Compose.Format
	}
	res, err := s.Runner.Orchestrate(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := orchestrateResponse{Result: res}
	if best, ok := res.Best(); ok && s.wantSave(r) {
		doc, violations, err := pipeline.Export(best, res.Adaptive, res.Options)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if err := s.Store.Save(r.Context(), doc); err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Document, resp.Violations = doc, violations
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Contrast
// =============================================================================

type contrastRequest struct {
	Foreground string  `json:"foreground"`
	Background string  `json:"background"`
	FontSize   float64 `json:"font_size,omitempty"`
	FontWeight int     `json:"font_weight,omitempty"`
	// Adjust returns a corrected foreground when AA fails.
	Adjust bool    `json:"adjust,omitempty"`
	Target float64 `json:"target,omitempty"`
}

type contrastResponse struct {
	Result   palette.Result  `json:"result"`
	Required float64         `json:"required"`
	Adjusted string          `json:"adjusted,omitempty"`
	After    *palette.Result `json:"adjusted_result,omitempty"`
}

func (s *Server) handleContrast(w http.ResponseWriter, r *http.Request) {
	req := contrastRequest{FontSize: 16, FontWeight: 400}
	if err := decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := palette.Validate(req.Foreground, req.Background, req.FontSize, req.FontWeight)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := contrastResponse{Result: res, Required: res.Required()}
	if req.Adjust && !res.Passes.AA {
		target := req.Target
		if target <= 0 {
			target = res.Required()
		}
		fixed, err := palette.AutoAdjust(req.Foreground, req.Background, target)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		after, err := palette.Validate(fixed, req.Background, req.FontSize, req.FontWeight)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		resp.Adjusted = fixed
		resp.After = &after
	}
	writeJSON(w, http.StatusOK, resp)
}

type paletteResponse struct {
	Accessible palette.Accessible `json:"accessible"`
	Schemes    []palette.Scheme   `json:"schemes"`
}

// handlePalette takes the brand color without its leading '#', which would
// start a URL fragment.
func (s *Server) handlePalette(w http.ResponseWriter, r *http.Request) {
	base := "#" + strings.TrimPrefix(chi.URLParam(r, "color"), "#")
	acc, err := palette.AccessiblePalette(base)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	schemes, err := palette.Schemes(acc.Primary)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, paletteResponse{Accessible: acc, Schemes: schemes})
}

// =============================================================================
// Documents
// =============================================================================

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit: %q is not a non-negative integer", v))
			return
		}
		limit = n
	}
	docs, err := s.Store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
