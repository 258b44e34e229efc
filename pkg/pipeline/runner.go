package pipeline

import (
	"context"
	"encoding/json"
	"math"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adlayout/pkg/adaptive"
	"github.com/matzehuels/adlayout/pkg/cache"
	"github.com/matzehuels/adlayout/pkg/compose"
	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/observability"
	"github.com/matzehuels/adlayout/pkg/templates"
	"github.com/matzehuels/adlayout/pkg/variation"
	"github.com/matzehuels/adlayout/pkg/vision"
)

// Telemetry records wall-clock stage durations and counts. It is for
// observability only.
type Telemetry struct {
	AnalysisTime        time.Duration `json:"analysis_time"`
	AdaptiveTime        time.Duration `json:"adaptive_time"`
	TemplateSearchTime  time.Duration `json:"template_search_time"`
	VariationTime       time.Duration `json:"variation_time"`
	RankTime            time.Duration `json:"rank_time"`
	TotalTime           time.Duration `json:"total_time"`
	TemplatesAnalyzed   int           `json:"templates_analyzed"`
	VariationsGenerated int           `json:"variations_generated"`
	HeuristicFallback   bool          `json:"heuristic_fallback"`
}

// CacheInfo tracks which stages hit the cache.
type CacheInfo struct {
	AnalysisHit  bool `json:"analysis_hit"`  // Whether the image analysis came from cache
	VariationHit int  `json:"variation_hit"` // Candidates whose variations came from cache
	LayoutHit    bool `json:"layout_hit"`    // Whether a composition came from cache
}

// Runner encapsulates orchestration with caching.
// Both CLI and API use it so caching logic lives in one place.
//
// The Runner is stateless except for its collaborators - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Analyzer analyzes product images. Nil uses the local ImageAnalyzer.
	Analyzer vision.Analyzer

	// Variation holds the generator thresholds and weights.
	Variation variation.Config

	// VisionTimeout bounds one image analysis.
	VisionTimeout time.Duration

	// TTL overrides the per-kind layout and variation TTLs when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:         c,
		Keyer:         keyer,
		Logger:        logger,
		Analyzer:      vision.NewImageAnalyzer(),
		Variation:     variation.DefaultConfig(),
		VisionTimeout: vision.DefaultTimeout,
	}
}

// Orchestrate runs analysis → adaptive layout → template search →
// variation generation → ranking. Only invalid options, invalid
// configuration and cancellation are errors; vision failures degrade to
// the heuristic analysis.
func (r *Runner) Orchestrate(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	gen, err := variation.NewGenerator(r.Variation, r.Logger)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	result := &Result{Options: opts}
	tel := &result.Telemetry

	// Stage 1: Analysis
	var analysis *vision.Analysis
	err = r.stage(ctx, observability.StageAnalysis, &tel.AnalysisTime, func() error {
		if len(opts.ProductImage) > 0 {
			a, hit := r.Analyze(ctx, opts.ProductImage)
			analysis = &a
			result.CacheInfo.AnalysisHit = hit
			tel.HeuristicFallback = a.Heuristic
		}
		result.Style = variation.DeriveStyle(opts.Tone, opts.Colors.Primary, opts.Colors.Accent, opts.Colors.Background, analysis)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.Logger.Info("analyzed style",
		"image", analysis != nil,
		"heuristic", tel.HeuristicFallback,
		"cached", result.CacheInfo.AnalysisHit,
		"duration", tel.AnalysisTime)

	// Stage 2: Adaptive layout
	if analysis != nil {
		err = r.stage(ctx, observability.StageAdaptive, &tel.AdaptiveTime, func() error {
			t := adaptive.Generate(*analysis)
			result.Adaptive = &t
			return nil
		})
		if err != nil {
			return nil, err
		}
		r.Logger.Info("adapted layout",
			"text_zones", len(result.Adaptive.Layout.TextZones),
			"balance", result.Adaptive.Balance.Score,
			"duration", tel.AdaptiveTime)
	}

	// Stage 3: Template search
	err = r.stage(ctx, observability.StageTemplateSearch, &tel.TemplateSearchTime, func() error {
		ranked := templates.Rank(opts.TemplateContext())
		result.Templates = ranked[:min(opts.MaxTemplates, len(ranked))]
		tel.TemplatesAnalyzed = len(result.Templates)
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.Logger.Info("searched templates",
		"candidates", tel.TemplatesAnalyzed,
		"best", result.Templates[0].Definition.ID,
		"duration", tel.TemplateSearchTime)

	// Stage 4: Variation
	var all []variation.Variation
	perTemplate := int(math.Ceil(float64(opts.Count) / float64(len(result.Templates))))
	err = r.stage(ctx, observability.StageVariation, &tel.VariationTime, func() error {
		for _, c := range result.Templates {
			vs, hit, err := r.variations(ctx, gen, c.Definition, result.Style, analysis, perTemplate, opts.Refresh)
			if err != nil {
				return err
			}
			if hit {
				result.CacheInfo.VariationHit++
			}
			tel.VariationsGenerated += perTemplate
			all = append(all, vs...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	r.Logger.Info("generated variations",
		"generated", tel.VariationsGenerated,
		"kept", len(all),
		"duration", tel.VariationTime)

	// Stage 5: Rank. Candidates are merged in template order, so a
	// near-duplicate across templates collapses into the better template.
	err = r.stage(ctx, observability.StageRank, &tel.RankTime, func() error {
		result.Variations = Rank(gen.Filter(all), opts.MinQuality, opts.Limit())
		return nil
	})
	if err != nil {
		return nil, err
	}
	tel.TotalTime = time.Since(start)
	r.Logger.Info("ranked variations",
		"returned", len(result.Variations),
		"duration", tel.RankTime,
		"total", tel.TotalTime)

	return result, nil
}

// Rank keeps variations scoring at least floor, sorts them by overall score
// descending (stable, so ties keep generation order) and truncates to limit.
func Rank(vs []variation.Variation, floor float64, limit int) []variation.Variation {
	out := make([]variation.Variation, 0, len(vs))
	for _, v := range vs {
		if v.Scores.Overall >= floor {
			out = append(out, v)
		}
	}
	slices.SortStableFunc(out, func(a, b variation.Variation) int {
		switch {
		case a.Scores.Overall > b.Scores.Overall:
			return -1
		case a.Scores.Overall < b.Scores.Overall:
			return 1
		}
		return 0
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// stage times fn, reports it to the pipeline hooks and fails fast on a
// canceled context.
func (r *Runner) stage(ctx context.Context, name string, d *time.Duration, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	*d = time.Since(start)
	hooks.OnStageComplete(ctx, name, *d, err)
	return err
}

// Analyze analyzes image through the cache, falling back to the heuristic
// analysis on failure. It reports whether the analysis was cached.
func (r *Runner) Analyze(ctx context.Context, image []byte) (vision.Analysis, bool) {
	inner := r.Analyzer
	if inner == nil {
		inner = vision.NewImageAnalyzer()
	}
	cached := vision.NewCachedAnalyzer(inner, r.Cache, r.Keyer, r.Logger)
	hit := cached.Hit(ctx, image)

	a, cause := vision.Resilient(ctx, cached, image, r.VisionTimeout)
	if cause != nil {
		r.Logger.Warn("vision analysis failed, using heuristic layout",
			"code", errors.GetCode(cause),
			"error", cause)
	}
	return a, hit
}

// Variations generates count variations of def through the variation
// cache. It reports whether the result was cached.
func (r *Runner) Variations(ctx context.Context, def templates.Definition, s variation.Style,
	a *vision.Analysis, count int, refresh bool) ([]variation.Variation, bool, error) {
	gen, err := variation.NewGenerator(r.Variation, r.Logger)
	if err != nil {
		return nil, false, err
	}
	return r.variations(ctx, gen, def, s, a, count, refresh)
}

// variations generates variations of def through the variation cache.
func (r *Runner) variations(ctx context.Context, gen *variation.Generator, def templates.Definition,
	s variation.Style, a *vision.Analysis, count int, refresh bool) ([]variation.Variation, bool, error) {
	styleHash, err := cache.HashJSON(struct {
		Style  variation.Style  `json:"style"`
		Config variation.Config `json:"config"`
	}{s, gen.Config})
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash style")
	}
	key := r.Keyer.VariationKey(def.ID, styleHash, count)
	hooks := observability.Cache()

	if !refresh {
		var vs []variation.Variation
		if err := cache.GetJSON(ctx, r.Cache, key, &vs); err == nil {
			hooks.OnCacheHit(ctx, "variation")
			return vs, true, nil
		}
		hooks.OnCacheMiss(ctx, "variation")
	}

	vs, err := gen.Generate(ctx, def, s, a, count)
	if err != nil {
		return nil, false, err
	}
	r.store(ctx, "variation", key, vs, cache.TTLVariation)
	return vs, false, nil
}

// Compose composes in with e through the layout cache. Degraded outputs
// are never cached.
func (r *Runner) Compose(ctx context.Context, e *compose.Engine, in compose.Input) (*compose.Output, bool, error) {
	if err := in.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	inputHash, err := cache.HashJSON(in)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "hash input")
	}
	key := r.Keyer.LayoutKey(inputHash, cache.LayoutKeyOpts{
		Format:  string(in.Format),
		Pattern: string(in.Pattern),
		Enforce: in.Enforce(),
	})
	hooks := observability.Cache()

	var out compose.Output
	if err := cache.GetJSON(ctx, r.Cache, key, &out); err == nil {
		hooks.OnCacheHit(ctx, "layout")
		return &out, true, nil
	}
	hooks.OnCacheMiss(ctx, "layout")

	res, err := e.Compose(ctx, in)
	if err != nil {
		return nil, false, err
	}
	if !res.Quality.Degraded {
		r.store(ctx, "layout", key, res, cache.TTLLayout)
	}
	return res, false, nil
}

// store writes v to the cache. Failures are logged, never returned.
func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	data, err := json.Marshal(v)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, ttl)
	}
	if err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
