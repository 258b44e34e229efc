package vision

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/adlayout/pkg/cache"
	"github.com/matzehuels/adlayout/pkg/observability"
)

// CachedAnalyzer caches the analyses of an inner analyzer by image content
// hash and AnalysisVersion. Cache failures fall through to the inner
// analyzer; heuristic results are never cached.
type CachedAnalyzer struct {
	Inner  Analyzer
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewCachedAnalyzer wraps inner. Nil cache, keyer and logger default to
// NullCache, DefaultKeyer and a discarding logger.
func NewCachedAnalyzer(inner Analyzer, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *CachedAnalyzer {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &CachedAnalyzer{Inner: inner, Cache: c, Keyer: keyer, Logger: logger}
}

func (a *CachedAnalyzer) Name() string { return nameOf(a.Inner) }

func (a *CachedAnalyzer) Analyze(ctx context.Context, image []byte) (Analysis, error) {
	key := a.Keyer.AnalysisKey(cache.Hash(image), AnalysisVersion)
	hooks := observability.Cache()

	var res Analysis
	switch err := cache.GetJSON(ctx, a.Cache, key, &res); err {
	case nil:
		hooks.OnCacheHit(ctx, "analysis")
		a.Logger.Debug("analysis cache hit", "key", key)
		return res, nil
	case cache.ErrCacheMiss:
		hooks.OnCacheMiss(ctx, "analysis")
	default:
		hooks.OnCacheMiss(ctx, "analysis")
		a.Logger.Warn("analysis cache read failed", "error", err)
	}

	res, err := a.Inner.Analyze(ctx, image)
	if err != nil {
		return Analysis{}, err
	}
	if !res.Heuristic {
		data, _ := json.Marshal(res)
		if err := a.Cache.Set(ctx, key, data, cache.TTLAnalysis); err != nil {
			a.Logger.Warn("analysis cache write failed", "error", err)
		} else {
			hooks.OnCacheSet(ctx, "analysis", len(data))
		}
	}
	return res, nil
}

// Hit reports whether the analysis of image is cached.
func (a *CachedAnalyzer) Hit(ctx context.Context, image []byte) bool {
	_, ok, err := a.Cache.Get(ctx, a.Keyer.AnalysisKey(cache.Hash(image), AnalysisVersion))
	return ok && err == nil
}
