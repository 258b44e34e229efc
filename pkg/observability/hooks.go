// Package observability provides instrumentation hooks for the adlayout
// engine.
//
// Library packages emit events through the registered hooks and never
// import a metrics backend themselves. The serve command registers the
// Prometheus implementation from internal/metrics at startup; everything
// else runs with the no-op defaults.
//
// # Usage
//
// Register hooks once at startup:
//
//	observability.SetPipelineHooks(m)
//	observability.SetVisionHooks(m)
//
// Libraries emit events:
//
//	observability.Pipeline().OnStageStart(ctx, observability.StageVariation)
//	// ... generate ...
//	observability.Pipeline().OnStageComplete(ctx, observability.StageVariation, d, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// Orchestration stages reported through PipelineHooks.
const (
	StageAnalysis       = "analysis"
	StageAdaptive       = "adaptive"
	StageTemplateSearch = "template_search"
	StageVariation      = "variation"
	StageRank           = "rank"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives composition and orchestration events.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage string)
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// OnCompose records one finished composition.
	OnCompose(ctx context.Context, templateID, format string, balance float64, degraded bool, duration time.Duration)

	// OnVariations records a generation run: generated before filtering,
	// kept after the quality floor and duplicate removal.
	OnVariations(ctx context.Context, templateID string, generated, kept int)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives cache events. keyType is "analysis", "layout" or
// "variation".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Vision Hooks
// =============================================================================

// VisionHooks receives product image analysis events.
type VisionHooks interface {
	OnAnalyzeStart(ctx context.Context, analyzer string)
	OnAnalyzeComplete(ctx context.Context, analyzer string, duration time.Duration, err error)

	// OnFallback records that the heuristic analysis replaced a failed one.
	OnFallback(ctx context.Context, analyzer string, cause error)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from outgoing HTTP calls (remote vision).
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnCompose(context.Context, string, string, float64, bool, time.Duration) {
}
func (NoopPipelineHooks) OnVariations(context.Context, string, int, int) {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopVisionHooks ignores every event.
type NoopVisionHooks struct{}

func (NoopVisionHooks) OnAnalyzeStart(context.Context, string)                          {}
func (NoopVisionHooks) OnAnalyzeComplete(context.Context, string, time.Duration, error) {}
func (NoopVisionHooks) OnFallback(context.Context, string, error)                       {}

// NoopHTTPHooks ignores every event.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	hooksMu       sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	visionHooks   VisionHooks   = NoopVisionHooks{}
	httpHooks     HTTPHooks     = NoopHTTPHooks{}
)

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetVisionHooks registers vision hooks. Nil is ignored.
func SetVisionHooks(h VisionHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		visionHooks = h
	}
}

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Vision returns the registered vision hooks.
func Vision() VisionHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return visionHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores the no-op defaults. Used by tests.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	visionHooks = NoopVisionHooks{}
	httpHooks = NoopHTTPHooks{}
}
