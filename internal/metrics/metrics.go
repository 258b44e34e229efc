// Package metrics implements the observability hooks with Prometheus
// collectors. The serve command registers one Recorder at startup and
// exposes its registry on /metrics.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/observability"
)

const namespace = "adlayout"

// Recorder holds every collector. It implements the pipeline, cache, vision
// and HTTP hook interfaces.
type Recorder struct {
	registry *prometheus.Registry

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	compositions  *prometheus.CounterVec
	composeTime   *prometheus.HistogramVec
	balanceScore  prometheus.Histogram
	variations    *prometheus.CounterVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	analyses     *prometheus.CounterVec
	analyzeTime  *prometheus.HistogramVec
	fallbacks    *prometheus.CounterVec
	outgoing     *prometheus.CounterVec
	outgoingTime *prometheus.HistogramVec
	apiRequests  *prometheus.CounterVec
	apiLatency   *prometheus.HistogramVec
}

// New creates a Recorder with its own registry, including the Go runtime
// and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,

		stageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of orchestration stages in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		stageErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Total number of failed orchestration stages",
		}, []string{"stage", "error_code"}),
		compositions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compositions_total",
			Help:      "Total number of finished compositions",
		}, []string{"template", "format", "degraded"}),
		composeTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "compose_duration_seconds",
			Help:      "Duration of single compositions in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"format"}),
		balanceScore: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "balance_score",
			Help:      "Overall balance score of composed layouts",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
		variations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "variations_total",
			Help:      "Total number of variations by outcome",
		}, []string{"template", "outcome"}),

		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_events_total",
			Help:      "Total number of cache lookups and writes",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Total bytes written to the cache",
		}, []string{"key_type"}),

		analyses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vision_analyses_total",
			Help:      "Total number of image analyses by result",
		}, []string{"analyzer", "result"}),
		analyzeTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "vision_analyze_duration_seconds",
			Help:      "Duration of image analyses in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"analyzer"}),
		fallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "vision_fallbacks_total",
			Help:      "Total number of heuristic fallbacks",
		}, []string{"analyzer", "error_code"}),
		outgoing: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outgoing_requests_total",
			Help:      "Total number of outgoing HTTP requests",
		}, []string{"method", "host", "status"}),
		outgoingTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "outgoing_request_duration_seconds",
			Help:      "Duration of outgoing HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "host"}),
		apiRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of API requests",
		}, []string{"method", "route", "status"}),
		apiLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of API requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs r as the global observability hooks.
func (r *Recorder) Register() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetVisionHooks(r)
	observability.SetHTTPHooks(r)
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveRequest records one served API request. route is the matched
// route pattern, not the raw path.
func (r *Recorder) ObserveRequest(method, route string, status int, d time.Duration) {
	r.apiRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.apiLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

func errorCode(err error) string {
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "unknown"
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (r *Recorder) OnStageStart(context.Context, string) {}

func (r *Recorder) OnStageComplete(_ context.Context, stage string, d time.Duration, err error) {
	r.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
	if err != nil {
		r.stageErrors.WithLabelValues(stage, errorCode(err)).Inc()
	}
}

func (r *Recorder) OnCompose(_ context.Context, templateID, format string, balance float64, degraded bool, d time.Duration) {
	r.compositions.WithLabelValues(templateID, format, strconv.FormatBool(degraded)).Inc()
	r.composeTime.WithLabelValues(format).Observe(d.Seconds())
	r.balanceScore.Observe(balance)
}

func (r *Recorder) OnVariations(_ context.Context, templateID string, generated, kept int) {
	r.variations.WithLabelValues(templateID, "kept").Add(float64(kept))
	r.variations.WithLabelValues(templateID, "dropped").Add(float64(generated - kept))
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (r *Recorder) OnCacheHit(_ context.Context, keyType string) {
	r.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (r *Recorder) OnCacheMiss(_ context.Context, keyType string) {
	r.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (r *Recorder) OnCacheSet(_ context.Context, keyType string, size int) {
	r.cacheEvents.WithLabelValues(keyType, "set").Inc()
	r.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// Vision Hooks
// =============================================================================

func (r *Recorder) OnAnalyzeStart(context.Context, string) {}

func (r *Recorder) OnAnalyzeComplete(_ context.Context, analyzer string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.analyses.WithLabelValues(analyzer, result).Inc()
	r.analyzeTime.WithLabelValues(analyzer).Observe(d.Seconds())
}

func (r *Recorder) OnFallback(_ context.Context, analyzer string, cause error) {
	r.fallbacks.WithLabelValues(analyzer, errorCode(cause)).Inc()
}

// =============================================================================
// HTTP Hooks
// =============================================================================

func (r *Recorder) OnRequest(context.Context, string, string, string) {}

func (r *Recorder) OnResponse(_ context.Context, method, host, _ string, status int, d time.Duration) {
	r.outgoing.WithLabelValues(method, host, strconv.Itoa(status)).Inc()
	r.outgoingTime.WithLabelValues(method, host).Observe(d.Seconds())
}

func (r *Recorder) OnError(_ context.Context, method, host, _ string, _ error) {
	r.outgoing.WithLabelValues(method, host, "error").Inc()
}

var (
	_ observability.PipelineHooks = (*Recorder)(nil)
	_ observability.CacheHooks    = (*Recorder)(nil)
	_ observability.VisionHooks   = (*Recorder)(nil)
	_ observability.HTTPHooks     = (*Recorder)(nil)
)
