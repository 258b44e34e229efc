package vision

import (
	"context"
	"time"

	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/observability"
)

// Analyzer analyzes a product image.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte) (Analysis, error)
}

// AnalyzerFunc adapts a function to Analyzer.
type AnalyzerFunc func(ctx context.Context, image []byte) (Analysis, error)

func (f AnalyzerFunc) Analyze(ctx context.Context, image []byte) (Analysis, error) {
	return f(ctx, image)
}

// Named analyzers report a name to observability hooks.
type Named interface {
	Name() string
}

func nameOf(a Analyzer) string {
	if n, ok := a.(Named); ok {
		return n.Name()
	}
	return "custom"
}

// DefaultTimeout bounds a single analysis in [Resilient].
const DefaultTimeout = 10 * time.Second

// Resilient runs a with a timeout and returns [Heuristic] instead of an
// error. The second return value is the cause of the fallback, nil when
// the real analysis succeeded. A nil analyzer always falls back.
func Resilient(ctx context.Context, a Analyzer, image []byte, timeout time.Duration) (Analysis, error) {
	hooks := observability.Vision()
	if a == nil {
		cause := errors.New(errors.ErrCodeVisionUnavailable, "no analyzer configured")
		hooks.OnFallback(ctx, "none", cause)
		return Heuristic(), cause
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	name := nameOf(a)

	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	hooks.OnAnalyzeStart(ctx, name)
	start := time.Now()

	// Buffered so an analyzer that ignores ctx can still finish and exit.
	done := make(chan analyzeResult, 1)
	go func() {
		res, err := safeAnalyze(actx, a, image)
		done <- analyzeResult{res, err}
	}()

	var res Analysis
	var err error
	select {
	case r := <-done:
		res, err = r.analysis, r.err
	case <-actx.Done():
		err = actx.Err()
	}
	hooks.OnAnalyzeComplete(ctx, name, time.Since(start), err)
	if err == nil {
		return res, nil
	}

	cause := err
	if actx.Err() == context.DeadlineExceeded {
		cause = errors.Wrap(errors.ErrCodeTimeout, err, "vision analysis exceeded %s", timeout)
	} else if errors.GetCode(err) == "" {
		cause = errors.Wrap(errors.ErrCodeVisionUnavailable, err, "vision analysis failed")
	}
	hooks.OnFallback(ctx, name, cause)
	return Heuristic(), cause
}

type analyzeResult struct {
	analysis Analysis
	err      error
}

func safeAnalyze(ctx context.Context, a Analyzer, image []byte) (res Analysis, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.New(errors.ErrCodeVisionUnavailable, "analyzer panicked: %v", r)
		}
	}()
	return a.Analyze(ctx, image)
}
