package vision

import (
	"context"
	"encoding/base64"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/httputil"
)

// HTTPAnalyzer delegates analysis to a remote vision service. Requests are
// rate limited and transient failures are retried.
//
// The service receives
//
//	{"image": "<base64>", "features": ["object_detection", "color_analysis"]}
//
// and answers with detected objects and colors in canvas coordinates.
type HTTPAnalyzer struct {
	Endpoint string
	Client   *http.Client
	Limiter  *rate.Limiter
	Attempts int
	Backoff  time.Duration
	Canvas   grid.Rect
}

// NewHTTPAnalyzer creates an analyzer for endpoint allowing perSecond
// requests with the given burst.
func NewHTTPAnalyzer(endpoint string, perSecond float64, burst int) *HTTPAnalyzer {
	if perSecond <= 0 {
		perSecond = 2
	}
	return &HTTPAnalyzer{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 30 * time.Second},
		Limiter:  rate.NewLimiter(rate.Limit(perSecond), max(burst, 1)),
		Attempts: 3,
		Backoff:  500 * time.Millisecond,
	}
}

func (a *HTTPAnalyzer) Name() string { return "http" }

type visionRequest struct {
	Image    string   `json:"image"`
	Features []string `json:"features"`
}

type visionResponse struct {
	Objects []struct {
		Label       string    `json:"label"`
		Confidence  float64   `json:"confidence"`
		BoundingBox grid.Rect `json:"bounding_box"`
	} `json:"objects"`
	Colors *Colors `json:"colors"`
}

func (a *HTTPAnalyzer) Analyze(ctx context.Context, image []byte) (Analysis, error) {
	if len(image) == 0 {
		return Analysis{}, errors.New(errors.ErrCodeInvalidImage, "empty image")
	}
	if a.Limiter != nil {
		if err := a.Limiter.Wait(ctx); err != nil {
			return Analysis{}, errors.Wrap(errors.ErrCodeRateLimited, err, "vision rate limit")
		}
	}

	req := visionRequest{
		Image:    base64.StdEncoding.EncodeToString(image),
		Features: []string{"object_detection", "color_analysis"},
	}
	var resp visionResponse
	err := httputil.Retry(ctx, a.Attempts, a.Backoff, func() error {
		return httputil.DoJSON(ctx, a.Client, http.MethodPost, a.Endpoint, req, &resp)
	})
	if err != nil {
		code := errors.ErrCodeVisionUnavailable
		if httputil.IsRetryable(err) {
			code = errors.ErrCodeNetwork
		}
		return Analysis{}, errors.Wrap(code, err, "vision service %s", a.Endpoint)
	}

	canvas := a.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = DefaultCanvas
	}
	fallback := Heuristic()
	box := fallback.BoundingBox
	if len(resp.Objects) > 0 && resp.Objects[0].BoundingBox.Area() > 0 {
		box = resp.Objects[0].BoundingBox
	}
	colors := fallback.Colors
	if resp.Colors != nil && resp.Colors.Dominant != "" {
		colors = *resp.Colors
	}

	res := Derive(box, colors, canvas)
	if len(resp.Objects) > 0 {
		res.Objects = res.Objects[:0]
		for _, o := range resp.Objects {
			res.Objects = append(res.Objects, Object{Label: o.Label, Confidence: o.Confidence, Box: o.BoundingBox})
		}
	}
	return res, nil
}
