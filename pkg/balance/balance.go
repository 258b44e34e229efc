package balance

import (
	"fmt"
	"math"

	"github.com/matzehuels/adlayout/pkg/document"
)

// Weights are the contributions of each sub-score to the overall score.
// They should sum to 1.
type Weights struct {
	Horizontal float64 `json:"horizontal" toml:"horizontal"`
	Vertical   float64 `json:"vertical" toml:"vertical"`
	Overlap    float64 `json:"overlap" toml:"overlap"`
	Spacing    float64 `json:"spacing" toml:"spacing"`
	Whitespace float64 `json:"whitespace" toml:"whitespace"`
}

// Config holds every tunable of the scorer.
type Config struct {
	Weights        Weights `json:"weights" toml:"weights"`
	IdealSpacing   float64 `json:"ideal_spacing" toml:"ideal_spacing"`
	WhitespaceMin  float64 `json:"whitespace_min" toml:"whitespace_min"`
	WhitespaceMax  float64 `json:"whitespace_max" toml:"whitespace_max"`
	OverlapPenalty float64 `json:"overlap_penalty" toml:"overlap_penalty"`
	IssueBelow     float64 `json:"issue_below" toml:"issue_below"`
}

// DefaultConfig returns the standard weights and thresholds.
func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			Horizontal: 0.25,
			Vertical:   0.25,
			Overlap:    0.25,
			Spacing:    0.15,
			Whitespace: 0.10,
		},
		IdealSpacing:   40,
		WhitespaceMin:  0.4,
		WhitespaceMax:  0.6,
		OverlapPenalty: 25,
		IssueBelow:     70,
	}
}

// Per-kind visual weight factors.
var kindFactor = map[document.Kind]float64{
	document.KindText:  0.8,
	document.KindCTA:   1.3,
	document.KindImage: 1.5,
	document.KindShape: 1.0,
}

// Pair names two overlapping layers.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Report is the outcome of Score. Scores are rounded to integers.
type Report struct {
	Overall     float64  `json:"overall"`
	Horizontal  float64  `json:"horizontal"`
	Vertical    float64  `json:"vertical"`
	Overlap     float64  `json:"overlap"`
	Spacing     float64  `json:"spacing"`
	Whitespace  float64  `json:"whitespace"`
	Overlaps    []Pair   `json:"overlaps,omitempty"`
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
}

type element struct {
	layer  document.Layer
	x, y   float64
	w, h   float64
	weight float64
}

func (e element) cx() float64 { return e.x + e.w/2 }
func (e element) cy() float64 { return e.y + e.h/2 }

func elements(layers []document.Layer) []element {
	var out []element
	for _, l := range layers {
		if !l.IsForeground() {
			continue
		}
		g := l.Geometry
		out = append(out, element{layer: l, x: g.X, y: g.Y, w: g.Width, h: g.Height, weight: Weight(l)})
	}
	return out
}

// Weight returns the visual weight of a layer: area × kind factor × opacity,
// scaled by fontWeight/400 for text.
func Weight(l document.Layer) float64 {
	w := l.Geometry.Width * l.Geometry.Height
	if f, ok := kindFactor[l.Kind]; ok {
		w *= f
	}
	w *= l.Opacity
	if l.Kind == document.KindText && l.Text != nil && l.Text.FontWeight > 0 {
		w *= float64(l.Text.FontWeight) / 400
	}
	return w
}

// Score grades the layers on a width × height canvas.
func Score(layers []document.Layer, width, height float64, cfg Config) Report {
	els := elements(layers)
	r := Report{Issues: []string{}, Suggestions: []string{}}

	issue := func(msg, suggestion string) {
		r.Issues = append(r.Issues, msg)
		r.Suggestions = append(r.Suggestions, suggestion)
	}

	r.Horizontal = axisBalance(els, width/2, element.cx)
	if r.Horizontal < cfg.IssueBelow {
		issue(fmt.Sprintf("Horizontal imbalance detected (score: %.0f)", r.Horizontal),
			"Redistribute elements more evenly across left and right sides")
	}

	r.Vertical = axisBalance(els, height/2, element.cy)
	if r.Vertical < cfg.IssueBelow {
		issue(fmt.Sprintf("Vertical imbalance detected (score: %.0f)", r.Vertical),
			"Adjust element placement to balance top and bottom areas")
	}

	r.Overlaps = overlaps(els)
	r.Overlap = math.Max(0, 100-cfg.OverlapPenalty*float64(len(r.Overlaps)))
	for _, p := range r.Overlaps {
		issue(fmt.Sprintf("%s overlaps with %s", p.A, p.B),
			fmt.Sprintf("Move %s or %s so they no longer overlap", p.A, p.B))
	}

	r.Spacing = spacing(els, cfg.IdealSpacing)
	if r.Spacing < cfg.IssueBelow {
		issue(fmt.Sprintf("Elements are too close together (score: %.0f)", r.Spacing),
			fmt.Sprintf("Increase margins between elements (recommended: %.0fpx minimum)", cfg.IdealSpacing))
	}

	var ratio float64
	r.Whitespace, ratio = whitespace(els, width, height, cfg)
	if r.Whitespace < cfg.IssueBelow {
		if ratio < cfg.WhitespaceMin {
			issue(fmt.Sprintf("Layout feels cramped (%.0f%% whitespace)", ratio*100),
				"Reduce element sizes or remove less important elements")
		} else {
			issue(fmt.Sprintf("Layout feels empty (%.0f%% whitespace)", ratio*100),
				"Add more content or increase element sizes")
		}
	}

	w := cfg.Weights
	overall := r.Horizontal*w.Horizontal + r.Vertical*w.Vertical + r.Overlap*w.Overlap +
		r.Spacing*w.Spacing + r.Whitespace*w.Whitespace
	r.Overall = math.Round(clamp(overall))
	r.Horizontal = math.Round(r.Horizontal)
	r.Vertical = math.Round(r.Vertical)
	r.Overlap = math.Round(r.Overlap)
	r.Spacing = math.Round(r.Spacing)
	r.Whitespace = math.Round(r.Whitespace)
	return r
}

// IsBalanced reports whether the layers score at least threshold overall.
func IsBalanced(layers []document.Layer, width, height, threshold float64) bool {
	return Score(layers, width, height, DefaultConfig()).Overall >= threshold
}

// axisBalance compares the weight moments on either side of center. All
// weight on one side scores 0, equal moments score 100.
func axisBalance(els []element, center float64, pos func(element) float64) float64 {
	var low, high float64
	for _, e := range els {
		p := pos(e)
		if p < center {
			low += e.weight * (center - p) / center
		} else {
			high += e.weight * (p - center) / center
		}
	}
	total := low + high
	if total == 0 {
		return 100
	}
	return math.Max(0, 100-200*math.Abs(low/total-0.5))
}

// stackedByDesign reports whether a pair is layered on purpose: decorative
// accents sit behind the content they frame.
func stackedByDesign(a, b document.Layer) bool {
	decor := func(l document.Layer) bool {
		return l.Role == document.RoleAccent || (l.Kind == document.KindShape && l.Locked)
	}
	return decor(a) || decor(b)
}

func overlaps(els []element) []Pair {
	var out []Pair
	for i := 0; i < len(els); i++ {
		for j := i + 1; j < len(els); j++ {
			a, b := els[i], els[j]
			if stackedByDesign(a.layer, b.layer) {
				continue
			}
			if a.x < b.x+b.w && a.x+a.w > b.x && a.y < b.y+b.h && a.y+a.h > b.y {
				out = append(out, Pair{A: label(a.layer), B: label(b.layer)})
			}
		}
	}
	return out
}

func label(l document.Layer) string {
	if l.Name != "" {
		return l.Name
	}
	return l.ID
}

// gap is the edge-to-edge distance between two boxes, 0 when they touch
// or overlap.
func gap(a, b element) float64 {
	dx := math.Max(0, math.Max(b.x-(a.x+a.w), a.x-(b.x+b.w)))
	dy := math.Max(0, math.Max(b.y-(a.y+a.h), a.y-(b.y+b.h)))
	return math.Max(dx, dy)
}

func spacing(els []element, ideal float64) float64 {
	if len(els) < 2 || ideal <= 0 {
		return 100
	}
	var sum float64
	for i, a := range els {
		nearest := math.Inf(1)
		for j, b := range els {
			if i != j {
				nearest = math.Min(nearest, gap(a, b))
			}
		}
		sum += nearest
	}
	mean := sum / float64(len(els))
	return math.Min(100, mean/ideal*100)
}

func whitespace(els []element, width, height float64, cfg Config) (score, ratio float64) {
	total := width * height
	if total <= 0 {
		return 0, 0
	}
	var used float64
	for _, e := range els {
		used += e.w * e.h
	}
	ratio = math.Max(0, 1-used/total)
	switch {
	case ratio < cfg.WhitespaceMin:
		return ratio / cfg.WhitespaceMin * 100, ratio
	case ratio > cfg.WhitespaceMax:
		return (1 - ratio) / (1 - cfg.WhitespaceMax) * 100, ratio
	}
	return 100, ratio
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}
