package variation

import (
	"math"
	"runtime"

	"github.com/matzehuels/adlayout/pkg/errors"
)

// Weights are the overall-score weights. They must sum to 1.
type Weights struct {
	Uniqueness  float64 `json:"uniqueness" toml:"uniqueness"`
	Harmony     float64 `json:"harmony" toml:"harmony"`
	Balance     float64 `json:"balance" toml:"balance"`
	Readability float64 `json:"readability" toml:"readability"`
}

// SimilarityWeights are the points two variations earn per matching
// attribute. They must sum to 100.
type SimilarityWeights struct {
	ColorStrategy float64 `json:"color_strategy" toml:"color_strategy"`
	Transform     float64 `json:"transform" toml:"transform"`
	Spacing       float64 `json:"spacing" toml:"spacing"`
	HeadlineFont  float64 `json:"headline_font" toml:"headline_font"`
	ShapeStyle    float64 `json:"shape_style" toml:"shape_style"`
}

// Config holds every threshold and weight of the generator.
type Config struct {
	// QualityFloor is the minimum overall score a variation needs to be kept.
	QualityFloor float64 `json:"quality_floor" toml:"quality_floor"`
	// SimilarityThreshold: pairs scoring above it are near-duplicates.
	SimilarityThreshold float64           `json:"similarity_threshold" toml:"similarity_threshold"`
	Weights             Weights           `json:"weights" toml:"weights"`
	Similarity          SimilarityWeights `json:"similarity" toml:"similarity"`
	// Workers bounds parallel generation. Zero means GOMAXPROCS.
	Workers int `json:"workers" toml:"workers"`
}

// Defaults.
const (
	DefaultQualityFloor        = 70.0
	DefaultSimilarityThreshold = 70.0
)

// DefaultConfig returns the default weights and thresholds: a 70 quality
// floor, a 70 similarity threshold, 30/30/20/20 score weights and
// 25/25/15/20/15 similarity weights.
func DefaultConfig() Config {
	return Config{
		QualityFloor:        DefaultQualityFloor,
		SimilarityThreshold: DefaultSimilarityThreshold,
		Weights:             Weights{Uniqueness: 0.3, Harmony: 0.3, Balance: 0.2, Readability: 0.2},
		Similarity: SimilarityWeights{
			ColorStrategy: 25,
			Transform:     25,
			Spacing:       15,
			HeadlineFont:  20,
			ShapeStyle:    15,
		},
	}
}

const weightTolerance = 1e-6

// Validate checks ranges and weight sums.
func (c Config) Validate() error {
	if c.QualityFloor < 0 || c.QualityFloor > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "quality floor %v outside 0-100", c.QualityFloor)
	}
	if c.SimilarityThreshold < 0 || c.SimilarityThreshold > 100 {
		return errors.New(errors.ErrCodeInvalidConfig, "similarity threshold %v outside 0-100", c.SimilarityThreshold)
	}
	w := c.Weights
	for _, v := range []float64{w.Uniqueness, w.Harmony, w.Balance, w.Readability} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "negative score weight %v", v)
		}
	}
	if sum := w.Uniqueness + w.Harmony + w.Balance + w.Readability; math.Abs(sum-1) > weightTolerance {
		return errors.New(errors.ErrCodeInvalidConfig, "score weights sum to %v, want 1", sum)
	}
	s := c.Similarity
	for _, v := range []float64{s.ColorStrategy, s.Transform, s.Spacing, s.HeadlineFont, s.ShapeStyle} {
		if v < 0 {
			return errors.New(errors.ErrCodeInvalidConfig, "negative similarity weight %v", v)
		}
	}
	if sum := s.ColorStrategy + s.Transform + s.Spacing + s.HeadlineFont + s.ShapeStyle; math.Abs(sum-100) > weightTolerance {
		return errors.New(errors.ErrCodeInvalidConfig, "similarity weights sum to %v, want 100", sum)
	}
	if c.Workers < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be >= 0, got %d", c.Workers)
	}
	return nil
}

func (c Config) workers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
