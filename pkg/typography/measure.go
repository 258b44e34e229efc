package typography

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/matzehuels/adlayout/pkg/errors"
)

// DefaultLineHeight is the line height multiplier used by measurers.
const DefaultLineHeight = 1.2

// Metrics is the measured box of a wrapped text block.
type Metrics struct {
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	LineCount int     `json:"line_count"`
}

// Measurer measures text wrapped to maxWidth. A maxWidth of zero or less
// disables wrapping. Height assumes DefaultLineHeight.
type Measurer interface {
	Measure(text, family string, weight int, size, maxWidth float64) Metrics
}

// =============================================================================
// Approximate measurement
// =============================================================================

// approxGlyphWidth is the average advance of a glyph in em units.
const approxGlyphWidth = 0.6

// ApproxMeasurer estimates widths as 0.6·size per rune. It ignores family
// and weight.
type ApproxMeasurer struct{}

// Measure implements Measurer.
func (ApproxMeasurer) Measure(text, _ string, _ int, size, maxWidth float64) Metrics {
	advance := func(s string) float64 {
		return float64(utf8.RuneCountInString(s)) * size * approxGlyphWidth
	}
	return measureWrapped(text, size, maxWidth, advance)
}

// =============================================================================
// Font-backed measurement
// =============================================================================

// Weight buckets map CSS weights onto the embedded Go font variants.
const (
	bucketRegular = iota
	bucketMedium
	bucketBold
)

func weightBucket(weight int) int {
	switch {
	case weight >= 700:
		return bucketBold
	case weight >= 500:
		return bucketMedium
	default:
		return bucketRegular
	}
}

type faceKey struct {
	bucket int
	size   float64
}

// FaceMeasurer measures text with the embedded Go fonts (regular, medium
// and bold). The requested family is not available offline, so every family
// is measured with the Go face of the matching weight. Faces are created
// lazily and cached per weight bucket and size.
type FaceMeasurer struct {
	fonts [3]*opentype.Font

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

// NewFaceMeasurer parses the embedded fonts.
func NewFaceMeasurer() (*FaceMeasurer, error) {
	m := &FaceMeasurer{faces: make(map[faceKey]font.Face)}
	for i, data := range [][]byte{goregular.TTF, gomedium.TTF, gobold.TTF} {
		f, err := opentype.Parse(data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeMeasurement, err, "parse embedded font")
		}
		m.fonts[i] = f
	}
	return m, nil
}

// Measure implements Measurer. If a face cannot be built for the size, the
// approximate measurement is returned instead.
func (m *FaceMeasurer) Measure(text, family string, weight int, size, maxWidth float64) Metrics {
	face, err := m.face(weightBucket(weight), size)
	if err != nil {
		return ApproxMeasurer{}.Measure(text, family, weight, size, maxWidth)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	advance := func(s string) float64 {
		return float64(font.MeasureString(face, s)) / 64
	}
	return measureWrapped(text, size, maxWidth, advance)
}

func (m *FaceMeasurer) face(bucket int, size float64) (font.Face, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := faceKey{bucket: bucket, size: size}
	if f, ok := m.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(m.fonts[bucket], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMeasurement, err, "create face at %.1fpx", size)
	}
	m.faces[key] = f
	return f, nil
}

// Close releases cached faces.
func (m *FaceMeasurer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, f := range m.faces {
		f.Close()
		delete(m.faces, k)
	}
	return nil
}

var (
	defaultMeasurer     Measurer
	defaultMeasurerOnce sync.Once
)

// Default returns a shared FaceMeasurer, or ApproxMeasurer if the embedded
// fonts cannot be parsed.
func Default() Measurer {
	defaultMeasurerOnce.Do(func() {
		if m, err := NewFaceMeasurer(); err == nil {
			defaultMeasurer = m
		} else {
			defaultMeasurer = ApproxMeasurer{}
		}
	})
	return defaultMeasurer
}

// =============================================================================
// Wrapping
// =============================================================================

// Wrap breaks text into lines no wider than maxWidth using advance to
// measure candidate lines. Explicit newlines always break. A single word
// wider than maxWidth gets a line of its own.
func Wrap(text string, maxWidth float64, advance func(string) float64) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		current := words[0]
		for _, w := range words[1:] {
			candidate := current + " " + w
			if maxWidth > 0 && advance(candidate) > maxWidth {
				lines = append(lines, current)
				current = w
				continue
			}
			current = candidate
		}
		lines = append(lines, current)
	}
	return lines
}

func measureWrapped(text string, size, maxWidth float64, advance func(string) float64) Metrics {
	if strings.TrimSpace(text) == "" {
		return Metrics{}
	}
	lines := Wrap(text, maxWidth, advance)
	var width float64
	for _, l := range lines {
		width = math.Max(width, advance(l))
	}
	return Metrics{
		Width:     width,
		Height:    float64(len(lines)) * size * DefaultLineHeight,
		LineCount: len(lines),
	}
}
