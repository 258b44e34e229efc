package typography

// Default search bounds.
const (
	DefaultMinSize = 16
	DefaultMaxSize = 120
	DefaultFamily  = "Inter"
	DefaultWeight  = 400
)

// Constraints bound a text box. Zero values take the defaults above;
// LineHeight defaults to DefaultLineHeight.
type Constraints struct {
	MaxWidth   float64
	MaxHeight  float64
	MinSize    int
	MaxSize    int
	Family     string
	Weight     int
	LineHeight float64
}

func (c *Constraints) setDefaults() {
	if c.MinSize <= 0 {
		c.MinSize = DefaultMinSize
	}
	if c.MaxSize <= 0 {
		c.MaxSize = DefaultMaxSize
	}
	if c.MaxSize < c.MinSize {
		c.MaxSize = c.MinSize
	}
	if c.Family == "" {
		c.Family = DefaultFamily
	}
	if c.Weight <= 0 {
		c.Weight = DefaultWeight
	}
	if c.LineHeight <= 0 {
		c.LineHeight = DefaultLineHeight
	}
}

// Fit is the result of FindOptimalSize.
type Fit struct {
	Size          float64 `json:"size"`
	Lines         int     `json:"lines"`
	Width         float64 `json:"width"`
	Height        float64 `json:"height"`
	Overflow      bool    `json:"overflow"`
	LetterSpacing float64 `json:"letter_spacing"`
	Family        string  `json:"family"`
	Weight        int     `json:"weight"`
}

// FindOptimalSize returns the largest integer size in [MinSize, MaxSize]
// whose wrapped text fits within MaxWidth × MaxHeight. When even MinSize
// overflows, the MinSize measurement is returned with Overflow set.
func FindOptimalSize(m Measurer, text string, c Constraints) Fit {
	c.setDefaults()

	measure := func(size int) Fit {
		s := float64(size)
		met := m.Measure(text, c.Family, c.Weight, s, c.MaxWidth)
		return Fit{
			Size:          s,
			Lines:         met.LineCount,
			Width:         met.Width,
			Height:        float64(met.LineCount) * s * c.LineHeight,
			LetterSpacing: LetterSpacing(s, c.Weight),
			Family:        c.Family,
			Weight:        c.Weight,
		}
	}
	fits := func(f Fit) bool {
		return f.Height <= c.MaxHeight && (c.MaxWidth <= 0 || f.Width <= c.MaxWidth)
	}

	best, found := Fit{}, false
	lo, hi := c.MinSize, c.MaxSize
	for lo <= hi {
		mid := (lo + hi) / 2
		f := measure(mid)
		if fits(f) {
			best, found = f, true
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if !found {
		best = measure(c.MinSize)
		best.Overflow = true
	}
	return best
}
