package grid

import (
	"math"
	"strings"

	"github.com/matzehuels/adlayout/pkg/errors"
)

// RowHeight is the fixed height of one grid row in pixels.
const RowHeight = 120.0

// Format identifies an output format.
type Format string

// Supported output formats.
const (
	FormatSquare    Format = "square"    // 1080x1080 feed post
	FormatStory     Format = "story"     // 1080x1920 full-screen story
	FormatLandscape Format = "landscape" // 1200x628 link preview
	FormatPortrait  Format = "portrait"  // 1080x1350 portrait feed post
)

// Formats lists every supported format in a stable order.
var Formats = []Format{FormatSquare, FormatStory, FormatLandscape, FormatPortrait}

// ParseFormat validates a format name. The empty string maps to square.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatSquare, nil
	}
	if _, ok := configs[f]; !ok {
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be one of: square, story, landscape, portrait)", s)
	}
	return f, nil
}

// Insets holds distances from each canvas edge.
type Insets struct {
	Top    float64 `json:"top" toml:"top"`
	Bottom float64 `json:"bottom" toml:"bottom"`
	Left   float64 `json:"left" toml:"left"`
	Right  float64 `json:"right" toml:"right"`
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the center point.
func (r Rect) Center() (float64, float64) { return r.X + r.Width/2, r.Y + r.Height/2 }

// Area returns width times height.
func (r Rect) Area() float64 { return r.Width * r.Height }

// Contains reports whether o lies entirely inside r.
func (r Rect) Contains(o Rect) bool {
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersect returns the overlapping region of r and o, or a zero Rect.
func (r Rect) Intersect(o Rect) Rect {
	x0, y0 := math.Max(r.X, o.X), math.Max(r.Y, o.Y)
	x1, y1 := math.Min(r.Right(), o.Right()), math.Min(r.Bottom(), o.Bottom())
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Config is the immutable grid geometry for one output format.
type Config struct {
	Format   Format  `json:"format"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Columns  int     `json:"columns"`
	Gutter   float64 `json:"gutter"`
	MarginX  float64 `json:"margin_x"`
	MarginY  float64 `json:"margin_y"`
	SafeZone Insets  `json:"safe_zone"`
}

var configs = map[Format]Config{
	FormatSquare: {
		Format: FormatSquare, Width: 1080, Height: 1080, Columns: 12, Gutter: 20,
		MarginX: 60, MarginY: 60,
		SafeZone: Insets{Top: 80, Bottom: 80, Left: 60, Right: 60},
	},
	FormatStory: {
		Format: FormatStory, Width: 1080, Height: 1920, Columns: 12, Gutter: 20,
		MarginX: 60, MarginY: 120,
		SafeZone: Insets{Top: 240, Bottom: 240, Left: 60, Right: 60}, // profile header, swipe-up area
	},
	FormatLandscape: {
		Format: FormatLandscape, Width: 1200, Height: 628, Columns: 12, Gutter: 24,
		MarginX: 80, MarginY: 40,
		SafeZone: Insets{Top: 60, Bottom: 60, Left: 80, Right: 80},
	},
	FormatPortrait: {
		Format: FormatPortrait, Width: 1080, Height: 1350, Columns: 12, Gutter: 20,
		MarginX: 60, MarginY: 80,
		SafeZone: Insets{Top: 100, Bottom: 100, Left: 60, Right: 60},
	},
}

// ConfigFor returns the grid configuration for a format.
func ConfigFor(f Format) (Config, error) {
	cfg, ok := configs[f]
	if !ok {
		return Config{}, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
	return cfg, nil
}

// MustConfig is ConfigFor for formats known at compile time. It panics on
// an unknown format.
func MustConfig(f Format) Config {
	cfg, err := ConfigFor(f)
	if err != nil {
		panic(err)
	}
	return cfg
}

// ColumnWidth returns the width of a single column.
func (c Config) ColumnWidth() float64 {
	available := c.Width - 2*c.MarginX
	gutters := c.Gutter * float64(c.Columns-1)
	return (available - gutters) / float64(c.Columns)
}

// Rows returns how many full rows fit between the vertical margins.
func (c Config) Rows() int {
	return int((c.Height - 2*c.MarginY) / RowHeight)
}

// Canvas returns the full canvas rectangle.
func (c Config) Canvas() Rect {
	return Rect{Width: c.Width, Height: c.Height}
}

// Validate checks the configuration invariants: positive column width and
// a safe zone strictly inside the canvas.
func (c Config) Validate() error {
	if c.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid %s: columns must be positive", c.Format)
	}
	if c.ColumnWidth() <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid %s: column width %.2f is not positive", c.Format, c.ColumnWidth())
	}
	s := c.SafeZone
	if s.Top < 0 || s.Bottom < 0 || s.Left < 0 || s.Right < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid %s: safe zone insets must be non-negative", c.Format)
	}
	if s.Left+s.Right >= c.Width || s.Top+s.Bottom >= c.Height {
		return errors.New(errors.ErrCodeInvalidConfig, "grid %s: safe zone does not fit the canvas", c.Format)
	}
	if c.Rows() < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid %s: no full row fits between margins", c.Format)
	}
	return nil
}

// SafeArea returns the rectangle left after removing the safe zone insets.
func (c Config) SafeArea() Rect {
	return Rect{
		X:      c.SafeZone.Left,
		Y:      c.SafeZone.Top,
		Width:  c.Width - c.SafeZone.Left - c.SafeZone.Right,
		Height: c.Height - c.SafeZone.Top - c.SafeZone.Bottom,
	}
}

// InSafeArea reports whether r lies entirely inside the safe area of c.
func InSafeArea(r Rect, c Config) bool {
	return c.SafeArea().Contains(r)
}

// Position is a resolved grid rectangle together with the span that produced it.
type Position struct {
	Rect
	Col     int `json:"col"`
	ColSpan int `json:"col_span"`
	Row     int `json:"row"`
	RowSpan int `json:"row_span"`
}

// Place resolves a column/row span to pixels. Columns and rows are 1-based.
func Place(c Config, col, colSpan, row, rowSpan int) (Position, error) {
	if col < 1 || col > c.Columns {
		return Position{}, errors.New(errors.ErrCodeInvalidSpan, "column %d out of range 1..%d", col, c.Columns)
	}
	if colSpan < 1 {
		return Position{}, errors.New(errors.ErrCodeInvalidSpan, "column span must be positive, got %d", colSpan)
	}
	if col+colSpan-1 > c.Columns {
		return Position{}, errors.New(errors.ErrCodeInvalidSpan, "column %d with span %d exceeds %d columns", col, colSpan, c.Columns)
	}
	rows := c.Rows()
	if row < 1 || row > rows {
		return Position{}, errors.New(errors.ErrCodeInvalidSpan, "row %d out of range 1..%d", row, rows)
	}
	if rowSpan < 1 {
		return Position{}, errors.New(errors.ErrCodeInvalidSpan, "row span must be positive, got %d", rowSpan)
	}
	if row+rowSpan-1 > rows {
		return Position{}, errors.New(errors.ErrCodeInvalidSpan, "row %d with span %d exceeds %d rows", row, rowSpan, rows)
	}

	cw := c.ColumnWidth()
	return Position{
		Rect: Rect{
			X:      c.MarginX + float64(col-1)*(cw+c.Gutter),
			Y:      c.MarginY + float64(row-1)*RowHeight,
			Width:  float64(colSpan)*cw + float64(colSpan-1)*c.Gutter,
			Height: float64(rowSpan) * RowHeight,
		},
		Col:     col,
		ColSpan: colSpan,
		Row:     row,
		RowSpan: rowSpan,
	}, nil
}

// Centered places a span horizontally centered on the grid.
func Centered(c Config, colSpan, row, rowSpan int) (Position, error) {
	col := (c.Columns-colSpan)/2 + 1
	return Place(c, col, colSpan, row, rowSpan)
}

// SnapResult is the outcome of snapping an x coordinate to the grid.
type SnapResult struct {
	Col int     `json:"col"`
	X   float64 `json:"x"`
}

// Snap rounds x to the nearest column start. The column is clamped to the grid.
func Snap(c Config, x float64) SnapResult {
	step := c.ColumnWidth() + c.Gutter
	col := int(math.Round((x-c.MarginX)/step)) + 1
	col = max(1, min(c.Columns, col))
	return SnapResult{Col: col, X: c.MarginX + float64(col-1)*step}
}
