package vision

import (
	"math"
	"sort"

	"github.com/matzehuels/adlayout/pkg/grid"
)

// AnalysisVersion is part of every analysis cache key. Bump it when the
// analysis output changes.
const AnalysisVersion = 1

// Side is a horizontal position.
type Side string

const (
	SideLeft   Side = "left"
	SideRight  Side = "right"
	SideCenter Side = "center"
)

// Vertical is a vertical position.
type Vertical string

const (
	VerticalTop    Vertical = "top"
	VerticalMiddle Vertical = "middle"
	VerticalBottom Vertical = "bottom"
)

// Region names a free-space region.
type Region string

const (
	RegionLeft   Region = "left"
	RegionRight  Region = "right"
	RegionTop    Region = "top"
	RegionBottom Region = "bottom"
)

// Corner names an open area around the product.
type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

// VisualWeight is the distribution of the product's weight, each 0-100.
type VisualWeight struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
	Center float64 `json:"center"`
}

// FreeSpace is a canvas region usable for text.
type FreeSpace struct {
	Region      Region    `json:"region"`
	Area        float64   `json:"area"`
	Suitability float64   `json:"suitability"` // 0-100
	Bounds      grid.Rect `json:"bounds"`
}

// Composition summarizes where the product sits.
type Composition struct {
	Balance          float64  `json:"balance"` // 50 is centered
	DominantSide     Side     `json:"dominant_side"`
	DominantVertical Vertical `json:"dominant_vertical"`
	OpenAreas        []Corner `json:"open_areas"`
}

// Colors are the product image colors.
type Colors struct {
	Dominant   string   `json:"dominant"`
	Accent     string   `json:"accent"`
	Background string   `json:"background"`
	TextSafe   []string `json:"text_safe"`
}

// Object is one detected object.
type Object struct {
	Label      string    `json:"label"`
	Confidence float64   `json:"confidence"`
	Box        grid.Rect `json:"box"`
}

// Analysis is the result of analyzing one product image. Coordinates are
// in canvas space.
type Analysis struct {
	BoundingBox  grid.Rect    `json:"bounding_box"`
	Canvas       grid.Rect    `json:"canvas"`
	VisualWeight VisualWeight `json:"visual_weight"`
	FreeSpaces   []FreeSpace  `json:"free_spaces"`
	Composition  Composition  `json:"composition"`
	Colors       Colors       `json:"colors"`
	Objects      []Object     `json:"objects,omitempty"`

	// Heuristic is set when the fixed fallback replaced a real analysis.
	Heuristic bool `json:"heuristic"`
}

// FreeSpace returns the free space for region.
func (a Analysis) FreeSpace(region Region) (FreeSpace, bool) {
	for _, s := range a.FreeSpaces {
		if s.Region == region {
			return s, true
		}
	}
	return FreeSpace{}, false
}

// DefaultCanvas is the square reference canvas analyses are expressed in.
var DefaultCanvas = grid.Rect{Width: 1080, Height: 1080}

// Free-space detection constants.
const (
	minFreeSpace    = 100.0 // smallest gap that counts as free
	freeSpaceInset  = 40.0  // padding between a free space and its neighbors
	openAreaMargin  = 200.0 // product distance from an edge for an open corner
	dominantSideMin = 60.0
	dominantVertMin = 55.0
)

// Free-space suitability for text, by region.
var suitability = map[Region]float64{
	RegionLeft:   90,
	RegionRight:  90,
	RegionTop:    85,
	RegionBottom: 95,
}

// Derive computes visual weight, free spaces and composition from a
// product bounding box on canvas.
func Derive(box grid.Rect, colors Colors, canvas grid.Rect) Analysis {
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = DefaultCanvas
	}
	w := weight(box, canvas)
	return Analysis{
		BoundingBox:  box,
		Canvas:       canvas,
		VisualWeight: w,
		FreeSpaces:   freeSpaces(box, canvas),
		Composition:  composition(box, w, canvas),
		Colors:       colors,
		Objects:      []Object{{Label: "product", Confidence: 1, Box: box}},
	}
}

func weight(box, canvas grid.Rect) VisualWeight {
	cx, cy := canvas.Center()
	px, py := box.Center()

	w := VisualWeight{Left: 30, Right: 30, Top: 40, Bottom: 40}
	if px < cx {
		w.Left = 70
	}
	if px > cx {
		w.Right = 70
	}
	if py < cy {
		w.Top = 60
	}
	if py > cy {
		w.Bottom = 60
	}
	// The center weight drops one point per 5px (at 1080 wide) of offset.
	w.Center = math.Max(0, 100-math.Abs(px-cx)/(canvas.Width/DefaultCanvas.Width)/5)
	return w
}

func freeSpaces(box, canvas grid.Rect) []FreeSpace {
	var out []FreeSpace
	add := func(r Region, area float64, bounds grid.Rect) {
		out = append(out, FreeSpace{Region: r, Area: area, Suitability: suitability[r], Bounds: bounds})
	}

	left := box.X - canvas.X
	if left > minFreeSpace {
		add(RegionLeft, left*canvas.Height, grid.Rect{
			X: canvas.X + freeSpaceInset, Y: canvas.Y,
			Width: left - 2*freeSpaceInset, Height: canvas.Height,
		})
	}
	right := canvas.Right() - box.Right()
	if right > minFreeSpace {
		add(RegionRight, right*canvas.Height, grid.Rect{
			X: box.Right() + freeSpaceInset, Y: canvas.Y,
			Width: right - 2*freeSpaceInset, Height: canvas.Height,
		})
	}
	top := box.Y - canvas.Y
	if top > minFreeSpace {
		add(RegionTop, canvas.Width*top, grid.Rect{
			X: canvas.X, Y: canvas.Y + freeSpaceInset,
			Width: canvas.Width, Height: top - 2*freeSpaceInset,
		})
	}
	bottom := canvas.Bottom() - box.Bottom()
	if bottom > minFreeSpace {
		add(RegionBottom, canvas.Width*bottom, grid.Rect{
			X: canvas.X, Y: box.Bottom() + freeSpaceInset,
			Width: canvas.Width, Height: bottom - 2*freeSpaceInset,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Suitability > out[j].Suitability })
	return out
}

func composition(box grid.Rect, w VisualWeight, canvas grid.Rect) Composition {
	c := Composition{
		Balance:          50 + (w.Left-w.Right)/2,
		DominantSide:     SideCenter,
		DominantVertical: VerticalMiddle,
		OpenAreas:        []Corner{},
	}
	switch {
	case w.Left > dominantSideMin:
		c.DominantSide = SideLeft
	case w.Right > dominantSideMin:
		c.DominantSide = SideRight
	}
	switch {
	case w.Top > dominantVertMin:
		c.DominantVertical = VerticalTop
	case w.Bottom > dominantVertMin:
		c.DominantVertical = VerticalBottom
	}

	roomLeft := box.X-canvas.X > openAreaMargin
	roomRight := canvas.Right()-box.Right() > openAreaMargin
	roomTop := box.Y-canvas.Y > openAreaMargin
	roomBottom := canvas.Bottom()-box.Bottom() > openAreaMargin
	if roomLeft && roomTop {
		c.OpenAreas = append(c.OpenAreas, CornerTopLeft)
	}
	if roomRight && roomTop {
		c.OpenAreas = append(c.OpenAreas, CornerTopRight)
	}
	if roomLeft && roomBottom {
		c.OpenAreas = append(c.OpenAreas, CornerBottomLeft)
	}
	if roomRight && roomBottom {
		c.OpenAreas = append(c.OpenAreas, CornerBottomRight)
	}
	return c
}

// Heuristic is the fixed analysis used when no real analysis is available:
// a centered product with generous free space at the bottom.
func Heuristic() Analysis {
	return Analysis{
		BoundingBox:  grid.Rect{X: 270, Y: 180, Width: 540, Height: 540},
		Canvas:       DefaultCanvas,
		VisualWeight: VisualWeight{Left: 50, Right: 50, Top: 40, Bottom: 60, Center: 80},
		FreeSpaces: []FreeSpace{{
			Region:      RegionBottom,
			Area:        1080 * 330,
			Suitability: 90,
			Bounds:      grid.Rect{X: 0, Y: 750, Width: 1080, Height: 330},
		}},
		Composition: Composition{
			Balance:          50,
			DominantSide:     SideCenter,
			DominantVertical: VerticalMiddle,
			OpenAreas:        []Corner{CornerBottomLeft, CornerBottomRight},
		},
		Colors: Colors{
			Dominant:   "#000000",
			Accent:     "#FFFFFF",
			Background: "#F5F5F5",
			TextSafe:   []string{"#FFFFFF", "#000000"},
		},
		Heuristic: true,
	}
}
