package vision

import (
	"bytes"
	"context"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/adlayout/pkg/errors"
	"github.com/matzehuels/adlayout/pkg/grid"
	"github.com/matzehuels/adlayout/pkg/palette"
)

// ImageAnalyzer analyzes an image locally from its pixels. It assumes a
// product shot on a plain or transparent background: the background color
// is estimated from the border and every pixel that differs from it
// belongs to the product.
type ImageAnalyzer struct {
	// Canvas is the area the image is fitted into. Zero means DefaultCanvas.
	Canvas grid.Rect
	// Tolerance is the RGB distance (0-1.73) above which a pixel differs
	// from the background. Zero means 0.15.
	Tolerance float64
	// MaxSide is the working resolution. Zero means 256.
	MaxSide int
}

// NewImageAnalyzer returns an analyzer with default settings.
func NewImageAnalyzer() *ImageAnalyzer { return &ImageAnalyzer{} }

func (a *ImageAnalyzer) Name() string { return "image" }

// minAlpha is the alpha below which a pixel counts as transparent.
const minAlpha = 0x80

// MaxPixels bounds the decoded size of an image. Larger images are
// rejected before their pixels are decoded.
const MaxPixels = 40_000_000

// Analyze decodes a PNG, JPEG, GIF or WebP image and derives the analysis
// from the product's bounding box.
func (a *ImageAnalyzer) Analyze(ctx context.Context, data []byte) (Analysis, error) {
	if len(data) == 0 {
		return Analysis{}, errors.New(errors.ErrCodeInvalidImage, "empty image")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Analysis{}, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image header")
	}
	if px := int64(cfg.Width) * int64(cfg.Height); cfg.Width <= 0 || cfg.Height <= 0 || px > MaxPixels {
		return Analysis{}, errors.New(errors.ErrCodeInvalidImage, "image is %dx%d, max %d pixels", cfg.Width, cfg.Height, MaxPixels)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Analysis{}, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode image")
	}
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}

	canvas := a.Canvas
	if canvas.Width <= 0 || canvas.Height <= 0 {
		canvas = DefaultCanvas
	}
	tol := a.Tolerance
	if tol <= 0 {
		tol = 0.15
	}
	maxSide := a.MaxSide
	if maxSide <= 0 {
		maxSide = 256
	}

	img := downscale(src, maxSide)
	bg, transparent := borderColor(img)
	box, fg := foreground(img, bg, transparent, tol)
	if box.Empty() {
		return Analysis{}, errors.New(errors.ErrCodeInvalidImage, "no product found in image")
	}

	background := palette.White
	if !transparent {
		background = palette.Format(bg)
	}
	res := Derive(fitToCanvas(box, img.Bounds(), canvas), productColors(fg, background), canvas)
	res.Objects[0].Confidence = math.Round(float64(len(fg))/float64(box.Dx()*box.Dy())*100) / 100
	return res, nil
}

func downscale(src image.Image, maxSide int) *image.RGBA {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	scale := math.Min(1, float64(maxSide)/float64(max(w, h)))
	nw, nh := max(1, int(float64(w)*scale)), max(1, int(float64(h)*scale))
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// straight converts a premultiplied pixel to a color, reporting whether it
// is opaque enough to count.
func straight(p color.RGBA) (colorful.Color, bool) {
	if p.A < minAlpha {
		return colorful.Color{}, false
	}
	a := float64(p.A)
	return colorful.Color{R: float64(p.R) / a, G: float64(p.G) / a, B: float64(p.B) / a}, true
}

// borderColor returns the most common border color, or transparent when
// most of the border is transparent.
func borderColor(img *image.RGBA) (colorful.Color, bool) {
	b := img.Bounds()
	h := newHistogram()
	empty := 0
	visit := func(x, y int) {
		if c, ok := straight(img.RGBAAt(x, y)); ok {
			h.add(c)
		} else {
			empty++
		}
	}
	for x := b.Min.X; x < b.Max.X; x++ {
		visit(x, b.Min.Y)
		visit(x, b.Max.Y-1)
	}
	for y := b.Min.Y + 1; y < b.Max.Y-1; y++ {
		visit(b.Min.X, y)
		visit(b.Max.X-1, y)
	}
	if empty > h.total {
		return colorful.Color{}, true
	}
	top := h.ranked()
	if len(top) == 0 {
		return colorful.Color{}, true
	}
	return top[0].mean(), false
}

func foreground(img *image.RGBA, bg colorful.Color, transparent bool, tol float64) (image.Rectangle, []colorful.Color) {
	b := img.Bounds()
	box := image.Rectangle{}
	var fg []colorful.Color
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := straight(img.RGBAAt(x, y))
			if !ok || (!transparent && c.DistanceRgb(bg) <= tol) {
				continue
			}
			fg = append(fg, c)
			box = box.Union(image.Rect(x, y, x+1, y+1))
		}
	}
	return box, fg
}

// fitToCanvas maps box from image space onto the image fitted (contained
// and centered) in canvas.
func fitToCanvas(box, bounds image.Rectangle, canvas grid.Rect) grid.Rect {
	iw, ih := float64(bounds.Dx()), float64(bounds.Dy())
	s := math.Min(canvas.Width/iw, canvas.Height/ih)
	ox := canvas.X + (canvas.Width-iw*s)/2
	oy := canvas.Y + (canvas.Height-ih*s)/2
	return grid.Rect{
		X:      math.Round(ox + float64(box.Min.X-bounds.Min.X)*s),
		Y:      math.Round(oy + float64(box.Min.Y-bounds.Min.Y)*s),
		Width:  math.Round(float64(box.Dx()) * s),
		Height: math.Round(float64(box.Dy()) * s),
	}
}

// accentDistance is the minimum Lab distance between dominant and accent.
const accentDistance = 0.25

func productColors(fg []colorful.Color, background string) Colors {
	h := newHistogram()
	for _, c := range fg {
		h.add(c)
	}
	ranked := h.ranked()
	dom := ranked[0].mean()
	dominant := palette.Format(dom)

	accent := ""
	for _, b := range ranked[1:] {
		if m := b.mean(); m.DistanceLab(dom) > accentDistance {
			accent = palette.Format(m)
			break
		}
	}
	if accent == "" {
		if comp, err := palette.Complementary(dominant); err == nil {
			accent = comp[1]
		}
	}

	var safe []string
	for _, c := range []string{palette.White, palette.Black, dominant, accent} {
		if r, err := palette.Ratio(c, background); err == nil && r >= palette.RatioAA {
			safe = append(safe, c)
		}
	}
	return Colors{Dominant: dominant, Accent: accent, Background: background, TextSafe: safe}
}

// =============================================================================
// Color histogram
// =============================================================================

// histogram buckets colors at 4 bits per channel.
type histogram struct {
	buckets map[uint16]*bucket
	total   int
}

type bucket struct {
	key     uint16
	n       int
	r, g, b float64
}

func (b *bucket) mean() colorful.Color {
	n := float64(b.n)
	return colorful.Color{R: b.r / n, G: b.g / n, B: b.b / n}
}

func newHistogram() *histogram { return &histogram{buckets: map[uint16]*bucket{}} }

func (h *histogram) add(c colorful.Color) {
	q := func(v float64) uint16 { return uint16(math.Min(15, math.Max(0, v*16))) }
	key := q(c.R)<<8 | q(c.G)<<4 | q(c.B)
	b, ok := h.buckets[key]
	if !ok {
		b = &bucket{key: key}
		h.buckets[key] = b
	}
	b.n++
	b.r += c.R
	b.g += c.G
	b.b += c.B
	h.total++
}

// ranked returns buckets by count, most common first, ties by key.
func (h *histogram) ranked() []*bucket {
	out := make([]*bucket, 0, len(h.buckets))
	for _, b := range h.buckets {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].n != out[j].n {
			return out[i].n > out[j].n
		}
		return out[i].key < out[j].key
	})
	return out
}
