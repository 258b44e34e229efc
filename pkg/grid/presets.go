package grid

import "math"

// ReferenceRows is the row count of the square format. Templates are
// authored against it and rescaled to the target format by [PlaceReference].
const ReferenceRows = 8

// PlaceReference places a span authored on the 8-row reference grid.
// Rows are scaled proportionally to the format's own row count so the same
// template fits story (14 rows) and landscape (4 rows) canvases. For the
// square format it is identical to [Place].
func PlaceReference(c Config, col, colSpan, row, rowSpan int) (Position, error) {
	r, rs := scaleRows(c, row, rowSpan)
	return Place(c, col, colSpan, r, rs)
}

// CenteredReference is [Centered] on the reference grid.
func CenteredReference(c Config, colSpan, row, rowSpan int) (Position, error) {
	r, rs := scaleRows(c, row, rowSpan)
	return Centered(c, colSpan, r, rs)
}

func scaleRows(c Config, row, rowSpan int) (int, int) {
	rows := c.Rows()
	if rows == ReferenceRows || row < 1 || rowSpan < 1 {
		return row, rowSpan
	}
	ratio := float64(rows) / ReferenceRows
	r := 1 + int(math.Floor(float64(row-1)*ratio))
	rs := max(1, int(math.Round(float64(rowSpan)*ratio)))
	r = min(r, rows)
	if r+rs-1 > rows {
		rs = rows - r + 1
	}
	return r, rs
}

// Headline is a full-width band across the first two rows.
func Headline(c Config) (Position, error) {
	return Place(c, 1, 12, 1, 2)
}

// ProductCentered is an 8-column product zone starting at row 4.
func ProductCentered(c Config) (Position, error) {
	return CenteredReference(c, 8, 4, 4)
}

// ProductHero is a 10-column hero product zone starting at row 3.
func ProductHero(c Config) (Position, error) {
	return CenteredReference(c, 10, 3, 5)
}

// CTABottom is a centered 6-column button on the last row.
func CTABottom(c Config) (Position, error) {
	return Centered(c, 6, c.Rows(), 1)
}

// Description is a 10-column band on row 3.
func Description(c Config) (Position, error) {
	return PlaceReference(c, 2, 10, 3, 1)
}

// BadgeTopRight is a two-column badge in the top right corner.
func BadgeTopRight(c Config) (Position, error) {
	return Place(c, 10, 2, 1, 1)
}

// SocialProof is a centered 8-column band directly above the CTA row.
func SocialProof(c Config) (Position, error) {
	return Centered(c, 8, max(1, c.Rows()-1), 1)
}
