package grid

// Overlay describes the guides of a grid for debugging and editor overlays.
type Overlay struct {
	Format   Format    `json:"format"`
	Columns  []Rect    `json:"columns"`
	RowLines []float64 `json:"row_lines"`
	SafeArea Rect      `json:"safe_area"`
}

// NewOverlay returns one rectangle per column, the y coordinate of every row
// boundary and the safe area.
func NewOverlay(c Config) Overlay {
	cw := c.ColumnWidth()
	inner := c.Height - 2*c.MarginY

	o := Overlay{
		Format:   c.Format,
		Columns:  make([]Rect, c.Columns),
		SafeArea: c.SafeArea(),
	}
	for i := range c.Columns {
		o.Columns[i] = Rect{
			X:      c.MarginX + float64(i)*(cw+c.Gutter),
			Y:      c.MarginY,
			Width:  cw,
			Height: inner,
		}
	}
	for r := 0; r <= c.Rows(); r++ {
		o.RowLines = append(o.RowLines, c.MarginY+float64(r)*RowHeight)
	}
	return o
}
