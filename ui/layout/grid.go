// Package layout positions the board's cells on screen. It has no renderer
// dependency so hit testing can be checked without a window.
package layout

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether (x, y) lies inside r. The right and bottom
// edges are exclusive so adjacent rectangles never both claim a point.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Grid lays out Rows x Cols square cells, row-major, centered in an area.
// Cells shrink to fit when the area is too small for the preferred size.
type Grid struct {
	Rows, Cols int
	Cell       float32 // Cell edge length
	Gap        float32 // Space between cells
	Origin     Rect    // Bounding box of the whole grid
}

// NewGrid fits rows x cols cells of at most cellSize into area.
func NewGrid(rows, cols int, cellSize, gap float32, area Rect) Grid {
	g := Grid{Rows: rows, Cols: cols, Gap: gap}
	if rows <= 0 || cols <= 0 {
		return g
	}

	fit := func(span float32, n int) float32 {
		return (span - gap*float32(n-1)) / float32(n)
	}
	size := cellSize
	if w := fit(area.Width, cols); w < size {
		size = w
	}
	if h := fit(area.Height, rows); h < size {
		size = h
	}
	if size < 1 {
		size = 1
	}
	g.Cell = size

	width := size*float32(cols) + gap*float32(cols-1)
	height := size*float32(rows) + gap*float32(rows-1)
	g.Origin = Rect{
		X:      area.X + (area.Width-width)/2,
		Y:      area.Y + (area.Height-height)/2,
		Width:  width,
		Height: height,
	}
	return g
}

// Len returns the number of cells.
func (g Grid) Len() int {
	return g.Rows * g.Cols
}

// CellRect returns the rectangle of cell i.
func (g Grid) CellRect(i int) Rect {
	row, col := i/g.Cols, i%g.Cols
	step := g.Cell + g.Gap
	return Rect{
		X:      g.Origin.X + float32(col)*step,
		Y:      g.Origin.Y + float32(row)*step,
		Width:  g.Cell,
		Height: g.Cell,
	}
}

// CellAt returns the index of the cell under (x, y). Points in the gaps
// or outside the grid hit nothing.
func (g Grid) CellAt(x, y float32) (int, bool) {
	if g.Len() == 0 || !g.Origin.Contains(x, y) {
		return -1, false
	}
	step := g.Cell + g.Gap
	col := int((x - g.Origin.X) / step)
	row := int((y - g.Origin.Y) / step)
	if col >= g.Cols || row >= g.Rows {
		return -1, false
	}
	i := row*g.Cols + col
	if !g.CellRect(i).Contains(x, y) {
		return -1, false
	}
	return i, true
}
