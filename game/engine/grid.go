package engine

import "fmt"

// Grid is the immutable coordinate system of a board: lattice size in cells
// and the pixel size of one cell.
type Grid struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	CellWidth  int `json:"cell_width"`
	CellHeight int `json:"cell_height"`
}

// NewGrid creates a grid of width x height cells, each cellWidth x cellHeight pixels
func NewGrid(width, height, cellWidth, cellHeight int) (*Grid, error) {
	if width < MinGridSize || height < MinGridSize {
		return nil, fmt.Errorf("%w: grid size %dx%d", ErrInvalidGrid, width, height)
	}
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("%w: cell size %dx%d", ErrInvalidGrid, cellWidth, cellHeight)
	}
	return &Grid{
		Width:      width,
		Height:     height,
		CellWidth:  cellWidth,
		CellHeight: cellHeight,
	}, nil
}

// MapPosition returns the pixel position of the cell's center
func (g *Grid) MapPosition(cell Cell) Point {
	return Point{
		X: cell.X*g.CellWidth + g.CellWidth/2,
		Y: cell.Y*g.CellHeight + g.CellHeight/2,
	}
}

// GridCoordinates returns the cell containing a pixel position.
// Division floors, so negative pixels land on negative cells.
func (g *Grid) GridCoordinates(p Point) Cell {
	return Cell{X: floorDiv(p.X, g.CellWidth), Y: floorDiv(p.Y, g.CellHeight)}
}

// IsWithinBounds reports whether the cell lies on the lattice
func (g *Grid) IsWithinBounds(cell Cell) bool {
	insideX := cell.X >= 0 && cell.X < g.Width
	insideY := cell.Y >= 0 && cell.Y < g.Height
	return insideX && insideY
}

// Clamp clamps each coordinate independently into the lattice
func (g *Grid) Clamp(cell Cell) Cell {
	return Cell{
		X: clampInt(cell.X, 0, g.Width-1),
		Y: clampInt(cell.Y, 0, g.Height-1),
	}
}

// CellIndex returns the row-major index of an in-bounds cell.
// Distinct in-bounds cells never share an index.
func (g *Grid) CellIndex(cell Cell) int64 {
	return int64(cell.X) + int64(g.Width)*int64(cell.Y)
}

// CellFromIndex inverts CellIndex for indexes in [0, Size())
func (g *Grid) CellFromIndex(index int64) Cell {
	w := int64(g.Width)
	return Cell{X: int(index % w), Y: int(index / w)}
}

// Neighbors returns the four axis neighbors of a cell without bounds filtering
func (g *Grid) Neighbors(cell Cell) []Cell {
	out := make([]Cell, 0, len(Directions))
	for _, d := range Directions {
		out = append(out, cell.Add(d))
	}
	return out
}

// Size returns the number of cells on the lattice
func (g *Grid) Size() int {
	return g.Width * g.Height
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
