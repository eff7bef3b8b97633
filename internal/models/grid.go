package models

import "fmt"

// Grid is a fixed-resolution two-dimensional aggregate raster. Dimensions are
// fixed per configuration regardless of how many events fall in the visible
// range: aggregation is resolution-bounded, not data-size-bounded. Cells are
// stored row-major; row 0 is the bottom band.
type Grid struct {
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Cells  []float64 `json:"cells"`
}

// NewGrid returns an all-zero grid of the given dimensions.
func NewGrid(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("invalid grid resolution %dx%d: both dimensions must be at least 1", width, height)
	}
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]float64, width*height),
	}, nil
}

// At returns the cell value at column x, row y.
func (g *Grid) At(x, y int) float64 {
	return g.Cells[y*g.Width+x]
}

// Add accumulates v into the cell at column x, row y.
func (g *Grid) Add(x, y int, v float64) {
	g.Cells[y*g.Width+x] += v
}

// Row returns a copy of row y, left to right.
func (g *Grid) Row(y int) []float64 {
	row := make([]float64, g.Width)
	copy(row, g.Cells[y*g.Width:(y+1)*g.Width])
	return row
}

// Total returns the sum of all cells. For a count aggregation this equals the
// number of events rasterized into the grid; for a sum aggregation it equals
// the summed field over those events.
func (g *Grid) Total() float64 {
	var sum float64
	for _, c := range g.Cells {
		sum += c
	}
	return sum
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]float64, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{Width: g.Width, Height: g.Height, Cells: cells}
}

// Equal reports whether two grids have identical dimensions and cells.
func (g *Grid) Equal(other *Grid) bool {
	if g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for i, c := range g.Cells {
		if c != other.Cells[i] {
			return false
		}
	}
	return true
}
