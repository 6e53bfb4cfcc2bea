package occupancy

import (
	"fmt"
	"image"
)

// Grid is a row-major raster. Row 0 is the top (north) row; column 0 is west.
type Grid struct {
	Width  int
	Height int
	Cells  []CellState
}

// NewGrid returns a grid with every cell occupied.
func NewGrid(width, height int) *Grid {
	return &Grid{
		Width:  width,
		Height: height,
		Cells:  make([]CellState, width*height), // CellOccupied is the zero value
	}
}

// InBounds reports whether (col, row) is inside the grid.
func (g *Grid) InBounds(col, row int) bool {
	return col >= 0 && col < g.Width && row >= 0 && row < g.Height
}

// At returns the cell at (col, row). Out-of-range cells read as occupied.
func (g *Grid) At(col, row int) CellState {
	if !g.InBounds(col, row) {
		return CellOccupied
	}
	return g.Cells[row*g.Width+col]
}

// Set writes a cell. Out-of-range writes are dropped.
func (g *Grid) Set(col, row int, c CellState) {
	if g.InBounds(col, row) {
		g.Cells[row*g.Width+col] = c
	}
}

// Count returns the number of cells per state.
func (g *Grid) Count() map[CellState]int {
	counts := make(map[CellState]int)
	for _, c := range g.Cells {
		counts[c]++
	}
	return counts
}

// Image returns the grid as an 8-bit grayscale image sharing no memory with g.
func (g *Grid) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Width, g.Height))
	for i, c := range g.Cells {
		img.Pix[i] = uint8(c)
	}
	return img
}

// GridFromImage reads a grayscale raster back into a grid.
func GridFromImage(img *image.Gray) (*Grid, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("empty image %v", b)
	}
	g := NewGrid(b.Dx(), b.Dy())
	for row := 0; row < g.Height; row++ {
		off := img.PixOffset(b.Min.X, b.Min.Y+row)
		for col := 0; col < g.Width; col++ {
			g.Cells[row*g.Width+col] = CellState(img.Pix[off+col])
		}
	}
	return g, nil
}
