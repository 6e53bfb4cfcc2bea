package occupancy

import (
	"math"
	"sort"
)

// pixel is a vertex in cell coordinates: column from the west edge, row from
// the bottom edge of the canvas.
type pixel struct {
	col, row int
}

// fillPolygon marks every cell on or inside the closed pixel ring as c.
// Edges are drawn with Bresenham; the interior uses an even-odd scanline
// through cell centres. Cells outside the grid are clipped.
func fillPolygon(g *Grid, ring []pixel, c CellState) {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		n--
	}
	if n == 0 {
		return
	}

	for i := 0; i < n; i++ {
		drawLine(g, ring[i], ring[(i+1)%n], c)
	}

	minRow, maxRow := ring[0].row, ring[0].row
	for _, p := range ring[:n] {
		minRow = min(minRow, p.row)
		maxRow = max(maxRow, p.row)
	}
	minRow = max(minRow, 0)
	maxRow = min(maxRow, g.Height-1)

	xs := make([]float64, 0, 8)
	for row := minRow; row <= maxRow; row++ {
		xs = xs[:0]
		y := float64(row)
		for i := 0; i < n; i++ {
			a, b := ring[i], ring[(i+1)%n]
			ya, yb := float64(a.row), float64(b.row)
			// half-open so a vertex shared by two edges counts once
			if (ya <= y && y < yb) || (yb <= y && y < ya) {
				t := (y - ya) / (yb - ya)
				xs = append(xs, float64(a.col)+t*float64(b.col-a.col))
			}
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			from := max(int(math.Ceil(xs[i])), 0)
			to := min(int(math.Floor(xs[i+1])), g.Width-1)
			for col := from; col <= to; col++ {
				g.setFromBottom(col, row, c)
			}
		}
	}
}

// drawLine rasterizes the segment a-b with Bresenham's algorithm after
// clipping it to the grid.
func drawLine(g *Grid, a, b pixel, c CellState) {
	a, b, ok := clipSegment(a, b, g.Width, g.Height)
	if !ok {
		return
	}

	dx := abs(b.col - a.col)
	dy := -abs(b.row - a.row)
	sx, sy := 1, 1
	if a.col > b.col {
		sx = -1
	}
	if a.row > b.row {
		sy = -1
	}

	err := dx + dy
	x, y := a.col, a.row
	for {
		g.setFromBottom(x, y, c)
		if x == b.col && y == b.row {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
	}
}

// clipSegment clips a-b to the cell rectangle [-0.5, w-0.5] x [-0.5, h-0.5]
// (Liang-Barsky). Segments already inside are returned unchanged.
func clipSegment(a, b pixel, w, h int) (pixel, pixel, bool) {
	x0, y0 := float64(a.col), float64(a.row)
	dx, dy := float64(b.col)-x0, float64(b.row)-y0
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, x0 + 0.5},
		{dx, float64(w) - 0.5 - x0},
		{-dy, y0 + 0.5},
		{dy, float64(h) - 0.5 - y0},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return a, b, false
			}
			t1 = min(t1, r)
		}
	}

	at := func(t float64) pixel {
		return pixel{col: int(math.Round(x0 + t*dx)), row: int(math.Round(y0 + t*dy))}
	}
	if t0 > 0 {
		a = at(t0)
	}
	if t1 < 1 {
		b = at(t1)
	}
	return a, b, true
}

// setFromBottom writes a cell addressed with rows counted from the bottom edge.
func (g *Grid) setFromBottom(col, row int, c CellState) {
	g.Set(col, g.Height-1-row, c)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
