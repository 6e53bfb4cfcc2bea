// Package occupancy rasterizes free-space polygons into a Nav2 occupancy grid
// aligned to a local frame.
package occupancy

import "fmt"

// CellState is the raster value of one grid cell as map_server reads it
// in trinary mode with negate 0.
type CellState uint8

// Cell states.
const (
	CellOccupied CellState = 0   // black
	CellUnknown  CellState = 205 // reserved, never written by Build
	CellFree     CellState = 254 // white
)

// String returns a human-readable state name.
func (c CellState) String() string {
	switch c {
	case CellOccupied:
		return "Occupied"
	case CellFree:
		return "Free"
	case CellUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Unknown(%d)", uint8(c))
	}
}

// IsFree returns true if the cell is traversable.
func (c CellState) IsFree() bool {
	return c == CellFree
}

// IsOccupied returns true if the cell blocks movement.
func (c CellState) IsOccupied() bool {
	return c == CellOccupied
}
