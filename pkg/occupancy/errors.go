package occupancy

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
)

// Builder errors.
var (
	ErrInvalidParams      = errors.New("invalid occupancy map parameters")
	ErrNoBoundaryGeometry = errors.New("no boundary geometry")
	ErrDegenerateCanvas   = errors.New("degenerate canvas")
)

// NoBoundaryGeometryError is returned when the bounds set has no vertex.
type NoBoundaryGeometryError struct {
	Polygons int // polygons in the set
	Skipped  int // geometries the reader dropped
}

func (e *NoBoundaryGeometryError) Error() string {
	return fmt.Sprintf("%v: %d polygons, %d skipped while loading", ErrNoBoundaryGeometry, e.Polygons, e.Skipped)
}

// Is reports whether target is ErrNoBoundaryGeometry.
func (e *NoBoundaryGeometryError) Is(target error) bool {
	return target == ErrNoBoundaryGeometry
}

// DegenerateCanvasError is returned when the padded bounds round to an empty
// raster or to one larger than MaxCells.
type DegenerateCanvasError struct {
	Bound         orb.Bound // unpadded world bbox
	Padding       float64
	Resolution    float64
	Width, Height float64 // raster size before conversion to int
}

func (e *DegenerateCanvasError) Error() string {
	return fmt.Sprintf("%v: bbox [%g %g]-[%g %g], padding %g, resolution %g gives %gx%g pixels",
		ErrDegenerateCanvas, e.Bound.Min[0], e.Bound.Min[1], e.Bound.Max[0], e.Bound.Max[1],
		e.Padding, e.Resolution, e.Width, e.Height)
}

// Is reports whether target is ErrDegenerateCanvas.
func (e *DegenerateCanvasError) Is(target error) bool {
	return target == ErrDegenerateCanvas
}

// RasterWarning reports a free-space polygon that was not drawn, or a map
// that will carry no free space.
type RasterWarning struct {
	Index  int // polygon index in the free-space set, -1 for the whole set
	Reason string
}

func (w RasterWarning) Error() string {
	if w.Index < 0 {
		return w.Reason
	}
	return fmt.Sprintf("free-space polygon %d: %s", w.Index, w.Reason)
}
