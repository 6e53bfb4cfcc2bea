package occupancy

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/Faultbox/navframe/pkg/formats"
	"github.com/Faultbox/navframe/pkg/frame"
	"github.com/Faultbox/navframe/pkg/geo"
)

// Metadata is the map sidecar document.
type Metadata = formats.MapYAML

// Map modes understood by map_server.
const (
	ModeTrinary = "trinary"
	ModeScale   = "scale"
	ModeRaw     = "raw"
)

// DefaultImageName is used when Params.ImageName is empty.
const DefaultImageName = "map.pgm"

// snapEpsilon absorbs float noise in canvas size quotients such as 14/0.5.
const snapEpsilon = 1e-9

// MaxCells caps the raster size Build will allocate.
const MaxCells = 1 << 31

// maxPixelCoord bounds vertex offsets from the canvas corner, in cells, so
// pixel coordinates stay far from int overflow.
const maxPixelCoord = 1 << 40

// Thresholds are copied into the sidecar verbatim.
type Thresholds struct {
	Negate   int
	Occupied float64
	Free     float64
}

// DefaultThresholds returns map_server's usual values.
func DefaultThresholds() Thresholds {
	return Thresholds{Negate: 0, Occupied: 0.65, Free: 0.25}
}

// Params configures Build.
type Params struct {
	Resolution float64 // meters per cell, > 0
	Padding    float64 // meters added on every side of the bounds bbox, >= 0
	Frame      *frame.Descriptor
	Thresholds Thresholds
	ImageName  string // sidecar "image" value
	Mode       string // sidecar "mode" value; empty means trinary
}

// DefaultParams returns 5 cm cells with 5 m padding and no frame.
func DefaultParams() Params {
	return Params{
		Resolution: 0.05,
		Padding:    5.0,
		Thresholds: DefaultThresholds(),
		ImageName:  DefaultImageName,
		Mode:       ModeTrinary,
	}
}

// Validate checks the parameters Build depends on.
func (p Params) Validate() error {
	switch {
	case !(p.Resolution > 0) || math.IsInf(p.Resolution, 0):
		return fmt.Errorf("%w: resolution %v must be positive", ErrInvalidParams, p.Resolution)
	case !(p.Padding >= 0) || math.IsInf(p.Padding, 0):
		return fmt.Errorf("%w: padding %v must be non-negative", ErrInvalidParams, p.Padding)
	case p.Thresholds.Negate != 0 && p.Thresholds.Negate != 1:
		return fmt.Errorf("%w: negate must be 0 or 1, got %d", ErrInvalidParams, p.Thresholds.Negate)
	case p.Thresholds.Free < 0 || p.Thresholds.Occupied > 1 || p.Thresholds.Free > p.Thresholds.Occupied:
		return fmt.Errorf("%w: thresholds need 0 <= free (%v) <= occupied (%v) <= 1",
			ErrInvalidParams, p.Thresholds.Free, p.Thresholds.Occupied)
	}
	switch p.Mode {
	case "", ModeTrinary, ModeScale, ModeRaw:
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidParams, p.Mode)
	}
	if p.Frame != nil {
		if err := p.Frame.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidParams, err)
		}
	}
	return nil
}

// Map is a built occupancy grid with its sidecar.
type Map struct {
	Grid       *Grid
	Metadata   Metadata
	Canvas     orb.Bound // padded world bbox covered by the grid
	Resolution float64
	Warnings   []RasterWarning
	Drawn      int // free-space polygons rasterized
}

// Build rasterizes freeSpace onto a canvas covering bounds plus padding.
// Cells start occupied; every free-space polygon, in order, marks its cells
// free. The sidecar origin is the canvas's bottom-left corner expressed in
// p.Frame when one is given, otherwise in world coordinates.
func Build(bounds, freeSpace geo.PolygonSet, p Params) (*Map, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	bbox, ok := bounds.Bound()
	if !ok {
		return nil, &NoBoundaryGeometryError{Polygons: bounds.Len(), Skipped: bounds.Skipped}
	}

	canvas := bbox.Pad(p.Padding)
	w := canvasCells(canvas.Max[0]-canvas.Min[0], p.Resolution)
	h := canvasCells(canvas.Max[1]-canvas.Min[1], p.Resolution)
	if !(w >= 1 && h >= 1) || w > math.MaxInt32 || h > math.MaxInt32 || w*h > MaxCells {
		return nil, &DegenerateCanvasError{
			Bound:      bbox,
			Padding:    p.Padding,
			Resolution: p.Resolution,
			Width:      w,
			Height:     h,
		}
	}

	m := &Map{
		Grid:       NewGrid(int(w), int(h)),
		Canvas:     canvas,
		Resolution: p.Resolution,
		Metadata:   metadata(canvas, p),
	}

	if freeSpace.Len() == 0 {
		m.Warnings = append(m.Warnings, RasterWarning{Index: -1, Reason: "no free-space polygons, map is fully occupied"})
	}
	for i, poly := range freeSpace.Polygons {
		switch {
		case !poly.IsFinite():
			m.Warnings = append(m.Warnings, RasterWarning{Index: i, Reason: "non-finite coordinates"})
			continue
		case poly.DistinctVertices() < 3:
			m.Warnings = append(m.Warnings, RasterWarning{Index: i,
				Reason: fmt.Sprintf("%d distinct vertices, need 3", poly.DistinctVertices())})
			continue
		}
		px, ok := m.toPixels(poly.Ring)
		if !ok {
			m.Warnings = append(m.Warnings, RasterWarning{Index: i, Reason: "vertex too far from the canvas"})
			continue
		}
		fillPolygon(m.Grid, px, CellFree)
		m.Drawn++
	}

	return m, nil
}

func metadata(canvas orb.Bound, p Params) Metadata {
	origin := [3]float64{canvas.Min[0], canvas.Min[1], 0}
	if p.Frame != nil {
		origin = [3]float64{
			canvas.Min[0] - p.Frame.OriginX,
			canvas.Min[1] - p.Frame.OriginY,
			p.Frame.AdditionalZOffset,
		}
	}
	image := p.ImageName
	if image == "" {
		image = DefaultImageName
	}
	mode := p.Mode
	if mode == "" {
		mode = ModeTrinary
	}
	return Metadata{
		Image:          image,
		Mode:           mode,
		Resolution:     p.Resolution,
		Origin:         origin,
		Negate:         p.Thresholds.Negate,
		OccupiedThresh: p.Thresholds.Occupied,
		FreeThresh:     p.Thresholds.Free,
	}
}

// canvasCells is ceil(extent/res) with quotients near an integer snapped first.
func canvasCells(extent, res float64) float64 {
	q := extent / res
	if r := math.Round(q); math.Abs(q-r) < snapEpsilon {
		return r
	}
	return math.Ceil(q)
}

// toPixels maps a world ring to cell coordinates counted from the bottom-left.
// ok is false when a vertex lies more than maxPixelCoord cells from the canvas.
func (m *Map) toPixels(ring orb.Ring) (out []pixel, ok bool) {
	out = make([]pixel, len(ring))
	for i, pt := range ring {
		col := math.Floor((pt[0] - m.Canvas.Min[0]) / m.Resolution)
		row := math.Floor((pt[1] - m.Canvas.Min[1]) / m.Resolution)
		if math.Abs(col) > maxPixelCoord || math.Abs(row) > maxPixelCoord {
			return nil, false
		}
		out[i] = pixel{col: int(col), row: int(row)}
	}
	return out, true
}

// WorldToCell returns the grid cell containing a world point. ok is false
// outside the canvas.
func (m *Map) WorldToCell(x, y float64) (col, row int, ok bool) {
	col = int(math.Floor((x - m.Canvas.Min[0]) / m.Resolution))
	row = m.Grid.Height - 1 - int(math.Floor((y-m.Canvas.Min[1])/m.Resolution))
	return col, row, m.Grid.InBounds(col, row)
}

// CellToLocal returns the centre of a cell in the sidecar's coordinate frame.
func (m *Map) CellToLocal(col, row int) (x, y float64) {
	x = m.Metadata.Origin[0] + (float64(col)+0.5)*m.Resolution
	y = m.Metadata.Origin[1] + (float64(m.Grid.Height-1-row)+0.5)*m.Resolution
	return x, y
}
