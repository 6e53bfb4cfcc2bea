// Package preview renders a debug picture of an occupancy map in its local
// frame: the raster as a heat map, polygon outlines on top and a cross at the
// frame origin.
package preview

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Faultbox/navframe/pkg/geo"
	"github.com/Faultbox/navframe/pkg/math"
	"github.com/Faultbox/navframe/pkg/occupancy"
)

// ErrNothingToDraw is returned when neither the map nor outlines have content.
var ErrNothingToDraw = errors.New("nothing to draw")

var (
	boundsColor = color.RGBA{R: 220, G: 50, B: 47, A: 255}
	freeColor   = color.RGBA{R: 38, G: 139, B: 210, A: 255}
	originColor = color.RGBA{R: 133, G: 153, B: 0, A: 255}
)

// Layer is a set of polygons drawn as outlines. Polygons are given in world
// coordinates and shifted by the map's frame before drawing.
type Layer struct {
	Name     string
	Polygons geo.PolygonSet
	Free     bool // free-space layers are drawn blue, others red
}

// Options controls the picture.
type Options struct {
	Title   string
	WidthIn float64   // picture width in inches; height follows the map aspect
	Origin  math.Vec2 // world position of the local origin, subtracted from layers
}

// DefaultOptions returns an 8 inch wide picture with no frame shift.
func DefaultOptions() Options {
	return Options{Title: "Occupancy map", WidthIn: 8}
}

// gridXYZ adapts an occupancy map to plotter.GridXYZ. Row 0 of the plot is
// the bottom row of the raster.
type gridXYZ struct {
	m *occupancy.Map
}

func (g gridXYZ) Dims() (c, r int) { return g.m.Grid.Width, g.m.Grid.Height }

func (g gridXYZ) Z(c, r int) float64 {
	return float64(g.m.Grid.At(c, g.m.Grid.Height-1-r))
}

func (g gridXYZ) X(c int) float64 {
	return g.m.Metadata.Origin[0] + (float64(c)+0.5)*g.m.Resolution
}

func (g gridXYZ) Y(r int) float64 {
	return g.m.Metadata.Origin[1] + (float64(r)+0.5)*g.m.Resolution
}

// grayPalette maps occupied, unknown and free onto black, gray and white.
type grayPalette struct{}

func (grayPalette) Colors() []color.Color {
	return []color.Color{
		color.Gray{Y: uint8(occupancy.CellOccupied)},
		color.Gray{Y: uint8(occupancy.CellUnknown)},
		color.Gray{Y: uint8(occupancy.CellFree)},
	}
}

// Render writes the preview to path. The format follows the extension
// (png, svg, pdf...). Parent directories are created.
func Render(m *occupancy.Map, layers []Layer, path string, opts Options) error {
	if opts.WidthIn <= 0 {
		opts.WidthIn = DefaultOptions().WidthIn
	}

	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = "x (m)"
	p.Y.Label.Text = "y (m)"

	drawn := 0
	if m != nil && m.Grid.Width >= 2 && m.Grid.Height >= 2 {
		hm := plotter.NewHeatMap(gridXYZ{m: m}, grayPalette{})
		hm.Min = float64(occupancy.CellOccupied)
		hm.Max = float64(occupancy.CellFree)
		p.Add(hm)
		drawn++
	}

	for _, layer := range layers {
		for i, poly := range layer.Polygons.Polygons {
			if len(poly.Ring) < 2 || !poly.IsFinite() {
				continue
			}
			pts := make(plotter.XYs, len(poly.Ring))
			for j, pt := range poly.Ring {
				local := math.Vec2{X: pt[0], Y: pt[1]}.Sub(opts.Origin)
				pts[j] = plotter.XY{X: local.X, Y: local.Y}
			}
			line, err := plotter.NewLine(pts)
			if err != nil {
				return fmt.Errorf("layer %s polygon %d: %w", layer.Name, i, err)
			}
			line.Width = vg.Points(1)
			line.Color = boundsColor
			if layer.Free {
				line.Color = freeColor
			}
			p.Add(line)
			if i == 0 && layer.Name != "" {
				p.Legend.Add(layer.Name, line)
			}
			drawn++
		}
	}
	if drawn == 0 {
		return ErrNothingToDraw
	}

	origin, err := plotter.NewScatter(plotter.XYs{{X: 0, Y: 0}})
	if err != nil {
		return fmt.Errorf("origin marker: %w", err)
	}
	origin.GlyphStyle.Shape = draw.CrossGlyph{}
	origin.GlyphStyle.Color = originColor
	origin.GlyphStyle.Radius = vg.Points(6)
	p.Add(origin)
	p.Legend.Add("origin", origin)
	p.Legend.Top = true

	width := vg.Length(opts.WidthIn) * vg.Inch
	height := width * 0.75
	if m != nil && m.Grid.Width > 0 {
		height = width * vg.Length(m.Grid.Height) / vg.Length(m.Grid.Width)
		height = max(height, 3*vg.Inch)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating preview dir: %w", err)
	}
	if err := p.Save(width, height, path); err != nil {
		return fmt.Errorf("saving preview: %w", err)
	}
	return nil
}
