package pipeline

import (
	"fmt"
	"io"

	"github.com/Faultbox/navframe/pkg/formats"
	"github.com/Faultbox/navframe/pkg/frame"
	"github.com/Faultbox/navframe/pkg/math"
)

// Report summarizes configured inputs without writing anything.
type Report struct {
	Mesh     *MeshReport
	Polygons []PolygonReport
	Frame    *frame.Descriptor
}

// MeshReport describes an OBJ file.
type MeshReport struct {
	Path      string
	Records   int
	Vertices  int
	Malformed int
	Bounds    math.Bounds3
	Frame     frame.Descriptor // the frame Normalize would pick
	World     *math.Bounds3    // Bounds mapped out of the configured frame
}

// PolygonReport describes a polygon file.
type PolygonReport struct {
	Kind     string
	Path     string
	Format   formats.PolygonFormat
	Polygons int
	Vertices int
	Skipped  int
	CRS      string
}

// Inspect reads every configured input and reports what it contains.
func (p *Pipeline) Inspect() (*Report, error) {
	rep := &Report{}

	if path := p.cfg.Input.Mesh; path != "" {
		mesh, err := formats.ParseOBJFile(path)
		if err != nil {
			return nil, err
		}
		mr := &MeshReport{
			Path:      path,
			Records:   len(mesh.Records),
			Vertices:  mesh.VertexCount(),
			Malformed: len(mesh.Warnings),
			Bounds:    mesh.Bounds(),
		}
		if !mr.Bounds.IsEmpty() {
			origin := frame.Origin(mr.Bounds)
			mr.Frame.OriginX, mr.Frame.OriginY = origin.X, origin.Y
			mr.Frame.ZDatum = mr.Bounds.Min.Z
			mr.Frame.AdditionalZOffset = p.cfg.Frame.ZOffset
		}
		rep.Mesh = mr
	}

	for _, in := range []struct{ kind, path string }{
		{"bounds", p.cfg.Input.Bounds},
		{"free space", p.cfg.Input.FreeSpace},
	} {
		if in.path == "" {
			continue
		}
		set, err := formats.LoadPolygons(in.path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", in.kind, err)
		}
		rep.Polygons = append(rep.Polygons, PolygonReport{
			Kind:     in.kind,
			Path:     in.path,
			Format:   formats.DetectPolygonFormat(in.path),
			Polygons: set.Len(),
			Vertices: set.VertexCount(),
			Skipped:  set.Skipped,
			CRS:      set.CRS(),
		})
	}

	if path := p.cfg.Input.Frame; path != "" {
		d, err := frame.LoadDescriptor(path)
		if err != nil {
			return nil, err
		}
		rep.Frame = d
		if m := rep.Mesh; m != nil && !m.Bounds.IsEmpty() {
			world := math.EmptyBounds3().Extend(d.ToWorld(m.Bounds.Min)).Extend(d.ToWorld(m.Bounds.Max))
			m.World = &world
		}
	}
	return rep, nil
}

// WriteTo prints the report in a human-readable form.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	if m := r.Mesh; m != nil {
		fmt.Fprintf(cw, "Mesh: %s\n", m.Path)
		fmt.Fprintf(cw, "  Records:   %d\n", m.Records)
		fmt.Fprintf(cw, "  Vertices:  %d (%d malformed)\n", m.Vertices, m.Malformed)
		if m.Vertices > 0 {
			fmt.Fprintf(cw, "  Bounds:    %s\n", m.Bounds)
			fmt.Fprintf(cw, "  Size:      %.3f x %.3f x %.3f m\n", m.Bounds.Width(), m.Bounds.Height(), m.Bounds.Depth())
			fmt.Fprintf(cw, "  Origin:    %.6f %.6f (z datum %.6f)\n", m.Frame.OriginX, m.Frame.OriginY, m.Frame.ZDatum)
			if m.World != nil {
				fmt.Fprintf(cw, "  World:     %s\n", m.World)
			}
		}
	}
	for _, p := range r.Polygons {
		fmt.Fprintf(cw, "%s: %s (%s)\n", p.Kind, p.Path, p.Format)
		fmt.Fprintf(cw, "  Polygons:  %d (%d skipped)\n", p.Polygons, p.Skipped)
		fmt.Fprintf(cw, "  Vertices:  %d\n", p.Vertices)
		if p.CRS != "" {
			fmt.Fprintf(cw, "  CRS:       %s\n", p.CRS)
		}
	}
	if d := r.Frame; d != nil {
		fmt.Fprintf(cw, "Frame: origin %.6f %.6f, z datum %.6f, z offset %.6f\n",
			d.OriginX, d.OriginY, d.ZDatum, d.AdditionalZOffset)
	}
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
