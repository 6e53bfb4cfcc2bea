// Package frame derives a local coordinate frame from a mesh and moves the
// mesh into it.
//
// The frame origin sits at the midpoint of the shorter side of the mesh's
// 2D bounding box, on the minimum edge: for a bbox at least as tall as it is
// wide that is (midX, minY), otherwise (minX, midY). The vertical datum is the
// lowest vertex, so the normalized mesh starts at AdditionalZOffset.
package frame

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/Faultbox/navframe/pkg/formats"
	"github.com/Faultbox/navframe/pkg/math"
)

// Options controls normalization.
type Options struct {
	AdditionalZOffset float64 // added to every z after the datum shift
	Precision         int     // decimals for rewritten vertices; <= 0 means formats.DefaultOBJPrecision
	Header            bool    // prepend comment lines documenting the transform
	CRS               string  // source CRS recorded in the descriptor, if known
}

// DefaultOptions returns options with a header and six decimals.
func DefaultOptions() Options {
	return Options{Precision: formats.DefaultOBJPrecision, Header: true}
}

// Result is a normalized mesh and the frame it was normalized into.
type Result struct {
	Mesh       *formats.OBJ
	Descriptor Descriptor
	Bounds     math.Bounds3 // world-space AABB of the source vertices
	Warnings   []formats.RecordParseWarning
}

// Normalize computes the local frame of mesh and returns a transformed copy.
// The input is not modified. Every record keeps its position; only vertex
// records change.
func Normalize(mesh *formats.OBJ, opts Options) (*Result, error) {
	n := mesh.VertexCount()
	if n == 0 {
		return nil, &EmptyGeometryError{Records: len(mesh.Records), Malformed: len(mesh.Warnings)}
	}

	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	zs := make([]float64, 0, n)
	for _, v := range mesh.Vertices() {
		xs = append(xs, v.X)
		ys = append(ys, v.Y)
		zs = append(zs, v.Z)
	}
	bounds := math.Bounds3{
		Min: math.Vec3{X: floats.Min(xs), Y: floats.Min(ys), Z: floats.Min(zs)},
		Max: math.Vec3{X: floats.Max(xs), Y: floats.Max(ys), Z: floats.Max(zs)},
	}

	desc := Descriptor{
		ZDatum:            bounds.Min.Z,
		AdditionalZOffset: opts.AdditionalZOffset,
		CRS:               opts.CRS,
	}
	origin := Origin(bounds)
	desc.OriginX, desc.OriginY = origin.X, origin.Y

	out := mesh.Clone()
	out.Precision = opts.Precision
	if out.Precision <= 0 {
		out.Precision = formats.DefaultOBJPrecision
	}
	for i := range out.Records {
		if out.Records[i].Kind == formats.RecordVertex {
			out.SetVertex(i, desc.ToLocal(out.Records[i].Vertex))
		}
	}
	if opts.Header {
		out.Header = append(headerLines(desc, out.Precision), out.Header...)
	}

	return &Result{
		Mesh:       out,
		Descriptor: desc,
		Bounds:     bounds,
		Warnings:   append([]formats.RecordParseWarning(nil), mesh.Warnings...),
	}, nil
}

// Origin returns the frame origin for a world bbox: the midpoint of the
// shorter side on the minimum edge. A square bbox uses the bottom side.
func Origin(b math.Bounds3) math.Vec2 {
	mid := b.Center()
	if b.Width() <= b.Height() {
		return math.Vec2{X: mid.X, Y: b.Min.Y}
	}
	return math.Vec2{X: b.Min.X, Y: mid.Y}
}

func headerLines(d Descriptor, prec int) []string {
	crs := d.CRS
	if crs == "" {
		crs = "unknown CRS"
	}
	f := func(v float64) string { return formats.FormatFloat(v, prec) }
	return []string{
		"# Transformed to local frame",
		fmt.Sprintf("# Vertices are local coordinates derived from %s", crs),
		fmt.Sprintf("# Origin (world): %s %s, midpoint of the shorter bbox side", f(d.OriginX), f(d.OriginY)),
		fmt.Sprintf("# Z datum (world): %s, additional z offset: %s", f(d.ZDatum), f(d.AdditionalZOffset)),
	}
}
