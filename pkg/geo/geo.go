// Package geo holds the 2D polygon model shared by the readers and the map builder.
package geo

import (
	"math"

	"github.com/paulmach/orb"
)

// Polygon is a closed exterior ring in a projected CRS.
type Polygon struct {
	Ring orb.Ring
	CRS  string // srsName or EPSG code as found in the source; empty if unknown
}

// NewPolygon builds a polygon from x,y pairs and closes the ring.
func NewPolygon(crs string, pts ...orb.Point) Polygon {
	return Polygon{Ring: CloseRing(orb.Ring(pts)), CRS: crs}
}

// Bound returns the polygon envelope.
func (p Polygon) Bound() orb.Bound {
	return p.Ring.Bound()
}

// DistinctVertices returns the vertex count ignoring the closing point
// and consecutive duplicates.
func (p Polygon) DistinctVertices() int {
	n := 0
	for i, pt := range p.Ring {
		if i > 0 && pt == p.Ring[i-1] {
			continue
		}
		if i == len(p.Ring)-1 && i > 0 && pt == p.Ring[0] {
			continue
		}
		n++
	}
	return n
}

// IsFinite reports whether every coordinate is a real number.
func (p Polygon) IsFinite() bool {
	for _, pt := range p.Ring {
		if !finite(pt[0]) || !finite(pt[1]) {
			return false
		}
	}
	return true
}

// Translate returns a copy shifted by (dx, dy).
func (p Polygon) Translate(dx, dy float64) Polygon {
	ring := make(orb.Ring, len(p.Ring))
	for i, pt := range p.Ring {
		ring[i] = orb.Point{pt[0] + dx, pt[1] + dy}
	}
	return Polygon{Ring: ring, CRS: p.CRS}
}

// PolygonSet is an ordered collection of independently rasterizable polygons.
// Order is significant: it is the rasterization order.
type PolygonSet struct {
	Polygons []Polygon
	Skipped  int // source geometries dropped while loading (empty, not polygonal)
}

// Len returns the number of polygons.
func (s PolygonSet) Len() int { return len(s.Polygons) }

// Add appends a polygon.
func (s *PolygonSet) Add(p Polygon) {
	s.Polygons = append(s.Polygons, p)
}

// VertexCount returns the number of ring points over all polygons.
func (s PolygonSet) VertexCount() int {
	n := 0
	for _, p := range s.Polygons {
		n += len(p.Ring)
	}
	return n
}

// Bound returns the envelope of every vertex in the set. ok is false
// when the set has no vertices.
func (s PolygonSet) Bound() (b orb.Bound, ok bool) {
	for _, p := range s.Polygons {
		if len(p.Ring) == 0 {
			continue
		}
		if !ok {
			b = p.Bound()
			ok = true
			continue
		}
		b = b.Union(p.Bound())
	}
	return b, ok
}

// CRS returns the first non-empty CRS tag in the set.
func (s PolygonSet) CRS() string {
	for _, p := range s.Polygons {
		if p.CRS != "" {
			return p.CRS
		}
	}
	return ""
}

// Translate returns a copy of the set shifted by (dx, dy).
func (s PolygonSet) Translate(dx, dy float64) PolygonSet {
	out := PolygonSet{Polygons: make([]Polygon, len(s.Polygons)), Skipped: s.Skipped}
	for i, p := range s.Polygons {
		out.Polygons[i] = p.Translate(dx, dy)
	}
	return out
}

// CloseRing appends the first point when the ring is open.
func CloseRing(r orb.Ring) orb.Ring {
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
