package formats

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/paulmach/orb"

	"github.com/Faultbox/navframe/pkg/geo"
)

// ParseShapefile reads polygon shapes from an ESRI shapefile. A shapefile
// polygon stores all of its parts as one ring list; exteriors are the
// clockwise parts. A record with no clockwise part contributes every part.
// Non-polygonal records are counted in Skipped.
func ParseShapefile(path string) (geo.PolygonSet, error) {
	dec, err := shp.NewDecoder(path)
	if err != nil {
		return geo.PolygonSet{}, fmt.Errorf("opening shapefile: %w", err)
	}
	defer dec.Close()

	var set geo.PolygonSet
	for {
		g, _, more := dec.DecodeRowFields()
		if !more {
			break
		}
		switch gg := g.(type) {
		case geom.Polygonal:
			for _, poly := range gg.Polygons() {
				addShapefileRings(&set, poly)
			}
		default:
			set.Skipped++
		}
	}
	if err := dec.Error(); err != nil {
		return geo.PolygonSet{}, fmt.Errorf("decoding shapefile: %w", err)
	}
	return set, nil
}

func addShapefileRings(set *geo.PolygonSet, poly geom.Polygon) {
	var rings, exteriors []orb.Ring
	for _, path := range poly {
		if len(path) == 0 {
			continue
		}
		r := make(orb.Ring, len(path))
		for i, pt := range path {
			r[i] = orb.Point{pt.X, pt.Y}
		}
		r = geo.CloseRing(r)
		rings = append(rings, r)
		if r.Orientation() == orb.CW {
			exteriors = append(exteriors, r)
		}
	}
	if len(rings) == 0 {
		set.Skipped++
		return
	}
	if len(exteriors) == 0 {
		exteriors = rings
	}
	for _, r := range exteriors {
		set.Add(geo.Polygon{Ring: r})
	}
}
