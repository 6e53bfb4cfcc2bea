package formats

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/Faultbox/navframe/pkg/geo"
)

// GeoJSON format errors.
var (
	ErrInvalidGeoJSON = errors.New("invalid GeoJSON document")
)

// geojsonHeader holds the members orb does not decode for us.
type geojsonHeader struct {
	Type string `json:"type"`
	CRS  struct {
		Properties struct {
			Name string `json:"name"`
		} `json:"properties"`
	} `json:"crs"`
}

// ParseGeoJSON extracts polygon exteriors from a FeatureCollection, a single
// Feature or a bare geometry. Polygon and MultiPolygon contribute one polygon
// per exterior ring; other geometry types are counted in Skipped.
// The legacy "crs" member is carried onto every polygon.
func ParseGeoJSON(data []byte) (geo.PolygonSet, error) {
	var hdr geojsonHeader
	if err := json.Unmarshal(data, &hdr); err != nil {
		return geo.PolygonSet{}, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
	}
	crs := geo.NormalizeCRS(hdr.CRS.Properties.Name)

	var geoms []orb.Geometry
	switch hdr.Type {
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return geo.PolygonSet{}, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
		}
		for _, f := range fc.Features {
			geoms = append(geoms, f.Geometry)
		}
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return geo.PolygonSet{}, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
		}
		geoms = append(geoms, f.Geometry)
	case "":
		return geo.PolygonSet{}, fmt.Errorf("%w: missing type member", ErrInvalidGeoJSON)
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return geo.PolygonSet{}, fmt.Errorf("%w: %v", ErrInvalidGeoJSON, err)
		}
		geoms = append(geoms, g.Geometry())
	}

	var set geo.PolygonSet
	for _, g := range geoms {
		addOrbGeometry(&set, g, crs)
	}
	return set, nil
}

// ParseGeoJSONFile parses a GeoJSON file from disk.
func ParseGeoJSONFile(path string) (geo.PolygonSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return geo.PolygonSet{}, fmt.Errorf("reading GeoJSON file: %w", err)
	}
	return ParseGeoJSON(data)
}

func addOrbGeometry(set *geo.PolygonSet, g orb.Geometry, crs string) {
	switch g := g.(type) {
	case orb.Polygon:
		addOrbPolygon(set, g, crs)
	case orb.MultiPolygon:
		if len(g) == 0 {
			set.Skipped++
		}
		for _, p := range g {
			addOrbPolygon(set, p, crs)
		}
	case orb.Collection:
		for _, member := range g {
			addOrbGeometry(set, member, crs)
		}
	default:
		set.Skipped++
	}
}

func addOrbPolygon(set *geo.PolygonSet, p orb.Polygon, crs string) {
	if len(p) == 0 || len(p[0]) == 0 {
		set.Skipped++
		return
	}
	ring := make(orb.Ring, len(p[0]))
	copy(ring, p[0])
	set.Add(geo.Polygon{Ring: geo.CloseRing(ring), CRS: crs})
}
