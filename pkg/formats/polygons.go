package formats

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Faultbox/navframe/pkg/geo"
)

// ErrUnknownPolygonFormat is returned by LoadPolygons for unrecognized extensions.
var ErrUnknownPolygonFormat = errors.New("unknown polygon file format")

// PolygonFormat identifies a polygon source encoding.
type PolygonFormat int

const (
	PolygonFormatUnknown PolygonFormat = iota
	PolygonFormatGML
	PolygonFormatGeoJSON
	PolygonFormatShapefile
)

// String returns the format name.
func (f PolygonFormat) String() string {
	switch f {
	case PolygonFormatGML:
		return "GML"
	case PolygonFormatGeoJSON:
		return "GeoJSON"
	case PolygonFormatShapefile:
		return "Shapefile"
	default:
		return "Unknown"
	}
}

// DetectPolygonFormat picks a format from the file extension.
func DetectPolygonFormat(path string) PolygonFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gml", ".xml":
		return PolygonFormatGML
	case ".geojson", ".json":
		return PolygonFormatGeoJSON
	case ".shp":
		return PolygonFormatShapefile
	default:
		return PolygonFormatUnknown
	}
}

// LoadPolygons reads a polygon set from a GML, GeoJSON or Shapefile path.
func LoadPolygons(path string) (geo.PolygonSet, error) {
	switch DetectPolygonFormat(path) {
	case PolygonFormatGML:
		return ParseGMLFile(path)
	case PolygonFormatGeoJSON:
		return ParseGeoJSONFile(path)
	case PolygonFormatShapefile:
		return ParseShapefile(path)
	default:
		return geo.PolygonSet{}, fmt.Errorf("%w: %s", ErrUnknownPolygonFormat, path)
	}
}
