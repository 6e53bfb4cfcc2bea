package formats

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBoundsGML = `<?xml version="1.0" encoding="utf-8" ?>
<FeatureCollection xmlns:gml="http://www.opengis.net/gml/3.2">
  <featureMember><TargetObject><geometry>
    <gml:Polygon srsName="urn:ogc:def:crs:EPSG::25832">
      <gml:exterior><gml:LinearRing>
          <gml:posList>1000 2000 1100 2000 1100 2050 1000 2050 1000 2000</gml:posList>
      </gml:LinearRing></gml:exterior>
      <gml:interior><gml:LinearRing>
          <gml:posList>1010 2010 1020 2010 1020 2020 1010 2010</gml:posList>
      </gml:LinearRing></gml:interior>
    </gml:Polygon>
  </geometry></TargetObject></featureMember>
</FeatureCollection>`

func TestParseGML_PosList(t *testing.T) {
	set, err := ParseGML(strings.NewReader(testBoundsGML))
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())

	p := set.Polygons[0]
	assert.Equal(t, "EPSG:25832", p.CRS)
	assert.Equal(t, orb.Ring{{1000, 2000}, {1100, 2000}, {1100, 2050}, {1000, 2050}, {1000, 2000}}, p.Ring)
}

func TestParseGML_MultiSurfaceAndDimensions(t *testing.T) {
	doc := `<gml:FeatureCollection xmlns:gml="http://www.opengis.net/gml/3.2">
  <gml:MultiSurface srsName="EPSG:25832" srsDimension="3">
    <gml:surfaceMember><gml:Polygon><gml:exterior><gml:LinearRing>
      <gml:posList>0 0 5 4 0 5 4 4 5 0 0 5</gml:posList>
    </gml:LinearRing></gml:exterior></gml:Polygon></gml:surfaceMember>
    <gml:surfaceMember><gml:Surface><gml:patches><gml:PolygonPatch><gml:exterior><gml:LinearRing>
      <gml:pos>10 10</gml:pos><gml:pos>12 10</gml:pos><gml:pos>12 12</gml:pos>
    </gml:LinearRing></gml:exterior></gml:PolygonPatch></gml:patches></gml:Surface></gml:surfaceMember>
  </gml:MultiSurface>
</gml:FeatureCollection>`

	set, err := ParseGML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 2, set.Len())

	assert.Equal(t, orb.Ring{{0, 0}, {4, 0}, {4, 4}, {0, 0}}, set.Polygons[0].Ring)
	// open pos sequence gets closed
	assert.Equal(t, orb.Ring{{10, 10}, {12, 10}, {12, 12}, {10, 10}}, set.Polygons[1].Ring)
	assert.Equal(t, "EPSG:25832", set.Polygons[1].CRS)
}

func TestParseGML_GML2Coordinates(t *testing.T) {
	doc := `<wfs:FeatureCollection xmlns:gml="http://www.opengis.net/gml">
  <gml:Polygon srsName="EPSG:4647"><gml:outerBoundaryIs><gml:LinearRing>
    <gml:coordinates decimal="." cs="," ts=" ">1,1 3,1 3,2 1,1</gml:coordinates>
  </gml:LinearRing></gml:outerBoundaryIs></gml:Polygon>
</wfs:FeatureCollection>`

	set, err := ParseGML(strings.NewReader(doc))
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Equal(t, orb.Ring{{1, 1}, {3, 1}, {3, 2}, {1, 1}}, set.Polygons[0].Ring)
}

func TestParseGML_BadRingIsSkipped(t *testing.T) {
	doc := `<c xmlns:gml="http://www.opengis.net/gml/3.2">
  <gml:Polygon><gml:exterior><gml:LinearRing><gml:posList>0 0 1 x 1 1</gml:posList></gml:LinearRing></gml:exterior></gml:Polygon>
  <gml:Polygon><gml:exterior><gml:LinearRing><gml:posList>0 0 1 0 1</gml:posList></gml:LinearRing></gml:exterior></gml:Polygon>
  <gml:Polygon><gml:exterior><gml:LinearRing><gml:posList>0 0 1 0 1 1</gml:posList></gml:LinearRing></gml:exterior></gml:Polygon>
</c>`

	set, err := ParseGML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
	assert.Equal(t, 2, set.Skipped)
}

func TestParseGML_Latin1AndBOM(t *testing.T) {
	doc := "\xEF\xBB\xBF<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n" +
		"<c xmlns:gml=\"http://www.opengis.net/gml/3.2\"><name>Stra\xdfe</name>" +
		"<gml:Polygon><gml:exterior><gml:LinearRing><gml:posList>0 0 2 0 2 2 0 0</gml:posList>" +
		"</gml:LinearRing></gml:exterior></gml:Polygon></c>"

	set, err := ParseGML(strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestParseGML_Invalid(t *testing.T) {
	_, err := ParseGML(strings.NewReader("<a><b></a>"))
	assert.True(t, errors.Is(err, ErrInvalidGML))
}

func TestParseGMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounds.gml")
	require.NoError(t, os.WriteFile(path, []byte(testBoundsGML), 0644))

	set, err := ParseGMLFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())

	_, err = ParseGMLFile(filepath.Join(t.TempDir(), "missing.gml"))
	assert.Error(t, err)
}
