package formats

import (
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGeoJSON_FeatureCollection(t *testing.T) {
	doc := `{
  "type": "FeatureCollection",
  "crs": {"type": "name", "properties": {"name": "urn:ogc:def:crs:EPSG::25832"}},
  "features": [
    {"type": "Feature", "properties": {"id": 1}, "geometry": {"type": "Polygon",
      "coordinates": [[[0,0],[4,0],[4,3],[0,3],[0,0]], [[1,1],[2,1],[2,2],[1,1]]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "MultiPolygon",
      "coordinates": [[[[10,10],[11,10],[11,11]]], [[[20,20],[21,20],[21,21],[20,20]]]]}},
    {"type": "Feature", "properties": {}, "geometry": {"type": "Point", "coordinates": [5,5]}}
  ]
}`

	set, err := ParseGeoJSON([]byte(doc))
	require.NoError(t, err)
	require.Equal(t, 3, set.Len())
	assert.Equal(t, 1, set.Skipped)

	assert.Equal(t, "EPSG:25832", set.CRS())
	assert.Equal(t, orb.Ring{{0, 0}, {4, 0}, {4, 3}, {0, 3}, {0, 0}}, set.Polygons[0].Ring)
	assert.Equal(t, orb.Ring{{10, 10}, {11, 10}, {11, 11}, {10, 10}}, set.Polygons[1].Ring)
}

func TestParseGeoJSON_BareGeometry(t *testing.T) {
	set, err := ParseGeoJSON([]byte(`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`))
	require.NoError(t, err)
	require.Equal(t, 1, set.Len())
	assert.Empty(t, set.Polygons[0].CRS)

	set, err = ParseGeoJSON([]byte(`{"type":"Feature","properties":{},"geometry":{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}}`))
	require.NoError(t, err)
	assert.Equal(t, 1, set.Len())
}

func TestParseGeoJSON_Invalid(t *testing.T) {
	for _, doc := range []string{`{`, `{"coordinates":[]}`, `{"type":"FeatureCollection","features":7}`} {
		_, err := ParseGeoJSON([]byte(doc))
		assert.True(t, errors.Is(err, ErrInvalidGeoJSON), "doc %s: %v", doc, err)
	}
}
