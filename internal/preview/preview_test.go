package preview

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/navframe/pkg/frame"
	"github.com/Faultbox/navframe/pkg/geo"
	"github.com/Faultbox/navframe/pkg/math"
	"github.com/Faultbox/navframe/pkg/occupancy"
)

func rect(minX, minY, maxX, maxY float64) geo.Polygon {
	return geo.NewPolygon("", orb.Point{minX, minY}, orb.Point{maxX, minY}, orb.Point{maxX, maxY}, orb.Point{minX, maxY})
}

func TestRender(t *testing.T) {
	bounds := geo.PolygonSet{Polygons: []geo.Polygon{rect(0, 0, 10, 5)}}
	free := geo.PolygonSet{Polygons: []geo.Polygon{rect(2, 1, 8, 4)}}

	p := occupancy.DefaultParams()
	p.Resolution = 0.5
	p.Padding = 2
	p.Frame = &frame.Descriptor{OriginX: 5}
	m, err := occupancy.Build(bounds, free, p)
	require.NoError(t, err)

	opts := DefaultOptions()
	opts.Origin = math.Vec2{X: 5}
	path := filepath.Join(t.TempDir(), "debug", "preview.png")
	require.NoError(t, Render(m, []Layer{
		{Name: "bounds", Polygons: bounds},
		{Name: "free space", Polygons: free, Free: true},
	}, path, opts))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, 0)
	assert.Greater(t, cfg.Height, 0)
}

func TestGridXYZ(t *testing.T) {
	p := occupancy.DefaultParams()
	p.Resolution = 1
	p.Padding = 0
	m, err := occupancy.Build(
		geo.PolygonSet{Polygons: []geo.Polygon{rect(0, 0, 3, 2)}},
		geo.PolygonSet{Polygons: []geo.Polygon{rect(0, 0, 1, 0.5)}},
		p)
	require.NoError(t, err)

	g := gridXYZ{m: m}
	c, r := g.Dims()
	assert.Equal(t, 3, c)
	assert.Equal(t, 2, r)
	assert.Equal(t, 0.5, g.X(0))
	assert.Equal(t, 1.5, g.Y(1))
	// plot row 0 is the bottom raster row
	assert.Equal(t, float64(occupancy.CellFree), g.Z(0, 0))
	assert.Equal(t, float64(occupancy.CellOccupied), g.Z(0, 1))
	assert.Len(t, grayPalette{}.Colors(), 3)
}

func TestRender_NothingToDraw(t *testing.T) {
	err := Render(nil, nil, filepath.Join(t.TempDir(), "empty.png"), Options{})
	assert.True(t, errors.Is(err, ErrNothingToDraw))
}
