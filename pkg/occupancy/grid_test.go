package occupancy

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellState_String(t *testing.T) {
	tests := []struct {
		state CellState
		want  string
	}{
		{CellOccupied, "Occupied"},
		{CellFree, "Free"},
		{CellUnknown, "Unknown"},
		{CellState(17), "Unknown(17)"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.state.String())
	}
	assert.True(t, CellFree.IsFree())
	assert.False(t, CellUnknown.IsFree())
	assert.True(t, CellOccupied.IsOccupied())
	assert.False(t, CellUnknown.IsOccupied())
}

func TestGrid(t *testing.T) {
	g := NewGrid(3, 2)
	assert.Equal(t, map[CellState]int{CellOccupied: 6}, g.Count())

	g.Set(2, 1, CellFree)
	g.Set(0, 0, CellUnknown)
	g.Set(3, 0, CellFree)  // dropped
	g.Set(-1, 1, CellFree) // dropped

	assert.Equal(t, CellFree, g.At(2, 1))
	assert.Equal(t, CellUnknown, g.At(0, 0))
	assert.Equal(t, CellOccupied, g.At(5, 5))
	assert.Equal(t, map[CellState]int{CellOccupied: 4, CellFree: 1, CellUnknown: 1}, g.Count())

	img := g.Image()
	assert.Equal(t, image.Rect(0, 0, 3, 2), img.Bounds())
	assert.Equal(t, []uint8{205, 0, 0, 0, 0, 254}, img.Pix)

	back, err := GridFromImage(img)
	require.NoError(t, err)
	assert.Equal(t, g, back)

	_, err = GridFromImage(image.NewGray(image.Rect(0, 0, 0, 4)))
	assert.Error(t, err)
}
