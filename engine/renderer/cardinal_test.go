package renderer_test

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
)

func TestClosestCardinal(t *testing.T) {
	tests := []struct {
		angle float32
		want  renderer.CardinalDirection
	}{
		{0, renderer.North},
		{0.3, renderer.North},
		{2*math32.Pi - 0.005, renderer.North},
		{-0.005, renderer.North},
		{math32.Pi / 2, renderer.East},
		{math32.Pi, renderer.South},
		{3 * math32.Pi / 2, renderer.West},
		{3*math32.Pi/2 + 0.7, renderer.West},
		{5 * math32.Pi / 2, renderer.East},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, renderer.ClosestCardinal(tt.angle), "angle %v", tt.angle)
	}
}

func TestIsAxisAligned(t *testing.T) {
	eps := renderer.DefaultCardinalEpsilon
	assert.True(t, renderer.IsAxisAligned(0, eps))
	assert.True(t, renderer.IsAxisAligned(math32.Pi/2+0.009, eps))
	assert.True(t, renderer.IsAxisAligned(math32.Pi/2-0.009, eps), "tolerance applies below the axis too")
	assert.True(t, renderer.IsAxisAligned(2*math32.Pi-0.009, eps))
	assert.False(t, renderer.IsAxisAligned(math32.Pi+0.02, eps))
	assert.False(t, renderer.IsAxisAligned(math32.Pi/4, eps))
}

func TestOpposite(t *testing.T) {
	assert.Equal(t, renderer.South, renderer.North.Opposite())
	assert.Equal(t, renderer.West, renderer.East.Opposite())
	assert.Equal(t, renderer.North, renderer.South.Opposite())
	assert.Equal(t, renderer.East, renderer.West.Opposite())
	assert.Equal(t, renderer.None, renderer.None.Opposite())
}

func TestIsOppositeOf(t *testing.T) {
	assert.True(t, renderer.North.IsOppositeOf(renderer.South))
	assert.True(t, renderer.West.IsOppositeOf(renderer.East))
	assert.False(t, renderer.North.IsOppositeOf(renderer.North))
	assert.False(t, renderer.North.IsOppositeOf(renderer.East))
	assert.False(t, renderer.North.IsOppositeOf(renderer.None))
	assert.False(t, renderer.None.IsOppositeOf(renderer.None))
}

func TestHeadingRoundTrip(t *testing.T) {
	for _, d := range []renderer.CardinalDirection{renderer.North, renderer.East, renderer.South, renderer.West} {
		assert.Equal(t, d, renderer.ClosestCardinal(d.Heading()))
	}
}

func TestSortKeyTable(t *testing.T) {
	c := common.Vec3{X: 2, Y: 9, Z: -3}
	assert.Equal(t, float32(3), renderer.SortKey(renderer.North, c))
	assert.Equal(t, float32(-2), renderer.SortKey(renderer.East, c))
	assert.Equal(t, float32(-3), renderer.SortKey(renderer.South, c))
	assert.Equal(t, float32(2), renderer.SortKey(renderer.West, c))
	assert.Equal(t, float32(0), renderer.SortKey(renderer.None, c))
}

func TestSortKeyMatchesViewDepth(t *testing.T) {
	// the farther of two points along the view direction must get the smaller key
	views := map[renderer.CardinalDirection]common.Vec3{
		renderer.North: {Z: 1},
		renderer.East:  {X: 1},
		renderer.South: {Z: -1},
		renderer.West:  {X: -1},
	}
	for dir, v := range views {
		assert.Equal(t, dir, renderer.ClosestCardinal(common.HorizontalAngle(v)))
		near, far := v.Scale(1), v.Scale(10)
		assert.Less(t, renderer.SortKey(dir, far), renderer.SortKey(dir, near), "direction %v", dir)
	}
}
