package renderer_test

import (
	"slices"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scatteredQueue fills a queue with transparent triangles at pseudo random positions,
// including some shared coordinates so that ties occur.
func scatteredQueue(t *testing.T) (renderer.TransparencyQueue, []*primitive.Primitive) {
	t.Helper()
	s := &testSource{}
	m := s.addMaterial(glassMaterial("glass", 0.4))
	var prims []*primitive.Primitive
	seed := uint32(7)
	next := func() float32 {
		seed = seed*1664525 + 1013904223
		return float32(seed>>24)/16 - 8
	}
	for range 40 {
		prims = append(prims, s.addTriangle(m, common.Vec3{X: next(), Y: next(), Z: next()}))
	}
	q := renderer.NewTransparencyQueue(s, renderer.DefaultCardinalEpsilon)
	for _, p := range prims {
		q.Add(p, s.materials[m])
	}
	require.Equal(t, len(prims), q.Len())
	return q, prims
}

func primitivesOf(entries []renderer.PrimitiveWithMaterial) []*primitive.Primitive {
	out := make([]*primitive.Primitive, len(entries))
	for i, e := range entries {
		out[i] = e.Primitive
	}
	return out
}

func TestAxisOrdering(t *testing.T) {
	tests := []struct {
		name string
		view testView
		dir  renderer.CardinalDirection
		key  func(common.Vec3) float32
		desc bool
	}{
		{"north descending z", lookNorth, renderer.North, func(c common.Vec3) float32 { return c.Z }, true},
		{"east descending x", lookEast, renderer.East, func(c common.Vec3) float32 { return c.X }, true},
		{"south ascending z", lookSouth, renderer.South, func(c common.Vec3) float32 { return c.Z }, false},
		{"west ascending x", lookWest, renderer.West, func(c common.Vec3) float32 { return c.X }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := scatteredQueue(t)
			path := q.Reorder(tt.view, ortho)
			assert.Equal(t, renderer.PathCardinalSort, path)
			assert.Equal(t, tt.dir, q.Basis())

			entries := q.Entries()
			for i := 1; i < len(entries); i++ {
				a, b := tt.key(entries[i-1].Centroid), tt.key(entries[i].Centroid)
				if tt.desc {
					assert.GreaterOrEqual(t, a, b, "pair %d", i)
				} else {
					assert.LessOrEqual(t, a, b, "pair %d", i)
				}
			}
		})
	}
}

func TestCardinalNoOp(t *testing.T) {
	q, _ := scatteredQueue(t)
	q.Reorder(lookNorth, ortho)
	first := q.Entries()
	comparisons := q.Comparisons()
	require.NotZero(t, comparisons)

	// slightly off axis and from another position, but still closest to north
	moved := testView{pos: common.Vec3{X: 40, Y: 30, Z: -5}, dir: common.Vec3{X: 0.005, Y: -0.5, Z: 1}}
	path := q.Reorder(moved, ortho)

	assert.Equal(t, renderer.PathNoOp, path)
	assert.Equal(t, comparisons, q.Comparisons(), "no comparisons on a same-direction frame")
	assert.Equal(t, first, q.Entries())
	assert.Equal(t, renderer.North, q.Basis())
}

func TestOppositeDirectionReverses(t *testing.T) {
	for _, pair := range [][2]testView{{lookNorth, lookSouth}, {lookSouth, lookNorth}, {lookEast, lookWest}, {lookWest, lookEast}} {
		q, _ := scatteredQueue(t)
		q.Reorder(pair[0], ortho)
		before := primitivesOf(q.Entries())
		comparisons := q.Comparisons()

		path := q.Reorder(pair[1], ortho)

		slices.Reverse(before)
		assert.Equal(t, renderer.PathReverse, path)
		assert.Equal(t, before, primitivesOf(q.Entries()))
		assert.Equal(t, comparisons, q.Comparisons())
		assert.Equal(t, renderer.ClosestCardinal(common.HorizontalAngle(pair[1].dir)), q.Basis())
	}
}

func TestReversalIsNotAFreshSort(t *testing.T) {
	// ties: a fresh stable south sort would keep p1 before p2, a reversal swaps them
	s := &testSource{}
	m := s.addMaterial(glassMaterial("glass", 0.5))
	p1 := s.addTriangle(m, common.Vec3{X: -1, Z: 1})
	p2 := s.addTriangle(m, common.Vec3{X: 1, Z: 1})
	p3 := s.addTriangle(m, common.Vec3{Z: 2})
	q := renderer.NewTransparencyQueue(s, renderer.DefaultCardinalEpsilon)
	for _, p := range []*primitive.Primitive{p1, p2, p3} {
		q.Add(p, s.materials[m])
	}

	q.Reorder(lookNorth, ortho)
	require.Equal(t, []*primitive.Primitive{p3, p1, p2}, primitivesOf(q.Entries()))

	q.Reorder(lookSouth, ortho)
	assert.Equal(t, []*primitive.Primitive{p2, p1, p3}, primitivesOf(q.Entries()))
}

func TestQuarterTurnResorts(t *testing.T) {
	q, _ := scatteredQueue(t)
	q.Reorder(lookNorth, ortho)
	comparisons := q.Comparisons()

	assert.Equal(t, renderer.PathCardinalSort, q.Reorder(lookEast, ortho))
	assert.Greater(t, q.Comparisons(), comparisons)
	assert.Equal(t, renderer.East, q.Basis())
}

func TestGenericPathDistanceOrdering(t *testing.T) {
	views := []struct {
		name string
		view testView
		proj testProjection
	}{
		{"perspective axis aligned", lookNorth, perspective},
		{"perspective oblique", testView{pos: common.Vec3{X: 12, Y: 9, Z: -20}, dir: common.Vec3{X: -0.5, Y: -0.4, Z: 1}}, perspective},
		{"orthographic oblique", testView{pos: common.Vec3{X: 30, Y: 30, Z: 30}, dir: common.Vec3{X: -1, Y: -1, Z: -1}}, ortho},
	}
	for _, tt := range views {
		t.Run(tt.name, func(t *testing.T) {
			q, _ := scatteredQueue(t)
			q.Reorder(lookNorth, ortho)

			assert.Equal(t, renderer.PathDistanceSort, q.Reorder(tt.view, tt.proj))
			assert.Equal(t, renderer.None, q.Basis())

			entries := q.Entries()
			for i := 1; i < len(entries); i++ {
				a := entries[i-1].Centroid.DistanceSq(tt.view.pos)
				b := entries[i].Centroid.DistanceSq(tt.view.pos)
				assert.GreaterOrEqual(t, a, b, "pair %d", i)
			}
		})
	}
}

func TestGenericPathAlwaysResorts(t *testing.T) {
	q, _ := scatteredQueue(t)
	view := testView{pos: common.Vec3{X: 5, Z: -5}, dir: common.Vec3{X: -1, Z: 1}}
	q.Reorder(view, ortho)
	c := q.Comparisons()
	q.Reorder(view, ortho)
	assert.Greater(t, q.Comparisons(), c)

	// after a distance sort the basis is None, so any cardinal direction sorts again
	assert.Equal(t, renderer.PathCardinalSort, q.Reorder(lookSouth, ortho))
}

func TestEmptyQueue(t *testing.T) {
	q := renderer.NewTransparencyQueue(&testSource{}, renderer.DefaultCardinalEpsilon)
	assert.Equal(t, renderer.PathCardinalSort, q.Reorder(lookNorth, ortho))
	assert.Equal(t, renderer.PathReverse, q.Reorder(lookSouth, ortho))
	assert.Empty(t, q.Entries())
}

func TestEqualKeysKeepInsertionOrder(t *testing.T) {
	s := &testSource{}
	m := s.addMaterial(glassMaterial("glass", 0.4))
	var prims []*primitive.Primitive
	for _, x := range []float32{-3, 0, 3, -1, 1} {
		prims = append(prims, s.addTriangle(m, common.Vec3{X: x, Z: 2}))
	}
	q := renderer.NewTransparencyQueue(s, renderer.DefaultCardinalEpsilon)
	for _, p := range prims {
		q.Add(p, s.materials[m])
	}

	// every centroid has Z = 2, so a north sort sees only ties
	require.Equal(t, renderer.PathCardinalSort, q.Reorder(lookNorth, ortho))
	assert.Equal(t, prims, primitivesOf(q.Entries()))
}

func TestSortsReuseKeyStorage(t *testing.T) {
	q, _ := scatteredQueue(t)
	var north, east renderer.Viewpoint = lookNorth, lookEast
	var diagonal renderer.Viewpoint = testView{pos: common.Vec3{X: 5, Z: -5}, dir: common.Vec3{X: -1, Z: 1}}
	var proj renderer.ProjectionMode = ortho
	q.Reorder(diagonal, proj)

	allocs := testing.AllocsPerRun(10, func() {
		q.Reorder(east, proj)
		q.Reorder(north, proj)
		q.Reorder(diagonal, proj)
	})
	assert.Zero(t, allocs)
}

func TestAddDoesNotValidate(t *testing.T) {
	s := &testSource{}
	m := s.addMaterial(glassMaterial("glass", 0.4))
	p := s.addTriangle(m, common.Vec3{Z: 1})
	p.Normals = nil
	require.Error(t, p.Validate())

	q := renderer.NewTransparencyQueue(s, renderer.DefaultCardinalEpsilon)
	q.Add(p, s.materials[m])
	assert.Equal(t, 1, q.Len())
}
