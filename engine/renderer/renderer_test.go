package renderer_test

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/recording"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenario builds two opaque triangles under material A and three transparent
// triangles under material B with centroids at Z = 1, 5, 3.
func scenario() *testSource {
	s := &testSource{}
	a := s.addMaterial(opaqueMaterial("A"))
	s.addTriangle(a, common.Vec3{X: -2})
	s.addTriangle(a, common.Vec3{X: 2})
	b := s.addMaterial(glassMaterial("B", 0.5))
	for _, z := range []float32{1, 5, 3} {
		s.addTriangle(b, common.Vec3{Z: z})
	}
	return s
}

func centroidZs(entries []renderer.PrimitiveWithMaterial) []float32 {
	out := make([]float32, len(entries))
	for i, e := range entries {
		out[i] = e.Centroid.Z
	}
	return out
}

func TestRenderEndToEnd(t *testing.T) {
	src := scenario()
	dev := recording.NewDevice()
	r, err := renderer.NewRenderer(dev, src)
	require.NoError(t, err)
	defer r.FreeResources()

	assert.Equal(t, 1, src.optimized)
	assert.Equal(t, 2, r.StaticPrimitiveCount())
	batch, ok := dev.Batch(1)
	require.True(t, ok)
	require.Len(t, batch, 3, "one material activation and two opaque draws")
	assert.Equal(t, recording.CmdSetMaterial, batch[0].Type)
	assert.Equal(t, "A", batch[0].Material.Name())
	assert.Equal(t, float32(-2), batch[1].Centroid().X)
	assert.Equal(t, float32(2), batch[2].Centroid().X)

	require.NoError(t, r.Render(lookNorth, ortho))
	assert.Equal(t, []float32{5, 3, 1}, centroidZs(r.TransparentOrder()))
	assert.Equal(t, renderer.North, r.SortBasis())

	// the frame replays the batch first, then draws the ordered transparent geometry
	log := dev.Log()
	require.Equal(t, recording.CmdCallBatch, log[0].Type)
	draws := dev.Draws()
	require.Len(t, draws, 3)
	for i, z := range []float32{5, 3, 1} {
		assert.Equal(t, z, draws[i].Centroid().Z)
	}
	stats := r.LastFrameStats()
	assert.Equal(t, renderer.PathCardinalSort, stats.Path)
	assert.Equal(t, 1, stats.MaterialChanges)
	assert.Equal(t, 3, stats.TransparentDraws)
}

func TestFreeResourcesIsIdempotent(t *testing.T) {
	dev := recording.NewDevice()
	r, err := renderer.NewRenderer(dev, scenario())
	require.NoError(t, err)

	r.FreeResources()
	r.FreeResources()
	r.FreeResources()

	assert.Equal(t, 1, dev.ReleaseCalls())
	assert.Equal(t, 0, dev.LiveBatches())
	assert.True(t, r.Released())
}

func TestRenderAfterReleaseFails(t *testing.T) {
	dev := recording.NewDevice()
	r, err := renderer.NewRenderer(dev, scenario())
	require.NoError(t, err)

	r.FreeResources()
	dev.Reset()
	err = r.Render(lookNorth, ortho)
	assert.ErrorIs(t, err, renderer.ErrInvalidState)
	assert.Empty(t, dev.Log(), "nothing is drawn for a rejected frame")
}

func TestStaticBatchReplayAfterRelease(t *testing.T) {
	dev := recording.NewDevice()
	src := scenario()
	queue := renderer.NewTransparencyQueue(src, renderer.DefaultCardinalEpsilon)
	b, err := renderer.NewStaticBatch(dev, src, queue)
	require.NoError(t, err)
	assert.Equal(t, 3, queue.Len())

	require.NoError(t, b.Replay())
	b.Release()
	assert.False(t, b.Live())
	assert.ErrorIs(t, b.Replay(), renderer.ErrInvalidState)
}

func TestConstructionDeviceErrors(t *testing.T) {
	boom := errors.New("out of display lists")

	t.Run("begin", func(t *testing.T) {
		dev := recording.NewDevice(recording.WithBeginBatchError(boom))
		r, err := renderer.NewRenderer(dev, scenario())
		assert.Nil(t, r)
		assert.ErrorIs(t, err, renderer.ErrDevice)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, dev.ReleaseCalls())
	})

	t.Run("end", func(t *testing.T) {
		dev := recording.NewDevice(recording.WithEndBatchError(boom))
		r, err := renderer.NewRenderer(dev, scenario())
		assert.Nil(t, r)
		assert.ErrorIs(t, err, renderer.ErrDevice)
		assert.Equal(t, 1, dev.ReleaseCalls(), "the unfinished batch is released")
	})
}

func TestRenderReplayFailure(t *testing.T) {
	boom := errors.New("display list lost")
	dev := recording.NewDevice(recording.WithCallBatchError(boom))
	r, err := renderer.NewRenderer(dev, scenario())
	require.NoError(t, err, "recording the batch does not replay it")
	defer r.FreeResources()

	err = r.Render(lookNorth, ortho)
	assert.ErrorIs(t, err, renderer.ErrDevice)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, dev.Draws(), "no transparent geometry is drawn over a failed replay")
	assert.Equal(t, 0, r.LastFrameStats().TransparentDraws)
}

func TestLazyMaterialSwitching(t *testing.T) {
	s := &testSource{}
	b := s.addMaterial(glassMaterial("B", 0.5))
	bTwin := s.addMaterial(glassMaterial("B", 0.5)) // equal by value, distinct instance
	c := s.addMaterial(glassMaterial("C", 0.3))
	s.addTriangle(b, common.Vec3{Z: 6})
	s.addTriangle(bTwin, common.Vec3{Z: 5})
	s.addTriangle(c, common.Vec3{Z: 4})
	s.addTriangle(c, common.Vec3{Z: 3})
	s.addTriangle(b, common.Vec3{Z: 2})

	dev := recording.NewDevice()
	r, err := renderer.NewRenderer(dev, s)
	require.NoError(t, err)
	defer r.FreeResources()

	dev.Reset()
	require.NoError(t, r.Render(lookNorth, ortho))

	var names []string
	for _, cmd := range dev.Immediate() {
		if cmd.Type == recording.CmdSetMaterial {
			names = append(names, cmd.Material.Name())
		}
	}
	assert.Equal(t, []string{"B", "C", "B"}, names)
	assert.Equal(t, 3, r.LastFrameStats().MaterialChanges)
	assert.Len(t, dev.Draws(), 5)
}

func TestOpaqueMaterialsKeepSourceOrder(t *testing.T) {
	s := &testSource{}
	binary := s.addMaterial(material.NewMaterial(material.WithName("fence"), material.WithTransparency(material.Binary)))
	opaque := s.addMaterial(opaqueMaterial("wall"))
	s.addTriangle(binary, common.Vec3{Z: 1})
	s.addTriangle(opaque, common.Vec3{Z: 2})
	s.addTriangle(binary, common.Vec3{Z: 3})

	dev := recording.NewDevice()
	r, err := renderer.NewRenderer(dev, s)
	require.NoError(t, err)
	defer r.FreeResources()

	batch, ok := dev.Batch(1)
	require.True(t, ok)
	var got []string
	for _, cmd := range batch {
		if cmd.Type == recording.CmdSetMaterial {
			got = append(got, cmd.Material.Name())
		} else {
			got = append(got, "draw")
		}
	}
	assert.Equal(t, []string{"fence", "draw", "draw", "wall", "draw"}, got)
	assert.Empty(t, r.TransparentOrder())
}

func TestInvalidPrimitivesAreSkipped(t *testing.T) {
	s := scenario()
	s.prims[1][0].Normals = nil

	r, err := renderer.NewRenderer(recording.NewDevice(), s)
	require.NoError(t, err)
	defer r.FreeResources()
	assert.Len(t, r.TransparentOrder(), 2)
}

func TestRenderIsDeterministic(t *testing.T) {
	view := testView{pos: common.Vec3{X: 3, Y: 8, Z: -7}, dir: common.Vec3{X: -0.3, Y: -0.8, Z: 0.7}}
	var orders [][]float32
	for range 3 {
		r, err := renderer.NewRenderer(recording.NewDevice(), scenario())
		require.NoError(t, err)
		require.NoError(t, r.Render(view, perspective))
		require.NoError(t, r.Render(view, perspective))
		orders = append(orders, centroidZs(r.TransparentOrder()))
		r.FreeResources()
	}
	assert.Equal(t, orders[0], orders[1])
	assert.Equal(t, orders[0], orders[2])
}

func TestWithCardinalEpsilon(t *testing.T) {
	// 0.05 rad off north is a generic view by default, cardinal with a wider tolerance
	dir := common.Vec3{X: 0.05, Z: 1}

	r, err := renderer.NewRenderer(recording.NewDevice(), scenario())
	require.NoError(t, err)
	require.NoError(t, r.Render(testView{pos: common.Vec3{Z: -100}, dir: dir}, ortho))
	assert.Equal(t, renderer.PathDistanceSort, r.LastFrameStats().Path)
	r.FreeResources()

	r, err = renderer.NewRenderer(recording.NewDevice(), scenario(), renderer.WithCardinalEpsilon(0.1))
	require.NoError(t, err)
	require.NoError(t, r.Render(testView{pos: common.Vec3{Z: -100}, dir: dir}, ortho))
	assert.Equal(t, renderer.PathCardinalSort, r.LastFrameStats().Path)
	r.FreeResources()
}
