package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func flat(name string, rgba [4]float32) material.Material {
	return material.NewMaterial(
		material.WithName(name),
		material.WithBaseColor(rgba),
		material.WithAmbientFactor(1),
		material.WithDiffuseFactor(0),
	)
}

// centerTriangle covers the middle of the viewport at the given NDC depth.
func centerTriangle(z float32) []common.Vec3 {
	return []common.Vec3{{X: -0.8, Y: -0.8, Z: z}, {X: 0.8, Y: -0.8, Z: z}, {Y: 0.8, Z: z}}
}

func newFrame(t *testing.T) *Device {
	t.Helper()
	d := NewDevice(32, 32, WithClearColor(color.NRGBA{A: 255}))
	require.NoError(t, d.BeginFrame(identity, common.Vec3{}))
	return d
}

func TestBlendsTransparentOverOpaque(t *testing.T) {
	d := newFrame(t)
	d.SetMaterial(flat("red", [4]float32{1, 0, 0, 1}))
	d.DrawPrimitive(primitive.Triangles, centerTriangle(0.5), nil, nil)
	d.SetMaterial(flat("blue", [4]float32{0, 0, 1, 0.5}))
	d.DrawPrimitive(primitive.Triangles, centerTriangle(0.4), nil, nil)
	require.NoError(t, d.EndFrame())

	c := d.Image().RGBAAt(16, 16)
	assert.InDelta(t, 128, int(c.R), 2)
	assert.Equal(t, uint8(0), c.G)
	assert.InDelta(t, 128, int(c.B), 2)
	assert.Equal(t, 2, d.Triangles())

	corner := d.Image().RGBAAt(0, 0)
	assert.Equal(t, color.RGBA{A: 255}, corner)
}

func TestSubmissionOrderDecidesBlendResult(t *testing.T) {
	draw := func(first, second material.Material) color.RGBA {
		d := newFrame(t)
		d.SetMaterial(first)
		d.DrawPrimitive(primitive.Triangles, centerTriangle(0.5), nil, nil)
		d.SetMaterial(second)
		d.DrawPrimitive(primitive.Triangles, centerTriangle(0.5), nil, nil)
		return d.Image().RGBAAt(16, 16)
	}
	red := flat("red", [4]float32{1, 0, 0, 0.5})
	green := flat("green", [4]float32{0, 1, 0, 0.5})

	redThenGreen := draw(red, green)
	greenThenRed := draw(green, red)
	assert.Greater(t, redThenGreen.G, redThenGreen.R)
	assert.Greater(t, greenThenRed.R, greenThenRed.G)
}

func TestBatchPaintsFarthestFirst(t *testing.T) {
	d := NewDevice(32, 32)
	id, err := d.BeginBatch()
	require.NoError(t, err)
	d.SetMaterial(flat("near", [4]float32{0, 1, 0, 1}))
	d.DrawPrimitive(primitive.Triangles, centerTriangle(0.2), nil, nil)
	d.SetMaterial(flat("far", [4]float32{1, 0, 0, 1}))
	d.DrawPrimitive(primitive.Triangles, centerTriangle(0.8), nil, nil)
	require.NoError(t, d.EndBatch(id))
	assert.Equal(t, 1, d.LiveBatches())

	require.NoError(t, d.BeginFrame(identity, common.Vec3{}))
	require.NoError(t, d.CallBatch(id))
	c := d.Image().RGBAAt(16, 16)
	assert.Equal(t, uint8(255), c.G)
	assert.Equal(t, uint8(0), c.R)

	d.ReleaseBatch(id)
	assert.ErrorIs(t, d.CallBatch(id), ErrUnknownBatch)
}

func TestLinesAndPoints(t *testing.T) {
	d := newFrame(t)
	d.SetMaterial(flat("white", [4]float32{1, 1, 1, 1}))
	d.DrawPrimitive(primitive.Lines, []common.Vec3{{X: -1, Y: 0}, {X: 1, Y: 0}}, nil, nil)
	d.DrawPrimitive(primitive.Points, []common.Vec3{{X: 0.5, Y: 0.5}}, nil, nil)

	assert.NotZero(t, d.Image().RGBAAt(4, 16).R, "line crosses the middle row")
	assert.NotZero(t, d.Image().RGBAAt(24, 8).R, "point near the upper right")
	assert.Equal(t, 0, d.Triangles())
}

func TestMaxBatches(t *testing.T) {
	d := NewDevice(8, 8, WithMaxBatches(1))
	id, err := d.BeginBatch()
	require.NoError(t, err)
	require.NoError(t, d.EndBatch(id))
	_, err = d.BeginBatch()
	assert.Error(t, err)
}

func TestWritePNG(t *testing.T) {
	d := newFrame(t)
	var buf bytes.Buffer
	require.NoError(t, d.WritePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 32, img.Bounds().Dx())
}
