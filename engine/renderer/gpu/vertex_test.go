package gpu

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readVec3(b []byte, vertex, attribute int) common.Vec3 {
	off := vertex*vertexStride + attribute*12
	f := func(i int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off+i*4:]))
	}
	return common.Vec3{X: f(0), Y: f(1), Z: f(2)}
}

func TestAppendVerticesExpandsAreaTypes(t *testing.T) {
	quad := []common.Vec3{{X: 0}, {X: 1}, {X: 1, Y: 1}, {Y: 1}}
	up := common.Vec3{Y: 1}
	normals := []common.Vec3{up, up, up, up}

	out, n := appendVertices(nil, primitive.TriangleFan, quad, normals)
	require.Equal(t, uint32(6), n)
	require.Len(t, out, 6*vertexStride)

	// fan corners: 0 1 2, 0 2 3
	want := []int{0, 1, 2, 0, 2, 3}
	for i, c := range want {
		assert.Equal(t, quad[c], readVec3(out, i, 0), "vertex %d", i)
		assert.Equal(t, up, readVec3(out, i, 1), "normal %d", i)
	}
}

func TestAppendVerticesLinesAndPoints(t *testing.T) {
	strip := []common.Vec3{{X: 0}, {X: 1}, {X: 2}}

	_, n := appendVertices(nil, primitive.LineStrip, strip, nil)
	assert.Equal(t, uint32(4), n)

	_, n = appendVertices(nil, primitive.Lines, strip, nil)
	assert.Equal(t, uint32(2), n, "trailing odd vertex is dropped")

	out, n := appendVertices(nil, primitive.Points, strip, nil)
	assert.Equal(t, uint32(3), n)
	assert.Equal(t, strip[2], readVec3(out, 2, 0))
	assert.Equal(t, common.Vec3{}, readVec3(out, 2, 1), "missing normals are zero")
}

func TestAppendVerticesAppends(t *testing.T) {
	tri := []common.Vec3{{X: 0}, {X: 1}, {Y: 1}}
	out, _ := appendVertices(nil, primitive.Triangles, tri, nil)
	out, n := appendVertices(out, primitive.Triangles, tri, nil)
	assert.Equal(t, uint32(3), n)
	assert.Len(t, out, 6*vertexStride)
}

func TestAppendRangeMergesContiguousRuns(t *testing.T) {
	red := material.NewMaterial(material.WithName("red")).Properties()
	blue := material.NewMaterial(material.WithName("blue")).Properties()
	tris := pipeline.Kind{Topology: wgpu.PrimitiveTopologyTriangleList}
	lines := pipeline.Kind{Topology: wgpu.PrimitiveTopologyLineList}

	var ranges []drawRange
	ranges = appendRange(ranges, drawRange{kind: tris, mat: red, first: 0, count: 3})
	ranges = appendRange(ranges, drawRange{kind: tris, mat: red, first: 3, count: 6})
	require.Len(t, ranges, 1)
	assert.Equal(t, uint32(9), ranges[0].count)

	ranges = appendRange(ranges, drawRange{kind: tris, mat: blue, first: 9, count: 3})
	ranges = appendRange(ranges, drawRange{kind: lines, mat: blue, first: 12, count: 2})
	ranges = appendRange(ranges, drawRange{kind: lines, mat: blue, first: 14, count: 0})
	assert.Len(t, ranges, 3)
}

func TestKindForBlendsOnlyTrueTransparency(t *testing.T) {
	glass := material.NewMaterial(material.WithTransparency(material.True))
	cutout := material.NewMaterial(material.WithTransparency(material.Binary))

	assert.True(t, kindFor(primitive.Triangles, glass).Blended)
	assert.False(t, kindFor(primitive.Triangles, cutout).Blended)
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, kindFor(primitive.LineStrip, glass).Topology)
	assert.Equal(t, wgpu.PrimitiveTopologyPointList, kindFor(primitive.Points, cutout).Topology)
}

func TestShaderSource(t *testing.T) {
	src, decls, err := shaderSource(common.Vec3{Y: 2}, [3]float32{1, 0.5, 0})
	require.NoError(t, err)
	assert.NotContains(t, src, "@oxy:")
	assert.Contains(t, src, "@group(0) @binding(0) var<uniform> camera: CameraUniform;")
	assert.Contains(t, src, "@group(1) @binding(0) var<uniform> material: MaterialParams;")
	assert.Contains(t, src, "struct CameraUniform")
	assert.Contains(t, src, "struct MaterialParams")
	assert.Contains(t, src, "LIGHT_DIR: vec3<f32> = vec3<f32>(0.000000, 1.000000, 0.000000)")
	assert.Contains(t, src, "LIGHT_RADIANCE: vec3<f32> = vec3<f32>(1.000000, 0.500000, 0.000000)")
	assert.Contains(t, src, "fn vs_main")
	assert.Contains(t, src, "fn fs_main")

	cameraSlot, materialSlot, err := bindingSlots(decls)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cameraSlot)
	assert.Equal(t, uint32(1), materialSlot)
}

func TestBindingSlotsRejectsUnsupportedLayouts(t *testing.T) {
	pp := shader.NewPreProcessor()
	_, err := pp.Process("//@oxy:group 0 0 storage_uniform camera camera")
	require.NoError(t, err)
	_, _, err = bindingSlots(pp.Declarations())
	assert.ErrorContains(t, err, "no material binding")

	_, err = pp.Process("//@oxy:group 0 0 storage_uniform camera camera\n//@oxy:group 2 0 storage_uniform material material")
	require.NoError(t, err)
	_, _, err = bindingSlots(pp.Declarations())
	assert.ErrorContains(t, err, "unsupported binding layout")
}
