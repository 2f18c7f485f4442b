package pipeline

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline(Kind{Topology: wgpu.PrimitiveTopologyTriangleList}, "// wgsl")

	assert.Equal(t, "flat/triangles", p.Key())
	assert.Equal(t, "// wgsl", p.Source())
	assert.Equal(t, "vs_main", p.VertexEntryPoint())
	assert.Equal(t, "fs_main", p.FragmentEntryPoint())
	assert.Equal(t, wgpu.CullModeNone, p.PrimitiveState().CullMode)
	assert.Nil(t, p.ColorTarget(wgpu.TextureFormatBGRA8Unorm).Blend)
	assert.Nil(t, p.Handle())

	depth := p.DepthStencil(wgpu.TextureFormatDepth24Plus)
	assert.True(t, depth.DepthWriteEnabled)
	assert.Equal(t, wgpu.CompareFunctionLess, depth.DepthCompare)
}

func TestBlendedPipelineKeepsDepth(t *testing.T) {
	p := NewPipeline(Kind{Topology: wgpu.PrimitiveTopologyLineList, Blended: true}, "")

	assert.Equal(t, "flat/lines/blended", p.Key())
	target := p.ColorTarget(wgpu.TextureFormatBGRA8Unorm)
	require.NotNil(t, target.Blend)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, target.Blend.Color.DstFactor)

	depth := p.DepthStencil(wgpu.TextureFormatDepth24Plus)
	assert.False(t, depth.DepthWriteEnabled, "transparent surfaces never occlude each other")
	assert.Equal(t, wgpu.CompareFunctionLess, depth.DepthCompare)
}

func TestPipelineOptions(t *testing.T) {
	layout := wgpu.VertexBufferLayout{ArrayStride: 24, StepMode: wgpu.VertexStepModeVertex}
	p := NewPipeline(Kind{Topology: wgpu.PrimitiveTopologyPointList}, "",
		WithEntryPoints("v", "f"),
		WithVertexLayouts(layout),
		WithCullMode(wgpu.CullModeBack),
		WithDepthTest(false),
	)

	assert.Equal(t, "v", p.VertexEntryPoint())
	assert.Equal(t, "f", p.FragmentEntryPoint())
	assert.Equal(t, []wgpu.VertexBufferLayout{layout}, p.VertexLayouts())
	assert.Equal(t, wgpu.CullModeBack, p.PrimitiveState().CullMode)
	assert.Equal(t, wgpu.PrimitiveTopologyPointList, p.PrimitiveState().Topology)
	assert.Equal(t, wgpu.CompareFunctionAlways, p.DepthStencil(wgpu.TextureFormatDepth24Plus).DepthCompare)
}

func TestKinds(t *testing.T) {
	kinds := Kinds()
	assert.Len(t, kinds, 6)
	seen := make(map[string]bool)
	for _, k := range kinds {
		seen[k.String()] = true
	}
	assert.Len(t, seen, 6)
	assert.True(t, seen["points/blended"])
}

func TestKindFor(t *testing.T) {
	assert.Equal(t, Kind{Topology: wgpu.PrimitiveTopologyTriangleList, Blended: true}, KindFor(primitive.TriangleFan, true))
	assert.Equal(t, Kind{Topology: wgpu.PrimitiveTopologyLineList}, KindFor(primitive.LineStrip, false))
}

func TestTopologyFor(t *testing.T) {
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, TopologyFor(primitive.ConvexPolygon))
	assert.Equal(t, wgpu.PrimitiveTopologyTriangleList, TopologyFor(primitive.TriangleStrip))
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, TopologyFor(primitive.Lines))
	assert.Equal(t, wgpu.PrimitiveTopologyLineList, TopologyFor(primitive.LineStrip))
	assert.Equal(t, wgpu.PrimitiveTopologyPointList, TopologyFor(primitive.Points))
}
