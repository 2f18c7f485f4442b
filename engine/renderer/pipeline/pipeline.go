package pipeline

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/cogentcore/webgpu/wgpu"
)

// Kind selects a render pipeline: the list topology drawn and whether fragments are blended.
type Kind struct {
	Topology wgpu.PrimitiveTopology
	Blended  bool
}

// KindFor picks the pipeline kind for a draw type. Only truly transparent materials blend;
// binary transparency is resolved by the alpha cutoff in the opaque pipelines.
//
// Parameters:
//   - t: the draw type
//   - transparent: whether the material is truly transparent
//
// Returns:
//   - Kind: the pipeline kind
func KindFor(t primitive.DrawType, transparent bool) Kind {
	return Kind{Topology: TopologyFor(t), Blended: transparent}
}

// Kinds lists every kind a device needs a pipeline for.
func Kinds() []Kind {
	topologies := []wgpu.PrimitiveTopology{
		wgpu.PrimitiveTopologyTriangleList,
		wgpu.PrimitiveTopologyLineList,
		wgpu.PrimitiveTopologyPointList,
	}
	kinds := make([]Kind, 0, 2*len(topologies))
	for _, t := range topologies {
		kinds = append(kinds, Kind{Topology: t}, Kind{Topology: t, Blended: true})
	}
	return kinds
}

// String returns the pipeline key, e.g. "triangles" or "lines/blended".
func (k Kind) String() string {
	name := "unknown"
	switch k.Topology {
	case wgpu.PrimitiveTopologyTriangleList:
		name = "triangles"
	case wgpu.PrimitiveTopologyLineList:
		name = "lines"
	case wgpu.PrimitiveTopologyPointList:
		name = "points"
	}
	if k.Blended {
		name += "/blended"
	}
	return name
}

// TopologyFor maps a draw type onto the list topology its expanded vertices are drawn with.
// Area types are expanded to triangle lists, line types to line lists.
//
// Parameters:
//   - t: the draw type
//
// Returns:
//   - wgpu.PrimitiveTopology: the topology to draw with
func TopologyFor(t primitive.DrawType) wgpu.PrimitiveTopology {
	switch {
	case t.IsArea():
		return wgpu.PrimitiveTopologyTriangleList
	case t == primitive.Points:
		return wgpu.PrimitiveTopologyPointList
	default:
		return wgpu.PrimitiveTopologyLineList
	}
}

// alphaBlend is straight source-over compositing.
var alphaBlend = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorSrcAlpha,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
		Operation: wgpu.BlendOperationAdd,
	},
}

// Pipeline describes one render pipeline of the flat shader: its kind, the WGSL program and
// the fixed-function state derived from the kind. Blended pipelines test against the depth of
// opaque geometry but never write depth, so transparent surfaces do not occlude each other and
// the draw order alone decides the blend.
type Pipeline interface {
	// Kind returns the kind the pipeline was created for.
	Kind() Kind

	// Key returns the pipeline's label.
	Key() string

	// Source returns the WGSL module source.
	Source() string

	// VertexEntryPoint returns the name of the vertex stage entry point.
	VertexEntryPoint() string

	// FragmentEntryPoint returns the name of the fragment stage entry point.
	FragmentEntryPoint() string

	// VertexLayouts returns the vertex buffer layouts of the vertex stage.
	VertexLayouts() []wgpu.VertexBufferLayout

	// PrimitiveState returns the primitive assembly state.
	PrimitiveState() wgpu.PrimitiveState

	// ColorTarget returns the color target state for a surface format, with blending for
	// blended kinds.
	//
	// Parameters:
	//   - format: the surface texture format
	//
	// Returns:
	//   - wgpu.ColorTargetState: the color target
	ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState

	// DepthStencil returns the depth state for a depth texture format.
	//
	// Parameters:
	//   - format: the depth texture format
	//
	// Returns:
	//   - *wgpu.DepthStencilState: the depth state
	DepthStencil(format wgpu.TextureFormat) *wgpu.DepthStencilState

	// Handle returns the created WebGPU pipeline, or nil before SetHandle.
	Handle() *wgpu.RenderPipeline

	// SetHandle stores the created WebGPU pipeline, releasing a previous one.
	SetHandle(rp *wgpu.RenderPipeline)

	// Release releases the WebGPU pipeline. Calling it twice is a no-op.
	Release()
}

type pipeline struct {
	kind          Kind
	source        string
	vertexEntry   string
	fragmentEntry string
	vertexLayouts []wgpu.VertexBufferLayout
	cullMode      wgpu.CullMode
	depthTest     bool
	handle        *wgpu.RenderPipeline
}

var _ Pipeline = &pipeline{}

// NewPipeline describes the pipeline of kind over a WGSL module.
//
// Parameters:
//   - kind: the topology and blending of the pipeline
//   - source: the WGSL module source
//   - opts: functional options to configure the pipeline
//
// Returns:
//   - Pipeline: the pipeline description
func NewPipeline(kind Kind, source string, opts ...PipelineBuilderOption) Pipeline {
	p := &pipeline{
		kind:          kind,
		source:        source,
		vertexEntry:   "vs_main",
		fragmentEntry: "fs_main",
		cullMode:      wgpu.CullModeNone,
		depthTest:     true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) Kind() Kind {
	return p.kind
}

func (p *pipeline) Key() string {
	return "flat/" + p.kind.String()
}

func (p *pipeline) Source() string {
	return p.source
}

func (p *pipeline) VertexEntryPoint() string {
	return p.vertexEntry
}

func (p *pipeline) FragmentEntryPoint() string {
	return p.fragmentEntry
}

func (p *pipeline) VertexLayouts() []wgpu.VertexBufferLayout {
	return p.vertexLayouts
}

func (p *pipeline) PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  p.kind.Topology,
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  p.cullMode,
	}
}

func (p *pipeline) ColorTarget(format wgpu.TextureFormat) wgpu.ColorTargetState {
	target := wgpu.ColorTargetState{
		Format:    format,
		WriteMask: wgpu.ColorWriteMaskAll,
	}
	if p.kind.Blended {
		blend := alphaBlend
		target.Blend = &blend
	}
	return target
}

func (p *pipeline) DepthStencil(format wgpu.TextureFormat) *wgpu.DepthStencilState {
	compare := wgpu.CompareFunctionLess
	if !p.depthTest {
		compare = wgpu.CompareFunctionAlways
	}
	return &wgpu.DepthStencilState{
		Format:            format,
		DepthWriteEnabled: !p.kind.Blended,
		DepthCompare:      compare,
		StencilFront:      wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
		StencilBack:       wgpu.StencilFaceState{Compare: wgpu.CompareFunctionAlways},
	}
}

func (p *pipeline) Handle() *wgpu.RenderPipeline {
	return p.handle
}

func (p *pipeline) SetHandle(rp *wgpu.RenderPipeline) {
	if p.handle != nil && p.handle != rp {
		p.handle.Release()
	}
	p.handle = rp
}

func (p *pipeline) Release() {
	if p.handle != nil {
		p.handle.Release()
		p.handle = nil
	}
}
