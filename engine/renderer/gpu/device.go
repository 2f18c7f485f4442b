// Package gpu implements renderer.FrameDevice on WebGPU.
//
// A recorded batch becomes one vertex buffer plus a list of draw ranges, each range drawn with
// the pipeline for its topology and the bind group of its material. Immediate draws issued
// during a frame are packed into a transient vertex buffer. Everything a frame submits is
// encoded into a single render pass at EndFrame, in submission order, so the blended result of
// transparent geometry is exactly the order the renderer chose.
package gpu

import (
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	// ErrUnknownBatch is returned by CallBatch for batches that were never finalized or were released.
	ErrUnknownBatch = errors.New("unknown batch")
	// ErrNestedBatch is returned by BeginBatch while another batch is being recorded.
	ErrNestedBatch = errors.New("batch already being recorded")
	// ErrFrameInProgress is returned by BeginFrame when the previous frame was not presented.
	ErrFrameInProgress = errors.New("previous frame surface not yet presented")
)

const depthFormat = wgpu.TextureFormatDepth24Plus

// batch is the device side of a recorded batch.
type batch struct {
	id       renderer.BatchID
	vertices []byte
	ranges   []drawRange
	mesh     bind_group_provider.BindGroupProvider
}

// drawOp is one entry of a frame's submission list: either a batch replay or a
// range of the transient vertex buffer.
type drawOp struct {
	batch *batch
	r     drawRange
}

// Device is a WebGPU renderer.FrameDevice presenting to a window surface.
type Device struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat        *wgpu.TextureFormat
	depthTexture         *wgpu.Texture
	depthTextureView     *wgpu.TextureView
	renderPassDescriptor *wgpu.RenderPassDescriptor

	presentMode   wgpu.PresentMode
	clearColor    wgpu.Color
	light         light.Light
	forceFallback bool

	shaderCode     string
	cameraSlot     uint32
	materialSlot   uint32
	shaderModule   *wgpu.ShaderModule
	pipelineLayout *wgpu.PipelineLayout
	cameraLayout   *wgpu.BindGroupLayout
	materialLayout *wgpu.BindGroupLayout
	pipelines      map[pipeline.Kind]pipeline.Pipeline

	camera    bind_group_provider.BindGroupProvider
	materials map[material.Properties]bind_group_provider.BindGroupProvider
	transient bind_group_provider.BindGroupProvider

	current   material.Material
	nextID    renderer.BatchID
	recording *batch
	batches   map[renderer.BatchID]*batch

	// deferred holds an error raised by a call without an error return; it is reported
	// by the next EndBatch or EndFrame.
	deferred error

	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
	ops          []drawOp
	frameBytes   []byte
}

var _ renderer.FrameDevice = &Device{}

// NewDevice creates the WebGPU instance, adapter and device for a window surface, builds the
// render pipelines and configures the surface at the given size.
//
// Parameters:
//   - surfaceDescriptor: the platform surface of the window to present to
//   - width: the initial surface width in pixels
//   - height: the initial surface height in pixels
//   - options: functional options to configure the device
//
// Returns:
//   - *Device: the device
//   - error: an error if any WebGPU object could not be created
func NewDevice(surfaceDescriptor *wgpu.SurfaceDescriptor, width, height int, options ...DeviceOption) (*Device, error) {
	runtime.LockOSThread()
	d := &Device{
		mu:          &sync.Mutex{},
		presentMode: wgpu.PresentModeFifo,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		light:       light.NewLight(),
		pipelines:   make(map[pipeline.Kind]pipeline.Pipeline),
		materials:   make(map[material.Properties]bind_group_provider.BindGroupProvider),
		batches:     make(map[renderer.BatchID]*batch),
		current:     material.NewMaterial(),
		transient:   bind_group_provider.NewBindGroupProvider("Transient"),
	}
	for _, opt := range options {
		opt(d)
	}

	d.instance = wgpu.CreateInstance(nil)
	d.surface = d.instance.CreateSurface(surfaceDescriptor)

	a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: d.forceFallback,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = a

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	capabilities := d.surface.GetCapabilities(d.adapter)
	if len(capabilities.Formats) == 0 {
		d.Release()
		return nil, errors.New("surface reports no supported formats")
	}
	d.surfaceFormat = &capabilities.Formats[0]

	if err := d.initShader(); err != nil {
		d.Release()
		return nil, err
	}
	if err := d.initLayouts(); err != nil {
		d.Release()
		return nil, err
	}
	if err := d.initPipelines(); err != nil {
		d.Release()
		return nil, err
	}
	if err := d.ConfigureSurface(width, height); err != nil {
		d.Release()
		return nil, err
	}

	common.Logger().Info("gpu device ready",
		"format", uint32(*d.surfaceFormat),
		"width", width,
		"height", height,
	)
	return d, nil
}

// initShader renders the shader source and reads the bind group slots it declares.
func (d *Device) initShader() error {
	source, declarations, err := shaderSource(d.light.Direction(), d.light.Radiance())
	if err != nil {
		return err
	}
	d.cameraSlot, d.materialSlot, err = bindingSlots(declarations)
	if err != nil {
		return err
	}
	d.shaderCode = source
	return nil
}

// initLayouts creates the camera and material bind group layouts, the shared pipeline
// layout and the camera uniform.
func (d *Device) initLayouts() error {
	var cameraUniform camera.GPUCameraUniform
	var materialParams material.GPUMaterialParams

	var err error
	d.cameraLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Camera Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(cameraUniform.Size()),
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create camera bind group layout: %w", err)
	}
	d.materialLayout, err = d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Material Layout",
		Entries: []wgpu.BindGroupLayoutEntry{{
			Binding:    0,
			Visibility: wgpu.ShaderStageFragment,
			Buffer: wgpu.BufferBindingLayout{
				Type:           wgpu.BufferBindingTypeUniform,
				MinBindingSize: uint64(materialParams.Size()),
			},
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create material bind group layout: %w", err)
	}

	layouts := make([]*wgpu.BindGroupLayout, 2)
	layouts[d.cameraSlot] = d.cameraLayout
	layouts[d.materialSlot] = d.materialLayout
	d.pipelineLayout, err = d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Flat Pipeline Layout",
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline layout: %w", err)
	}

	d.camera = bind_group_provider.NewBindGroupProvider("Camera",
		bind_group_provider.WithSharedLayout(d.cameraLayout),
	)
	return d.initUniform(d.camera, uint64(cameraUniform.Size()))
}

// initUniform allocates a uniform buffer at binding 0 of provider and creates its bind group.
func (d *Device) initUniform(provider bind_group_provider.BindGroupProvider, size uint64) error {
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: provider.Label() + " Buffer",
		Size:  size,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("failed to create %s uniform buffer: %w", provider.Label(), err)
	}
	provider.SetBuffer(0, buf)

	bindGroup, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  provider.Label() + " Bind Group",
		Layout: provider.BindGroupLayout(),
		Entries: []wgpu.BindGroupEntry{{
			Binding: 0,
			Buffer:  buf,
			Offset:  0,
			Size:    wgpu.WholeSize,
		}},
	})
	if err != nil {
		return fmt.Errorf("failed to create %s bind group: %w", provider.Label(), err)
	}
	provider.SetBindGroup(bindGroup)
	return nil
}

// initPipelines builds one opaque and one blended pipeline per list topology.
func (d *Device) initPipelines() error {
	var err error
	d.shaderModule, err = d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Flat Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: d.shaderCode,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create shader module: %w", err)
	}

	for _, kind := range pipeline.Kinds() {
		p := pipeline.NewPipeline(kind, d.shaderCode, pipeline.WithVertexLayouts(vertexLayout))
		if err := d.registerPipeline(p); err != nil {
			return err
		}
		d.pipelines[kind] = p
	}
	return nil
}

// registerPipeline creates the WebGPU render pipeline described by p and stores it on p.
func (d *Device) registerPipeline(p pipeline.Pipeline) error {
	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.Key() + " Render Pipeline",
		Layout: d.pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     d.shaderModule,
			EntryPoint: p.VertexEntryPoint(),
			Buffers:    p.VertexLayouts(),
		},
		Fragment: &wgpu.FragmentState{
			Module:     d.shaderModule,
			EntryPoint: p.FragmentEntryPoint(),
			Targets:    []wgpu.ColorTargetState{p.ColorTarget(*d.surfaceFormat)},
		},
		Primitive: p.PrimitiveState(),
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: p.DepthStencil(depthFormat),
	})
	if err != nil {
		return fmt.Errorf("failed to create pipeline %s: %w", p.Key(), err)
	}
	p.SetHandle(created)
	return nil
}

// ConfigureSurface configures the surface and recreates the depth texture. It must be
// called whenever the window is resized.
//
// Parameters:
//   - width: the new width of the surface in pixels
//   - height: the new height of the surface in pixels
//
// Returns:
//   - error: an error if the depth texture could not be created
func (d *Device) ConfigureSurface(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if width <= 0 || height <= 0 {
		return nil
	}

	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: d.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	if d.depthTextureView != nil {
		d.depthTextureView.Release()
		d.depthTextureView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}

	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        depthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	d.depthTexture = depthTexture
	d.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		return fmt.Errorf("failed to create depth texture view: %w", err)
	}

	// View is set per-frame to the swapchain view.
	d.renderPassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: d.clearColor,
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	}
	return nil
}

// materialGroup returns the bind group provider for m, uploading its parameters on first use.
func (d *Device) materialGroup(m material.Material) (bind_group_provider.BindGroupProvider, error) {
	key := m.Properties()
	if provider, ok := d.materials[key]; ok {
		return provider, nil
	}
	provider := bind_group_provider.NewBindGroupProvider("Material "+m.Name(),
		bind_group_provider.WithSharedLayout(d.materialLayout),
	)
	params := material.NewGPUMaterialParams(m)
	if err := d.initUniform(provider, uint64(params.Size())); err != nil {
		provider.Release()
		return nil, err
	}
	d.writeBuffers([]bind_group_provider.BufferWrite{{Provider: provider, Binding: 0, Data: params.Marshal()}})
	d.materials[key] = provider
	return provider, nil
}

// writeBuffers writes staged buffer writes to the GPU queue.
func (d *Device) writeBuffers(writes []bind_group_provider.BufferWrite) {
	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		d.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

// uploadVertices writes data into the provider's vertex buffer, growing it when it is too small.
func (d *Device) uploadVertices(provider bind_group_provider.BindGroupProvider, data []byte) error {
	size := uint64(len(data))
	if size == 0 {
		provider.SetVertexCount(0)
		return nil
	}
	if provider.VertexBuffer() == nil || provider.VertexCapacity() < size {
		capacity := max(size, 2*provider.VertexCapacity())
		buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Vertex Buffer",
			Size:  capacity,
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s vertex buffer: %w", provider.Label(), err)
		}
		provider.SetVertexBuffer(buf, capacity)
	}
	d.queue.WriteBuffer(provider.VertexBuffer(), 0, data)
	provider.SetVertexCount(len(data) / vertexStride)
	return nil
}

// BeginBatch starts recording a batch.
func (d *Device) BeginBatch() (renderer.BatchID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.recording != nil {
		return 0, ErrNestedBatch
	}
	d.nextID++
	d.recording = &batch{id: d.nextID}
	return d.nextID, nil
}

// EndBatch uploads the recorded vertices of the batch into its own vertex buffer.
func (d *Device) EndBatch(id renderer.BatchID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.recording == nil || d.recording.id != id {
		return fmt.Errorf("%w: %d", ErrUnknownBatch, id)
	}
	b := d.recording
	d.recording = nil
	if err := d.takeDeferred(); err != nil {
		return err
	}

	b.mesh = bind_group_provider.NewBindGroupProvider(fmt.Sprintf("Batch %d", id))
	if err := d.uploadVertices(b.mesh, b.vertices); err != nil {
		b.mesh.Release()
		return err
	}
	b.vertices = nil
	d.batches[id] = b
	return nil
}

// SetMaterial activates m for the following draws.
func (d *Device) SetMaterial(m material.Material) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if m == nil {
		m = material.NewMaterial()
	}
	if _, err := d.materialGroup(m); err != nil && d.deferred == nil {
		d.deferred = err
	}
	d.current = m
}

// DrawPrimitive records the primitive into the batch being recorded, or queues it on the
// current frame.
func (d *Device) DrawPrimitive(t primitive.DrawType, vertices, normals []common.Vec3, _ [][]common.TexCoord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := drawRange{kind: kindFor(t, d.current), mat: d.current.Properties()}
	if d.recording != nil {
		r.first = uint32(len(d.recording.vertices) / vertexStride)
		d.recording.vertices, r.count = appendVertices(d.recording.vertices, t, vertices, normals)
		d.recording.ranges = appendRange(d.recording.ranges, r)
		return
	}

	r.first = uint32(len(d.frameBytes) / vertexStride)
	d.frameBytes, r.count = appendVertices(d.frameBytes, t, vertices, normals)
	if r.count == 0 {
		return
	}
	if n := len(d.ops); n > 0 && d.ops[n-1].batch == nil {
		merged := appendRange([]drawRange{d.ops[n-1].r}, r)
		if len(merged) == 1 {
			d.ops[n-1].r = merged[0]
			return
		}
	}
	d.ops = append(d.ops, drawOp{r: r})
}

// CallBatch queues a replay of a finalized batch on the current frame.
func (d *Device) CallBatch(id renderer.BatchID) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	b, ok := d.batches[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownBatch, id)
	}
	d.ops = append(d.ops, drawOp{batch: b})
	return nil
}

// ReleaseBatch frees the vertex buffer of a batch.
func (d *Device) ReleaseBatch(id renderer.BatchID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.recording != nil && d.recording.id == id {
		d.recording = nil
		return
	}
	if b, ok := d.batches[id]; ok {
		b.mesh.Release()
		delete(d.batches, id)
	}
}

// BeginFrame writes the camera uniform and acquires the next swapchain texture.
// Must be paired with EndFrame and Present.
func (d *Device) BeginFrame(viewProj [16]float32, eye common.Vec3) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameSurface != nil {
		return ErrFrameInProgress
	}

	uniform := camera.GPUCameraUniform{
		ViewProj:       viewProj,
		CameraPosition: [3]float32{eye.X, eye.Y, eye.Z},
	}
	d.writeBuffers([]bind_group_provider.BufferWrite{{Provider: d.camera, Binding: 0, Data: uniform.Marshal()}})

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("failed to create surface view: %w", err)
	}

	d.frameSurface = surfaceTexture
	d.frameView = view
	d.ops = d.ops[:0]
	d.frameBytes = d.frameBytes[:0]
	return nil
}

// EndFrame encodes every queued draw into one render pass and submits it.
// Call Present afterwards to display the frame.
func (d *Device) EndFrame() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameView == nil {
		return errors.New("end frame without begin frame")
	}
	if err := d.takeDeferred(); err != nil {
		return err
	}
	if err := d.uploadVertices(d.transient, d.frameBytes); err != nil {
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create command encoder: %w", err)
	}
	d.renderPassDescriptor.ColorAttachments[0].View = d.frameView
	pass := encoder.BeginRenderPass(d.renderPassDescriptor)
	pass.SetBindGroup(d.cameraSlot, d.camera.BindGroup(), nil)

	enc := passState{pass: pass}
	for _, op := range d.ops {
		if op.batch != nil {
			for _, r := range op.batch.ranges {
				d.encodeRange(&enc, op.batch.mesh, r)
			}
			continue
		}
		d.encodeRange(&enc, d.transient, op.r)
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()
	return nil
}

// passState tracks what is bound on the render pass so redundant state changes are skipped.
type passState struct {
	pass     *wgpu.RenderPassEncoder
	pipeline pipeline.Pipeline
	material bind_group_provider.BindGroupProvider
	mesh     bind_group_provider.BindGroupProvider
}

func (d *Device) encodeRange(s *passState, mesh bind_group_provider.BindGroupProvider, r drawRange) {
	p := d.pipelines[r.kind]
	group := d.materials[r.mat]
	if p == nil || group == nil || mesh.VertexBuffer() == nil {
		return
	}
	if s.pipeline != p {
		s.pass.SetPipeline(p.Handle())
		s.pipeline = p
	}
	if s.material != group {
		s.pass.SetBindGroup(d.materialSlot, group.BindGroup(), nil)
		s.material = group
	}
	if s.mesh != mesh {
		s.pass.SetVertexBuffer(0, mesh.VertexBuffer(), 0, wgpu.WholeSize)
		s.mesh = mesh
	}
	s.pass.Draw(r.count, 1, r.first, 0)
}

// Present presents the surface and releases the swapchain texture of the frame.
func (d *Device) Present() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.frameSurface == nil {
		return
	}
	d.surface.Present()

	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	d.frameSurface.Release()
	d.frameSurface = nil
}

// LiveBatches reports how many finalized batches still hold GPU resources.
func (d *Device) LiveBatches() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.batches)
}

func (d *Device) takeDeferred() error {
	err := d.deferred
	d.deferred = nil
	return err
}

// Release frees every GPU object owned by the device. Batches still alive are released too.
func (d *Device) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for id, b := range d.batches {
		b.mesh.Release()
		delete(d.batches, id)
	}
	for key, provider := range d.materials {
		provider.Release()
		delete(d.materials, key)
	}
	if d.transient != nil {
		d.transient.Release()
	}
	if d.camera != nil {
		d.camera.Release()
		d.camera = nil
	}
	for kind, p := range d.pipelines {
		p.Release()
		delete(d.pipelines, kind)
	}
	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frameSurface != nil {
		d.frameSurface.Release()
		d.frameSurface = nil
	}
	if d.depthTextureView != nil {
		d.depthTextureView.Release()
		d.depthTextureView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}
	if d.pipelineLayout != nil {
		d.pipelineLayout.Release()
		d.pipelineLayout = nil
	}
	if d.materialLayout != nil {
		d.materialLayout.Release()
		d.materialLayout = nil
	}
	if d.cameraLayout != nil {
		d.cameraLayout.Release()
		d.cameraLayout = nil
	}
	if d.shaderModule != nil {
		d.shaderModule.Release()
		d.shaderModule = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
