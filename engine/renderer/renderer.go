package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	device Device
	source GeometrySource

	batch StaticBatch
	queue *transparencyQueue

	epsilon float32
	stats   FrameStats

	// positions is reused between draws; devices copy what they keep.
	positions []common.Vec3
}

// Renderer draws a GeometrySource every frame: the non-transparent geometry is replayed
// from a static batch recorded once at construction, and the transparent geometry is
// ordered back to front for the current view and drawn with as few material changes as
// possible.
//
// A Renderer belongs to the goroutine that owns its Device and is not safe for concurrent use.
// FreeResources must be called before the Renderer is discarded.
type Renderer interface {
	// Render draws one frame for the given view.
	//
	// Parameters:
	//   - view: the camera
	//   - proj: the projection
	//
	// Returns:
	//   - error: ErrInvalidState after FreeResources, ErrDevice if the device rejects the batch replay
	Render(view Viewpoint, proj ProjectionMode) error

	// FreeResources releases the static batch. Calling it again does nothing.
	FreeResources()

	// Released reports whether FreeResources has been called.
	//
	// Returns:
	//   - bool: true once resources were freed
	Released() bool

	// TransparentOrder returns a copy of the current transparent draw order.
	//
	// Returns:
	//   - []PrimitiveWithMaterial: the transparent primitives, back to front
	TransparentOrder() []PrimitiveWithMaterial

	// SortBasis returns the cardinal direction the transparent order was computed for, or None.
	//
	// Returns:
	//   - CardinalDirection: the current sort basis
	SortBasis() CardinalDirection

	// StaticPrimitiveCount returns the number of primitives recorded in the static batch.
	//
	// Returns:
	//   - int: the static primitive count
	StaticPrimitiveCount() int

	// LastFrameStats returns statistics about the most recent Render call.
	//
	// Returns:
	//   - FrameStats: the statistics
	LastFrameStats() FrameStats
}

var _ Renderer = &renderer{}

// NewRenderer records the static batch of source on device and collects its transparent
// primitives. The source is optimized exactly once during this call.
//
// Parameters:
//   - device: the device to draw with
//   - source: the geometry to draw; its vertex storage must outlive the Renderer
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the new renderer
//   - error: an ErrDevice error if the static batch cannot be recorded
func NewRenderer(device Device, source GeometrySource, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		device:  device,
		source:  source,
		epsilon: DefaultCardinalEpsilon,
	}
	for _, opt := range options {
		opt(r)
	}

	r.queue = newTransparencyQueue(source, r.epsilon)
	batch, err := NewStaticBatch(device, source, r.queue)
	if err != nil {
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	r.batch = batch
	return r, nil
}

func (r *renderer) Render(view Viewpoint, proj ProjectionMode) error {
	if !r.batch.Live() {
		return fmt.Errorf("%w: renderer released", ErrInvalidState)
	}
	if err := r.batch.Replay(); err != nil {
		return err
	}

	before := r.queue.Comparisons()
	stats := FrameStats{Path: r.queue.Reorder(view, proj)}
	stats.Comparisons = r.queue.Comparisons() - before
	stats.Basis = r.queue.Basis()

	var previous material.Material
	for _, e := range r.queue.entries {
		if previous == nil || !material.Equal(previous, e.Material) {
			r.device.SetMaterial(e.Material)
			previous = e.Material
			stats.MaterialChanges++
		}
		r.positions = r.positions[:0]
		for _, idx := range e.Primitive.Indices {
			r.positions = append(r.positions, r.source.Vertex(idx))
		}
		r.device.DrawPrimitive(e.Primitive.Type, r.positions, e.Primitive.Normals, e.Primitive.TexCoordLists)
		stats.TransparentDraws++
	}

	r.stats = stats
	common.Logger().Debug("frame rendered",
		"path", stats.Path,
		"basis", stats.Basis,
		"comparisons", stats.Comparisons,
		"material_changes", stats.MaterialChanges,
		"transparent_draws", stats.TransparentDraws,
	)
	return nil
}

func (r *renderer) FreeResources() {
	r.batch.Release()
}

func (r *renderer) Released() bool {
	return !r.batch.Live()
}

func (r *renderer) TransparentOrder() []PrimitiveWithMaterial {
	return r.queue.Entries()
}

func (r *renderer) SortBasis() CardinalDirection {
	return r.queue.Basis()
}

func (r *renderer) StaticPrimitiveCount() int {
	return r.batch.PrimitiveCount()
}

func (r *renderer) LastFrameStats() FrameStats {
	return r.stats
}
