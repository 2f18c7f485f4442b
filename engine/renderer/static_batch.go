package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// staticBatch is the implementation of the StaticBatch interface.
type staticBatch struct {
	device Device
	handle *BatchID

	opaquePrimitives int
	skipped          int
}

// StaticBatch is the pre-recorded draw batch holding all non-transparent geometry of a
// GeometrySource. It is immutable once recorded and must be released explicitly.
type StaticBatch interface {
	// Replay issues the recorded batch as a single submission.
	//
	// Returns:
	//   - error: ErrInvalidState after Release, or the device's error wrapped in ErrDevice
	Replay() error

	// Release frees the device-side batch. Calling it again does nothing.
	Release()

	// Live reports whether the batch has not been released.
	//
	// Returns:
	//   - bool: true while the batch can be replayed
	Live() bool

	// PrimitiveCount returns the number of primitives recorded into the batch.
	//
	// Returns:
	//   - int: the recorded primitive count
	PrimitiveCount() int
}

var _ StaticBatch = &staticBatch{}

// NewStaticBatch optimizes source once and records its non-transparent materials into a new
// device batch, in the source's material and primitive order. Primitives of transparent
// materials are added to queue instead of being recorded. Primitives that fail validation
// are skipped.
//
// Parameters:
//   - device: the device recording the batch
//   - source: the geometry to record, optimized exactly once by this call
//   - queue: receives the transparent primitives
//
// Returns:
//   - StaticBatch: the recorded batch
//   - error: an ErrDevice error if the device cannot begin or finalize the batch
func NewStaticBatch(device Device, source GeometrySource, queue TransparencyQueue) (StaticBatch, error) {
	source.Optimize()

	id, err := device.BeginBatch()
	if err != nil {
		return nil, fmt.Errorf("%w: begin static batch: %w", ErrDevice, err)
	}

	b := &staticBatch{device: device}
	for i, m := range source.Materials() {
		prims := source.Primitives(i)
		if m.IsTransparent() {
			for _, p := range prims {
				if b.skipInvalid(p.Validate(), m.Name()) {
					continue
				}
				queue.Add(p, m)
			}
			continue
		}

		device.SetMaterial(m)
		for _, p := range prims {
			if b.skipInvalid(p.Validate(), m.Name()) {
				continue
			}
			device.DrawPrimitive(p.Type, p.Positions(source), p.Normals, p.TexCoordLists)
			b.opaquePrimitives++
		}
	}

	if err := device.EndBatch(id); err != nil {
		device.ReleaseBatch(id)
		return nil, fmt.Errorf("%w: end static batch: %w", ErrDevice, err)
	}
	b.handle = &id

	common.Logger().Info("static batch recorded",
		"batch", id,
		"opaque_primitives", b.opaquePrimitives,
		"transparent_primitives", queue.Len(),
		"skipped", b.skipped,
	)
	return b, nil
}

// skipInvalid logs and counts a primitive that failed validation.
func (b *staticBatch) skipInvalid(err error, materialName string) bool {
	if err == nil {
		return false
	}
	b.skipped++
	common.Logger().Warn("skipping invalid primitive", "material", materialName, "error", err)
	return true
}

func (b *staticBatch) Replay() error {
	if b.handle == nil {
		return fmt.Errorf("%w: static batch released", ErrInvalidState)
	}
	if err := b.device.CallBatch(*b.handle); err != nil {
		return fmt.Errorf("%w: replay batch %d: %w", ErrDevice, *b.handle, err)
	}
	return nil
}

func (b *staticBatch) Release() {
	if b.handle == nil {
		return
	}
	b.device.ReleaseBatch(*b.handle)
	common.Logger().Info("static batch released", "batch", *b.handle)
	b.handle = nil
}

func (b *staticBatch) Live() bool {
	return b.handle != nil
}

func (b *staticBatch) PrimitiveCount() int {
	return b.opaquePrimitives
}
