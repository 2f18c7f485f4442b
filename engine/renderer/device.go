package renderer

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// BatchID identifies a recorded batch of draw commands on a Device.
type BatchID uint64

// Device is the minimal draw API the Renderer drives. A Device is owned by a single
// render goroutine and is never called concurrently.
//
// Between BeginBatch and EndBatch, SetMaterial and DrawPrimitive calls are recorded into
// the batch instead of being drawn. Outside of a batch they are drawn immediately.
type Device interface {
	// BeginBatch starts recording a new batch.
	//
	// Returns:
	//   - BatchID: the identifier of the batch being recorded
	//   - error: an error if the device cannot allocate a batch
	BeginBatch() (BatchID, error)

	// EndBatch finalizes the batch currently being recorded.
	//
	// Parameters:
	//   - id: the batch returned by BeginBatch
	//
	// Returns:
	//   - error: an error if the batch could not be finalized
	EndBatch(id BatchID) error

	// SetMaterial activates the shading state of m for the following draws.
	//
	// Parameters:
	//   - m: the material to activate
	SetMaterial(m material.Material)

	// DrawPrimitive submits one primitive. The slices are only valid for the duration
	// of the call and must be copied if the device keeps them.
	//
	// Parameters:
	//   - t: how the vertices are assembled
	//   - vertices: resolved vertex positions, one per index
	//   - normals: one normal per vertex
	//   - texCoordLists: zero or more texture coordinate sets, one entry per vertex
	DrawPrimitive(t primitive.DrawType, vertices, normals []common.Vec3, texCoordLists [][]common.TexCoord)

	// CallBatch replays a finalized batch as one submission.
	//
	// Parameters:
	//   - id: the batch to replay
	//
	// Returns:
	//   - error: an error if the batch is unknown to the device
	CallBatch(id BatchID) error

	// ReleaseBatch frees the device-side resources of a batch.
	//
	// Parameters:
	//   - id: the batch to release
	ReleaseBatch(id BatchID)
}

// GeometrySource is an already populated collection of primitives grouped by material.
// Its vertex storage must stay unchanged while a Renderer built from it is alive.
type GeometrySource interface {
	primitive.VertexSource

	// Optimize prepares the geometry for rendering. It is called exactly once, before
	// materials and primitives are enumerated.
	Optimize()

	// Materials lists the materials in a stable order.
	//
	// Returns:
	//   - []material.Material: the materials
	Materials() []material.Material

	// Primitives lists, in a stable order, the primitives of the material at the given
	// position of Materials.
	//
	// Parameters:
	//   - materialIndex: position of the material in Materials
	//
	// Returns:
	//   - []*primitive.Primitive: the primitives drawn with that material
	Primitives(materialIndex int) []*primitive.Primitive
}

// Viewpoint is the camera state the Renderer needs to order transparent geometry.
type Viewpoint interface {
	// Position returns the world-space eye position.
	Position() common.Vec3
	// ViewDirection returns the direction the camera looks at.
	ViewDirection() common.Vec3
}

// ProjectionMode tells the Renderer whether depth ordering may assume parallel view rays.
type ProjectionMode interface {
	// IsOrthographic reports whether the projection is orthographic.
	IsOrthographic() bool
}

// FrameDevice is a Device that produces whole frames: it clears its target in BeginFrame,
// draws everything submitted afterwards with the given view, and finishes the frame in EndFrame.
type FrameDevice interface {
	Device

	// BeginFrame starts a new frame.
	//
	// Parameters:
	//   - viewProj: the combined column-major view-projection matrix
	//   - eye: the world-space camera position
	//
	// Returns:
	//   - error: an error if the frame target cannot be acquired
	BeginFrame(viewProj [16]float32, eye common.Vec3) error

	// EndFrame finishes the frame started by BeginFrame.
	//
	// Returns:
	//   - error: an error if the frame cannot be submitted
	EndFrame() error
}
