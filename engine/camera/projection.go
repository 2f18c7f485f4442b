package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
)

type projectionImpl struct {
	mu *sync.Mutex

	orthographic bool
	fov          float32
	volumeHeight float32
	aspect       float32
	near         float32
	far          float32

	matrix [16]float32
}

// Projection maps view space to clip space. It is either a perspective projection
// parameterized by a vertical field of view, or an orthographic projection
// parameterized by the height of the visible volume.
type Projection interface {
	// IsOrthographic reports whether the projection is orthographic.
	//
	// Returns:
	//   - bool: true for orthographic, false for perspective
	IsOrthographic() bool

	// Fov returns the vertical field of view in radians used in perspective mode.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// VolumeHeight returns the height of the view volume used in orthographic mode.
	//
	// Returns:
	//   - float32: volume height in world units
	VolumeHeight() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	//
	// Returns:
	//   - float32: near plane distance
	Near() float32

	// Far returns the far clipping plane distance.
	//
	// Returns:
	//   - float32: far plane distance
	Far() float32

	// Matrix returns the current 4x4 projection matrix as 16 floats (column-major).
	//
	// Returns:
	//   - [16]float32: the projection matrix
	Matrix() [16]float32

	// SetOrthographic switches between orthographic and perspective mode.
	//
	// Parameters:
	//   - ortho: true for orthographic
	SetOrthographic(ortho bool)

	// SetAspect sets the aspect ratio (width / height) and recomputes the matrix.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetVolumeHeight sets the orthographic volume height and recomputes the matrix.
	//
	// Parameters:
	//   - height: volume height in world units
	SetVolumeHeight(height float32)
}

var _ Projection = &projectionImpl{}

// NewProjection creates a new perspective Projection with a 45 degree field of view,
// unless configured otherwise by options.
//
// Parameters:
//   - options: functional options to configure the projection
//
// Returns:
//   - Projection: the newly created projection
func NewProjection(options ...ProjectionBuilderOption) Projection {
	p := &projectionImpl{
		mu:           &sync.Mutex{},
		fov:          45.0 * (math32.Pi / 180.0),
		volumeHeight: 10,
		aspect:       1.0,
		near:         0.1,
		far:          1000.0,
	}
	for _, option := range options {
		option(p)
	}
	p.updateMatrix()
	return p
}

func (p *projectionImpl) IsOrthographic() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.orthographic
}

func (p *projectionImpl) Fov() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.fov
}

func (p *projectionImpl) VolumeHeight() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeHeight
}

func (p *projectionImpl) Aspect() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.aspect
}

func (p *projectionImpl) Near() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.near
}

func (p *projectionImpl) Far() float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.far
}

func (p *projectionImpl) Matrix() [16]float32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.matrix
}

func (p *projectionImpl) SetOrthographic(ortho bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.orthographic = ortho
	p.updateMatrix()
}

func (p *projectionImpl) SetAspect(aspect float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.aspect = aspect
	p.updateMatrix()
}

func (p *projectionImpl) SetVolumeHeight(height float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volumeHeight = height
	p.updateMatrix()
}

// updateMatrix recalculates the projection matrix.
// Caller must hold the mutex.
func (p *projectionImpl) updateMatrix() {
	if p.orthographic {
		common.Orthographic(p.matrix[:], p.volumeHeight, p.aspect, p.near, p.far)
		return
	}
	common.Perspective(p.matrix[:], p.fov, p.aspect, p.near, p.far)
}
