package camera

// ProjectionBuilderOption is a functional option for configuring a Projection.
type ProjectionBuilderOption func(*projectionImpl)

// WithOrthographic selects orthographic projection with the given view volume height.
//
// Parameters:
//   - volumeHeight: height of the visible volume in world units
//
// Returns:
//   - ProjectionBuilderOption: functional option enabling orthographic mode
func WithOrthographic(volumeHeight float32) ProjectionBuilderOption {
	return func(p *projectionImpl) {
		p.orthographic = true
		p.volumeHeight = volumeHeight
	}
}

// WithFov sets the vertical field of view used in perspective mode.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - ProjectionBuilderOption: functional option to set the field of view
func WithFov(fov float32) ProjectionBuilderOption {
	return func(p *projectionImpl) {
		p.fov = fov
	}
}

// WithAspect sets the aspect ratio (width / height).
//
// Parameters:
//   - aspect: the aspect ratio to set
//
// Returns:
//   - ProjectionBuilderOption: functional option to set the aspect ratio
func WithAspect(aspect float32) ProjectionBuilderOption {
	return func(p *projectionImpl) {
		p.aspect = aspect
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - ProjectionBuilderOption: functional option to set the clip planes
func WithClipPlanes(near, far float32) ProjectionBuilderOption {
	return func(p *projectionImpl) {
		p.near = near
		p.far = far
	}
}
