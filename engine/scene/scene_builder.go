package scene

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
)

// SceneBuilderOption is a functional option used to configure a Scene during construction.
type SceneBuilderOption func(*scene)

// WithCamera sets the camera the scene is viewed through.
//
// Parameters:
//   - cam: the camera
//
// Returns:
//   - SceneBuilderOption: a function that sets the camera
func WithCamera(cam camera.Camera) SceneBuilderOption {
	return func(s *scene) {
		s.cam = cam
	}
}

// WithProjection sets the projection the scene is viewed with.
//
// Parameters:
//   - proj: the projection
//
// Returns:
//   - SceneBuilderOption: a function that sets the projection
func WithProjection(proj camera.Projection) SceneBuilderOption {
	return func(s *scene) {
		s.proj = proj
	}
}

// WithRendererOptions sets the options passed to renderer.NewRenderer on Attach.
//
// Parameters:
//   - opts: the renderer options
//
// Returns:
//   - SceneBuilderOption: a function that stores the renderer options
func WithRendererOptions(opts ...renderer.RendererBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.rendOpts = append(s.rendOpts, opts...)
	}
}

// WithLight sets the directional light reported by the scene.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - SceneBuilderOption: a function that sets the light
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.light = l
	}
}
