package scene

import (
	"errors"
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitivebuffer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
)

// ErrNotAttached is returned by Render before a device has been attached.
var ErrNotAttached = errors.New("scene has no attached device")

// Scene ties a geometry source to a camera, a projection and the Renderer that draws the
// geometry on a FrameDevice. The camera and projection may be changed from another goroutine
// while the render goroutine calls Render.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Projection returns the scene's projection.
	Projection() camera.Projection

	// SetProjection replaces the scene's projection.
	//
	// Parameters:
	//   - proj: the new projection
	SetProjection(proj camera.Projection)

	// Light returns the directional light devices should shade the scene with.
	Light() light.Light

	// Geometry returns the primitive buffer the scene draws.
	Geometry() primitivebuffer.PrimitiveBuffer

	// Renderer returns the renderer created by Attach, or nil before Attach.
	Renderer() renderer.Renderer

	// Attach creates the scene's Renderer on device. The geometry is optimized and its opaque
	// part recorded into a static batch. A previously attached renderer is freed first.
	//
	// Parameters:
	//   - device: the device that owns the batch and receives every frame
	//
	// Returns:
	//   - error: an error wrapping renderer.ErrDevice if the batch could not be recorded
	Attach(device renderer.FrameDevice) error

	// Render draws one frame: the camera's view-projection is handed to the device, then the
	// renderer replays the static batch and draws the transparent queue back to front.
	//
	// Returns:
	//   - error: ErrNotAttached before Attach, renderer.ErrInvalidState after Release
	Render() error

	// Release frees the renderer's device resources. Calling it more than once is a no-op.
	Release()
}

type scene struct {
	mu *sync.Mutex

	name     string
	geometry primitivebuffer.PrimitiveBuffer
	cam      camera.Camera
	proj     camera.Projection
	light    light.Light
	rendOpts []renderer.RendererBuilderOption
	device   renderer.FrameDevice
	rend     renderer.Renderer
	viewProj [16]float32
}

var _ Scene = &scene{}

// NewScene creates a Scene drawing geometry. Without options the scene uses a default camera
// and a perspective projection.
//
// Parameters:
//   - name: the scene's identifier
//   - geometry: the primitive buffer to draw
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the new scene
func NewScene(name string, geometry primitivebuffer.PrimitiveBuffer, options ...SceneBuilderOption) Scene {
	s := &scene{
		mu:       &sync.Mutex{},
		name:     name,
		geometry: geometry,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.cam == nil {
		s.cam = camera.NewCamera()
	}
	if s.proj == nil {
		s.proj = camera.NewProjection()
	}
	if s.light == nil {
		s.light = light.NewLight()
	}
	return s
}

func (s *scene) Name() string {
	return s.name
}

func (s *scene) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Projection() camera.Projection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proj
}

func (s *scene) SetProjection(proj camera.Projection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.proj = proj
}

func (s *scene) Light() light.Light {
	return s.light
}

func (s *scene) Geometry() primitivebuffer.PrimitiveBuffer {
	return s.geometry
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rend
}

func (s *scene) Attach(device renderer.FrameDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rend != nil {
		s.rend.FreeResources()
		s.rend = nil
	}
	r, err := renderer.NewRenderer(device, s.geometry, s.rendOpts...)
	if err != nil {
		return fmt.Errorf("attach scene %q: %w", s.name, err)
	}
	s.device = device
	s.rend = r
	common.Logger().Info("scene attached",
		"scene", s.name,
		"materials", len(s.geometry.Materials()),
		"static", r.StaticPrimitiveCount(),
		"transparent", len(r.TransparentOrder()),
	)
	return nil
}

func (s *scene) Render() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rend == nil {
		return ErrNotAttached
	}
	if s.rend.Released() {
		return fmt.Errorf("%w: scene %q released", renderer.ErrInvalidState, s.name)
	}

	s.cam.Update()
	view := s.cam.ViewMatrix()
	projection := s.proj.Matrix()
	common.Mul4(s.viewProj[:], projection[:], view[:])

	if err := s.device.BeginFrame(s.viewProj, s.cam.Position()); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	renderErr := s.rend.Render(s.cam, s.proj)
	if err := s.device.EndFrame(); err != nil && renderErr == nil {
		renderErr = fmt.Errorf("end frame: %w", err)
	}
	return renderErr
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rend != nil {
		s.rend.FreeResources()
	}
}
