package window

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/cogentcore/webgpu/wgpu"
)

// InputHandler receives the window's keyboard and mouse events.
// All methods are called on the goroutine running ProcessMessages.
type InputHandler interface {
	// KeyDown is called on key press and on auto-repeat.
	KeyDown(keyCode uint32)
	// KeyUp is called on key release.
	KeyUp(keyCode uint32)
	// Scroll is called for wheel events; positive delta scrolls up.
	Scroll(delta float32)
	// DragStart is called when the middle mouse button is pressed at x, y.
	DragStart(x, y int32)
	// DragEnd is called when the middle mouse button is released at x, y.
	DragEnd(x, y int32)
	// MouseMove is called with the cursor position in window coordinates.
	MouseMove(x, y int32)
}

// Window provides the viewer's platform window, its WebGPU surface and its input events.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the framebuffer is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetInputHandler routes keyboard and mouse events to h. A nil handler drops them.
	//
	// Parameters:
	//   - h: the handler receiving input events
	SetInputHandler(h InputHandler)

	// SurfaceDescriptor returns the descriptor for creating a WebGPU surface on this window,
	// built by the wgpuglfw bridge for the current platform.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// RequestClose asks the message loop to stop after the current iteration.
	// Safe to call from any goroutine.
	RequestClose()

	// IsRunning reports whether the window is open and no close was requested.
	IsRunning() bool

	// Close destroys the window and releases the platform resources.
	//
	// Returns:
	//   - error: an error if the window was never opened
	Close() error

	// ProcessMessages polls window events until the window closes, calling the update
	// callback once per iteration.
	ProcessMessages()

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int
}

// sizeLimits bounds the framebuffer while the user resizes the window.
type sizeLimits struct {
	minWidth, minHeight int
	maxWidth, maxHeight int
}

// contains reports whether width x height lies within the limits.
func (l sizeLimits) contains(width, height int) bool {
	return width >= l.minWidth && height >= l.minHeight && width <= l.maxWidth && height <= l.maxHeight
}

type engineWindow struct {
	title     string
	width     int
	height    int
	limits    sizeLimits
	resizable bool

	platform       *glfwWindow
	closeRequested atomic.Bool

	onUpdate func()
	onResize func(width, height int)
	input    InputHandler
}

var _ Window = &engineWindow{}

// NewWindow opens a window configured by options. It must be called from the main goroutine,
// which stays locked to its OS thread for as long as the window exists.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the opened window
//   - error: an error if the size is outside the limits or the platform window could not be created
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-viewer",
		width:     1280,
		height:    720,
		limits:    sizeLimits{minWidth: 320, minHeight: 240, maxWidth: 3840, maxHeight: 2160},
		resizable: true,
		input:     nopInput{},
	}
	for _, opt := range options {
		opt(w)
	}
	if !w.limits.contains(w.width, w.height) {
		return nil, fmt.Errorf("window size %dx%d is outside %dx%d..%dx%d", w.width, w.height,
			w.limits.minWidth, w.limits.minHeight, w.limits.maxWidth, w.limits.maxHeight)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetInputHandler(h InputHandler) {
	if h == nil {
		h = nopInput{}
	}
	w.input = h
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformSurfaceDescriptor(w)
}

func (w *engineWindow) RequestClose() {
	w.closeRequested.Store(true)
}

func (w *engineWindow) IsRunning() bool {
	return !w.closeRequested.Load() && platformIsRunning(w)
}

func (w *engineWindow) Close() error {
	return platformClose(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		platformPollEvents()

		if w.onUpdate != nil {
			w.onUpdate()
		}

		// the render goroutine needs the CPU more than the event loop does
		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

// resized records the new framebuffer size and notifies the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.width, w.height = width, height
	if w.onResize != nil {
		w.onResize(width, height)
	}
}

type nopInput struct{}

func (nopInput) KeyDown(uint32)       {}
func (nopInput) KeyUp(uint32)         {}
func (nopInput) Scroll(float32)       {}
func (nopInput) DragStart(_, _ int32) {}
func (nopInput) DragEnd(_, _ int32)   {}
func (nopInput) MouseMove(_, _ int32) {}
