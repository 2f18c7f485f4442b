package window

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

var errNotOpen = errors.New("window is not open")

// glfwWindow is the GLFW handle behind an engineWindow. It is nil once the window is closed.
type glfwWindow struct {
	handle *glfw.Window
}

// newPlatformWindow creates the GLFW window and wires its callbacks into w.
// GLFW must be driven from the thread that initialized it, so the calling goroutine stays locked.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("initialize GLFW: %w", err)
	}

	// no OpenGL context, the surface is driven by WebGPU
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if w.resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	handle, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("create GLFW window: %w", err)
	}
	handle.SetSizeLimits(w.limits.minWidth, w.limits.minHeight, w.limits.maxWidth, w.limits.maxHeight)
	w.platform = &glfwWindow{handle: handle}

	handle.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		switch action {
		case glfw.Press, glfw.Repeat:
			w.input.KeyDown(uint32(key))
		case glfw.Release:
			w.input.KeyUp(uint32(key))
		}
	})
	handle.SetScrollCallback(func(_ *glfw.Window, _, yoff float64) {
		w.input.Scroll(float32(yoff))
	})
	handle.SetMouseButtonCallback(func(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
		if button != glfw.MouseButtonMiddle {
			return
		}
		x, y := win.GetCursorPos()
		switch action {
		case glfw.Press:
			w.input.DragStart(int32(x), int32(y))
		case glfw.Release:
			w.input.DragEnd(int32(x), int32(y))
		}
	})
	handle.SetCursorPosCallback(func(_ *glfw.Window, x, y float64) {
		w.input.MouseMove(int32(x), int32(y))
	})

	// the surface is configured in framebuffer pixels, which differ from window units on high-DPI displays
	handle.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		w.resized(width, height)
	})
	w.width, w.height = handle.GetFramebufferSize()

	return nil
}

func platformSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	if !w.open() {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(w.platform.handle)
}

func platformIsRunning(w *engineWindow) bool {
	return w.open() && !w.platform.handle.ShouldClose()
}

// platformClose destroys the GLFW window and terminates GLFW. Closing twice is a no-op.
func platformClose(w *engineWindow) error {
	if w.platform == nil {
		return errNotOpen
	}
	if !w.open() {
		return nil
	}
	w.platform.handle.Destroy()
	w.platform.handle = nil
	glfw.Terminate()
	return nil
}

func platformPollEvents() {
	glfw.PollEvents()
}

func (w *engineWindow) open() bool {
	return w.platform != nil && w.platform.handle != nil
}
