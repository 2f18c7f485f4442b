package engine

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/profiler"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// SurfaceDevice is a frame device that presents to a window surface.
type SurfaceDevice interface {
	renderer.FrameDevice

	// Present shows the frame finished by the last EndFrame.
	Present()

	// ConfigureSurface resizes the presentation surface.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	//
	// Returns:
	//   - error: an error if the surface could not be reconfigured
	ConfigureSurface(width, height int) error

	// Release frees every resource held by the device.
	Release()
}

// engine implements the Engine interface.
// Coordinates the tick goroutine, the render goroutine and the window message loop.
type engine struct {
	tickRateChannel chan time.Duration // Channel for dynamic tick rate updates
	resizeChannel   chan [2]int        // latest surface size, consumed by the render goroutine

	mu      *sync.Mutex
	running bool
	wg      sync.WaitGroup

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once

	window window.Window
	device SurfaceDevice
	scene  scene.Scene

	profiler         *profiler.Profiler
	profilingEnabled bool

	engineTickRate time.Duration
	tickCallback   func(deltaTime float32)
	renderCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	renderErr        error
}

// Engine drives an interactive viewer: a fixed-rate tick loop for input and camera updates, a render
// loop that owns the device, and the window message loop.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene being viewed.
	//
	// Returns:
	//   - scene.Scene: the scene, or nil if none was configured
	Scene() scene.Scene

	// EnableProfiler enables periodic performance reports in the log.
	EnableProfiler()

	// DisableProfiler disables performance reports.
	DisableProfiler()

	// SetTickRate sets the engine tick rate in ticks per second.
	//
	// Parameters:
	//   - fps: target ticks per second (defaults to 60 if <= 0)
	SetTickRate(fps float64)

	// SetTickCallback registers the function called each engine tick.
	// Use this for input processing and camera movement.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetTickCallback(callback func(deltaTime float32))

	// SetRenderCallback registers the function called after each rendered frame.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetRenderCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Run attaches the scene to the device, starts the tick and render goroutines and runs the window
	// message loop until the window closes or Quit is called. The scene's renderer resources are freed
	// and the device is released before Run returns.
	//
	// Returns:
	//   - error: an error if the scene could not be attached or a frame failed
	Run() error

	// Quit signals all engine goroutines to stop.
	// Safe to call multiple times and from any goroutine.
	Quit()
}

// ErrNotConfigured is returned by Run when the window, device or scene is missing.
var ErrNotConfigured = errors.New("engine needs a window, a device and a scene")

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, device, scene, tick rate, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		tickRateChannel: make(chan time.Duration, 1),
		resizeChannel:   make(chan [2]int, 1),
		mu:              &sync.Mutex{},
		quitChannel:     make(chan struct{}),
		profiler:        profiler.NewProfiler(),
		engineTickRate:  time.Second / 60,
	}

	for _, opt := range options {
		opt(e)
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.queueResize)
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Run() error {
	if e.window == nil || e.device == nil || e.scene == nil {
		return ErrNotConfigured
	}
	if err := e.scene.Attach(e.device); err != nil {
		e.device.Release()
		return err
	}

	e.mu.Lock()
	e.running = true
	e.mu.Unlock()

	e.window.SetUpdateCallback(func() {
		select {
		case <-e.quitChannel:
			e.window.RequestClose()
		default:
		}
	})

	e.handle()
	e.window.ProcessMessages()

	e.signalQuit()
	e.wg.Wait()

	e.scene.Release()
	e.device.Release()
	if err := e.window.Close(); err != nil {
		common.Logger().Warn("close window", "error", err)
	}
	common.Logger().Info("engine stopped")

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderErr
}

func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal all goroutines to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		close(e.quitChannel)
	})
}

// handle launches the tick and render goroutines.
// Each goroutine is tracked by the engine's WaitGroup.
func (e *engine) handle() {
	e.wg.Add(2)
	go e.handleEngine()
	go e.handleRender()
}

// handleEngine runs the fixed-rate tick loop in its own goroutine.
// Fires the tick callback at the configured rate and listens for rate changes via tickRateChannel.
// Exits when the quit channel is closed.
func (e *engine) handleEngine() {
	defer e.wg.Done()

	e.mu.Lock()
	rate := e.engineTickRate
	e.mu.Unlock()

	ticker := time.NewTicker(rate)
	defer ticker.Stop()

	lastTick := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		case <-ticker.C:
			now := time.Now()
			dt := float32(now.Sub(lastTick).Seconds())
			lastTick = now

			if e.tickCallback != nil {
				e.tickCallback(dt)
			}
		case newRate := <-e.tickRateChannel:
			ticker.Reset(newRate)
		}
	}
}

// handleRender runs the render loop in its own goroutine. It is the only goroutine that touches the
// device after Run has attached the scene: it applies pending resizes, renders and presents the scene,
// feeds the profiler and honours the frame limit.
// A failed frame or a panic stops the engine and is reported by Run.
func (e *engine) handleRender() {
	defer e.wg.Done()
	defer func() {
		if r := recover(); r != nil {
			e.fail(fmt.Errorf("render goroutine panicked: %v", r))
		}
	}()

	lastRender := time.Now()

	for {
		select {
		case <-e.quitChannel:
			return
		default:
		}

		now := time.Now()
		dt := float32(now.Sub(lastRender).Seconds())
		lastRender = now

		if err := e.renderFrame(); err != nil {
			e.fail(err)
			return
		}

		if e.renderCallback != nil {
			e.renderCallback(dt)
		}

		if e.renderFrameLimit > 0 {
			if remaining := e.renderFrameLimit - time.Since(lastRender); remaining > 0 {
				time.Sleep(remaining)
			}
		}
	}
}

// renderFrame applies a pending resize, then renders and presents one frame of the scene.
func (e *engine) renderFrame() error {
	select {
	case size := <-e.resizeChannel:
		if err := e.device.ConfigureSurface(size[0], size[1]); err != nil {
			return fmt.Errorf("resize surface: %w", err)
		}
		if size[1] > 0 {
			e.scene.Projection().SetAspect(float32(size[0]) / float32(size[1]))
		}
	default:
	}

	if err := e.scene.Render(); err != nil {
		return err
	}
	e.device.Present()

	if e.isProfiling() {
		if r := e.scene.Renderer(); r != nil {
			e.profiler.Tick(r.LastFrameStats())
		}
	}
	return nil
}

// queueResize hands the latest window size to the render goroutine, replacing any size not yet applied.
func (e *engine) queueResize(width, height int) {
	for {
		select {
		case e.resizeChannel <- [2]int{width, height}:
			return
		default:
			select {
			case <-e.resizeChannel:
			default:
			}
		}
	}
}

// fail records the first render error and stops the engine.
func (e *engine) fail(err error) {
	common.Logger().Error("render loop stopped", "error", err)
	e.mu.Lock()
	if e.renderErr == nil {
		e.renderErr = err
	}
	e.mu.Unlock()
	e.signalQuit()
}

func (e *engine) isProfiling() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profilingEnabled
}

func (e *engine) EnableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.profilingEnabled = false
}

// SetTickRate sets the engine tick rate in ticks per second.
// If the engine is running, the change takes effect on the next tick.
func (e *engine) SetTickRate(fps float64) {
	if fps <= 0 {
		fps = 60
	}
	newRate := time.Second / time.Duration(fps)

	e.mu.Lock()
	running := e.running
	e.engineTickRate = newRate
	e.mu.Unlock()
	if !running {
		return
	}

	// Non-blocking send; a pending update is replaced by the newer rate
	select {
	case e.tickRateChannel <- newRate:
	default:
		select {
		case <-e.tickRateChannel:
		default:
		}
		e.tickRateChannel <- newRate
	}
}

func (e *engine) SetTickCallback(callback func(deltaTime float32)) {
	e.tickCallback = callback
}

func (e *engine) SetRenderCallback(callback func(deltaTime float32)) {
	e.renderCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Second / time.Duration(fps)
}
