package main

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/gpu"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/Carmen-Shannon/oxy-viewer/engine/window"
)

// runInteractive opens a window, renders the scene with the WebGPU device and blocks until the window
// is closed or Esc is pressed.
func runInteractive(s scene.Scene, opts options) error {
	win, err := window.NewWindow(
		window.WithTitle("oxy-viewer - "+s.Name()),
		window.WithSize(opts.width, opts.height),
		window.WithSizeLimits(min(opts.width, 320), min(opts.height, 240), max(opts.width, 3840), max(opts.height, 2160)),
	)
	if err != nil {
		return err
	}

	// the framebuffer may be larger than requested on high-DPI displays
	s.Projection().SetAspect(float32(win.Width()) / float32(win.Height()))

	device, err := gpu.NewDevice(win.SurfaceDescriptor(), win.Width(), win.Height(),
		gpu.WithVSync(opts.vsync),
		gpu.WithLight(s.Light()),
	)
	if err != nil {
		if cerr := win.Close(); cerr != nil {
			common.Logger().Warn("close window", "error", cerr)
		}
		return fmt.Errorf("create device: %w", err)
	}

	eng := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithDevice(device),
		engine.WithScene(s),
		engine.WithProfiling(opts.profile),
		engine.WithTickRate(60),
	)
	newInputBindings(s, eng.Quit).bind(eng)

	fmt.Println("arrows / middle-drag: orbit   scroll: zoom   O: ortho/perspective   1-4: look N/E/S/W   Esc: quit")
	return eng.Run()
}
