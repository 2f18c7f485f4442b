package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Carmen-Shannon/oxy-viewer/engine/camera"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/raster"
	"github.com/Carmen-Shannon/oxy-viewer/engine/scene"
	"github.com/chewxy/math32"
	"github.com/schollz/progressbar/v3"
)

// renderHeadless renders the scene with the software device. A single frame is written to opts.out;
// a turntable of opts.frames frames is written into the directory opts.out, one PNG per azimuth step.
// Progress is drawn to progress.
func renderHeadless(s scene.Scene, opts options, progress io.Writer) error {
	device := raster.NewDevice(opts.width, opts.height, raster.WithLight(s.Light()))
	if err := s.Attach(device); err != nil {
		return err
	}
	defer s.Release()

	if opts.frames <= 1 {
		if err := s.Render(); err != nil {
			return err
		}
		return writeFrame(device, opts.out)
	}

	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	ctrl := orbitController(s.Camera())
	start := ctrl.Azimuth()
	step := 2 * math32.Pi / float32(opts.frames)
	base := strings.TrimSuffix(filepath.Base(opts.scenePath), filepath.Ext(opts.scenePath))

	bar := progressbar.NewOptions(opts.frames,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("rendering "+base),
	)
	defer bar.Close()

	for i := range opts.frames {
		ctrl.SetAzimuth(start + float32(i)*step)
		if err := s.Render(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if err := writeFrame(device, filepath.Join(opts.out, fmt.Sprintf("%s_%03d.png", base, i))); err != nil {
			return err
		}
		bar.Add(1)
	}
	return nil
}

func writeFrame(device *raster.Device, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := device.WritePNG(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// orbitController returns the camera's orbit controller, attaching one derived from the camera's
// current placement if it has none.
func orbitController(cam camera.Camera) camera.CameraController {
	if ctrl := cam.Controller(); ctrl != nil {
		return ctrl
	}
	ctrl := camera.NewCameraControllerAt(cam.Position(), cam.Target())
	cam.SetController(ctrl)
	return ctrl
}
