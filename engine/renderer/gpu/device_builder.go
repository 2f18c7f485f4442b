package gpu

import (
	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
)

// DeviceOption is a functional option used to configure a Device during construction.
type DeviceOption func(*Device)

// WithVSync selects between FIFO presentation and uncapped immediate presentation.
//
// Parameters:
//   - enabled: true to wait for vertical sync
//
// Returns:
//   - DeviceOption: a function that sets the present mode
func WithVSync(enabled bool) DeviceOption {
	return func(d *Device) {
		if enabled {
			d.presentMode = wgpu.PresentModeFifo
		} else {
			d.presentMode = wgpu.PresentModeImmediate
		}
	}
}

// WithClearColor sets the color the frame is cleared to.
//
// Parameters:
//   - rgba: the clear color components in [0, 1]
//
// Returns:
//   - DeviceOption: a function that sets the clear color
func WithClearColor(rgba [4]float32) DeviceOption {
	return func(d *Device) {
		d.clearColor = wgpu.Color{
			R: float64(rgba[0]),
			G: float64(rgba[1]),
			B: float64(rgba[2]),
			A: float64(rgba[3]),
		}
	}
}

// WithLight sets the directional light baked into the shader. The light is sampled when the pipelines
// are built, later changes to it are not seen by the device.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - DeviceOption: a function that sets the light
func WithLight(l light.Light) DeviceOption {
	return func(d *Device) {
		d.light = l
	}
}

// WithForceFallbackAdapter requests the software fallback adapter.
//
// Parameters:
//   - force: true to force the fallback adapter
//
// Returns:
//   - DeviceOption: a function that sets the adapter preference
func WithForceFallbackAdapter(force bool) DeviceOption {
	return func(d *Device) {
		d.forceFallback = force
	}
}
