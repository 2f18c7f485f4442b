package raster

import (
	"image/color"

	"github.com/Carmen-Shannon/oxy-viewer/engine/light"
)

// DeviceOption is a functional option applied to a Device during construction via NewDevice.
type DeviceOption func(*Device)

// WithClearColor sets the background color painted by BeginFrame.
//
// Parameters:
//   - c: the background color
//
// Returns:
//   - DeviceOption: a function that applies the clear color to a device
func WithClearColor(c color.NRGBA) DeviceOption {
	return func(d *Device) {
		d.clear = c
	}
}

// WithLight sets the directional light surfaces are shaded with. The light is sampled once, later
// changes to it are not seen by the device.
//
// Parameters:
//   - l: the light
//
// Returns:
//   - DeviceOption: a function that applies the light to a device
func WithLight(l light.Light) DeviceOption {
	return func(d *Device) {
		d.light = l.Direction()
		d.radiance = l.Radiance()
	}
}

// WithLineWidth sets the width in pixels of lines and the size of points.
//
// Parameters:
//   - width: the width in pixels
//
// Returns:
//   - DeviceOption: a function that applies the line width to a device
func WithLineWidth(width float32) DeviceOption {
	return func(d *Device) {
		d.lineWidth = width
	}
}

// WithMaxBatches limits the number of live batches; BeginBatch fails beyond it.
// Zero means unlimited.
//
// Parameters:
//   - n: the maximum number of live batches
//
// Returns:
//   - DeviceOption: a function that applies the limit to a device
func WithMaxBatches(n int) DeviceOption {
	return func(d *Device) {
		d.maxBatch = n
	}
}
