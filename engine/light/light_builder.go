package light

import "github.com/Carmen-Shannon/oxy-viewer/common"

// LightBuilderOption is a functional option used to configure a Light during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection sets the direction toward the light. It is normalized on construction.
//
// Parameters:
//   - dir: the light direction
//
// Returns:
//   - LightBuilderOption: a function that applies the direction to a light
func WithDirection(dir common.Vec3) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = dir
	}
}

// WithColor sets the RGB color of the light.
//
// Parameters:
//   - color: color as (r, g, b)
//
// Returns:
//   - LightBuilderOption: a function that applies the color to a light
func WithColor(color [3]float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.color = color
	}
}

// WithIntensity sets the intensity multiplier of the light.
//
// Parameters:
//   - intensity: the intensity, clamped at zero
//
// Returns:
//   - LightBuilderOption: a function that applies the intensity to a light
func WithIntensity(intensity float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.intensity = intensity
	}
}
