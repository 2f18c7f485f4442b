package light

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	mu        *sync.Mutex
	direction common.Vec3
	color     [3]float32
	intensity float32
}

// Light is the single directional light a scene is shaded with.
//
// Shading is two-sided: a surface receives the same diffuse contribution whether its normal faces
// toward the light or away from it. Ambient light is a property of the material and is not tinted
// by the light color.
type Light interface {
	// Direction returns the normalized direction pointing toward the light.
	//
	// Returns:
	//   - common.Vec3: the unit direction
	Direction() common.Vec3

	// Color returns the RGB color of the light.
	//
	// Returns:
	//   - [3]float32: color as (r, g, b)
	Color() [3]float32

	// Intensity returns the scalar intensity multiplier for the light.
	//
	// Returns:
	//   - float32: the intensity value
	Intensity() float32

	// Radiance returns the color scaled by the intensity, the factor applied to diffuse shading.
	//
	// Returns:
	//   - [3]float32: the per-channel diffuse factor
	Radiance() [3]float32

	// SetDirection sets the direction toward the light and normalizes it.
	// A zero vector is ignored.
	//
	// Parameters:
	//   - dir: the new direction
	SetDirection(dir common.Vec3)

	// SetColor sets the RGB color of the light.
	//
	// Parameters:
	//   - color: color as (r, g, b)
	SetColor(color [3]float32)

	// SetIntensity sets the intensity multiplier, clamped at zero.
	//
	// Parameters:
	//   - intensity: the new intensity
	SetIntensity(intensity float32)
}

var _ Light = &lightImpl{}

// DefaultDirection is the light direction used when none is configured: above, slightly to the east and south.
var DefaultDirection = common.Vec3{X: 0.3, Y: 1, Z: 0.5}

// NewLight creates a white directional light of intensity 1 shining from DefaultDirection.
//
// Parameters:
//   - options: functional options to configure the light
//
// Returns:
//   - Light: the newly created light
func NewLight(options ...LightBuilderOption) Light {
	l := &lightImpl{
		mu:        &sync.Mutex{},
		direction: DefaultDirection,
		color:     [3]float32{1, 1, 1},
		intensity: 1,
	}
	for _, opt := range options {
		opt(l)
	}
	if l.direction.LengthSq() == 0 {
		l.direction = DefaultDirection
	}
	l.direction = l.direction.Normalize()
	l.intensity = max(l.intensity, 0)
	return l
}

func (l *lightImpl) Direction() common.Vec3 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.direction
}

func (l *lightImpl) Color() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.color
}

func (l *lightImpl) Intensity() float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.intensity
}

func (l *lightImpl) Radiance() [3]float32 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return [3]float32{l.color[0] * l.intensity, l.color[1] * l.intensity, l.color[2] * l.intensity}
}

func (l *lightImpl) SetDirection(dir common.Vec3) {
	if dir.LengthSq() == 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.direction = dir.Normalize()
}

func (l *lightImpl) SetColor(color [3]float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.color = color
}

func (l *lightImpl) SetIntensity(intensity float32) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.intensity = max(intensity, 0)
}
