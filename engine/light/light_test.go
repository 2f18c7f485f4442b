package light

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
)

func TestNewLightDefaults(t *testing.T) {
	l := NewLight()
	assert.InDelta(t, 1, l.Direction().Length(), 1e-6)
	assert.Equal(t, [3]float32{1, 1, 1}, l.Radiance())
}

func TestNewLightOptions(t *testing.T) {
	l := NewLight(WithDirection(common.Vec3{Y: 4}), WithColor([3]float32{1, 0.5, 0}), WithIntensity(2))
	assert.Equal(t, common.Vec3{Y: 1}, l.Direction())
	assert.Equal(t, [3]float32{2, 1, 0}, l.Radiance())

	zero := NewLight(WithDirection(common.Vec3{}), WithIntensity(-1))
	assert.InDelta(t, 1, zero.Direction().Length(), 1e-6, "a zero direction falls back to the default")
	assert.Zero(t, zero.Intensity())
}

func TestSetters(t *testing.T) {
	l := NewLight()
	l.SetDirection(common.Vec3{})
	assert.InDelta(t, 1, l.Direction().Length(), 1e-6)

	l.SetDirection(common.Vec3{X: -3})
	assert.Equal(t, common.Vec3{X: -1}, l.Direction())

	l.SetIntensity(-5)
	assert.Zero(t, l.Intensity())
	assert.Equal(t, [3]float32{}, l.Radiance())
}
