package material

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEqualComparesByValue(t *testing.T) {
	a := NewMaterial(WithName("glass"), WithBaseColor([4]float32{0, 0, 1, 0.5}), WithTransparency(True))
	b := NewMaterial(WithName("glass"), WithBaseColor([4]float32{0, 0, 1, 0.5}), WithTransparency(True))
	c := NewMaterial(WithName("glass"), WithBaseColor([4]float32{0, 1, 1, 0.5}), WithTransparency(True))

	assert.True(t, Equal(a, b), "distinct instances with the same state are equal")
	assert.False(t, Equal(a, c))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(a, nil))
	assert.False(t, Equal(nil, a))
}

func TestIsTransparent(t *testing.T) {
	assert.False(t, NewMaterial().IsTransparent())
	assert.False(t, NewMaterial(WithTransparency(Binary)).IsTransparent())
	assert.True(t, NewMaterial(WithTransparency(True)).IsTransparent())
}

func TestParseTransparency(t *testing.T) {
	for _, tr := range []Transparency{Opaque, Binary, True} {
		got, err := ParseTransparency(tr.String())
		require.NoError(t, err)
		assert.Equal(t, tr, got)
	}
	got, err := ParseTransparency("")
	require.NoError(t, err)
	assert.Equal(t, Opaque, got)

	_, err = ParseTransparency("half")
	assert.Error(t, err)
}

func TestGPUMaterialParamsMarshal(t *testing.T) {
	p := NewGPUMaterialParams(NewMaterial(
		WithBaseColor([4]float32{0.25, 0.5, 0.75, 1}),
		WithAmbientFactor(0.2),
		WithDiffuseFactor(0.8),
		WithTransparency(Binary),
	))
	buf := p.Marshal()
	require.Len(t, buf, p.Size())

	f := func(off int) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(buf[off:])) }
	assert.Equal(t, float32(0.75), f(8))
	assert.Equal(t, float32(0.2), f(16))
	assert.Equal(t, float32(0.8), f(20))
	assert.Equal(t, float32(0.5), f(24))
}
