package common

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHorizontalAngle(t *testing.T) {
	tests := []struct {
		name string
		dir  Vec3
		want float32
	}{
		{"north", Vec3{0, 0, 1}, 0},
		{"east", Vec3{1, 0, 0}, math32.Pi / 2},
		{"south", Vec3{0, 0, -1}, math32.Pi},
		{"west", Vec3{-1, 0, 0}, 3 * math32.Pi / 2},
		{"tilted north", Vec3{0, -5, 2}, 0},
		{"straight down", Vec3{0, -1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HorizontalAngle(tt.dir), 1e-5)
		})
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	view := make([]float32, 16)
	eye := Vec3{3, 4, 5}
	LookAt(view, eye, Vec3{}, Vec3{0, 1, 0})

	p := TransformPoint(view, eye)
	assert.InDelta(t, 0, p[0], 1e-5)
	assert.InDelta(t, 0, p[1], 1e-5)
	assert.InDelta(t, 0, p[2], 1e-5)
	assert.InDelta(t, 1, p[3], 1e-5)

	// the target lies straight ahead, on the negative view axis
	c := TransformPoint(view, Vec3{})
	assert.InDelta(t, 0, c[0], 1e-5)
	assert.InDelta(t, 0, c[1], 1e-5)
	assert.InDelta(t, -eye.Length(), c[2], 1e-4)
}

func TestOrthographicDepthRange(t *testing.T) {
	proj := make([]float32, 16)
	Orthographic(proj, 10, 2, 1, 101)

	near := TransformPoint(proj, Vec3{0, 0, -1})
	far := TransformPoint(proj, Vec3{0, 0, -101})
	edge := TransformPoint(proj, Vec3{10, 5, -50})

	assert.InDelta(t, 0, near[2], 1e-5)
	assert.InDelta(t, 1, far[2], 1e-5)
	assert.InDelta(t, 1, edge[0], 1e-5)
	assert.InDelta(t, 1, edge[1], 1e-5)
}

func TestMul4Identity(t *testing.T) {
	id := make([]float32, 16)
	Identity(id)
	m := make([]float32, 16)
	Perspective(m, math32.Pi/3, 1.5, 0.1, 100)

	out := make([]float32, 16)
	Mul4(out, id, m)
	assert.Equal(t, m, out)
}

func TestSetLoggerNilRestoresSilentLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	Logger().Info("hello")
	require.Contains(t, buf.String(), "hello")

	SetLogger(nil)
	buf.Reset()
	Logger().Info("hidden")
	assert.Empty(t, buf.String())
	assert.False(t, Logger().Enabled(t.Context(), slog.LevelError))
}

func TestCoalesce(t *testing.T) {
	assert.Equal(t, float32(3), Coalesce(float32(0), 3, 4))
	assert.Equal(t, "", Coalesce("", ""))
}
