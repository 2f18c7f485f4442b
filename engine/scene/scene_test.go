package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/recording"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const glassScene = `
name: glass
camera:
  target: [0, 0, 0]
  orbit: {azimuth: 90, elevation: 0, radius: 20}
projection:
  orthographic: true
  volume_height: 8
light:
  direction: [0, 2, 0]
  color: [1, 0.9, 0.8]
  intensity: 0.5
materials:
  - name: floor
    color: [0.6, 0.6, 0.6]
    ambient: 0.4
  - name: glass
    color: [0.2, 0.4, 1.0, 0.5]
    transparency: "true"
shapes:
  - type: quad
    material: floor
    vertices: [[-5, 0, -5], [5, 0, -5], [5, 0, 5], [-5, 0, 5]]
  - type: line
    material: floor
    vertices: [[0, 0, 0], [0, 3, 0]]
  - type: box
    material: glass
    center: [0, 1, 0]
    size: [2, 2, 2]
  - type: triangle
    material: glass
    vertices: [[0, 0, 3], [1, 0, 3], [0, 1, 3]]
`

func buildScene(t *testing.T, doc string) Scene {
	t.Helper()
	f, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	s, err := f.Build()
	require.NoError(t, err)
	return s
}

func TestBuildGroupsShapesByMaterial(t *testing.T) {
	s := buildScene(t, glassScene)
	geometry := s.Geometry()

	materials := geometry.Materials()
	require.Len(t, materials, 2)
	assert.Equal(t, "floor", materials[0].Name())
	assert.Equal(t, float32(0.4), materials[0].AmbientFactor())
	assert.Equal(t, [4]float32{0.6, 0.6, 0.6, 1}, materials[0].BaseColor())
	assert.True(t, materials[1].IsTransparent())

	assert.Len(t, geometry.Primitives(0), 2)
	assert.Len(t, geometry.Primitives(1), 7, "six box faces and a triangle")
}

func TestBoxFacesPointOutward(t *testing.T) {
	s := buildScene(t, glassScene)
	geometry := s.Geometry()
	center := common.Vec3{Y: 1}

	faces := geometry.Primitives(1)[:6]
	for i, p := range faces {
		outward := p.Centroid(geometry).Sub(center)
		assert.Greater(t, p.Normals[0].Dot(outward), float32(0), "face %d", i)
		assert.InDelta(t, 1, outward.Length(), 1e-5, "face %d", i)
	}
}

func TestBuildCameraAndProjection(t *testing.T) {
	s := buildScene(t, glassScene)

	pos := s.Camera().Position()
	assert.InDelta(t, 20, pos.X, 1e-3)
	assert.InDelta(t, 0, pos.Y, 1e-3)
	assert.InDelta(t, 0, pos.Z, 1e-3)

	proj := s.Projection()
	assert.True(t, proj.IsOrthographic())
	assert.Equal(t, float32(8), proj.VolumeHeight())
}

func TestBuildLight(t *testing.T) {
	s := buildScene(t, glassScene)
	assert.Equal(t, common.Vec3{Y: 1}, s.Light().Direction())
	r := s.Light().Radiance()
	assert.InDeltaSlice(t, []float32{0.5, 0.45, 0.4}, r[:], 1e-6)
}

func TestBuildDefaults(t *testing.T) {
	s := buildScene(t, "shapes:\n  - type: points\n    vertices: [[0, 0, 0]]\n")

	assert.Equal(t, common.Vec3{Z: 10}, s.Camera().Position())
	assert.False(t, s.Projection().IsOrthographic())
	assert.InDelta(t, 1000, s.Projection().Far(), 1e-3)
	require.Len(t, s.Geometry().Materials(), 1)
	assert.False(t, s.Geometry().Materials()[0].IsTransparent())
	assert.InDelta(t, 1, s.Light().Direction().Length(), 1e-6)
}

func TestBuildErrors(t *testing.T) {
	cases := map[string]struct {
		doc  string
		want string
	}{
		"unknown material": {
			doc:  "shapes:\n  - type: triangle\n    material: nope\n    vertices: [[0,0,0],[1,0,0],[0,1,0]]\n",
			want: `shape 0: unknown material "nope"`,
		},
		"short triangle": {
			doc:  "shapes:\n  - type: triangle\n    vertices: [[0,0,0],[1,0,0]]\n",
			want: "shape 0: triangle needs 3 vertices",
		},
		"bad vertex": {
			doc:  "shapes:\n  - type: polygon\n    vertices: [[0,0],[1,0,0],[0,1,0]]\n",
			want: "shape 0: vertex 0",
		},
		"unknown shape": {
			doc:  "shapes:\n  - type: teapot\n",
			want: `unknown shape type "teapot"`,
		},
		"bad transparency": {
			doc:  "materials:\n  - name: a\n    transparency: maybe\n",
			want: "material 0: unknown transparency",
		},
		"duplicate material": {
			doc:  "materials:\n  - name: a\n  - name: a\n",
			want: `material 1: duplicate name "a"`,
		},
		"zero light": {
			doc:  "light:\n  direction: [0, 0, 0]\n",
			want: "light: direction: must not be zero",
		},
		"light color": {
			doc:  "light:\n  color: [1, 1]\n",
			want: "light: color: need 3 components",
		},
		"model without file": {
			doc:  "shapes:\n  - type: model\n",
			want: "shape 0: model needs a file",
		},
		"missing model": {
			doc:  "shapes:\n  - type: model\n    file: nowhere.gltf\n",
			want: "nowhere.gltf",
		},
		"box size": {
			doc:  "shapes:\n  - type: box\n    size: [1, 1]\n",
			want: "shape 0: size",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			f, err := Parse(strings.NewReader(tc.doc))
			require.NoError(t, err)
			_, err = f.Build()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := Parse(strings.NewReader("shapez: []\n"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glass.yaml")
	require.NoError(t, os.WriteFile(path, []byte(glassScene), 0o644))

	s, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "glass", s.Name())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("shapes:\n  - type: teapot\n"), 0o644))
	_, err = LoadFile(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), bad)
}

func TestLoadFileWithModels(t *testing.T) {
	s, err := LoadFile("testdata/panes.yaml")
	require.NoError(t, err)
	geometry := s.Geometry()

	materials := geometry.Materials()
	require.Len(t, materials, 2)
	assert.Equal(t, "pane_glass", materials[0].Name())
	assert.True(t, materials[0].IsTransparent())
	assert.Equal(t, "stone", materials[1].Name())

	glass := geometry.Primitives(0)
	require.Len(t, glass, 2, "blended triangles are ordered one by one")
	first := glass[0].Positions(geometry)[0]
	assert.InDelta(t, 0, first.X, 1e-5)
	assert.InDelta(t, 0.5, first.Y, 1e-5)
	assert.InDelta(t, 1, first.Z, 1e-5)
	assert.InDelta(t, 1, glass[0].Normals[0].X, 1e-5, "the node rotation turns the pane to face east")

	stone := geometry.Primitives(1)
	require.Len(t, stone, 1)
	placed := stone[0].Positions(geometry)[0]
	assert.InDelta(t, 0.25, placed.Y, 1e-5)
	assert.InDelta(t, 4.5, placed.Z, 1e-5)
}

func TestRenderLifecycle(t *testing.T) {
	s := buildScene(t, glassScene)
	device := recording.NewDevice()

	assert.ErrorIs(t, s.Render(), ErrNotAttached)

	require.NoError(t, s.Attach(device))
	require.NotNil(t, s.Renderer())
	assert.Equal(t, 2, s.Renderer().StaticPrimitiveCount())
	assert.Len(t, s.Renderer().TransparentOrder(), 7)

	require.NoError(t, s.Render())
	require.NoError(t, s.Render())
	assert.Equal(t, 2, device.Frames())
	assert.InDelta(t, 20, device.Eye().X, 1e-3)
	assert.Equal(t, 1, device.Count(recording.CmdCallBatch), "log holds the last frame")
	assert.Len(t, device.Draws(), 7)

	s.Release()
	s.Release()
	assert.Equal(t, 0, device.LiveBatches())
	assert.Equal(t, 1, device.ReleaseCalls())

	err := s.Render()
	assert.True(t, errors.Is(err, renderer.ErrInvalidState))
	assert.Equal(t, 2, device.Frames(), "no frame begins after release")
}

func TestLookingWestDrawsWestmostGlassFirst(t *testing.T) {
	s := buildScene(t, glassScene)
	device := recording.NewDevice()
	require.NoError(t, s.Attach(device))

	// the camera sits on +X looking west, so the glass furthest west is drawn first
	require.NoError(t, s.Render())
	order := s.Renderer().TransparentOrder()
	for i := 1; i < len(order); i++ {
		assert.LessOrEqual(t, order[i-1].Centroid.X, order[i].Centroid.X+1e-5)
	}
	assert.Equal(t, renderer.West, s.Renderer().SortBasis())
}

func TestReattachFreesPreviousRenderer(t *testing.T) {
	s := buildScene(t, glassScene)
	device := recording.NewDevice()

	require.NoError(t, s.Attach(device))
	first := s.Renderer()
	require.NoError(t, s.Attach(device))

	assert.True(t, first.Released())
	assert.False(t, s.Renderer().Released())
	assert.Equal(t, 1, device.LiveBatches())
}
