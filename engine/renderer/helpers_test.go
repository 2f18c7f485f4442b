package renderer_test

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// testSource is a minimal GeometrySource whose primitives are triangles centered on given points.
type testSource struct {
	vertices  []common.Vec3
	materials []material.Material
	prims     [][]*primitive.Primitive
	optimized int
}

func (s *testSource) Vertex(i int) common.Vec3                { return s.vertices[i] }
func (s *testSource) Optimize()                               { s.optimized++ }
func (s *testSource) Materials() []material.Material          { return s.materials }
func (s *testSource) Primitives(i int) []*primitive.Primitive { return s.prims[i] }

func (s *testSource) addMaterial(m material.Material) int {
	s.materials = append(s.materials, m)
	s.prims = append(s.prims, nil)
	return len(s.materials) - 1
}

// addTriangle appends a triangle whose centroid is exactly c.
func (s *testSource) addTriangle(materialIndex int, c common.Vec3) *primitive.Primitive {
	base := len(s.vertices)
	s.vertices = append(s.vertices,
		c.Add(common.Vec3{X: -1}),
		c.Add(common.Vec3{X: 1}),
		c,
	)
	up := common.Vec3{Y: 1}
	p := &primitive.Primitive{
		Type:    primitive.Triangles,
		Indices: []int{base, base + 1, base + 2},
		Normals: []common.Vec3{up, up, up},
	}
	s.prims[materialIndex] = append(s.prims[materialIndex], p)
	return p
}

type testView struct {
	pos, dir common.Vec3
}

func (v testView) Position() common.Vec3      { return v.pos }
func (v testView) ViewDirection() common.Vec3 { return v.dir }

type testProjection bool

func (p testProjection) IsOrthographic() bool { return bool(p) }

const (
	ortho       = testProjection(true)
	perspective = testProjection(false)
)

var (
	lookNorth = testView{pos: common.Vec3{Z: -100}, dir: common.Vec3{Z: 1}}
	lookEast  = testView{pos: common.Vec3{X: -100}, dir: common.Vec3{X: 1}}
	lookSouth = testView{pos: common.Vec3{Z: 100}, dir: common.Vec3{Z: -1}}
	lookWest  = testView{pos: common.Vec3{X: 100}, dir: common.Vec3{X: -1}}
)

func opaqueMaterial(name string) material.Material {
	return material.NewMaterial(material.WithName(name))
}

func glassMaterial(name string, alpha float32) material.Material {
	return material.NewMaterial(
		material.WithName(name),
		material.WithBaseColor([4]float32{0.2, 0.4, 1, alpha}),
		material.WithTransparency(material.True),
	)
}
