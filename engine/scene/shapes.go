package scene

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/loader"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitivebuffer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// boxFace is one face of an axis-aligned box: outward normal n and in-plane axes u, v with u x v = n.
type boxFace struct {
	n, u, v common.Vec3
}

var boxFaces = [6]boxFace{
	{n: common.Vec3{X: 1}, u: common.Vec3{Y: 1}, v: common.Vec3{Z: 1}},
	{n: common.Vec3{X: -1}, u: common.Vec3{Z: 1}, v: common.Vec3{Y: 1}},
	{n: common.Vec3{Y: 1}, u: common.Vec3{Z: 1}, v: common.Vec3{X: 1}},
	{n: common.Vec3{Y: -1}, u: common.Vec3{X: 1}, v: common.Vec3{Z: 1}},
	{n: common.Vec3{Z: 1}, u: common.Vec3{X: 1}, v: common.Vec3{Y: 1}},
	{n: common.Vec3{Z: -1}, u: common.Vec3{Y: 1}, v: common.Vec3{X: 1}},
}

// addTo converts the shape into primitives under m and adds them to geometry.
func (spec ShapeSpec) addTo(geometry primitivebuffer.PrimitiveBuffer, m material.Material) error {
	if spec.Type == "box" {
		return addBox(geometry, m, spec.Center, spec.Size)
	}

	vertices := make([]common.Vec3, len(spec.Vertices))
	for i, v := range spec.Vertices {
		vec, err := optionalVec3(v)
		if err != nil || len(v) == 0 {
			return fmt.Errorf("vertex %d: need 3 components, have %d", i, len(v))
		}
		vertices[i] = vec
	}

	var t primitive.DrawType
	switch spec.Type {
	case "triangle":
		if len(vertices) != 3 {
			return fmt.Errorf("triangle needs 3 vertices, has %d", len(vertices))
		}
		t = primitive.Triangles
	case "quad":
		if len(vertices) != 4 {
			return fmt.Errorf("quad needs 4 vertices, has %d", len(vertices))
		}
		t = primitive.ConvexPolygon
	case "polygon":
		t = primitive.ConvexPolygon
	case "line":
		t = primitive.LineStrip
	default:
		parsed, err := primitive.ParseDrawType(spec.Type)
		if err != nil {
			return fmt.Errorf("unknown shape type %q", spec.Type)
		}
		t = parsed
	}

	normals := make([]common.Vec3, len(vertices))
	if t.IsArea() {
		n := faceNormal(vertices)
		for i := range normals {
			normals[i] = n
		}
	}
	return geometry.AddPrimitive(m, t, vertices, normals, nil)
}

// addBox adds the six faces of an axis-aligned box as convex polygons wound counter-clockwise
// when seen from outside.
func addBox(geometry primitivebuffer.PrimitiveBuffer, m material.Material, center, size []float32) error {
	c, err := optionalVec3(center)
	if err != nil {
		return fmt.Errorf("center: %w", err)
	}
	if len(size) != 3 {
		return fmt.Errorf("size: need 3 components, have %d", len(size))
	}
	half := common.Vec3{X: size[0] / 2, Y: size[1] / 2, Z: size[2] / 2}

	for _, f := range boxFaces {
		mid := c.Add(scaleAxes(f.n, half))
		u := scaleAxes(f.u, half)
		v := scaleAxes(f.v, half)
		vertices := []common.Vec3{
			mid.Sub(u).Sub(v),
			mid.Add(u).Sub(v),
			mid.Add(u).Add(v),
			mid.Sub(u).Add(v),
		}
		normals := []common.Vec3{f.n, f.n, f.n, f.n}
		if err := geometry.AddPrimitive(m, primitive.ConvexPolygon, vertices, normals, nil); err != nil {
			return err
		}
	}
	return nil
}

func scaleAxes(axis, half common.Vec3) common.Vec3 {
	return common.Vec3{X: axis.X * half.X, Y: axis.Y * half.Y, Z: axis.Z * half.Z}
}

// faceNormal returns the unit normal of a planar polygon using Newell's method.
func faceNormal(vertices []common.Vec3) common.Vec3 {
	var n common.Vec3
	for i, cur := range vertices {
		next := vertices[(i+1)%len(vertices)]
		n.X += (cur.Y - next.Y) * (cur.Z + next.Z)
		n.Y += (cur.Z - next.Z) * (cur.X + next.X)
		n.Z += (cur.X - next.X) * (cur.Y + next.Y)
	}
	return n.Normalize()
}

// addModel imports the shape's model file and adds it at the shape's placement. Relative paths are
// resolved against baseDir. A nil m keeps the file's materials.
func (spec ShapeSpec) addModel(geometry primitivebuffer.PrimitiveBuffer, models loader.Loader, baseDir string, m material.Material) error {
	if spec.File == "" {
		return errors.New("model needs a file")
	}
	translate, err := optionalVec3(spec.Translate)
	if err != nil {
		return fmt.Errorf("translate: %w", err)
	}
	if spec.Scale < 0 {
		return fmt.Errorf("scale: %v is negative", spec.Scale)
	}

	path := spec.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	model, err := models.Load(path)
	if err != nil {
		return err
	}
	return model.AddTo(geometry, loader.Placement{Translate: translate, Scale: spec.Scale, Material: m})
}
