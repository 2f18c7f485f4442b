package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitivebuffer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// Model is an imported model flattened into a list of primitives in the model's space.
type Model struct {
	// Name is the scene name stored in the file, or the path it was loaded from.
	Name string
	// Primitives holds the geometry of every mesh instance with node transforms applied.
	Primitives []MeshPrimitive
}

// MeshPrimitive is one non-indexed primitive of an imported model.
type MeshPrimitive struct {
	// Mesh is the name of the mesh the primitive came from.
	Mesh string
	// Type is the primitive topology.
	Type primitive.DrawType
	// Vertices holds one position per vertex.
	Vertices []common.Vec3
	// Normals holds one normal per vertex; zero for lines and points.
	Normals []common.Vec3
	// Material is the converted file material, or nil when the primitive names none.
	Material material.Material
}

// Placement positions a model in a scene.
type Placement struct {
	// Translate is added to every vertex after scaling.
	Translate common.Vec3
	// Scale is a uniform scale factor. Zero means 1.
	Scale float32
	// Material replaces every file material when set.
	Material material.Material
}

// Bounds returns the axis-aligned bounds of all vertices. An empty model has zero bounds.
//
// Returns:
//   - common.Vec3: the minimum corner
//   - common.Vec3: the maximum corner
func (m *Model) Bounds() (common.Vec3, common.Vec3) {
	var lo, hi common.Vec3
	first := true
	for _, p := range m.Primitives {
		for _, v := range p.Vertices {
			if first {
				lo, hi = v, v
				first = false
				continue
			}
			lo = common.Vec3{X: min(lo.X, v.X), Y: min(lo.Y, v.Y), Z: min(lo.Z, v.Z)}
			hi = common.Vec3{X: max(hi.X, v.X), Y: max(hi.Y, v.Y), Z: max(hi.Z, v.Z)}
		}
	}
	return lo, hi
}

// AddTo places the model and appends its primitives to b. Triangle lists under a transparent
// material are split into single triangles so each one is ordered on its own.
//
// Parameters:
//   - b: the buffer to add the geometry to
//   - place: the placement of the model
//
// Returns:
//   - error: an error if the buffer rejects a primitive
func (m *Model) AddTo(b primitivebuffer.PrimitiveBuffer, place Placement) error {
	scale := common.Coalesce(place.Scale, 1)
	if scale < 0 {
		return fmt.Errorf("model %q: negative scale %v", m.Name, scale)
	}

	for i, p := range m.Primitives {
		mat := place.Material
		if mat == nil {
			mat = p.Material
		}
		if mat == nil {
			mat = material.NewMaterial()
		}

		vertices := make([]common.Vec3, len(p.Vertices))
		for j, v := range p.Vertices {
			vertices[j] = v.Scale(scale).Add(place.Translate)
		}

		if mat.IsTransparent() && p.Type == primitive.Triangles {
			for j := 0; j+2 < len(vertices); j += 3 {
				if err := b.AddPrimitive(mat, primitive.Triangles, vertices[j:j+3], p.Normals[j:j+3], nil); err != nil {
					return fmt.Errorf("model %q primitive %d: %w", m.Name, i, err)
				}
			}
			continue
		}
		if err := b.AddPrimitive(mat, p.Type, vertices, p.Normals, nil); err != nil {
			return fmt.Errorf("model %q primitive %d: %w", m.Name, i, err)
		}
	}
	return nil
}
