package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// maxNodeDepth bounds the node hierarchy walk so a cyclic document cannot recurse forever.
const maxNodeDepth = 64

// gltfMeshExtractorImpl is the implementation of the gltfMeshExtractor interface.
type gltfMeshExtractorImpl struct {
	parser    gltfParser
	materials []material.Material
}

// gltfMeshExtractor flattens the meshes referenced by a document's scene into world space primitives.
type gltfMeshExtractor interface {
	// ExtractScene walks the default scene, or every root node when the document names none,
	// and returns one primitive per mesh primitive instance with node transforms applied.
	//
	// Returns:
	//   - []MeshPrimitive: the world space primitives
	//   - error: error if a node, mesh or accessor cannot be read
	ExtractScene() ([]MeshPrimitive, error)
}

var _ gltfMeshExtractor = &gltfMeshExtractorImpl{}

// newGLTFMeshExtractor creates a mesh extractor over a parsed document.
//
// Parameters:
//   - parser: the parser containing a loaded document
//   - materials: the converted document materials, indexed like the document's materials
//
// Returns:
//   - gltfMeshExtractor: the mesh extractor
func newGLTFMeshExtractor(parser gltfParser, materials []material.Material) gltfMeshExtractor {
	return &gltfMeshExtractorImpl{parser: parser, materials: materials}
}

func (e *gltfMeshExtractorImpl) ExtractScene() ([]MeshPrimitive, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	var roots []int
	switch {
	case doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes):
		roots = doc.Scenes[*doc.Scene].Nodes
	case len(doc.Scenes) > 0:
		roots = doc.Scenes[0].Nodes
	default:
		roots = rootNodes(doc)
	}

	var identity [16]float32
	common.Identity(identity[:])

	var out []MeshPrimitive
	for _, root := range roots {
		if err := e.walk(root, identity, 0, &out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// rootNodes returns every node that is nobody's child.
func rootNodes(doc *gltfDocument) []int {
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			if c >= 0 && c < len(child) {
				child[c] = true
			}
		}
	}
	var roots []int
	for i, isChild := range child {
		if !isChild {
			roots = append(roots, i)
		}
	}
	return roots
}

func (e *gltfMeshExtractorImpl) walk(nodeIndex int, parent [16]float32, depth int, out *[]MeshPrimitive) error {
	doc := e.parser.Document()
	if nodeIndex < 0 || nodeIndex >= len(doc.Nodes) {
		return fmt.Errorf("node index %d out of range", nodeIndex)
	}
	if depth > maxNodeDepth {
		return fmt.Errorf("node %d: hierarchy deeper than %d", nodeIndex, maxNodeDepth)
	}

	node := &doc.Nodes[nodeIndex]
	local := nodeLocalMatrix(node)
	var world [16]float32
	common.Mul4(world[:], parent[:], local[:])

	if node.Mesh != nil {
		if *node.Mesh < 0 || *node.Mesh >= len(doc.Meshes) {
			return fmt.Errorf("node %d: mesh index %d out of range", nodeIndex, *node.Mesh)
		}
		mesh := &doc.Meshes[*node.Mesh]
		for i := range mesh.Primitives {
			prim, err := e.extractPrimitive(&mesh.Primitives[i], world)
			if err != nil {
				return fmt.Errorf("mesh %q primitive %d: %w", mesh.Name, i, err)
			}
			if prim == nil {
				continue
			}
			prim.Mesh = mesh.Name
			*out = append(*out, *prim)
		}
	}

	for _, c := range node.Children {
		if err := e.walk(c, world, depth+1, out); err != nil {
			return err
		}
	}
	return nil
}

// extractPrimitive reads one primitive and expands it into a non-indexed vertex list in world space.
// Strips and fans become triangle lists and loops become strips. A primitive with too few vertices
// for its topology yields nil.
func (e *gltfMeshExtractorImpl) extractPrimitive(prim *gltfPrimitive, world [16]float32) (*MeshPrimitive, error) {
	posIndex, ok := prim.Attributes[gltfAttributePosition]
	if !ok {
		return nil, fmt.Errorf("missing %s attribute", gltfAttributePosition)
	}
	positions, err := e.parser.ReadVec3Accessor(posIndex)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if normIndex, ok := prim.Attributes[gltfAttributeNormal]; ok {
		normals, err = e.parser.ReadVec3Accessor(normIndex)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		if len(normals) != len(positions) {
			return nil, fmt.Errorf("%d normals for %d positions", len(normals), len(positions))
		}
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = e.parser.ReadIndicesAccessor(*prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		for _, idx := range indices {
			if int(idx) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range for %d positions", idx, len(positions))
			}
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}

	mode := gltfModeTriangles
	if prim.Mode != nil {
		mode = *prim.Mode
	}

	var t primitive.DrawType
	switch mode {
	case gltfModePoints:
		t = primitive.Points
	case gltfModeLines:
		t = primitive.Lines
	case gltfModeLineStrip:
		t = primitive.LineStrip
	case gltfModeLineLoop:
		t = primitive.LineStrip
		if len(indices) > 0 {
			indices = append(indices, indices[0])
		}
	case gltfModeTriangles:
		t = primitive.Triangles
		indices = indices[:len(indices)-len(indices)%3]
	case gltfModeTriangleStrip:
		t = primitive.Triangles
		indices = stripToTriangles(indices)
	case gltfModeTriangleFan:
		t = primitive.Triangles
		indices = fanToTriangles(indices)
	default:
		return nil, fmt.Errorf("unknown primitive mode %d", mode)
	}

	if len(indices) < t.MinVertices() {
		common.Logger().Debug("skip glTF primitive with too few vertices", "type", t.String(), "vertices", len(indices))
		return nil, nil
	}

	if normals == nil && t.IsArea() {
		normals = generateNormals(positions, indices)
	}
	xf := newNodeTransform(world)
	if t.IsArea() && xf.mirrored() {
		reverseTriangles(indices)
	}

	out := &MeshPrimitive{
		Type:     t,
		Vertices: make([]common.Vec3, len(indices)),
		Normals:  make([]common.Vec3, len(indices)),
		Material: e.materialOf(prim.Material),
	}
	for i, idx := range indices {
		out.Vertices[i] = xf.point(vec3Of(positions[idx]))
		if t.IsArea() {
			out.Normals[i] = xf.normal(vec3Of(normals[idx]))
		}
	}
	return out, nil
}

func (e *gltfMeshExtractorImpl) materialOf(index *int) material.Material {
	if index == nil || *index < 0 || *index >= len(e.materials) {
		return nil
	}
	return e.materials[*index]
}

// stripToTriangles converts a triangle strip into a triangle list, keeping a consistent winding.
func stripToTriangles(strip []uint32) []uint32 {
	if len(strip) < 3 {
		return nil
	}
	out := make([]uint32, 0, (len(strip)-2)*3)
	for i := 2; i < len(strip); i++ {
		if i%2 == 0 {
			out = append(out, strip[i-2], strip[i-1], strip[i])
		} else {
			out = append(out, strip[i-1], strip[i-2], strip[i])
		}
	}
	return out
}

// fanToTriangles converts a triangle fan into a triangle list.
func fanToTriangles(fan []uint32) []uint32 {
	if len(fan) < 3 {
		return nil
	}
	out := make([]uint32, 0, (len(fan)-2)*3)
	for i := 2; i < len(fan); i++ {
		out = append(out, fan[0], fan[i-1], fan[i])
	}
	return out
}

func reverseTriangles(indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		indices[i+1], indices[i+2] = indices[i+2], indices[i+1]
	}
}

// generateNormals computes smooth vertex normals when the file provides none. Each triangle's
// area-weighted face normal is accumulated onto its three vertices and the sums are normalized.
// Vertices touched only by degenerate triangles get the up vector.
func generateNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	accum := make([]common.Vec3, len(positions))
	for i := 0; i+2 < len(indices); i += 3 {
		p0 := vec3Of(positions[indices[i]])
		p1 := vec3Of(positions[indices[i+1]])
		p2 := vec3Of(positions[indices[i+2]])
		face := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, idx := range indices[i : i+3] {
			accum[idx] = accum[idx].Add(face)
		}
	}

	out := make([][3]float32, len(positions))
	for i, n := range accum {
		if n.LengthSq() < 1e-12 {
			out[i] = [3]float32{0, 1, 0}
			continue
		}
		n = n.Normalize()
		out[i] = [3]float32{n.X, n.Y, n.Z}
	}
	return out
}

func vec3Of(v [3]float32) common.Vec3 {
	return common.Vec3{X: v[0], Y: v[1], Z: v[2]}
}
