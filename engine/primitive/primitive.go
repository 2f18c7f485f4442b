package primitive

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
)

// DrawType identifies how the indices of a Primitive are assembled into shapes.
type DrawType uint8

const (
	// Triangles draws every three indices as an independent triangle.
	Triangles DrawType = iota
	// TriangleStrip draws a strip where each new index forms a triangle with the previous two.
	TriangleStrip
	// TriangleFan draws a fan where each new index forms a triangle with the first and previous index.
	TriangleFan
	// ConvexPolygon draws a single convex polygon outlined by the indices.
	ConvexPolygon
	// Lines draws every two indices as an independent line segment.
	Lines
	// LineStrip draws a connected polyline.
	LineStrip
	// Points draws every index as a point.
	Points
)

var drawTypeNames = [...]string{
	Triangles:     "triangles",
	TriangleStrip: "triangle_strip",
	TriangleFan:   "triangle_fan",
	ConvexPolygon: "convex_polygon",
	Lines:         "lines",
	LineStrip:     "line_strip",
	Points:        "points",
}

// String returns the lower snake case name of the draw type.
func (d DrawType) String() string {
	if int(d) < len(drawTypeNames) {
		return drawTypeNames[d]
	}
	return fmt.Sprintf("DrawType(%d)", d)
}

// ParseDrawType converts a name produced by DrawType.String back into a DrawType.
//
// Parameters:
//   - name: the draw type name
//
// Returns:
//   - DrawType: the matching draw type
//   - error: error if the name is unknown
func ParseDrawType(name string) (DrawType, error) {
	for i, n := range drawTypeNames {
		if n == name {
			return DrawType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown draw type %q", name)
}

// MinVertices returns the smallest index count for which the draw type produces any output.
func (d DrawType) MinVertices() int {
	switch d {
	case Points:
		return 1
	case Lines, LineStrip:
		return 2
	default:
		return 3
	}
}

// IsArea reports whether the draw type produces filled triangles.
func (d DrawType) IsArea() bool {
	return d <= ConvexPolygon
}

var (
	// ErrNormalCount is returned when a primitive has a different number of normals than indices.
	ErrNormalCount = errors.New("normal count does not match index count")
	// ErrTexCoordCount is returned when a texture coordinate list is not aligned with the indices.
	ErrTexCoordCount = errors.New("texture coordinate count does not match index count")
	// ErrTooFewVertices is returned when a primitive cannot produce any shape.
	ErrTooFewVertices = errors.New("too few vertices for draw type")
)

// Primitive is a typed group of indexed vertices forming one drawable shape.
// It references vertices owned by a VertexSource and owns no vertex positions itself.
type Primitive struct {
	// Type is the assembly mode of the indices.
	Type DrawType
	// Indices reference positions in the owning VertexSource.
	Indices []int
	// Normals holds one normal per index.
	Normals []common.Vec3
	// TexCoordLists holds zero or more texture coordinate sets, each with one entry per index.
	TexCoordLists [][]common.TexCoord
}

// Validate checks that the per-vertex attribute sequences are aligned with the indices.
//
// Returns:
//   - error: nil if the primitive is well formed
func (p *Primitive) Validate() error {
	if len(p.Normals) != len(p.Indices) {
		return fmt.Errorf("%w: %d normals, %d indices", ErrNormalCount, len(p.Normals), len(p.Indices))
	}
	for i, list := range p.TexCoordLists {
		if len(list) != len(p.Indices) {
			return fmt.Errorf("%w: list %d has %d entries, %d indices", ErrTexCoordCount, i, len(list), len(p.Indices))
		}
	}
	if len(p.Indices) < p.Type.MinVertices() {
		return fmt.Errorf("%w: %s needs %d, has %d", ErrTooFewVertices, p.Type, p.Type.MinVertices(), len(p.Indices))
	}
	return nil
}

// VertexSource resolves vertex indices to positions.
type VertexSource interface {
	// Vertex returns the position stored at index.
	Vertex(index int) common.Vec3
}

// Positions resolves the indices of p through src.
//
// Parameters:
//   - src: the vertex storage the indices refer to
//
// Returns:
//   - []common.Vec3: one position per index, in index order
func (p *Primitive) Positions(src VertexSource) []common.Vec3 {
	out := make([]common.Vec3, len(p.Indices))
	for i, idx := range p.Indices {
		out[i] = src.Vertex(idx)
	}
	return out
}

// Centroid returns the arithmetic mean of all vertices referenced by p.
// A primitive without indices has its centroid at the origin.
//
// Parameters:
//   - src: the vertex storage the indices refer to
//
// Returns:
//   - common.Vec3: the centroid
func (p *Primitive) Centroid(src VertexSource) common.Vec3 {
	if len(p.Indices) == 0 {
		return common.Vec3{}
	}
	var sum common.Vec3
	for _, idx := range p.Indices {
		sum = sum.Add(src.Vertex(idx))
	}
	return sum.Scale(1 / float32(len(p.Indices)))
}

// Triangulate expands an area primitive into a flat list of triangle corners,
// expressed as positions into the primitive's index sequence (not vertex indices).
// Line and point primitives yield nil.
//
// Returns:
//   - []int: corner positions, three per triangle
func (p *Primitive) Triangulate() []int {
	n := len(p.Indices)
	if !p.Type.IsArea() || n < 3 {
		return nil
	}
	switch p.Type {
	case Triangles:
		out := make([]int, 0, n-n%3)
		for i := 0; i+2 < n; i += 3 {
			out = append(out, i, i+1, i+2)
		}
		return out
	case TriangleStrip:
		out := make([]int, 0, (n-2)*3)
		for i := 0; i+2 < n; i++ {
			// keep a consistent winding on odd triangles
			if i%2 == 0 {
				out = append(out, i, i+1, i+2)
			} else {
				out = append(out, i+1, i, i+2)
			}
		}
		return out
	default: // TriangleFan, ConvexPolygon
		out := make([]int, 0, (n-2)*3)
		for i := 1; i+1 < n; i++ {
			out = append(out, 0, i, i+1)
		}
		return out
	}
}

// Segments expands a line primitive into pairs of positions into the index sequence.
// Non-line primitives yield nil.
//
// Returns:
//   - []int: segment endpoints, two per segment
func (p *Primitive) Segments() []int {
	n := len(p.Indices)
	switch p.Type {
	case Lines:
		out := make([]int, 0, n-n%2)
		for i := 0; i+1 < n; i += 2 {
			out = append(out, i, i+1)
		}
		return out
	case LineStrip:
		if n < 2 {
			return nil
		}
		out := make([]int, 0, (n-1)*2)
		for i := 0; i+1 < n; i++ {
			out = append(out, i, i+1)
		}
		return out
	}
	return nil
}
