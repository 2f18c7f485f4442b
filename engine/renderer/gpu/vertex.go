package gpu

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// vertexStride is the size of one packed vertex: position vec3 followed by normal vec3.
const vertexStride = 24

// vertexLayout describes the packed vertex format to the vertex stage.
var vertexLayout = wgpu.VertexBufferLayout{
	ArrayStride: vertexStride,
	StepMode:    wgpu.VertexStepModeVertex,
	Attributes: []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	},
}

// kindFor picks the pipeline for a draw type under a material.
func kindFor(t primitive.DrawType, m material.Material) pipeline.Kind {
	return pipeline.KindFor(t, m.IsTransparent())
}

// drawRange is a run of consecutive vertices drawn with one pipeline and one material.
type drawRange struct {
	kind  pipeline.Kind
	mat   material.Properties
	first uint32
	count uint32
}

// appendRange appends r, extending the last range instead when r continues it.
func appendRange(ranges []drawRange, r drawRange) []drawRange {
	if r.count == 0 {
		return ranges
	}
	if n := len(ranges); n > 0 {
		last := &ranges[n-1]
		if last.kind == r.kind && last.mat == r.mat && last.first+last.count == r.first {
			last.count += r.count
			return ranges
		}
	}
	return append(ranges, r)
}

// appendVertices expands a primitive into list-topology vertices and packs them onto dst.
// Area types become triangle lists, line types become line lists and points stay points.
//
// Parameters:
//   - dst: the buffer to append to
//   - t: how the vertices are assembled
//   - vertices: resolved positions, one per index
//   - normals: one normal per vertex, may be shorter than vertices
//
// Returns:
//   - []byte: dst with the packed vertices appended
//   - uint32: the number of vertices appended
func appendVertices(dst []byte, t primitive.DrawType, vertices, normals []common.Vec3) ([]byte, uint32) {
	p := primitive.Primitive{Type: t, Indices: make([]int, len(vertices))}
	var corners []int
	switch {
	case t.IsArea():
		corners = p.Triangulate()
	case t == primitive.Points:
		corners = p.Indices
		for i := range corners {
			corners[i] = i
		}
	default:
		corners = p.Segments()
	}
	for _, c := range corners {
		var n common.Vec3
		if c < len(normals) {
			n = normals[c]
		}
		dst = putVec3(dst, vertices[c])
		dst = putVec3(dst, n)
	}
	return dst, uint32(len(corners))
}

func putVec3(dst []byte, v common.Vec3) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.X))
	dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Y))
	return binary.LittleEndian.AppendUint32(dst, math.Float32bits(v.Z))
}
