package primitivebuffer

import (
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
)

// optimizeGroup drops degenerate triangles from the primitives of one material and, when
// merge is set, joins runs of consecutive triangle-list primitives with the same number of
// texture coordinate sets into one primitive.
func optimizeGroup(prims []*primitive.Primitive, merge bool) []*primitive.Primitive {
	out := make([]*primitive.Primitive, 0, len(prims))
	for _, p := range prims {
		if p.Type == primitive.Triangles {
			p = withoutDegenerateTriangles(p)
			if p == nil {
				continue
			}
		}
		if merge && len(out) > 0 && mergeable(out[len(out)-1], p) {
			appendPrimitive(out[len(out)-1], p)
			continue
		}
		if merge && p.Type == primitive.Triangles {
			// copy so that appending never writes into a primitive the caller still holds
			p = clonePrimitive(p)
		}
		out = append(out, p)
	}
	return out
}

// withoutDegenerateTriangles returns p without the triangles that reference a vertex twice,
// p itself if none do, or nil if no triangle is left.
func withoutDegenerateTriangles(p *primitive.Primitive) *primitive.Primitive {
	corners := p.Triangulate()
	keep := make([]int, 0, len(corners))
	for i := 0; i+2 < len(corners); i += 3 {
		a, b, c := p.Indices[corners[i]], p.Indices[corners[i+1]], p.Indices[corners[i+2]]
		if a == b || b == c || a == c {
			continue
		}
		keep = append(keep, corners[i], corners[i+1], corners[i+2])
	}
	if len(keep) == len(p.Indices) {
		return p
	}
	if len(keep) == 0 {
		return nil
	}
	return pick(p, keep)
}

// pick builds a new primitive of the same type from the given positions of p's index sequence.
func pick(p *primitive.Primitive, positions []int) *primitive.Primitive {
	out := &primitive.Primitive{
		Type:          p.Type,
		Indices:       make([]int, len(positions)),
		Normals:       make([]common.Vec3, len(positions)),
		TexCoordLists: make([][]common.TexCoord, len(p.TexCoordLists)),
	}
	for i := range out.TexCoordLists {
		out.TexCoordLists[i] = make([]common.TexCoord, len(positions))
	}
	for i, pos := range positions {
		out.Indices[i] = p.Indices[pos]
		out.Normals[i] = p.Normals[pos]
		for l := range out.TexCoordLists {
			out.TexCoordLists[l][i] = p.TexCoordLists[l][pos]
		}
	}
	return out
}

func mergeable(dst, src *primitive.Primitive) bool {
	return dst.Type == primitive.Triangles &&
		src.Type == primitive.Triangles &&
		len(dst.TexCoordLists) == len(src.TexCoordLists)
}

func appendPrimitive(dst, src *primitive.Primitive) {
	dst.Indices = append(dst.Indices, src.Indices...)
	dst.Normals = append(dst.Normals, src.Normals...)
	for i := range dst.TexCoordLists {
		dst.TexCoordLists[i] = append(dst.TexCoordLists[i], src.TexCoordLists[i]...)
	}
}

func clonePrimitive(p *primitive.Primitive) *primitive.Primitive {
	positions := make([]int, len(p.Indices))
	for i := range positions {
		positions[i] = i
	}
	return pick(p, positions)
}
