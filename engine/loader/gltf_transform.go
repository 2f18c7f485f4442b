package loader

import "github.com/Carmen-Shannon/oxy-viewer/common"

// nodeLocalMatrix returns the column-major local transform of a node, either its explicit matrix
// or translation * rotation * scale.
func nodeLocalMatrix(node *gltfNode) [16]float32 {
	if node.Matrix != nil {
		return *node.Matrix
	}

	var m [16]float32
	common.Identity(m[:])

	if node.Rotation != nil {
		x, y, z, w := node.Rotation[0], node.Rotation[1], node.Rotation[2], node.Rotation[3]
		m[0] = 1 - 2*(y*y+z*z)
		m[1] = 2 * (x*y + z*w)
		m[2] = 2 * (x*z - y*w)
		m[4] = 2 * (x*y - z*w)
		m[5] = 1 - 2*(x*x+z*z)
		m[6] = 2 * (y*z + x*w)
		m[8] = 2 * (x*z + y*w)
		m[9] = 2 * (y*z - x*w)
		m[10] = 1 - 2*(x*x+y*y)
	}
	if node.Scale != nil {
		for col := 0; col < 3; col++ {
			for row := 0; row < 3; row++ {
				m[col*4+row] *= node.Scale[col]
			}
		}
	}
	if node.Translation != nil {
		m[12], m[13], m[14] = node.Translation[0], node.Translation[1], node.Translation[2]
	}
	return m
}

// nodeTransform applies a world matrix to positions and normals.
// Normals go through the cofactor matrix of the upper 3x3, which is the inverse transpose scaled by
// the determinant, so non-uniform scale keeps them perpendicular to their surface.
type nodeTransform struct {
	m        [16]float32
	cofactor [3]common.Vec3
	det      float32
}

func newNodeTransform(m [16]float32) nodeTransform {
	a := common.Vec3{X: m[0], Y: m[1], Z: m[2]}
	b := common.Vec3{X: m[4], Y: m[5], Z: m[6]}
	c := common.Vec3{X: m[8], Y: m[9], Z: m[10]}
	return nodeTransform{
		m:        m,
		cofactor: [3]common.Vec3{b.Cross(c), c.Cross(a), a.Cross(b)},
		det:      a.Dot(b.Cross(c)),
	}
}

// mirrored reports whether the transform flips handedness, which reverses triangle winding.
func (t nodeTransform) mirrored() bool {
	return t.det < 0
}

func (t nodeTransform) point(p common.Vec3) common.Vec3 {
	h := common.TransformPoint(t.m[:], p)
	if h[3] != 0 && h[3] != 1 {
		return common.Vec3{X: h[0] / h[3], Y: h[1] / h[3], Z: h[2] / h[3]}
	}
	return common.Vec3{X: h[0], Y: h[1], Z: h[2]}
}

func (t nodeTransform) normal(n common.Vec3) common.Vec3 {
	out := t.cofactor[0].Scale(n.X).Add(t.cofactor[1].Scale(n.Y)).Add(t.cofactor[2].Scale(n.Z))
	if t.det < 0 {
		out = out.Scale(-1)
	}
	return out.Normalize()
}
