package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialParamsSource is the WGSL definition of the MaterialParams struct.
// Matches GPUMaterialParams layout exactly (32 bytes, std140 aligned).
const GPUMaterialParamsSource = `struct MaterialParams {
    base_color: vec4<f32>,
    ambient: f32,
    diffuse: f32,
    alpha_cutoff: f32,
    _pad: f32,
}`

// GPUMaterialParams is the GPU-aligned uniform holding a material's shading state.
// Matches the WGSL MaterialParams struct layout exactly (see GPUMaterialParamsSource).
type GPUMaterialParams struct {
	BaseColor   [4]float32 // offset 0: RGBA base color (16 bytes)
	Ambient     float32    // offset 16
	Diffuse     float32    // offset 20
	AlphaCutoff float32    // offset 24: fragments below this alpha are discarded (0 disables)
	_           float32    // offset 28: padding
}

// NewGPUMaterialParams converts a material into its uniform representation.
// Binary transparency is expressed as an alpha cutoff of 0.5.
//
// Parameters:
//   - m: the material to convert
//
// Returns:
//   - GPUMaterialParams: the uniform data
func NewGPUMaterialParams(m Material) GPUMaterialParams {
	p := GPUMaterialParams{
		BaseColor: m.BaseColor(),
		Ambient:   m.AmbientFactor(),
		Diffuse:   m.DiffuseFactor(),
	}
	if m.Transparency() == Binary {
		p.AlphaCutoff = 0.5
	}
	return p
}

// Size returns the size of the GPUMaterialParams struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUMaterialParams) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterialParams struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUMaterialParams) Marshal() []byte {
	buf := make([]byte, 32)
	for i, c := range g.BaseColor {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(c))
	}
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Ambient))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Diffuse))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.AlphaCutoff))
	return buf
}
