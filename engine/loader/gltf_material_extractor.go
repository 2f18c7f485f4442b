package loader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// gltfMaterialExtractorImpl is the implementation of the gltfMaterialExtractor interface.
type gltfMaterialExtractorImpl struct {
	parser gltfParser
}

// gltfMaterialExtractor converts glTF materials into viewer materials.
// Only the base color factor and alpha mode carry over; textures and PBR factors are ignored.
type gltfMaterialExtractor interface {
	// ExtractMaterial converts a single material by index.
	//
	// Parameters:
	//   - materialIndex: the index of the material in the document
	//
	// Returns:
	//   - material.Material: the converted material
	//   - error: error if the index is out of range or the alpha mode is unknown
	ExtractMaterial(materialIndex int) (material.Material, error)

	// ExtractAllMaterials converts every material of the document, in document order.
	//
	// Returns:
	//   - []material.Material: the converted materials
	//   - error: error if any material fails to convert
	ExtractAllMaterials() ([]material.Material, error)
}

var _ gltfMaterialExtractor = &gltfMaterialExtractorImpl{}

func newGLTFMaterialExtractor(parser gltfParser) gltfMaterialExtractor {
	return &gltfMaterialExtractorImpl{parser: parser}
}

func (e *gltfMaterialExtractorImpl) ExtractMaterial(materialIndex int) (material.Material, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}
	if materialIndex < 0 || materialIndex >= len(doc.Materials) {
		return nil, fmt.Errorf("material index %d out of range", materialIndex)
	}

	mat := &doc.Materials[materialIndex]

	baseColor := [4]float32{1, 1, 1, 1}
	if mat.PbrMetallicRoughness != nil && mat.PbrMetallicRoughness.BaseColorFactor != nil {
		baseColor = *mat.PbrMetallicRoughness.BaseColorFactor
	}

	var transparency material.Transparency
	switch mat.AlphaMode {
	case "", gltfAlphaModeOpaque:
		transparency = material.Opaque
	case gltfAlphaModeMask:
		transparency = material.Binary
	case gltfAlphaModeBlend:
		transparency = material.True
	default:
		return nil, fmt.Errorf("material %d: unknown alpha mode %q", materialIndex, mat.AlphaMode)
	}

	name := mat.Name
	if name == "" {
		name = fmt.Sprintf("material_%d", materialIndex)
	}

	return material.NewMaterial(
		material.WithName(name),
		material.WithBaseColor(baseColor),
		material.WithTransparency(transparency),
	), nil
}

func (e *gltfMaterialExtractorImpl) ExtractAllMaterials() ([]material.Material, error) {
	doc := e.parser.Document()
	if doc == nil {
		return nil, fmt.Errorf("no document loaded")
	}

	result := make([]material.Material, len(doc.Materials))
	for i := range doc.Materials {
		m, err := e.ExtractMaterial(i)
		if err != nil {
			return nil, err
		}
		result[i] = m
	}
	return result, nil
}
