package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixture describes a single-mesh glTF document with one primitive.
type fixture struct {
	positions [][3]float32
	indices   []uint16
	mode      int
	nodes     []map[string]any
	materials []map[string]any
}

func triangleFixture() fixture {
	return fixture{
		positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		indices:   []uint16{0, 1, 2},
		mode:      gltfModeTriangles,
	}
}

func (f fixture) bin() []byte {
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, f.positions)
	_ = binary.Write(&buf, binary.LittleEndian, f.indices)
	return buf.Bytes()
}

func (f fixture) doc(uri string) map[string]any {
	posLen := len(f.positions) * 12
	prim := map[string]any{
		"attributes": map[string]any{"POSITION": 0},
		"mode":       f.mode,
	}
	accessors := []map[string]any{
		{"bufferView": 0, "componentType": gltfComponentTypeFloat, "count": len(f.positions), "type": "VEC3"},
	}
	views := []map[string]any{
		{"buffer": 0, "byteOffset": 0, "byteLength": posLen},
	}
	if len(f.indices) > 0 {
		accessors = append(accessors, map[string]any{
			"bufferView": 1, "componentType": gltfComponentTypeUnsignedShort, "count": len(f.indices), "type": "SCALAR",
		})
		views = append(views, map[string]any{"buffer": 0, "byteOffset": posLen, "byteLength": len(f.indices) * 2})
		prim["indices"] = 1
	}
	if len(f.materials) > 0 {
		prim["material"] = 0
	}

	nodes := f.nodes
	if nodes == nil {
		nodes = []map[string]any{{"mesh": 0}}
	}
	buffer := map[string]any{"byteLength": len(f.bin())}
	if uri != "" {
		buffer["uri"] = uri
	}

	doc := map[string]any{
		"asset":       map[string]any{"version": "2.0"},
		"scene":       0,
		"scenes":      []map[string]any{{"name": "fixture", "nodes": []int{0}}},
		"nodes":       nodes,
		"meshes":      []map[string]any{{"name": "tri", "primitives": []map[string]any{prim}}},
		"accessors":   accessors,
		"bufferViews": views,
		"buffers":     []map[string]any{buffer},
	}
	if len(f.materials) > 0 {
		doc["materials"] = f.materials
	}
	return doc
}

// gltf encodes the fixture as glTF JSON with the buffer embedded as a data URI.
func (f fixture) gltf(t *testing.T) []byte {
	t.Helper()
	return encodeDoc(t, f.doc("data:application/octet-stream;base64,"+base64.StdEncoding.EncodeToString(f.bin())))
}

func encodeDoc(t *testing.T, doc map[string]any) []byte {
	t.Helper()
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

// glb encodes the fixture as a GLB container with the buffer in the BIN chunk.
func (f fixture) glb(t *testing.T) []byte {
	t.Helper()
	js := encodeDoc(t, f.doc(""))
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}
	bin := f.bin()
	for len(bin)%4 != 0 {
		bin = append(bin, 0)
	}

	var out bytes.Buffer
	total := 12 + 8 + len(js) + 8 + len(bin)
	require.NoError(t, binary.Write(&out, binary.LittleEndian, [3]uint32{gltfGLBMagic, gltfGLBVersion, uint32(total)}))
	require.NoError(t, binary.Write(&out, binary.LittleEndian, [2]uint32{uint32(len(js)), gltfGLBChunkJSON}))
	out.Write(js)
	require.NoError(t, binary.Write(&out, binary.LittleEndian, [2]uint32{uint32(len(bin)), gltfGLBChunkBIN}))
	out.Write(bin)
	return out.Bytes()
}

func assertVec(t *testing.T, want, got common.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-5, "x of %v", got)
	assert.InDelta(t, want.Y, got.Y, 1e-5, "y of %v", got)
	assert.InDelta(t, want.Z, got.Z, 1e-5, "z of %v", got)
}
