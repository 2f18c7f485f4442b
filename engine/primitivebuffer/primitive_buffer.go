package primitivebuffer

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// primitiveBuffer is the implementation of the PrimitiveBuffer interface.
type primitiveBuffer struct {
	mu *sync.Mutex

	vertices     []common.Vec3
	vertexLookup map[common.Vec3]int

	materials  []material.Material
	primitives [][]*primitive.Primitive

	optimized       bool
	optimizeWorkers int
	pool            worker.DynamicWorkerPool
}

// PrimitiveBuffer collects primitives grouped by material into shared vertex storage.
// Identical positions are stored once and referenced by index from every primitive using them.
// Materials are grouped by value: adding primitives with two equal materials puts them in the same group.
//
// The buffer is filled from any goroutine, then handed to a renderer which calls Optimize once.
// After Optimize the buffer must not be modified.
type PrimitiveBuffer interface {
	renderer.GeometrySource

	// AddPrimitive appends a primitive to the group of m.
	//
	// Parameters:
	//   - m: the material of the primitive
	//   - t: how the vertices are assembled
	//   - vertices: the vertex positions
	//   - normals: one normal per vertex
	//   - texCoordLists: zero or more texture coordinate sets, one entry per vertex
	//
	// Returns:
	//   - error: an error if the attributes are not aligned or the buffer was already optimized
	AddPrimitive(m material.Material, t primitive.DrawType, vertices, normals []common.Vec3, texCoordLists [][]common.TexCoord) error

	// VertexCount returns the number of distinct vertex positions stored.
	//
	// Returns:
	//   - int: the vertex count
	VertexCount() int

	// PrimitiveCount returns the number of primitives over all materials.
	//
	// Returns:
	//   - int: the primitive count
	PrimitiveCount() int

	// Optimized reports whether Optimize has run.
	//
	// Returns:
	//   - bool: true after Optimize
	Optimized() bool
}

var _ PrimitiveBuffer = &primitiveBuffer{}

// NewPrimitiveBuffer creates an empty PrimitiveBuffer.
//
// Parameters:
//   - options: functional options to configure the buffer
//
// Returns:
//   - PrimitiveBuffer: the new buffer
func NewPrimitiveBuffer(options ...PrimitiveBufferBuilderOption) PrimitiveBuffer {
	b := &primitiveBuffer{
		mu:              &sync.Mutex{},
		vertexLookup:    make(map[common.Vec3]int),
		optimizeWorkers: runtime.NumCPU(),
	}
	for _, opt := range options {
		opt(b)
	}
	if b.optimizeWorkers < 1 {
		b.optimizeWorkers = 1
	}
	// Workers idle-exit after a second, so a buffer that is never optimized holds no goroutines.
	b.pool = worker.NewDynamicWorkerPool(b.optimizeWorkers, 256, 1*time.Second)
	return b
}

func (b *primitiveBuffer) AddPrimitive(m material.Material, t primitive.DrawType, vertices, normals []common.Vec3, texCoordLists [][]common.TexCoord) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.optimized {
		return fmt.Errorf("add primitive: buffer already optimized")
	}

	p := &primitive.Primitive{
		Type:          t,
		Indices:       make([]int, len(vertices)),
		Normals:       append([]common.Vec3(nil), normals...),
		TexCoordLists: make([][]common.TexCoord, len(texCoordLists)),
	}
	for i, list := range texCoordLists {
		p.TexCoordLists[i] = append([]common.TexCoord(nil), list...)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("add primitive to material %q: %w", m.Name(), err)
	}

	for i, v := range vertices {
		idx, ok := b.vertexLookup[v]
		if !ok {
			idx = len(b.vertices)
			b.vertices = append(b.vertices, v)
			b.vertexLookup[v] = idx
		}
		p.Indices[i] = idx
	}

	group := b.groupOf(m)
	b.primitives[group] = append(b.primitives[group], p)
	return nil
}

// groupOf returns the index of the material group equal to m, creating it if needed.
// Caller must hold the mutex.
func (b *primitiveBuffer) groupOf(m material.Material) int {
	for i, existing := range b.materials {
		if material.Equal(existing, m) {
			return i
		}
	}
	b.materials = append(b.materials, m)
	b.primitives = append(b.primitives, nil)
	return len(b.materials) - 1
}

// Optimize removes degenerate triangles and merges the consecutive triangle-list primitives
// of each non-transparent material into one. Transparent primitives are never merged since
// they are ordered individually. Material groups are processed in parallel. Later calls do nothing.
func (b *primitiveBuffer) Optimize() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.optimized {
		return
	}
	b.optimized = true

	before := b.countPrimitives()
	var wg sync.WaitGroup
	for i, m := range b.materials {
		wg.Add(1)
		group := i
		merge := !m.IsTransparent()
		b.pool.SubmitTask(worker.Task{
			ID: group,
			Do: func() (any, error) {
				defer wg.Done()
				b.primitives[group] = optimizeGroup(b.primitives[group], merge)
				return nil, nil
			},
		})
	}
	wg.Wait()

	common.Logger().Debug("primitive buffer optimized",
		"materials", len(b.materials),
		"vertices", len(b.vertices),
		"primitives_before", before,
		"primitives_after", b.countPrimitives(),
	)
}

// countPrimitives sums the primitives of all groups.
// Caller must hold the mutex.
func (b *primitiveBuffer) countPrimitives() int {
	n := 0
	for _, group := range b.primitives {
		n += len(group)
	}
	return n
}

func (b *primitiveBuffer) Vertex(index int) common.Vec3 {
	return b.vertices[index]
}

func (b *primitiveBuffer) Materials() []material.Material {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.materials
}

func (b *primitiveBuffer) Primitives(materialIndex int) []*primitive.Primitive {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.primitives[materialIndex]
}

func (b *primitiveBuffer) VertexCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.vertices)
}

func (b *primitiveBuffer) PrimitiveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.countPrimitives()
}

func (b *primitiveBuffer) Optimized() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.optimized
}
