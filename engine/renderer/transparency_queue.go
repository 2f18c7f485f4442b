package renderer

import (
	"fmt"
	"slices"
	"sort"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/Carmen-Shannon/oxy-viewer/engine/primitive"
	"github.com/Carmen-Shannon/oxy-viewer/engine/renderer/material"
)

// PrimitiveWithMaterial pairs a transparent primitive with its material. The centroid is
// computed once, when the pair is created, from the geometry source's vertex storage.
type PrimitiveWithMaterial struct {
	Primitive *primitive.Primitive
	Material  material.Material
	Centroid  common.Vec3
}

// ReorderPath records which strategy a Reorder call used.
type ReorderPath uint8

const (
	// PathNone means Reorder has not run yet.
	PathNone ReorderPath = iota
	// PathNoOp kept the previous order because the cardinal direction did not change.
	PathNoOp
	// PathReverse reversed the previous order because the view flipped to the opposite direction.
	PathReverse
	// PathCardinalSort sorted by the centroid axis of a new cardinal direction.
	PathCardinalSort
	// PathDistanceSort sorted by descending squared distance from the camera.
	PathDistanceSort
)

var reorderPathNames = [...]string{
	PathNone:         "none",
	PathNoOp:         "noop",
	PathReverse:      "reverse",
	PathCardinalSort: "cardinal_sort",
	PathDistanceSort: "distance_sort",
}

func (p ReorderPath) String() string {
	if int(p) < len(reorderPathNames) {
		return reorderPathNames[p]
	}
	return fmt.Sprintf("ReorderPath(%d)", p)
}

// transparencyQueue is the implementation of the TransparencyQueue interface.
type transparencyQueue struct {
	source  primitive.VertexSource
	entries []PrimitiveWithMaterial
	basis   CardinalDirection
	epsilon float32

	// keys is scratch space holding one sort key per entry during a sort.
	keys        []float32
	comparisons uint64
}

// TransparencyQueue holds every transparent primitive together with its material and keeps
// them in back-to-front order for the current view. The order is only recomputed when the
// class of the view direction changes.
//
// A TransparencyQueue is not safe for concurrent use.
type TransparencyQueue interface {
	// Add appends a transparent primitive. Intended for populating the queue before the first Reorder.
	// The primitive is not validated; callers are expected to have checked it with Validate.
	//
	// Parameters:
	//   - p: the primitive
	//   - m: its material
	Add(p *primitive.Primitive, m material.Material)

	// Reorder brings the queue into back-to-front order for the given view.
	//
	// Orthographic views whose horizontal angle is within epsilon of a multiple of 90 degrees
	// take the cardinal path: the order is reversed when the closest cardinal direction is the
	// opposite of the current basis, sorted by centroid axis when it is another direction, and
	// left untouched when it is the same. Every other view is sorted by descending squared
	// distance between centroid and eye, and the basis becomes None.
	//
	// Parameters:
	//   - view: the camera
	//   - proj: the projection
	//
	// Returns:
	//   - ReorderPath: the strategy that was used
	Reorder(view Viewpoint, proj ProjectionMode) ReorderPath

	// Entries returns a copy of the current order.
	//
	// Returns:
	//   - []PrimitiveWithMaterial: the primitives, back to front
	Entries() []PrimitiveWithMaterial

	// Len returns the number of queued primitives.
	//
	// Returns:
	//   - int: the queue length
	Len() int

	// Basis returns the cardinal direction the current order was computed for, or None.
	//
	// Returns:
	//   - CardinalDirection: the sort basis
	Basis() CardinalDirection

	// Comparisons returns the number of key comparisons performed by all sorts so far.
	//
	// Returns:
	//   - uint64: the comparison count
	Comparisons() uint64
}

var _ TransparencyQueue = &transparencyQueue{}

// NewTransparencyQueue creates an empty queue whose centroids are resolved through source.
//
// Parameters:
//   - source: vertex storage referenced by the queued primitives
//   - epsilon: tolerance in radians for treating a view as axis aligned
//
// Returns:
//   - TransparencyQueue: the new queue
func NewTransparencyQueue(source primitive.VertexSource, epsilon float32) TransparencyQueue {
	return newTransparencyQueue(source, epsilon)
}

func newTransparencyQueue(source primitive.VertexSource, epsilon float32) *transparencyQueue {
	return &transparencyQueue{
		source:  source,
		basis:   None,
		epsilon: epsilon,
	}
}

func (q *transparencyQueue) Add(p *primitive.Primitive, m material.Material) {
	q.entries = append(q.entries, PrimitiveWithMaterial{
		Primitive: p,
		Material:  m,
		Centroid:  p.Centroid(q.source),
	})
}

func (q *transparencyQueue) Reorder(view Viewpoint, proj ProjectionMode) ReorderPath {
	angle := common.HorizontalAngle(view.ViewDirection())

	if proj.IsOrthographic() && IsAxisAligned(angle, q.epsilon) {
		closest := ClosestCardinal(angle)
		path := PathNoOp
		switch {
		case closest.IsOppositeOf(q.basis):
			slices.Reverse(q.entries)
			path = PathReverse
		case closest != q.basis:
			q.sortByAxis(closest)
			path = PathCardinalSort
		}
		q.basis = closest
		return path
	}

	q.sortByDistance(view.Position())
	q.basis = None
	return PathDistanceSort
}

// sortByAxis orders entries by ascending SortKey for dir.
func (q *transparencyQueue) sortByAxis(dir CardinalDirection) {
	q.keys = q.keys[:0]
	for _, e := range q.entries {
		q.keys = append(q.keys, SortKey(dir, e.Centroid))
	}
	q.sortByKeys()
}

// sortByDistance orders entries by descending squared distance to eye.
func (q *transparencyQueue) sortByDistance(eye common.Vec3) {
	q.keys = q.keys[:0]
	for _, e := range q.entries {
		q.keys = append(q.keys, -e.Centroid.DistanceSq(eye))
	}
	q.sortByKeys()
}

// sortByKeys stably sorts entries by ascending q.keys, keys[i] belonging to entries[i].
func (q *transparencyQueue) sortByKeys() {
	sort.Stable((*keyedEntries)(q))
}

// keyedEntries sorts a queue's entries together with their precomputed keys.
type keyedEntries transparencyQueue

func (k *keyedEntries) Len() int {
	return len(k.entries)
}

func (k *keyedEntries) Less(i, j int) bool {
	k.comparisons++
	return k.keys[i] < k.keys[j]
}

func (k *keyedEntries) Swap(i, j int) {
	k.entries[i], k.entries[j] = k.entries[j], k.entries[i]
	k.keys[i], k.keys[j] = k.keys[j], k.keys[i]
}

func (q *transparencyQueue) Entries() []PrimitiveWithMaterial {
	return slices.Clone(q.entries)
}

func (q *transparencyQueue) Len() int {
	return len(q.entries)
}

func (q *transparencyQueue) Basis() CardinalDirection {
	return q.basis
}

func (q *transparencyQueue) Comparisons() uint64 {
	return q.comparisons
}
