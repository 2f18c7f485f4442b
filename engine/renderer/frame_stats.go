package renderer

// FrameStats describes the work done by the most recent Render call.
type FrameStats struct {
	// Path is the strategy used to order the transparent primitives.
	Path ReorderPath
	// Comparisons is the number of key comparisons performed while ordering.
	Comparisons uint64
	// MaterialChanges is the number of SetMaterial calls issued for transparent geometry.
	MaterialChanges int
	// TransparentDraws is the number of transparent primitives drawn.
	TransparentDraws int
	// Basis is the sort basis after ordering.
	Basis CardinalDirection
}
