package renderer

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithCardinalEpsilon sets how far, in radians, the horizontal view angle may be from a
// multiple of 90 degrees for an orthographic view to use the cardinal ordering path.
// Non-positive values are ignored.
//
// Parameters:
//   - epsilon: tolerance in radians
//
// Returns:
//   - RendererBuilderOption: a function that applies the epsilon option to a renderer
func WithCardinalEpsilon(epsilon float32) RendererBuilderOption {
	return func(r *renderer) {
		if epsilon > 0 {
			r.epsilon = epsilon
		}
	}
}
