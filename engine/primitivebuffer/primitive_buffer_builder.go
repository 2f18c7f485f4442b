package primitivebuffer

// PrimitiveBufferBuilderOption is a functional option applied to a buffer during construction via NewPrimitiveBuffer.
type PrimitiveBufferBuilderOption func(*primitiveBuffer)

// WithOptimizeWorkers sets the number of workers processing material groups in Optimize.
// Defaults to the number of CPUs.
//
// Parameters:
//   - workers: the worker count, at least 1
//
// Returns:
//   - PrimitiveBufferBuilderOption: a function that applies the worker count to a buffer
func WithOptimizeWorkers(workers int) PrimitiveBufferBuilderOption {
	return func(b *primitiveBuffer) {
		b.optimizeWorkers = workers
	}
}
