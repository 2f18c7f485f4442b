package loader

import "io"

// loaderBackend imports a model file format into a Model.
type loaderBackend interface {
	// Load imports the model stored at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *Model: the imported model
	//   - error: error if loading fails
	Load(path string) (*Model, error)

	// LoadReader imports a model from a reader stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides binary data, false for text-based formats
	//
	// Returns:
	//   - *Model: the imported model
	//   - error: error if loading fails
	LoadReader(r io.Reader, isGLB bool) (*Model, error)
}
