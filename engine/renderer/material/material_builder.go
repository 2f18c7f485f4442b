package material

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.props.Name = name
	}
}

// WithBaseColor is an option builder that sets the RGBA color of the material.
//
// Parameters:
//   - color: the base color as RGBA float32 values
//
// Returns:
//   - MaterialBuilderOption: a function that applies the base color option to a material
func WithBaseColor(color [4]float32) MaterialBuilderOption {
	return func(m *material) {
		m.props.BaseColor = color
	}
}

// WithAmbientFactor is an option builder that sets the ambient light multiplier.
//
// Parameters:
//   - factor: the ambient factor, usually in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the ambient factor option to a material
func WithAmbientFactor(factor float32) MaterialBuilderOption {
	return func(m *material) {
		m.props.AmbientFactor = factor
	}
}

// WithDiffuseFactor is an option builder that sets the diffuse light multiplier.
//
// Parameters:
//   - factor: the diffuse factor, usually in [0, 1]
//
// Returns:
//   - MaterialBuilderOption: a function that applies the diffuse factor option to a material
func WithDiffuseFactor(factor float32) MaterialBuilderOption {
	return func(m *material) {
		m.props.DiffuseFactor = factor
	}
}

// WithTransparency is an option builder that sets the compositing class of the material.
//
// Parameters:
//   - t: the transparency class
//
// Returns:
//   - MaterialBuilderOption: a function that applies the transparency option to a material
func WithTransparency(t Transparency) MaterialBuilderOption {
	return func(m *material) {
		m.props.Transparency = t
	}
}

// WithProperties is an option builder that replaces the whole shading state at once.
//
// Parameters:
//   - props: the complete material state
//
// Returns:
//   - MaterialBuilderOption: a function that applies the properties to a material
func WithProperties(props Properties) MaterialBuilderOption {
	return func(m *material) {
		m.props = props
	}
}
