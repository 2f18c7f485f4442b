package material

import "fmt"

// Transparency classifies how a material composites with what is behind it.
type Transparency uint8

const (
	// Opaque surfaces fully hide what is behind them.
	Opaque Transparency = iota
	// Binary surfaces are either fully visible or fully discarded per fragment (alpha tested).
	// They need no ordering and are batched together with opaque geometry.
	Binary
	// True surfaces are blended with what is behind them and must be drawn back to front.
	True
)

// String returns the lower case name of the transparency class.
func (t Transparency) String() string {
	switch t {
	case Opaque:
		return "opaque"
	case Binary:
		return "binary"
	case True:
		return "true"
	}
	return fmt.Sprintf("Transparency(%d)", t)
}

// ParseTransparency converts a name produced by Transparency.String back into a Transparency.
// The empty string yields Opaque.
//
// Parameters:
//   - name: the transparency name
//
// Returns:
//   - Transparency: the matching class
//   - error: error if the name is unknown
func ParseTransparency(name string) (Transparency, error) {
	switch name {
	case "", "opaque":
		return Opaque, nil
	case "binary":
		return Binary, nil
	case "true":
		return True, nil
	}
	return Opaque, fmt.Errorf("unknown transparency %q", name)
}

// Properties is the complete shading state of a material. It is comparable, so two
// materials with equal Properties select the same device state.
type Properties struct {
	// Name is the material identifier.
	Name string
	// BaseColor is the RGBA surface color. The alpha channel drives blending for True transparency.
	BaseColor [4]float32
	// AmbientFactor scales the base color for unlit contribution.
	AmbientFactor float32
	// DiffuseFactor scales the base color for the directional light contribution.
	DiffuseFactor float32
	// Transparency is the compositing class.
	Transparency Transparency
}

// material is the implementation of the Material interface.
type material struct {
	props Properties
}

// Material defines the interface for a render material: the shading state activated on the
// device before drawing primitives, and the transparency class deciding whether those
// primitives are batched statically or ordered every frame.
//
// Materials are compared by value through Equal, never by identity.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// BaseColor retrieves the RGBA color of the material.
	//
	// Returns:
	//   - [4]float32: the base color as RGBA values
	BaseColor() [4]float32

	// AmbientFactor retrieves the ambient light multiplier.
	//
	// Returns:
	//   - float32: the ambient factor
	AmbientFactor() float32

	// DiffuseFactor retrieves the diffuse light multiplier.
	//
	// Returns:
	//   - float32: the diffuse factor
	DiffuseFactor() float32

	// Transparency retrieves the compositing class of the material.
	//
	// Returns:
	//   - Transparency: the transparency class
	Transparency() Transparency

	// IsTransparent reports whether primitives of this material need back-to-front ordering.
	//
	// Returns:
	//   - bool: true only for True transparency
	IsTransparent() bool

	// Properties retrieves the full comparable shading state.
	//
	// Returns:
	//   - Properties: a copy of the material's state
	Properties() Properties
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		props: Properties{
			BaseColor:     [4]float32{1, 1, 1, 1},
			AmbientFactor: 0.5,
			DiffuseFactor: 0.5,
		},
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.props.Name
}

func (m *material) BaseColor() [4]float32 {
	return m.props.BaseColor
}

func (m *material) AmbientFactor() float32 {
	return m.props.AmbientFactor
}

func (m *material) DiffuseFactor() float32 {
	return m.props.DiffuseFactor
}

func (m *material) Transparency() Transparency {
	return m.props.Transparency
}

func (m *material) IsTransparent() bool {
	return m.props.Transparency == True
}

func (m *material) Properties() Properties {
	return m.props
}

// Equal reports whether two materials describe the same shading state.
// Two nil materials are equal; a nil and a non-nil material are not.
//
// Parameters:
//   - a: the first material
//   - b: the second material
//
// Returns:
//   - bool: true if both materials have equal Properties
func Equal(a, b Material) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Properties() == b.Properties()
}
