package renderer

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/chewxy/math32"
)

// DefaultCardinalEpsilon is the largest distance, in radians, between a horizontal view
// angle and a multiple of 90 degrees for the view to count as axis aligned.
const DefaultCardinalEpsilon float32 = 0.01

// CardinalDirection is a horizontal compass direction, or None.
// North is +Z and East is +X.
type CardinalDirection uint8

const (
	// None means the last ordering was a full distance sort.
	None CardinalDirection = iota
	North
	East
	South
	West
)

var cardinalNames = [...]string{
	None:  "none",
	North: "N",
	East:  "E",
	South: "S",
	West:  "W",
}

func (d CardinalDirection) String() string {
	if int(d) < len(cardinalNames) {
		return cardinalNames[d]
	}
	return fmt.Sprintf("CardinalDirection(%d)", d)
}

// Opposite returns the direction pointing the other way. None has no opposite and returns None.
func (d CardinalDirection) Opposite() CardinalDirection {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	case West:
		return East
	}
	return None
}

// IsOppositeOf reports whether d points the other way from o. None is opposite to nothing.
func (d CardinalDirection) IsOppositeOf(o CardinalDirection) bool {
	return d != None && o != None && d.Opposite() == o
}

// Heading returns the horizontal angle of the direction, measured like common.HorizontalAngle.
// None yields 0.
func (d CardinalDirection) Heading() float32 {
	if d == None {
		return 0
	}
	return float32(d-North) * math32.Pi / 2
}

// ClosestCardinal maps a horizontal angle, as returned by common.HorizontalAngle,
// to the nearest compass direction.
//
// Parameters:
//   - angle: horizontal angle in radians; any real value is accepted
//
// Returns:
//   - CardinalDirection: North, East, South or West
func ClosestCardinal(angle float32) CardinalDirection {
	quadrant := int(math32.Round(angle/(math32.Pi/2))) % 4
	if quadrant < 0 {
		quadrant += 4
	}
	return North + CardinalDirection(quadrant)
}

// IsAxisAligned reports whether angle lies within epsilon of a multiple of 90 degrees,
// on either side.
//
// Parameters:
//   - angle: horizontal angle in radians
//   - epsilon: tolerance in radians
//
// Returns:
//   - bool: true if the angle is close to a cardinal direction
func IsAxisAligned(angle, epsilon float32) bool {
	return math32.Abs(math32.Remainder(angle, math32.Pi/2)) < epsilon
}

// cardinalAxes holds, per direction, the axis of the centroid used as sort key and the sign
// that makes ascending keys run back to front.
var cardinalAxes = [...]struct {
	useX bool
	sign float32
}{
	North: {useX: false, sign: -1}, // descending Z
	East:  {useX: true, sign: -1},  // descending X
	South: {useX: false, sign: 1},  // ascending Z
	West:  {useX: true, sign: 1},   // ascending X
}

// SortKey returns the key ordering a centroid for a view along dir. Sorting keys in
// ascending order yields back-to-front order. None has no axis and yields 0.
//
// Parameters:
//   - dir: the view direction
//   - centroid: the primitive's centroid
//
// Returns:
//   - float32: the sort key
func SortKey(dir CardinalDirection, centroid common.Vec3) float32 {
	if dir == None || int(dir) >= len(cardinalAxes) {
		return 0
	}
	axis := cardinalAxes[dir]
	if axis.useX {
		return axis.sign * centroid.X
	}
	return axis.sign * centroid.Z
}
