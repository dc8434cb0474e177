package voxel

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Direction represents one of the six cube face directions
type Direction int

const (
	Up    Direction = iota // +Y
	Down                   // -Y
	North                  // +Z
	South                  // -Z
	East                   // +X
	West                   // -X
)

// Directions lists every direction in declaration order
var Directions = [6]Direction{Up, Down, North, South, East, West}

var directionNames = [6]string{"up", "down", "north", "south", "east", "west"}

var directionVectors = [6][3]int{
	Up:    {0, 1, 0},
	Down:  {0, -1, 0},
	North: {0, 0, 1},
	South: {0, 0, -1},
	East:  {1, 0, 0},
	West:  {-1, 0, 0},
}

// String returns the asset-format name of the direction
func (d Direction) String() string {
	if d < Up || d > West {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// ParseDirection parses an asset-format direction name
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	// "bottom" is accepted as an alias of "down" by the asset format.
	if s == "bottom" {
		return Down, nil
	}
	return 0, fmt.Errorf("unknown direction %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so directions can be JSON map keys
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Vector returns the integer unit vector for a direction
func (d Direction) Vector() [3]int {
	return directionVectors[d]
}

// DirectionVector returns the unit vector for a direction
func (d Direction) DirectionVector() mgl32.Vec3 {
	v := directionVectors[d]
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

// Opposite returns the direction pointing the other way
func (d Direction) Opposite() Direction {
	return d ^ 1
}

// FromVector snaps an integer vector back to a direction. It fails unless the vector is
// one of the six unit vectors.
func FromVector(v [3]int) (Direction, bool) {
	for i, dv := range directionVectors {
		if dv == v {
			return Direction(i), true
		}
	}
	return 0, false
}

// Brightness returns the flat shading multiplier applied to faces looking this way
func (d Direction) Brightness() float32 {
	switch d {
	case Up:
		return 1.0
	case North, South:
		return 0.8
	case East, West:
		return 0.6
	case Down:
		return 0.5
	default:
		return 1.0
	}
}
