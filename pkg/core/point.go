package core

import "github.com/go-gl/mathgl/mgl32"

// Point is a single 3D position
type Point = mgl32.Vec3

// Vector is a single 3D direction
type Vector = mgl32.Vec3

// Color is a single linear RGB color
type Color = mgl32.Vec3

// NewPoint creates a scalar point
func NewPoint(x, y, z Real) Point {
	return mgl32.Vec3{x, y, z}
}

// NewColor creates a scalar color
func NewColor(r, g, b Real) Color {
	return mgl32.Vec3{r, g, b}
}

// Axis identifies one coordinate of a point
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return "unknown"
	}
}

// Coord returns the coordinate of p along a
func Coord(p Point, a Axis) Real {
	return p[a]
}

// WithCoord returns p with the coordinate along a replaced
func WithCoord(p Point, a Axis, v Real) Point {
	p[a] = v
	return p
}
