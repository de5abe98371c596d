package core

import "fmt"

// SphereID names one of the fixed spheres of a scene
type SphereID int

const (
	Ball SphereID = iota
	NearPaddle
	FarPaddle

	SphereCount = int(FarPaddle) + 1
)

var sphereNames = [SphereCount]string{"ball", "near_paddle", "far_paddle"}

func (s SphereID) String() string {
	if s < 0 || int(s) >= SphereCount {
		return fmt.Sprintf("sphere(%d)", int(s))
	}
	return sphereNames[s]
}

// PlaneID names one of the six axis-aligned boundaries of a scene
type PlaneID int

const (
	Top PlaneID = iota
	Bottom
	Left
	Right
	Far
	Near

	PlaneCount = int(Near) + 1
)

var planeNames = [PlaneCount]string{"top", "bottom", "left", "right", "far", "near"}

func (p PlaneID) String() string {
	if p < 0 || int(p) >= PlaneCount {
		return fmt.Sprintf("plane(%d)", int(p))
	}
	return planeNames[p]
}

// Axis returns the coordinate the plane is perpendicular to
func (p PlaneID) Axis() Axis {
	switch p {
	case Top, Bottom:
		return AxisY
	case Left, Right:
		return AxisX
	default:
		return AxisZ
	}
}

// Normal returns the fixed unit normal of the plane, pointing into the scene
func (p PlaneID) Normal() Vector {
	switch p {
	case Top:
		return NewPoint(0, -1, 0)
	case Bottom:
		return NewPoint(0, 1, 0)
	case Left:
		return NewPoint(1, 0, 0)
	case Right:
		return NewPoint(-1, 0, 0)
	case Far:
		return NewPoint(0, 0, 1)
	default:
		return NewPoint(0, 0, -1)
	}
}

// SphereByName resolves a sphere from its String form
func SphereByName(name string) (SphereID, bool) {
	for i, n := range sphereNames {
		if n == name {
			return SphereID(i), true
		}
	}
	return 0, false
}

// PlaneByName resolves a plane from its String form
func PlaneByName(name string) (PlaneID, bool) {
	for i, n := range planeNames {
		if n == name {
			return PlaneID(i), true
		}
	}
	return 0, false
}

// ObstacleKind tags the Obstacle union
type ObstacleKind int

const (
	KindSphere ObstacleKind = iota
	KindPlane
)

// Obstacle identifies either a sphere or a plane
type Obstacle struct {
	Kind   ObstacleKind
	Sphere SphereID
	Plane  PlaneID
}

// SphereObstacle wraps a sphere id
func SphereObstacle(id SphereID) Obstacle {
	return Obstacle{Kind: KindSphere, Sphere: id}
}

// PlaneObstacle wraps a plane id
func PlaneObstacle(id PlaneID) Obstacle {
	return Obstacle{Kind: KindPlane, Plane: id}
}

func (o Obstacle) String() string {
	if o.Kind == KindSphere {
		return "sphere:" + o.Sphere.String()
	}
	return "plane:" + o.Plane.String()
}
