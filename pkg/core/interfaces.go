package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// ObstacleProvider exposes the read-only view of a scene the tracer needs.
// Implementations must not change while a render is in flight.
type ObstacleProvider interface {
	// Spheres and Planes list the obstacles present, in tracing order
	Spheres() []SphereID
	Planes() []PlaneID

	SpherePos(id SphereID) Point
	SphereRadius(id SphereID) Real

	PlaneAxis(id PlaneID) Axis
	PlaneOffset(id PlaneID) Real
	PlaneNormal(id PlaneID) Vector

	ObstacleColor(o Obstacle) Color
	ObstacleReflectance(o Obstacle) Real

	// AmbientColor is applied to light that escapes after the last bounce
	AmbientColor() Color
}
