package scene

import (
	"github.com/rayten/rayten/pkg/core"
)

// Sphere holds the attributes of one sphere
type Sphere struct {
	Position    core.Point
	Radius      core.Real
	Color       core.Color
	Reflectance core.Real // 0 absorbs, 1 is a perfect mirror
}

// Plane holds the attributes of one axis-aligned boundary. Its axis and
// normal are fixed by its PlaneID.
type Plane struct {
	Offset      core.Real // Coordinate along the plane's axis
	Color       core.Color
	Reflectance core.Real
}

// SamplingConfig contains the render settings a scene was tuned for
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// Motion describes how the scene animates between frames
type Motion struct {
	BallVelocity core.Vector // Ball displacement per frame
	FollowPaddle bool        // Camera tracks the near paddle's X/Y when present
}

// Scene is a fixed registry of spheres and planes indexed by their ids.
// Obstacles may only be moved, never added or removed, once built.
type Scene struct {
	Name           string
	CameraOrigin   core.Point
	SamplingConfig SamplingConfig
	Motion         Motion

	spheres   [core.SphereCount]Sphere
	planes    [core.PlaneCount]Plane
	sphereIDs []core.SphereID
	planeIDs  []core.PlaneID
	ambient   core.Color
}

// builder collects obstacles before a Scene is frozen
type builder struct {
	scene *Scene
}

func newBuilder(name string) *builder {
	return &builder{scene: &Scene{
		Name:    name,
		ambient: core.NewColor(1, 1, 1),
	}}
}

func (b *builder) sphere(id core.SphereID, s Sphere) *builder {
	if !b.scene.HasSphere(id) {
		b.scene.sphereIDs = append(b.scene.sphereIDs, id)
	}
	b.scene.spheres[id] = s
	return b
}

func (b *builder) plane(id core.PlaneID, p Plane) *builder {
	if !b.scene.HasPlane(id) {
		b.scene.planeIDs = append(b.scene.planeIDs, id)
	}
	b.scene.planes[id] = p
	return b
}

// build returns the scene with obstacles in canonical id order
func (b *builder) build() *Scene {
	s := b.scene
	s.sphereIDs = sortedSpheres(s.sphereIDs)
	s.planeIDs = sortedPlanes(s.planeIDs)
	return s
}

func sortedSpheres(ids []core.SphereID) []core.SphereID {
	var out []core.SphereID
	for i := 0; i < core.SphereCount; i++ {
		for _, id := range ids {
			if id == core.SphereID(i) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

func sortedPlanes(ids []core.PlaneID) []core.PlaneID {
	var out []core.PlaneID
	for i := 0; i < core.PlaneCount; i++ {
		for _, id := range ids {
			if id == core.PlaneID(i) {
				out = append(out, id)
				break
			}
		}
	}
	return out
}

// Spheres returns the spheres present, in tracing order
func (s *Scene) Spheres() []core.SphereID { return s.sphereIDs }

// Planes returns the planes present, in tracing order
func (s *Scene) Planes() []core.PlaneID { return s.planeIDs }

func (s *Scene) SpherePos(id core.SphereID) core.Point   { return s.spheres[id].Position }
func (s *Scene) SphereRadius(id core.SphereID) core.Real { return s.spheres[id].Radius }
func (s *Scene) PlaneAxis(id core.PlaneID) core.Axis     { return id.Axis() }
func (s *Scene) PlaneOffset(id core.PlaneID) core.Real   { return s.planes[id].Offset }
func (s *Scene) PlaneNormal(id core.PlaneID) core.Vector { return id.Normal() }
func (s *Scene) AmbientColor() core.Color                { return s.ambient }

// ObstacleColor returns the base color of a sphere or plane
func (s *Scene) ObstacleColor(o core.Obstacle) core.Color {
	if o.Kind == core.KindSphere {
		return s.spheres[o.Sphere].Color
	}
	return s.planes[o.Plane].Color
}

// ObstacleReflectance returns the configured reflectance of a sphere or plane
func (s *Scene) ObstacleReflectance(o core.Obstacle) core.Real {
	if o.Kind == core.KindSphere {
		return s.spheres[o.Sphere].Reflectance
	}
	return s.planes[o.Plane].Reflectance
}

// MoveSphereTo overwrites a sphere's position. No bounds are checked.
func (s *Scene) MoveSphereTo(id core.SphereID, position core.Point) {
	s.spheres[id].Position = position
}

// HasSphere reports whether the sphere is part of the scene
func (s *Scene) HasSphere(id core.SphereID) bool {
	for _, present := range s.sphereIDs {
		if present == id {
			return true
		}
	}
	return false
}

// HasPlane reports whether the plane is part of the scene
func (s *Scene) HasPlane(id core.PlaneID) bool {
	for _, present := range s.planeIDs {
		if present == id {
			return true
		}
	}
	return false
}

// Sphere returns a copy of a sphere's attributes
func (s *Scene) Sphere(id core.SphereID) (Sphere, bool) {
	return s.spheres[id], s.HasSphere(id)
}

// Plane returns a copy of a plane's attributes
func (s *Scene) Plane(id core.PlaneID) (Plane, bool) {
	return s.planes[id], s.HasPlane(id)
}

// Clone returns an independent copy, so one preset can be animated
// without touching another
func (s *Scene) Clone() *Scene {
	c := *s
	c.sphereIDs = append([]core.SphereID(nil), s.sphereIDs...)
	c.planeIDs = append([]core.PlaneID(nil), s.planeIDs...)
	return &c
}

// Step advances the scene's animation by one frame and returns the
// camera origin for that frame
func (s *Scene) Step() core.Point {
	if s.HasSphere(core.Ball) {
		s.MoveSphereTo(core.Ball, s.SpherePos(core.Ball).Add(s.Motion.BallVelocity))
	}
	return s.CameraPosition()
}

// CameraPosition returns where the camera should sit for the current state
func (s *Scene) CameraPosition() core.Point {
	origin := s.CameraOrigin
	if s.Motion.FollowPaddle && s.HasSphere(core.NearPaddle) {
		paddle := s.SpherePos(core.NearPaddle)
		origin[0] = paddle.X()
		origin[1] = paddle.Y()
	}
	return origin
}
