package renderer

import (
	"github.com/rayten/rayten/pkg/core"
)

// InspectResult describes the first obstacle seen through a point of the image
type InspectResult struct {
	Hit         bool
	Obstacle    core.Obstacle
	Point       core.Point
	Normal      core.Vector
	Distance    core.Real // In units of the unnormalized camera ray
	Color       core.Color
	Reflectance core.Real // 0 on an absorbing checker cell
	Radiance    core.Color
	Bounces     int
}

// Inspect casts the camera ray through the normalized image point (u, v)
// and reports the closest obstacle plus the traced radiance of that ray
func Inspect(provider core.ObstacleProvider, camera *Camera, u, v core.Real, maxDepth int) InspectResult {
	table := compileObstacles(provider)
	rays := camera.PixelRays(core.SplatReals(u), core.SplatReals(v))

	p := newRaysProjections(rays, maxDepth)
	p.beginIteration()

	var result InspectResult
	for i := range table.spheres {
		before := p.minToi[0]
		p.withSphere(&table.spheres[i])
		if p.minToi[0] < before {
			result.Obstacle = table.spheres[i].id
		}
	}
	for i := range table.planes {
		before := p.minToi[0]
		p.withAxisAlignedPlane(&table.planes[i])
		if p.minToi[0] < before {
			result.Obstacle = table.planes[i].id
		}
	}

	radiance, bounces := table.trace(rays, maxDepth)
	result.Radiance = radiance.Lane(0)
	result.Bounces = bounces

	if p.minToi[0] >= core.MaxReal {
		return result
	}

	result.Hit = true
	result.Distance = p.minToi[0]
	result.Point = rays.At(p.minToi).Lane(0)
	result.Normal = p.normals.Lane(0)
	result.Color = p.colors.Lane(0)
	result.Reflectance = p.reflectances[0]
	return result
}
