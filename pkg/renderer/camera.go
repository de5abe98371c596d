package renderer

import (
	"github.com/rayten/rayten/pkg/core"
)

// CameraConfig describes a pinhole camera looking down -Z
type CameraConfig struct {
	Origin        core.Point // Eye position; X/Y may later be moved with MoveOriginTo
	AspectRatio   core.Real  // Viewport width / height
	ViewportWidth core.Real  // Viewport width at distance 1 from the eye
}

// DefaultCameraConfig returns the camera used by the original demo
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:        core.NewPoint(1, -1, 0),
		AspectRatio:   16.0 / 9.0,
		ViewportWidth: 2,
	}
}

// Camera generates ray batches for normalized pixel coordinates
type Camera struct {
	origin core.Point
	base   core.Point  // Direction to the top-left corner of the viewport
	xAxis  core.Vector // Spans the viewport left to right
	yAxis  core.Vector // Spans the viewport top to bottom
}

// NewCamera creates a camera from its configuration
func NewCamera(config CameraConfig) *Camera {
	viewportWidth := config.ViewportWidth
	viewportHeight := viewportWidth / config.AspectRatio

	return &Camera{
		origin: config.Origin,
		base:   core.NewPoint(-viewportWidth/2, viewportHeight/2, -1),
		xAxis:  core.NewPoint(viewportWidth, 0, 0),
		yAxis:  core.NewPoint(0, -viewportHeight, 0),
	}
}

// PixelRays returns one ray per lane for offsets in [0,1) of the image.
// The origin is shared by every lane and directions are not normalized.
func (c *Camera) PixelRays(xOffsets, yOffsets core.Reals) core.Rays {
	dirs := core.FromPoint(c.base)
	dirs = dirs.Add(core.FromPoint(c.xAxis).MulReals(xOffsets))
	dirs = dirs.Add(core.FromPoint(c.yAxis).MulReals(yOffsets))
	return core.NewRays(core.FromPoint(c.origin), dirs)
}

// MoveOriginTo moves the eye within its plane; Z is fixed
func (c *Camera) MoveOriginTo(x, y core.Real) {
	c.origin[0] = x
	c.origin[1] = y
}

// Origin returns the current eye position
func (c *Camera) Origin() core.Point {
	return c.origin
}
