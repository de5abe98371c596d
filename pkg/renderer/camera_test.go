package renderer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/rayten/rayten/pkg/core"
)

func approxEqual(a, b core.Real) bool {
	return math32.Abs(a-b) < 1e-5
}

func TestCameraPixelRaysCorners(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Origin:        core.NewPoint(0, 0, 0),
		AspectRatio:   2,
		ViewportWidth: 4,
	})

	tests := []struct {
		name string
		x, y core.Real
		want core.Vector
	}{
		{"top left", 0, 0, core.NewPoint(-2, 1, -1)},
		{"center", 0.5, 0.5, core.NewPoint(0, 0, -1)},
		{"bottom right", 1, 1, core.NewPoint(2, -1, -1)},
		{"top right", 1, 0, core.NewPoint(2, 1, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rays := camera.PixelRays(core.SplatReals(tt.x), core.SplatReals(tt.y))
			for lane := 0; lane < core.Lanes; lane++ {
				got := rays.Dirs.Lane(lane)
				for axis := 0; axis < 3; axis++ {
					if !approxEqual(got[axis], tt.want[axis]) {
						t.Fatalf("lane %d: expected direction %v, got %v", lane, tt.want, got)
					}
				}
				if rays.Origins.Lane(lane) != camera.Origin() {
					t.Fatalf("lane %d: origin should be broadcast, got %v", lane, rays.Origins.Lane(lane))
				}
			}
		})
	}
}

func TestCameraPixelRaysPerLane(t *testing.T) {
	camera := NewCamera(DefaultCameraConfig())
	xs := core.LaneIndices().Scale(1.0 / core.Lanes)
	rays := camera.PixelRays(xs, core.Zeros)

	for lane := 1; lane < core.Lanes; lane++ {
		if rays.Dirs.XS[lane] <= rays.Dirs.XS[lane-1] {
			t.Errorf("lane %d: expected directions to sweep left to right, got %v after %v",
				lane, rays.Dirs.XS[lane], rays.Dirs.XS[lane-1])
		}
		if rays.Dirs.YS[lane] != rays.Dirs.YS[0] || rays.Dirs.ZS[lane] != -1 {
			t.Errorf("lane %d: unexpected direction %v", lane, rays.Dirs.Lane(lane))
		}
	}
}

func TestCameraMoveOriginTo(t *testing.T) {
	camera := NewCamera(CameraConfig{
		Origin:        core.NewPoint(1, -1, 3),
		AspectRatio:   1,
		ViewportWidth: 2,
	})
	before := camera.PixelRays(core.Zeros, core.Zeros)

	camera.MoveOriginTo(0.25, 0.75)

	if got := camera.Origin(); got != core.NewPoint(0.25, 0.75, 3) {
		t.Errorf("Expected origin (0.25, 0.75, 3), got %v", got)
	}
	after := camera.PixelRays(core.Zeros, core.Zeros)
	if before.Dirs != after.Dirs {
		t.Error("moving the origin should not change ray directions")
	}
}
