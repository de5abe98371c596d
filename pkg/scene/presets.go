package scene

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rayten/rayten/pkg/core"
)

// builtinScenes maps preset names to their constructors
var builtinScenes = map[string]func() *Scene{
	"arena": NewArenaScene,
	"room":  NewRoomScene,
}

// NewArenaScene creates the Pong arena: six reflective walls, the ball, and
// two large paddle spheres whose caps poke through the near and far walls
func NewArenaScene() *Scene {
	s := newBuilder("arena").
		sphere(core.Ball, Sphere{
			Position:    core.NewPoint(-2, -1, -6),
			Radius:      0.5,
			Color:       core.NewColor(0.1, 0.1, 0.1),
			Reflectance: 0.5,
		}).
		sphere(core.NearPaddle, Sphere{
			Position:    core.NewPoint(0, 0, 3.9),
			Radius:      4,
			Color:       core.NewColor(1, 1, 1),
			Reflectance: 0,
		}).
		sphere(core.FarPaddle, Sphere{
			Position:    core.NewPoint(0, 0, -19.9),
			Radius:      4,
			Color:       core.NewColor(0, 0, 0),
			Reflectance: 0,
		}).
		plane(core.Top, Plane{Offset: 2, Color: core.NewColor(0.8, 0.8, 0.1), Reflectance: 0.3}).
		plane(core.Bottom, Plane{Offset: -2, Color: core.NewColor(0.1, 0.8, 0.8), Reflectance: 0.3}).
		plane(core.Left, Plane{Offset: -4, Color: core.NewColor(0.8, 0.1, 0.8), Reflectance: 0.3}).
		plane(core.Right, Plane{Offset: 4, Color: core.NewColor(0.8, 0.1, 0.1), Reflectance: 0.3}).
		plane(core.Far, Plane{Offset: -16, Color: core.NewColor(0.1, 0.1, 0.8), Reflectance: 0.3}).
		plane(core.Near, Plane{Offset: 0, Color: core.NewColor(0.1, 0.8, 0.1), Reflectance: 0.3}).
		build()

	s.CameraOrigin = core.NewPoint(0, 0, 0)
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 1, MaxDepth: 5}
	s.Motion = Motion{BallVelocity: core.NewPoint(0.05, 0.05, 0.07), FollowPaddle: true}
	return s
}

// NewRoomScene creates the single-ball room the arena grew out of
func NewRoomScene() *Scene {
	s := newBuilder("room").
		sphere(core.Ball, Sphere{
			Position:    core.NewPoint(-1, 0.7, -4),
			Radius:      0.5,
			Color:       core.NewColor(0.5, 0.5, 0.5),
			Reflectance: 0.5,
		}).
		plane(core.Top, Plane{Offset: 2, Color: core.NewColor(0.5, 0.5, 0), Reflectance: 0.5}).
		plane(core.Bottom, Plane{Offset: -2, Color: core.NewColor(0, 0.5, 0.5), Reflectance: 0.5}).
		plane(core.Left, Plane{Offset: -2, Color: core.NewColor(0.5, 0, 0.5), Reflectance: 0.5}).
		plane(core.Right, Plane{Offset: 2, Color: core.NewColor(0.5, 0, 0), Reflectance: 0.5}).
		plane(core.Far, Plane{Offset: -8, Color: core.NewColor(0, 0, 0.5), Reflectance: 0.5}).
		plane(core.Near, Plane{Offset: 0, Color: core.NewColor(0, 0.5, 0), Reflectance: 0.5}).
		build()

	s.CameraOrigin = core.NewPoint(1, -1, 0)
	s.SamplingConfig = SamplingConfig{SamplesPerPixel: 4, MaxDepth: 5}
	s.Motion = Motion{BallVelocity: core.NewPoint(0.05, 0.05, 0.07)}
	return s
}

// Names returns the built-in preset names in sorted order
func Names() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Create returns a fresh scene for a built-in preset name or a YAML file path
func Create(name string) (*Scene, error) {
	if isSceneFile(name) {
		s, err := LoadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to load scene file: %w", err)
		}
		return s, nil
	}

	constructor, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownScene, name, strings.Join(Names(), ", "))
	}
	return constructor(), nil
}

func isSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}
