package scene

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rayten/rayten/pkg/core"
)

func TestParseOverridesBase(t *testing.T) {
	s, err := Parse([]byte(`
name: bright
base: arena
ambient: [0.5, 0.5, 0.5]
samples: 8
spheres:
  ball:
    color: [1, 0, 0]
    reflectance: 0.9
  far_paddle:
    enabled: false
planes:
  far:
    offset: -20
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if s.Name != "bright" {
		t.Errorf("Name = %q, want bright", s.Name)
	}
	if s.AmbientColor() != core.NewColor(0.5, 0.5, 0.5) {
		t.Errorf("unexpected ambient %v", s.AmbientColor())
	}
	if s.SamplingConfig.SamplesPerPixel != 8 || s.SamplingConfig.MaxDepth != 5 {
		t.Errorf("unexpected sampling config %+v", s.SamplingConfig)
	}
	if got := s.ObstacleColor(core.SphereObstacle(core.Ball)); got != core.NewColor(1, 0, 0) {
		t.Errorf("ball color = %v", got)
	}
	if got := s.ObstacleReflectance(core.SphereObstacle(core.Ball)); got != 0.9 {
		t.Errorf("ball reflectance = %v", got)
	}
	// Untouched fields come from the base
	if got := s.SphereRadius(core.Ball); got != 0.5 {
		t.Errorf("ball radius = %v, want the base 0.5", got)
	}
	if s.HasSphere(core.FarPaddle) {
		t.Error("far paddle should have been removed")
	}
	if len(s.Spheres()) != 2 {
		t.Errorf("Expected 2 spheres, got %v", s.Spheres())
	}
	if got := s.PlaneOffset(core.Far); got != -20 {
		t.Errorf("far offset = %v, want -20", got)
	}
	if got := s.ObstacleReflectance(core.PlaneObstacle(core.Far)); got != 0.3 {
		t.Errorf("far reflectance = %v, want the base 0.3", got)
	}
}

func TestParseAddsObstacleMissingFromBase(t *testing.T) {
	s, err := Parse([]byte(`
base: room
spheres:
  near_paddle:
    position: [0, 0, -6]
    radius: 1
`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	want := []core.SphereID{core.Ball, core.NearPaddle}
	got := s.Spheres()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Spheres() = %v, want %v", got, want)
	}
}

func TestParseValidation(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		field   string
	}{
		{"reflectance above one", "spheres:\n  ball:\n    reflectance: 1.5\n", "spheres.ball.reflectance"},
		{"negative reflectance", "planes:\n  top:\n    reflectance: -0.1\n", "planes.top.reflectance"},
		{"zero radius", "spheres:\n  ball:\n    radius: 0\n", "spheres.ball.radius"},
		{"short color", "planes:\n  left:\n    color: [1, 0]\n", "planes.left.color"},
		{"negative color", "spheres:\n  ball:\n    color: [1, -1, 0]\n", "spheres.ball.color"},
		{"unknown sphere", "spheres:\n  puck:\n    radius: 1\n", "spheres.puck"},
		{"unknown plane", "planes:\n  ceiling:\n    offset: 1\n", "planes.ceiling"},
		{"incomplete new sphere", "base: room\nspheres:\n  far_paddle:\n    radius: 1\n", "spheres.far_paddle"},
		{"bad ambient", "ambient: [1, 1]\n", "ambient"},
		{"negative samples", "samples: -1\n", "samples"},
		{"nan reflectance", "spheres:\n  ball:\n    reflectance: .nan\n", "spheres.ball.reflectance"},
		{"nan radius", "spheres:\n  ball:\n    radius: .nan\n", "spheres.ball.radius"},
		{"infinite radius", "spheres:\n  ball:\n    radius: .inf\n", "spheres.ball.radius"},
		{"nan color", "planes:\n  top:\n    color: [.nan, 0, 0]\n", "planes.top.color"},
		{"nan position", "spheres:\n  ball:\n    position: [0, .nan, -4]\n", "spheres.ball.position"},
		{"infinite offset", "planes:\n  far:\n    offset: -.inf\n", "planes.far.offset"},
		{"nan ambient", "ambient: [1, .nan, 1]\n", "ambient"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.content))
			if err == nil {
				t.Fatal("Expected a validation error")
			}
			if !errors.Is(err, ErrInvalidScene) {
				t.Errorf("Expected ErrInvalidScene, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Errorf("Error %q does not name field %q", err, tc.field)
			}
		})
	}
}

func TestParseRejectsUnknownBaseAndFields(t *testing.T) {
	if _, err := Parse([]byte("base: castle\n")); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
	if _, err := Parse([]byte("colour: [1, 1, 1]\n")); err == nil {
		t.Error("Expected an error for an unknown field")
	}
}

func TestLoadFileAndCreate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dim-room.yaml")
	if err := os.WriteFile(path, []byte("base: room\nambient: [0.1, 0.1, 0.1]\n"), 0644); err != nil {
		t.Fatalf("Failed to write scene: %v", err)
	}

	s, err := Create(path)
	if err != nil {
		t.Fatalf("Create(%q) error: %v", path, err)
	}
	if s.Name != "dim-room" {
		t.Errorf("Name = %q, want the file name", s.Name)
	}
	if s.AmbientColor() != core.NewColor(0.1, 0.1, 0.1) {
		t.Errorf("unexpected ambient %v", s.AmbientColor())
	}

	if _, err := Create(filepath.Join(dir, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Expected a wrapped not-exist error, got %v", err)
	}
	if _, err := Create("castle"); !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got %v", err)
	}
}

func TestBundledSceneFilesLoad(t *testing.T) {
	files, err := filepath.Glob(filepath.Join("..", "..", "scenes", "*.yaml"))
	if err != nil {
		t.Fatalf("Glob error: %v", err)
	}
	for _, file := range files {
		if _, err := LoadFile(file); err != nil {
			t.Errorf("LoadFile(%s) error: %v", file, err)
		}
	}
}
