package scene

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chewxy/math32"
	"github.com/rayten/rayten/pkg/core"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownScene is returned for a preset name that is not built in
	ErrUnknownScene = errors.New("unknown scene")
	// ErrInvalidScene is returned when a scene file fails validation
	ErrInvalidScene = errors.New("invalid scene")
)

// FileConfig is the YAML form of a scene: a built-in base preset plus
// overrides (e.g. scenes/night-arena.yaml)
type FileConfig struct {
	Name        string                    `yaml:"name"`
	Description string                    `yaml:"description,omitempty"`
	Group       string                    `yaml:"group,omitempty"`
	Base        string                    `yaml:"base"`
	Ambient     []float32                 `yaml:"ambient,omitempty"`
	Camera      []float32                 `yaml:"camera,omitempty"`
	Samples     int                       `yaml:"samples,omitempty"`
	MaxDepth    int                       `yaml:"max_depth,omitempty"`
	Spheres     map[string]SphereOverride `yaml:"spheres,omitempty"`
	Planes      map[string]PlaneOverride  `yaml:"planes,omitempty"`
}

// SphereOverride replaces the fields that are set; Enabled false removes the sphere
type SphereOverride struct {
	Enabled     *bool     `yaml:"enabled,omitempty"`
	Position    []float32 `yaml:"position,omitempty"`
	Radius      *float32  `yaml:"radius,omitempty"`
	Color       []float32 `yaml:"color,omitempty"`
	Reflectance *float32  `yaml:"reflectance,omitempty"`
}

// PlaneOverride replaces the fields that are set; Enabled false removes the plane
type PlaneOverride struct {
	Enabled     *bool     `yaml:"enabled,omitempty"`
	Offset      *float32  `yaml:"offset,omitempty"`
	Color       []float32 `yaml:"color,omitempty"`
	Reflectance *float32  `yaml:"reflectance,omitempty"`
}

// LoadFile reads and builds a YAML scene
func LoadFile(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	config, err := decodeConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if config.Name == "" {
		config.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse builds a scene from a YAML document
func Parse(data []byte) (*Scene, error) {
	config, err := decodeConfig(data)
	if err != nil {
		return nil, err
	}
	return config.Build()
}

func decodeConfig(data []byte) (FileConfig, error) {
	var config FileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return config, fmt.Errorf("failed to parse scene yaml: %w", err)
	}
	return config, nil
}

// Build applies the overrides to a fresh copy of the base preset
func (c FileConfig) Build() (*Scene, error) {
	base := c.Base
	if base == "" {
		base = "arena"
	}
	constructor, ok := builtinScenes[base]
	if !ok {
		return nil, fmt.Errorf("base: %w %q", ErrUnknownScene, base)
	}
	preset := constructor()

	b := &builder{scene: preset.Clone()}
	b.scene.sphereIDs = nil
	b.scene.planeIDs = nil
	if c.Name != "" {
		b.scene.Name = c.Name
	}

	if c.Ambient != nil {
		ambient, err := parseVec3("ambient", c.Ambient)
		if err != nil {
			return nil, err
		}
		if err := checkColor("ambient", ambient); err != nil {
			return nil, err
		}
		b.scene.ambient = ambient
	}
	if c.Camera != nil {
		camera, err := parseVec3("camera", c.Camera)
		if err != nil {
			return nil, err
		}
		b.scene.CameraOrigin = camera
	}
	if c.Samples < 0 {
		return nil, fmt.Errorf("samples: %w: must not be negative, got %d", ErrInvalidScene, c.Samples)
	}
	if c.Samples > 0 {
		b.scene.SamplingConfig.SamplesPerPixel = c.Samples
	}
	if c.MaxDepth < 0 {
		return nil, fmt.Errorf("max_depth: %w: must not be negative, got %d", ErrInvalidScene, c.MaxDepth)
	}
	if c.MaxDepth > 0 {
		b.scene.SamplingConfig.MaxDepth = c.MaxDepth
	}

	for _, name := range sortedKeys(c.Spheres) {
		if _, ok := core.SphereByName(name); !ok {
			return nil, fmt.Errorf("spheres.%s: %w: unknown sphere", name, ErrInvalidScene)
		}
	}
	for _, name := range sortedKeys(c.Planes) {
		if _, ok := core.PlaneByName(name); !ok {
			return nil, fmt.Errorf("planes.%s: %w: unknown plane", name, ErrInvalidScene)
		}
	}

	for i := 0; i < core.SphereCount; i++ {
		id := core.SphereID(i)
		sphere, present := preset.Sphere(id)
		override, overridden := c.Spheres[id.String()]
		if overridden {
			var err error
			sphere, present, err = override.apply(id.String(), sphere, present)
			if err != nil {
				return nil, err
			}
		}
		if present {
			b.sphere(id, sphere)
		}
	}

	for i := 0; i < core.PlaneCount; i++ {
		id := core.PlaneID(i)
		plane, present := preset.Plane(id)
		override, overridden := c.Planes[id.String()]
		if overridden {
			var err error
			plane, present, err = override.apply(id.String(), plane, present)
			if err != nil {
				return nil, err
			}
		}
		if present {
			b.plane(id, plane)
		}
	}

	return b.build(), nil
}

func (o SphereOverride) apply(name string, s Sphere, present bool) (Sphere, bool, error) {
	field := "spheres." + name
	added := !present
	present = o.Enabled == nil || *o.Enabled
	// A sphere the base lacks needs a full definition
	if present && added && (o.Position == nil || o.Radius == nil) {
		return s, false, fmt.Errorf("%s: %w: new sphere needs position and radius", field, ErrInvalidScene)
	}

	if o.Position != nil {
		pos, err := parseVec3(field+".position", o.Position)
		if err != nil {
			return s, false, err
		}
		s.Position = pos
	}
	if o.Radius != nil {
		if !(*o.Radius > 0) || math32.IsInf(*o.Radius, 1) {
			return s, false, fmt.Errorf("%s.radius: %w: must be positive, got %v", field, ErrInvalidScene, *o.Radius)
		}
		s.Radius = *o.Radius
	}
	if o.Color != nil {
		color, err := parseVec3(field+".color", o.Color)
		if err != nil {
			return s, false, err
		}
		if err := checkColor(field+".color", color); err != nil {
			return s, false, err
		}
		s.Color = color
	}
	if o.Reflectance != nil {
		if err := checkReflectance(field+".reflectance", *o.Reflectance); err != nil {
			return s, false, err
		}
		s.Reflectance = *o.Reflectance
	}
	return s, present, nil
}

func (o PlaneOverride) apply(name string, p Plane, present bool) (Plane, bool, error) {
	field := "planes." + name
	added := !present
	present = o.Enabled == nil || *o.Enabled
	if present && added && o.Offset == nil {
		return p, false, fmt.Errorf("%s: %w: new plane needs an offset", field, ErrInvalidScene)
	}

	if o.Offset != nil {
		if !isFinite(*o.Offset) {
			return p, false, fmt.Errorf("%s.offset: %w: must be finite, got %v", field, ErrInvalidScene, *o.Offset)
		}
		p.Offset = *o.Offset
	}
	if o.Color != nil {
		color, err := parseVec3(field+".color", o.Color)
		if err != nil {
			return p, false, err
		}
		if err := checkColor(field+".color", color); err != nil {
			return p, false, err
		}
		p.Color = color
	}
	if o.Reflectance != nil {
		if err := checkReflectance(field+".reflectance", *o.Reflectance); err != nil {
			return p, false, err
		}
		p.Reflectance = *o.Reflectance
	}
	return p, present, nil
}

func parseVec3(field string, values []float32) (core.Point, error) {
	if len(values) != 3 {
		return core.Point{}, fmt.Errorf("%s: %w: expected 3 components, got %d", field, ErrInvalidScene, len(values))
	}
	for _, v := range values {
		if !isFinite(v) {
			return core.Point{}, fmt.Errorf("%s: %w: components must be finite, got %v", field, ErrInvalidScene, values)
		}
	}
	return core.NewPoint(values[0], values[1], values[2]), nil
}

func checkColor(field string, c core.Color) error {
	for _, v := range c {
		if !(v >= 0) {
			return fmt.Errorf("%s: %w: components must not be negative, got %v", field, ErrInvalidScene, c)
		}
	}
	return nil
}

func checkReflectance(field string, r core.Real) error {
	// Written so that NaN fails
	if !(r >= 0 && r <= 1) {
		return fmt.Errorf("%s: %w: must be within [0, 1], got %v", field, ErrInvalidScene, r)
	}
	return nil
}

func isFinite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
