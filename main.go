package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rayten/rayten/pkg/core"
	"github.com/rayten/rayten/pkg/renderer"
	"github.com/rayten/rayten/pkg/scene"
)

// Config holds the command line options
type Config struct {
	SceneType  string
	Width      int
	Height     int
	Samples    int // 0 uses the scene's setting
	MaxDepth   int // 0 uses the scene's setting
	Coef       float64
	Frames     int
	FrameDelay int
	Workers    int
	Sampling   string
	Seed       int64
	OutputDir  string
}

func main() {
	config := Config{}
	flag.StringVar(&config.SceneType, "scene", "arena", "Scene name ("+strings.Join(scene.Names(), ", ")+"), scenes/<name>.yaml, or a path to a .yaml file")
	flag.IntVar(&config.Width, "width", 640, "Image width in pixels")
	flag.IntVar(&config.Height, "height", 360, "Image height in pixels")
	flag.IntVar(&config.Samples, "samples", 0, "Samples per pixel (0 = scene default)")
	flag.IntVar(&config.MaxDepth, "depth", 0, "Maximum bounces per ray (0 = scene default)")
	flag.Float64Var(&config.Coef, "coef", 1.0, "Brightness coefficient in [0,1]")
	flag.IntVar(&config.Frames, "frames", 1, "Number of frames; more than 1 writes an animated GIF")
	flag.IntVar(&config.FrameDelay, "delay", 4, "GIF frame delay in 100ths of a second")
	flag.IntVar(&config.Workers, "workers", 0, "Number of parallel workers (0 = auto-detect CPU count)")
	flag.StringVar(&config.Sampling, "sampling", "stratified", "Sample placement: stratified or random")
	flag.Int64Var(&config.Seed, "seed", 42, "Seed for random sampling")
	flag.StringVar(&config.OutputDir, "out", "output", "Output directory")
	help := flag.Bool("help", false, "Show help information")
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	logger := renderer.NewDefaultLogger()
	if _, err := run(config, logger); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func showHelp() {
	fmt.Println("rayten - lane-batched reflection ray tracer")
	fmt.Println("Usage: rayten [options]")
	fmt.Println()
	fmt.Println("Options:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListBuiltinScenes() {
		fmt.Printf("  %-8s - %s\n", info.ID, info.Description)
	}
	if files, err := scene.ListFileScenes(); err == nil {
		for _, info := range files {
			fmt.Printf("  %s - %s\n", info.FilePath, info.Description)
		}
	}
	fmt.Println()
	fmt.Println("Output will be saved to <out>/<scene>/render_<timestamp>.png (or .gif when -frames > 1)")
}

// run renders according to config and returns the written file path
func run(config Config, logger core.Logger) (string, error) {
	if config.Width <= 0 || config.Height <= 0 {
		return "", fmt.Errorf("invalid image size %dx%d", config.Width, config.Height)
	}
	if config.Frames <= 0 {
		return "", fmt.Errorf("frames must be positive, got %d", config.Frames)
	}
	if config.Coef < 0 || config.Coef > 1 {
		return "", fmt.Errorf("coef must be within [0, 1], got %v", config.Coef)
	}
	sampling, err := renderer.ParseSampling(config.Sampling)
	if err != nil {
		return "", err
	}

	selectedScene, err := createScene(config.SceneType)
	if err != nil {
		return "", err
	}
	logger.Printf("Using %s scene...\n", selectedScene.Name)

	rendererConfig := renderer.RendererConfig{
		Width:           config.Width,
		Height:          config.Height,
		SamplesPerPixel: pick(config.Samples, selectedScene.SamplingConfig.SamplesPerPixel),
		MaxDepth:        pick(config.MaxDepth, selectedScene.SamplingConfig.MaxDepth),
		Sampling:        sampling,
		Seed:            config.Seed,
		NumWorkers:      config.Workers,
	}
	if rendererConfig.SamplesPerPixel <= 0 || rendererConfig.MaxDepth <= 0 {
		return "", fmt.Errorf("samples and depth must be positive, got %d and %d",
			rendererConfig.SamplesPerPixel, rendererConfig.MaxDepth)
	}
	r := renderer.NewRenderer(rendererConfig)
	defer r.Close()

	camera := renderer.NewCamera(renderer.CameraConfig{
		Origin:        selectedScene.CameraPosition(),
		AspectRatio:   core.Real(config.Width) / core.Real(config.Height),
		ViewportWidth: 2,
	})

	outputDir := filepath.Join(config.OutputDir, outputName(selectedScene.Name))
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory: %w", err)
	}
	timestamp := time.Now().Format("20060102_150405")

	if config.Frames == 1 {
		filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", timestamp))
		return filename, renderStill(r, selectedScene, camera, core.Real(config.Coef), filename, logger)
	}

	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.gif", timestamp))
	return filename, renderAnimation(r, selectedScene, camera, core.Real(config.Coef), config.Frames, config.FrameDelay, filename, logger)
}

func renderStill(r *renderer.Renderer, s *scene.Scene, camera *renderer.Camera, coef core.Real, filename string, logger core.Logger) error {
	img, stats := r.RenderImage(s, camera, coef)
	logger.Printf("Render completed: %v\n", stats)
	logger.Printf("Average luminance: %.3f\n", renderer.CalculateAverageLuminance(img))

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("error saving PNG: %w", err)
	}

	logger.Printf("Render saved as %s\n", filename)
	return nil
}

// renderAnimation steps the scene between frames: the ball drifts and the
// camera follows the near paddle
func renderAnimation(r *renderer.Renderer, s *scene.Scene, camera *renderer.Camera, coef core.Real, frames, delay int, filename string, logger core.Logger) error {
	anim := renderer.NewAnimation(frames)
	var total time.Duration

	for i := 0; i < frames; i++ {
		if i > 0 {
			origin := s.Step()
			camera.MoveOriginTo(origin.X(), origin.Y())
		}
		img, stats := r.RenderImage(s, camera, coef)
		total += stats.Duration
		anim.AddFrame(img, delay)
		logger.Printf("Frame %d/%d rendered in %v\n", i+1, frames, stats.Duration)
	}
	logger.Printf("Animation completed in %v\n", total)

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("error creating file: %w", err)
	}
	defer file.Close()

	if err := anim.Encode(file); err != nil {
		return fmt.Errorf("error saving GIF: %w", err)
	}

	logger.Printf("Animation saved as %s\n", filename)
	return nil
}

// createScene resolves a built-in name, a scene file path, or the name of a
// file in the scenes directory
func createScene(sceneType string) (*scene.Scene, error) {
	if sceneType == "" {
		return nil, fmt.Errorf("no scene given")
	}

	// A file in scenes/ that fails to load reports its own error
	s, found, err := tryLoadSceneFile(sceneType)
	if err != nil {
		return nil, err
	}
	if found {
		return s, nil
	}
	return scene.Create(sceneType)
}

// tryLoadSceneFile looks for scenes/<name>.yaml when name is not built in.
// found is false when there is no such file.
func tryLoadSceneFile(name string) (s *scene.Scene, found bool, err error) {
	for _, builtin := range scene.Names() {
		if builtin == name {
			return nil, false, nil
		}
	}
	if filepath.Ext(name) != "" {
		return nil, false, nil
	}

	path := filepath.Join("scenes", name+".yaml")
	if _, err := os.Stat(path); err != nil {
		return nil, false, nil
	}
	s, err = scene.LoadFile(path)
	if err != nil {
		return nil, true, fmt.Errorf("failed to load scene file: %w", err)
	}
	return s, true, nil
}

// outputName turns a scene name into a directory name
func outputName(name string) string {
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if name == "" || name == "." {
		return "scene"
	}
	return name
}

func pick(override, fallback int) int {
	if override != 0 {
		return override
	}
	return fallback
}
