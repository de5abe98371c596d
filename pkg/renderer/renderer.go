package renderer

import (
	"fmt"
	"image"
	"math/rand"
	"sync"
	"time"

	"github.com/rayten/rayten/pkg/core"
)

// Sampling selects how sub-pixel sample offsets are placed
type Sampling int

const (
	// SamplingStratified spreads samples by recursive subdivision of the pixel
	SamplingStratified Sampling = iota
	// SamplingRandom draws seeded uniform jitter for every sample and lane
	SamplingRandom
)

func (s Sampling) String() string {
	switch s {
	case SamplingStratified:
		return "stratified"
	case SamplingRandom:
		return "random"
	default:
		return fmt.Sprintf("sampling(%d)", int(s))
	}
}

// ParseSampling resolves a sampling strategy from its String form
func ParseSampling(name string) (Sampling, error) {
	switch name {
	case "stratified":
		return SamplingStratified, nil
	case "random":
		return SamplingRandom, nil
	default:
		return 0, fmt.Errorf("unknown sampling strategy %q (use stratified or random)", name)
	}
}

// RendererConfig contains the fixed parameters of a renderer
type RendererConfig struct {
	Width           int      // Image width in pixels
	Height          int      // Image height in pixels
	SamplesPerPixel int      // Samples averaged into each pixel
	MaxDepth        int      // Maximum closest-hit iterations per ray
	Sampling        Sampling // Sample placement strategy
	Seed            int64    // Seed for SamplingRandom
	NumWorkers      int      // Goroutines used by Render; 0 means runtime.NumCPU(), 1 renders inline
}

// DefaultRendererConfig returns the settings used by the game
func DefaultRendererConfig() RendererConfig {
	return RendererConfig{
		Width:           640,
		Height:          360,
		SamplesPerPixel: 4,
		MaxDepth:        5,
		Sampling:        SamplingStratified,
		Seed:            42,
		NumWorkers:      0,
	}
}

// Renderer turns a scene and a camera into pixels. Its sample table is
// built once and never changes, so concurrent Render calls are safe.
type Renderer struct {
	config  RendererConfig
	samples core.SampleTable

	mu     sync.Mutex
	pool   *WorkerPool
	closed bool
	active sync.WaitGroup // renders holding the pool
}

// NewRenderer creates a renderer for a fixed image size
func NewRenderer(config RendererConfig) *Renderer {
	if config.Width <= 0 || config.Height <= 0 {
		panic(fmt.Sprintf("renderer: invalid image size %dx%d", config.Width, config.Height))
	}
	if config.SamplesPerPixel <= 0 {
		panic(fmt.Sprintf("renderer: samples per pixel must be positive, got %d", config.SamplesPerPixel))
	}
	if config.MaxDepth <= 0 {
		panic(fmt.Sprintf("renderer: max depth must be positive, got %d", config.MaxDepth))
	}

	var samples core.SampleTable
	switch config.Sampling {
	case SamplingRandom:
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(config.Seed)))
		samples = core.RandomSamples(config.SamplesPerPixel, sampler)
	default:
		samples = core.StratifiedSamples(config.SamplesPerPixel)
	}

	return &Renderer{config: config, samples: samples}
}

// Config returns the configuration the renderer was built with
func (r *Renderer) Config() RendererConfig {
	return r.config
}

// Render fills buf with the scene as seen by camera, scaled by the
// brightness coef. It returns once every pixel is written.
func (r *Renderer) Render(provider core.ObstacleProvider, camera *Camera, coef core.Real, buf *PixelBuffer) RenderStats {
	if buf.Width != r.config.Width || buf.Height != r.config.Height {
		panic(fmt.Sprintf("renderer: buffer is %dx%d, renderer expects %dx%d",
			buf.Width, buf.Height, r.config.Width, r.config.Height))
	}

	start := time.Now()
	frame := &frameJob{
		obstacles: compileObstacles(provider),
		camera:    camera,
		samples:   r.samples,
		maxDepth:  r.config.MaxDepth,
		coef:      coef,
		buf:       buf,
		width:     core.SplatReals(core.Real(r.config.Width)),
		height:    core.SplatReals(core.Real(r.config.Height)),
	}

	stats := RenderStats{
		Width:           r.config.Width,
		Height:          r.config.Height,
		SamplesPerPixel: r.config.SamplesPerPixel,
		Workers:         1,
	}

	var pool *WorkerPool
	if r.config.NumWorkers != 1 && r.config.Height > 1 {
		pool = r.acquirePool()
	}

	if pool == nil {
		for y := 0; y < r.config.Height; y++ {
			stats.add(frame.renderRow(y))
		}
	} else {
		defer r.active.Done()
		stats.Workers = pool.GetNumWorkers()

		results := make(chan RowResult, r.config.Height)
		for y := 0; y < r.config.Height; y++ {
			pool.SubmitTask(RowTask{Frame: frame, Row: y, Results: results})
		}
		for i := 0; i < r.config.Height; i++ {
			result := <-results
			stats.add(result.Stats)
		}
	}

	stats.Duration = time.Since(start)
	return stats
}

// RenderImage renders into a new opaque RGBA image
func (r *Renderer) RenderImage(provider core.ObstacleProvider, camera *Camera, coef core.Real) (*image.RGBA, RenderStats) {
	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	stats := r.Render(provider, camera, coef, BufferFromRGBA(img))
	return img, stats
}

// Close waits for in-flight renders and stops the worker pool. Renders
// started after Close run on the calling goroutine.
func (r *Renderer) Close() {
	r.mu.Lock()
	r.closed = true
	pool := r.pool
	r.pool = nil
	r.mu.Unlock()

	r.active.Wait()
	if pool != nil {
		pool.Stop()
	}
}

// acquirePool starts the pool on first use and registers the caller as an
// active render. It returns nil once the renderer is closed.
func (r *Renderer) acquirePool() *WorkerPool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	if r.pool == nil {
		r.pool = NewWorkerPool(r.config.NumWorkers)
		r.pool.Start()
	}
	r.active.Add(1)
	return r.pool
}

// frameJob holds everything a row needs; it is read-only during a render
type frameJob struct {
	obstacles *obstacleTable
	camera    *Camera
	samples   core.SampleTable
	maxDepth  int
	coef      core.Real
	buf       *PixelBuffer
	width     core.Reals
	height    core.Reals
}

// renderRow traces every lane group of row y and writes its bytes
func (f *frameJob) renderRow(y int) RenderStats {
	var stats RenderStats
	ys := core.SplatReals(core.Real(y))
	spp := core.SplatReals(core.Real(f.samples.Len()))

	for x := 0; x < f.buf.Width; x += core.Lanes {
		xs := core.SplatReals(core.Real(x)).Add(core.LaneIndices())

		var accum core.Colors
		for s := 0; s < f.samples.Len(); s++ {
			xOffsets := xs.Add(f.samples.XS[s]).Div(f.width)
			yOffsets := ys.Add(f.samples.YS[s]).Div(f.height)

			colors, bounces := f.obstacles.trace(f.camera.PixelRays(xOffsets, yOffsets), f.maxDepth)
			accum = accum.Add(colors)
			stats.Bounces += bounces
			stats.RayBatches++
		}

		accum = accum.DivReals(spp).Sqrt().Normalize()
		f.buf.writeGroup(x, y, min(core.Lanes, f.buf.Width-x), accum, f.coef)
		stats.Groups++
	}

	return stats
}
