package renderer

import (
	"bytes"
	"sync"
	"testing"

	"github.com/rayten/rayten/pkg/core"
	"github.com/rayten/rayten/pkg/scene"
)

func testConfig(width, height, workers int) RendererConfig {
	config := DefaultRendererConfig()
	config.Width = width
	config.Height = height
	config.SamplesPerPixel = 2
	config.MaxDepth = 4
	config.NumWorkers = workers
	return config
}

func renderArena(t *testing.T, config RendererConfig) []uint8 {
	t.Helper()
	r := NewRenderer(config)
	defer r.Close()

	buf := NewPixelBuffer(config.Width, config.Height, 3)
	r.Render(scene.NewArenaScene(), NewCamera(DefaultCameraConfig()), 1, buf)
	return buf.Pix
}

func TestRenderDeterministic(t *testing.T) {
	tests := []struct {
		name     string
		sampling Sampling
		samples  int
	}{
		{"single centered sample", SamplingStratified, 1},
		{"stratified", SamplingStratified, 4},
		{"random", SamplingRandom, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := testConfig(32, 12, 1)
			config.Sampling = tt.sampling
			config.SamplesPerPixel = tt.samples

			first := renderArena(t, config)
			second := renderArena(t, config)
			if !bytes.Equal(first, second) {
				t.Error("identical renders produced different bytes")
			}
		})
	}
}

func TestRenderSequentialMatchesParallel(t *testing.T) {
	sequential := renderArena(t, testConfig(45, 17, 1))

	for _, workers := range []int{2, 4, 0} {
		parallel := renderArena(t, testConfig(45, 17, workers))
		if !bytes.Equal(sequential, parallel) {
			t.Errorf("%d workers: output differs from the sequential render", workers)
		}
	}
}

func TestRenderPartialGroupsAndAlpha(t *testing.T) {
	// 13 is not a multiple of the lane count, so every row ends in a partial group
	config := testConfig(13, 5, 1)
	r := NewRenderer(config)
	defer r.Close()

	buf := NewPixelBuffer(config.Width, config.Height, 4)
	for i := range buf.Pix {
		buf.Pix[i] = 42
	}

	stats := r.Render(scene.NewArenaScene(), NewCamera(DefaultCameraConfig()), 1, buf)

	if want := 2 * config.Height; stats.Groups != want {
		t.Errorf("Expected %d groups, got %d", want, stats.Groups)
	}
	if want := stats.Groups * config.SamplesPerPixel; stats.RayBatches != want {
		t.Errorf("Expected %d ray batches, got %d", want, stats.RayBatches)
	}
	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			o := buf.offset(x, y)
			if buf.Pix[o+3] != 42 {
				t.Fatalf("pixel (%d,%d): alpha changed to %d", x, y, buf.Pix[o+3])
			}
		}
	}
	// The arena walls are never black, so every color channel set gets written
	written := 0
	for i := 0; i < len(buf.Pix); i += 4 {
		if buf.Pix[i] != 42 || buf.Pix[i+1] != 42 || buf.Pix[i+2] != 42 {
			written++
		}
	}
	if written == 0 {
		t.Error("no pixel was written")
	}
}

func TestRenderStrideLeavesPaddingUntouched(t *testing.T) {
	config := testConfig(10, 3, 1)
	r := NewRenderer(config)
	defer r.Close()

	buf := &PixelBuffer{
		Pix:      make([]uint8, 3*40),
		Width:    10,
		Height:   3,
		Stride:   40,
		Channels: 3,
	}
	for i := range buf.Pix {
		buf.Pix[i] = 7
	}

	r.Render(scene.NewArenaScene(), NewCamera(DefaultCameraConfig()), 1, buf)

	for y := 0; y < 3; y++ {
		for i := 30; i < 40; i++ {
			if buf.Pix[y*40+i] != 7 {
				t.Fatalf("row %d: padding byte %d was overwritten", y, i)
			}
		}
	}
}

func TestRenderBrightnessCoefficient(t *testing.T) {
	config := testConfig(16, 4, 1)
	r := NewRenderer(config)
	defer r.Close()
	camera := NewCamera(DefaultCameraConfig())
	arena := scene.NewArenaScene()

	full := NewPixelBuffer(16, 4, 3)
	dim := NewPixelBuffer(16, 4, 3)
	off := NewPixelBuffer(16, 4, 3)
	r.Render(arena, camera, 1, full)
	r.Render(arena, camera, 0.3, dim)
	r.Render(arena, camera, 0, off)

	for i := range full.Pix {
		if dim.Pix[i] > full.Pix[i] {
			t.Fatalf("byte %d: dimmed value %d exceeds full value %d", i, dim.Pix[i], full.Pix[i])
		}
		if off.Pix[i] != 0 {
			t.Fatalf("byte %d: expected 0 with coef 0, got %d", i, off.Pix[i])
		}
	}
}

func TestRenderMissWritesAmbient(t *testing.T) {
	config := testConfig(8, 2, 1)
	r := NewRenderer(config)
	defer r.Close()

	empty := &MockScene{ambient: core.NewColor(0.25, 0.25, 0.25)}
	img, _ := r.RenderImage(empty, NewCamera(DefaultCameraConfig()), 1)

	// sqrt(0.25) * 255 = 127.5
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i] != 127 || img.Pix[i+1] != 127 || img.Pix[i+2] != 127 || img.Pix[i+3] != 255 {
			t.Fatalf("pixel %d: expected (127,127,127,255), got %v", i/4, img.Pix[i:i+4])
		}
	}
}

func TestRenderPanicsOnSizeMismatch(t *testing.T) {
	r := NewRenderer(testConfig(8, 8, 1))
	defer r.Close()

	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for a mismatched buffer")
		}
	}()
	r.Render(scene.NewArenaScene(), NewCamera(DefaultCameraConfig()), 1, NewPixelBuffer(4, 8, 3))
}

func TestNewRendererRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*RendererConfig)
	}{
		{"zero width", func(c *RendererConfig) { c.Width = 0 }},
		{"negative height", func(c *RendererConfig) { c.Height = -1 }},
		{"no samples", func(c *RendererConfig) { c.SamplesPerPixel = 0 }},
		{"no depth", func(c *RendererConfig) { c.MaxDepth = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultRendererConfig()
			tt.modify(&config)
			defer func() {
				if recover() == nil {
					t.Error("Expected a panic")
				}
			}()
			NewRenderer(config)
		})
	}
}

func TestMovingSphereOnlyChangesItsLanes(t *testing.T) {
	mock := &MockScene{
		spheres: []mockSphere{{
			id:          core.Ball,
			pos:         core.NewPoint(-2, -1, -6),
			radius:      0.5,
			color:       core.NewColor(0.1, 0.1, 0.1),
			reflectance: 0.5,
		}},
		planes:  []mockPlane{{id: core.Far, offset: -16, color: core.NewColor(0.1, 0.1, 0.8), reflectance: 0.3}},
		ambient: core.NewColor(1, 1, 1),
	}

	// Lanes 0-3 aim at the ball, lanes 4-7 at the far wall on the other side
	var dirs core.Points
	for lane := 0; lane < core.Lanes; lane++ {
		if lane < 4 {
			dirs.SetLane(lane, core.NewPoint(-2, -1, -6))
		} else {
			dirs.SetLane(lane, core.NewPoint(core.Real(lane)*0.1, 0.5, -1))
		}
	}
	rays := core.NewRays(core.SplatPoints(0, 0, 0), dirs)

	before := TraceRays(mock, rays, 1)
	mock.spheres[0].pos = core.NewPoint(-2, 1, -6)
	after := TraceRays(mock, rays, 1)

	for lane := 0; lane < core.Lanes; lane++ {
		changed := before.Lane(lane) != after.Lane(lane)
		if lane < 4 && !changed {
			t.Errorf("lane %d: expected the moved ball to change the color", lane)
		}
		if lane >= 4 && changed {
			t.Errorf("lane %d: unrelated lane changed from %v to %v", lane, before.Lane(lane), after.Lane(lane))
		}
	}
}

func TestMoveSphereToOnlyChangesBallPixels(t *testing.T) {
	config := testConfig(64, 36, 1)
	config.SamplesPerPixel = 1
	config.MaxDepth = 1 // No reflections, so a pixel depends only on its first hit
	r := NewRenderer(config)
	defer r.Close()
	camera := NewCamera(DefaultCameraConfig())

	room := scene.NewRoomScene()
	before := room.Clone()
	bufBefore := NewPixelBuffer(config.Width, config.Height, 3)
	r.Render(room, camera, 1, bufBefore)

	room.MoveSphereTo(core.Ball, core.NewPoint(0.5, -1, -4))
	bufAfter := NewPixelBuffer(config.Width, config.Height, 3)
	r.Render(room, camera, 1, bufAfter)

	ball := core.SphereObstacle(core.Ball)
	changed := 0
	for y := 0; y < config.Height; y++ {
		for x := 0; x < config.Width; x++ {
			o := bufBefore.offset(x, y)
			if bytes.Equal(bufBefore.Pix[o:o+3], bufAfter.Pix[o:o+3]) {
				continue
			}
			changed++

			// Single centered sample: the pixel ray is the one Inspect casts
			u := (core.Real(x) + 0.5) / core.Real(config.Width)
			v := (core.Real(y) + 0.5) / core.Real(config.Height)
			was := Inspect(before, camera, u, v, 1)
			is := Inspect(room, camera, u, v, 1)
			wasBall := was.Hit && was.Obstacle == ball
			isBall := is.Hit && is.Obstacle == ball
			if !wasBall && !isBall {
				t.Errorf("pixel (%d,%d) outside the ball's footprint changed", x, y)
			}
		}
	}
	if changed == 0 {
		t.Error("Expected moving the ball to change some pixels")
	}
}

func TestCloseWaitsForInFlightRenders(t *testing.T) {
	config := testConfig(45, 17, 4)
	expected := renderArena(t, testConfig(45, 17, 1))

	r := NewRenderer(config)
	camera := NewCamera(DefaultCameraConfig())
	arena := scene.NewArenaScene()

	const renders = 8
	bufs := make([]*PixelBuffer, renders)
	var wg sync.WaitGroup
	for i := range bufs {
		bufs[i] = NewPixelBuffer(config.Width, config.Height, 3)
		wg.Add(1)
		go func(buf *PixelBuffer) {
			defer wg.Done()
			r.Render(arena, camera, 1, buf)
		}(bufs[i])
	}
	r.Close()
	wg.Wait()

	for i, buf := range bufs {
		if !bytes.Equal(buf.Pix, expected) {
			t.Errorf("render %d: output differs from the sequential render", i)
		}
	}

	// Renders after Close still complete, on the calling goroutine
	after := NewPixelBuffer(config.Width, config.Height, 3)
	stats := r.Render(arena, camera, 1, after)
	if !bytes.Equal(after.Pix, expected) {
		t.Error("render after Close differs from the sequential render")
	}
	if stats.Workers != 1 {
		t.Errorf("Expected 1 worker after Close, got %d", stats.Workers)
	}
	r.Close()
}

func TestParseSampling(t *testing.T) {
	for _, s := range []Sampling{SamplingStratified, SamplingRandom} {
		got, err := ParseSampling(s.String())
		if err != nil || got != s {
			t.Errorf("ParseSampling(%q) = %v, %v", s.String(), got, err)
		}
	}
	if _, err := ParseSampling("halton"); err == nil {
		t.Error("Expected an error for an unknown strategy")
	}
}
