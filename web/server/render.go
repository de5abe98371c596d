package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/rayten/rayten/pkg/core"
	"github.com/rayten/rayten/pkg/renderer"
	"github.com/rayten/rayten/pkg/scene"
)

// FrameUpdate represents a single rendered frame sent via SSE
type FrameUpdate struct {
	FrameNumber int    `json:"frameNumber"` // 1-based
	TotalFrames int    `json:"totalFrames"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG
	Stats       Stats  `json:"stats"`
	ElapsedMs   int64  `json:"elapsedMs"`
}

// Stats represents render statistics of one frame
type Stats struct {
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	SamplesPerPixel int     `json:"samplesPerPixel"`
	RayBatches      int     `json:"rayBatches"`
	AverageBounces  float64 `json:"averageBounces"`
	RaysPerSecond   float64 `json:"raysPerSecond"`
	Workers         int     `json:"workers"`
	DurationMs      int64   `json:"durationMs"`
	Luminance       float64 `json:"luminance"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "frame", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene, camera and renderer
type RenderingPipeline struct {
	Scene    *scene.Scene
	Camera   *renderer.Camera
	Renderer *renderer.Renderer
}

// handleRender renders one frame, or an animation, streaming each finished
// frame via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	// Set SSE headers
	s.setSSEHeaders(w)

	ctx := r.Context()

	// Create unified SSE event channel for thread-safe writing
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})

	// Start single SSE writer goroutine
	go func() {
		defer close(writerDone)
		s.writeSSEEvents(w, ctx, sseEventChan)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	// Parse and validate request
	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	// Setup console logging and streaming
	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
	}()

	// Start rendering and stream frames
	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err == nil {
		defer pipeline.Renderer.Close()
		err = s.renderFrames(ctx, sseEventChan, pipeline, req, webLogger)
	}

	// Drain console output before the final event
	close(consoleChan)
	<-consoleDone

	if err != nil {
		if ctx.Err() == nil {
			s.handleError(ctx, sseEventChan, err.Error())
		}
		return
	}

	// Send completion event
	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, core.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	webLogger := NewWebLogger(renderID, consoleChan)
	return consoleChan, webLogger
}

// writeSSEEvents handles writing all SSE events in a single goroutine (thread-safe)
func (s *Server) writeSSEEvents(w http.ResponseWriter, ctx context.Context, sseEventChan chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}

			// Write SSE event
			_, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data)
			if err != nil {
				// Client disconnected during write
				return
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected
			return
		}
	}
}

// streamConsoleMessages forwards logger output as console events until
// consoleChan is closed
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan chan ConsoleMessage, sseEventChan chan SSEEvent) {
	for consoleMsg := range consoleChan {
		// Send console message as SSE event
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			log.Printf("Error marshaling console message: %v", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// setupRenderingPipeline creates the scene, camera and renderer for a request
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger core.Logger) (*RenderingPipeline, error) {
	// Create scene (logging goes through WebLogger)
	sceneObj, err := s.createScene(req.Scene)
	if err != nil {
		return nil, err
	}
	logger.Printf("Using %s scene...\n", sceneObj.Name)

	sampling, err := renderer.ParseSampling(req.Sampling)
	if err != nil {
		return nil, err
	}

	config := renderer.RendererConfig{
		Width:           req.Width,
		Height:          req.Height,
		SamplesPerPixel: req.Samples,
		MaxDepth:        req.MaxDepth,
		Sampling:        sampling,
		Seed:            renderer.DefaultRendererConfig().Seed,
		NumWorkers:      req.Workers,
	}
	// Fall back to the scene's sampling settings
	if config.SamplesPerPixel == 0 {
		config.SamplesPerPixel = sceneObj.SamplingConfig.SamplesPerPixel
	}
	if config.MaxDepth == 0 {
		config.MaxDepth = sceneObj.SamplingConfig.MaxDepth
	}
	if config.SamplesPerPixel <= 0 || config.MaxDepth <= 0 {
		return nil, fmt.Errorf("scene %s has no usable sampling configuration", sceneObj.Name)
	}

	camera := renderer.NewCamera(renderer.CameraConfig{
		Origin:        sceneObj.CameraPosition(),
		AspectRatio:   core.Real(req.Width) / core.Real(req.Height),
		ViewportWidth: 2,
	})

	return &RenderingPipeline{
		Scene:    sceneObj,
		Camera:   camera,
		Renderer: renderer.NewRenderer(config),
	}, nil
}

// renderFrames renders every requested frame, stepping the scene between
// them. It stops early when the client goes away.
func (s *Server) renderFrames(ctx context.Context, sseEventChan chan SSEEvent, pipeline *RenderingPipeline, req *RenderRequest, logger core.Logger) error {
	startTime := time.Now()

	for frame := 1; frame <= req.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if frame > 1 {
			origin := pipeline.Scene.Step()
			pipeline.Camera.MoveOriginTo(origin.X(), origin.Y())
		}

		img, stats := pipeline.Renderer.RenderImage(pipeline.Scene, pipeline.Camera, core.Real(req.Coef))
		logger.Printf("Frame %d/%d: %v\n", frame, req.Frames, stats)

		// Convert image to base64 PNG
		imageData, err := s.imageToBase64PNG(img)
		if err != nil {
			return fmt.Errorf("failed to encode image: %w", err)
		}

		// Create frame update
		update := FrameUpdate{
			FrameNumber: frame,
			TotalFrames: req.Frames,
			ImageData:   imageData,
			Stats: Stats{
				Width:           stats.Width,
				Height:          stats.Height,
				SamplesPerPixel: stats.SamplesPerPixel,
				RayBatches:      stats.RayBatches,
				AverageBounces:  stats.AverageBounces(),
				RaysPerSecond:   stats.RaysPerSecond(),
				Workers:         stats.Workers,
				DurationMs:      stats.Duration.Milliseconds(),
				Luminance:       renderer.CalculateAverageLuminance(img),
			},
			ElapsedMs: time.Since(startTime).Milliseconds(),
		}

		data, err := json.Marshal(update)
		if err != nil {
			return fmt.Errorf("failed to marshal frame: %w", err)
		}

		// Send SSE event
		select {
		case sseEventChan <- SSEEvent{Type: "frame", Data: string(data)}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	// Initialize request
	req := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	var err error
	// 0 means the scene's own setting
	if req.Samples, err = parseIntParam(query, "samples", 0, 1, maxSamples); err != nil {
		return nil, err
	}
	if req.Frames, err = parseIntParam(query, "frames", 1, 1, maxFrames); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(query, "workers", 0, 0, 256); err != nil {
		return nil, err
	}
	if req.Coef, err = parseFloatParam(query, "coef", 1.0, 0, 1); err != nil {
		return nil, err
	}
	req.Sampling = query.Get("sampling")
	if req.Sampling == "" {
		req.Sampling = renderer.SamplingStratified.String()
	}
	if _, err := renderer.ParseSampling(req.Sampling); err != nil {
		return nil, err
	}

	// Performance warning
	if req.Width*req.Height > 800*600 && req.Samples > 16 {
		log.Printf("Render warning: Large image with high samples may render slowly")
	}

	return req, nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan SSEEvent, message string) {
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
		// Client disconnected, don't block
	}
}
