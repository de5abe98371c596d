package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rayten/rayten/pkg/renderer"
	"github.com/rayten/rayten/pkg/scene"
)

const (
	minImageSize = 8
	maxImageSize = 2000
	maxSamples   = 256
	maxDepth     = 64
	maxFrames    = 600
)

// Server handles web requests for the ray tracer
type Server struct {
	port      int
	staticDir string
}

// NewServer creates a new web server
func NewServer(port int) *Server {
	return &Server{port: port, staticDir: "static/"}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string  `json:"scene"`    // Scene name or scene file path
	Width    int     `json:"width"`    // Image width
	Height   int     `json:"height"`   // Image height
	Samples  int     `json:"samples"`  // Samples per pixel
	MaxDepth int     `json:"maxDepth"` // Maximum bounces per ray
	Coef     float64 `json:"coef"`     // Brightness coefficient
	Frames   int     `json:"frames"`   // Number of animation frames
	Sampling string  `json:"sampling"` // stratified or random
	Workers  int     `json:"workers"`  // 0 = auto-detect
}

// Handler returns the HTTP routes served by the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Serve static files
	mux.Handle("/", http.FileServer(http.Dir(s.staticDir)))

	// API endpoints
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleScenes lists built-in and file scenes grouped for the scene picker
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	response, err := scene.ListAllScenes()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	sceneName := r.URL.Query().Get("scene")
	if sceneName == "" {
		sceneName = "arena" // Default scene
	}

	sceneObj, err := s.createScene(sceneName)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	// Return the scene's sampling configuration with validation limits
	config := sceneObj.SamplingConfig
	origin := sceneObj.CameraPosition()
	response := map[string]interface{}{
		"scene": sceneObj.Name,
		"defaults": map[string]interface{}{
			"samples":  config.SamplesPerPixel,
			"maxDepth": config.MaxDepth,
			"coef":     1.0,
			"frames":   1,
			"sampling": renderer.SamplingStratified.String(),
			"camera":   [3]float32{origin.X(), origin.Y(), origin.Z()},
		},
		"limits": map[string]interface{}{
			"width":    map[string]int{"min": minImageSize, "max": maxImageSize},
			"height":   map[string]int{"min": minImageSize, "max": maxImageSize},
			"samples":  map[string]int{"min": 1, "max": maxSamples},
			"maxDepth": map[string]int{"min": 1, "max": maxDepth},
			"frames":   map[string]int{"min": 1, "max": maxFrames},
			"coef":     map[string]float64{"min": 0, "max": 1},
		},
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}

// parseCommonSceneParams parses the scene and image size shared by render
// and inspect requests
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	// Parse scene name (string parameter, no validation needed)
	if sceneName := r.URL.Query().Get("scene"); sceneName != "" {
		req.Scene = sceneName
	} else {
		req.Scene = "arena" // Default scene
	}

	// Parse and validate image parameters using helper functions
	var err error
	if req.Width, err = parseIntParam(r.URL.Query(), "width", 640, minImageSize, maxImageSize); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(r.URL.Query(), "height", 360, minImageSize, maxImageSize); err != nil {
		return err
	}
	// 0 means the scene's own setting
	if req.MaxDepth, err = parseIntParam(r.URL.Query(), "maxDepth", 0, 1, maxDepth); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %f and %f, got: %f", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene creates a fresh scene from a built-in name or one of the
// discovered scene files. Arbitrary paths are rejected.
func (s *Server) createScene(sceneName string) (*scene.Scene, error) {
	for _, name := range scene.Names() {
		if name == sceneName {
			return scene.Create(sceneName)
		}
	}

	files, err := scene.ListFileScenes()
	if err != nil {
		return nil, err
	}
	for _, info := range files {
		if info.ID == sceneName {
			return scene.LoadFile(info.FilePath)
		}
	}
	return nil, fmt.Errorf("%w: %s", scene.ErrUnknownScene, sceneName)
}

// imageToBase64PNG converts an image to base64-encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
