package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rayten/rayten/pkg/core"
	"github.com/rayten/rayten/pkg/renderer"
	"github.com/rayten/rayten/pkg/scene"
)

// InspectResponse represents the JSON response for object inspection
type InspectResponse struct {
	Hit          bool                   `json:"hit"`
	Obstacle     string                 `json:"obstacle"`
	GeometryType string                 `json:"geometryType"`
	Point        [3]float32             `json:"point"`
	Normal       [3]float32             `json:"normal"`
	Distance     float32                `json:"distance"`
	Radiance     [3]float32             `json:"radiance"`
	Bounces      int                    `json:"bounces"`
	Properties   map[string]interface{} `json:"properties"`
}

// extractObstacleInfo collects the scene attributes of the hit obstacle
func (s *Server) extractObstacleInfo(sceneObj *scene.Scene, result renderer.InspectResult) (string, map[string]interface{}) {
	properties := make(map[string]interface{})
	properties["color"] = colorHex(result.Color)
	properties["reflectance"] = sceneObj.ObstacleReflectance(result.Obstacle)
	properties["effectiveReflectance"] = result.Reflectance

	switch result.Obstacle.Kind {
	case core.KindSphere:
		center := sceneObj.SpherePos(result.Obstacle.Sphere)
		properties["center"] = [3]float32{center.X(), center.Y(), center.Z()}
		properties["radius"] = sceneObj.SphereRadius(result.Obstacle.Sphere)
		return "sphere", properties

	default:
		properties["axis"] = sceneObj.PlaneAxis(result.Obstacle.Plane).String()
		properties["offset"] = sceneObj.PlaneOffset(result.Obstacle.Plane)
		properties["checkerAbsorbing"] = result.Reflectance == 0 && sceneObj.ObstacleReflectance(result.Obstacle) != 0
		return "plane", properties
	}
}

func colorHex(c core.Color) string {
	channel := func(v core.Real) int {
		return int(min(max(v, 0), 1) * 255)
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(c.X()), channel(c.Y()), channel(c.Z()))
}

func vec3Array(v core.Vector) [3]float32 {
	return [3]float32{v.X(), v.Y(), v.Z()}
}

// handleInspect casts the ray through the center of a pixel and reports
// the first obstacle it hits
func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Create request object for parameter parsing
	inspectReq := &RenderRequest{}

	// Parse common scene parameters using shared function
	if err := s.parseCommonSceneParams(r, inspectReq); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid scene parameters: " + err.Error()})
		return
	}

	// Parse pixel coordinates
	pixelX, err := strconv.Atoi(r.URL.Query().Get("x"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid x coordinate"})
		return
	}

	pixelY, err := strconv.Atoi(r.URL.Query().Get("y"))
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Invalid y coordinate"})
		return
	}

	// Validate pixel coordinates
	if pixelX < 0 || pixelX >= inspectReq.Width || pixelY < 0 || pixelY >= inspectReq.Height {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "Pixel coordinates out of bounds"})
		return
	}

	sceneObj, err := s.createScene(inspectReq.Scene)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	depth := inspectReq.MaxDepth
	if depth == 0 {
		depth = sceneObj.SamplingConfig.MaxDepth
	}

	// Cast the ray through the pixel center (no jitter for inspection)
	camera := renderer.NewCamera(renderer.CameraConfig{
		Origin:        sceneObj.CameraPosition(),
		AspectRatio:   core.Real(inspectReq.Width) / core.Real(inspectReq.Height),
		ViewportWidth: 2,
	})
	u := (core.Real(pixelX) + 0.5) / core.Real(inspectReq.Width)
	v := (core.Real(pixelY) + 0.5) / core.Real(inspectReq.Height)
	result := renderer.Inspect(sceneObj, camera, u, v, depth)

	// Convert to JSON response
	response := InspectResponse{
		Hit:      result.Hit,
		Radiance: vec3Array(result.Radiance),
		Bounces:  result.Bounces,
	}
	if result.Hit {
		// Extract detailed information
		geometryType, properties := s.extractObstacleInfo(sceneObj, result)
		response.Obstacle = result.Obstacle.String()
		response.GeometryType = geometryType
		response.Point = vec3Array(result.Point)
		response.Normal = vec3Array(result.Normal)
		response.Distance = result.Distance
		response.Properties = properties
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(response)
}
