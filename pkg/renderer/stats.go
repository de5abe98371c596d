package renderer

import (
	"fmt"
	"image"
	"time"
)

// RenderStats contains statistics about one rendered frame
type RenderStats struct {
	Width           int           // Image width in pixels
	Height          int           // Image height in pixels
	Groups          int           // Lane groups traced
	SamplesPerPixel int           // Samples taken for every pixel
	RayBatches      int           // Primary ray batches traced (groups * samples)
	Bounces         int           // Closest-hit iterations summed over all batches
	Workers         int           // Goroutines that rendered the frame
	Duration        time.Duration // Wall time of the render call
}

// add merges the counters of a partial result
func (s *RenderStats) add(o RenderStats) {
	s.Groups += o.Groups
	s.RayBatches += o.RayBatches
	s.Bounces += o.Bounces
}

// AverageBounces returns the mean number of iterations per ray batch
func (s RenderStats) AverageBounces() float64 {
	if s.RayBatches == 0 {
		return 0
	}
	return float64(s.Bounces) / float64(s.RayBatches)
}

// RaysPerSecond returns primary rays traced per second of wall time
func (s RenderStats) RaysPerSecond() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Width*s.Height*s.SamplesPerPixel) / s.Duration.Seconds()
}

func (s RenderStats) String() string {
	return fmt.Sprintf("%dx%d, %d spp, %d groups, %.2f bounces/batch, %d workers, %v",
		s.Width, s.Height, s.SamplesPerPixel, s.Groups, s.AverageBounces(), s.Workers, s.Duration)
}

// CalculateAverageLuminance returns the mean Rec. 709 luminance of an image in [0,1]
func CalculateAverageLuminance(img *image.RGBA) float64 {
	bounds := img.Bounds()
	pixels := bounds.Dx() * bounds.Dy()
	if pixels == 0 {
		return 0
	}

	var total float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			o := img.PixOffset(x, y)
			r := float64(img.Pix[o]) / 255
			g := float64(img.Pix[o+1]) / 255
			b := float64(img.Pix[o+2]) / 255
			total += 0.2126*r + 0.7152*g + 0.0722*b
		}
	}
	return total / float64(pixels)
}
