package renderer

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
)

// Animation collects rendered frames for an animated GIF
type Animation struct {
	out *gif.GIF
}

// NewAnimation creates an empty animation with room for frames
func NewAnimation(frames int) *Animation {
	return &Animation{out: &gif.GIF{
		Image:     make([]*image.Paletted, 0, frames),
		Delay:     make([]int, 0, frames),
		LoopCount: 0,
	}}
}

// AddFrame quantizes img to the Plan9 palette and appends it.
// delay is in 100ths of a second (e.g., 5 => 20 fps).
func (a *Animation) AddFrame(img image.Image, delay int) {
	pimg := image.NewPaletted(img.Bounds(), palette.Plan9)
	draw.FloydSteinberg.Draw(pimg, pimg.Bounds(), img, img.Bounds().Min)

	a.out.Image = append(a.out.Image, pimg)
	a.out.Delay = append(a.out.Delay, delay)
}

// Len returns the number of frames added so far
func (a *Animation) Len() int {
	return len(a.out.Image)
}

// Encode writes the animation as a looping GIF
func (a *Animation) Encode(w io.Writer) error {
	if a.Len() == 0 {
		return fmt.Errorf("animation has no frames")
	}
	return gif.EncodeAll(w, a.out)
}
