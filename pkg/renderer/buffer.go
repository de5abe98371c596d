package renderer

import (
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/rayten/rayten/pkg/core"
)

// PixelBuffer is a row-major RGB or RGBA byte buffer the renderer writes into.
// The alpha channel, when present, is never touched.
type PixelBuffer struct {
	Pix      []uint8
	Width    int
	Height   int
	Stride   int // Bytes between the starts of consecutive rows
	Channels int // 3 (RGB) or 4 (RGBA)
}

// NewPixelBuffer allocates a tightly packed buffer
func NewPixelBuffer(width, height, channels int) *PixelBuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("renderer: invalid buffer size %dx%d", width, height))
	}
	if channels != 3 && channels != 4 {
		panic(fmt.Sprintf("renderer: buffer must have 3 or 4 channels, got %d", channels))
	}
	return &PixelBuffer{
		Pix:      make([]uint8, width*height*channels),
		Width:    width,
		Height:   height,
		Stride:   width * channels,
		Channels: channels,
	}
}

// BufferFromRGBA wraps an RGBA image so the renderer writes straight into it
func BufferFromRGBA(img *image.RGBA) *PixelBuffer {
	bounds := img.Bounds()
	return &PixelBuffer{
		Pix:      img.Pix[img.PixOffset(bounds.Min.X, bounds.Min.Y):],
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		Stride:   img.Stride,
		Channels: 4,
	}
}

// ToRGBA copies the buffer into a new image. RGB buffers become opaque.
func (b *PixelBuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		for x := 0; x < b.Width; x++ {
			src := b.offset(x, y)
			dst := img.PixOffset(x, y)
			copy(img.Pix[dst:dst+3], b.Pix[src:src+3])
			if b.Channels == 4 {
				img.Pix[dst+3] = b.Pix[src+3]
			} else {
				img.Pix[dst+3] = 255
			}
		}
	}
	return img
}

func (b *PixelBuffer) offset(x, y int) int {
	return y*b.Stride + x*b.Channels
}

// writeGroup stores the first count lanes of colors starting at (x, y).
// Colors must already be clamped to [0,1].
func (b *PixelBuffer) writeGroup(x, y, count int, colors core.Colors, coef core.Real) {
	for i := 0; i < count; i++ {
		o := b.offset(x+i, y)
		b.Pix[o] = toByte(colors.XS[i], coef)
		b.Pix[o+1] = toByte(colors.YS[i], coef)
		b.Pix[o+2] = toByte(colors.ZS[i], coef)
	}
}

// toByte truncates c*255*coef into [0, 255]. NaN maps to 0.
func toByte(c, coef core.Real) uint8 {
	v := c * 255 * coef
	if !(v > 0) {
		return 0
	}
	return uint8(math32.Min(v, 255))
}
