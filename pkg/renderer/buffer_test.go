package renderer

import (
	"image"
	"testing"

	"github.com/chewxy/math32"
	"github.com/rayten/rayten/pkg/core"
)

func TestNewPixelBufferLayout(t *testing.T) {
	tests := []struct {
		channels int
		stride   int
	}{
		{3, 30},
		{4, 40},
	}

	for _, tt := range tests {
		buf := NewPixelBuffer(10, 2, tt.channels)
		if buf.Stride != tt.stride {
			t.Errorf("%d channels: expected stride %d, got %d", tt.channels, tt.stride, buf.Stride)
		}
		if len(buf.Pix) != tt.stride*2 {
			t.Errorf("%d channels: expected %d bytes, got %d", tt.channels, tt.stride*2, len(buf.Pix))
		}
	}
}

func TestNewPixelBufferRejectsChannels(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected a panic for 2 channels")
		}
	}()
	NewPixelBuffer(4, 4, 2)
}

func TestWriteGroupOnlyWritesCount(t *testing.T) {
	buf := NewPixelBuffer(8, 1, 3)
	colors := core.SplatPoints(1, 0.5, 0)

	buf.writeGroup(0, 0, 3, colors, 1)

	for x := 0; x < 8; x++ {
		o := buf.offset(x, 0)
		got := buf.Pix[o : o+3]
		if x < 3 {
			if got[0] != 255 || got[1] != 127 || got[2] != 0 {
				t.Errorf("pixel %d: expected [255 127 0], got %v", x, got)
			}
		} else if got[0] != 0 || got[1] != 0 || got[2] != 0 {
			t.Errorf("pixel %d: expected untouched, got %v", x, got)
		}
	}
}

func TestBufferFromRGBASubImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	sub := img.SubImage(image.Rect(1, 1, 3, 3)).(*image.RGBA)

	buf := BufferFromRGBA(sub)
	if buf.Width != 2 || buf.Height != 2 || buf.Channels != 4 {
		t.Fatalf("unexpected buffer geometry %dx%dx%d", buf.Width, buf.Height, buf.Channels)
	}

	buf.writeGroup(0, 0, 2, core.SplatPoints(1, 1, 1), 1)

	if r, _, _, _ := img.At(1, 1).RGBA(); r>>8 != 255 {
		t.Errorf("expected write at (1,1) of the parent image, got red %d", r>>8)
	}
	if r, _, _, _ := img.At(0, 0).RGBA(); r != 0 {
		t.Errorf("pixel outside the sub image was written")
	}
}

func TestToRGBAMakesRGBOpaque(t *testing.T) {
	buf := NewPixelBuffer(2, 1, 3)
	buf.writeGroup(0, 0, 2, core.SplatPoints(0, 1, 0), 1)

	img := buf.ToRGBA()
	for x := 0; x < 2; x++ {
		o := img.PixOffset(x, 0)
		if img.Pix[o+1] != 255 || img.Pix[o+3] != 255 {
			t.Errorf("pixel %d: expected opaque green, got %v", x, img.Pix[o:o+4])
		}
	}
}

func TestToByteClampsBothEnds(t *testing.T) {
	tests := []struct {
		name     string
		c, coef  core.Real
		expected uint8
	}{
		{"mid gray", 0.5, 1, 127},
		{"full brightness", 1, 1, 255},
		{"above one", 1.5, 1, 255},
		{"dimmed", 1, 0.3, 76},
		{"negative coef", 1, -0.5, 0},
		{"negative color", -1, 1, 0},
		{"nan color", math32.NaN(), 1, 0},
		{"nan coef", 1, math32.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toByte(tt.c, tt.coef); got != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, got)
			}
		})
	}
}
