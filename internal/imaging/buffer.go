package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
)

// Buffer is a decoded raster image with non-premultiplied RGBA samples.
//
// The sample slice always holds exactly Width*Height*4 bytes in row-major
// R, G, B, A order. A Buffer is immutable once returned by this package:
// transforms write into a private copy and hand back a new Buffer.
type Buffer struct {
	img *image.NRGBA
}

// NewBuffer returns a fully transparent buffer of the given size.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	return &Buffer{img: image.NewNRGBA(image.Rect(0, 0, width, height))}, nil
}

// FromSamples builds a buffer from raw RGBA samples. The slice is copied.
func FromSamples(width, height int, samples []uint8) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	if len(samples) != width*height*4 {
		return nil, fmt.Errorf("sample count %d does not match %dx%d (want %d)",
			len(samples), width, height, width*height*4)
	}
	b, _ := NewBuffer(width, height)
	copy(b.img.Pix, samples)
	return b, nil
}

// FromImage converts any image to a Buffer anchored at the origin.
func FromImage(img image.Image) *Buffer {
	return &Buffer{img: imaging.Clone(img)}
}

// Fill returns a buffer of the given size painted with a single color.
func Fill(width, height int, c color.Color) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid buffer size %dx%d", width, height)
	}
	return &Buffer{img: imaging.New(width, height, c)}, nil
}

// Width returns the width in pixels.
func (b *Buffer) Width() int { return b.img.Rect.Dx() }

// Height returns the height in pixels.
func (b *Buffer) Height() int { return b.img.Rect.Dy() }

// Bounds returns the buffer rectangle, always anchored at (0,0).
func (b *Buffer) Bounds() image.Rectangle { return b.img.Rect }

// Samples returns a copy of the raw RGBA samples.
func (b *Buffer) Samples() []uint8 {
	out := make([]uint8, len(b.img.Pix))
	copy(out, b.img.Pix)
	return out
}

// At returns the color of the pixel at (x, y).
func (b *Buffer) At(x, y int) color.NRGBA {
	return b.img.NRGBAAt(x, y)
}

// Image exposes the buffer as a read-only image.Image.
func (b *Buffer) Image() image.Image { return b.img }

// Clone returns an independent copy.
func (b *Buffer) Clone() *Buffer {
	return &Buffer{img: imaging.Clone(b.img)}
}

// Equal reports whether both buffers have identical size and samples.
func (b *Buffer) Equal(other *Buffer) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.img.Rect.Eq(other.img.Rect) && bytes.Equal(b.img.Pix, other.img.Pix)
}

// HasAlpha reports whether any pixel is not fully opaque.
func (b *Buffer) HasAlpha() bool {
	for i := 3; i < len(b.img.Pix); i += 4 {
		if b.img.Pix[i] != 0xff {
			return true
		}
	}
	return false
}

// pix gives package code direct access to the samples of a buffer it owns.
func (b *Buffer) pix() []uint8 { return b.img.Pix }

// clampChannel rounds half-to-even and clamps to the 8-bit range.
func clampChannel(v float64) uint8 {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}

func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
