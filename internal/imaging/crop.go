package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropRegion is a rectangle given by its top-left corner and size.
type CropRegion struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// clampTo fits the region inside a w×h image. The result always covers at
// least one pixel.
func (r CropRegion) clampTo(w, h int) image.Rectangle {
	x := clampInt(r.X, 0, w-1)
	y := clampInt(r.Y, 0, h-1)
	cw := clampInt(r.Width, 1, w-x)
	ch := clampInt(r.Height, 1, h-y)
	return image.Rect(x, y, x+cw, y+ch)
}

// Crop extracts a region of the buffer.
//
// The region is clamped to the buffer bounds first, so out-of-range values
// never fail: the origin is pulled inside the image and the size shrunk to
// fit, with a minimum of 1x1.
func Crop(b *Buffer, region CropRegion) *Buffer {
	rect := region.clampTo(b.Width(), b.Height())
	return &Buffer{img: imaging.Crop(b.img, rect)}
}

// CropQuadrant extracts a named region of the buffer.
func CropQuadrant(b *Buffer, region string) (*Buffer, error) {
	w := b.Width()
	h := b.Height()
	midX := w / 2
	midY := h / 2

	var r CropRegion
	switch region {
	case "top-left":
		r = CropRegion{0, 0, midX, midY}
	case "top-right":
		r = CropRegion{midX, 0, w - midX, midY}
	case "bottom-left":
		r = CropRegion{0, midY, midX, h - midY}
	case "bottom-right":
		r = CropRegion{midX, midY, w - midX, h - midY}
	case "top-half":
		r = CropRegion{0, 0, w, midY}
	case "bottom-half":
		r = CropRegion{0, midY, w, h - midY}
	case "left-half":
		r = CropRegion{0, 0, midX, h}
	case "right-half":
		r = CropRegion{midX, 0, w - midX, h}
	case "center":
		// Center 50% of the image
		qW := w / 4
		qH := h / 4
		r = CropRegion{qW, qH, w - 2*qW, h - 2*qH}
	default:
		return nil, fmt.Errorf("unknown region: %s", region)
	}
	return Crop(b, r), nil
}

// Fit scales the buffer down so it fits in maxWidth×maxHeight while keeping
// its aspect ratio. Buffers that already fit are returned as a copy; Fit never
// enlarges. A non-positive limit leaves that dimension unconstrained.
func Fit(b *Buffer, maxWidth, maxHeight int) *Buffer {
	w, h := b.Width(), b.Height()
	if maxWidth <= 0 {
		maxWidth = w
	}
	if maxHeight <= 0 {
		maxHeight = h
	}
	if w <= maxWidth && h <= maxHeight {
		return b.Clone()
	}
	return &Buffer{img: imaging.Fit(b.img, maxWidth, maxHeight, imaging.Lanczos)}
}
