package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/disintegration/imaging"
)

// Axis selects the mirror direction of Flip.
type Axis string

const (
	// AxisHorizontal mirrors left and right.
	AxisHorizontal Axis = "horizontal"
	// AxisVertical mirrors top and bottom.
	AxisVertical Axis = "vertical"
)

// ParseAxis converts "horizontal"/"vertical" (or "h"/"v") to an Axis.
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return AxisHorizontal, nil
	case "vertical", "v":
		return AxisVertical, nil
	default:
		return "", fmt.Errorf("unknown flip axis: %q (want horizontal or vertical)", s)
	}
}

// Rotate rotates the buffer around its center. Positive degrees rotate
// clockwise.
//
// Multiples of 90 degrees are exact pixel permutations: 90 and 270 swap the
// width and height, 180 keeps them. Any other angle enlarges the canvas to
// the bounding box of the rotated image and leaves the uncovered corners
// fully transparent. A NaN or infinite angle has no defined rotation and
// returns an unchanged copy.
func Rotate(b *Buffer, degrees float64) *Buffer {
	if math.IsNaN(degrees) || math.IsInf(degrees, 0) {
		return b.Clone()
	}
	d := math.Mod(degrees, 360)
	if d < 0 {
		d += 360
	}

	// imaging rotates counter-clockwise.
	switch d {
	case 0:
		return b.Clone()
	case 90:
		return &Buffer{img: imaging.Rotate270(b.img)}
	case 180:
		return &Buffer{img: imaging.Rotate180(b.img)}
	case 270:
		return &Buffer{img: imaging.Rotate90(b.img)}
	}
	return &Buffer{img: imaging.Rotate(b.img, -d, color.Transparent)}
}

// Flip mirrors the buffer along the given axis. The output has the same size
// as the input and flipping twice on one axis restores the original.
func Flip(b *Buffer, axis Axis) (*Buffer, error) {
	switch axis {
	case AxisHorizontal:
		return &Buffer{img: imaging.FlipH(b.img)}, nil
	case AxisVertical:
		return &Buffer{img: imaging.FlipV(b.img)}, nil
	default:
		return nil, fmt.Errorf("unknown flip axis: %q", axis)
	}
}
