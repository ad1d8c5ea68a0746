package imaging

import (
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// GradientDirection is a CSS-style gradient direction.
type GradientDirection string

const (
	ToRight       GradientDirection = "to-right"
	ToLeft        GradientDirection = "to-left"
	ToBottom      GradientDirection = "to-bottom"
	ToTop         GradientDirection = "to-top"
	ToBottomRight GradientDirection = "to-bottom-right"
	ToBottomLeft  GradientDirection = "to-bottom-left"
	ToTopRight    GradientDirection = "to-top-right"
	ToTopLeft     GradientDirection = "to-top-left"
	Radial        GradientDirection = "radial"
)

// position returns the gradient parameter in [0,1] for pixel (x,y).
func (d GradientDirection) position(x, y, w, h int) (float64, bool) {
	fx, fy := 0.0, 0.0
	if w > 1 {
		fx = float64(x) / float64(w-1)
	}
	if h > 1 {
		fy = float64(y) / float64(h-1)
	}
	switch d {
	case ToRight:
		return fx, true
	case ToLeft:
		return 1 - fx, true
	case ToBottom:
		return fy, true
	case ToTop:
		return 1 - fy, true
	case ToBottomRight:
		return (fx + fy) / 2, true
	case ToBottomLeft:
		return (1 - fx + fy) / 2, true
	case ToTopRight:
		return (fx + 1 - fy) / 2, true
	case ToTopLeft:
		return (2 - fx - fy) / 2, true
	case Radial:
		// Distance from the centre, normalised so the corners reach 1.
		dx, dy := fx-0.5, fy-0.5
		return math.Min(1, math.Sqrt(dx*dx+dy*dy)/math.Sqrt(0.5)), true
	default:
		return 0, false
	}
}

// SolidBackground returns a w x h buffer filled with a single color.
// opacity is a percentage (0-100) multiplied into the color's own alpha.
func SolidBackground(w, h int, colorStr string, opacity int) (*Buffer, error) {
	c, err := ParseColor(colorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid background color: %w", err)
	}
	c.A = scaleAlpha(c.A, opacity)
	return Fill(w, h, c)
}

// GradientBackground returns a w x h buffer with a two-stop gradient from
// start to end. Colors are interpolated in RGB.
//
// # Errors
//
// Returns an error for invalid colors, an unknown direction or a
// non-positive size.
func GradientBackground(w, h int, start, end string, direction GradientDirection, opacity int) (*Buffer, error) {
	from, err := ParseColor(start)
	if err != nil {
		return nil, fmt.Errorf("invalid gradient start color: %w", err)
	}
	to, err := ParseColor(end)
	if err != nil {
		return nil, fmt.Errorf("invalid gradient end color: %w", err)
	}
	dir := GradientDirection(strings.ToLower(strings.TrimSpace(string(direction))))
	if dir == "" {
		dir = ToRight
	}
	if _, ok := dir.position(0, 0, 1, 1); !ok {
		return nil, fmt.Errorf("unknown gradient direction: %q", direction)
	}

	out, err := NewBuffer(w, h)
	if err != nil {
		return nil, err
	}

	c1 := colorful.Color{R: float64(from.R) / 255, G: float64(from.G) / 255, B: float64(from.B) / 255}
	c2 := colorful.Color{R: float64(to.R) / 255, G: float64(to.G) / 255, B: float64(to.B) / 255}

	pix := out.pix()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			t, _ := dir.position(x, y, w, h)
			r, g, b := c1.BlendRgb(c2, t).RGB255()
			a := float64(from.A) + (float64(to.A)-float64(from.A))*t
			i := y*out.img.Stride + x*4
			pix[i], pix[i+1], pix[i+2] = r, g, b
			pix[i+3] = scaleAlpha(clampChannel(a), opacity)
		}
	}
	return out, nil
}

// scaleAlpha multiplies a by an opacity percentage clamped to 0-100.
func scaleAlpha(a uint8, opacity int) uint8 {
	return clampChannel(float64(a) * float64(clampInt(opacity, 0, 100)) / 100)
}

// BackgroundFill places b over a generated background of the same size.
func BackgroundFill(b, background *Buffer) *Buffer {
	return Composite(b, background)
}
