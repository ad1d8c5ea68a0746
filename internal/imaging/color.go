package imaging

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// RGBAColor represents an RGBA color with 8-bit components including alpha.
//
// The alpha component represents opacity:
//   - 0 = fully transparent
//   - 255 = fully opaque
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex  string    `json:"hex"`  // Hex format "#RRGGBB" (no alpha)
	RGB  RGBColor  `json:"rgb"`  // RGB components
	RGBA RGBAColor `json:"rgba"` // RGBA components with alpha
	HSL  HSLColor  `json:"hsl"`  // HSL representation
}

var namedColors = map[string]color.NRGBA{
	"transparent": {0, 0, 0, 0},
	"black":       {0, 0, 0, 255},
	"white":       {255, 255, 255, 255},
	"red":         {255, 0, 0, 255},
	"green":       {0, 128, 0, 255},
	"blue":        {0, 0, 255, 255},
	"gray":        {128, 128, 128, 255},
	"grey":        {128, 128, 128, 255},
	"silver":      {192, 192, 192, 255},
	"gold":        {255, 215, 0, 255},
	"orange":      {255, 165, 0, 255},
	"yellow":      {255, 255, 0, 255},
	"brown":       {165, 42, 42, 255},
	"pink":        {255, 192, 203, 255},
	"purple":      {128, 0, 128, 255},
}

// ParseColor parses "#RGB", "#RGBA", "#RRGGBB", "#RRGGBBAA", CSS
// "rgb(r, g, b)" and "rgba(r, g, b, a)", or a basic CSS color name. The
// leading '#' is optional. Functional channels are 0-255 or percentages and
// the rgba alpha is 0-1 or a percentage.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "rgb") {
		return parseRGBFunc(s)
	}
	hex := strings.TrimPrefix(s, "#")

	// Short forms double each digit.
	if len(hex) == 3 || len(hex) == 4 {
		var b strings.Builder
		for _, r := range hex {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		hex = b.String()
	}

	switch len(hex) {
	case 6:
		c, err := colorful.Hex("#" + hex)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		return color.NRGBA{
			R: uint8(val >> 24),
			G: uint8(val >> 16),
			B: uint8(val >> 8),
			A: uint8(val),
		}, nil
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length: %q", s)
	}
}

// parseRGBFunc parses the lower-cased CSS rgb()/rgba() notation.
func parseRGBFunc(s string) (color.NRGBA, error) {
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return color.NRGBA{}, fmt.Errorf("invalid color function %q", s)
	}
	name := strings.TrimSpace(s[:open])
	args := strings.Split(s[open+1:len(s)-1], ",")

	switch {
	case name == "rgb" && len(args) == 3, name == "rgba" && len(args) == 4:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color function %q", s)
	}

	var ch [4]uint8
	ch[3] = 255
	for i, arg := range args {
		arg = strings.TrimSpace(arg)
		scale := 255.0
		if i == 3 {
			scale = 1
		}
		if strings.HasSuffix(arg, "%") {
			arg = strings.TrimSuffix(arg, "%")
			scale = 100
		}
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || math.IsNaN(v) || v < 0 || v > scale {
			return color.NRGBA{}, fmt.Errorf("invalid color component %q in %q", args[i], s)
		}
		ch[i] = clampChannel(v / scale * 255)
	}
	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// SampleColor returns the color at a pixel, the eyedropper of the editor.
//
// # Errors
//
// Returns an error if (x, y) lies outside the buffer.
func SampleColor(b *Buffer, x, y int) (*ColorResult, error) {
	if x < 0 || x >= b.Width() || y < 0 || y >= b.Height() {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}
	c := b.At(x, y)
	return newColorResult(c), nil
}

func newColorResult(c color.NRGBA) *ColorResult {
	cf := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return &ColorResult{
		Hex:  strings.ToUpper(cf.Hex()),
		RGB:  RGBColor{R: c.R, G: c.G, B: c.B},
		RGBA: RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:  HSLColor{H: int(h), S: int(s * 100), L: int(l * 100)},
	}
}

// DominantColor returns the most frequent exact color as "#RRGGBB".
//
// The buffer is first downsampled to 50x50 and pixels with alpha below 128
// are ignored, so a cut-out product reports its own color rather than the
// transparent surroundings. When every pixel is ignored the result is
// "#FFFFFF". Ties go to the color that reached the top count first in scan
// order.
func DominantColor(b *Buffer) string {
	small := imaging.Resize(b.img, 50, 50, imaging.Box)

	counts := make(map[color.NRGBA]int)
	dominant := "#FFFFFF"
	best := 0
	for i := 0; i < len(small.Pix); i += 4 {
		if small.Pix[i+3] < 128 {
			continue
		}
		c := color.NRGBA{R: small.Pix[i], G: small.Pix[i+1], B: small.Pix[i+2], A: 255}
		counts[c]++
		if counts[c] > best {
			best = counts[c]
			dominant = fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
		}
	}
	return dominant
}

// ColorFrequency represents a color and its occurrence frequency in an image.
type ColorFrequency struct {
	Hex        string   `json:"hex"`        // Hex color "#RRGGBB" (quantized)
	Percentage float64  `json:"percentage"` // Percentage of counted pixels (0-100)
	RGB        RGBColor `json:"rgb"`        // RGB components (quantized)
}

// PaletteResult contains the most frequently occurring colors in an image.
//
// Colors are sorted by frequency in descending order (most common first).
type PaletteResult struct {
	Colors []ColorFrequency `json:"colors"`
}

// Palette extracts up to count quantized colors, most common first.
//
// Channels are quantized to multiples of 16 so near-identical shades are
// grouped. Fully transparent pixels are skipped. The palette is used to
// suggest background colors that match a product.
func Palette(b *Buffer, count int) *PaletteResult {
	colorCounts := make(map[RGBColor]int)
	total := 0

	pix := b.pix()
	for i := 0; i < len(pix); i += 4 {
		if pix[i+3] == 0 {
			continue
		}
		q := RGBColor{R: pix[i] / 16 * 16, G: pix[i+1] / 16 * 16, B: pix[i+2] / 16 * 16}
		colorCounts[q]++
		total++
	}

	colors := make([]ColorFrequency, 0, len(colorCounts))
	for c, n := range colorCounts {
		colors = append(colors, ColorFrequency{
			Hex:        fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
			Percentage: float64(n) / float64(total) * 100,
			RGB:        c,
		})
	}

	sort.Slice(colors, func(i, j int) bool {
		if colors[i].Percentage != colors[j].Percentage {
			return colors[i].Percentage > colors[j].Percentage
		}
		return colors[i].Hex < colors[j].Hex
	})

	if count > 0 && len(colors) > count {
		colors = colors[:count]
	}
	return &PaletteResult{Colors: colors}
}
