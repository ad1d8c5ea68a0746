package imaging

import (
	"fmt"
	"image"
	"image/color"
	"sort"
	"strings"

	"github.com/anthonynsimon/bild/adjust"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
)

// filterFunc maps an opaque image to a filtered one of the same size.
type filterFunc func(img image.Image) image.Image

// shiftRB warms (positive) or cools (negative) an image by moving red and
// blue in opposite directions.
func shiftRB(delta int) filterFunc {
	return func(img image.Image) image.Image {
		return adjust.Apply(img, func(c color.RGBA) color.RGBA {
			c.R = uint8(clampInt(int(c.R)+delta, 0, 255))
			c.B = uint8(clampInt(int(c.B)-delta, 0, 255))
			return c
		})
	}
}

// presets are the one-click looks offered by the filter panel.
var presets = map[string]filterFunc{
	"none": func(img image.Image) image.Image { return img },
	"warm": func(img image.Image) image.Image {
		return adjust.Saturation(shiftRB(18)(img), 0.1)
	},
	"cool": func(img image.Image) image.Image {
		return adjust.Saturation(shiftRB(-18)(img), -0.05)
	},
	"vintage": func(img image.Image) image.Image {
		faded := adjust.Contrast(adjust.Brightness(blur.Gaussian(img, 0.6), 0.05), -0.15)
		return imaging.Overlay(faded, effect.Sepia(faded), image.Pt(0, 0), 0.5)
	},
	"bw": func(img image.Image) image.Image {
		return effect.Grayscale(img)
	},
	"sepia": func(img image.Image) image.Image {
		return effect.Sepia(img)
	},
	"dramatic": func(img image.Image) image.Image {
		return adjust.Saturation(adjust.Contrast(adjust.Brightness(img, -0.05), 0.35), -0.15)
	},
	"vivid": func(img image.Image) image.Image {
		return adjust.Contrast(adjust.Saturation(img, 0.5), 0.1)
	},
	"muted": func(img image.Image) image.Image {
		return adjust.Contrast(adjust.Saturation(img, -0.4), -0.1)
	},
}

// FilterNames lists the available presets in alphabetical order.
func FilterNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ApplyFilter applies a named preset.
//
// The preset runs on an opaque copy of the color channels, then the source
// alpha is copied back unchanged, so transparent cut-outs keep their shape
// and straight color values are not disturbed by premultiplication. The
// "none" preset returns an identical copy.
//
// # Errors
//
// Returns an error for an unknown preset name.
func ApplyFilter(b *Buffer, name string) (*Buffer, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "none"
	}
	fn, ok := presets[key]
	if !ok {
		return nil, fmt.Errorf("unknown filter %q (available: %s)", name, strings.Join(FilterNames(), ", "))
	}
	if key == "none" {
		return b.Clone(), nil
	}

	opaque := b.Clone()
	pix := opaque.pix()
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 255
	}

	out := &Buffer{img: imaging.Clone(fn(opaque.img))}
	src, dst := b.pix(), out.pix()
	for i := 3; i < len(dst); i += 4 {
		dst[i] = src[i]
	}
	return out, nil
}
