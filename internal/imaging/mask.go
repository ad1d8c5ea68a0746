package imaging

import (
	"fmt"
	"image"
	"math"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points so that the curve approximates a
// quarter circle.
const kappa = 0.5522847498

// CornerRadii holds one radius per corner, in pixels.
type CornerRadii struct {
	TopLeft     int `json:"top_left"`
	TopRight    int `json:"top_right"`
	BottomLeft  int `json:"bottom_left"`
	BottomRight int `json:"bottom_right"`
}

// Uniform returns radii with the same value on every corner.
func Uniform(radius int) CornerRadii {
	return CornerRadii{radius, radius, radius, radius}
}

// RoundCorners clips the buffer to a rounded rectangle with the same radius
// on all four corners. Pixels outside the path become fully transparent and
// edge pixels receive partial coverage. Radius 0 clips to the full
// rectangle, which leaves alpha unchanged.
func RoundCorners(b *Buffer, radius int) *Buffer {
	return RoundCornersIndividually(b, Uniform(radius))
}

// RoundCornersIndividually clips the buffer to a rounded rectangle with
// independent per-corner radii.
//
// Each radius is clamped to [0, min(width,height)/2] so neighbouring arcs can
// never overlap. The path runs along the top edge from the top-left arc to
// the top-right arc, then down the right edge, back along the bottom and up
// the left side.
func RoundCornersIndividually(b *Buffer, radii CornerRadii) *Buffer {
	w, h := b.Width(), b.Height()
	limit := float64(min(w, h)) / 2
	r := func(v int) float32 {
		return float32(math.Max(0, math.Min(float64(v), limit)))
	}
	tl, tr, bl, br := r(radii.TopLeft), r(radii.TopRight), r(radii.BottomLeft), r(radii.BottomRight)
	fw, fh := float32(w), float32(h)

	z := vector.NewRasterizer(w, h)
	z.MoveTo(tl, 0)
	z.LineTo(fw-tr, 0)
	z.CubeTo(fw-tr+kappa*tr, 0, fw, tr-kappa*tr, fw, tr)
	z.LineTo(fw, fh-br)
	z.CubeTo(fw, fh-br+kappa*br, fw-br+kappa*br, fh, fw-br, fh)
	z.LineTo(bl, fh)
	z.CubeTo(bl-kappa*bl, fh, 0, fh-bl+kappa*bl, 0, fh-bl)
	z.LineTo(0, tl)
	z.CubeTo(0, tl-kappa*tl, tl-kappa*tl, 0, tl, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	out := b.Clone()
	pix := out.pix()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m := uint32(mask.Pix[y*mask.Stride+x])
			if m == 0xff {
				continue
			}
			i := y*out.img.Stride + x*4 + 3
			pix[i] = uint8((uint32(pix[i])*m + 127) / 255)
		}
	}
	return out
}

// BorderStyle selects the stroke pattern of a border.
type BorderStyle string

const (
	BorderSolid  BorderStyle = "solid"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
)

// ParseBorderStyle accepts "solid", "dashed" and "dotted"; "" means solid.
func ParseBorderStyle(s string) (BorderStyle, error) {
	switch BorderStyle(strings.ToLower(strings.TrimSpace(s))) {
	case "", BorderSolid:
		return BorderSolid, nil
	case BorderDashed:
		return BorderDashed, nil
	case BorderDotted:
		return BorderDotted, nil
	default:
		return "", fmt.Errorf("unknown border style: %q", s)
	}
}

// dashPattern returns alternating on/off lengths, nil for a solid line.
func (s BorderStyle) dashPattern(width float64) []float64 {
	switch s {
	case BorderDashed:
		return []float64{width * 2, width}
	case BorderDotted:
		return []float64{width, width}
	default:
		return nil
	}
}

// BorderSpec describes a border stroke.
type BorderSpec struct {
	// Width is the stroke width and the padding added on each side.
	Width int `json:"width"`

	// Color is a hex color ("#RGB", "#RRGGBB" or "#RRGGBBAA") or a CSS
	// color name known to ParseColor.
	Color string `json:"color"`

	// Style is solid, dashed or dotted.
	Style BorderStyle `json:"style"`
}

// AddBorder pads the buffer by spec.Width on every side and strokes a border
// over the padding.
//
// The stroke is centred on a rectangle inset by Width/2, so it covers exactly
// the added band. Dashed borders use the pattern [2w, w] and dotted borders
// [w, w], both starting at the top-left corner and running clockwise. A zero
// width returns an unchanged copy.
func AddBorder(b *Buffer, spec BorderSpec) (*Buffer, error) {
	if spec.Width < 0 {
		return nil, fmt.Errorf("border width must not be negative, got %d", spec.Width)
	}
	style, err := ParseBorderStyle(string(spec.Style))
	if err != nil {
		return nil, err
	}
	stroke, err := ParseColor(spec.Color)
	if err != nil {
		return nil, fmt.Errorf("invalid border color: %w", err)
	}
	if spec.Width == 0 {
		return b.Clone(), nil
	}

	bw := spec.Width
	canvas, err := NewBuffer(b.Width()+2*bw, b.Height()+2*bw)
	if err != nil {
		return nil, err
	}
	out := &Buffer{img: imaging.Paste(canvas.img, b.img, image.Pt(bw, bw))}

	coverage := borderCoverage(out.Width(), out.Height(), float64(bw), style.dashPattern(float64(bw)))
	sa := float64(stroke.A) / 255
	pix := out.pix()
	for i, m := range coverage.Pix {
		if m == 0 {
			continue
		}
		blendOver(pix[i*4:i*4+4], stroke.R, stroke.G, stroke.B, sa*float64(m)/255)
	}
	return out, nil
}

// borderCoverage rasterizes the stroke of the inset rectangle into an alpha
// mask. pattern nil means a continuous line.
func borderCoverage(w, h int, bw float64, pattern []float64) *image.Alpha {
	W, H := float64(w), float64(h)
	hw := bw / 2
	top := W - bw
	side := H - bw
	perimeter := 2 * (top + side)
	// Perimeter positions of the corners, clockwise from the top-left.
	corners := [4]float64{0, top, top + side, 2*top + side}

	type span struct{ start, end float64 }
	var spans []span
	if len(pattern) == 0 {
		spans = []span{{0, perimeter}}
	} else {
		pos, on, k := 0.0, true, 0
		for pos < perimeter {
			end := math.Min(pos+pattern[k%len(pattern)], perimeter)
			if on && end > pos {
				spans = append(spans, span{pos, end})
			}
			pos = end
			on = !on
			k++
		}
	}

	z := vector.NewRasterizer(w, h)
	rect := func(x0, y0, x1, y1 float64) {
		if x1 <= x0 || y1 <= y0 {
			return
		}
		z.MoveTo(float32(x0), float32(y0))
		z.LineTo(float32(x1), float32(y0))
		z.LineTo(float32(x1), float32(y1))
		z.LineTo(float32(x0), float32(y1))
		z.ClosePath()
	}
	// edge draws the part [a,b) of one side, measured from that side's start.
	edge := func(side int, a, b float64) {
		switch side {
		case 0: // top, left to right
			rect(hw+a, 0, hw+b, bw)
		case 1: // right, top to bottom
			rect(W-bw, hw+a, W, hw+b)
		case 2: // bottom, right to left
			rect(W-hw-b, H-bw, W-hw-a, H)
		case 3: // left, bottom to top
			rect(0, H-hw-b, bw, H-hw-a)
		}
	}
	corner := func(i int) {
		switch i {
		case 0:
			rect(0, 0, hw, hw)
		case 1:
			rect(W-hw, 0, W, hw)
		case 2:
			rect(W-hw, H-hw, W, H)
		case 3:
			rect(0, H-hw, hw, H)
		}
	}

	lengths := [4]float64{top, side, top, side}
	for _, s := range spans {
		for i := 0; i < 4; i++ {
			a := math.Max(s.start, corners[i])
			e := math.Min(s.end, corners[i]+lengths[i])
			if e > a {
				edge(i, a-corners[i], e-corners[i])
			}
			if i > 0 && s.start < corners[i] && s.end > corners[i] {
				corner(i)
			}
		}
	}
	// The closing join at the start point exists only when the stroke is on
	// at both ends of the path.
	if len(spans) > 0 && spans[0].start == 0 && spans[len(spans)-1].end == perimeter {
		corner(0)
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

// blendOver composites a straight-alpha color with opacity sa (0-1) over the
// non-premultiplied pixel px using the source-over operator.
func blendOver(px []uint8, r, g, b uint8, sa float64) {
	if sa <= 0 {
		return
	}
	da := float64(px[3]) / 255
	oa := sa + da*(1-sa)
	if oa <= 0 {
		px[0], px[1], px[2], px[3] = 0, 0, 0, 0
		return
	}
	mix := func(s, d uint8) uint8 {
		return clampChannel((float64(s)*sa + float64(d)*da*(1-sa)) / oa)
	}
	px[0] = mix(r, px[0])
	px[1] = mix(g, px[1])
	px[2] = mix(b, px[2])
	px[3] = clampChannel(oa * 255)
}
