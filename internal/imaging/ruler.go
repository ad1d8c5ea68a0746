package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// RulerPosition is the image edge a dimension ruler runs along.
type RulerPosition string

const (
	RulerTop    RulerPosition = "top"
	RulerBottom RulerPosition = "bottom"
	RulerLeft   RulerPosition = "left"
	RulerRight  RulerPosition = "right"
)

// RulerStyle is the marker drawn at the middle of a ruler.
type RulerStyle string

const (
	RulerDot      RulerStyle = "dot"
	RulerTick     RulerStyle = "tick"
	RulerLongTick RulerStyle = "long-tick"
	RulerDashed   RulerStyle = "dashed"
)

// RulerSpec describes a dimension ruler annotation.
type RulerSpec struct {
	Position RulerPosition `json:"position"`
	Style    RulerStyle    `json:"style"`
	Value    float64       `json:"value"`
	Unit     string        `json:"unit"`
	Text     string        `json:"text,omitempty"` // overrides Value and Unit
	Color    string        `json:"color,omitempty"`
}

// Label returns the text printed next to the ruler.
func (s RulerSpec) Label() string {
	if s.Text != "" {
		return s.Text
	}
	label := strconv.FormatFloat(s.Value, 'f', -1, 64)
	if s.Unit != "" {
		label += " " + s.Unit
	}
	return label
}

const (
	rulerMargin = 12 // distance of the line from the image edge
	rulerStroke = 1.5
	rulerCap    = 5 // half length of the end ticks
)

// DrawRuler draws a dimension line parallel to one edge with end ticks, a
// centre marker and a label.
//
// The line spans the full edge minus the margin at both ends. Labels use a
// fixed 7x13 bitmap face and are placed on the inner side of the line so they
// stay inside the image.
func DrawRuler(b *Buffer, spec RulerSpec) (*Buffer, error) {
	pos := RulerPosition(strings.ToLower(string(spec.Position)))
	if pos == "" {
		pos = RulerBottom
	}
	style := RulerStyle(strings.ToLower(string(spec.Style)))
	if style == "" {
		style = RulerTick
	}
	switch style {
	case RulerDot, RulerTick, RulerLongTick, RulerDashed:
	default:
		return nil, fmt.Errorf("unknown ruler style: %q", spec.Style)
	}
	colorStr := spec.Color
	if colorStr == "" {
		colorStr = "#000000"
	}
	col, err := ParseColor(colorStr)
	if err != nil {
		return nil, fmt.Errorf("invalid ruler color: %w", err)
	}

	w, h := float32(b.Width()), float32(b.Height())
	m := float32(rulerMargin)
	hs := float32(rulerStroke / 2)

	// Express the geometry along a horizontal axis, then map it to the chosen
	// edge. u runs along the line, v across it.
	var horizontal bool
	var length, line float32
	switch pos {
	case RulerTop:
		horizontal, length, line = true, w, m
	case RulerBottom:
		horizontal, length, line = true, w, h-m
	case RulerLeft:
		horizontal, length, line = false, h, m
	case RulerRight:
		horizontal, length, line = false, h, w-m
	default:
		return nil, fmt.Errorf("unknown ruler position: %q", spec.Position)
	}
	if length <= 2*m {
		return nil, fmt.Errorf("image too small for a ruler: %dx%d", b.Width(), b.Height())
	}

	z := vector.NewRasterizer(b.Width(), b.Height())
	rect := func(u0, v0, u1, v1 float32) {
		x0, y0, x1, y1 := u0, v0, u1, v1
		if !horizontal {
			x0, y0, x1, y1 = v0, u0, v1, u1
		}
		z.MoveTo(x0, y0)
		z.LineTo(x1, y0)
		z.LineTo(x1, y1)
		z.LineTo(x0, y1)
		z.ClosePath()
	}

	mid := length / 2
	rect(m, line-hs, length-m, line+hs)
	rect(m-hs, line-rulerCap, m+hs, line+rulerCap)
	rect(length-m-hs, line-rulerCap, length-m+hs, line+rulerCap)

	switch style {
	case RulerDot:
		cu, cv := mid, line
		if !horizontal {
			cu, cv = line, mid
		}
		circle(z, cu, cv, 3)
	case RulerTick:
		rect(mid-hs, line-4, mid+hs, line+4)
	case RulerLongTick:
		rect(mid-hs, line-8, mid+hs, line+8)
	case RulerDashed:
		for v := line - 8; v < line+8; v += 4 {
			rect(mid-hs, v, mid+hs, v+2)
		}
	}

	mask := image.NewAlpha(image.Rect(0, 0, b.Width(), b.Height()))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	out := b.Clone()
	pix := out.pix()
	sa := float64(col.A) / 255
	for i, a := range mask.Pix {
		if a != 0 {
			blendOver(pix[i*4:i*4+4], col.R, col.G, col.B, sa*float64(a)/255)
		}
	}

	drawLabel(out, spec.Label(), pos, mid, line, col)
	return out, nil
}

// circle adds a closed circle path centred on (cx, cy).
func circle(z *vector.Rasterizer, cx, cy, r float32) {
	k := float32(kappa) * r
	z.MoveTo(cx+r, cy)
	z.CubeTo(cx+r, cy+k, cx+k, cy+r, cx, cy+r)
	z.CubeTo(cx-k, cy+r, cx-r, cy+k, cx-r, cy)
	z.CubeTo(cx-r, cy-k, cx-k, cy-r, cx, cy-r)
	z.CubeTo(cx+k, cy-r, cx+r, cy-k, cx+r, cy)
	z.ClosePath()
}

// drawLabel renders text on the inner side of the ruler line.
func drawLabel(b *Buffer, text string, pos RulerPosition, mid, line float32, col color.NRGBA) {
	if text == "" {
		return
	}
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: b.img, Src: image.NewUniform(col), Face: face}
	tw := d.MeasureString(text).Ceil()
	ascent := face.Metrics().Ascent.Ceil()
	gap := 10

	var x, y int
	switch pos {
	case RulerTop:
		x, y = int(mid)-tw/2, int(line)+gap+ascent
	case RulerBottom:
		x, y = int(mid)-tw/2, int(line)-gap
	case RulerLeft:
		x, y = int(line)+gap, int(mid)+ascent/2
	case RulerRight:
		x, y = int(line)-gap-tw, int(mid)+ascent/2
	}
	x = clampInt(x, 0, max(0, b.Width()-tw))
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}

// Point represents a 2D point
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DistanceResult contains measurement information
type DistanceResult struct {
	DistancePixels        float64 `json:"distance_pixels"`
	DeltaX                int     `json:"delta_x"`
	DeltaY                int     `json:"delta_y"`
	AngleDegrees          float64 `json:"angle_degrees"`
	DistancePercentWidth  float64 `json:"distance_percent_width"`
	DistancePercentHeight float64 `json:"distance_percent_height"`
}

// MeasureDistance measures the straight-line distance between two points,
// as a pixel count and relative to the image size. The angle is in degrees
// with 0 pointing right and 90 pointing down.
func MeasureDistance(b *Buffer, from, to Point) *DistanceResult {
	width := float64(b.Width())
	height := float64(b.Height())

	dx := to.X - from.X
	dy := to.Y - from.Y
	distance := math.Hypot(float64(dx), float64(dy))
	angle := math.Atan2(float64(dy), float64(dx)) * 180 / math.Pi

	return &DistanceResult{
		DistancePixels:        math.Round(distance*100) / 100,
		DeltaX:                dx,
		DeltaY:                dy,
		AngleDegrees:          math.Round(angle*10) / 10,
		DistancePercentWidth:  math.Round(distance/width*1000) / 10,
		DistancePercentHeight: math.Round(distance/height*1000) / 10,
	}
}
