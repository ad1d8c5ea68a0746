package imaging

import (
	"image/color"
	"testing"
)

func countChanged(a, b *Buffer) int {
	n := 0
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			if a.At(x, y) != b.At(x, y) {
				n++
			}
		}
	}
	return n
}

func TestRulerSpec_Label(t *testing.T) {
	tests := []struct {
		spec RulerSpec
		want string
	}{
		{RulerSpec{Value: 50, Unit: "cm"}, "50 cm"},
		{RulerSpec{Value: 12.5, Unit: "inch"}, "12.5 inch"},
		{RulerSpec{Value: 3}, "3"},
		{RulerSpec{Value: 50, Unit: "cm", Text: "Height"}, "Height"},
	}
	for _, tt := range tests {
		if got := tt.spec.Label(); got != tt.want {
			t.Errorf("Label(): got %q, want %q", got, tt.want)
		}
	}
}

func TestDrawRuler_Positions(t *testing.T) {
	img := createInMemoryImage(120, 90, color.NRGBA{255, 255, 255, 255})

	tests := []struct {
		pos    RulerPosition
		onLine Point
	}{
		{RulerTop, Point{30, 12}},
		{RulerBottom, Point{30, 78}},
		{RulerLeft, Point{12, 30}},
		{RulerRight, Point{108, 30}},
	}
	for _, tt := range tests {
		t.Run(string(tt.pos), func(t *testing.T) {
			got, err := DrawRuler(img, RulerSpec{Position: tt.pos, Style: RulerTick, Value: 50, Unit: "cm"})
			if err != nil {
				t.Fatalf("DrawRuler failed: %v", err)
			}
			if got.Width() != 120 || got.Height() != 90 {
				t.Errorf("dimensions: got %dx%d, want 120x90", got.Width(), got.Height())
			}
			if c := got.At(tt.onLine.X, tt.onLine.Y); c.R == 255 && c.G == 255 && c.B == 255 {
				t.Errorf("pixel (%d,%d) on the line should be darkened", tt.onLine.X, tt.onLine.Y)
			}
			if c := got.At(60, 45); c != (color.NRGBA{255, 255, 255, 255}) {
				t.Errorf("image center should be untouched, got %v", c)
			}
		})
	}
}

func TestDrawRuler_Styles(t *testing.T) {
	img := createInMemoryImage(100, 60, color.NRGBA{255, 255, 255, 255})

	plain, err := DrawRuler(img, RulerSpec{Style: RulerTick, Text: " "})
	if err != nil {
		t.Fatalf("DrawRuler failed: %v", err)
	}
	for _, style := range []RulerStyle{RulerDot, RulerLongTick, RulerDashed} {
		got, err := DrawRuler(img, RulerSpec{Style: style, Text: " "})
		if err != nil {
			t.Fatalf("DrawRuler(%s) failed: %v", style, err)
		}
		if got.Equal(plain) {
			t.Errorf("%s marker should differ from the tick marker", style)
		}
	}
}

func TestDrawRuler_DrawsLabel(t *testing.T) {
	img := createInMemoryImage(100, 60, color.NRGBA{255, 255, 255, 255})

	blank, _ := DrawRuler(img, RulerSpec{Position: RulerBottom, Text: " "})
	labelled, _ := DrawRuler(img, RulerSpec{Position: RulerBottom, Value: 50, Unit: "cm"})
	if countChanged(blank, labelled) == 0 {
		t.Error("the label should add glyph pixels")
	}
}

func TestDrawRuler_Errors(t *testing.T) {
	img := createInMemoryImage(100, 60, color.NRGBA{255, 255, 255, 255})

	tests := []struct {
		name string
		img  *Buffer
		spec RulerSpec
	}{
		{"bad style", img, RulerSpec{Style: "zigzag"}},
		{"bad position", img, RulerSpec{Position: "middle"}},
		{"bad color", img, RulerSpec{Color: "#nope"}},
		{"too small", createInMemoryImage(20, 20, color.White), RulerSpec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DrawRuler(tt.img, tt.spec); err == nil {
				t.Error("DrawRuler should fail")
			}
		})
	}
}

func TestMeasureDistance(t *testing.T) {
	img := createInMemoryImage(100, 50, color.White)

	tests := []struct {
		name     string
		from, to Point
		distance float64
		angle    float64
	}{
		{"horizontal", Point{0, 0}, Point{30, 0}, 30, 0},
		{"vertical down", Point{10, 10}, Point{10, 40}, 30, 90},
		{"3-4-5", Point{0, 0}, Point{3, 4}, 5, 53.1},
		{"leftwards", Point{50, 0}, Point{20, 0}, 30, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MeasureDistance(img, tt.from, tt.to)
			if got.DistancePixels != tt.distance {
				t.Errorf("distance: got %v, want %v", got.DistancePixels, tt.distance)
			}
			if got.AngleDegrees != tt.angle {
				t.Errorf("angle: got %v, want %v", got.AngleDegrees, tt.angle)
			}
		})
	}

	got := MeasureDistance(img, Point{0, 0}, Point{50, 0})
	if got.DistancePercentWidth != 50 || got.DistancePercentHeight != 100 {
		t.Errorf("percentages: got %v%% / %v%%", got.DistancePercentWidth, got.DistancePercentHeight)
	}
}
