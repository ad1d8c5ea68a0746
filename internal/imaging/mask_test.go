package imaging

import (
	"image/color"
	"testing"
)

func TestRoundCorners_ZeroRadiusKeepsAlpha(t *testing.T) {
	img := createInMemoryImage(16, 9, color.NRGBA{10, 20, 30, 255})

	got := RoundCorners(img, 0)
	if !got.Equal(img) {
		t.Error("radius 0 should leave every pixel opaque and unchanged")
	}
}

func TestRoundCorners_ClipsCorners(t *testing.T) {
	img := createInMemoryImage(40, 40, color.NRGBA{200, 0, 0, 255})

	got := RoundCorners(img, 10)
	if got.Width() != 40 || got.Height() != 40 {
		t.Errorf("dimensions: got %dx%d, want 40x40", got.Width(), got.Height())
	}

	for _, p := range []Point{{0, 0}, {39, 0}, {0, 39}, {39, 39}} {
		if a := got.At(p.X, p.Y).A; a != 0 {
			t.Errorf("corner (%d,%d) alpha: got %d, want 0", p.X, p.Y, a)
		}
	}
	for _, p := range []Point{{20, 20}, {20, 0}, {0, 20}, {39, 20}, {20, 39}} {
		if a := got.At(p.X, p.Y).A; a != 255 {
			t.Errorf("pixel (%d,%d) alpha: got %d, want 255", p.X, p.Y, a)
		}
	}
	// Color channels are untouched, only alpha is masked.
	if c := got.At(0, 0); c.R != 200 {
		t.Errorf("color should be preserved under the mask, got %v", c)
	}
}

func TestRoundCorners_AntiAliasedEdge(t *testing.T) {
	img := createInMemoryImage(40, 40, color.NRGBA{0, 0, 0, 255})

	got := RoundCorners(img, 20)
	partial := 0
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			if a := got.At(x, y).A; a > 0 && a < 255 {
				partial++
			}
		}
	}
	if partial == 0 {
		t.Error("the arc should produce partially covered pixels")
	}
}

func TestRoundCornersIndividually(t *testing.T) {
	img := createInMemoryImage(30, 30, color.NRGBA{0, 255, 0, 255})

	got := RoundCornersIndividually(img, CornerRadii{TopLeft: 12})
	if a := got.At(0, 0).A; a != 0 {
		t.Errorf("top-left alpha: got %d, want 0", a)
	}
	for _, p := range []Point{{29, 0}, {0, 29}, {29, 29}} {
		if a := got.At(p.X, p.Y).A; a != 255 {
			t.Errorf("square corner (%d,%d) alpha: got %d, want 255", p.X, p.Y, a)
		}
	}
}

func TestRoundCorners_RadiusClamped(t *testing.T) {
	img := createInMemoryImage(20, 10, color.NRGBA{0, 0, 255, 255})

	// Radii beyond half the short side behave like half the short side.
	if !RoundCorners(img, 500).Equal(RoundCorners(img, 5)) {
		t.Error("radius should be clamped to min(width, height)/2")
	}
	if !RoundCorners(img, -3).Equal(img) {
		t.Error("negative radius should behave like 0")
	}
}

func TestRoundCorners_TranslucentInput(t *testing.T) {
	img := createInMemoryImage(20, 20, color.NRGBA{0, 0, 0, 100})
	got := RoundCorners(img, 5)
	if a := got.At(10, 10).A; a != 100 {
		t.Errorf("interior alpha: got %d, want 100", a)
	}
}

func TestAddBorder_Dimensions(t *testing.T) {
	img := createInMemoryImage(30, 20, color.NRGBA{255, 0, 0, 255})

	for _, style := range []BorderStyle{BorderSolid, BorderDashed, BorderDotted} {
		t.Run(string(style), func(t *testing.T) {
			got, err := AddBorder(img, BorderSpec{Width: 4, Color: "#000000", Style: style})
			if err != nil {
				t.Fatalf("AddBorder failed: %v", err)
			}
			if got.Width() != 38 || got.Height() != 28 {
				t.Errorf("dimensions: got %dx%d, want 38x28", got.Width(), got.Height())
			}
			// The original sits untouched inside the padding.
			for _, p := range []Point{{4, 4}, {33, 23}, {19, 14}} {
				if c := got.At(p.X, p.Y); c != (color.NRGBA{255, 0, 0, 255}) {
					t.Errorf("interior (%d,%d): got %v", p.X, p.Y, c)
				}
			}
		})
	}
}

func TestAddBorder_Solid(t *testing.T) {
	img := createInMemoryImage(10, 10, color.NRGBA{255, 0, 0, 255})

	got, err := AddBorder(img, BorderSpec{Width: 5, Color: "#0000FF"})
	if err != nil {
		t.Fatalf("AddBorder failed: %v", err)
	}
	blue := color.NRGBA{0, 0, 255, 255}
	for _, p := range []Point{{0, 0}, {19, 0}, {0, 19}, {19, 19}, {10, 2}, {2, 10}, {17, 10}, {10, 17}} {
		if c := got.At(p.X, p.Y); c != blue {
			t.Errorf("band pixel (%d,%d): got %v, want blue", p.X, p.Y, c)
		}
	}
}

func TestAddBorder_DashedLeavesGaps(t *testing.T) {
	img := createInMemoryImage(10, 10, color.NRGBA{255, 0, 0, 255})

	got, err := AddBorder(img, BorderSpec{Width: 5, Color: "blue", Style: BorderDashed})
	if err != nil {
		t.Fatalf("AddBorder failed: %v", err)
	}
	// Dash pattern [10, 5] starting at x=2.5: on 2.5-12.5, off 12.5-17.5.
	if c := got.At(5, 2); c != (color.NRGBA{0, 0, 255, 255}) {
		t.Errorf("dash pixel: got %v, want blue", c)
	}
	if a := got.At(14, 2).A; a != 0 {
		t.Errorf("gap pixel alpha: got %d, want 0", a)
	}
}

func TestAddBorder_ZeroWidth(t *testing.T) {
	img := createGradientImage(5, 5)
	got, err := AddBorder(img, BorderSpec{Width: 0, Color: "#000"})
	if err != nil {
		t.Fatalf("AddBorder failed: %v", err)
	}
	if !got.Equal(img) {
		t.Error("zero width should return an unchanged copy")
	}
}

func TestAddBorder_Errors(t *testing.T) {
	img := createGradientImage(5, 5)
	tests := []struct {
		name string
		spec BorderSpec
	}{
		{"negative width", BorderSpec{Width: -1, Color: "#000"}},
		{"bad color", BorderSpec{Width: 2, Color: "#zzzzzz"}},
		{"bad style", BorderSpec{Width: 2, Color: "#000", Style: "wavy"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := AddBorder(img, tt.spec); err == nil {
				t.Error("AddBorder should fail")
			}
		})
	}
}

func TestBlendOver(t *testing.T) {
	px := []uint8{255, 255, 255, 255}
	blendOver(px, 0, 0, 0, 0.5)
	if px[0] != 128 || px[3] != 255 {
		t.Errorf("half black over white: got %v", px)
	}

	clear := []uint8{0, 0, 0, 0}
	blendOver(clear, 10, 20, 30, 0.5)
	if clear[0] != 10 || clear[1] != 20 || clear[2] != 30 || clear[3] != 128 {
		t.Errorf("over transparent: got %v", clear)
	}
}
