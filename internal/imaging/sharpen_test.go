package imaging

import (
	"image/color"
	"testing"
)

func TestAdjustSharpness_Kernel(t *testing.T) {
	// 3x3 with a bright center on a dark field.
	samples := make([]uint8, 0, 3*3*4)
	for i := 0; i < 9; i++ {
		v := uint8(40)
		if i == 4 {
			v = 100
		}
		samples = append(samples, v, v, v, 255)
	}
	img, _ := FromSamples(3, 3, samples)

	got := AdjustSharpness(img, 100)
	// 100 + (5*100 - 4*40) * 0.5 = 270 -> 255
	if c := got.At(1, 1); c.R != 255 || c.G != 255 || c.B != 255 {
		t.Errorf("center: got %v, want 255", c)
	}

	got = AdjustSharpness(img, 20)
	// 100 + 340 * 0.1 = 134
	if c := got.At(1, 1); c.R != 134 {
		t.Errorf("center at 20: got %d, want 134", c.R)
	}
}

func TestAdjustSharpness_EdgesUnchanged(t *testing.T) {
	img := createGradientImage(6, 5)
	got := AdjustSharpness(img, 100)

	for x := 0; x < 6; x++ {
		if got.At(x, 0) != img.At(x, 0) || got.At(x, 4) != img.At(x, 4) {
			t.Fatalf("row edge at x=%d changed", x)
		}
	}
	for y := 0; y < 5; y++ {
		if got.At(0, y) != img.At(0, y) || got.At(5, y) != img.At(5, y) {
			t.Fatalf("column edge at y=%d changed", y)
		}
	}
}

func TestAdjustSharpness_SmallImages(t *testing.T) {
	for _, size := range [][2]int{{1, 1}, {2, 2}, {1, 5}} {
		img := createInMemoryImage(size[0], size[1], color.NRGBA{90, 90, 90, 255})
		if got := AdjustSharpness(img, 100); !got.Equal(img) {
			t.Errorf("%dx%d image has no interior and should be unchanged", size[0], size[1])
		}
	}
}

func TestAdjustSharpness_ReadsFromInput(t *testing.T) {
	// Two adjacent bright pixels: if the pass wrote in place, the second
	// pixel would see the already sharpened first one.
	samples := make([]uint8, 0, 4*3*4)
	for i := 0; i < 12; i++ {
		v := uint8(10)
		if i == 5 || i == 6 {
			v = 50
		}
		samples = append(samples, v, v, v, 255)
	}
	img, _ := FromSamples(4, 3, samples)

	got := AdjustSharpness(img, 10)
	if got.At(1, 1) != got.At(2, 1) {
		t.Errorf("symmetric pixels differ: %v vs %v", got.At(1, 1), got.At(2, 1))
	}
}
