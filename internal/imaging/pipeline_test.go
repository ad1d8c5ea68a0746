package imaging

import (
	"testing"
)

func TestApplyAll_EmptySetIsIdentity(t *testing.T) {
	img := createGradientImage(10, 8)

	got := ApplyAll(img, AdjustmentSet{})
	if !got.Equal(img) {
		t.Error("empty adjustment set should reproduce the input")
	}
	if got == img {
		t.Error("ApplyAll should return a new buffer")
	}
}

func TestApplyAll_MatchesSequentialCalls(t *testing.T) {
	img := createGradientImage(10, 8)

	set := AdjustmentSet{
		Brightness: Int(12),
		Contrast:   Int(-30),
		Saturation: Int(45),
		Sharpness:  Int(60),
	}
	want := AdjustSharpness(AdjustSaturation(AdjustContrast(AdjustBrightness(img, 12), -30), 45), 60)

	if got := ApplyAll(img, set); !got.Equal(want) {
		t.Error("ApplyAll should equal brightness, contrast, saturation, sharpness in order")
	}
}

func TestApplyAll_PartialSet(t *testing.T) {
	img := createGradientImage(6, 6)

	if got := ApplyAll(img, AdjustmentSet{Contrast: Int(40)}); !got.Equal(AdjustContrast(img, 40)) {
		t.Error("contrast-only set should equal AdjustContrast")
	}
	if got := ApplyAll(img, AdjustmentSet{Sharpness: Int(0)}); !got.Equal(img) {
		t.Error("sharpness 0 should be skipped")
	}
}

func TestAdjustmentSet_IsEmpty(t *testing.T) {
	if !(AdjustmentSet{}).IsEmpty() {
		t.Error("zero set should be empty")
	}
	if (AdjustmentSet{Saturation: Int(0)}).IsEmpty() {
		t.Error("a set with an explicit zero is not empty")
	}
}
