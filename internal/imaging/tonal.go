package imaging

import "math"

// AdjustBrightness shifts R, G and B by round(value*2.55), value in
// [-100,100]. Alpha is unchanged.
func AdjustBrightness(b *Buffer, value int) *Buffer {
	out := b.Clone()
	brightenInPlace(out.pix(), value)
	return out
}

// AdjustContrast scales each color channel around mid-gray.
//
// The factor is 259*(v+255) / (255*(259-v)). value is clamped to
// [-100,100] first, which keeps the factor finite (it diverges at v=259).
func AdjustContrast(b *Buffer, value int) *Buffer {
	out := b.Clone()
	contrastInPlace(out.pix(), value)
	return out
}

// AdjustSaturation moves each channel towards or away from the pixel's luma
// (0.3R + 0.59G + 0.11B). -100 yields grayscale, 100 doubles the distance.
func AdjustSaturation(b *Buffer, value int) *Buffer {
	out := b.Clone()
	saturateInPlace(out.pix(), value)
	return out
}

func brightenInPlace(pix []uint8, value int) {
	value = clampInt(value, -100, 100)
	delta := math.Round(float64(value) * 2.55)
	if delta == 0 {
		return
	}
	for i := 0; i < len(pix); i += 4 {
		pix[i] = clampChannel(float64(pix[i]) + delta)
		pix[i+1] = clampChannel(float64(pix[i+1]) + delta)
		pix[i+2] = clampChannel(float64(pix[i+2]) + delta)
	}
}

// contrastFactor returns the multiplier for a contrast value in [-100,100].
func contrastFactor(value int) float64 {
	v := float64(clampInt(value, -100, 100))
	return (259 * (v + 255)) / (255 * (259 - v))
}

func contrastInPlace(pix []uint8, value int) {
	factor := contrastFactor(value)
	if factor == 1 {
		return
	}
	for i := 0; i < len(pix); i += 4 {
		pix[i] = clampChannel(factor*(float64(pix[i])-128) + 128)
		pix[i+1] = clampChannel(factor*(float64(pix[i+1])-128) + 128)
		pix[i+2] = clampChannel(factor*(float64(pix[i+2])-128) + 128)
	}
}

func saturateInPlace(pix []uint8, value int) {
	value = clampInt(value, -100, 100)
	if value == 0 {
		return
	}
	factor := 1 + float64(value)/100
	for i := 0; i < len(pix); i += 4 {
		r := float64(pix[i])
		g := float64(pix[i+1])
		bl := float64(pix[i+2])
		gray := 0.3*r + 0.59*g + 0.11*bl

		pix[i] = clampChannel(gray + factor*(r-gray))
		pix[i+1] = clampChannel(gray + factor*(g-gray))
		pix[i+2] = clampChannel(gray + factor*(bl-gray))
	}
}
