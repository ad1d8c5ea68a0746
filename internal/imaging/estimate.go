package imaging

import (
	"context"
	"math"
)

// Fixed suggestions that are not derived from image statistics.
const (
	autoSaturation = 10
	autoSharpness  = 15
)

// FallbackAdjustments is returned by Loader.Estimate when the source cannot
// be loaded.
func FallbackAdjustments() AdjustmentSet {
	return AdjustmentSet{
		Brightness: Int(5),
		Contrast:   Int(5),
		Saturation: Int(autoSaturation),
		Sharpness:  Int(autoSharpness),
	}
}

// Estimate suggests adjustments that move the image towards mid brightness
// and a fuller tonal range.
//
// It averages R, G and B over all pixels and tracks each channel's minimum
// and maximum. Fully transparent pixels count as black, as they do when read
// back from a canvas.
//
//	avgBrightness = (0.299*avgR + 0.587*avgG + 0.114*avgB) / 2.55
//	avgContrast   = (mean of maxima - mean of minima) / 2.55
//	brightness    = round(50 - avgBrightness)
//	contrast      = round(clamp(0.5*(50 - avgContrast), -20, 20))
//
// Saturation and sharpness are always 10 and 15.
func Estimate(b *Buffer) AdjustmentSet {
	var totalR, totalG, totalB float64
	minR, minG, minB := 255, 255, 255
	maxR, maxG, maxB := 0, 0, 0

	pix := b.pix()
	for i := 0; i < len(pix); i += 4 {
		var r, g, bl int
		if pix[i+3] != 0 {
			r, g, bl = int(pix[i]), int(pix[i+1]), int(pix[i+2])
		}
		totalR += float64(r)
		totalG += float64(g)
		totalB += float64(bl)

		minR, maxR = min(minR, r), max(maxR, r)
		minG, maxG = min(minG, g), max(maxG, g)
		minB, maxB = min(minB, bl), max(maxB, bl)
	}

	count := float64(len(pix) / 4)
	avgR := totalR / count
	avgG := totalG / count
	avgB := totalB / count

	avgBrightness := (0.299*avgR + 0.587*avgG + 0.114*avgB) / 2.55
	avgContrast := (float64(maxR+maxG+maxB)/3 - float64(minR+minG+minB)/3) / 2.55

	brightness := 50 - avgBrightness
	contrast := math.Min(20, math.Max(-20, (50-avgContrast)*0.5))

	return AdjustmentSet{
		Brightness: Int(roundHalfUp(brightness)),
		Contrast:   Int(roundHalfUp(contrast)),
		Saturation: Int(autoSaturation),
		Sharpness:  Int(autoSharpness),
	}
}

// Estimate loads src and estimates adjustments for it. Load or decode
// failures are not returned: the fallback set is used instead and the error
// is logged.
func (l *Loader) Estimate(ctx context.Context, src any) AdjustmentSet {
	b, err := l.Load(ctx, src)
	if err != nil {
		if l.Log != nil {
			l.Log.WithError(err).Warn("auto-adjust fell back to default adjustments")
		}
		return FallbackAdjustments()
	}
	return Estimate(b)
}

// roundHalfUp rounds .5 towards positive infinity, like JavaScript's
// Math.round.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
