package imaging

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
)

// Composite layers fg over bg.
//
// The output has the foreground's size. The background is first resampled
// to exactly fill that canvas, ignoring its aspect ratio, then the foreground
// is drawn on top at (0,0) without scaling. Transparent foreground pixels,
// typically the area cleared by background removal, reveal the background.
func Composite(fg, bg *Buffer) *Buffer {
	w, h := fg.Width(), fg.Height()

	var canvas *image.NRGBA
	if bg.Width() == w && bg.Height() == h {
		canvas = imaging.Clone(bg.img)
	} else {
		canvas = imaging.Resize(bg.img, w, h, imaging.Linear)
	}
	out := &Buffer{img: canvas}

	dst, src := out.pix(), fg.pix()
	for i := 0; i < len(dst); i += 4 {
		if a := src[i+3]; a == 0xff {
			copy(dst[i:i+4], src[i:i+4])
		} else if a != 0 {
			blendOver(dst[i:i+4], src[i], src[i+1], src[i+2], float64(a)/255)
		}
	}
	return out
}

// Composite loads both layers and composites them.
//
// Both sources are loaded completely before any drawing starts. A failure on
// either layer yields a *LoadError whose Source names the layer; the original
// cause (for example a *DecodeError) remains reachable through errors.As.
func (l *Loader) Composite(ctx context.Context, fgSrc, bgSrc any) (*Buffer, error) {
	fg, err := l.Load(ctx, fgSrc)
	if err != nil {
		return nil, &LoadError{Source: "foreground", Err: err}
	}
	bg, err := l.Load(ctx, bgSrc)
	if err != nil {
		return nil, &LoadError{Source: "background", Err: err}
	}
	return Composite(fg, bg), nil
}
