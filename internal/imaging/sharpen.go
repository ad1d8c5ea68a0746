package imaging

// AdjustSharpness applies a Laplacian sharpen of strength value in [0,100].
//
// Each interior pixel gains (5*center - top - bottom - left - right) scaled
// by value/100*0.5 on its R, G and B channels. Neighbors are read from the
// unmodified input. The first and last rows and columns are copied as-is and
// value 0 returns an unchanged copy.
func AdjustSharpness(b *Buffer, value int) *Buffer {
	value = clampInt(value, 0, 100)
	out := b.Clone()
	if value == 0 {
		return out
	}

	src := b.pix()
	dst := out.pix()
	width := b.Width()
	height := b.Height()
	stride := b.img.Stride
	factor := float64(value) / 100 * 0.5

	for y := 1; y < height-1; y++ {
		for x := 1; x < width-1; x++ {
			idx := y*stride + x*4
			for c := 0; c < 3; c++ {
				center := float64(src[idx+c])
				top := float64(src[idx-stride+c])
				bottom := float64(src[idx+stride+c])
				left := float64(src[idx-4+c])
				right := float64(src[idx+4+c])

				laplacian := center*5 - (top + bottom + left + right)
				dst[idx+c] = clampChannel(center + laplacian*factor)
			}
		}
	}
	return out
}
