package imaging

// AdjustmentSet is a batch of tonal adjustments. A nil field leaves that
// channel untouched.
type AdjustmentSet struct {
	Brightness *int `json:"brightness,omitempty"` // -100..100
	Contrast   *int `json:"contrast,omitempty"`   // -100..100
	Saturation *int `json:"saturation,omitempty"` // -100..100
	Sharpness  *int `json:"sharpness,omitempty"`  // 0..100
}

// Int returns a pointer to v, for building AdjustmentSet literals.
func Int(v int) *int { return &v }

// IsEmpty reports whether no adjustment is set.
func (s AdjustmentSet) IsEmpty() bool {
	return s.Brightness == nil && s.Contrast == nil && s.Saturation == nil && s.Sharpness == nil
}

// ApplyAll applies every adjustment in s and returns a single new buffer.
//
// Brightness, contrast and saturation run in that order over one working
// copy. Sharpness, when greater than zero, runs last as a separate pass over
// the finished tonal result because its kernel reads neighbouring pixels. An
// empty set yields a pixel-identical copy.
func ApplyAll(b *Buffer, s AdjustmentSet) *Buffer {
	out := b.Clone()
	pix := out.pix()

	if s.Brightness != nil {
		brightenInPlace(pix, *s.Brightness)
	}
	if s.Contrast != nil {
		contrastInPlace(pix, *s.Contrast)
	}
	if s.Saturation != nil {
		saturateInPlace(pix, *s.Saturation)
	}
	if s.Sharpness != nil && *s.Sharpness > 0 {
		out = AdjustSharpness(out, *s.Sharpness)
	}
	return out
}
