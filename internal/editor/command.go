package editor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/photo-studio-mcp/internal/imaging"
)

// Command is one editing step.
type Command interface {
	// Op returns the command's tag as used in JSON.
	Op() string
	command()
}

// Rotate rotates clockwise by Degrees.
type Rotate struct {
	Degrees float64 `json:"degrees"`
}

// Flip mirrors the image along Axis ("horizontal" or "vertical").
type Flip struct {
	Axis string `json:"axis"`
}

// Brightness shifts every channel by Value percent (-100..100).
type Brightness struct {
	Value int `json:"value"`
}

// Contrast stretches or compresses the tonal range (-100..100).
type Contrast struct {
	Value int `json:"value"`
}

// Saturation scales color intensity (-100..100).
type Saturation struct {
	Value int `json:"value"`
}

// Sharpness applies the Laplacian sharpen (0..100).
type Sharpness struct {
	Value int `json:"value"`
}

// Adjust applies several tonal adjustments in one pass.
type Adjust struct {
	imaging.AdjustmentSet
}

// AutoAdjust estimates adjustments from the current image and applies them.
type AutoAdjust struct{}

// Crop keeps a rectangular region.
type Crop struct {
	imaging.CropRegion
}

// CornerRadius rounds all four corners by Radius pixels.
type CornerRadius struct {
	Radius int `json:"radius"`
}

// CornerRadii rounds each corner by its own radius.
type CornerRadii struct {
	imaging.CornerRadii
}

// Border pads the image and strokes a border over the padding.
type Border struct {
	imaging.BorderSpec
}

// Filter applies a named preset look.
type Filter struct {
	Name string `json:"name"`
}

// Composite places the image over Background, which is any source the
// session's loader accepts.
type Composite struct {
	Background string `json:"background"`
}

// Resize scales the image down to fit MaxWidth x MaxHeight. A zero limit
// leaves that dimension unconstrained.
type Resize struct {
	MaxWidth  int `json:"max_width"`
	MaxHeight int `json:"max_height"`
}

func (Rotate) Op() string       { return "rotate" }
func (Flip) Op() string         { return "flip" }
func (Brightness) Op() string   { return "brightness" }
func (Contrast) Op() string     { return "contrast" }
func (Saturation) Op() string   { return "saturation" }
func (Sharpness) Op() string    { return "sharpness" }
func (Adjust) Op() string       { return "adjust" }
func (AutoAdjust) Op() string   { return "auto_adjust" }
func (Crop) Op() string         { return "crop" }
func (CornerRadius) Op() string { return "corner_radius" }
func (CornerRadii) Op() string  { return "corner_radii" }
func (Border) Op() string       { return "border" }
func (Filter) Op() string       { return "filter" }
func (Composite) Op() string    { return "composite" }
func (Resize) Op() string       { return "resize" }

func (Rotate) command()       {}
func (Flip) command()         {}
func (Brightness) command()   {}
func (Contrast) command()     {}
func (Saturation) command()   {}
func (Sharpness) command()    {}
func (Adjust) command()       {}
func (AutoAdjust) command()   {}
func (Crop) command()         {}
func (CornerRadius) command() {}
func (CornerRadii) command()  {}
func (Border) command()       {}
func (Filter) command()       {}
func (Composite) command()    {}
func (Resize) command()       {}

// decoders maps op tags to zero-value constructors.
var decoders = map[string]func() Command{
	"rotate":        func() Command { return &Rotate{} },
	"flip":          func() Command { return &Flip{} },
	"brightness":    func() Command { return &Brightness{} },
	"contrast":      func() Command { return &Contrast{} },
	"saturation":    func() Command { return &Saturation{} },
	"sharpness":     func() Command { return &Sharpness{} },
	"adjust":        func() Command { return &Adjust{} },
	"auto_adjust":   func() Command { return &AutoAdjust{} },
	"crop":          func() Command { return &Crop{} },
	"corner_radius": func() Command { return &CornerRadius{} },
	"corner_radii":  func() Command { return &CornerRadii{} },
	"border":        func() Command { return &Border{} },
	"filter":        func() Command { return &Filter{} },
	"composite":     func() Command { return &Composite{} },
	"resize":        func() Command { return &Resize{} },
}

// ErrUnknownOp is returned by DecodeCommand for an unrecognised op.
var ErrUnknownOp = errors.New("unknown editor op")

// DecodeCommand parses a JSON object of the form {"op": "...", ...}.
func DecodeCommand(data []byte) (Command, error) {
	var head struct {
		Op string `json:"op"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("invalid command: %w", err)
	}
	op := strings.ToLower(strings.TrimSpace(head.Op))
	newCmd, ok := decoders[op]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, head.Op)
	}
	ptr := newCmd()
	if err := json.Unmarshal(data, ptr); err != nil {
		return nil, fmt.Errorf("invalid %s command: %w", op, err)
	}
	return deref(ptr), nil
}

// deref returns the value form of a command decoded through a pointer.
func deref(c Command) Command {
	switch v := c.(type) {
	case *Rotate:
		return *v
	case *Flip:
		return *v
	case *Brightness:
		return *v
	case *Contrast:
		return *v
	case *Saturation:
		return *v
	case *Sharpness:
		return *v
	case *Adjust:
		return *v
	case *AutoAdjust:
		return *v
	case *Crop:
		return *v
	case *CornerRadius:
		return *v
	case *CornerRadii:
		return *v
	case *Border:
		return *v
	case *Filter:
		return *v
	case *Composite:
		return *v
	case *Resize:
		return *v
	}
	return c
}

// Apply runs cmd against b and returns the result. loader is only used by
// Composite and may be nil otherwise.
func Apply(ctx context.Context, loader *imaging.Loader, b *imaging.Buffer, cmd Command) (*imaging.Buffer, error) {
	switch c := cmd.(type) {
	case Rotate:
		return imaging.Rotate(b, c.Degrees), nil
	case Flip:
		axis, err := imaging.ParseAxis(c.Axis)
		if err != nil {
			return nil, err
		}
		return imaging.Flip(b, axis)
	case Brightness:
		return imaging.AdjustBrightness(b, c.Value), nil
	case Contrast:
		return imaging.AdjustContrast(b, c.Value), nil
	case Saturation:
		return imaging.AdjustSaturation(b, c.Value), nil
	case Sharpness:
		return imaging.AdjustSharpness(b, c.Value), nil
	case Adjust:
		return imaging.ApplyAll(b, c.AdjustmentSet), nil
	case AutoAdjust:
		return imaging.ApplyAll(b, imaging.Estimate(b)), nil
	case Crop:
		return imaging.Crop(b, c.CropRegion), nil
	case CornerRadius:
		return imaging.RoundCorners(b, c.Radius), nil
	case CornerRadii:
		return imaging.RoundCornersIndividually(b, c.CornerRadii), nil
	case Border:
		if c.Color == "" {
			c.Color = "#000000"
		}
		return imaging.AddBorder(b, c.BorderSpec)
	case Filter:
		return imaging.ApplyFilter(b, c.Name)
	case Composite:
		if c.Background == "" {
			return nil, errors.New("composite requires a background")
		}
		if loader == nil {
			loader = &imaging.Loader{}
		}
		bg, err := loader.Load(ctx, c.Background)
		if err != nil {
			return nil, &imaging.LoadError{Source: "background", Err: err}
		}
		return imaging.Composite(b, bg), nil
	case Resize:
		if c.MaxWidth <= 0 && c.MaxHeight <= 0 {
			return nil, errors.New("resize requires max_width or max_height")
		}
		return imaging.Fit(b, c.MaxWidth, c.MaxHeight), nil
	case nil:
		return nil, errors.New("nil command")
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownOp, cmd)
	}
}
