package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ironsheep/photo-studio-mcp/internal/editor"
	"github.com/ironsheep/photo-studio-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_rotate", "editor_apply").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// paramError marks a failure caused by the caller's arguments.
type paramError struct {
	err error
}

func (e *paramError) Error() string { return e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func invalidParams(format string, args ...interface{}) error {
	return &paramError{err: fmt.Errorf(format, args...)}
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Bad arguments return JSON-RPC error -32602, any other tool failure -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	log := s.log.WithFields(logrus.Fields{
		"tool":     params.Name,
		"duration": time.Since(start),
	})
	if err != nil {
		log.WithError(err).Warn("tool failed")
		var pe *paramError
		if errors.As(err, &pe) {
			return s.errorResponse(req.ID, codeInvalidParams, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, codeToolFailed, "Tool execution failed", err.Error())
	}
	log.Debug("tool call finished")

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads the image source
//  4. Calls the appropriate imaging, removebg or editor function
//  5. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_info":
		return s.handleImageInfo(ctx, args)

	// Geometric Transforms
	case "image_rotate":
		return s.handleImageRotate(ctx, args)
	case "image_flip":
		return s.handleImageFlip(ctx, args)

	// Tonal Adjustments
	case "image_adjust_brightness":
		return s.handleImageTonal(ctx, args, imaging.AdjustBrightness)
	case "image_adjust_contrast":
		return s.handleImageTonal(ctx, args, imaging.AdjustContrast)
	case "image_adjust_saturation":
		return s.handleImageTonal(ctx, args, imaging.AdjustSaturation)
	case "image_adjust_sharpness":
		return s.handleImageTonal(ctx, args, imaging.AdjustSharpness)
	case "image_apply_adjustments":
		return s.handleImageApplyAdjustments(ctx, args)
	case "image_auto_adjust":
		return s.handleImageAutoAdjust(ctx, args)

	// Region and Size
	case "image_crop":
		return s.handleImageCrop(ctx, args)
	case "image_crop_quadrant":
		return s.handleImageCropQuadrant(ctx, args)
	case "image_resize":
		return s.handleImageResize(ctx, args)
	case "image_export":
		return s.handleImageExport(ctx, args)

	// Masks and Borders
	case "image_corner_radius":
		return s.handleImageCornerRadius(ctx, args)
	case "image_border":
		return s.handleImageBorder(ctx, args)

	// Compositing and Backgrounds
	case "image_composite":
		return s.handleImageComposite(ctx, args)
	case "image_background_fill":
		return s.handleImageBackgroundFill(ctx, args)
	case "image_filter":
		return s.handleImageFilter(ctx, args)

	// Color Operations
	case "image_sample_color":
		return s.handleImageSampleColor(ctx, args)
	case "image_dominant_color":
		return s.handleImageDominantColor(ctx, args)
	case "image_palette":
		return s.handleImagePalette(ctx, args)

	// Measurement and Annotation
	case "image_ruler":
		return s.handleImageRuler(ctx, args)
	case "image_measure_distance":
		return s.handleImageMeasureDistance(ctx, args)

	// Background Removal
	case "image_remove_background":
		return s.handleImageRemoveBackground(ctx, args)
	case "image_batch_remove_background":
		return s.handleImageBatchRemoveBackground(ctx, args)
	case "image_replace_background":
		return s.handleImageReplaceBackground(ctx, args)

	// Editing Sessions
	case "editor_open":
		return s.handleEditorOpen(ctx, args)
	case "editor_apply":
		return s.handleEditorApply(ctx, args)
	case "editor_undo":
		return s.handleEditorStep(args, (*editor.Session).Undo)
	case "editor_redo":
		return s.handleEditorStep(args, (*editor.Session).Redo)
	case "editor_state":
		return s.handleEditorState(args)
	case "editor_close":
		return s.handleEditorClose(args)

	default:
		return nil, invalidParams("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return &paramError{err: fmt.Errorf("invalid arguments: %w", err)}
	}
	return nil
}

// imageArgs is embedded by every tool that takes a single image.
type imageArgs struct {
	Image string `json:"image"`
}

// load decodes the image argument.
func (s *Server) load(ctx context.Context, a imageArgs) (*imaging.Buffer, error) {
	if a.Image == "" {
		return nil, invalidParams("image is required")
	}
	return s.loader.Load(ctx, a.Image)
}

// loadArgs decodes args into v and loads its image.
func (s *Server) loadArgs(ctx context.Context, args json.RawMessage, v interface{ source() imageArgs }) (*imaging.Buffer, error) {
	if err := decodeArgs(args, v); err != nil {
		return nil, err
	}
	return s.load(ctx, v.source())
}

func (a *imageArgs) source() imageArgs { return *a }

// === Basic Image Information Handlers ===

func (s *Server) handleImageInfo(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Image == "" {
		return nil, invalidParams("image is required")
	}
	return s.loader.Info(ctx, a.Image)
}

// === Geometric Transform Handlers ===

type imageRotateArgs struct {
	imageArgs
	Degrees float64 `json:"degrees"`
}

func (s *Server) handleImageRotate(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResult(imaging.Rotate(img, a.Degrees))
}

type imageFlipArgs struct {
	imageArgs
	Axis string `json:"axis"`
}

func (s *Server) handleImageFlip(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageFlipArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	axis, err := imaging.ParseAxis(a.Axis)
	if err != nil {
		return nil, &paramError{err: err}
	}
	img, err := s.load(ctx, a.imageArgs)
	if err != nil {
		return nil, err
	}
	flipped, err := imaging.Flip(img, axis)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResult(flipped)
}

// === Tonal Adjustment Handlers ===

type imageValueArgs struct {
	imageArgs
	Value int `json:"value"`
}

func (s *Server) handleImageTonal(ctx context.Context, args json.RawMessage, fn func(*imaging.Buffer, int) *imaging.Buffer) (interface{}, error) {
	var a imageValueArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResult(fn(img, a.Value))
}

type imageApplyAdjustmentsArgs struct {
	imageArgs
	imaging.AdjustmentSet
}

func (s *Server) handleImageApplyAdjustments(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageApplyAdjustmentsArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResult(imaging.ApplyAll(img, a.AdjustmentSet))
}

type imageAutoAdjustArgs struct {
	imageArgs
	Apply bool `json:"apply"`
}

// autoAdjustResult is the estimator's suggestion, plus the adjusted image
// when requested.
type autoAdjustResult struct {
	Adjustments imaging.AdjustmentSet `json:"adjustments"`
	Image       *imaging.ImageResult  `json:"image,omitempty"`
}

func (s *Server) handleImageAutoAdjust(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageAutoAdjustArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Image == "" {
		return nil, invalidParams("image is required")
	}
	if !a.Apply {
		return &autoAdjustResult{Adjustments: s.loader.Estimate(ctx, a.Image)}, nil
	}

	img, err := s.load(ctx, a.imageArgs)
	if err != nil {
		return nil, err
	}
	set := imaging.Estimate(img)
	res, err := imaging.NewImageResult(imaging.ApplyAll(img, set))
	if err != nil {
		return nil, err
	}
	return &autoAdjustResult{Adjustments: set, Image: res}, nil
}

// === Region and Size Handlers ===

type imageCropArgs struct {
	imageArgs
	imaging.CropRegion
}

func (s *Server) handleImageCrop(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResult(imaging.Crop(img, a.CropRegion))
}

type imageCropQuadrantArgs struct {
	imageArgs
	Region string `json:"region"`
}

func (s *Server) handleImageCropQuadrant(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageCropQuadrantArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.CropQuadrant(img, a.Region)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return imaging.NewImageResult(cropped)
}

type imageResizeArgs struct {
	imageArgs
	MaxWidth  int    `json:"max_width"`
	MaxHeight int    `json:"max_height"`
	Format    string `json:"format"`
	Quality   int    `json:"quality"`
}

// defaultResizeQuality is the JPEG quality of resized images.
const defaultResizeQuality = 80

func (s *Server) handleImageResize(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageResizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.MaxWidth <= 0 && a.MaxHeight <= 0 {
		return nil, invalidParams("max_width or max_height is required")
	}
	format, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, &paramError{err: err}
	}
	if a.Quality == 0 {
		a.Quality = defaultResizeQuality
	}
	img, err := s.load(ctx, a.imageArgs)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResultAs(imaging.Fit(img, a.MaxWidth, a.MaxHeight), format, a.Quality)
}

type imageExportArgs struct {
	imageArgs
	Format  string `json:"format"`
	Quality int    `json:"quality"`
}

func (s *Server) handleImageExport(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageExportArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Format == "" {
		a.Format = s.cfg.Export.Format
	}
	if a.Quality == 0 {
		a.Quality = s.cfg.Export.JPEGQuality
	}
	format, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, &paramError{err: err}
	}
	if a.Quality < 1 || a.Quality > 100 {
		return nil, invalidParams("quality must be between 1 and 100, got %d", a.Quality)
	}
	img, err := s.load(ctx, a.imageArgs)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResultAs(img, format, a.Quality)
}

// === Mask and Border Handlers ===

type imageCornerRadiusArgs struct {
	imageArgs
	Radius      int  `json:"radius"`
	TopLeft     *int `json:"top_left"`
	TopRight    *int `json:"top_right"`
	BottomLeft  *int `json:"bottom_left"`
	BottomRight *int `json:"bottom_right"`
}

func (s *Server) handleImageCornerRadius(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageCornerRadiusArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	radii := imaging.Uniform(a.Radius)
	for _, c := range []struct {
		v   *int
		dst *int
	}{
		{a.TopLeft, &radii.TopLeft},
		{a.TopRight, &radii.TopRight},
		{a.BottomLeft, &radii.BottomLeft},
		{a.BottomRight, &radii.BottomRight},
	} {
		if c.v != nil {
			*c.dst = *c.v
		}
	}
	return imaging.NewImageResult(imaging.RoundCornersIndividually(img, radii))
}

type imageBorderArgs struct {
	imageArgs
	imaging.BorderSpec
}

func (s *Server) handleImageBorder(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageBorderArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	if a.Color == "" {
		a.Color = "#000000"
	}
	bordered, err := imaging.AddBorder(img, a.BorderSpec)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return imaging.NewImageResult(bordered)
}

// === Compositing and Background Handlers ===

type imageCompositeArgs struct {
	imageArgs
	Background string `json:"background"`
}

func (s *Server) handleImageComposite(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageCompositeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Image == "" || a.Background == "" {
		return nil, invalidParams("image and background are required")
	}
	out, err := s.loader.Composite(ctx, a.Image, a.Background)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResult(out)
}

type imageBackgroundFillArgs struct {
	imageArgs
	Color         string                    `json:"color"`
	GradientStart string                    `json:"gradient_start"`
	GradientEnd   string                    `json:"gradient_end"`
	Direction     imaging.GradientDirection `json:"direction"`
	Opacity       *int                      `json:"opacity"`
}

func (s *Server) handleImageBackgroundFill(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageBackgroundFillArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	opacity := 100
	if a.Opacity != nil {
		opacity = *a.Opacity
	}

	var bg *imaging.Buffer
	switch {
	case a.GradientStart != "" || a.GradientEnd != "":
		if a.GradientStart == "" || a.GradientEnd == "" {
			return nil, invalidParams("gradient_start and gradient_end must be given together")
		}
		bg, err = imaging.GradientBackground(img.Width(), img.Height(), a.GradientStart, a.GradientEnd, a.Direction, opacity)
	default:
		if a.Color == "" {
			a.Color = "#FFFFFF"
		}
		bg, err = imaging.SolidBackground(img.Width(), img.Height(), a.Color, opacity)
	}
	if err != nil {
		return nil, &paramError{err: err}
	}
	return imaging.NewImageResult(imaging.BackgroundFill(img, bg))
}

type imageFilterArgs struct {
	imageArgs
	Name string `json:"name"`
}

func (s *Server) handleImageFilter(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageFilterArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	filtered, err := imaging.ApplyFilter(img, a.Name)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return imaging.NewImageResult(filtered)
}

// === Color Operation Handlers ===

type imageSampleColorArgs struct {
	imageArgs
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

func (s *Server) handleImageDominantColor(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	return map[string]string{"color": imaging.DominantColor(img)}, nil
}

type imagePaletteArgs struct {
	imageArgs
	Count int `json:"count"`
}

func (s *Server) handleImagePalette(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imagePaletteArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	if a.Count <= 0 {
		a.Count = 5
	}
	return imaging.Palette(img, a.Count), nil
}

// === Measurement and Annotation Handlers ===

type imageRulerArgs struct {
	imageArgs
	imaging.RulerSpec
}

func (s *Server) handleImageRuler(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageRulerArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	out, err := imaging.DrawRuler(img, a.RulerSpec)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return imaging.NewImageResult(out)
}

type imageMeasureDistanceArgs struct {
	imageArgs
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

func (s *Server) handleImageMeasureDistance(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageMeasureDistanceArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	return imaging.MeasureDistance(img, imaging.Point{X: a.X1, Y: a.Y1}, imaging.Point{X: a.X2, Y: a.Y2}), nil
}

// === Background Removal Handlers ===

// cutoutResult describes a background-removal result.
type cutoutResult struct {
	DataURI  string `json:"data_uri"`
	MimeType string `json:"mime_type"`
}

func newCutoutResult(uri string) cutoutResult {
	return cutoutResult{DataURI: uri, MimeType: imaging.PNG.MimeType()}
}

func (s *Server) handleImageRemoveBackground(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Image == "" {
		return nil, invalidParams("image is required")
	}
	uri, err := s.removebg.RemoveBackground(ctx, a.Image)
	if err != nil {
		return nil, err
	}
	return newCutoutResult(uri), nil
}

type imageBatchArgs struct {
	Images []string `json:"images"`
}

func (s *Server) handleImageBatchRemoveBackground(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageBatchArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Images) == 0 {
		return nil, invalidParams("images must not be empty")
	}
	srcs := make([]any, len(a.Images))
	for i, img := range a.Images {
		srcs[i] = img
	}
	uris, err := s.removebg.BatchRemoveBackground(ctx, srcs)
	if err != nil {
		return nil, err
	}
	results := make([]cutoutResult, len(uris))
	for i, uri := range uris {
		results[i] = newCutoutResult(uri)
	}
	return map[string]interface{}{"results": results}, nil
}

func (s *Server) handleImageReplaceBackground(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageCompositeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Image == "" || a.Background == "" {
		return nil, invalidParams("image and background are required")
	}
	out, err := s.removebg.ReplaceBackground(ctx, a.Image, a.Background)
	if err != nil {
		return nil, err
	}
	return imaging.NewImageResult(out)
}

// === Editing Session Handlers ===

// editorResult is returned by every editor tool except editor_close.
type editorResult struct {
	editor.State
	Image *imaging.ImageResult `json:"image"`
}

func newEditorResult(sess *editor.Session, img *imaging.Buffer) (*editorResult, error) {
	res, err := imaging.NewImageResult(img)
	if err != nil {
		return nil, err
	}
	return &editorResult{State: sess.State(), Image: res}, nil
}

type editorSessionArgs struct {
	SessionID string `json:"session_id"`
}

func (s *Server) session(args json.RawMessage) (*editor.Session, error) {
	var a editorSessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.SessionID == "" {
		return nil, invalidParams("session_id is required")
	}
	sess, err := s.sessions.Get(a.SessionID)
	if err != nil {
		return nil, &paramError{err: err}
	}
	return sess, nil
}

func (s *Server) handleEditorOpen(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageArgs
	img, err := s.loadArgs(ctx, args, &a)
	if err != nil {
		return nil, err
	}
	sess, err := s.sessions.Open(img)
	if err != nil {
		return nil, err
	}
	return newEditorResult(sess, img)
}

type editorApplyArgs struct {
	editorSessionArgs
	Commands []json.RawMessage `json:"commands"`
}

func (s *Server) handleEditorApply(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a editorApplyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if len(a.Commands) == 0 {
		return nil, invalidParams("commands must not be empty")
	}
	cmds := make([]editor.Command, len(a.Commands))
	for i, raw := range a.Commands {
		cmd, err := editor.DecodeCommand(raw)
		if err != nil {
			return nil, invalidParams("command %d: %w", i, err)
		}
		cmds[i] = cmd
	}

	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	img, err := sess.ApplyBatch(ctx, cmds)
	if err != nil {
		return nil, err
	}
	return newEditorResult(sess, img)
}

func (s *Server) handleEditorStep(args json.RawMessage, step func(*editor.Session) (*imaging.Buffer, error)) (interface{}, error) {
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	img, err := step(sess)
	if err != nil {
		return nil, err
	}
	return newEditorResult(sess, img)
}

func (s *Server) handleEditorState(args json.RawMessage) (interface{}, error) {
	sess, err := s.session(args)
	if err != nil {
		return nil, err
	}
	return newEditorResult(sess, sess.Current())
}

func (s *Server) handleEditorClose(args json.RawMessage) (interface{}, error) {
	var a editorSessionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.sessions.Close(a.SessionID); err != nil {
		return nil, &paramError{err: err}
	}
	return map[string]interface{}{"closed": a.SessionID}, nil
}
