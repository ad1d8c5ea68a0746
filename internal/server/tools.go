package server

import "github.com/ironsheep/photo-studio-mcp/internal/imaging"

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// imageProp is the source argument shared by every image tool.
var imageProp = map[string]interface{}{
	"type":        "string",
	"description": "Image source: data URI, http(s) URL, site-relative path (/images/a.png) or local file path",
}

func intProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "integer", "description": desc}
}

func numberProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "number", "description": desc}
}

func stringProp(desc string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc}
}

func enumProp(desc string, values ...string) map[string]interface{} {
	return map[string]interface{}{"type": "string", "description": desc, "enum": values}
}

// schema builds an object schema. Every tool that takes "image" requires it.
func schema(props map[string]interface{}, required ...string) map[string]interface{} {
	if required == nil {
		required = []string{}
	}
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

// imageSchema is schema with the image source added and required.
func imageSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	all := map[string]interface{}{"image": imageProp}
	for k, v := range props {
		all[k] = v
	}
	return schema(all, append([]string{"image"}, required...)...)
}

var sessionSchema = schema(map[string]interface{}{
	"session_id": stringProp("ID returned by editor_open"),
}, "session_id")

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_info",
			Description: "Load an image and return its width, height, format, whether it has transparency and its encoded size.",
			InputSchema: imageSchema(nil),
		},

		// Geometric Transforms
		{
			Name:        "image_rotate",
			Description: "Rotate an image clockwise. Multiples of 90 degrees are exact; other angles enlarge the canvas and leave the corners transparent.",
			InputSchema: imageSchema(map[string]interface{}{
				"degrees": numberProp("Clockwise rotation in degrees (negative rotates counter-clockwise)"),
			}, "degrees"),
		},
		{
			Name:        "image_flip",
			Description: "Mirror an image horizontally (left-right) or vertically (top-bottom).",
			InputSchema: imageSchema(map[string]interface{}{
				"axis": enumProp("Flip axis", "horizontal", "vertical"),
			}, "axis"),
		},

		// Tonal Adjustments
		{
			Name:        "image_adjust_brightness",
			Description: "Shift every color channel by value percent of full scale. Alpha is unchanged.",
			InputSchema: imageSchema(map[string]interface{}{
				"value": intProp("Brightness from -100 to 100"),
			}, "value"),
		},
		{
			Name:        "image_adjust_contrast",
			Description: "Stretch or compress the tonal range around mid-gray. Values outside -100..100 are clamped.",
			InputSchema: imageSchema(map[string]interface{}{
				"value": intProp("Contrast from -100 to 100"),
			}, "value"),
		},
		{
			Name:        "image_adjust_saturation",
			Description: "Scale color intensity around each pixel's luminance. -100 gives grayscale.",
			InputSchema: imageSchema(map[string]interface{}{
				"value": intProp("Saturation from -100 to 100"),
			}, "value"),
		},
		{
			Name:        "image_adjust_sharpness",
			Description: "Sharpen with a Laplacian kernel. 0 returns an unchanged copy.",
			InputSchema: imageSchema(map[string]interface{}{
				"value": intProp("Sharpness from 0 to 100"),
			}, "value"),
		},
		{
			Name:        "image_apply_adjustments",
			Description: "Apply brightness, contrast, saturation and sharpness in one pass. Omitted values are left untouched.",
			InputSchema: imageSchema(map[string]interface{}{
				"brightness": intProp("Brightness from -100 to 100"),
				"contrast":   intProp("Contrast from -100 to 100"),
				"saturation": intProp("Saturation from -100 to 100"),
				"sharpness":  intProp("Sharpness from 0 to 100"),
			}),
		},
		{
			Name:        "image_auto_adjust",
			Description: "Suggest brightness, contrast, saturation and sharpness for a product photo. Set apply to also return the adjusted image.",
			InputSchema: imageSchema(map[string]interface{}{
				"apply": map[string]interface{}{
					"type":        "boolean",
					"description": "Return the image with the suggested adjustments applied",
					"default":     false,
				},
			}),
		},

		// Region and Size
		{
			Name:        "image_crop",
			Description: "Crop a rectangular region. The region is clamped to the image, so out-of-range values never fail.",
			InputSchema: imageSchema(map[string]interface{}{
				"x":      intProp("Left edge X coordinate (0-based)"),
				"y":      intProp("Top edge Y coordinate (0-based)"),
				"width":  intProp("Region width in pixels"),
				"height": intProp("Region height in pixels"),
			}, "x", "y", "width", "height"),
		},
		{
			Name:        "image_crop_quadrant",
			Description: "Crop a named region of the image.",
			InputSchema: imageSchema(map[string]interface{}{
				"region": enumProp("Region to extract",
					"top-left", "top-right", "bottom-left", "bottom-right",
					"top-half", "bottom-half", "left-half", "right-half", "center"),
			}, "region"),
		},
		{
			Name:        "image_resize",
			Description: "Scale an image down to fit the given bounds, keeping its aspect ratio. Never enlarges.",
			InputSchema: imageSchema(map[string]interface{}{
				"max_width":  intProp("Maximum width in pixels (0 = unconstrained)"),
				"max_height": intProp("Maximum height in pixels (0 = unconstrained)"),
				"format":     enumProp("Output format", "png", "jpeg"),
				"quality":    intProp("JPEG quality 1-100 (default 80)"),
			}),
		},
		{
			Name:        "image_export",
			Description: "Re-encode an image as PNG or JPEG and return it as a data URI.",
			InputSchema: imageSchema(map[string]interface{}{
				"format":  enumProp("Output format (default from configuration)", "png", "jpeg"),
				"quality": intProp("JPEG quality 1-100 (default from configuration)"),
			}),
		},

		// Masks and Borders
		{
			Name:        "image_corner_radius",
			Description: "Round the corners of an image. Pixels outside the rounded rectangle become transparent. Give radius for all corners or per-corner radii.",
			InputSchema: imageSchema(map[string]interface{}{
				"radius":       intProp("Radius for all four corners in pixels"),
				"top_left":     intProp("Top-left radius (overrides radius)"),
				"top_right":    intProp("Top-right radius (overrides radius)"),
				"bottom_left":  intProp("Bottom-left radius (overrides radius)"),
				"bottom_right": intProp("Bottom-right radius (overrides radius)"),
			}),
		},
		{
			Name:        "image_border",
			Description: "Pad the image by width on every side and stroke a solid, dashed or dotted border over the padding.",
			InputSchema: imageSchema(map[string]interface{}{
				"width": intProp("Border width in pixels"),
				"color": stringProp("Border color: #RGB, #RGBA, #RRGGBB, #RRGGBBAA, rgb(r,g,b), rgba(r,g,b,a) or a CSS color name. Default #000000"),
				"style": enumProp("Stroke pattern (default solid)", "solid", "dashed", "dotted"),
			}, "width"),
		},

		// Compositing and Backgrounds
		{
			Name:        "image_composite",
			Description: "Place an image (usually a cut-out with a transparent background) over a background image. The background is stretched to the foreground's size.",
			InputSchema: imageSchema(map[string]interface{}{
				"background": stringProp("Background image source"),
			}, "background"),
		},
		{
			Name:        "image_background_fill",
			Description: "Place an image over a generated solid or gradient background of the same size. Give color for a solid fill or gradient_start and gradient_end for a gradient.",
			InputSchema: imageSchema(map[string]interface{}{
				"color":          stringProp("Solid background color"),
				"gradient_start": stringProp("Gradient start color"),
				"gradient_end":   stringProp("Gradient end color"),
				"direction": enumProp("Gradient direction (default to-right)",
					string(imaging.ToRight), string(imaging.ToLeft), string(imaging.ToBottom), string(imaging.ToTop),
					string(imaging.ToBottomRight), string(imaging.ToBottomLeft), string(imaging.ToTopRight),
					string(imaging.ToTopLeft), string(imaging.Radial)),
				"opacity": intProp("Background opacity percent 0-100 (default 100)"),
			}),
		},
		{
			Name:        "image_filter",
			Description: "Apply a preset look. Transparency is preserved.",
			InputSchema: imageSchema(map[string]interface{}{
				"name": enumProp("Preset name", imaging.FilterNames()...),
			}, "name"),
		},

		// Color Operations
		{
			Name:        "image_sample_color",
			Description: "Get the color at a pixel as hex, RGB, RGBA and HSL.",
			InputSchema: imageSchema(map[string]interface{}{
				"x": intProp("X coordinate"),
				"y": intProp("Y coordinate"),
			}, "x", "y"),
		},
		{
			Name:        "image_dominant_color",
			Description: "Return the most frequent opaque color as a hex string, useful for picking a matching background.",
			InputSchema: imageSchema(nil),
		},
		{
			Name:        "image_palette",
			Description: "Extract the most common colors, ignoring transparent pixels.",
			InputSchema: imageSchema(map[string]interface{}{
				"count": intProp("Number of colors to return (default 5)"),
			}),
		},

		// Measurement and Annotation
		{
			Name:        "image_ruler",
			Description: "Draw a dimension ruler along one edge with end caps, a centre marker and a label such as \"12 cm\".",
			InputSchema: imageSchema(map[string]interface{}{
				"position": enumProp("Edge to draw along (default bottom)", "top", "bottom", "left", "right"),
				"style":    enumProp("Centre marker (default tick)", "dot", "tick", "long-tick", "dashed"),
				"value":    numberProp("Measured value"),
				"unit":     stringProp("Unit appended to the value, e.g. cm"),
				"text":     stringProp("Label text, overrides value and unit"),
				"color":    stringProp("Line and label color (default #000000)"),
			}),
		},
		{
			Name:        "image_measure_distance",
			Description: "Measure the distance and angle between two points, in pixels and as a percentage of the image size.",
			InputSchema: imageSchema(map[string]interface{}{
				"x1": intProp("Start X"),
				"y1": intProp("Start Y"),
				"x2": intProp("End X"),
				"y2": intProp("End Y"),
			}, "x1", "y1", "x2", "y2"),
		},

		// Background Removal
		{
			Name:        "image_remove_background",
			Description: "Remove the background with the remove.bg API. Returns a PNG with a transparent background. Requires REMOVEBG_API_KEY.",
			InputSchema: imageSchema(nil),
		},
		{
			Name:        "image_batch_remove_background",
			Description: "Remove the backgrounds of several images. Requests run in small concurrent batches with a pause between batches; results keep the input order.",
			InputSchema: schema(map[string]interface{}{
				"images": map[string]interface{}{
					"type":        "array",
					"items":       imageProp,
					"description": "Image sources",
				},
			}, "images"),
		},
		{
			Name:        "image_replace_background",
			Description: "Remove the background of an image and place the cut-out over a new background.",
			InputSchema: imageSchema(map[string]interface{}{
				"background": stringProp("Background image source"),
			}, "background"),
		},

		// Editing Sessions
		{
			Name:        "editor_open",
			Description: "Start an editing session with undo and redo. Returns a session_id for the other editor tools.",
			InputSchema: imageSchema(nil),
		},
		{
			Name: "editor_apply",
			Description: "Apply one or more commands to a session. Each command is an object with an op field: " +
				"rotate{degrees}, flip{axis}, brightness{value}, contrast{value}, saturation{value}, sharpness{value}, " +
				"adjust{brightness,contrast,saturation,sharpness}, auto_adjust, crop{x,y,width,height}, corner_radius{radius}, " +
				"corner_radii{top_left,top_right,bottom_left,bottom_right}, border{width,color,style}, filter{name}, " +
				"composite{background}, resize{max_width,max_height}.",
			InputSchema: schema(map[string]interface{}{
				"session_id": stringProp("ID returned by editor_open"),
				"commands": map[string]interface{}{
					"type":        "array",
					"items":       map[string]interface{}{"type": "object"},
					"description": "Commands applied in order. If any command fails, none of them is applied",
				},
			}, "session_id", "commands"),
		},
		{
			Name:        "editor_undo",
			Description: "Step a session back one command.",
			InputSchema: sessionSchema,
		},
		{
			Name:        "editor_redo",
			Description: "Re-apply the last undone command of a session.",
			InputSchema: sessionSchema,
		},
		{
			Name:        "editor_state",
			Description: "Return a session's history and current image.",
			InputSchema: sessionSchema,
		},
		{
			Name:        "editor_close",
			Description: "End a session and free its history.",
			InputSchema: sessionSchema,
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
