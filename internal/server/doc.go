// Package server implements the MCP (Model Context Protocol) server for the
// photo studio tools.
//
// This package provides a JSON-RPC 2.0 server that exposes product-photo
// editing through the MCP protocol: geometric transforms, tonal adjustments,
// masks and borders, compositing, background removal and undoable editing
// sessions.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image tools take an "image" argument that may be a data URI, an http(s)
// URL, a site-relative path or a local file path, and return the result as a
// PNG data URI together with its dimensions.
//
// Information:
//   - image_info
//
// Transforms and adjustments:
//   - image_rotate, image_flip
//   - image_adjust_brightness, image_adjust_contrast,
//     image_adjust_saturation, image_adjust_sharpness
//   - image_apply_adjustments, image_auto_adjust
//
// Region and size:
//   - image_crop, image_crop_quadrant, image_resize, image_export
//
// Masks, borders and looks:
//   - image_corner_radius, image_border, image_filter
//
// Compositing:
//   - image_composite, image_background_fill
//
// Color and measurement:
//   - image_sample_color, image_dominant_color, image_palette
//   - image_ruler, image_measure_distance
//
// Background removal (remove.bg):
//   - image_remove_background, image_batch_remove_background,
//     image_replace_background
//
// Editing sessions:
//   - editor_open, editor_apply, editor_undo, editor_redo, editor_state,
//     editor_close
//
// # Error Handling
//
// Tool errors are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments, -32000 for any other tool failure,
//     -32601 for unknown methods
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    logrus.Fatal(err)
//	}
//	srv := server.New(cfg, logrus.StandardLogger())
//	if err := srv.Run(context.Background()); err != nil {
//	    logrus.Fatal(err)
//	}
package server
