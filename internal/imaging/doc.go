// Package imaging implements the raster engine behind the photo studio tools.
//
// Every operation works on a Buffer: a decoded, non-premultiplied RGBA image
// anchored at (0,0). Operations never mutate their input. Each one returns a
// fresh Buffer, so the same Buffer can be shared by concurrent readers and
// chained through any number of transforms.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Rotation angles are in
// degrees, positive values rotate clockwise.
//
// # Sources
//
// A Loader turns caller-supplied sources into Buffers:
//   - data URIs ("data:image/png;base64,...")
//   - http(s) and protocol-relative URLs
//   - site-relative paths (resolved against Loader.SiteBaseURL) or local files
//   - raw bytes, io.Reader, image.Image or an existing *Buffer
//
// Decoding happens exactly once per call. There is no cache; results are
// scoped to the call that produced them.
//
// # Error Handling
//
// Load failures are reported as *LoadError, undecodable data as
// *DecodeError and unknown source types as *UnsupportedSourceError. All of
// them unwrap to the underlying cause and are meant to be inspected with
// errors.As.
//
// # Channel Arithmetic
//
// Tonal and spatial adjustments compute in float64 and round half-to-even
// before clamping to [0,255], the same way an HTML canvas stores results in a
// Uint8ClampedArray. Alpha is never touched by tonal adjustments.
package imaging
