// Package editor keeps per-image editing sessions with undo and redo.
//
// An edit is a Command: a small tagged value such as Rotate{Degrees: 90} or
// Border{Width: 4, Color: "#000"}. Commands are applied by Apply, which maps
// each one onto the matching imaging operation. The set of commands is
// closed; Command cannot be implemented outside this package.
//
// A Session holds the image it was opened with plus an append-only log of
// applied commands and their results. Undo and Redo move a cursor through
// that log. Applying a command after an undo discards the commands that
// could have been redone.
//
// Commands arrive over MCP as JSON objects with an "op" field:
//
//	{"op": "rotate", "degrees": 90}
//	{"op": "border", "width": 4, "color": "#000000", "style": "dashed"}
//
// DecodeCommand turns such an object into a Command.
package editor
