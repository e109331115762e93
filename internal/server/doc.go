// Package server implements the MCP (Model Context Protocol) server for the
// marking-point pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes grid decoding, point
// suppression and slot pairing through the MCP protocol, so MCP clients can run
// detector post-processing on grids written to disk or passed inline.
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
// Grid Information:
//   - markpoint_grid_info: Shape and layout of a grid file
//
// Pipeline Stages:
//   - markpoint_decode: Grid to marking points (optionally without suppression)
//   - markpoint_suppress: Remove near-duplicate points
//   - markpoint_pair: Slot edge verdict for two points
//   - markpoint_occlusion: Third-point check for a pair
//
// Full Pipeline:
//   - markpoint_detect_slots: Grid to points and directed slot edges
//   - markpoint_detect_batch: Parallel decoding of several grid files
//
// Visualization:
//   - markpoint_render_overlay: Points and slots drawn on the camera image (base64 PNG)
//
// # Grid Sources
//
// Tools that read a grid accept exactly one of:
//   - path: a grid JSON file
//   - channel_paths: one grayscale image per channel
//   - values: an inline [C][H][W] array
//
// File-backed grids are cached for the lifetime of the process.
//
// # Parameters
//
// Thresholds omitted from a tool call fall back to the config.Params the server
// was created with.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server
