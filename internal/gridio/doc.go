// Package gridio loads detector output grids from disk for the MCP tools.
//
// Two sources are supported:
//
//   - JSON tensor files, either flat ({"shape": [C, H, W], "data": [...]}) or nested
//     ({"values": [[[...]]]}, as produced by numpy's tolist()).
//   - One grayscale image per channel (PNG, JPEG, GIF, BMP or TIFF). Pixel intensities
//     0..255 are mapped linearly onto a per-channel value range; by default [0, 1],
//     except the cos/sin channels of the directional layout which map onto [-1, 1].
//
// # Caching
//
// GridCache keeps decoded grids keyed by their source path(s) so repeated tool calls
// against the same detector output skip disk I/O. It is safe for concurrent use.
// Cached grids are shared and must be treated as read-only.
package gridio
