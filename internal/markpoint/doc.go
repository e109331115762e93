// Package markpoint turns the dense output grid of a marking-point detector into
// discrete, validated marking points and pairs them into parking-slot edges.
//
// The package implements a three-stage geometric pipeline:
//
//  1. Decoding: Decode scans a [C, H, W] grid and emits one candidate per cell whose
//     confidence reaches the point threshold, localized inside the cell by the offset
//     channels and (for the directional layout) oriented by the cos/sin channels.
//  2. Suppression: Suppress removes near-duplicate candidates using an absolute
//     per-axis proximity test in normalized coordinates rather than box IoU.
//  3. Pairing: EvaluatePair decides whether two points can form a slot edge and in
//     which direction, and PassesThroughThirdPoint rejects pairs whose segment is
//     crossed by a third point. FindSlots combines both over every pair.
//
// # Grid Layouts
//
// Two channel layouts are supported:
//
//	Directional (6 channels): [confidence, shape, offsetX, offsetY, cos, sin]
//	Positional  (4 channels): [confidence, offsetX, offsetY, unused]
//
// Any other channel count fails with ErrShapeMismatch.
//
// # Coordinate System
//
// Point coordinates are normalized to [0, 1]: x = (column + offsetX) / W and
// y = (row + offsetY) / H. The origin is the top-left corner of the grid, X grows
// rightward and Y grows downward. Directions are radians from atan2(sin, cos).
//
// # Suppression Order
//
// Suppress evaluates every unordered pair independently and never sorts by score,
// so with three or more mutually close candidates the surviving set can depend on
// the order in which Decode emitted them (row-major). This is kept as-is.
//
// # Errors
//
// All failures are deterministic and wrap one of the sentinel errors:
//   - ErrShapeMismatch: grid channel count is not 4 or 6, or data length is wrong
//   - ErrDegenerateGeometry: two coincident points produced a zero-length vector
//   - ErrInvalidShapeCategory: the shape classifier returned an out-of-contract value
//   - ErrInvalidIndex: a point index is out of range or repeated
//
// A failed call never returns a partial result.
//
// # Concurrency
//
// Every function is pure apart from reading its inputs and is safe for concurrent
// use. DetectBatch decodes independent grids in parallel; its output is identical
// to running Detect on each grid in sequence.
package markpoint
