package markpoint

import "errors"

var (
	// ErrShapeMismatch reports a grid whose channel count matches neither supported layout.
	ErrShapeMismatch = errors.New("grid shape mismatch")

	// ErrDegenerateGeometry reports a zero-length vector, i.e. two coincident points.
	ErrDegenerateGeometry = errors.New("degenerate geometry")

	// ErrInvalidShapeCategory reports a classifier result outside the ordinal contract.
	ErrInvalidShapeCategory = errors.New("invalid shape category")

	// ErrInvalidIndex reports a point index that is out of range or repeated.
	ErrInvalidIndex = errors.New("invalid point index")
)
