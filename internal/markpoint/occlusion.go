package markpoint

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// DefaultCollinearityThresh is the dot product above which a third point counts
// as lying on the segment between two others.
const DefaultCollinearityThresh = 0.8

// PassesThroughThirdPoint reports whether the segment from points[i] to points[j]
// passes through any other point.
//
// For each k other than i and j, the unit vectors i→k and k→j are compared; a dot
// product above thresh means k sits between i and j and the check stops. Returns
// ErrDegenerateGeometry if k coincides with i or j, and ErrInvalidIndex if i or j
// is out of range or i == j.
func PassesThroughThirdPoint(points []MarkingPoint, i, j int, thresh float64) (bool, error) {
	if i < 0 || j < 0 || i >= len(points) || j >= len(points) || i == j {
		return false, fmt.Errorf("%w: (%d, %d) for %d points", ErrInvalidIndex, i, j, len(points))
	}

	for k, p := range points {
		if k == i || k == j {
			continue
		}
		v1, err := unitVector(points[i], p)
		if err != nil {
			return false, fmt.Errorf("point %d vs %d: %w", k, i, err)
		}
		v2, err := unitVector(p, points[j])
		if err != nil {
			return false, fmt.Errorf("point %d vs %d: %w", k, j, err)
		}
		if floats.Dot(v1, v2) > thresh {
			return true, nil
		}
	}
	return false, nil
}
