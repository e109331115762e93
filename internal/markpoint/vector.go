package markpoint

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// unitVector returns the normalized vector from a to b.
// Coincident points have no direction and yield ErrDegenerateGeometry.
func unitVector(a, b MarkingPoint) ([]float64, error) {
	v := []float64{b.X - a.X, b.Y - a.Y}
	n := floats.Norm(v, 2)
	if n == 0 {
		return nil, fmt.Errorf("%w: coincident points at (%g, %g)", ErrDegenerateGeometry, a.X, a.Y)
	}
	floats.Scale(1/n, v)
	return v, nil
}
