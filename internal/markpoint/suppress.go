package markpoint

import "math"

// DefaultSuppressionDist is the per-axis proximity (1/16 of the image) below which
// two points are treated as the same detection.
const DefaultSuppressionDist = 0.0625

// Suppress removes near-duplicate points.
//
// Every unordered pair (i, j), i < j, whose coordinates differ by less than dist on
// both axes marks its lower-scoring member as suppressed; on equal scores the
// earlier point i is the one marked. Marks accumulate and are never cleared.
// Survivors keep their relative order. When nothing is suppressed the input slice
// itself is returned.
//
// The pairs are not pre-sorted by score, so clusters of three or more mutually
// close points can resolve differently depending on input order.
func Suppress(points []MarkingPoint, dist float64) []MarkingPoint {
	n := len(points)
	suppressed := make([]bool, n)
	dropped := false

	for i := 0; i < n-1; i++ {
		for j := i + 1; j < n; j++ {
			dx := math.Abs(points[j].X - points[i].X)
			dy := math.Abs(points[j].Y - points[i].Y)
			if !(dx < dist && dy < dist) {
				continue
			}
			idx := j
			if points[i].Score <= points[j].Score {
				idx = i
			}
			suppressed[idx] = true
			dropped = true
		}
	}

	if !dropped {
		return points
	}

	kept := make([]MarkingPoint, 0, n)
	for i, s := range suppressed {
		if !s {
			kept = append(kept, points[i])
		}
	}
	return kept
}
