package markpoint

import (
	"fmt"

	"github.com/ironsheep/markpoint-mcp/internal/shape"
)

// Verdict is the outcome of evaluating whether two points form a slot edge.
type Verdict int

const (
	// VerdictNone means the points cannot form an edge.
	VerdictNone Verdict = 0

	// VerdictAtoB means the edge runs from the first point to the second.
	VerdictAtoB Verdict = 1

	// VerdictBtoA means the edge runs from the second point to the first.
	VerdictBtoA Verdict = -1
)

func (v Verdict) String() string {
	switch v {
	case VerdictAtoB:
		return "a_to_b"
	case VerdictBtoA:
		return "b_to_a"
	default:
		return "none"
	}
}

// Reverse returns the verdict for the same pair with its points swapped.
func (v Verdict) Reverse() Verdict {
	return -v
}

func shapePoint(p MarkingPoint) shape.Point {
	return shape.Point{Direction: p.Direction, Directional: p.Directional, Shape: p.Shape}
}

// EvaluatePair classifies a against the unit direction a→b and b against b→a,
// then combines the two categories:
//
//	either None                 -> VerdictNone
//	both Neutral                -> VerdictNone
//	both above or both below    -> VerdictNone
//	a not Neutral               -> AtoB if a above Neutral, else BtoA
//	a Neutral                   -> AtoB if b below Neutral, else BtoA
//
// Returns ErrDegenerateGeometry for coincident points and ErrInvalidShapeCategory
// if the classifier returns an undefined category.
func EvaluatePair(a, b MarkingPoint, c shape.Classifier) (Verdict, error) {
	ab, err := unitVector(a, b)
	if err != nil {
		return VerdictNone, err
	}

	sa := c.Classify(shapePoint(a), ab[0], ab[1])
	sb := c.Classify(shapePoint(b), -ab[0], -ab[1])
	if !sa.Valid() || !sb.Valid() {
		return VerdictNone, fmt.Errorf("%w: got %s and %s", ErrInvalidShapeCategory, sa, sb)
	}

	return combine(sa, sb), nil
}

func combine(sa, sb shape.Category) Verdict {
	switch {
	case sa == shape.None || sb == shape.None:
		return VerdictNone
	case sa == shape.Neutral && sb == shape.Neutral:
		return VerdictNone
	case sa > shape.Neutral && sb > shape.Neutral:
		return VerdictNone
	case sa < shape.Neutral && sb < shape.Neutral:
		return VerdictNone
	}

	if sa != shape.Neutral {
		if sa > shape.Neutral {
			return VerdictAtoB
		}
		return VerdictBtoA
	}
	if sb < shape.Neutral {
		return VerdictAtoB
	}
	return VerdictBtoA
}
