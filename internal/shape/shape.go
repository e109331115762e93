// Package shape classifies the geometric role of a marking point with respect to a
// direction, which decides whether two points can be joined into a slot edge.
//
// Categories are ordinal. TMiddle (3) is the neutral value; categories below it
// and above it describe the two opposite roles a point can take on a slot edge.
// None (0) means the direction does not match any role.
package shape

import (
	"fmt"
	"math"
)

// Category is the ordinal shape class of a point relative to a direction.
type Category int

const (
	None Category = iota
	LDown
	TDown
	TMiddle
	TUp
	LUp
)

// Neutral is the category that takes neither side of a slot edge.
const Neutral = TMiddle

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	return c >= None && c <= LUp
}

func (c Category) String() string {
	switch c {
	case None:
		return "none"
	case LDown:
		return "l_down"
	case TDown:
		return "t_down"
	case TMiddle:
		return "t_middle"
	case TUp:
		return "t_up"
	case LUp:
		return "l_up"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Point carries the attributes of a marking point a classifier may inspect.
type Point struct {
	Direction   float64
	Directional bool
	Shape       float64
}

// Classifier maps a point and a unit direction (ux, uy) to a shape category.
// Implementations must be pure.
type Classifier interface {
	Classify(p Point, ux, uy float64) Category
}

// ClassifierFunc adapts an ordinary function to the Classifier interface.
type ClassifierFunc func(p Point, ux, uy float64) Category

// Classify calls f(p, ux, uy).
func (f ClassifierFunc) Classify(p Point, ux, uy float64) Category {
	return f(p, ux, uy)
}

// Default angular tolerances in radians.
const (
	DefaultBridgeAngleDiff    = 0.09757113548987695 + 0.1384059287593468
	DefaultSeparatorAngleDiff = 0.284967562063968 + 0.1384059287593468
)

// AngleClassifier classifies by comparing the angle of the query direction with the
// point's own orientation.
//
// Points with Shape < 0.5 are T-shaped: a direction along the orientation is
// TMiddle, and directions rotated +90° and -90° are TUp and TDown. Other points are
// L-shaped: along the orientation is LDown, rotated +90° is LUp. Points without an
// orientation are always None.
type AngleClassifier struct {
	// BridgeAngleDiff is the tolerance for directions along the orientation.
	BridgeAngleDiff float64

	// SeparatorAngleDiff is the tolerance for directions perpendicular to it.
	SeparatorAngleDiff float64
}

// NewAngleClassifier returns an AngleClassifier with the default tolerances.
func NewAngleClassifier() *AngleClassifier {
	return &AngleClassifier{
		BridgeAngleDiff:    DefaultBridgeAngleDiff,
		SeparatorAngleDiff: DefaultSeparatorAngleDiff,
	}
}

// Classify implements Classifier.
func (a *AngleClassifier) Classify(p Point, ux, uy float64) Category {
	if !p.Directional {
		return None
	}
	dir := math.Atan2(uy, ux)

	if p.Shape < 0.5 {
		if angleDiff(dir, p.Direction) < a.BridgeAngleDiff {
			return TMiddle
		}
		if angleDiff(dir, p.Direction+math.Pi/2) < a.SeparatorAngleDiff {
			return TUp
		}
		if angleDiff(dir, p.Direction-math.Pi/2) < a.SeparatorAngleDiff {
			return TDown
		}
		return None
	}

	if angleDiff(dir, p.Direction) < a.BridgeAngleDiff {
		return LDown
	}
	if angleDiff(dir, p.Direction+math.Pi/2) < a.SeparatorAngleDiff {
		return LUp
	}
	return None
}

// angleDiff returns the absolute difference of two angles folded into [0, π].
func angleDiff(a, b float64) float64 {
	d := math.Mod(math.Abs(a-b), 2*math.Pi)
	if d > math.Pi {
		d = 2*math.Pi - d
	}
	return d
}
