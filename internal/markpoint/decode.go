package markpoint

import (
	"fmt"
	"math"
)

// MarkingPoint is a decoded detection in normalized image coordinates.
//
// Candidates produced by Decode and the survivors returned by Suppress share this
// type. Values are never mutated after decoding.
type MarkingPoint struct {
	// Score is the objectness confidence taken from channel 0.
	Score float64 `json:"score"`

	// X is the normalized horizontal position in [0, 1].
	X float64 `json:"x"`

	// Y is the normalized vertical position in [0, 1].
	Y float64 `json:"y"`

	// Direction is the orientation in radians. Only meaningful when Directional is set.
	Direction float64 `json:"direction"`

	// Directional is true when the point was decoded from the 6-channel layout.
	Directional bool `json:"directional"`

	// Shape is the raw shape channel value used by shape classifiers.
	// Zero for positional-only points.
	Shape float64 `json:"shape"`
}

// Decode scans grid g and emits one point per cell whose confidence is at least
// pointThresh and whose decoded position lies within
// [boundaryThresh, 1-boundaryThresh] on both axes.
//
// Cells are visited in row-major order and points are emitted in that order.
// Confidence values are not range-checked. Returns ErrShapeMismatch if the grid
// layout is not supported; in that case no points are returned.
func Decode(g *Grid, pointThresh, boundaryThresh float64) ([]MarkingPoint, error) {
	layout, err := g.Layout()
	if err != nil {
		return nil, err
	}
	if len(g.Data) != g.Channels*g.Height*g.Width {
		return nil, fmt.Errorf("%w: %d values for shape [%d,%d,%d]",
			ErrShapeMismatch, len(g.Data), g.Channels, g.Height, g.Width)
	}

	// Channel indices of the offsets differ between layouts.
	offX, offY := 1, 2
	if layout == LayoutDirectional {
		offX, offY = 2, 3
	}

	lo, hi := boundaryThresh, 1-boundaryThresh
	w, h := float64(g.Width), float64(g.Height)

	points := make([]MarkingPoint, 0)
	for i := 0; i < g.Height; i++ {
		for j := 0; j < g.Width; j++ {
			// Positive tests so NaN values are rejected.
			score := g.At(0, i, j)
			if !(score >= pointThresh) {
				continue
			}

			x := (float64(j) + g.At(offX, i, j)) / w
			y := (float64(i) + g.At(offY, i, j)) / h
			if !(lo <= x && x <= hi && lo <= y && y <= hi) {
				continue
			}

			p := MarkingPoint{Score: score, X: x, Y: y}
			if layout == LayoutDirectional {
				p.Direction = math.Atan2(g.At(5, i, j), g.At(4, i, j))
				p.Directional = true
				p.Shape = g.At(1, i, j)
			}
			points = append(points, p)
		}
	}

	return points, nil
}
