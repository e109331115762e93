package markpoint

import (
	"errors"

	"github.com/ironsheep/markpoint-mcp/internal/shape"
)

// DetectOptions holds the thresholds for the decode and suppression stages.
type DetectOptions struct {
	// PointThresh is the minimum confidence for a cell to produce a point.
	PointThresh float64

	// BoundaryThresh is the normalized margin excluded on every side of the grid.
	BoundaryThresh float64

	// SuppressionDist is the per-axis proximity for duplicate removal.
	// Zero selects DefaultSuppressionDist.
	SuppressionDist float64
}

func (o DetectOptions) suppressionDist() float64 {
	if o.SuppressionDist == 0 {
		return DefaultSuppressionDist
	}
	return o.SuppressionDist
}

// Detect decodes g and suppresses duplicate points.
func Detect(g *Grid, opts DetectOptions) ([]MarkingPoint, error) {
	points, err := Decode(g, opts.PointThresh, opts.BoundaryThresh)
	if err != nil {
		return nil, err
	}
	return Suppress(points, opts.suppressionDist()), nil
}

// DistWindow is an inclusive range of squared normalized distances.
type DistWindow struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (w DistWindow) contains(d float64) bool {
	return w.Min <= d && d <= w.Max
}

// SlotOptions controls how FindSlots accepts point pairs.
type SlotOptions struct {
	// CollinearityThresh is passed to PassesThroughThirdPoint.
	CollinearityThresh float64

	// Windows lists the squared-distance ranges a pair must fall in.
	// An empty list accepts every distance.
	Windows []DistWindow
}

// Slot is an accepted, directed edge between two marking points.
// From and To index the point slice given to FindSlots.
type Slot struct {
	From    int     `json:"from"`
	To      int     `json:"to"`
	DistSq  float64 `json:"dist_sq"`
	Verdict Verdict `json:"verdict"`
}

// SkippedPair records a pair that could not be evaluated.
type SkippedPair struct {
	I      int    `json:"i"`
	J      int    `json:"j"`
	Reason string `json:"reason"`
}

// SlotReport is the result of FindSlots.
type SlotReport struct {
	Slots    []Slot        `json:"slots"`
	Occluded int           `json:"occluded"`
	Skipped  []SkippedPair `json:"skipped,omitempty"`
}

// FindSlots evaluates every pair i < j of points and returns the accepted edges.
//
// A pair is accepted when its squared distance falls in one of opts.Windows, no
// third point lies on its segment, and EvaluatePair returns a verdict other than
// VerdictNone. Accepted edges are oriented by the verdict: AtoB yields (i, j) and
// BtoA yields (j, i). Pairs hitting ErrDegenerateGeometry are listed in Skipped and
// do not stop the scan. ErrInvalidShapeCategory aborts the whole call.
func FindSlots(points []MarkingPoint, c shape.Classifier, opts SlotOptions) (*SlotReport, error) {
	report := &SlotReport{Slots: make([]Slot, 0)}

	for i := 0; i < len(points)-1; i++ {
		for j := i + 1; j < len(points); j++ {
			dx := points[j].X - points[i].X
			dy := points[j].Y - points[i].Y
			distSq := dx*dx + dy*dy
			if !inWindows(distSq, opts.Windows) {
				continue
			}

			occluded, err := PassesThroughThirdPoint(points, i, j, opts.CollinearityThresh)
			if err != nil {
				if errors.Is(err, ErrDegenerateGeometry) {
					report.Skipped = append(report.Skipped, SkippedPair{I: i, J: j, Reason: err.Error()})
					continue
				}
				return nil, err
			}
			if occluded {
				report.Occluded++
				continue
			}

			verdict, err := EvaluatePair(points[i], points[j], c)
			if err != nil {
				if errors.Is(err, ErrDegenerateGeometry) {
					report.Skipped = append(report.Skipped, SkippedPair{I: i, J: j, Reason: err.Error()})
					continue
				}
				return nil, err
			}

			switch verdict {
			case VerdictAtoB:
				report.Slots = append(report.Slots, Slot{From: i, To: j, DistSq: distSq, Verdict: verdict})
			case VerdictBtoA:
				report.Slots = append(report.Slots, Slot{From: j, To: i, DistSq: distSq, Verdict: verdict})
			}
		}
	}

	return report, nil
}

func inWindows(d float64, windows []DistWindow) bool {
	if len(windows) == 0 {
		return true
	}
	for _, w := range windows {
		if w.contains(d) {
			return true
		}
	}
	return false
}
