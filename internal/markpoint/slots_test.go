package markpoint

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/ironsheep/markpoint-mcp/internal/shape"
)

func TestDetect(t *testing.T) {
	g := newTestGrid(t, 4, 4, 4)
	// Two detections in neighbouring cells that decode to nearly the same spot,
	// plus one isolated detection.
	g.set(0, 1, 1, 0.9)
	g.set(1, 1, 1, 0.95)
	g.set(2, 1, 1, 0.5)
	g.set(0, 1, 2, 0.6)
	g.set(1, 1, 2, 0.05)
	g.set(2, 1, 2, 0.5)
	g.set(0, 3, 0, 0.8)
	g.set(1, 3, 0, 0.5)
	g.set(2, 3, 0, 0.5)

	points, err := Detect(g, DetectOptions{PointThresh: 0.5, BoundaryThresh: 0.01})
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}

	want := []MarkingPoint{pt(0.9, 1.95/4, 1.5/4), pt(0.8, 0.5/4, 3.5/4)}
	if diff := cmp.Diff(want, points, approx); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestDetect_ShapeMismatch(t *testing.T) {
	g := newTestGrid(t, 5, 2, 2)
	if _, err := Detect(g, DetectOptions{PointThresh: 0.5}); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

// slotClassifier keys categories on the shape label like fixedClassifier.
func slotClassifier() shape.Classifier {
	return fixedClassifier(map[float64]shape.Category{
		1: shape.TUp,
		2: shape.TDown,
		3: shape.TUp,
		4: shape.TMiddle,
	})
}

func TestFindSlots(t *testing.T) {
	points := []MarkingPoint{
		labeled(1, 0.2, 0.5), // TUp
		labeled(2, 0.5, 0.5), // TDown
		labeled(3, 0.2, 0.9), // TUp
	}

	report, err := FindSlots(points, slotClassifier(), SlotOptions{CollinearityThresh: DefaultCollinearityThresh})
	if err != nil {
		t.Fatalf("FindSlots failed: %v", err)
	}

	want := []Slot{
		{From: 0, To: 1, DistSq: 0.09, Verdict: VerdictAtoB},
		{From: 2, To: 1, DistSq: 0.25, Verdict: VerdictBtoA},
	}
	if diff := cmp.Diff(want, report.Slots, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
	if report.Occluded != 0 {
		t.Errorf("Occluded: got %d, want 0", report.Occluded)
	}
	if len(report.Skipped) != 0 {
		t.Errorf("Skipped: got %v, want none", report.Skipped)
	}
}

func TestFindSlots_Occluded(t *testing.T) {
	points := []MarkingPoint{
		labeled(1, 0.2, 0.5),
		labeled(4, 0.5, 0.5),
		labeled(2, 0.8, 0.5),
	}

	report, err := FindSlots(points, slotClassifier(), SlotOptions{CollinearityThresh: DefaultCollinearityThresh})
	if err != nil {
		t.Fatalf("FindSlots failed: %v", err)
	}

	// 0-2 is blocked by 1. 0-1 (TUp, TMiddle) pairs a->b, 1-2 (TMiddle, TDown) pairs a->b.
	want := []Slot{
		{From: 0, To: 1, DistSq: 0.09, Verdict: VerdictAtoB},
		{From: 1, To: 2, DistSq: 0.09, Verdict: VerdictAtoB},
	}
	if diff := cmp.Diff(want, report.Slots, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("slots mismatch (-want +got):\n%s", diff)
	}
	if report.Occluded != 1 {
		t.Errorf("Occluded: got %d, want 1", report.Occluded)
	}
}

func TestFindSlots_DistanceWindows(t *testing.T) {
	points := []MarkingPoint{
		labeled(1, 0.2, 0.5),
		labeled(2, 0.5, 0.5),
		labeled(3, 0.2, 0.9),
	}
	opts := SlotOptions{
		CollinearityThresh: DefaultCollinearityThresh,
		Windows:            []DistWindow{{Min: 0.2, Max: 0.3}},
	}

	report, err := FindSlots(points, slotClassifier(), opts)
	if err != nil {
		t.Fatalf("FindSlots failed: %v", err)
	}
	if len(report.Slots) != 1 || report.Slots[0].From != 2 || report.Slots[0].To != 1 {
		t.Errorf("expected only slot 2->1, got %v", report.Slots)
	}
}

func TestFindSlots_DegeneratePairsSkipped(t *testing.T) {
	points := []MarkingPoint{
		labeled(1, 0.3, 0.3),
		labeled(2, 0.3, 0.3),
		labeled(3, 0.7, 0.3),
	}

	report, err := FindSlots(points, slotClassifier(), SlotOptions{CollinearityThresh: DefaultCollinearityThresh})
	if err != nil {
		t.Fatalf("FindSlots failed: %v", err)
	}
	if len(report.Slots) != 0 {
		t.Errorf("expected no slots, got %v", report.Slots)
	}
	if len(report.Skipped) != 3 {
		t.Errorf("expected 3 skipped pairs, got %v", report.Skipped)
	}
}

func TestFindSlots_InvalidCategoryAborts(t *testing.T) {
	points := []MarkingPoint{labeled(1, 0.2, 0.5), labeled(9, 0.6, 0.5)}
	c := fixedClassifier(map[float64]shape.Category{1: shape.TUp, 9: shape.Category(17)})

	report, err := FindSlots(points, c, SlotOptions{CollinearityThresh: DefaultCollinearityThresh})
	if !errors.Is(err, ErrInvalidShapeCategory) {
		t.Errorf("expected ErrInvalidShapeCategory, got %v", err)
	}
	if report != nil {
		t.Errorf("expected no report on error, got %+v", report)
	}
}

func TestFindSlots_Empty(t *testing.T) {
	report, err := FindSlots(nil, slotClassifier(), SlotOptions{})
	if err != nil {
		t.Fatalf("FindSlots failed: %v", err)
	}
	if report.Slots == nil || len(report.Slots) != 0 {
		t.Errorf("expected empty slot list, got %#v", report.Slots)
	}
}
