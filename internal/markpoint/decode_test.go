package markpoint

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var approx = cmpopts.EquateApprox(0, 1e-9)

func TestDecode_PositionalSingleCell(t *testing.T) {
	g := newTestGrid(t, 4, 1, 1)
	g.set(0, 0, 0, 0.9)
	g.set(1, 0, 0, 0.4)
	g.set(2, 0, 0, 0.4)

	points, err := Decode(g, 0.5, 0.0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []MarkingPoint{{Score: 0.9, X: 0.4, Y: 0.4}}
	if diff := cmp.Diff(want, points, approx); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Directional(t *testing.T) {
	g := newTestGrid(t, 6, 2, 4)
	// cell (1, 2)
	g.set(0, 1, 2, 0.8)
	g.set(1, 1, 2, 0.7)
	g.set(2, 1, 2, 0.5)
	g.set(3, 1, 2, 0.25)
	g.set(4, 1, 2, 0.0)
	g.set(5, 1, 2, 1.0)

	points, err := Decode(g, 0.5, 0.05)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	want := []MarkingPoint{{
		Score:       0.8,
		X:           (2 + 0.5) / 4.0,
		Y:           (1 + 0.25) / 2.0,
		Direction:   math.Pi / 2,
		Directional: true,
		Shape:       0.7,
	}}
	if diff := cmp.Diff(want, points, approx); diff != "" {
		t.Errorf("points mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Threshold(t *testing.T) {
	g := newTestGrid(t, 4, 1, 3)
	g.set(0, 0, 0, 0.49)
	g.set(0, 0, 1, 0.5) // equal to threshold is kept
	g.set(0, 0, 2, 0.51)
	for j := 0; j < 3; j++ {
		g.set(1, 0, j, 0.5)
		g.set(2, 0, j, 0.5)
	}

	points, err := Decode(g, 0.5, 0.0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(points))
	}
	if points[0].Score != 0.5 || points[1].Score != 0.51 {
		t.Errorf("unexpected scores: %v, %v", points[0].Score, points[1].Score)
	}
}

func TestDecode_RowMajorOrder(t *testing.T) {
	g := newTestGrid(t, 4, 2, 2)
	scores := [][]float64{{0.6, 0.7}, {0.8, 0.9}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			g.set(0, i, j, scores[i][j])
			g.set(1, i, j, 0.5)
			g.set(2, i, j, 0.5)
		}
	}

	points, err := Decode(g, 0.5, 0.0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := []float64{0.6, 0.7, 0.8, 0.9}
	if len(points) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(points))
	}
	for k, p := range points {
		if p.Score != want[k] {
			t.Errorf("point %d: score %v, want %v", k, p.Score, want[k])
		}
		if p.Directional {
			t.Errorf("point %d: positional layout must not be directional", k)
		}
	}
}

func TestDecode_Boundary(t *testing.T) {
	tests := []struct {
		name     string
		row, col int
		offX     float64
		offY     float64
		wantKept bool
	}{
		{"center", 5, 5, 0.5, 0.5, true},
		{"inside left margin", 5, 0, 0.5, 0.5, true},
		{"left margin", 5, 0, 0.3, 0.5, false},
		{"top margin", 0, 5, 0.5, 0.3, false},
		{"right margin", 5, 9, 0.7, 0.5, false},
		{"bottom margin", 9, 5, 0.5, 0.7, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGrid(t, 4, 10, 10)
			g.set(0, tt.row, tt.col, 0.9)
			g.set(1, tt.row, tt.col, tt.offX)
			g.set(2, tt.row, tt.col, tt.offY)

			points, err := Decode(g, 0.5, 0.04)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if got := len(points) == 1; got != tt.wantKept {
				t.Errorf("kept=%v, want %v (points=%v)", got, tt.wantKept, points)
			}
		})
	}
}

func TestDecode_NeverEmitsOutsideBoundary(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 50; trial++ {
		c := 4
		if trial%2 == 0 {
			c = 6
		}
		h, w := 1+rng.Intn(12), 1+rng.Intn(12)
		data := make([]float64, c*h*w)
		for k := range data {
			data[k] = rng.Float64()
		}
		if trial%3 == 0 {
			for n := 0; n < 3; n++ {
				data[rng.Intn(len(data))] = math.NaN()
			}
		}
		g, err := NewGrid(c, h, w, data)
		if err != nil {
			t.Fatalf("NewGrid failed: %v", err)
		}

		boundary := rng.Float64() * 0.3
		points, err := Decode(g, 0.3, boundary)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		for _, p := range points {
			if !(boundary <= p.X && p.X <= 1-boundary && boundary <= p.Y && p.Y <= 1-boundary) {
				t.Fatalf("trial %d: point (%v,%v) outside [%v,%v]", trial, p.X, p.Y, boundary, 1-boundary)
			}
			if !(p.Score >= 0.3) {
				t.Fatalf("trial %d: score %v below threshold", trial, p.Score)
			}
		}
	}
}

func TestDecode_NaNCells(t *testing.T) {
	g := newTestGrid(t, 4, 1, 2)
	// Cell 0 has a NaN score, cell 1 a NaN x offset.
	g.set(0, 0, 0, math.NaN())
	g.set(1, 0, 0, 0.5)
	g.set(2, 0, 0, 0.5)
	g.set(0, 0, 1, 0.9)
	g.set(1, 0, 1, math.NaN())
	g.set(2, 0, 1, 0.5)

	points, err := Decode(g, 0.5, 0.1)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if len(points) != 0 {
		t.Errorf("expected NaN cells to be dropped, got %+v", points)
	}
}

func TestDecode_ShapeMismatch(t *testing.T) {
	for _, c := range []int{1, 2, 3, 5, 8} {
		g := newTestGrid(t, c, 2, 2)
		points, err := Decode(g, 0.5, 0.0)
		if !errors.Is(err, ErrShapeMismatch) {
			t.Errorf("channels=%d: expected ErrShapeMismatch, got %v", c, err)
		}
		if points != nil {
			t.Errorf("channels=%d: expected no points on error, got %v", c, points)
		}
	}
}

func TestDecode_CorruptData(t *testing.T) {
	g := &Grid{Channels: 4, Height: 2, Width: 2, Data: make([]float64, 10)}
	if _, err := Decode(g, 0.5, 0.0); !errors.Is(err, ErrShapeMismatch) {
		t.Errorf("expected ErrShapeMismatch, got %v", err)
	}
}

func TestDecode_EmptyResult(t *testing.T) {
	g := newTestGrid(t, 6, 4, 4)
	points, err := Decode(g, 0.5, 0.0)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if points == nil || len(points) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", points)
	}
}
