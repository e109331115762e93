package markpoint

import (
	"errors"
	"testing"
)

// newTestGrid creates a zero-filled grid of the given shape
func newTestGrid(t *testing.T, c, h, w int) *Grid {
	t.Helper()
	g, err := NewGrid(c, h, w, make([]float64, c*h*w))
	if err != nil {
		t.Fatalf("NewGrid(%d,%d,%d) failed: %v", c, h, w, err)
	}
	return g
}

// set writes v at (c, i, j)
func (g *Grid) set(c, i, j int, v float64) {
	g.Data[(c*g.Height+i)*g.Width+j] = v
}

func TestNewGrid(t *testing.T) {
	tests := []struct {
		name    string
		c, h, w int
		n       int
		wantErr bool
	}{
		{"positional", 4, 2, 3, 24, false},
		{"directional", 6, 16, 16, 6 * 16 * 16, false},
		{"short data", 4, 2, 2, 15, true},
		{"long data", 4, 2, 2, 17, true},
		{"zero height", 4, 0, 2, 0, true},
		{"negative channels", -4, 2, 2, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.c, tt.h, tt.w, make([]float64, tt.n))
			if tt.wantErr {
				if !errors.Is(err, ErrShapeMismatch) {
					t.Errorf("expected ErrShapeMismatch, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGrid_At(t *testing.T) {
	g := newTestGrid(t, 4, 2, 3)
	g.set(2, 1, 2, 0.75)

	if got := g.At(2, 1, 2); got != 0.75 {
		t.Errorf("At(2,1,2): got %v, want 0.75", got)
	}
	// (2*2+1)*3+2 = 17
	if g.Data[17] != 0.75 {
		t.Errorf("channel-major layout: Data[17] = %v, want 0.75", g.Data[17])
	}
}

func TestGrid_Layout(t *testing.T) {
	tests := []struct {
		channels int
		want     Layout
		wantErr  bool
	}{
		{4, LayoutPositional, false},
		{6, LayoutDirectional, false},
		{1, 0, true},
		{5, 0, true},
		{7, 0, true},
	}

	for _, tt := range tests {
		g := &Grid{Channels: tt.channels, Height: 1, Width: 1, Data: make([]float64, tt.channels)}
		got, err := g.Layout()
		if tt.wantErr {
			if !errors.Is(err, ErrShapeMismatch) {
				t.Errorf("channels=%d: expected ErrShapeMismatch, got %v", tt.channels, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("channels=%d: unexpected error: %v", tt.channels, err)
		}
		if got != tt.want {
			t.Errorf("channels=%d: got %v, want %v", tt.channels, got, tt.want)
		}
	}
}

func TestLayout_String(t *testing.T) {
	if LayoutPositional.String() != "positional" {
		t.Errorf("got %s", LayoutPositional)
	}
	if LayoutDirectional.String() != "directional" {
		t.Errorf("got %s", LayoutDirectional)
	}
	if Layout(3).String() != "unknown" {
		t.Errorf("got %s", Layout(3))
	}
}
