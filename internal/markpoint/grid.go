package markpoint

import "fmt"

// Layout identifies which channel arrangement a grid uses.
type Layout int

const (
	// LayoutPositional is the 4-channel layout: confidence, offsetX, offsetY, unused.
	LayoutPositional Layout = 4

	// LayoutDirectional is the 6-channel layout: confidence, shape, offsetX, offsetY, cos, sin.
	LayoutDirectional Layout = 6
)

// String returns the layout name used in tool results.
func (l Layout) String() string {
	switch l {
	case LayoutPositional:
		return "positional"
	case LayoutDirectional:
		return "directional"
	default:
		return "unknown"
	}
}

// Grid is a read-only [C, H, W] tensor stored channel-major in a flat slice.
//
// Element (c, i, j) lives at Data[(c*H+i)*W+j]. Grids are produced by an external
// detector and must not be modified while a decode is running.
type Grid struct {
	Channels int
	Height   int
	Width    int
	Data     []float64
}

// NewGrid wraps data as a [channels, height, width] grid.
//
// The data slice is not copied. Returns ErrShapeMismatch if any dimension is not
// positive or if len(data) does not equal channels*height*width.
func NewGrid(channels, height, width int, data []float64) (*Grid, error) {
	if channels <= 0 || height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: dimensions [%d,%d,%d] must be positive",
			ErrShapeMismatch, channels, height, width)
	}
	if len(data) != channels*height*width {
		return nil, fmt.Errorf("%w: %d values for shape [%d,%d,%d]",
			ErrShapeMismatch, len(data), channels, height, width)
	}
	return &Grid{Channels: channels, Height: height, Width: width, Data: data}, nil
}

// At returns the value at channel c, row i, column j.
func (g *Grid) At(c, i, j int) float64 {
	return g.Data[(c*g.Height+i)*g.Width+j]
}

// Layout reports the channel layout implied by the channel count.
func (g *Grid) Layout() (Layout, error) {
	switch g.Channels {
	case int(LayoutPositional):
		return LayoutPositional, nil
	case int(LayoutDirectional):
		return LayoutDirectional, nil
	default:
		return 0, fmt.Errorf("%w: %d channels, want 4 or 6", ErrShapeMismatch, g.Channels)
	}
}
