package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"strconv"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/markpoint-mcp/internal/markpoint"
)

// Options controls how detections are drawn.
type Options struct {
	PointColor string // hex, "#RRGGBB" or "#RRGGBBAA"
	SlotColor  string
	TickLength int  // direction tick length in pixels, 0 disables ticks
	Labels     bool // draw the point index next to each marker
}

// DefaultOptions returns red points with direction ticks and green slots.
func DefaultOptions() Options {
	return Options{
		PointColor: "#FF0000",
		SlotColor:  "#00FF00",
		TickLength: 12,
		Labels:     true,
	}
}

// OverlayResult contains the annotated image.
type OverlayResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
	Points      int    `json:"points"`
	Slots       int    `json:"slots"`
}

const markerRadius = 2

// Open loads the image detections will be drawn on.
func Open(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return img, nil
}

// Overlay draws slots as lines between their endpoints, then each point as a
// square marker with an optional direction tick and index label.
func Overlay(img image.Image, points []markpoint.MarkingPoint, slots []markpoint.Slot, opts Options) (*OverlayResult, error) {
	pointColor, err := parseHexColor(opts.PointColor)
	if err != nil {
		pointColor = color.RGBA{255, 0, 0, 255}
	}
	slotColor, err := parseHexColor(opts.SlotColor)
	if err != nil {
		slotColor = color.RGBA{0, 255, 0, 255}
	}

	dst := imaging.Clone(img)
	width, height := dst.Bounds().Dx(), dst.Bounds().Dy()
	toPixel := func(p markpoint.MarkingPoint) (int, int) {
		return int(math.Round(p.X * float64(width))), int(math.Round(p.Y * float64(height)))
	}

	for _, s := range slots {
		if s.From < 0 || s.From >= len(points) || s.To < 0 || s.To >= len(points) {
			return nil, fmt.Errorf("slot %d->%d references a point outside 0..%d", s.From, s.To, len(points)-1)
		}
		x0, y0 := toPixel(points[s.From])
		x1, y1 := toPixel(points[s.To])
		drawLine(dst, x0, y0, x1, y1, slotColor)
	}

	for k, p := range points {
		x, y := toPixel(p)
		fillRect(dst, image.Rect(x-markerRadius, y-markerRadius, x+markerRadius+1, y+markerRadius+1), pointColor)
		if p.Directional && opts.TickLength > 0 {
			l := float64(opts.TickLength)
			tx := x + int(math.Round(l*math.Cos(p.Direction)))
			ty := y + int(math.Round(l*math.Sin(p.Direction)))
			drawLine(dst, x, y, tx, ty, pointColor)
		}
		if opts.Labels {
			drawLabel(dst, x+markerRadius+2, y-markerRadius, strconv.Itoa(k), pointColor)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	return &OverlayResult{
		Width:       width,
		Height:      height,
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
		Points:      len(points),
		Slots:       len(slots),
	}, nil
}

func fillRect(dst draw.Image, r image.Rectangle, c color.Color) {
	draw.Draw(dst, r.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

// drawLine rasterizes a one pixel wide segment (Bresenham).
func drawLine(dst draw.Image, x0, y0, x1, y1 int, c color.Color) {
	bounds := dst.Bounds()
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	for {
		if image.Pt(x0, y0).In(bounds) {
			dst.Set(x0, y0, c)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// drawLabel draws text with its top-left corner at (x, y).
func drawLabel(dst draw.Image, x, y int, text string, c color.Color) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y+face.Ascent),
	}
	d.DrawString(text)
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.RGBA, error) {
	if len(hex) > 0 && hex[0] == '#' {
		hex = hex[1:]
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q", hex)
	}

	val, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, err
	}
	if len(hex) == 6 {
		return color.RGBA{R: uint8(val >> 16), G: uint8(val >> 8), B: uint8(val), A: 255}, nil
	}
	return color.RGBA{R: uint8(val >> 24), G: uint8(val >> 16), B: uint8(val >> 8), A: uint8(val)}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
