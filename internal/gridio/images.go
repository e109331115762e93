package gridio

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder

	"github.com/ironsheep/markpoint-mcp/internal/markpoint"
)

// Range maps 8-bit intensities onto [Min, Max]: 0 becomes Min and 255 becomes Max.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ImageOptions controls how channel images are turned into a grid.
type ImageOptions struct {
	// Resize scales every channel to the size of the first one instead of
	// rejecting mismatched sizes.
	Resize bool

	// Ranges overrides the value range per channel. Missing entries use the
	// layout default.
	Ranges []Range
}

// defaultRange returns the value range for channel c of an n-channel grid.
func defaultRange(c, n int) Range {
	if n == int(markpoint.LayoutDirectional) && (c == 4 || c == 5) {
		return Range{Min: -1, Max: 1}
	}
	return Range{Min: 0, Max: 1}
}

func (o ImageOptions) rangeFor(c, n int) Range {
	if c < len(o.Ranges) {
		return o.Ranges[c]
	}
	return defaultRange(c, n)
}

// LoadImages builds a grid with one channel per image, in the order given.
//
// Images are converted to grayscale. Unless opts.Resize is set, all images must
// share the same size.
func LoadImages(paths []string, opts ImageOptions) (*markpoint.Grid, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: no channel images", markpoint.ErrShapeMismatch)
	}

	channels := make([]*image.NRGBA, len(paths))
	for c, path := range paths {
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open channel %d: %w", c, err)
		}
		channels[c] = imaging.Grayscale(img)
	}

	w, h := channels[0].Bounds().Dx(), channels[0].Bounds().Dy()
	for c, img := range channels[1:] {
		b := img.Bounds()
		if b.Dx() == w && b.Dy() == h {
			continue
		}
		if !opts.Resize {
			return nil, fmt.Errorf("%w: channel %d is %dx%d, want %dx%d",
				markpoint.ErrShapeMismatch, c+1, b.Dx(), b.Dy(), w, h)
		}
		channels[c+1] = imaging.Resize(img, w, h, imaging.NearestNeighbor)
	}

	n := len(channels)
	data := make([]float64, n*h*w)
	for c, img := range channels {
		r := opts.rangeFor(c, n)
		scale := (r.Max - r.Min) / 255
		for i := 0; i < h; i++ {
			row := img.Pix[i*img.Stride:]
			for j := 0; j < w; j++ {
				data[(c*h+i)*w+j] = r.Min + float64(row[j*4])*scale
			}
		}
	}

	return markpoint.NewGrid(n, h, w, data)
}
