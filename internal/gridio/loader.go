package gridio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ironsheep/markpoint-mcp/internal/markpoint"
)

// GridCache provides thread-safe caching of loaded grids.
//
// JSON grids are keyed by their path; image-backed grids by the ordered list of
// channel paths. Different spellings of the same path produce separate entries.
type GridCache struct {
	mu    sync.RWMutex
	grids map[string]*markpoint.Grid
}

// NewGridCache creates an empty grid cache.
func NewGridCache() *GridCache {
	return &GridCache{
		grids: make(map[string]*markpoint.Grid),
	}
}

// Load returns the grid stored in the JSON file at path, reading it on first use.
func (c *GridCache) Load(path string) (*markpoint.Grid, error) {
	return c.load(path, func() (*markpoint.Grid, error) {
		return LoadJSON(path)
	})
}

// LoadChannels returns the grid assembled from one image per channel.
func (c *GridCache) LoadChannels(paths []string, opts ImageOptions) (*markpoint.Grid, error) {
	key := channelsKey(paths, opts)
	return c.load(key, func() (*markpoint.Grid, error) {
		return LoadImages(paths, opts)
	})
}

func (c *GridCache) load(key string, read func() (*markpoint.Grid, error)) (*markpoint.Grid, error) {
	c.mu.RLock()
	if g, ok := c.grids[key]; ok {
		c.mu.RUnlock()
		return g, nil
	}
	c.mu.RUnlock()

	g, err := read()
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.grids[key] = g
	c.mu.Unlock()

	return g, nil
}

// Len returns the number of cached grids.
func (c *GridCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.grids)
}

// Clear removes all grids from the cache.
func (c *GridCache) Clear() {
	c.mu.Lock()
	c.grids = make(map[string]*markpoint.Grid)
	c.mu.Unlock()
}

// Evict removes the grid loaded from path, if any.
func (c *GridCache) Evict(path string) {
	c.mu.Lock()
	delete(c.grids, path)
	c.mu.Unlock()
}

func channelsKey(paths []string, opts ImageOptions) string {
	return fmt.Sprintf("%s|resize=%t|ranges=%v", strings.Join(paths, "|"), opts.Resize, opts.Ranges)
}

// gridFile is the on-disk JSON representation of a grid.
type gridFile struct {
	Shape  []int         `json:"shape,omitempty"`
	Data   []float64     `json:"data,omitempty"`
	Values [][][]float64 `json:"values,omitempty"`
}

// ParseJSON decodes a grid from its JSON representation.
//
// Exactly one of the flat ("shape" + "data") or nested ("values") forms must be
// present. Shape errors wrap markpoint.ErrShapeMismatch.
func ParseJSON(data []byte) (*markpoint.Grid, error) {
	var f gridFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse grid JSON: %w", err)
	}

	switch {
	case f.Values != nil && (f.Shape != nil || f.Data != nil):
		return nil, fmt.Errorf("grid JSON must use either values or shape+data, not both")
	case f.Values != nil:
		return FromNested(f.Values)
	case f.Shape != nil:
		if len(f.Shape) != 3 {
			return nil, fmt.Errorf("%w: shape must have 3 dimensions, got %v", markpoint.ErrShapeMismatch, f.Shape)
		}
		return markpoint.NewGrid(f.Shape[0], f.Shape[1], f.Shape[2], f.Data)
	default:
		return nil, fmt.Errorf("grid JSON has neither values nor shape")
	}
}

// FromNested flattens a [C][H][W] array into a grid. Ragged input is rejected.
func FromNested(values [][][]float64) (*markpoint.Grid, error) {
	c := len(values)
	if c == 0 || len(values[0]) == 0 || len(values[0][0]) == 0 {
		return nil, fmt.Errorf("%w: empty grid", markpoint.ErrShapeMismatch)
	}
	h, w := len(values[0]), len(values[0][0])

	data := make([]float64, 0, c*h*w)
	for ci, channel := range values {
		if len(channel) != h {
			return nil, fmt.Errorf("%w: channel %d has %d rows, want %d", markpoint.ErrShapeMismatch, ci, len(channel), h)
		}
		for ri, row := range channel {
			if len(row) != w {
				return nil, fmt.Errorf("%w: channel %d row %d has %d columns, want %d",
					markpoint.ErrShapeMismatch, ci, ri, len(row), w)
			}
			data = append(data, row...)
		}
	}
	return markpoint.NewGrid(c, h, w, data)
}

// LoadJSON reads and parses a grid JSON file.
func LoadJSON(path string) (*markpoint.Grid, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read grid: %w", err)
	}
	g, err := ParseJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return g, nil
}

// GridInfo describes a grid file without decoding any points.
type GridInfo struct {
	// Channels, Height and Width are the grid dimensions.
	Channels int `json:"channels"`
	Height   int `json:"height"`
	Width    int `json:"width"`

	// Layout is "directional", "positional" or "unknown".
	Layout string `json:"layout"`

	// Supported is false when the channel count matches no decodable layout.
	Supported bool `json:"supported"`

	// FileSizeBytes is the size of the grid file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadGridInfo loads the grid at path through cache and describes it.
func LoadGridInfo(cache *GridCache, path string) (*GridInfo, error) {
	g, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	layout, lerr := g.Layout()
	return &GridInfo{
		Channels:      g.Channels,
		Height:        g.Height,
		Width:         g.Width,
		Layout:        layout.String(),
		Supported:     lerr == nil,
		FileSizeBytes: stat.Size(),
	}, nil
}
