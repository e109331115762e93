// Package config loads the detection and pairing parameters used by the server.
//
// Parameters come from three layers, later ones winning:
//
//  1. Default() values
//  2. A JSON file named by MARKPOINT_MCP_CONFIG (fields omitted from the file keep
//     their defaults)
//  3. Individual environment overrides (MARKPOINT_MCP_POINT_THRESH, ...)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ironsheep/markpoint-mcp/internal/markpoint"
	"github.com/ironsheep/markpoint-mcp/internal/shape"
)

// Environment variables read by FromEnv.
const (
	EnvConfigPath     = "MARKPOINT_MCP_CONFIG"
	EnvPointThresh    = "MARKPOINT_MCP_POINT_THRESH"
	EnvBoundaryThresh = "MARKPOINT_MCP_BOUNDARY_THRESH"
	EnvBatchWorkers   = "MARKPOINT_MCP_BATCH_WORKERS"
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// Params holds every tunable threshold of the pipeline.
type Params struct {
	// Decoding
	PointThresh    float64 `json:"point_thresh"`
	BoundaryThresh float64 `json:"boundary_thresh"`

	// Suppression
	SuppressionDist float64 `json:"suppression_dist"`

	// Pairing
	CollinearityThresh float64 `json:"collinearity_thresh"`
	BridgeAngleDiff    float64 `json:"bridge_angle_diff"`
	SeparatorAngleDiff float64 `json:"separator_angle_diff"`

	// Squared normalized distance windows for vertical and horizontal slots.
	// A window with Max == 0 is disabled; with both disabled every distance is accepted.
	VSlotMinDist float64 `json:"vslot_min_dist"`
	VSlotMaxDist float64 `json:"vslot_max_dist"`
	HSlotMinDist float64 `json:"hslot_min_dist"`
	HSlotMaxDist float64 `json:"hslot_max_dist"`

	// BatchWorkers bounds parallel grid decoding. Zero means one worker per grid.
	BatchWorkers int `json:"batch_workers"`
}

// Default returns the built-in parameters.
func Default() *Params {
	return &Params{
		PointThresh:        0.01,
		BoundaryThresh:     0.05,
		SuppressionDist:    markpoint.DefaultSuppressionDist,
		CollinearityThresh: markpoint.DefaultCollinearityThresh,
		BridgeAngleDiff:    shape.DefaultBridgeAngleDiff,
		SeparatorAngleDiff: shape.DefaultSeparatorAngleDiff,
		VSlotMinDist:       0.044771278151623496,
		VSlotMaxDist:       0.1099427457599304,
		HSlotMinDist:       0.15057789144568634,
		HSlotMaxDist:       0.44449496544202816,
		BatchWorkers:       4,
	}
}

// Load reads a JSON parameter file and merges it over Default().
//
// The path must have a .json extension and the file must be under 1MB.
// The merged result is validated before it is returned.
func Load(path string) (*Params, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	p := Default()
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return p, nil
}

// FromEnv builds parameters from the process environment.
func FromEnv() (*Params, error) {
	return fromLookup(os.LookupEnv)
}

func fromLookup(lookup func(string) (string, bool)) (*Params, error) {
	p := Default()
	if path, ok := lookup(EnvConfigPath); ok && path != "" {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		p = loaded
	}

	floatVars := []struct {
		name string
		dst  *float64
	}{
		{EnvPointThresh, &p.PointThresh},
		{EnvBoundaryThresh, &p.BoundaryThresh},
	}
	for _, v := range floatVars {
		s, ok := lookup(v.name)
		if !ok || s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", v.name, s, err)
		}
		*v.dst = f
	}

	if s, ok := lookup(EnvBatchWorkers); ok && s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", EnvBatchWorkers, s, err)
		}
		p.BatchWorkers = n
	}

	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return p, nil
}

// Validate checks that every parameter is in range.
func (p *Params) Validate() error {
	if p.PointThresh < 0 || p.PointThresh > 1 {
		return fmt.Errorf("point_thresh must be between 0 and 1, got %f", p.PointThresh)
	}
	if p.BoundaryThresh < 0 || p.BoundaryThresh >= 0.5 {
		return fmt.Errorf("boundary_thresh must be in [0, 0.5), got %f", p.BoundaryThresh)
	}
	if p.SuppressionDist <= 0 || p.SuppressionDist > 1 {
		return fmt.Errorf("suppression_dist must be in (0, 1], got %f", p.SuppressionDist)
	}
	if p.CollinearityThresh < -1 || p.CollinearityThresh > 1 {
		return fmt.Errorf("collinearity_thresh must be between -1 and 1, got %f", p.CollinearityThresh)
	}
	if p.BridgeAngleDiff <= 0 || p.SeparatorAngleDiff <= 0 {
		return fmt.Errorf("angle tolerances must be positive, got %f and %f", p.BridgeAngleDiff, p.SeparatorAngleDiff)
	}
	if p.VSlotMinDist > p.VSlotMaxDist {
		return fmt.Errorf("vslot_min_dist %f exceeds vslot_max_dist %f", p.VSlotMinDist, p.VSlotMaxDist)
	}
	if p.HSlotMinDist > p.HSlotMaxDist {
		return fmt.Errorf("hslot_min_dist %f exceeds hslot_max_dist %f", p.HSlotMinDist, p.HSlotMaxDist)
	}
	if p.BatchWorkers < 0 {
		return fmt.Errorf("batch_workers must not be negative, got %d", p.BatchWorkers)
	}
	return nil
}

// DetectOptions returns the decode and suppression thresholds.
func (p *Params) DetectOptions() markpoint.DetectOptions {
	return markpoint.DetectOptions{
		PointThresh:     p.PointThresh,
		BoundaryThresh:  p.BoundaryThresh,
		SuppressionDist: p.SuppressionDist,
	}
}

// SlotOptions returns the pairing options, including enabled distance windows.
func (p *Params) SlotOptions() markpoint.SlotOptions {
	opts := markpoint.SlotOptions{CollinearityThresh: p.CollinearityThresh}
	if p.VSlotMaxDist > 0 {
		opts.Windows = append(opts.Windows, markpoint.DistWindow{Min: p.VSlotMinDist, Max: p.VSlotMaxDist})
	}
	if p.HSlotMaxDist > 0 {
		opts.Windows = append(opts.Windows, markpoint.DistWindow{Min: p.HSlotMinDist, Max: p.HSlotMaxDist})
	}
	return opts
}

// Classifier returns an angle classifier using the configured tolerances.
func (p *Params) Classifier() *shape.AngleClassifier {
	return &shape.AngleClassifier{
		BridgeAngleDiff:    p.BridgeAngleDiff,
		SeparatorAngleDiff: p.SeparatorAngleDiff,
	}
}
