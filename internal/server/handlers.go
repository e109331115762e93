package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ironsheep/markpoint-mcp/internal/gridio"
	"github.com/ironsheep/markpoint-mcp/internal/markpoint"
	"github.com/ironsheep/markpoint-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "markpoint_decode").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.debugf("tool %s failed after %s: %v", params.Name, time.Since(start), err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}
	s.debugf("tool %s completed in %s", params.Name, time.Since(start))

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Fills omitted thresholds from the server parameters
//  3. Resolves the grid from its source (file, channel images or inline values)
//  4. Calls the markpoint pipeline
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "markpoint_grid_info":
		return s.handleGridInfo(args)
	case "markpoint_decode":
		return s.handleDecode(args)
	case "markpoint_suppress":
		return s.handleSuppress(args)
	case "markpoint_pair":
		return s.handlePair(args)
	case "markpoint_occlusion":
		return s.handleOcclusion(args)
	case "markpoint_detect_slots":
		return s.handleDetectSlots(args)
	case "markpoint_detect_batch":
		return s.handleDetectBatch(args)
	case "markpoint_render_overlay":
		return s.handleRenderOverlay(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func orDefault(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}

// gridSource names exactly one place to read a grid from.
type gridSource struct {
	Path         string        `json:"path"`
	ChannelPaths []string      `json:"channel_paths"`
	Resize       bool          `json:"resize"`
	Values       [][][]float64 `json:"values"`
}

func (s *Server) resolveGrid(src gridSource) (*markpoint.Grid, error) {
	n := 0
	if src.Path != "" {
		n++
	}
	if len(src.ChannelPaths) > 0 {
		n++
	}
	if src.Values != nil {
		n++
	}
	if n != 1 {
		return nil, fmt.Errorf("exactly one of path, channel_paths or values is required")
	}

	switch {
	case src.Path != "":
		return s.cache.Load(src.Path)
	case len(src.ChannelPaths) > 0:
		return s.cache.LoadChannels(src.ChannelPaths, gridio.ImageOptions{Resize: src.Resize})
	default:
		return gridio.FromNested(src.Values)
	}
}

type detectArgs struct {
	gridSource
	PointThresh     *float64 `json:"point_thresh"`
	BoundaryThresh  *float64 `json:"boundary_thresh"`
	SuppressionDist *float64 `json:"suppression_dist"`
}

func (s *Server) detectOptions(a detectArgs) (markpoint.DetectOptions, error) {
	opts := s.params.DetectOptions()
	opts.PointThresh = orDefault(a.PointThresh, opts.PointThresh)
	opts.BoundaryThresh = orDefault(a.BoundaryThresh, opts.BoundaryThresh)
	opts.SuppressionDist = orDefault(a.SuppressionDist, opts.SuppressionDist)
	if err := checkSuppressionDist(opts.SuppressionDist); err != nil {
		return opts, err
	}
	return opts, nil
}

// checkSuppressionDist rejects distances that would suppress nothing.
func checkSuppressionDist(dist float64) error {
	if !(dist > 0) {
		return fmt.Errorf("suppression_dist must be positive, got %g", dist)
	}
	return nil
}

// === Grid Handlers ===

type gridInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleGridInfo(args json.RawMessage) (interface{}, error) {
	var a gridInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return gridio.LoadGridInfo(s.cache, a.Path)
}

// DecodeResult is returned by markpoint_decode.
type DecodeResult struct {
	Layout     string                   `json:"layout"`
	Points     []markpoint.MarkingPoint `json:"points"`
	Count      int                      `json:"count"`
	Candidates int                      `json:"candidates"`
	Suppressed int                      `json:"suppressed"`
}

type decodeArgs struct {
	detectArgs
	Suppress *bool `json:"suppress"`
}

func (s *Server) handleDecode(args json.RawMessage) (interface{}, error) {
	var a decodeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	g, err := s.resolveGrid(a.gridSource)
	if err != nil {
		return nil, err
	}
	layout, err := g.Layout()
	if err != nil {
		return nil, err
	}

	opts, err := s.detectOptions(a.detectArgs)
	if err != nil {
		return nil, err
	}
	candidates, err := markpoint.Decode(g, opts.PointThresh, opts.BoundaryThresh)
	if err != nil {
		return nil, err
	}

	points := candidates
	if a.Suppress == nil || *a.Suppress {
		points = markpoint.Suppress(candidates, opts.SuppressionDist)
	}
	s.debugf("decoded %d candidates, %d kept", len(candidates), len(points))

	return &DecodeResult{
		Layout:     layout.String(),
		Points:     points,
		Count:      len(points),
		Candidates: len(candidates),
		Suppressed: len(candidates) - len(points),
	}, nil
}

// === Point Handlers ===

// SuppressResult is returned by markpoint_suppress.
type SuppressResult struct {
	Points     []markpoint.MarkingPoint `json:"points"`
	Count      int                      `json:"count"`
	Suppressed int                      `json:"suppressed"`
}

type suppressArgs struct {
	Points          []markpoint.MarkingPoint `json:"points"`
	SuppressionDist *float64                 `json:"suppression_dist"`
}

func (s *Server) handleSuppress(args json.RawMessage) (interface{}, error) {
	var a suppressArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	dist := orDefault(a.SuppressionDist, s.params.SuppressionDist)
	if err := checkSuppressionDist(dist); err != nil {
		return nil, err
	}

	points := markpoint.Suppress(a.Points, dist)
	if points == nil {
		points = []markpoint.MarkingPoint{}
	}
	return &SuppressResult{
		Points:     points,
		Count:      len(points),
		Suppressed: len(a.Points) - len(points),
	}, nil
}

// PairResult is returned by markpoint_pair.
type PairResult struct {
	Verdict     string `json:"verdict"`
	VerdictCode int    `json:"verdict_code"`
}

type pairArgs struct {
	A markpoint.MarkingPoint `json:"a"`
	B markpoint.MarkingPoint `json:"b"`
}

func (s *Server) handlePair(args json.RawMessage) (interface{}, error) {
	var a pairArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	v, err := markpoint.EvaluatePair(a.A, a.B, s.classifier)
	if err != nil {
		return nil, err
	}
	return &PairResult{Verdict: v.String(), VerdictCode: int(v)}, nil
}

// OcclusionResult is returned by markpoint_occlusion.
type OcclusionResult struct {
	Occluded bool `json:"occluded"`
}

type occlusionArgs struct {
	Points             []markpoint.MarkingPoint `json:"points"`
	I                  int                      `json:"i"`
	J                  int                      `json:"j"`
	CollinearityThresh *float64                 `json:"collinearity_thresh"`
}

func (s *Server) handleOcclusion(args json.RawMessage) (interface{}, error) {
	var a occlusionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	thresh := orDefault(a.CollinearityThresh, s.params.CollinearityThresh)
	occluded, err := markpoint.PassesThroughThirdPoint(a.Points, a.I, a.J, thresh)
	if err != nil {
		return nil, err
	}
	return &OcclusionResult{Occluded: occluded}, nil
}

// === Pipeline Handlers ===

// DetectSlotsResult is returned by markpoint_detect_slots.
type DetectSlotsResult struct {
	Points   []markpoint.MarkingPoint `json:"points"`
	Slots    []markpoint.Slot         `json:"slots"`
	Occluded int                      `json:"occluded"`
	Skipped  []markpoint.SkippedPair  `json:"skipped,omitempty"`
}

type detectSlotsArgs struct {
	detectArgs
	CollinearityThresh *float64 `json:"collinearity_thresh"`
	DistanceGating     *bool    `json:"distance_gating"`
}

func (s *Server) handleDetectSlots(args json.RawMessage) (interface{}, error) {
	var a detectSlotsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.detectSlots(a)
}

func (s *Server) detectSlots(a detectSlotsArgs) (*DetectSlotsResult, error) {
	g, err := s.resolveGrid(a.gridSource)
	if err != nil {
		return nil, err
	}

	detectOpts, err := s.detectOptions(a.detectArgs)
	if err != nil {
		return nil, err
	}
	points, err := markpoint.Detect(g, detectOpts)
	if err != nil {
		return nil, err
	}

	opts := s.params.SlotOptions()
	opts.CollinearityThresh = orDefault(a.CollinearityThresh, opts.CollinearityThresh)
	if a.DistanceGating != nil && !*a.DistanceGating {
		opts.Windows = nil
	}

	report, err := markpoint.FindSlots(points, s.classifier, opts)
	if err != nil {
		return nil, err
	}
	s.debugf("%d points, %d slots, %d occluded", len(points), len(report.Slots), report.Occluded)

	return &DetectSlotsResult{
		Points:   points,
		Slots:    report.Slots,
		Occluded: report.Occluded,
		Skipped:  report.Skipped,
	}, nil
}

type renderOverlayArgs struct {
	detectSlotsArgs
	ImagePath  string `json:"image_path"`
	PointColor string `json:"point_color"`
	SlotColor  string `json:"slot_color"`
	TickLength *int   `json:"tick_length"`
	Labels     *bool  `json:"labels"`
}

func (s *Server) handleRenderOverlay(args json.RawMessage) (interface{}, error) {
	var a renderOverlayArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ImagePath == "" {
		return nil, fmt.Errorf("image_path is required")
	}

	img, err := render.Open(a.ImagePath)
	if err != nil {
		return nil, err
	}
	detected, err := s.detectSlots(a.detectSlotsArgs)
	if err != nil {
		return nil, err
	}

	opts := render.DefaultOptions()
	if a.PointColor != "" {
		opts.PointColor = a.PointColor
	}
	if a.SlotColor != "" {
		opts.SlotColor = a.SlotColor
	}
	if a.TickLength != nil {
		opts.TickLength = *a.TickLength
	}
	if a.Labels != nil {
		opts.Labels = *a.Labels
	}
	return render.Overlay(img, detected.Points, detected.Slots, opts)
}

// BatchResult is returned by markpoint_detect_batch.
type BatchResult struct {
	Results []BatchEntry `json:"results"`
	Count   int          `json:"count"`
}

// BatchEntry holds the points detected in one grid of a batch.
type BatchEntry struct {
	Path   string                   `json:"path"`
	Points []markpoint.MarkingPoint `json:"points"`
	Count  int                      `json:"count"`
}

type batchArgs struct {
	Paths           []string `json:"paths"`
	PointThresh     *float64 `json:"point_thresh"`
	BoundaryThresh  *float64 `json:"boundary_thresh"`
	SuppressionDist *float64 `json:"suppression_dist"`
}

func (s *Server) handleDetectBatch(args json.RawMessage) (interface{}, error) {
	var a batchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths is required")
	}

	grids := make([]*markpoint.Grid, len(a.Paths))
	for k, path := range a.Paths {
		g, err := s.cache.Load(path)
		if err != nil {
			return nil, err
		}
		grids[k] = g
	}

	opts, err := s.detectOptions(detectArgs{
		PointThresh:     a.PointThresh,
		BoundaryThresh:  a.BoundaryThresh,
		SuppressionDist: a.SuppressionDist,
	})
	if err != nil {
		return nil, err
	}
	all, err := markpoint.DetectBatch(context.Background(), grids, opts, s.params.BatchWorkers)
	if err != nil {
		return nil, err
	}

	entries := make([]BatchEntry, len(all))
	for k, points := range all {
		entries[k] = BatchEntry{Path: a.Paths[k], Points: points, Count: len(points)}
	}
	return &BatchResult{Results: entries, Count: len(entries)}, nil
}
