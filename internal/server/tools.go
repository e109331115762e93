package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func numberProp(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

// gridSourceProps returns the schema properties shared by every tool that reads a grid.
func gridSourceProps() map[string]interface{} {
	return map[string]interface{}{
		"path": map[string]interface{}{
			"type":        "string",
			"description": "Absolute path to a grid JSON file ({\"shape\":[C,H,W],\"data\":[...]} or {\"values\":[[[...]]]})",
		},
		"channel_paths": map[string]interface{}{
			"type":        "array",
			"items":       map[string]interface{}{"type": "string"},
			"description": "One grayscale image per channel, in channel order (4 or 6 images)",
		},
		"resize": map[string]interface{}{
			"type":        "boolean",
			"description": "Resize channel images to the size of the first one. Default false",
			"default":     false,
		},
		"values": map[string]interface{}{
			"type":        "array",
			"description": "Inline grid as a nested [C][H][W] array",
		},
		"point_thresh":     numberProp("Minimum confidence for a cell to produce a point. Defaults to server configuration"),
		"boundary_thresh":  numberProp("Normalized margin excluded on each side. Defaults to server configuration"),
		"suppression_dist": numberProp("Per-axis normalized distance for duplicate removal. Default 0.0625"),
	}
}

func pointSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"score":       map[string]interface{}{"type": "number"},
			"x":           map[string]interface{}{"type": "number"},
			"y":           map[string]interface{}{"type": "number"},
			"direction":   map[string]interface{}{"type": "number"},
			"directional": map[string]interface{}{"type": "boolean"},
			"shape":       map[string]interface{}{"type": "number"},
		},
		"required": []string{"x", "y"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	decodeProps := gridSourceProps()
	decodeProps["suppress"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Remove near-duplicate points after decoding. Default true",
		"default":     true,
	}

	slotProps := gridSourceProps()
	slotProps["collinearity_thresh"] = numberProp("Dot product above which a third point blocks a pair. Default 0.8")
	slotProps["distance_gating"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Only pair points whose squared distance fits a configured slot window. Default true",
		"default":     true,
	}

	renderProps := gridSourceProps()
	for k, v := range slotProps {
		renderProps[k] = v
	}
	renderProps["image_path"] = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the camera image to draw on (PNG, JPEG, GIF, BMP or TIFF)",
	}
	renderProps["point_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Marker color as hex (#RRGGBB or #RRGGBBAA). Default #FF0000",
	}
	renderProps["slot_color"] = map[string]interface{}{
		"type":        "string",
		"description": "Slot line color as hex. Default #00FF00",
	}
	renderProps["tick_length"] = map[string]interface{}{
		"type":        "integer",
		"description": "Direction tick length in pixels, 0 to disable. Default 12",
	}
	renderProps["labels"] = map[string]interface{}{
		"type":        "boolean",
		"description": "Draw each point's index next to its marker. Default true",
		"default":     true,
	}

	return []Tool{
		// Grid Information
		{
			Name:        "markpoint_grid_info",
			Description: "Load a grid JSON file and report its shape and channel layout.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the grid JSON file",
					},
				},
				"required": []string{"path"},
			},
		},

		// Pipeline Stages
		{
			Name:        "markpoint_decode",
			Description: "Decode marking points from a detector output grid. Supply exactly one of path, channel_paths or values.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": decodeProps,
			},
		},
		{
			Name:        "markpoint_suppress",
			Description: "Remove near-duplicate marking points, keeping the higher-scoring point of every close pair.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": map[string]interface{}{
						"type":  "array",
						"items": pointSchema(),
					},
					"suppression_dist": numberProp("Per-axis normalized distance for duplicate removal. Default 0.0625"),
				},
				"required": []string{"points"},
			},
		},
		{
			Name:        "markpoint_pair",
			Description: "Decide whether two directional marking points form a slot edge and in which direction (a_to_b, b_to_a or none).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"a": pointSchema(),
					"b": pointSchema(),
				},
				"required": []string{"a", "b"},
			},
		},
		{
			Name:        "markpoint_occlusion",
			Description: "Check whether the segment between points i and j passes through any other point.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"points": map[string]interface{}{
						"type":  "array",
						"items": pointSchema(),
					},
					"i": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the first point (0-based)",
					},
					"j": map[string]interface{}{
						"type":        "integer",
						"description": "Index of the second point (0-based)",
					},
					"collinearity_thresh": numberProp("Dot product above which a point counts as between i and j. Default 0.8"),
				},
				"required": []string{"points", "i", "j"},
			},
		},

		// Full Pipeline
		{
			Name:        "markpoint_detect_slots",
			Description: "Decode, deduplicate and pair marking points from a grid, returning the accepted directed slot edges.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": slotProps,
			},
		},
		{
			Name:        "markpoint_detect_batch",
			Description: "Decode and deduplicate marking points from several grid JSON files in parallel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"paths": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Absolute paths to grid JSON files",
					},
					"point_thresh":     numberProp("Minimum confidence for a cell to produce a point"),
					"boundary_thresh":  numberProp("Normalized margin excluded on each side"),
					"suppression_dist": numberProp("Per-axis normalized distance for duplicate removal"),
				},
				"required": []string{"paths"},
			},
		},

		// Visualization
		{
			Name:        "markpoint_render_overlay",
			Description: "Detect marking points and slots from a grid and draw them on the camera image. Returns a base64 PNG.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": renderProps,
				"required":   []string{"image_path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
