package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the source image file",
}

var cropProperty = map[string]interface{}{
	"description": "false to fit inside the box, true to crop centered, or an anchor pair such as [\"left\", \"top\"]",
	"oneOf": []interface{}{
		map[string]interface{}{"type": "boolean"},
		map[string]interface{}{
			"type":  "array",
			"items": map[string]interface{}{"type": "string", "enum": []string{"left", "center", "right", "top", "bottom"}},
		},
	},
	"default": false,
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Source Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Geometry
		{
			Name:        "image_resize_plan",
			Description: "Compute the source rectangle and destination size a resize would use, without touching pixels. Returns skip=true when the image would not shrink.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Original width, used when path is not given",
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Original height, used when path is not given",
					},
					"dest_width": map[string]interface{}{
						"type":        "integer",
						"description": "Target width. Omit to derive it from dest_height",
					},
					"dest_height": map[string]interface{}{
						"type":        "integer",
						"description": "Target height. Omit to derive it from dest_width",
					},
					"crop": cropProperty,
					"zoom": map[string]interface{}{
						"type":        "number",
						"description": "Values above 1 crop tighter than a plain cover crop. Default 1",
						"default":     1.0,
					},
				},
			},
		},

		// Variants
		{
			Name:        "image_multi_resize",
			Description: "Produce one resized variant per size. Registered zoom, quality and filters for each size name are applied. Returns metadata for every variant that was written.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"sizes": map[string]interface{}{
						"type":        "array",
						"description": "Ordered sizes to produce. Defaults to the configured catalog",
						"items": map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"name":   map[string]interface{}{"type": "string"},
								"width":  map[string]interface{}{"type": "integer"},
								"height": map[string]interface{}{"type": "integer"},
								"crop":   cropProperty,
							},
							"required": []string{"name"},
						},
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory to write variants to. Defaults to the configured output backend",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_register_size_info",
			Description: "Register zoom, quality and filters for a size name. Keys already registered for the name keep their first value.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"name": map[string]interface{}{
						"type":        "string",
						"description": "Size name, e.g. thumbnail",
					},
					"zoom": map[string]interface{}{
						"type":        "number",
						"description": "Crop tightening factor (> 0)",
					},
					"quality": map[string]interface{}{
						"type":        "integer",
						"description": "Output quality 1-100",
					},
					"filters": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Filters applied in order after resizing",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "image_list_filters",
			Description: "List the filter names and resize engines available.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
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
