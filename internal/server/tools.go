package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the source image (PNG, JPEG or GIF)",
	}
}

func tileSizeProperties(props map[string]interface{}) map[string]interface{} {
	props["tile_width"] = map[string]interface{}{
		"type":        "integer",
		"description": "Tile width in pixels. Defaults to the server configuration",
	}
	props["tile_height"] = map[string]interface{}{
		"type":        "integer",
		"description": "Tile height in pixels. Defaults to the server configuration",
	}
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Source image
		{
			Name:        "image_load",
			Description: "Load a source image and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Tiling
		{
			Name:        "mosaic_layout",
			Description: "Compute the tile grid for an image: rows, columns and the width/height of the edge strips that are dropped because they cannot hold a whole tile.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": tileSizeProperties(map[string]interface{}{
					"path": pathProperty(),
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "mosaic_tile_colors",
			Description: "Cut an image into tiles and report each tile's average color and color key without contacting the swatch service.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": tileSizeProperties(map[string]interface{}{
					"path": pathProperty(),
					"sample_stride": map[string]interface{}{
						"type":        "integer",
						"description": "Average every Nth pixel. Default 5",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Assembly
		{
			Name:        "mosaic_build",
			Description: "Build a mosaic: every tile's color key is resolved against the swatch service (GET /color/{key}) and the swatches are returned row by row. Fails as a whole if any swatch cannot be resolved.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": tileSizeProperties(map[string]interface{}{
					"path": pathProperty(),
					"swatch_url": map[string]interface{}{
						"type":        "string",
						"description": "Base URL of the swatch service. Defaults to the server configuration",
					},
					"output_html": map[string]interface{}{
						"type":        "string",
						"description": "Optional path to write the rendered mosaic page to",
					},
					"show_grid": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw the tile grid over the original image in the rendered page",
						"default":     false,
					},
				}),
				"required": []string{"path"},
			},
		},

		// Color keys
		{
			Name:        "color_key",
			Description: "Describe a color key (6 lowercase hex digits) or encode an RGB color as one.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"key": map[string]interface{}{
						"type":        "string",
						"description": "Color key to decode, e.g. 0f00ff",
					},
					"r": map[string]interface{}{"type": "integer", "description": "Red 0-255"},
					"g": map[string]interface{}{"type": "integer", "description": "Green 0-255"},
					"b": map[string]interface{}{"type": "integer", "description": "Blue 0-255"},
				},
			},
		},
	}
}

// handleToolsList returns the tool catalogue
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
