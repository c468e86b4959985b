package server

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/mosaic-mcp/internal/config"
	"github.com/ironsheep/mosaic-mcp/internal/imaging"
	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/mosaic-mcp/internal/render"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "mosaic_build").
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

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.log.WithError(err).WithField("tool", params.Name).Warn("tool call failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

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
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Tiling
	case "mosaic_layout":
		return s.handleMosaicLayout(args)
	case "mosaic_tile_colors":
		return s.handleMosaicTileColors(args)

	// Assembly
	case "mosaic_build":
		return s.handleMosaicBuild(args)

	case "color_key":
		return s.handleColorKey(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Source Image ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Tiling ===

// tileArgs are the arguments shared by every tool that tiles an image.
// Zero values fall back to the server configuration.
type tileArgs struct {
	Path         string `json:"path"`
	TileWidth    int    `json:"tile_width"`
	TileHeight   int    `json:"tile_height"`
	SampleStride int    `json:"sample_stride"`
}

// configFor applies per-call overrides to the server configuration.
func (s *Server) configFor(a tileArgs, swatchURL string) (config.Config, error) {
	cfg := s.cfg
	if a.TileWidth != 0 {
		cfg.TileWidth = a.TileWidth
	}
	if a.TileHeight != 0 {
		cfg.TileHeight = a.TileHeight
	}
	if a.SampleStride != 0 {
		cfg.SampleStride = a.SampleStride
	}
	if swatchURL != "" {
		cfg.SwatchURL = swatchURL
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

type layoutResult struct {
	Width        int `json:"width"`
	Height       int `json:"height"`
	TileWidth    int `json:"tile_width"`
	TileHeight   int `json:"tile_height"`
	Rows         int `json:"rows"`
	Cols         int `json:"cols"`
	Tiles        int `json:"tiles"`
	DroppedRight int `json:"dropped_right"`
	DroppedBelow int `json:"dropped_bottom"`
}

func (s *Server) handleMosaicLayout(args json.RawMessage) (interface{}, error) {
	var a tileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	cfg, err := s.configFor(a, "")
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	layout, err := mosaic.NewTiler(cfg.TileWidth, cfg.TileHeight).Layout(img)
	if err != nil {
		return nil, err
	}
	right, bottom := layout.Dropped()
	return &layoutResult{
		Width:        layout.Bounds.Dx(),
		Height:       layout.Bounds.Dy(),
		TileWidth:    layout.TileWidth,
		TileHeight:   layout.TileHeight,
		Rows:         layout.Rows,
		Cols:         layout.Cols,
		Tiles:        layout.Len(),
		DroppedRight: right,
		DroppedBelow: bottom,
	}, nil
}

type tileColor struct {
	Row      int              `json:"row"`
	Col      int              `json:"col"`
	X        int              `json:"x"`
	Y        int              `json:"y"`
	Key      mosaic.ColorKey  `json:"key"`
	RGB      imaging.RGBColor `json:"rgb"`
	HSL      imaging.HSLColor `json:"hsl"`
	Fallback bool             `json:"fallback"`
	Reason   string           `json:"reason,omitempty"`
}

type tileColorsResult struct {
	Rows         int         `json:"rows"`
	Cols         int         `json:"cols"`
	SampleStride int         `json:"sample_stride"`
	Fallbacks    int         `json:"fallbacks"`
	Tiles        []tileColor `json:"tiles"`
}

func (s *Server) handleMosaicTileColors(args json.RawMessage) (interface{}, error) {
	var a tileArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	cfg, err := s.configFor(a, "")
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	layout, rasters, err := mosaic.NewTiler(cfg.TileWidth, cfg.TileHeight).Cut(img)
	if err != nil {
		return nil, err
	}
	sampler := mosaic.NewSampler(cfg.SampleStride, s.log)

	result := &tileColorsResult{
		Rows:         layout.Rows,
		Cols:         layout.Cols,
		SampleStride: cfg.SampleStride,
		Tiles:        make([]tileColor, 0, len(rasters)),
	}
	for _, raster := range rasters {
		sample := sampler.AverageColor(raster)
		tc := tileColor{
			Row: raster.Spec.Row,
			Col: raster.Spec.Col,
			X:   raster.Spec.X,
			Y:   raster.Spec.Y,
			Key: mosaic.ToKey(sample.Color),
			RGB: sample.Color,
			HSL: sample.Color.HSL(),
		}
		if sample.Fallback() {
			tc.Fallback = true
			tc.Reason = sample.Err.Error()
			result.Fallbacks++
		}
		result.Tiles = append(result.Tiles, tc)
	}
	return result, nil
}

// === Assembly ===

type mosaicBuildArgs struct {
	tileArgs
	SwatchURL  string `json:"swatch_url"`
	OutputHTML string `json:"output_html"`
	ShowGrid   bool   `json:"show_grid"`
}

type buildResult struct {
	ID        string                    `json:"id"`
	Rows      int                       `json:"rows"`
	Cols      int                       `json:"cols"`
	Tiles     int                       `json:"tiles"`
	Fallbacks int                       `json:"fallbacks"`
	Elapsed   string                    `json:"elapsed"`
	Artifacts [][]mosaic.SwatchArtifact `json:"artifacts"`
	HTMLPath  string                    `json:"html_path,omitempty"`
}

func (s *Server) handleMosaicBuild(args json.RawMessage) (interface{}, error) {
	var a mosaicBuildArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("path is required")
	}
	cfg, err := s.configFor(a.tileArgs, a.SwatchURL)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	resolver, err := cfg.NewResolver()
	if err != nil {
		return nil, err
	}
	assembler, err := mosaic.NewAssembler(cfg.MosaicOptions(), resolver, s.log)
	if err != nil {
		return nil, err
	}

	started := time.Now()
	grid, err := assembler.Assemble(s.ctx, img)
	if err != nil {
		return nil, err
	}

	result := &buildResult{
		ID:        grid.ID,
		Rows:      grid.Layout.Rows,
		Cols:      grid.Layout.Cols,
		Tiles:     grid.Layout.Len(),
		Fallbacks: grid.Fallbacks(),
		Elapsed:   time.Since(started).String(),
		Artifacts: grid.Artifacts(),
	}

	if a.OutputHTML != "" {
		path, err := writeMosaicHTML(a.OutputHTML, cfg, img, grid, a.ShowGrid)
		if err != nil {
			return nil, err
		}
		result.HTMLPath = path
		s.log.WithFields(log.Fields{
			"grid": grid.ID,
			"path": path,
		}).Info("mosaic page written")
	}
	return result, nil
}

func writeMosaicHTML(path string, cfg config.Config, img image.Image, grid *mosaic.Grid, showGrid bool) (string, error) {
	page, err := render.NewPage(cfg.Display, img, grid, render.Options{ShowGrid: showGrid})
	if err != nil {
		return "", err
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve output path: %w", err)
	}
	f, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render.HTML(f, page); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}
	return abs, nil
}

// === Color Keys ===

type colorKeyArgs struct {
	Key string `json:"key"`
	R   *int   `json:"r"`
	G   *int   `json:"g"`
	B   *int   `json:"b"`
}

type colorKeyResult struct {
	Key mosaic.ColorKey  `json:"key"`
	Hex string           `json:"hex"`
	RGB imaging.RGBColor `json:"rgb"`
	HSL imaging.HSLColor `json:"hsl"`
}

func (s *Server) handleColorKey(args json.RawMessage) (interface{}, error) {
	var a colorKeyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	var rgb imaging.RGBColor
	switch {
	case a.Key != "":
		key, err := mosaic.ParseKey(a.Key)
		if err != nil {
			return nil, err
		}
		if rgb, err = key.RGB(); err != nil {
			return nil, err
		}
	case a.R != nil && a.G != nil && a.B != nil:
		for _, v := range []int{*a.R, *a.G, *a.B} {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("color component out of range: %d", v)
			}
		}
		rgb = imaging.RGBColor{R: uint8(*a.R), G: uint8(*a.G), B: uint8(*a.B)}
	default:
		return nil, fmt.Errorf("either key or all of r, g, b are required")
	}

	key := mosaic.ToKey(rgb)
	return &colorKeyResult{
		Key: key,
		Hex: "#" + key.String(),
		RGB: rgb,
		HSL: rgb.HSL(),
	}, nil
}
