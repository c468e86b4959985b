// Package server implements the MCP (Model Context Protocol) server for the
// mosaic pipeline.
//
// The server speaks JSON-RPC 2.0 over stdio, one request per line on stdin and
// one response per line on stdout. Supported methods are initialize,
// tools/list, tools/call and ping.
//
// # Available Tools
//
// Source image:
//   - image_load: Load an image and report its metadata
//
// Tiling (no network access):
//   - mosaic_layout: Rows, columns and dropped edge strips for a tile size
//   - mosaic_tile_colors: Average color and color key of every tile
//
// Assembly:
//   - mosaic_build: Resolve every tile against the swatch service and
//     return the swatches row by row, optionally writing an HTML page
//
// Color keys:
//   - color_key: Convert between color keys and RGB
//
// # Image Caching
//
// Decoded source images are cached by path for the lifetime of the process.
// Swatches are never cached: every mosaic_build issues a fresh request per
// tile.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with code
// -32000 and the Go error string as data. A mosaic_build that fails to
// resolve any tile reports which tile and why; no partial mosaic is returned.
//
// # Usage
//
//	srv := server.New(config.Default(), logger)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
