package mosaic

import (
	"fmt"
	"image"

	"github.com/ironsheep/mosaic-mcp/internal/imaging"
)

// TileRaster is the rendered pixel buffer of one tile, PNG encoded.
type TileRaster struct {
	Spec TileSpec
	Data []byte
}

// DataURI renders the raster as a data URI.
func (r TileRaster) DataURI() string {
	return imaging.DataURI(imaging.PNGMimeType, r.Data)
}

// Tiler cuts a source image into a row-major grid of fixed-size rasters.
type Tiler struct {
	TileWidth  int
	TileHeight int
}

// NewTiler returns a Tiler for tiles of the given size.
func NewTiler(tileWidth, tileHeight int) Tiler {
	return Tiler{TileWidth: tileWidth, TileHeight: tileHeight}
}

// Layout computes the grid for img without cutting anything.
func (t Tiler) Layout(img image.Image) (Layout, error) {
	return NewLayout(img.Bounds(), t.TileWidth, t.TileHeight)
}

// Cut partitions img into floor(w/TileWidth) * floor(h/TileHeight) rasters,
// ordered row by row and left to right within a row. Partial tiles on the
// right and bottom edges are dropped, not padded or scaled. An image smaller
// than one tile yields an empty slice and no error.
//
// Every raster is an independent copy; no two rasters share pixel memory.
func (t Tiler) Cut(img image.Image) (Layout, []TileRaster, error) {
	layout, err := t.Layout(img)
	if err != nil {
		return Layout{}, nil, err
	}

	origin := img.Bounds().Min
	rasters := make([]TileRaster, 0, layout.Len())
	for _, spec := range layout.Specs() {
		region, err := imaging.CropRegion(img, spec.Rect(origin))
		if err != nil {
			return Layout{}, nil, fmt.Errorf("cut tile (%d,%d): %w", spec.Row, spec.Col, err)
		}
		data, err := imaging.EncodePNG(region)
		if err != nil {
			return Layout{}, nil, fmt.Errorf("encode tile (%d,%d): %w", spec.Row, spec.Col, err)
		}
		rasters = append(rasters, TileRaster{Spec: spec, Data: data})
	}

	return layout, rasters, nil
}
