package mosaic

import (
	"fmt"
	"image"
)

// Layout is the tile grid laid over one source image.
//
// It is computed exactly once per image by NewLayout and shared by the Tiler
// and the Assembler, so the row width used to group resolved swatches can
// never drift from the row width used to cut tiles.
type Layout struct {
	Rows       int             `json:"rows"`
	Cols       int             `json:"cols"`
	TileWidth  int             `json:"tile_width"`
	TileHeight int             `json:"tile_height"`
	Bounds     image.Rectangle `json:"-"`
}

// NewLayout computes the grid for bounds: cols = floor(width/tileWidth) and
// rows = floor(height/tileHeight). Remainder strips on the right and bottom
// edge are not part of the grid. An image narrower or shorter than one tile
// has an empty grid with zero rows and zero cols.
func NewLayout(bounds image.Rectangle, tileWidth, tileHeight int) (Layout, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return Layout{}, fmt.Errorf("tile size must be positive, got %dx%d", tileWidth, tileHeight)
	}
	rows, cols := bounds.Dy()/tileHeight, bounds.Dx()/tileWidth
	if rows == 0 || cols == 0 {
		rows, cols = 0, 0
	}
	return Layout{
		Rows:       rows,
		Cols:       cols,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Bounds:     bounds,
	}, nil
}

// Len is the number of tiles in the grid.
func (l Layout) Len() int {
	return l.Rows * l.Cols
}

// Empty reports whether the image is too small to hold a single tile.
func (l Layout) Empty() bool {
	return l.Len() == 0
}

// Spec returns the tile at (row, col). Coordinates are relative to the image
// origin, not to Bounds.Min.
func (l Layout) Spec(row, col int) TileSpec {
	return TileSpec{
		Row:    row,
		Col:    col,
		X:      col * l.TileWidth,
		Y:      row * l.TileHeight,
		Width:  l.TileWidth,
		Height: l.TileHeight,
	}
}

// Specs lists every tile in row-major order.
func (l Layout) Specs() []TileSpec {
	specs := make([]TileSpec, 0, l.Len())
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Cols; col++ {
			specs = append(specs, l.Spec(row, col))
		}
	}
	return specs
}

// Dropped reports the width of the right strip and the height of the bottom
// strip that fall outside the grid.
func (l Layout) Dropped() (right, bottom int) {
	return l.Bounds.Dx() - l.Cols*l.TileWidth, l.Bounds.Dy() - l.Rows*l.TileHeight
}

// TileSpec is one fixed-size region of the source image.
//
// Row and Col are zero-based grid indices. X = Col*Width and Y = Row*Height,
// and the region always lies fully inside the source image.
type TileSpec struct {
	Row    int `json:"row"`
	Col    int `json:"col"`
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect is the tile's region in the coordinate space of an image whose bounds
// start at origin.
func (s TileSpec) Rect(origin image.Point) image.Rectangle {
	min := origin.Add(image.Pt(s.X, s.Y))
	return image.Rectangle{Min: min, Max: min.Add(image.Pt(s.Width, s.Height))}
}
