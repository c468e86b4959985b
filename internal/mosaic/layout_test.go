package mosaic

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		tileW, tileH  int
		wantRows      int
		wantCols      int
		wantRight     int
		wantBottom    int
	}{
		{"exact fit", 64, 32, 16, 16, 2, 4, 0, 0},
		{"remainders dropped", 40, 25, 16, 16, 1, 2, 8, 9},
		{"smaller than one tile", 10, 10, 16, 16, 0, 0, 10, 10},
		{"narrower than one tile", 10, 64, 16, 16, 0, 0, 10, 64},
		{"shorter than one tile", 64, 10, 16, 16, 0, 0, 64, 10},
		{"narrow tiles", 30, 10, 5, 10, 1, 6, 0, 0},
		{"single tile", 16, 16, 16, 16, 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout, err := NewLayout(image.Rect(0, 0, tt.width, tt.height), tt.tileW, tt.tileH)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, layout.Rows)
			assert.Equal(t, tt.wantCols, layout.Cols)
			assert.Equal(t, tt.wantRows*tt.wantCols, layout.Len())
			assert.Equal(t, layout.Len() == 0, layout.Empty())

			right, bottom := layout.Dropped()
			assert.Equal(t, tt.wantRight, right)
			assert.Equal(t, tt.wantBottom, bottom)
		})
	}
}

func TestNewLayout_InvalidTileSize(t *testing.T) {
	for _, size := range [][2]int{{0, 16}, {16, 0}, {-1, 16}} {
		_, err := NewLayout(image.Rect(0, 0, 64, 64), size[0], size[1])
		assert.Error(t, err, "tile size %v", size)
	}
}

func TestLayout_Specs(t *testing.T) {
	layout, err := NewLayout(image.Rect(0, 0, 50, 35), 16, 16)
	require.NoError(t, err)

	specs := layout.Specs()
	require.Len(t, specs, 6)

	for i, spec := range specs {
		// Row-major order
		assert.Equal(t, i/layout.Cols, spec.Row)
		assert.Equal(t, i%layout.Cols, spec.Col)
		assert.Equal(t, spec.Col*16, spec.X)
		assert.Equal(t, spec.Row*16, spec.Y)
		assert.Equal(t, 16, spec.Width)
		assert.Equal(t, 16, spec.Height)

		// Fully inside the image
		assert.True(t, spec.Rect(image.Point{}).In(layout.Bounds), "tile %d outside image", i)
	}
}

func TestTileSpec_RectOffsetOrigin(t *testing.T) {
	spec := TileSpec{Row: 1, Col: 2, X: 32, Y: 16, Width: 16, Height: 16}
	got := spec.Rect(image.Pt(10, 5))
	assert.Equal(t, image.Rect(42, 21, 58, 37), got)
}
