package render

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/mosaic-mcp/internal/config"
	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
)

func testGrid() *mosaic.Grid {
	layout, _ := mosaic.NewLayout(image.Rect(0, 0, 32, 32), 16, 16)
	return &mosaic.Grid{
		ID:     "grid-1",
		Layout: layout,
		Rows: [][]mosaic.Cell{
			{{Artifact: `<i class="s">a</i>`}, {Artifact: `<i class="s">b</i>`}},
			{{Artifact: `<i class="s">c</i>`}, {Artifact: `<i class="s">d</i>`}},
		},
	}
}

func testImage(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{40, 80, 120, 255})
		}
	}
	return img
}

func TestHTML_MosaicRows(t *testing.T) {
	page, err := NewPage(config.Display{}, testImage(32, 32), testGrid(), Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, page))
	out := buf.String()

	// Artifacts are inserted verbatim, in grid order, one flex row per grid row
	assert.Contains(t, out, `<div class="row" style="display: flex;"><i class="s">a</i><i class="s">b</i></div>`)
	assert.Contains(t, out, `<div class="row" style="display: flex;"><i class="s">c</i><i class="s">d</i></div>`)
	assert.Less(t, strings.Index(out, ">a<"), strings.Index(out, ">c<"))

	assert.Contains(t, out, `id="originalImage"`)
	assert.Contains(t, out, `id="mosaic"`)
	assert.Contains(t, out, `src="data:image/png;base64,`)
}

func TestHTML_CustomElementIDs(t *testing.T) {
	display := config.Display{FileInput: "photo", OriginalImage: "before", Mosaic: "after"}
	page := Page{Display: display, UploadAction: "/mosaic"}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, page))
	out := buf.String()

	assert.Contains(t, out, `id="photo"`)
	assert.Contains(t, out, `id="before"`)
	assert.Contains(t, out, `id="after"`)
	assert.Contains(t, out, `action="/mosaic"`)
	assert.NotContains(t, out, `class="row"`)
}

func TestHTML_ErrorEscaped(t *testing.T) {
	page := Page{Grid: testGrid(), Error: "<b>swatch 404</b>"}

	var buf bytes.Buffer
	require.NoError(t, HTML(&buf, page))
	out := buf.String()

	assert.Contains(t, out, "Sorry, something went wrong: &lt;b&gt;swatch 404&lt;/b&gt;")
	// No partial mosaic next to an error
	assert.NotContains(t, out, `class="row"`)
}

func TestNewPage_PreviewAndGrid(t *testing.T) {
	plain, err := NewPage(config.Display{}, testImage(32, 32), testGrid(), Options{})
	require.NoError(t, err)
	withGrid, err := NewPage(config.Display{}, testImage(32, 32), testGrid(), Options{ShowGrid: true})
	require.NoError(t, err)

	assert.NotEmpty(t, plain.OriginalURI)
	assert.NotEqual(t, plain.OriginalURI, withGrid.OriginalURI)
}

func TestNewPage_NoImage(t *testing.T) {
	page, err := NewPage(config.Display{}, nil, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, page.OriginalURI)
	assert.Equal(t, "mosaic", page.Display.Mosaic)
}
