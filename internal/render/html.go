// Package render paints a finished mosaic, next to the original photo, as an
// HTML page.
package render

import (
	"fmt"
	"html/template"
	"image"
	"io"

	"github.com/ironsheep/mosaic-mcp/internal/config"
	"github.com/ironsheep/mosaic-mcp/internal/imaging"
	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
)

// Page is everything the page template needs.
type Page struct {
	Title   string
	Display config.Display

	// OriginalURI is the data URI of the original image preview. Empty
	// hides the original.
	OriginalURI string

	// Grid is the assembled mosaic. Nil renders no mosaic rows.
	Grid *mosaic.Grid

	// UploadAction, when set, renders an upload form posting to it.
	UploadAction string

	// Error is shown instead of the mosaic.
	Error string
}

// Options controls how the original image is shown.
type Options struct {
	// ShowGrid draws the tile grid over the original preview.
	ShowGrid bool

	// GridColor is the overlay color as "#RRGGBB" or "#RRGGBBAA".
	GridColor string
}

// NewPage prepares a page for img and its grid. The original is scaled to at
// most display.PreviewWidth pixels wide.
func NewPage(display config.Display, img image.Image, grid *mosaic.Grid, opts Options) (Page, error) {
	display = display.WithDefaults()
	page := Page{
		Title:   "Mosaic",
		Display: display,
		Grid:    grid,
	}
	if img == nil {
		return page, nil
	}

	original := img
	if opts.ShowGrid && grid != nil {
		overlay, err := imaging.GridOverlay(img, grid.Layout.TileWidth, grid.Layout.TileHeight, opts.GridColor)
		if err != nil {
			return Page{}, fmt.Errorf("draw tile grid: %w", err)
		}
		original = overlay
	}

	uri, err := imaging.PreviewDataURI(original, display.PreviewWidth)
	if err != nil {
		return Page{}, fmt.Errorf("render original preview: %w", err)
	}
	page.OriginalURI = uri
	return page, nil
}

// HTML writes the page. Swatch artifacts are inserted verbatim as markup, one
// flex row per grid row, in column order.
func HTML(w io.Writer, p Page) error {
	if p.Title == "" {
		p.Title = "Mosaic"
	}
	p.Display = p.Display.WithDefaults()
	if err := pageTemplate.Execute(w, p); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	// Swatches come from the configured swatch service and are trusted.
	"markup": func(a mosaic.SwatchArtifact) template.HTML { return template.HTML(a) },
	// Data URIs are produced locally by the imaging package.
	"datauri": func(s string) template.URL { return template.URL(s) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
{{- if .UploadAction}}
<form method="post" action="{{.UploadAction}}" enctype="multipart/form-data">
<input type="file" id="{{.Display.FileInput}}" name="file" accept="image/*">
<button type="submit">Build mosaic</button>
</form>
{{- end}}
<img id="{{.Display.OriginalImage}}"{{if .OriginalURI}} src="{{datauri .OriginalURI}}"{{end}} alt="original">
<div id="{{.Display.Mosaic}}">
{{- if .Error}}
<p class="error">Sorry, something went wrong: {{.Error}}</p>
{{- else if .Grid}}
{{- range .Grid.Rows}}
<div class="row" style="display: flex;">{{range .}}{{markup .Artifact}}{{end}}</div>
{{- end}}
{{- end}}
</div>
</body>
</html>
`))
