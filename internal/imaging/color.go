package imaging

import (
	"image"
	"math"

	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
//
// Each component ranges from 0 to 255, where:
//   - 0 represents no intensity (black for all components)
//   - 255 represents full intensity (white for all components)
type RGBColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
//
// Tile reports include HSL so that a swatch service operator can reason about
// which part of the palette a photograph exercises.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// HSL converts the color to HSL space.
//
// Values are truncated to whole degrees and percentages. Achromatic colors
// (R == G == B) report a hue of 0.
func (c RGBColor) HSL() HSLColor {
	h, s, l := c.colorful().Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}

func (c RGBColor) colorful() colorful.Color {
	return colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
}

// RGBFromFloat builds an RGBColor from go-colorful components in [0,1].
// Components are clamped before conversion.
func RGBFromFloat(c colorful.Color) RGBColor {
	r, g, b := c.Clamped().RGB255()
	return RGBColor{R: r, G: g, B: b}
}

// PixelBuffer returns a non-premultiplied RGBA copy of img whose pixel data is
// laid out in raster-scan order starting at (0,0).
//
// Non-premultiplied values match what a browser canvas reports for the same
// pixels, so averaging over this buffer ignores alpha without darkening
// translucent regions.
func PixelBuffer(img image.Image) *image.NRGBA {
	return imaging.Clone(img)
}
