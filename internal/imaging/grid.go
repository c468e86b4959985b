package imaging

import (
	"fmt"
	"image"
	"image/color"
	"strconv"

	"github.com/disintegration/imaging"
)

// DefaultGridColor is a semi-transparent red used when no grid color is given.
var DefaultGridColor = color.NRGBA{255, 0, 0, 128}

// GridOverlay draws the tile grid on a copy of img.
//
// A line is drawn on every tile boundary that falls inside the covered area.
// The strips on the right and bottom edge that are too narrow to hold a whole
// tile are dimmed, which makes it visible which pixels the mosaic drops.
//
// The grid color is parsed from "#RRGGBB" or "#RRGGBBAA"; an invalid or empty
// string falls back to DefaultGridColor.
func GridOverlay(img image.Image, tileWidth, tileHeight int, gridColorHex string) (*image.NRGBA, error) {
	if tileWidth <= 0 || tileHeight <= 0 {
		return nil, fmt.Errorf("tile size must be positive, got %dx%d", tileWidth, tileHeight)
	}

	gridColor, err := parseHexColor(gridColorHex)
	if err != nil {
		gridColor = DefaultGridColor
	}

	result := imaging.Clone(img)
	width := result.Bounds().Dx()
	height := result.Bounds().Dy()
	coveredW := width / tileWidth * tileWidth
	coveredH := height / tileHeight * tileHeight

	// Dim dropped strips
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < coveredW && y < coveredH {
				continue
			}
			c := result.NRGBAAt(x, y)
			result.SetNRGBA(x, y, color.NRGBA{c.R / 3, c.G / 3, c.B / 3, c.A})
		}
	}

	// Vertical lines
	for x := tileWidth; x < coveredW; x += tileWidth {
		for y := 0; y < coveredH; y++ {
			result.SetNRGBA(x, y, blend(result.NRGBAAt(x, y), gridColor))
		}
	}

	// Horizontal lines
	for y := tileHeight; y < coveredH; y += tileHeight {
		for x := 0; x < coveredW; x++ {
			result.SetNRGBA(x, y, blend(result.NRGBAAt(x, y), gridColor))
		}
	}

	return result, nil
}

// blend composites src over dst using src's alpha.
func blend(dst, src color.NRGBA) color.NRGBA {
	a := uint32(src.A)
	mix := func(d, s uint8) uint8 {
		return uint8((uint32(s)*a + uint32(d)*(255-a)) / 255)
	}
	return color.NRGBA{
		R: mix(dst.R, src.R),
		G: mix(dst.G, src.G),
		B: mix(dst.B, src.B),
		A: dst.A,
	}
}

// parseHexColor parses a hex color string like "#FF0000" or "#FF000080"
func parseHexColor(hex string) (color.NRGBA, error) {
	if len(hex) == 0 {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] == '#' {
		hex = hex[1:]
	}

	var r, g, b, a uint8 = 0, 0, 0, 255

	switch len(hex) {
	case 6:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 16)
		g = uint8(val >> 8)
		b = uint8(val)
	case 8:
		val, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.NRGBA{}, err
		}
		r = uint8(val >> 24)
		g = uint8(val >> 16)
		b = uint8(val >> 8)
		a = uint8(val)
	default:
		return color.NRGBA{}, fmt.Errorf("invalid hex color length")
	}

	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}
