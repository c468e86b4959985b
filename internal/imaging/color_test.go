package imaging

import (
	"image"
	"image/color"
	"testing"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// createInMemoryImage creates an in-memory test image
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRGBColor_HSL(t *testing.T) {
	tests := []struct {
		name    string
		c       RGBColor
		h, s, l int
	}{
		{"red", RGBColor{R: 255}, 0, 100, 50},
		{"green", RGBColor{G: 255}, 120, 100, 50},
		{"blue", RGBColor{B: 255}, 240, 100, 50},
		{"white", RGBColor{R: 255, G: 255, B: 255}, 0, 0, 100},
		{"black", RGBColor{}, 0, 0, 0},
		{"gray", RGBColor{R: 128, G: 128, B: 128}, 0, 0, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.c.HSL()
			if abs(got.H-tt.h) > 1 || abs(got.S-tt.s) > 1 || abs(got.L-tt.l) > 1 {
				t.Errorf("HSL: got (%d,%d,%d), want (%d,%d,%d)", got.H, got.S, got.L, tt.h, tt.s, tt.l)
			}
		})
	}
}

func TestRGBFromFloat(t *testing.T) {
	tests := []struct {
		in   colorful.Color
		want RGBColor
	}{
		{colorful.Color{R: 1, G: 0, B: 0}, RGBColor{R: 255}},
		{colorful.Color{R: 15.0 / 255, G: 0, B: 1}, RGBColor{R: 15, B: 255}},
		{colorful.Color{R: 1.5, G: -0.2, B: 0.5}, RGBColor{R: 255, G: 0, B: 128}},
	}

	for _, tt := range tests {
		if got := RGBFromFloat(tt.in); got != tt.want {
			t.Errorf("RGBFromFloat(%v): got %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestPixelBuffer(t *testing.T) {
	src := createPatternImage(4, 4)
	sub := src.SubImage(image.Rect(2, 2, 4, 4))

	buf := PixelBuffer(sub)
	if buf.Rect.Min != (image.Point{}) {
		t.Errorf("buffer should start at origin, got %v", buf.Rect.Min)
	}
	if buf.Rect.Dx() != 2 || buf.Rect.Dy() != 2 {
		t.Fatalf("buffer size: got %dx%d, want 2x2", buf.Rect.Dx(), buf.Rect.Dy())
	}
	// First pixel is the white quadrant's top-left
	if buf.Pix[0] != 255 || buf.Pix[1] != 255 || buf.Pix[2] != 255 {
		t.Errorf("first pixel: got (%d,%d,%d), want white", buf.Pix[0], buf.Pix[1], buf.Pix[2])
	}

	// Copies do not alias the source
	buf.Pix[0] = 0
	if r, _, _, _ := src.At(2, 2).RGBA(); r>>8 != 255 {
		t.Error("PixelBuffer aliases the source image")
	}
}

func TestPixelBuffer_NonPremultiplied(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	img.SetNRGBA(0, 0, color.NRGBA{200, 100, 50, 64})

	buf := PixelBuffer(img)
	if buf.Pix[0] != 200 || buf.Pix[1] != 100 || buf.Pix[2] != 50 {
		t.Errorf("pixel: got (%d,%d,%d), want (200,100,50)", buf.Pix[0], buf.Pix[1], buf.Pix[2])
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
