package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
)

// Preview scales img down so that it is at most maxWidth pixels wide,
// preserving the aspect ratio. Images that already fit, and a non-positive
// maxWidth, return img unchanged.
func Preview(img image.Image, maxWidth int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if maxWidth <= 0 || w <= maxWidth {
		return img
	}

	newH := h * maxWidth / w
	if newH < 1 {
		newH = 1
	}
	return transform.Resize(img, maxWidth, newH, transform.Linear)
}

// PreviewDataURI renders a PNG preview of img as a data URI.
func PreviewDataURI(img image.Image, maxWidth int) (string, error) {
	data, err := EncodePNG(Preview(img, maxWidth))
	if err != nil {
		return "", err
	}
	return DataURI(PNGMimeType, data), nil
}
