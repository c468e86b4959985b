package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// PNGMimeType is the MIME type of every raster produced by this package.
const PNGMimeType = "image/png"

// CropRegion copies a rectangular region out of img.
//
// The rectangle is given in the image's own coordinate space, so for images
// whose bounds do not start at (0,0) the caller offsets from Bounds().Min.
// The returned image always starts at (0,0) and shares no pixels with img.
//
// # Errors
//
//   - Returns error if the region is empty
//   - Returns error if the region is not fully inside the image bounds;
//     regions are never clipped
func CropRegion(img image.Image, region image.Rectangle) (*image.NRGBA, error) {
	bounds := img.Bounds()
	if region.Empty() {
		return nil, fmt.Errorf("invalid crop region %v: region is empty", region)
	}
	if !region.In(bounds) {
		return nil, fmt.Errorf("crop region %v outside image bounds %v", region, bounds)
	}

	return imaging.Crop(img, region), nil
}

// EncodePNG encodes img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURI renders encoded image bytes as a data URI suitable for an <img> src.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
