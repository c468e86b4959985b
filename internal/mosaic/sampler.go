package mosaic

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	log "github.com/sirupsen/logrus"

	"github.com/ironsheep/mosaic-mcp/internal/imaging"
)

// RGBColor is an 8-bit RGB color.
type RGBColor = imaging.RGBColor

// DefaultSampleStride samples every fifth pixel.
const DefaultSampleStride = 5

var (
	// ErrRasterDecode marks a sample whose raster could not be decoded.
	ErrRasterDecode = errors.New("tile raster could not be decoded")

	// ErrPixelBuffer marks a sample whose pixel buffer could not be read.
	ErrPixelBuffer = errors.New("tile pixel buffer unreadable")
)

// Sample is the outcome of averaging one tile.
//
// Err is nil for a computed color. When the raster or its pixels could not be
// read, Color is the sentinel black {0,0,0} and Err wraps ErrRasterDecode or
// ErrPixelBuffer. A fallback is recoverable: the tile is still resolved using
// the sentinel color.
type Sample struct {
	Color RGBColor
	Err   error
}

// Fallback reports whether the sentinel color was substituted.
func (s Sample) Fallback() bool {
	return s.Err != nil
}

// Sampler computes a representative color per tile by averaging a subsample
// of its pixels.
type Sampler struct {
	stride int
	log    log.FieldLogger
}

// NewSampler returns a Sampler that reads every stride-th pixel. A stride
// below 1 selects DefaultSampleStride. A nil logger uses the standard logger.
func NewSampler(stride int, logger log.FieldLogger) *Sampler {
	if stride < 1 {
		stride = DefaultSampleStride
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Sampler{stride: stride, log: logger}
}

// Stride is the sampling step in pixels.
func (s *Sampler) Stride() int {
	return s.stride
}

// AverageColor decodes raster and averages its pixels.
func (s *Sampler) AverageColor(raster TileRaster) Sample {
	img, _, err := image.Decode(bytes.NewReader(raster.Data))
	if err != nil {
		s.log.WithFields(log.Fields{
			"row": raster.Spec.Row,
			"col": raster.Spec.Col,
		}).Debugf("tile raster decode failed, using sentinel color: %v", err)
		return Sample{Err: fmt.Errorf("%w: %v", ErrRasterDecode, err)}
	}

	sample := s.AverageImage(img)
	if errors.Is(sample.Err, ErrPixelBuffer) {
		s.log.WithFields(log.Fields{
			"row": raster.Spec.Row,
			"col": raster.Spec.Col,
		}).Warnf("tile pixels unreadable, using sentinel color: %v", sample.Err)
	}
	return sample
}

// AverageImage walks the pixels of img in raster-scan order, starting with the
// first pixel and taking every stride-th one. Each channel of the result is the
// truncated mean of the sampled values; alpha is ignored.
func (s *Sampler) AverageImage(img image.Image) Sample {
	buf := imaging.PixelBuffer(img)
	w, h := buf.Rect.Dx(), buf.Rect.Dy()
	total := w * h
	if total == 0 {
		return Sample{Err: fmt.Errorf("%w: no pixels", ErrPixelBuffer)}
	}
	if len(buf.Pix) < (h-1)*buf.Stride+w*4 {
		return Sample{Err: fmt.Errorf("%w: buffer holds %d bytes, need %d", ErrPixelBuffer, len(buf.Pix), (h-1)*buf.Stride+w*4)}
	}

	var r, g, b, count uint64
	for p := 0; p < total; p += s.stride {
		i := (p/w)*buf.Stride + (p%w)*4
		r += uint64(buf.Pix[i])
		g += uint64(buf.Pix[i+1])
		b += uint64(buf.Pix[i+2])
		count++
	}

	return Sample{Color: RGBColor{
		R: uint8(r / count),
		G: uint8(g / count),
		B: uint8(b / count),
	}}
}
