package mosaic

import (
	"errors"
	"image"
	"image/color"
	"io"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	logger := log.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestSampler_UniformTile(t *testing.T) {
	_, rasters, err := NewTiler(16, 16).Cut(solidImage(16, 16, color.RGBA{15, 0, 255, 255}))
	require.NoError(t, err)

	sample := NewSampler(5, quietLogger()).AverageColor(rasters[0])
	require.NoError(t, sample.Err)
	assert.False(t, sample.Fallback())
	assert.Equal(t, RGBColor{R: 15, G: 0, B: 255}, sample.Color)
}

func TestSampler_StrideStartsAtFirstPixel(t *testing.T) {
	// 5x2 image: stride 5 samples pixel 0 (0,0) and pixel 5 (0,1) only
	img := solidImage(5, 2, color.RGBA{200, 200, 200, 255})
	img.Set(0, 0, color.RGBA{10, 20, 30, 255})
	img.Set(0, 1, color.RGBA{30, 40, 50, 255})

	sample := NewSampler(5, quietLogger()).AverageImage(img)
	require.NoError(t, sample.Err)
	assert.Equal(t, RGBColor{R: 20, G: 30, B: 40}, sample.Color)
}

func TestSampler_TruncatesMean(t *testing.T) {
	img := solidImage(5, 2, color.RGBA{0, 0, 0, 255})
	img.Set(0, 0, color.RGBA{1, 255, 0, 255})
	img.Set(0, 1, color.RGBA{2, 254, 3, 255})

	sample := NewSampler(5, quietLogger()).AverageImage(img)
	require.NoError(t, sample.Err)
	assert.Equal(t, RGBColor{R: 1, G: 254, B: 1}, sample.Color)
}

func TestSampler_StrideOne(t *testing.T) {
	img := solidImage(2, 2, color.RGBA{0, 0, 0, 255})
	img.Set(1, 1, color.RGBA{100, 40, 8, 255})

	sample := NewSampler(1, quietLogger()).AverageImage(img)
	require.NoError(t, sample.Err)
	assert.Equal(t, RGBColor{R: 25, G: 10, B: 2}, sample.Color)
}

func TestSampler_IgnoresAlpha(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.SetNRGBA(x, y, color.NRGBA{100, 150, 200, 10})
		}
	}

	sample := NewSampler(5, quietLogger()).AverageImage(img)
	require.NoError(t, sample.Err)
	assert.Equal(t, RGBColor{R: 100, G: 150, B: 200}, sample.Color)
}

func TestSampler_DecodeFailureFallsBack(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)

	sample := NewSampler(5, logger).AverageColor(TileRaster{
		Spec: TileSpec{Row: 2, Col: 3},
		Data: []byte("not a png"),
	})

	assert.True(t, sample.Fallback())
	assert.True(t, errors.Is(sample.Err, ErrRasterDecode))
	assert.Equal(t, RGBColor{}, sample.Color)
	assert.Equal(t, ColorKey("000000"), ToKey(sample.Color))

	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, log.DebugLevel, hook.LastEntry().Level)
	assert.Equal(t, 2, hook.LastEntry().Data["row"])
}

func TestSampler_EmptyPixelBufferFallsBack(t *testing.T) {
	sample := NewSampler(5, quietLogger()).AverageImage(image.NewRGBA(image.Rect(0, 0, 0, 0)))

	assert.True(t, sample.Fallback())
	assert.True(t, errors.Is(sample.Err, ErrPixelBuffer))
	assert.Equal(t, RGBColor{}, sample.Color)
}

func TestNewSampler_DefaultStride(t *testing.T) {
	assert.Equal(t, DefaultSampleStride, NewSampler(0, nil).Stride())
	assert.Equal(t, DefaultSampleStride, NewSampler(-3, nil).Stride())
	assert.Equal(t, 7, NewSampler(7, nil).Stride())
}
