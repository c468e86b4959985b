// Package config holds the settings shared by every mosaic entry point.
//
// Settings come from, in increasing precedence: built-in defaults, the YAML
// config file ($HOME/.mosaic.yaml or --config), MOSAIC_* environment variables
// and command-line flags. Cobra commands bind their flags to a viper instance
// and call FromViper; library callers can start from Default.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
)

// Viper keys.
const (
	KeyTileWidth      = "tile.width"
	KeyTileHeight     = "tile.height"
	KeySampleStride   = "sample.stride"
	KeySwatchURL      = "swatch.url"
	KeySwatchTimeout  = "swatch.timeout"
	KeyUserAgent      = "swatch.user-agent"
	KeyRowConcurrency = "assemble.row-concurrency"
	KeyFileInput      = "display.file-input"
	KeyOriginalImage  = "display.original-image"
	KeyMosaic         = "display.mosaic"
	KeyPreviewWidth   = "display.preview-width"
	KeyServerBind     = "server.bind"
	KeyServerPort     = "server.port"
	KeyServerTimeout  = "server.timeout"
	KeyMaxUpload      = "server.max-upload-bytes"
	KeyLogLevel       = "log.level"
)

// EnvPrefix is prepended to environment variable names: tile.width is read
// from MOSAIC_TILE_WIDTH.
const EnvPrefix = "MOSAIC"

// Defaults.
const (
	DefaultTileWidth     = 16
	DefaultTileHeight    = 16
	DefaultSwatchURL     = "http://localhost:8765"
	DefaultFileInput     = "file"
	DefaultOriginalImage = "originalImage"
	DefaultMosaic        = "mosaic"
	DefaultPreviewWidth  = 480
	DefaultServerBind    = "localhost"
	DefaultServerPort    = 8080
	DefaultServerTimeout = 60 * time.Second
	DefaultMaxUpload     = 20 << 20
	DefaultLogLevel      = "info"
)

// Display names the three page elements the mosaic is wired to: the file
// input the photo is chosen with, the element that shows the original and
// the element the mosaic rows are appended to.
type Display struct {
	FileInput     string
	OriginalImage string
	Mosaic        string
	PreviewWidth  int
}

// WithDefaults fills every empty identifier with its default.
func (d Display) WithDefaults() Display {
	if d.FileInput == "" {
		d.FileInput = DefaultFileInput
	}
	if d.OriginalImage == "" {
		d.OriginalImage = DefaultOriginalImage
	}
	if d.Mosaic == "" {
		d.Mosaic = DefaultMosaic
	}
	if d.PreviewWidth == 0 {
		d.PreviewWidth = DefaultPreviewWidth
	}
	return d
}

// Server configures the HTTP front end.
type Server struct {
	Bind           string
	Port           int
	Timeout        time.Duration
	MaxUploadBytes int64
}

// Addr is the listen address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Bind, s.Port)
}

// Config is the complete configuration of a mosaic pipeline.
type Config struct {
	TileWidth      int
	TileHeight     int
	SampleStride   int
	SwatchURL      string
	SwatchTimeout  time.Duration
	UserAgent      string
	RowConcurrency int
	Display        Display
	Server         Server
	LogLevel       string
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TileWidth:    DefaultTileWidth,
		TileHeight:   DefaultTileHeight,
		SampleStride: mosaic.DefaultSampleStride,
		SwatchURL:    DefaultSwatchURL,
		UserAgent:    mosaic.DefaultUserAgent,
		Display:      Display{}.WithDefaults(),
		Server: Server{
			Bind:           DefaultServerBind,
			Port:           DefaultServerPort,
			Timeout:        DefaultServerTimeout,
			MaxUploadBytes: DefaultMaxUpload,
		},
		LogLevel: DefaultLogLevel,
	}
}

// SetDefaults registers the built-in values on v and enables MOSAIC_*
// environment lookups.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault(KeyTileWidth, d.TileWidth)
	v.SetDefault(KeyTileHeight, d.TileHeight)
	v.SetDefault(KeySampleStride, d.SampleStride)
	v.SetDefault(KeySwatchURL, d.SwatchURL)
	v.SetDefault(KeySwatchTimeout, d.SwatchTimeout)
	v.SetDefault(KeyUserAgent, d.UserAgent)
	v.SetDefault(KeyRowConcurrency, d.RowConcurrency)
	v.SetDefault(KeyFileInput, d.Display.FileInput)
	v.SetDefault(KeyOriginalImage, d.Display.OriginalImage)
	v.SetDefault(KeyMosaic, d.Display.Mosaic)
	v.SetDefault(KeyPreviewWidth, d.Display.PreviewWidth)
	v.SetDefault(KeyServerBind, d.Server.Bind)
	v.SetDefault(KeyServerPort, d.Server.Port)
	v.SetDefault(KeyServerTimeout, d.Server.Timeout)
	v.SetDefault(KeyMaxUpload, d.Server.MaxUploadBytes)
	v.SetDefault(KeyLogLevel, d.LogLevel)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
}

// FromViper reads a Config from v and validates it.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		TileWidth:      v.GetInt(KeyTileWidth),
		TileHeight:     v.GetInt(KeyTileHeight),
		SampleStride:   v.GetInt(KeySampleStride),
		SwatchURL:      v.GetString(KeySwatchURL),
		SwatchTimeout:  v.GetDuration(KeySwatchTimeout),
		UserAgent:      v.GetString(KeyUserAgent),
		RowConcurrency: v.GetInt(KeyRowConcurrency),
		Display: Display{
			FileInput:     v.GetString(KeyFileInput),
			OriginalImage: v.GetString(KeyOriginalImage),
			Mosaic:        v.GetString(KeyMosaic),
			PreviewWidth:  v.GetInt(KeyPreviewWidth),
		}.WithDefaults(),
		Server: Server{
			Bind:           v.GetString(KeyServerBind),
			Port:           v.GetInt(KeyServerPort),
			Timeout:        v.GetDuration(KeyServerTimeout),
			MaxUploadBytes: v.GetInt64(KeyMaxUpload),
		},
		LogLevel: v.GetString(KeyLogLevel),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c Config) Validate() error {
	if c.TileWidth <= 0 || c.TileHeight <= 0 {
		return fmt.Errorf("tile size must be positive, got %dx%d", c.TileWidth, c.TileHeight)
	}
	if c.SampleStride <= 0 {
		return fmt.Errorf("sample stride must be positive, got %d", c.SampleStride)
	}
	if c.RowConcurrency < 0 {
		return fmt.Errorf("row concurrency must not be negative, got %d", c.RowConcurrency)
	}
	if c.SwatchTimeout < 0 {
		return fmt.Errorf("swatch timeout must not be negative, got %s", c.SwatchTimeout)
	}
	u, err := url.Parse(c.SwatchURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("swatch URL must be an absolute http(s) URL, got %q", c.SwatchURL)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port out of range: %d", c.Server.Port)
	}
	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("max upload size must not be negative, got %d", c.Server.MaxUploadBytes)
	}
	return nil
}

// MosaicOptions converts the config into Assembler options.
func (c Config) MosaicOptions() mosaic.Options {
	return mosaic.Options{
		TileWidth:      c.TileWidth,
		TileHeight:     c.TileHeight,
		SampleStride:   c.SampleStride,
		RowConcurrency: c.RowConcurrency,
	}
}

// NewResolver builds the HTTP swatch resolver described by the config.
func (c Config) NewResolver() (*mosaic.HTTPResolver, error) {
	return mosaic.NewHTTPResolver(c.SwatchURL, c.SwatchTimeout, c.UserAgent)
}
