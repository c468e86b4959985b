package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 16, cfg.TileWidth)
	assert.Equal(t, 16, cfg.TileHeight)
	assert.Equal(t, mosaic.DefaultSampleStride, cfg.SampleStride)
	assert.Equal(t, "file", cfg.Display.FileInput)
	assert.Equal(t, "originalImage", cfg.Display.OriginalImage)
	assert.Equal(t, "mosaic", cfg.Display.Mosaic)
	assert.Equal(t, "localhost:8080", cfg.Server.Addr())
	assert.Zero(t, cfg.SwatchTimeout)
}

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestFromViper_Environment(t *testing.T) {
	t.Setenv("MOSAIC_TILE_WIDTH", "32")
	t.Setenv("MOSAIC_SWATCH_URL", "https://swatches.example.com")
	t.Setenv("MOSAIC_SWATCH_TIMEOUT", "2s")
	t.Setenv("MOSAIC_ASSEMBLE_ROW_CONCURRENCY", "4")

	v := viper.New()
	SetDefaults(v)

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 32, cfg.TileWidth)
	assert.Equal(t, 16, cfg.TileHeight)
	assert.Equal(t, "https://swatches.example.com", cfg.SwatchURL)
	assert.Equal(t, 2*time.Second, cfg.SwatchTimeout)
	assert.Equal(t, 4, cfg.RowConcurrency)
}

func TestFromViper_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mosaic.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tile:
  width: 8
  height: 12
display:
  mosaic: wall
server:
  port: 9090
`), 0o600))

	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.TileWidth)
	assert.Equal(t, 12, cfg.TileHeight)
	assert.Equal(t, "wall", cfg.Display.Mosaic)
	assert.Equal(t, "file", cfg.Display.FileInput)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero tile width", func(c *Config) { c.TileWidth = 0 }},
		{"negative tile height", func(c *Config) { c.TileHeight = -1 }},
		{"zero stride", func(c *Config) { c.SampleStride = 0 }},
		{"negative row concurrency", func(c *Config) { c.RowConcurrency = -2 }},
		{"negative timeout", func(c *Config) { c.SwatchTimeout = -time.Second }},
		{"relative swatch URL", func(c *Config) { c.SwatchURL = "swatches" }},
		{"ftp swatch URL", func(c *Config) { c.SwatchURL = "ftp://swatches.example.com" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDisplay_WithDefaults(t *testing.T) {
	d := Display{Mosaic: "wall"}.WithDefaults()
	assert.Equal(t, "wall", d.Mosaic)
	assert.Equal(t, DefaultFileInput, d.FileInput)
	assert.Equal(t, DefaultOriginalImage, d.OriginalImage)
	assert.Equal(t, DefaultPreviewWidth, d.PreviewWidth)
}

func TestMosaicOptionsAndResolver(t *testing.T) {
	cfg := Default()
	cfg.TileWidth = 24
	cfg.RowConcurrency = 3

	opts := cfg.MosaicOptions()
	assert.Equal(t, mosaic.Options{TileWidth: 24, TileHeight: 16, SampleStride: 5, RowConcurrency: 3}, opts)

	resolver, err := cfg.NewResolver()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8765/color/0f00ff", resolver.URL("0f00ff"))
}
