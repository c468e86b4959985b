// Package cli implements the mosaic command line.
package cli

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/ironsheep/mosaic-mcp/internal/config"
)

var (
	cfgFile string
	v       = viper.New()

	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mosaic",
	Short: "Build photo mosaics from a swatch service",
	Long: `mosaic cuts a photo into fixed-size tiles, averages each tile's color
and replaces every tile with the swatch a swatch service returns for that
color (GET {swatch-url}/color/{rrggbb}).

Examples:
  # Build a mosaic page from a photo
  mosaic build photo.jpg -o mosaic.html --swatch-url http://localhost:8765

  # Show the tile colors without contacting the swatch service
  mosaic tiles photo.jpg --tile-width 32 --tile-height 32

  # Serve the upload page
  mosaic serve --port 8080

  # Run as an MCP server over stdio
  mosaic mcp`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command. Errors are printed by the printer package;
// the returned error only signals a non-zero exit.
func Execute(ctx context.Context) error {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.ExecuteContext(ctx)
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	cobra.OnInitialize(initConfig)
	config.SetDefaults(v)

	d := config.Default()
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mosaic.yaml)")
	flags.String("log-level", d.LogLevel, "log level (trace|debug|info|warn|error)")
	flags.Int("tile-width", d.TileWidth, "tile width in pixels")
	flags.Int("tile-height", d.TileHeight, "tile height in pixels")
	flags.Int("sample-stride", d.SampleStride, "average every Nth pixel of a tile")
	flags.String("swatch-url", d.SwatchURL, "base URL of the swatch service")
	flags.Duration("swatch-timeout", d.SwatchTimeout, "per-request swatch timeout (0 = none)")
	flags.Int("row-concurrency", d.RowConcurrency, "rows resolved at once (0 = all)")

	bindFlag(flags, config.KeyLogLevel, "log-level")
	bindFlag(flags, config.KeyTileWidth, "tile-width")
	bindFlag(flags, config.KeyTileHeight, "tile-height")
	bindFlag(flags, config.KeySampleStride, "sample-stride")
	bindFlag(flags, config.KeySwatchURL, "swatch-url")
	bindFlag(flags, config.KeySwatchTimeout, "swatch-timeout")
	bindFlag(flags, config.KeyRowConcurrency, "row-concurrency")
}

// bindFlag lets a flag override the config key when it is set.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return
		}
		v.AddConfigPath(home)
		v.SetConfigType("yaml")
		v.SetConfigName(".mosaic")
	}

	if err := v.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", v.ConfigFileUsed())
	}
}

// loadConfig resolves the effective configuration and a logger for it.
func loadConfig() (config.Config, *log.Logger, error) {
	cfg, err := config.FromViper(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// newLogger writes to stderr; stdout carries command output and the MCP
// protocol.
func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger := log.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return logger, nil
}
