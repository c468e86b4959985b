package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/mosaic-mcp/internal/imaging"
	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/mosaic-mcp/internal/printer"
	"github.com/ironsheep/mosaic-mcp/internal/render"
)

var buildCmd = &cobra.Command{
	Use:   "build IMAGE",
	Short: "Build a mosaic page from a photo",
	Long: `Build cuts IMAGE into tiles, resolves one swatch per tile and writes an
HTML page showing the original photo next to the mosaic.

Nothing is written unless every tile resolves.`,
	Args: cobra.ExactArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringP("output", "o", "mosaic.html", "output HTML file")
	buildCmd.Flags().Bool("show-grid", false, "draw the tile grid over the original image")
	buildCmd.Flags().String("grid-color", "", "grid color as #RRGGBB or #RRGGBBAA")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
	}
	output, _ := cmd.Flags().GetString("output")
	showGrid, _ := cmd.Flags().GetBool("show-grid")
	gridColor, _ := cmd.Flags().GetString("grid-color")

	img, err := imaging.DecodeFile(args[0])
	if err != nil {
		return printer.Error("Cannot read image", err.Error(), []string{
			"Check that the file exists and is a PNG, JPEG or GIF image",
		})
	}

	resolver, err := cfg.NewResolver()
	if err != nil {
		return printer.Error("Invalid swatch URL", err.Error(), nil)
	}
	assembler, err := mosaic.NewAssembler(cfg.MosaicOptions(), resolver, logger)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.Step("Resolving swatches from %s\n", cfg.SwatchURL)
	grid, err := assembler.Assemble(ctx, img)
	if err != nil {
		return assemblyError(err, cfg.SwatchURL)
	}

	page, err := render.NewPage(cfg.Display, img, grid, render.Options{
		ShowGrid:  showGrid,
		GridColor: gridColor,
	})
	if err != nil {
		return printer.Error("Cannot render mosaic", err.Error(), nil)
	}

	f, err := os.Create(output)
	if err != nil {
		return printer.Error("Cannot write output", err.Error(), nil)
	}
	if err := render.HTML(f, page); err != nil {
		f.Close()
		return printer.Error("Cannot write output", err.Error(), nil)
	}
	if err := f.Close(); err != nil {
		return printer.Error("Cannot write output", err.Error(), nil)
	}

	abs, _ := filepath.Abs(output)
	printer.Success("Mosaic %dx%d written to %s\n", grid.Layout.Cols, grid.Layout.Rows, abs)
	if n := grid.Fallbacks(); n > 0 {
		printer.Warning("%d tile(s) could not be sampled and used black\n", n)
	}
	return nil
}

// assemblyError explains which tile failed and whether the swatch service
// answered at all.
func assemblyError(err error, swatchURL string) error {
	var tileErr *mosaic.TileError
	if !errors.As(err, &tileErr) {
		return printer.Error("Mosaic failed", err.Error(), nil)
	}

	details := [][2]string{
		{"Tile", fmt.Sprintf("row %d, column %d", tileErr.Row, tileErr.Col)},
		{"Color", tileErr.Key.String()},
		{"Service", swatchURL},
	}

	var statusErr *mosaic.StatusError
	var transportErr *mosaic.TransportError
	switch {
	case errors.As(err, &statusErr):
		details = append(details, [2]string{"Status", fmt.Sprintf("%d %s", statusErr.Code, statusErr.Text)})
		return printer.ErrorWithContext("Swatch service refused a color",
			"The swatch service answered, but not with a swatch.", details, []string{
				"Make sure the service can serve every color key",
			})
	case errors.As(err, &transportErr):
		return printer.ErrorWithContext("Swatch service unreachable",
			transportErr.Err.Error(), details, []string{
				"Start the swatch service",
				"Point --swatch-url at a running service",
			})
	default:
		return printer.ErrorWithContext("Mosaic failed", tileErr.Err.Error(), details, nil)
	}
}
