package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/mosaic-mcp/internal/imaging"
	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/mosaic-mcp/internal/printer"
)

var tilesCmd = &cobra.Command{
	Use:   "tiles IMAGE",
	Short: "Show the tile colors of a photo",
	Long: `Tiles cuts IMAGE into tiles and prints each tile's average color, without
contacting the swatch service. Use --json for one record per tile.`,
	Args: cobra.ExactArgs(1),
	RunE: runTiles,
}

func init() {
	rootCmd.AddCommand(tilesCmd)

	tilesCmd.Flags().Bool("json", false, "print tiles as JSON")
}

type tileRecord struct {
	Row      int              `json:"row"`
	Col      int              `json:"col"`
	Key      mosaic.ColorKey  `json:"key"`
	RGB      imaging.RGBColor `json:"rgb"`
	Fallback string           `json:"fallback,omitempty"`
}

func runTiles(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
	}
	asJSON, _ := cmd.Flags().GetBool("json")

	img, err := imaging.DecodeFile(args[0])
	if err != nil {
		return printer.Error("Cannot read image", err.Error(), nil)
	}

	resolver, err := cfg.NewResolver()
	if err != nil {
		return printer.Error("Invalid swatch URL", err.Error(), nil)
	}
	assembler, err := mosaic.NewAssembler(cfg.MosaicOptions(), resolver, logger)
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
	}
	layout, cells, err := assembler.Analyze(img)
	if err != nil {
		return printer.Error("Cannot tile image", err.Error(), nil)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		records := make([]tileRecord, 0, len(cells))
		for _, cell := range cells {
			rec := tileRecord{Row: cell.Spec.Row, Col: cell.Spec.Col, Key: cell.Key, RGB: cell.Color}
			if cell.Fallback != nil {
				rec.Fallback = cell.Fallback.Error()
			}
			records = append(records, rec)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	right, bottom := layout.Dropped()
	fmt.Fprintf(out, "%d rows x %d cols of %dx%d tiles (dropped %dpx right, %dpx bottom)\n",
		layout.Rows, layout.Cols, layout.TileWidth, layout.TileHeight, right, bottom)
	for i, cell := range cells {
		printer.Swatch(out, cell.Color.R, cell.Color.G, cell.Color.B)
		if (i+1)%layout.Cols == 0 {
			fmt.Fprintln(out)
		}
	}
	return nil
}
