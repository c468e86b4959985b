package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/mosaic-mcp/internal/config"
	"github.com/ironsheep/mosaic-mcp/internal/mosaic"
	"github.com/ironsheep/mosaic-mcp/internal/printer"
	"github.com/ironsheep/mosaic-mcp/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mosaic web front end",
	Long: `Start an HTTP server with an upload page. Posting a photo to /mosaic
returns the mosaic page.

Examples:
  # Start server on default port 8080
  mosaic serve

  # Start server with custom bind address
  mosaic serve --bind 0.0.0.0 --port 3000`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	d := config.Default()
	serveCmd.Flags().StringP("bind", "b", d.Server.Bind, "bind address")
	serveCmd.Flags().IntP("port", "p", d.Server.Port, "port to listen on")
	serveCmd.Flags().Duration("timeout", d.Server.Timeout, "request timeout")

	bindFlag(serveCmd.Flags(), config.KeyServerBind, "bind")
	bindFlag(serveCmd.Flags(), config.KeyServerPort, "port")
	bindFlag(serveCmd.Flags(), config.KeyServerTimeout, "timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return printer.Error("Invalid configuration", err.Error(), nil)
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

	printer.Info("Listening on http://%s\n", cfg.Server.Addr())
	srv := web.NewServer(cfg, assembler, logger, version)
	if err := srv.Run(ctx); err != nil {
		return printer.Error("Server stopped", err.Error(), nil)
	}
	return nil
}
