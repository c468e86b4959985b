package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/mosaic-mcp/internal/printer"
	"github.com/ironsheep/mosaic-mcp/internal/server"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP server over stdio",
	Long: `Run a Model Context Protocol server that exposes the mosaic tools over
stdin/stdout. Configure it in your MCP client; logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return printer.Error("Invalid configuration", err.Error(), nil)
		}
		logger.WithField("version", version).Debug("mosaic MCP server starting")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.New(cfg, logger).Run(ctx); err != nil {
			return printer.Error("Server error", err.Error(), nil)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
