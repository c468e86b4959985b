package main

import (
	"context"
	"os"

	"github.com/ironsheep/mosaic-mcp/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, GitCommit, BuildTime)

	// Errors are printed by the printer package
	if err := cli.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
