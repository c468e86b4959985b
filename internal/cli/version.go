package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mosaic %s\n", version)
		fmt.Fprintf(out, "  Build time: %s\n", date)
		fmt.Fprintf(out, "  Git commit: %s\n", commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
