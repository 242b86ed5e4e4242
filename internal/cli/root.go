// Package cli implements the swarmdeck CLI commands.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/swarmdeck/swarmdeck/internal/buildinfo"
)

var rootCmd = &cobra.Command{
	Use:   "swarmdeck",
	Short: "Supervise and visualize multi-agent swarm runs",
	Long: `Swarmdeck supervises a swarm orchestrator process and reconstructs its
state from the output stream: agent activity, reasoning, metrics, and plan.`,
	Version: buildinfo.Short(),
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add subcommands (alphabetical)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(versionCmd)
}
