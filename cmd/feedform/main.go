// Feedform is a terminal client for managing feeds on a feedd server.
//
// It provides server discovery, an interactive article injections
// editor, and direct commands for inspecting feeds and updating user
// preferences. The tool talks to the server's REST API and never
// touches its database directly.
//
// Usage:
//
//	feedform [command] [flags]
//
// Running 'feedform edit <feed-id>' launches the interactive editor.
// See 'feedform --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hollis/feedform/internal/logging"
	"github.com/hollis/feedform/internal/version"
)

func main() {
	logging.InitializeFromEnv()
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "feedform",
	Short: "Feedd Server Management Client",
	Long: `A terminal client for managing feeds on a feedd server.

Provides server discovery, an interactive article injections editor,
and direct commands for feeds and user preferences.`,
	Version: version.Version,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("feedform %s (commit: %s)\n", version.Version, version.Commit)
	},
}
