package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the slotbooker application
var rootCmd = &cobra.Command{
	Use:   "slotbooker",
	Short: "Checks availability and books events in a Google calendar",
	Long: `slotbooker answers "when is this calendar free?" and books events into
the free slots it finds.

It can run as:
  - An HTTP API server (default)
  - A one-shot CLI for listing free slots or booking a single event`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "slotbooker version %s\n" .Version}}`)

	// If no subcommand is provided, run the serve command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newSlotsCmd())
	rootCmd.AddCommand(newBookCmd())
	rootCmd.AddCommand(newVersionCmd())
}
