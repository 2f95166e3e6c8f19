package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the meetfewer application
var rootCmd = &cobra.Command{
	Use:   "meetfewer",
	Short: "Finds meeting times that work for everyone",
	Long: `meetfewer is a scheduling assistant for distributed teams. It scores
candidate meeting slots against availability, productivity patterns, and
timezone fairness, and recommends ways to thin out a crowded calendar.

It can run as:
  - An MCP (Model Context Protocol) server for AI assistants (default)
  - A standalone CLI tool for one-off slot suggestions`,
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
	rootCmd.SetVersionTemplate(`{{printf "meetfewer version %s\n" .Version}}`)

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
	rootCmd.AddCommand(newSuggestCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
