package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docu",
	Short: "docu validates a markdown content collection and serves its counter widget",
	Long: `docu discovers the markdown documents of the "docu" collection, validates
their front-matter against the collection schema and exposes the valid
entries through the CLI, an HTTP API and an MCP server.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Site directory (contains docu.yaml and src/content)")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file (default: <dir>/docu.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("fail-fast", false, "Abort on the first rejected document")
}
