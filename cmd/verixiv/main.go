// Package main provides the verixiv CLI entry point.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Exit codes returned by the CLI.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (missing URLs, bad config file)
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "verixiv",
	Short: "Reproducibility gateway for arXiv papers",
	Long: `verixiv is the API gateway behind the VeriXiv demo.

It wraps a hosted embedding model and vector index to find papers
similar to a submitted arXiv paper or uploaded PDF, and fans out to an
external grading service to score each similar paper against an NLP
reproducibility rubric.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = Version
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
}

// configPath is the --config flag shared by all commands.
var configPath string
