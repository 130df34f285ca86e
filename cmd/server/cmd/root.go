// Package cmd holds the algowatch command tree.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"algowatch/internal/platform/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "algowatch",
	Short: "Advocacy kit and disclosure report backend",
	Long: `algowatch serves the advocacy pipeline: kit generation, the kit
lifecycle and community library, de-identified disclosure reports and
their aggregated patterns.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("ALGOWATCH_CONFIG"),
		"YAML config file; environment variables override it (env ALGOWATCH_CONFIG)")
}

func loadConfig() (config.Config, error) {
	return config.Load(configPath)
}
