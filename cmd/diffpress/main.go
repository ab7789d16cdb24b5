// Package main implements the diffpress CLI for compressing pull-request
// diffs into a token-budgeted review payload.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "diffpress",
	Short: "Compress pull-request diffs under an LLM token budget",
	Long: `diffpress scores a pull request's changed files by review importance
and packs them into three tiers (full diff, summary, filename-only)
under a fixed token budget. The output payload feeds the review
prompt renderer.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(strategiesCmd)
}
