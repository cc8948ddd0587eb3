// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "github-ci-stats",
	Short: "A CLI tool to measure how reliably GitHub Actions workflows pass.",
	Long: `github-ci-stats looks at the completed GitHub Actions runs a given actor
(by default dependabot[bot]) triggered in a repository, and reports how often
one workflow passed on the first attempt and how many retries it took.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
