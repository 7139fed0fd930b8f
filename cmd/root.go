// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var version = "dev"

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ghanalyzer",
		Short: "A CLI tool to count the pull requests of a GitHub organization.",
		Long: `ghanalyzer crawls every repository of a GitHub organization and collects
all of their pull requests, fetching the pages of each collection concurrently.
It reports the total number of pull requests found.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add a persistent, repeatable flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeatable: -v progress, -vv per-page detail)")
	rootCmd.AddCommand(newAnalyzeCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

// exitCode reports err on stderr and maps it to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}
