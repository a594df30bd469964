// Package main provides the entry point for the PeopleScan CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for PeopleScan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "peoplescan",
		Short: "Find the decision makers behind company websites",
		Long: `PeopleScan crawls company websites, extracts person records
(names, titles, profile links, email addresses) from team and about
pages, and ranks them so the likely decision makers come first.

Scan results are stored locally so past scans can be reviewed with the
history command.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines instead of text")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
