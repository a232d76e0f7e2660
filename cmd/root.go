// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Examdesk CLI application.
// It implements subcommands for signing in and out, opening application pages
// behind the authentication guard, and browsing exam slots, using the Cobra CLI
// framework and pterm for terminal rendering.
package cmd

import (
	"context"
	"fmt"
	"os"

	"examdesk/cli/internal/logging"

	"github.com/spf13/cobra"
)

var (
	showVersion bool
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands.
// It serves as the entry point for the Examdesk CLI application.
var rootCmd = &cobra.Command{
	Use:   "examdesk",
	Short: "Examdesk CLI for booking laboratory exams",
	Long: `Examdesk is a command-line client for the exam booking service. Sign in with
'examdesk login', then open pages such as /book or /manage-bookings. Pages that
require an account are only shown after the server confirms your session.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			printVersion()
			return nil
		}
		// If no flag is set, show help
		return cmd.Help()
	},
}

// Execute runs the CLI application.
// It executes the root command and handles any errors that occur during execution.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, logging.PresentError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&showVersion, "version", false, "Show CLI version and API endpoint")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
