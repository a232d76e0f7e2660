// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd represents the logout command for clearing authentication state.
// It notifies the backend (best-effort) and always removes the local session
// and the stored credential.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored credential",
	Long: `The logout command clears all authentication state from the local system,
including the bearer credential in the OS keychain. It also attempts to notify
the booking service to end the session (best-effort). Signing out succeeds even
when the service cannot be reached.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}

		a.auth.Logout(cmd.Context())
		fmt.Println("✅ Signed out. The stored credential has been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
