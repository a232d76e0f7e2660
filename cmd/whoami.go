// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	apperrors "examdesk/cli/internal/errors"
	"examdesk/cli/internal/logging"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var whoamiDetails bool

// whoamiCmd represents the whoami command for displaying current authentication state.
// It validates the stored credential with the backend and shows the profile it
// belongs to.
var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Aliases: []string{"me"},
	Short:   "Show current authenticated account",
	Long: `The whoami command displays information about the currently authenticated account.
It validates the current session by checking with the backend service and shows
the account identifier if authentication is valid.

If no valid session exists, it will indicate that the user is not logged in.
A credential the server rejects is removed; one that could not be checked because
the server was unreachable is kept.`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}

		stop := startSpinner("Checking session")
		ok, err := a.auth.CheckAuth(ctx)
		stop()
		if !ok {
			if apperrors.IsKind(err, apperrors.NetworkFailure) {
				pterm.Warning.Printf("Could not verify your session: %s\n", a.cfg.APIURL)
				a.log.Debug("session check failed", "err", logging.Mask(err.Error()))
				return nil
			}
			notLoggedIn()
			return nil
		}

		user := a.auth.State().User
		fmt.Println(getWhoAmIPhrase(user.DisplayName()))
		if whoamiDetails {
			return pterm.DefaultTable.WithHasHeader().WithData(profileTable(user)).Render()
		}
		return nil
	},
}

func init() {
	whoamiCmd.Flags().BoolVarP(&whoamiDetails, "details", "d", false, "Print every profile field")
	rootCmd.AddCommand(whoamiCmd)
}

// getWhoAmIPhrase returns a friendly phrase with the user's identifier
func getWhoAmIPhrase(identifier string) string {
	return fmt.Sprintf("👤 Current user: %s", identifier)
}
