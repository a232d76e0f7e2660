// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"

	"examdesk/cli/internal/router"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// openCmd navigates to a page. Protected pages are shown only after the
// server confirms the session; otherwise the login page is shown instead.
var openCmd = &cobra.Command{
	Use:   "open <path>",
	Short: "Open an application page, e.g. /book",
	Long: `The open command navigates to a page of the booking application and renders it.
Pages marked as requiring authentication check the session with the server first.
When the check fails for any reason, the login page is shown with a hint to return
to the requested page. Run 'examdesk routes' to list the pages.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		return openPath(cmd.Context(), a, args[0])
	},
}

func init() {
	rootCmd.AddCommand(openCmd)
}

// openPath runs one navigation and renders the resulting view.
func openPath(ctx context.Context, a *app, path string) error {
	stop := startSpinner("Opening " + path)
	d, err := a.nav.Navigate(ctx, path)
	stop()
	if err != nil {
		if errors.Is(err, router.ErrRouteNotFound) {
			pterm.Error.Printf("No page at %s\n", path)
			fmt.Println()
			_ = renderRoutes(a.nav.Table())
		}
		return err
	}

	a.log.Debug("navigation", "id", d.NavigationID, "route", d.Route.Name, "allowed", d.Allowed)
	if !d.Allowed {
		pterm.Warning.Printf("%s requires login\n", d.From)
	}
	return renderView(ctx, a, d)
}
