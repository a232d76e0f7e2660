// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"examdesk/cli/internal/router"

	"github.com/spf13/cobra"
)

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the pages that can be opened",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return renderRoutes(router.MustTable(router.DefaultRoutes()))
	},
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
