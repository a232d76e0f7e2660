// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the Examdesk CLI application.
// It signs users in to the exam booking service and opens its pages behind an
// authentication guard.
package main

import (
	"examdesk/cli/cmd"
)

// main is the entry point for the Examdesk CLI application.
// It initializes and executes the command-line interface.
func main() {
	cmd.Execute()
}
