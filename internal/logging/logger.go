// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"log/slog"

	"github.com/pterm/pterm"
)

var ptermLevels = map[string]pterm.LogLevel{
	"debug": pterm.LogLevelDebug,
	"info":  pterm.LogLevelInfo,
	"warn":  pterm.LogLevelWarn,
	"error": pterm.LogLevelError,
}

// NewLogger returns a slog.Logger rendered by pterm at the given level.
// Unknown levels fall back to info.
func NewLogger(w io.Writer, level string) *slog.Logger {
	lvl, ok := ptermLevels[level]
	if !ok {
		lvl = pterm.LogLevelInfo
	}
	pl := pterm.DefaultLogger.WithWriter(w).WithLevel(lvl)
	return slog.New(pterm.NewSlogHandler(pl))
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(pterm.NewSlogHandler(pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)))
}
