// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package terminal provides utilities for terminal operations such as clearing
// prompts once the user has answered them.
package terminal

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const defaultWidth = 80

// ClearPreviousLines erases a prompt and its answer from w.
// textLength is the number of characters printed (prompt plus input); the line
// count is derived from the width of stdout, or 80 columns when unknown. The
// empty line left by Enter is cleared as well.
func ClearPreviousLines(w io.Writer, textLength int) {
	width := defaultWidth
	if cols, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && cols > 0 {
		width = cols
	}

	n := linesToClear(textLength, width)
	for i := 0; i < n; i++ {
		fmt.Fprint(w, "\r\x1b[2K")
		if i < n-1 {
			fmt.Fprint(w, "\x1b[1A")
		}
	}
}

// linesToClear returns how many rows textLength characters occupy at width
// columns, plus the row the cursor moved to after Enter.
func linesToClear(textLength, width int) int {
	if width <= 0 {
		width = defaultWidth
	}
	rows := (textLength + width - 1) / width
	if rows < 1 {
		rows = 1
	}
	return rows + 1
}
