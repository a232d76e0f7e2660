// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides utilities for secure logging and error presentation.
// It includes functions for masking sensitive information in log messages and
// formatting errors for user-friendly display while protecting credentials and secrets,
// plus the constructor for the CLI's structured logger.
//
// The package helps ensure that passwords, bearer tokens and account e-mails
// are not accidentally exposed in logs or error messages shown to users.
package logging

import (
	"regexp"
)

var (
	rePassword  = regexp.MustCompile(`(?i)("?password"?\s*[=:]\s*"?)([^\s;",}]+)`)
	reToken     = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._~+/=-]+)`)
	reJSONToken = regexp.MustCompile(`(?i)("(?:access_token|accessToken|token)"\s*:\s*")([^"]+)`)
	reEmail     = regexp.MustCompile(`([A-Za-z0-9._%+-])[A-Za-z0-9._%+-]*(@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)
)

// Mask replaces sensitive values in the input string with "*".
// E-mail addresses keep their first character and domain.
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reJSONToken.ReplaceAllString(out, "$1***")
	out = reEmail.ReplaceAllString(out, "$1***$2")
	return out
}
