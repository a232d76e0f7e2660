// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	apperrors "examdesk/cli/internal/errors"
)

var kindHints = map[apperrors.Kind]string{
	apperrors.AuthRejected:       "run 'examdesk login' to sign in",
	apperrors.NetworkFailure:     "check EXAMDESK_API_URL and that the booking service is reachable",
	apperrors.ConfigurationError: "check the EXAMDESK_* variables in the environment, ./.env or config.env",
}

// PresentError renders err for the terminal with secrets masked. Classified
// errors get a one-line hint for their kind.
func PresentError(err error) string {
	if err == nil {
		return ""
	}
	msg := "Error: " + Mask(err.Error())
	if hint, ok := kindHints[apperrors.KindOf(err)]; ok {
		msg += "\nHint: " + hint
	}
	return msg
}
