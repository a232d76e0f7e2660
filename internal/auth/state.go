// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth manages the authentication session of the CLI.
// It owns the Session (logged-in flag, cached profile, bearer credential) and the
// Manager operations that move it between the anonymous and authenticated states:
// Login, Logout, CheckAuth and Restore. Secrets are persisted in the OS keychain
// through a TokenStore; the profile is never persisted.
package auth

import "examdesk/cli/internal/backend"

// Status is the observable authentication state.
type Status int

const (
	// Anonymous is the initial state and the result of any failure or logout.
	Anonymous Status = iota
	// Authenticated means the last login or session check succeeded.
	Authenticated
)

func (s Status) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// State is a point-in-time copy of the Session.
type State struct {
	LoggedIn bool
	User     backend.Profile
}

// Status maps the snapshot onto the two-state machine.
func (s State) Status() Status {
	if s.LoggedIn {
		return Authenticated
	}
	return Anonymous
}
