// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the
// exam-booking Auth API. It defines the API contract for login, session checks,
// logout and slot availability, and an HTTP implementation configured with a base URL,
// a request timeout, JSON headers and bearer-token injection.
package backend

import "context"

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	// Login posts credentials and returns the issued bearer token.
	// The token is empty when the server answered 2xx without one.
	Login(ctx context.Context, email, password string) (accessToken string, err error)
	// Me returns the profile of the session identified by accessToken.
	Me(ctx context.Context, accessToken string) (Profile, error)
	// Logout invalidates the server-side session.
	Logout(ctx context.Context, accessToken string) error
	// Slots lists bookable exam slots.
	Slots(ctx context.Context, accessToken string, q SlotQuery) ([]Slot, error)
}
