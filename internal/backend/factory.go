// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"net/http"
	"time"
)

// Endpoints contains REST API paths relative to the base URL.
type Endpoints struct {
	Login  string // e.g. "/login"
	Me     string // e.g. "/mylogin"
	Logout string // e.g. "/logout"
	Slots  string // e.g. "/slots_availability"
}

// DefaultEndpoints are the paths served by the booking backend.
func DefaultEndpoints() Endpoints {
	return Endpoints{
		Login:  "/login",
		Me:     "/mylogin",
		Logout: "/logout",
		Slots:  "/slots_availability",
	}
}

// Options configures the HTTP client.
type Options struct {
	BaseURL   string
	Endpoints Endpoints
	// Timeout bounds every request. Zero means DefaultTimeout.
	Timeout   time.Duration
	UserAgent string
	// Client overrides the underlying http.Client (Timeout is then ignored).
	Client *http.Client
}

// DefaultTimeout matches the 10s bound of the web client.
const DefaultTimeout = 10 * time.Second

// New creates a backend API implementation talking HTTP.
func New(opts Options) API {
	return newHTTP(opts)
}
