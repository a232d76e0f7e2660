// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package router

import (
	"context"
	"log/slog"
	"net/url"

	"examdesk/cli/internal/logging"
)

// Checker verifies the session. *auth.Manager implements it.
type Checker interface {
	CheckAuth(ctx context.Context) (bool, error)
}

// Navigation is one attempt to enter a route.
type Navigation struct {
	ID    string
	Path  string
	Route Route
}

// Decision is the guard's verdict for a navigation.
type Decision struct {
	NavigationID string
	// Route is the route that will be rendered: the target when allowed, the
	// login route otherwise.
	Route Route
	// Allowed is false when the navigation was redirected.
	Allowed bool
	// From is the originally requested path of a redirected navigation.
	From string
	// Reason is the check error that caused the redirect, if any.
	Reason error
}

// Location is the path to render, with the redirect target appended for login.
func (d Decision) Location() string {
	if d.Allowed || d.From == "" {
		return d.Route.Path
	}
	return d.Route.Path + "?" + url.Values{"redirect": {d.From}}.Encode()
}

// Guard runs before each navigation.
type Guard struct {
	table   *Table
	checker Checker
	log     *slog.Logger
}

// NewGuard returns a guard over table. The table must contain the login route.
func NewGuard(table *Table, checker Checker, log *slog.Logger) *Guard {
	if log == nil {
		log = logging.Discard()
	}
	return &Guard{table: table, checker: checker, log: log}
}

// Before decides whether nav may proceed. Public routes never consult the
// checker. Protected routes are entered only after a successful check; an
// anonymous result or any check error redirects to login.
func (g *Guard) Before(ctx context.Context, nav Navigation) Decision {
	d := Decision{NavigationID: nav.ID, Route: nav.Route, Allowed: true}
	if !nav.Route.RequiresAuth {
		return d
	}

	ok, err := g.checker.CheckAuth(ctx)
	if ok && err == nil {
		return d
	}

	login, found := g.table.ByName(NameLogin)
	if !found {
		login = Route{Path: "/login", Name: NameLogin, View: "Login"}
	}
	g.log.Debug("navigation redirected", "nav", nav.ID, "from", nav.Route.Path, "to", login.Path, "err", err)
	return Decision{
		NavigationID: nav.ID,
		Route:        login,
		Allowed:      false,
		From:         nav.Route.Path,
		Reason:       err,
	}
}
