// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package router holds the declarative route table of the application and the
// guard that runs before every navigation. Routes flagged RequiresAuth are only
// entered after the session manager confirms the user is logged in; anything
// else is redirected to the login route.
package router

import (
	"errors"
	"fmt"
	"strings"
)

// ErrRouteNotFound is returned when no route matches a path.
var ErrRouteNotFound = errors.New("router: no route matches path")

// Route names used by the application.
const (
	NameHome           = "home"
	NameLogin          = "login"
	NameBook           = "book"
	NameManageBookings = "manage-bookings"
)

// Route is one entry of the table.
type Route struct {
	Path         string
	Name         string
	View         string
	RequiresAuth bool
}

// Table is an ordered, immutable set of routes.
type Table struct {
	routes []Route
	byPath map[string]int
	byName map[string]int
}

// DefaultRoutes returns the routes of the booking application.
func DefaultRoutes() []Route {
	return []Route{
		{Path: "/", Name: NameHome, View: "Home"},
		{Path: "/login", Name: NameLogin, View: "Login"},
		{Path: "/book", Name: NameBook, View: "NewBooking", RequiresAuth: true},
		{Path: "/manage-bookings", Name: NameManageBookings, View: "ManageBookings", RequiresAuth: true},
	}
}

// NewTable builds a table from routes. Paths are normalized; duplicate paths or
// names and empty fields are rejected.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{
		routes: make([]Route, 0, len(routes)),
		byPath: make(map[string]int, len(routes)),
		byName: make(map[string]int, len(routes)),
	}
	for _, r := range routes {
		if r.Path == "" || r.Name == "" || r.View == "" {
			return nil, fmt.Errorf("router: route %q: path, name and view are required", r.Name)
		}
		r.Path = normalize(r.Path)
		if _, dup := t.byPath[r.Path]; dup {
			return nil, fmt.Errorf("router: duplicate path %q", r.Path)
		}
		if _, dup := t.byName[r.Name]; dup {
			return nil, fmt.Errorf("router: duplicate name %q", r.Name)
		}
		t.byPath[r.Path] = len(t.routes)
		t.byName[r.Name] = len(t.routes)
		t.routes = append(t.routes, r)
	}
	return t, nil
}

// MustTable is NewTable that panics on error. Use it for static tables.
func MustTable(routes []Route) *Table {
	t, err := NewTable(routes)
	if err != nil {
		panic(err)
	}
	return t
}

// Routes returns a copy of the table in declaration order.
func (t *Table) Routes() []Route {
	out := make([]Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Match resolves a path. The query string and a trailing slash are ignored.
func (t *Table) Match(path string) (Route, error) {
	i, ok := t.byPath[normalize(path)]
	if !ok {
		return Route{}, fmt.Errorf("%w: %s", ErrRouteNotFound, path)
	}
	return t.routes[i], nil
}

// ByName looks a route up by its name.
func (t *Table) ByName(name string) (Route, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return t.routes[i], true
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	path = strings.TrimSpace(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			path = "/"
		}
	}
	return path
}
