// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package router

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrNavigationSuperseded is returned when a newer navigation started before
// this one finished. Its decision must not be rendered.
var ErrNavigationSuperseded = errors.New("router: navigation superseded")

// Navigator serializes navigations: starting one cancels the one in flight.
type Navigator struct {
	table *Table
	guard *Guard

	mu      sync.Mutex
	current string
	cancel  context.CancelFunc
}

// NewNavigator returns a navigator that resolves paths in table and runs guard.
func NewNavigator(table *Table, guard *Guard) *Navigator {
	return &Navigator{table: table, guard: guard}
}

// Table returns the navigator's route table.
func (n *Navigator) Table() *Table { return n.table }

// Navigate resolves path and runs the guard under a context that is cancelled
// as soon as another navigation starts.
func (n *Navigator) Navigate(ctx context.Context, path string) (Decision, error) {
	route, err := n.table.Match(path)
	if err != nil {
		return Decision{}, err
	}

	id := uuid.NewString()
	navCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	n.mu.Lock()
	if n.cancel != nil {
		n.cancel()
	}
	n.current, n.cancel = id, cancel
	n.mu.Unlock()

	d := n.guard.Before(navCtx, Navigation{ID: id, Path: path, Route: route})

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != id {
		return Decision{}, ErrNavigationSuperseded
	}
	n.current, n.cancel = "", nil
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}
	return d, nil
}
