// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"log/slog"
	"os"

	"examdesk/cli/internal/auth"
	"examdesk/cli/internal/backend"
	"examdesk/cli/internal/config"
	apperrors "examdesk/cli/internal/errors"
	"examdesk/cli/internal/keychain"
	"examdesk/cli/internal/logging"
	"examdesk/cli/internal/router"
	"examdesk/cli/internal/xdg"
)

// app bundles the collaborators a command needs. Each command invocation
// builds its own; nothing here is shared across runs.
type app struct {
	cfg  config.Config
	log  *slog.Logger
	api  backend.API
	auth *auth.Manager
	nav  *router.Navigator
}

// newApp loads configuration, opens the credential store, restores a stored
// credential and wires the guard in front of the route table.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	log := logging.NewLogger(os.Stderr, level)

	dir := cfg.Keyring.Dir
	if dir == "" {
		if d, err := xdg.StateDir(); err == nil {
			dir = d
		}
	}
	keys, err := keychain.Open(keychain.Options{
		Backend:      cfg.Keyring.Backend,
		FileDir:      dir,
		FilePassword: cfg.Keyring.Password,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ConfigurationError, "cannot open credential store", err)
	}

	api := backend.New(backend.Options{
		BaseURL: cfg.APIURL,
		Endpoints: backend.Endpoints{
			Login:  cfg.Paths.Login,
			Me:     cfg.Paths.Me,
			Logout: cfg.Paths.Logout,
			Slots:  cfg.Paths.Slots,
		},
		Timeout:   cfg.Timeout,
		UserAgent: "examdesk/" + Version,
	})

	mgr := auth.NewManager(api, keys, auth.NewSession(), log)
	if err := mgr.Restore(ctx); err != nil {
		log.Warn("could not read stored credential", "err", logging.Mask(err.Error()))
	}

	table := router.MustTable(router.DefaultRoutes())
	nav := router.NewNavigator(table, router.NewGuard(table, mgr, log))

	log.Debug("configuration loaded", "api", cfg.APIURL, "timeout", cfg.Timeout)
	return &app{cfg: cfg, log: log, api: api, auth: mgr, nav: nav}, nil
}
