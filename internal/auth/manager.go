// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"examdesk/cli/internal/backend"
	apperrors "examdesk/cli/internal/errors"
	"examdesk/cli/internal/keychain"
	"examdesk/cli/internal/logging"
)

// ErrSuperseded is returned when a newer operation started before this one
// completed; its result was dropped and the Session left untouched.
var ErrSuperseded = errors.New("auth: result superseded by a newer operation")

// ErrNoCredential is returned by CheckAuth and Authorized when there is no
// bearer credential.
var ErrNoCredential = apperrors.New(apperrors.AuthRejected, "no credential")

// ErrNoTokenIssued is returned by Login when the server accepted the
// credentials but issued no bearer token to carry the session.
var ErrNoTokenIssued = apperrors.New(apperrors.AuthRejected, "login response carried no bearer token")

// Credentials are the login form fields.
type Credentials struct {
	Email    string
	Password string
}

// Manager centralizes authentication operations against the backend and the
// local credential store. It is safe for concurrent use.
type Manager struct {
	be      backend.API
	store   TokenStore
	session *Session
	log     *slog.Logger
	now     func() time.Time
}

// NewManager wires a Manager. A nil session creates a fresh one; a nil logger discards.
func NewManager(be backend.API, store TokenStore, session *Session, log *slog.Logger) *Manager {
	if session == nil {
		session = NewSession()
	}
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{be: be, store: store, session: session, log: log, now: time.Now}
}

// Session returns the session this manager mutates.
func (m *Manager) Session() *Session { return m.session }

// State returns a snapshot of the session.
func (m *Manager) State() State { return m.session.State() }

// Restore loads the bearer credential from durable storage. The session stays
// anonymous until CheckAuth succeeds. A missing credential is not an error;
// a locally expired one is removed.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.store.LoadAccessToken()
	if err != nil {
		if errors.Is(err, keychain.ErrNotFound) {
			m.log.Debug("no stored credential")
			return nil
		}
		return err
	}
	if credentialExpired(token, m.now()) {
		m.log.Debug("stored credential expired, removing")
		return m.store.ClearAuth()
	}
	if m.session.restore(token) {
		m.log.Debug("credential restored")
	}
	return nil
}

// Login posts credentials, then fetches the profile with the issued credential.
// On success the session is authenticated and the credential persisted in one
// step that no other operation can interleave with. A 2xx answer without a
// bearer token is a failure. On any failure the session is anonymous, the
// credential dropped, and the error returned.
func (m *Manager) Login(ctx context.Context, c Credentials) error {
	seq := m.session.begin()
	m.log.Debug("login started", "email", logging.Mask(c.Email))

	if c.Email == "" || c.Password == "" {
		m.fail(seq)
		return apperrors.New(apperrors.AuthRejected, "email and password are required")
	}

	token, err := m.be.Login(ctx, c.Email, c.Password)
	if err != nil {
		m.fail(seq)
		return classify(ctx, "login", err)
	}
	if token == "" {
		m.fail(seq)
		return ErrNoTokenIssued
	}
	profile, err := m.be.Me(ctx, token)
	if err != nil {
		m.fail(seq)
		return classify(ctx, "login", err)
	}

	current, err := m.session.authenticate(seq, token, profile, func() error {
		return m.store.SaveAccessToken(token)
	})
	if !current {
		return ErrSuperseded
	}
	if err != nil {
		m.log.Warn("credential not persisted; session lasts for this run only", "err", logging.Mask(err.Error()))
	}
	m.log.Info("logged in", "user", logging.Mask(profile.DisplayName()))
	return nil
}

// Logout notifies the backend (best effort) and always clears the local session
// and stored credential. It never fails.
func (m *Manager) Logout(ctx context.Context) {
	token := m.session.Token()
	m.session.invalidate()

	if token != "" {
		if err := m.be.Logout(ctx, token); err != nil {
			m.log.Warn("remote logout failed; local session cleared anyway", "err", logging.Mask(err.Error()))
		}
	}
	if err := m.store.ClearAuth(); err != nil {
		m.log.Warn("could not clear stored credential", "err", logging.Mask(err.Error()))
	}
	m.log.Debug("logged out")
}

// CheckAuth asks the backend who owns the current credential and updates the
// session with the answer. The bool is the resulting logged-in flag. The error
// says why verification failed; the session has already been adjusted, except
// for ErrSuperseded and context errors, which leave it untouched.
func (m *Manager) CheckAuth(ctx context.Context) (bool, error) {
	seq := m.session.begin()
	token := m.session.Token()

	if token == "" {
		if !m.session.reset(seq, false) {
			return false, ErrSuperseded
		}
		return false, ErrNoCredential
	}
	if credentialExpired(token, m.now()) {
		if !m.session.reset(seq, true) {
			return false, ErrSuperseded
		}
		m.clearStore()
		return false, apperrors.New(apperrors.AuthRejected, "credential expired")
	}

	profile, err := m.be.Me(ctx, token)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		rejected := backend.IsRejection(err)
		if !m.session.reset(seq, rejected) {
			return false, ErrSuperseded
		}
		if rejected {
			m.clearStore()
		}
		m.log.Debug("session check failed", "rejected", rejected, "err", logging.Mask(err.Error()))
		return false, classify(ctx, "session check", err)
	}

	if current, _ := m.session.authenticate(seq, token, profile, nil); !current {
		return false, ErrSuperseded
	}
	return true, nil
}

// Authorized runs fn with the current credential. It does not start a new
// operation, so a concurrent CheckAuth keeps its result. A rejection from the
// backend ends the session as CheckAuth would, unless a newer operation has
// started since, and is reported as AuthRejected.
func (m *Manager) Authorized(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	seq, token := m.session.snapshot()
	if token == "" {
		return ErrNoCredential
	}

	err := fn(ctx, token)
	if err == nil {
		return nil
	}
	if backend.IsRejection(err) && m.session.revoke(seq) {
		m.clearStore()
	}
	return classify(ctx, "request", err)
}

// fail moves a current operation to anonymous and forgets its credential.
func (m *Manager) fail(seq uint64) {
	if m.session.reset(seq, true) {
		m.clearStore()
	}
}

func (m *Manager) clearStore() {
	if err := m.store.ClearAuth(); err != nil {
		m.log.Warn("could not clear stored credential", "err", logging.Mask(err.Error()))
	}
}

// classify maps backend errors onto the error taxonomy. Errors caused by the
// caller's own context are returned as is.
func classify(ctx context.Context, op string, err error) error {
	switch {
	case ctx.Err() != nil:
		return ctx.Err()
	case backend.IsRejection(err):
		return apperrors.Wrap(apperrors.AuthRejected, op+" rejected", err)
	default:
		return apperrors.Wrap(apperrors.NetworkFailure, op+" did not complete", err)
	}
}
