// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"sync"

	"examdesk/cli/internal/backend"
)

// Session is the shared authentication record of one application instance.
// Create one with NewSession and hand it to the components that need it.
//
// Every mutating operation takes a sequence number when it starts; its result is
// applied only if no newer operation has started since (last started wins).
type Session struct {
	mu       sync.RWMutex
	loggedIn bool
	user     backend.Profile
	token    string
	seq      uint64
}

// NewSession returns an anonymous session.
func NewSession() *Session {
	return &Session{}
}

// State returns a snapshot. The profile is copied.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{LoggedIn: s.loggedIn, User: s.user.Clone()}
}

// Token returns the bearer credential currently held in memory.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// begin reserves the next sequence number.
func (s *Session) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// snapshot returns the latest sequence number and the credential without
// starting a new operation.
func (s *Session) snapshot() (uint64, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seq, s.token
}

// authenticate moves to Authenticated if seq is current. persist, when not nil,
// runs under the same lock so no other operation can interleave between the
// state change and the durable write; its error does not undo the state change.
func (s *Session) authenticate(seq uint64, token string, user backend.Profile, persist func() error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != seq {
		return false, nil
	}
	var err error
	if persist != nil {
		err = persist()
	}
	s.loggedIn = true
	s.user = user.Clone()
	s.token = token
	return true, err
}

// reset moves to Anonymous if seq is current, optionally dropping the credential.
func (s *Session) reset(seq uint64, dropToken bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != seq {
		return false
	}
	s.loggedIn = false
	s.user = nil
	if dropToken {
		s.token = ""
	}
	return true
}

// revoke clears everything if seq is still the latest operation and discards
// in-flight results started before it.
func (s *Session) revoke(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seq != seq {
		return false
	}
	s.seq++
	s.loggedIn = false
	s.user = nil
	s.token = ""
	return true
}

// invalidate unconditionally clears everything and discards every in-flight result.
func (s *Session) invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.loggedIn = false
	s.user = nil
	s.token = ""
}

// restore installs a credential loaded from durable storage without changing
// the logged-in state. It is a no-op when a credential is already held.
func (s *Session) restore(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token != "" {
		return false
	}
	s.token = token
	return true
}
