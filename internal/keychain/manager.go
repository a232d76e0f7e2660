// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides thread-safe credential storage for examdesk.
// It wraps the OS keychain/credential store (macOS Keychain, Windows Credential
// Manager, Secret Service, KWallet, pass) and, when none of these is available,
// an encrypted file keyring under the XDG state directory.
//
// Only the bearer credential lives here. Managers are created explicitly and
// passed to the code that needs them; tests build one over an in-memory ring.
package keychain

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"github.com/99designs/keyring"
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "examdesk"

// KeyAccessToken is the keychain entry holding the bearer token.
const KeyAccessToken = "auth_access_token"

// ErrNotFound is returned when no credential is stored.
var ErrNotFound = errors.New("keychain: credential not found")

// ErrNoBackend is returned by Open when no OS credential store exists and the
// file backend has no passphrase configured.
var ErrNoBackend = errors.New("keychain: no credential store available; set EXAMDESK_KEYRING_BACKEND=file and EXAMDESK_KEYRING_PASSWORD")

// Options selects the keyring backend.
type Options struct {
	// Backend restricts the keyring to a single backend type (e.g. "file").
	// Empty means every backend available on this OS, best first.
	Backend string
	// FileDir is the directory for the file backend.
	FileDir string
	// FilePassword unlocks the file backend. Empty disables the file backend
	// unless Backend is "file".
	FilePassword string
}

// Manager provides serialized operations on a keyring.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewManager wraps an already opened keyring.
func NewManager(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// Open opens the OS keyring described by opts.
func Open(opts Options) (*Manager, error) {
	cfg := keyring.Config{
		ServiceName:              ServiceName,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		FileDir:                  opts.FileDir,
		KeychainTrustApplication: true,
	}

	switch {
	case opts.Backend != "":
		cfg.AllowedBackends = []keyring.BackendType{keyring.BackendType(opts.Backend)}
	case opts.FilePassword == "":
		// Without a passphrase the file backend would prompt on stdin; leave it out.
		for _, b := range keyring.AvailableBackends() {
			if b != keyring.FileBackend {
				cfg.AllowedBackends = append(cfg.AllowedBackends, b)
			}
		}
		if len(cfg.AllowedBackends) == 0 {
			return nil, ErrNoBackend
		}
	}
	if opts.FilePassword != "" {
		cfg.FilePasswordFunc = keyring.FixedStringPrompt(opts.FilePassword)
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	return NewManager(ring), nil
}

// SaveAccessToken stores the bearer token.
func (m *Manager) SaveAccessToken(token string) error {
	if token == "" {
		return errors.New("keychain: refusing to store empty access token")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ring.Set(keyring.Item{
		Key:   KeyAccessToken,
		Data:  []byte(token),
		Label: ServiceName + " access token",
	})
}

// LoadAccessToken returns the stored bearer token or ErrNotFound.
func (m *Manager) LoadAccessToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(KeyAccessToken)
	if err != nil {
		if isNotFound(err) {
			return "", ErrNotFound
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNotFound
	}
	return string(it.Data), nil
}

// ClearAuth removes all auth-related secrets. Missing entries are not an error.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(KeyAccessToken); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// isNotFound covers both the keyring sentinel and the file backend, which
// surfaces a missing item as an fs error on Remove.
func isNotFound(err error) bool {
	return errors.Is(err, keyring.ErrKeyNotFound) || errors.Is(err, fs.ErrNotExist)
}
