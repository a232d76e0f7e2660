// Copyright (c) 2025 Examdesk
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"examdesk/cli/internal/backend"
	apperrors "examdesk/cli/internal/errors"
	"examdesk/cli/internal/keychain"
)

// fakeServer is a minimal auth backend: POST /login, GET /mylogin, POST /logout.
type fakeServer struct {
	*httptest.Server
	token     string
	meCalls   atomic.Int32
	logouts   atomic.Int32
	meStatus  atomic.Int32
	loginCode int
	// noToken makes /login answer 200 with an empty body.
	noToken bool
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	fs := &fakeServer{token: "tok-1", loginCode: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if fs.loginCode != http.StatusOK || body["password"] != "secret" {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		if fs.noToken {
			w.WriteHeader(http.StatusOK)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": fs.token})
	})
	mux.HandleFunc("GET /mylogin", func(w http.ResponseWriter, r *http.Request) {
		fs.meCalls.Add(1)
		if code := int(fs.meStatus.Load()); code != 0 {
			w.WriteHeader(code)
			return
		}
		if r.Header.Get("Authorization") != "Bearer "+fs.token {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":1,"name":"A","email":"a@b.com"}`))
	})
	mux.HandleFunc("POST /logout", func(w http.ResponseWriter, r *http.Request) {
		fs.logouts.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	fs.Server = httptest.NewServer(mux)
	t.Cleanup(fs.Close)
	return fs
}

func newTestManager(t *testing.T, baseURL string) (*Manager, *keychain.Manager) {
	t.Helper()
	store := keychain.NewManager(keyring.NewArrayKeyring(nil))
	be := backend.New(backend.Options{BaseURL: baseURL, Timeout: time.Second})
	return NewManager(be, store, NewSession(), nil), store
}

func TestLoginSuccess(t *testing.T) {
	srv := newFakeServer(t)
	m, store := newTestManager(t, srv.URL)

	require.NoError(t, m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"}))

	st := m.State()
	assert.True(t, st.LoggedIn)
	assert.Equal(t, Authenticated, st.Status())
	assert.Equal(t, backend.Profile{"id": float64(1), "name": "A", "email": "a@b.com"}, st.User)

	stored, err := store.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored)
}

func TestLoginRejected(t *testing.T) {
	srv := newFakeServer(t)
	m, store := newTestManager(t, srv.URL)
	require.NoError(t, store.SaveAccessToken("old"))

	err := m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "wrong"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.AuthRejected))

	st := m.State()
	assert.False(t, st.LoggedIn)
	assert.Nil(t, st.User)
	_, err = store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
}

func TestLoginMissingFields(t *testing.T) {
	srv := newFakeServer(t)
	m, _ := newTestManager(t, srv.URL)

	err := m.Login(context.Background(), Credentials{Email: "a@b.com"})
	assert.True(t, apperrors.IsKind(err, apperrors.AuthRejected))
	assert.Zero(t, srv.meCalls.Load())
}

func TestLoginServerUnreachable(t *testing.T) {
	srv := newFakeServer(t)
	url := srv.URL
	srv.Close()

	m, _ := newTestManager(t, url)
	err := m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"})
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.NetworkFailure))
	assert.False(t, m.State().LoggedIn)
}

func TestLoginThenProfileRejected(t *testing.T) {
	srv := newFakeServer(t)
	srv.meStatus.Store(http.StatusUnauthorized)
	m, store := newTestManager(t, srv.URL)

	err := m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"})
	assert.True(t, apperrors.IsKind(err, apperrors.AuthRejected))
	assert.False(t, m.State().LoggedIn)
	assert.Empty(t, m.Session().Token())

	_, err = store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
}

func TestCheckAuthAfterLogin(t *testing.T) {
	srv := newFakeServer(t)
	m, _ := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"}))

	ok, err := m.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a@b.com", m.State().User.DisplayName())
}

func TestCheckAuthWithoutCredentialSkipsNetwork(t *testing.T) {
	srv := newFakeServer(t)
	m, _ := newTestManager(t, srv.URL)

	ok, err := m.CheckAuth(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.Zero(t, srv.meCalls.Load())
}

func TestCheckAuthRejectedClearsEverything(t *testing.T) {
	srv := newFakeServer(t)
	m, store := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"}))

	srv.meStatus.Store(http.StatusUnauthorized)
	ok, err := m.CheckAuth(context.Background())
	assert.False(t, ok)
	assert.True(t, apperrors.IsKind(err, apperrors.AuthRejected))
	assert.False(t, m.State().LoggedIn)
	assert.Nil(t, m.State().User)
	assert.Empty(t, m.Session().Token())

	_, err = store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
}

func TestCheckAuthServerErrorKeepsCredential(t *testing.T) {
	srv := newFakeServer(t)
	m, store := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"}))

	srv.meStatus.Store(http.StatusBadGateway)
	ok, err := m.CheckAuth(context.Background())
	assert.False(t, ok)
	assert.True(t, apperrors.IsKind(err, apperrors.NetworkFailure))
	assert.False(t, m.State().LoggedIn)
	assert.Equal(t, "tok-1", m.Session().Token())

	stored, err := store.LoadAccessToken()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored)

	// The server recovers; the kept credential is accepted again.
	srv.meStatus.Store(0)
	ok, err = m.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLogoutWhileUnreachable(t *testing.T) {
	srv := newFakeServer(t)
	m, store := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"}))

	srv.Close()
	m.Logout(context.Background())

	st := m.State()
	assert.False(t, st.LoggedIn)
	assert.Nil(t, st.User)
	assert.Empty(t, m.Session().Token())
	_, err := store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
}

func TestLogoutNotifiesServer(t *testing.T) {
	srv := newFakeServer(t)
	m, _ := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"}))

	m.Logout(context.Background())
	assert.EqualValues(t, 1, srv.logouts.Load())

	// Anonymous logout stays local.
	m.Logout(context.Background())
	assert.EqualValues(t, 1, srv.logouts.Load())
}

func TestRestore(t *testing.T) {
	srv := newFakeServer(t)
	m, store := newTestManager(t, srv.URL)
	require.NoError(t, store.SaveAccessToken("tok-1"))

	require.NoError(t, m.Restore(context.Background()))
	assert.False(t, m.State().LoggedIn, "restore alone does not authenticate")
	assert.Equal(t, "tok-1", m.Session().Token())

	ok, err := m.CheckAuth(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRestoreWithoutStoredCredential(t *testing.T) {
	m, _ := newTestManager(t, "http://127.0.0.1:1")
	assert.NoError(t, m.Restore(context.Background()))
	assert.Empty(t, m.Session().Token())
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("k"))
	require.NoError(t, err)
	return s
}

func TestRestoreDropsExpiredJWT(t *testing.T) {
	m, store := newTestManager(t, "http://127.0.0.1:1")
	require.NoError(t, store.SaveAccessToken(signedToken(t, time.Now().Add(-time.Hour))))

	require.NoError(t, m.Restore(context.Background()))
	assert.Empty(t, m.Session().Token())
	_, err := store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
}

func TestCheckAuthExpiredJWTSkipsNetwork(t *testing.T) {
	srv := newFakeServer(t)
	srv.token = signedToken(t, time.Now().Add(time.Minute))
	m, _ := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"}))
	calls := srv.meCalls.Load()

	m.now = func() time.Time { return time.Now().Add(time.Hour) }
	ok, err := m.CheckAuth(context.Background())
	assert.False(t, ok)
	assert.True(t, apperrors.IsKind(err, apperrors.AuthRejected))
	assert.Equal(t, calls, srv.meCalls.Load())
	assert.Empty(t, m.Session().Token())
}

func TestCredentialExpired(t *testing.T) {
	now := time.Now()
	assert.False(t, credentialExpired("opaque-token", now))
	assert.False(t, credentialExpired(signedToken(t, now.Add(time.Hour)), now))
	assert.True(t, credentialExpired(signedToken(t, now.Add(-time.Second)), now))
}

// blockingAPI holds Me until release is closed, so tests can interleave operations.
type blockingAPI struct {
	backend.API
	entered chan struct{}
	release chan struct{}
	profile backend.Profile
	err     error
}

func (b *blockingAPI) Me(ctx context.Context, _ string) (backend.Profile, error) {
	b.entered <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.profile, b.err
}

func (b *blockingAPI) Logout(context.Context, string) error { return nil }

func TestStaleCheckIsDiscardedAfterLogout(t *testing.T) {
	api := &blockingAPI{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		profile: backend.Profile{"id": float64(1)},
	}
	store := keychain.NewManager(keyring.NewArrayKeyring(nil))
	m := NewManager(api, store, nil, nil)
	m.session.restore("tok")

	var (
		wg  sync.WaitGroup
		ok  bool
		err error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		ok, err = m.CheckAuth(context.Background())
	}()

	<-api.entered
	m.Logout(context.Background())
	close(api.release)
	wg.Wait()

	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrSuperseded)
	assert.False(t, m.State().LoggedIn)
	assert.Empty(t, m.Session().Token())
}

func TestOlderCheckDoesNotOverwriteNewer(t *testing.T) {
	api := &blockingAPI{
		entered: make(chan struct{}, 2),
		release: make(chan struct{}),
		err:     &backend.StatusError{Op: "me", Code: http.StatusBadGateway},
	}
	m := NewManager(api, keychain.NewManager(keyring.NewArrayKeyring(nil)), nil, nil)
	m.session.restore("tok")

	first := make(chan error, 1)
	go func() {
		_, err := m.CheckAuth(context.Background())
		first <- err
	}()
	<-api.entered

	// A newer check completes first and wins.
	seq := m.session.begin()
	current, err := m.session.authenticate(seq, "tok", backend.Profile{"id": float64(2)}, nil)
	require.True(t, current)
	require.NoError(t, err)

	close(api.release)
	assert.ErrorIs(t, <-first, ErrSuperseded)
	assert.True(t, m.State().LoggedIn)
	assert.Equal(t, float64(2), m.State().User["id"])
}

func TestCheckAuthCancelledLeavesSession(t *testing.T) {
	api := &blockingAPI{entered: make(chan struct{}, 1), release: make(chan struct{})}
	m := NewManager(api, keychain.NewManager(keyring.NewArrayKeyring(nil)), nil, nil)
	m.session.restore("tok")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := m.CheckAuth(ctx)
		done <- err
	}()
	<-api.entered
	cancel()

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, "tok", m.Session().Token())
}

func TestAuthorizedRejectionEndsSession(t *testing.T) {
	srv := newFakeServer(t)
	m, store := newTestManager(t, srv.URL)
	require.NoError(t, m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"}))

	var seen string
	err := m.Authorized(context.Background(), func(_ context.Context, token string) error {
		seen = token
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", seen)

	err = m.Authorized(context.Background(), func(context.Context, string) error {
		return backend.ErrUnauthorized
	})
	assert.True(t, apperrors.IsKind(err, apperrors.AuthRejected))
	assert.False(t, m.State().LoggedIn)
	_, err = store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
}

func TestAuthorizedWithoutCredential(t *testing.T) {
	m, _ := newTestManager(t, "http://127.0.0.1:1")
	called := false
	err := m.Authorized(context.Background(), func(context.Context, string) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrNoCredential)
	assert.False(t, called)
}

func TestLoginWithoutIssuedTokenFails(t *testing.T) {
	srv := newFakeServer(t)
	srv.noToken = true
	m, store := newTestManager(t, srv.URL)
	require.NoError(t, store.SaveAccessToken("old"))

	err := m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"})
	assert.ErrorIs(t, err, ErrNoTokenIssued)
	assert.True(t, apperrors.IsKind(err, apperrors.AuthRejected))
	assert.Zero(t, srv.meCalls.Load(), "profile is not fetched without a credential")

	st := m.State()
	assert.False(t, st.LoggedIn)
	assert.Nil(t, st.User)
	_, err = store.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)

	ok, _ := m.CheckAuth(context.Background())
	assert.False(t, ok)
}

// gatedStore holds SaveAccessToken until release is closed.
type gatedStore struct {
	TokenStore
	saving  chan struct{}
	release chan struct{}
}

func (g *gatedStore) SaveAccessToken(token string) error {
	close(g.saving)
	<-g.release
	return g.TokenStore.SaveAccessToken(token)
}

func TestLogoutDuringLoginPersistLeavesNoCredential(t *testing.T) {
	srv := newFakeServer(t)
	keys := keychain.NewManager(keyring.NewArrayKeyring(nil))
	store := &gatedStore{TokenStore: keys, saving: make(chan struct{}), release: make(chan struct{})}
	be := backend.New(backend.Options{BaseURL: srv.URL, Timeout: time.Second})
	m := NewManager(be, store, nil, nil)

	loginDone := make(chan error, 1)
	go func() {
		loginDone <- m.Login(context.Background(), Credentials{Email: "a@b.com", Password: "secret"})
	}()
	<-store.saving

	logoutDone := make(chan struct{})
	go func() {
		m.Logout(context.Background())
		close(logoutDone)
	}()

	select {
	case <-logoutDone:
		t.Fatal("logout completed while login was still persisting its credential")
	case <-time.After(50 * time.Millisecond):
	}
	close(store.release)

	require.NoError(t, <-loginDone)
	<-logoutDone

	assert.False(t, m.State().LoggedIn)
	assert.Empty(t, m.Session().Token())
	_, err := keys.LoadAccessToken()
	assert.ErrorIs(t, err, keychain.ErrNotFound)
}

func TestAuthorizedKeepsConcurrentCheck(t *testing.T) {
	api := &blockingAPI{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		profile: backend.Profile{"id": float64(1)},
	}
	m := NewManager(api, keychain.NewManager(keyring.NewArrayKeyring(nil)), nil, nil)
	m.session.restore("tok")

	done := make(chan error, 1)
	var ok bool
	go func() {
		var err error
		ok, err = m.CheckAuth(context.Background())
		done <- err
	}()
	<-api.entered

	require.NoError(t, m.Authorized(context.Background(), func(context.Context, string) error { return nil }))
	close(api.release)

	require.NoError(t, <-done)
	assert.True(t, ok)
	assert.True(t, m.State().LoggedIn)
}

func TestAuthorizedRejectionSupersedesInflightCheck(t *testing.T) {
	api := &blockingAPI{
		entered: make(chan struct{}, 1),
		release: make(chan struct{}),
		profile: backend.Profile{"id": float64(1)},
	}
	m := NewManager(api, keychain.NewManager(keyring.NewArrayKeyring(nil)), nil, nil)
	m.session.restore("tok")

	done := make(chan error, 1)
	go func() {
		_, err := m.CheckAuth(context.Background())
		done <- err
	}()
	<-api.entered

	err := m.Authorized(context.Background(), func(context.Context, string) error { return backend.ErrUnauthorized })
	assert.True(t, apperrors.IsKind(err, apperrors.AuthRejected))
	close(api.release)

	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.False(t, m.State().LoggedIn)
	assert.Empty(t, m.Session().Token())
}
