package httpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/target/dashboard-client/internal/adapters/memory"
	"github.com/target/dashboard-client/internal/domain/session"
	sessionmocks "github.com/target/dashboard-client/internal/mocks/session"
	"github.com/target/dashboard-client/internal/ports"
)

func newCookieBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+PathLogin, func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "tok-1", Path: "/", HttpOnly: true})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Login successful", "userId": "1"})
	})
	mux.HandleFunc("POST "+PathSignout, func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("session")
		if err != nil || c.Value != "tok-1" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Not signed in"})
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusOK, map[string]string{"message": "Signed out successfully"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newJarClient(t *testing.T, origin string, store ports.SessionStore) *Client {
	t.Helper()
	jar, err := NewSessionJar(context.Background(), SessionJarOptions{Origin: origin, Store: store})
	require.NoError(t, err)
	c, err := NewClient(Options{Origin: origin, Jar: jar, Timeout: 2 * time.Second})
	require.NoError(t, err)
	return c
}

func TestSessionJar_BackendSessionSurvivesNewClient(t *testing.T) {
	srv := newCookieBackend(t)
	store := memory.NewSessionStore()
	ctx := context.Background()

	_, err := newJarClient(t, srv.URL, store).Login(ctx, ports.Credentials{Username: "a", Password: "b"})
	require.NoError(t, err)

	saved, err := store.Cookies(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "session", saved[0].Name)
	assert.Equal(t, "tok-1", saved[0].Value)
	assert.Equal(t, "/", saved[0].Path)
	assert.True(t, saved[0].HTTPOnly)

	msg, err := newJarClient(t, srv.URL, store).Signout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Signed out successfully", msg)

	saved, err = store.Cookies(ctx)
	require.NoError(t, err)
	assert.Empty(t, saved, "expired cookie is dropped from the store")
}

func TestSessionJar_WithoutStoredCookieSignoutFails(t *testing.T) {
	srv := newCookieBackend(t)

	_, err := newJarClient(t, srv.URL, memory.NewSessionStore()).Signout(context.Background())
	require.Error(t, err)
}

func TestSessionJar_SkipsExpiredCookies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	require.NoError(t, store.SetCookies(ctx, []session.Cookie{
		{Name: "old", Value: "x", Path: "/", Expires: time.Now().Add(-time.Hour)},
		{Name: "session", Value: "tok", Path: "/"},
	}))

	jar, err := NewSessionJar(ctx, SessionJarOptions{Origin: "http://backend.test", Store: store})
	require.NoError(t, err)

	got := jar.Cookies(&url.URL{Scheme: "http", Host: "backend.test", Path: "/api/auth/signout"})
	require.Len(t, got, 1)
	assert.Equal(t, "session", got[0].Name)
}

func TestSessionJar_MaxAgeBecomesExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewSessionStore()
	jar, err := NewSessionJar(context.Background(), SessionJarOptions{
		Origin: "http://backend.test",
		Store:  store,
		Now:    func() time.Time { return now },
	})
	require.NoError(t, err)

	jar.SetCookies(&url.URL{Scheme: "http", Host: "backend.test"}, []*http.Cookie{{Name: "session", Value: "tok", MaxAge: 60}})

	saved, err := store.Cookies(context.Background())
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.True(t, saved[0].Expires.Equal(now.Add(time.Minute)))
	assert.Equal(t, "/", saved[0].Path)
}

func TestSessionJar_OtherHostsStayInMemory(t *testing.T) {
	store := memory.NewSessionStore()
	jar, err := NewSessionJar(context.Background(), SessionJarOptions{Origin: "http://backend.test", Store: store})
	require.NoError(t, err)

	other := &url.URL{Scheme: "http", Host: "cdn.test"}
	jar.SetCookies(other, []*http.Cookie{{Name: "tracking", Value: "1"}})

	assert.Len(t, jar.Cookies(other), 1)
	saved, err := store.Cookies(context.Background())
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestNewSessionJar_Errors(t *testing.T) {
	_, err := NewSessionJar(context.Background(), SessionJarOptions{Origin: "http://backend.test"})
	require.Error(t, err)

	_, err = NewSessionJar(context.Background(), SessionJarOptions{Origin: "backend.test:80", Store: memory.NewSessionStore()})
	require.Error(t, err)

	failing := sessionmocks.NewMemorySessionStore("")
	failing.Err = errors.New("disk gone")
	_, err = NewSessionJar(context.Background(), SessionJarOptions{Origin: "http://backend.test", Store: failing})
	require.ErrorContains(t, err, "load session cookies")
}
