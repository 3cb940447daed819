package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

const validToken = "header.payload.signature"

// fakeAPI serves the handful of endpoints the session talks to.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid payload"}`, http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if req.Email != "root@example.com" || req.Password != "right" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"message":"Login successful","token":"` + validToken + `","user":{"id":"u-1","name":"Root","email":"root@example.com","role":"Admin"}}`))
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","name":"Root","email":"root@example.com","role":"Admin"}`))
	})
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+validToken {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":"u-2","name":"Bob","email":"bob@example.com","role":"Member","created_at":"2025-02-01T09:00:00Z"}]`))
	})
	mux.HandleFunc("/api/forbidden", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"forbidden"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSession_LoginPersistsSession(t *testing.T) {
	srv := fakeAPI(t)
	store := NewMemoryStore()
	s, err := NewSession(srv.URL, store)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("fresh session must be logged out")
	}

	user, err := s.Login(context.Background(), "root@example.com", "right")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.Email != "root@example.com" || user.Role != "Admin" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if s.Token() != validToken || !s.Authenticated() {
		t.Fatalf("token not held in memory")
	}

	snap, err := store.Load()
	if err != nil || snap == nil {
		t.Fatalf("expected persisted snapshot, got %v %v", snap, err)
	}
	if snap.Token != validToken || snap.User.ID != "u-1" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestSession_LoginFailureKeepsServerMessage(t *testing.T) {
	srv := fakeAPI(t)
	s, _ := NewSession(srv.URL, NewMemoryStore())

	_, err := s.Login(context.Background(), "root@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T %v", err, err)
	}
	if apiErr.Status != http.StatusUnauthorized || err.Error() != "Invalid credentials" {
		t.Fatalf("unexpected error: %d %q", apiErr.Status, err.Error())
	}
	if s.Authenticated() {
		t.Fatalf("failed login must not authenticate")
	}
}

func TestSession_AuthenticatedRequestAttachesToken(t *testing.T) {
	srv := fakeAPI(t)
	s, _ := NewSession(srv.URL, NewMemoryStore())
	if _, err := s.Login(context.Background(), "root@example.com", "right"); err != nil {
		t.Fatalf("login: %v", err)
	}

	me, err := s.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.ID != "u-1" {
		t.Fatalf("unexpected me: %+v", me)
	}

	users, err := s.ListUsers(context.Background())
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 1 || users[0].Email != "bob@example.com" || users[0].CreatedAt.IsZero() {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestSession_UnauthorizedForcesLogout(t *testing.T) {
	srv := fakeAPI(t)
	store := NewMemoryStore()
	if err := store.Save(Snapshot{Token: "stale.token.value", User: User{ID: "u-1"}}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	var loggedOut atomic.Int32
	s, _ := NewSession(srv.URL, store, WithOnLogout(func() { loggedOut.Add(1) }))
	if !s.Authenticated() {
		t.Fatalf("expected snapshot to be restored")
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/me", nil)
	resp, err := s.AuthenticatedRequest(req)
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if resp != nil {
		t.Fatalf("expected no response on expiry")
	}
	if s.Authenticated() || s.Token() != "" {
		t.Fatalf("session must be cleared after 401")
	}
	if _, ok := s.User(); ok {
		t.Fatalf("user must be cleared after 401")
	}
	if snap, _ := store.Load(); snap != nil {
		t.Fatalf("store must be cleared after 401, got %+v", snap)
	}
	if loggedOut.Load() != 1 {
		t.Fatalf("expected on-logout hook once, got %d", loggedOut.Load())
	}
}

func TestSession_OtherErrorsPassThrough(t *testing.T) {
	srv := fakeAPI(t)
	s, _ := NewSession(srv.URL, NewMemoryStore())
	if _, err := s.Login(context.Background(), "root@example.com", "right"); err != nil {
		t.Fatalf("login: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/forbidden", nil)
	resp, err := s.AuthenticatedRequest(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 passthrough, got %d", resp.StatusCode)
	}
	if !s.Authenticated() {
		t.Fatalf("403 must not end the session")
	}
}

func TestSession_AuthenticatedRequestDoesNotMutateCaller(t *testing.T) {
	srv := fakeAPI(t)
	s, _ := NewSession(srv.URL, NewMemoryStore())
	if _, err := s.Login(context.Background(), "root@example.com", "right"); err != nil {
		t.Fatalf("login: %v", err)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/auth/me", nil)
	resp, err := s.AuthenticatedRequest(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp.Body.Close()
	if req.Header.Get("Authorization") != "" {
		t.Fatalf("caller's request must not be modified")
	}
}

func TestNewSession_CorruptSnapshotIsDiscarded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adminctl", "session.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := NewSession("http://localhost:8080", NewFileStore(path))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.Authenticated() {
		t.Fatalf("corrupt snapshot must start logged out")
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("corrupt snapshot should be removed, stat err = %v", err)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "adminctl", "session.json")
	store := NewFileStore(path)

	if snap, err := store.Load(); err != nil || snap != nil {
		t.Fatalf("empty store: expected nil, nil; got %v, %v", snap, err)
	}

	want := Snapshot{Token: validToken, User: User{ID: "u-1", Email: "root@example.com", Role: "Admin"}}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600, got %o", perm)
	}

	got, err := store.Load()
	if err != nil || got == nil || *got != want {
		t.Fatalf("expected %+v, got %+v (%v)", want, got, err)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clearing twice must succeed: %v", err)
	}
}

func TestSession_RestoredFromFileStore(t *testing.T) {
	srv := fakeAPI(t)
	path := filepath.Join(t.TempDir(), "session.json")

	first, _ := NewSession(srv.URL, NewFileStore(path))
	if _, err := first.Login(context.Background(), "root@example.com", "right"); err != nil {
		t.Fatalf("login: %v", err)
	}

	second, _ := NewSession(srv.URL, NewFileStore(path))
	user, ok := second.User()
	if !ok || user.Email != "root@example.com" || second.Token() != validToken {
		t.Fatalf("session not restored: %+v ok=%v", user, ok)
	}
}

// fakeCookieAPI answers like a server that delivers the token only as a
// session cookie and ignores bearer headers.
func fakeCookieAPI(t *testing.T, cookieName string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: validToken, HttpOnly: true, Path: "/"})
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Login successful","user":{"id":"u-1","name":"Root","email":"root@example.com","role":"Admin"}}`))
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		ck, err := r.Cookie(cookieName)
		if err != nil || ck.Value != validToken || r.Header.Get("Authorization") != "" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","name":"Root","email":"root@example.com","role":"Admin"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSession_CookieTransportLogin(t *testing.T) {
	srv := fakeCookieAPI(t, "console-session")
	store := NewMemoryStore()
	s, _ := NewSession(srv.URL, store, WithSessionCookie("console-session"))

	if _, err := s.Login(context.Background(), "root@example.com", "right"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if s.Token() != validToken {
		t.Fatalf("expected token taken from the cookie, got %q", s.Token())
	}
	snap, _ := store.Load()
	if snap == nil || snap.Cookie != "console-session" {
		t.Fatalf("snapshot must remember the cookie transport, got %+v", snap)
	}

	me, err := s.Me(context.Background())
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if me.ID != "u-1" {
		t.Fatalf("unexpected me: %+v", me)
	}

	restored, _ := NewSession(srv.URL, store)
	if _, err := restored.Me(context.Background()); err != nil {
		t.Fatalf("restored cookie session: %v", err)
	}
}

func TestSession_LoginWithoutTokenOrCookieFails(t *testing.T) {
	srv := fakeCookieAPI(t, "auth-token")
	s, _ := NewSession(srv.URL, NewMemoryStore(), WithSessionCookie("other-cookie"))

	if _, err := s.Login(context.Background(), "root@example.com", "right"); err == nil {
		t.Fatalf("expected error when neither body nor cookie carries a token")
	}
	if s.Authenticated() {
		t.Fatalf("failed login must not authenticate")
	}
}
