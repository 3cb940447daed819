// Package client is the consumer side of the admin console session: it
// logs in, caches the issued token, attaches it to outgoing requests and
// drops the session as soon as the server answers 401. Tokens delivered in
// the login body are sent back as a bearer header; tokens delivered only as
// a session cookie are sent back as that cookie.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// DefaultSessionCookie is the cookie name the server uses unless
// configured otherwise.
const DefaultSessionCookie = "auth-token"

// ErrSessionExpired is returned by AuthenticatedRequest when the server
// rejected the session. The session has already been cleared.
var ErrSessionExpired = errors.New("session expired")

// User reflects the sanitized user returned at login.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// APIError represents an error response from the API. Error returns the
// server's message unchanged so it can be shown to the operator as is.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api request failed with status %d", e.Status)
	}
	return e.Message
}

// Session caches one authenticated session. It is safe for concurrent use.
type Session struct {
	baseURL    string
	httpClient *http.Client
	store      Store
	onLogout   func()
	cookieName string

	mu     sync.RWMutex
	token  string
	cookie string
	user   *User
}

// Option customises session instantiation.
type Option func(*Session)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(s *Session) {
		if h != nil {
			s.httpClient = h
		}
	}
}

// WithOnLogout registers a hook run after every logout, including the
// forced one on an expired session.
func WithOnLogout(fn func()) Option {
	return func(s *Session) {
		s.onLogout = fn
	}
}

// WithSessionCookie sets the name of the server's session cookie.
func WithSessionCookie(name string) Option {
	return func(s *Session) {
		if name != "" {
			s.cookieName = name
		}
	}
}

// NewSession builds a session against base and restores any snapshot held
// by store. An unreadable snapshot is discarded.
func NewSession(base string, store Store, opts ...Option) (*Session, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = "http://localhost:8080"
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "http://" + trimmed
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if store == nil {
		store = NewMemoryStore()
	}

	s := &Session{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
		cookieName: DefaultSessionCookie,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap, err := store.Load()
	switch {
	case err != nil:
		_ = store.Clear()
	case snap != nil && snap.Token != "":
		user := snap.User
		s.token = snap.Token
		s.cookie = snap.Cookie
		s.user = &user
	}
	return s, nil
}

// Token returns the held token, or "" when logged out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the logged-in user.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	return s.Token() != ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login exchanges credentials for a session. On success the session is
// persisted before it becomes visible; on failure the previous state is
// left untouched.
func (s *Session) Login(ctx context.Context, email, password string) (User, error) {
	payload, err := json.Marshal(loginRequest{Email: email, Password: password})
	if err != nil {
		return User{}, fmt.Errorf("encode request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/auth/login", bytes.NewReader(payload))
	if err != nil {
		return User{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return User{}, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return User{}, &APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}

	var out loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return User{}, fmt.Errorf("decode response: %w", err)
	}
	snap := Snapshot{Token: out.Token, User: out.User}
	if snap.Token == "" {
		for _, ck := range resp.Cookies() {
			if ck.Name == s.cookieName && ck.Value != "" {
				snap.Token = ck.Value
				snap.Cookie = ck.Name
			}
		}
	}
	if snap.Token == "" {
		return User{}, errors.New("login response carried no token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Save(snap); err != nil {
		return User{}, fmt.Errorf("persist session: %w", err)
	}
	user := out.User
	s.token = snap.Token
	s.cookie = snap.Cookie
	s.user = &user
	return user, nil
}

// Logout forgets the session locally and in the store, then runs the
// on-logout hook. The hook runs even when clearing the store fails.
func (s *Session) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.cookie = ""
	s.user = nil
	err := s.store.Clear()
	s.mu.Unlock()

	if s.onLogout != nil {
		s.onLogout()
	}
	return err
}

// credentials returns the token and, for cookie sessions, the cookie name.
func (s *Session) credentials() (token, cookie string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.cookie
}

// AuthenticatedRequest sends req with the held token attached. A 401
// answer logs the session out and yields ErrSessionExpired; it is never
// retried. Every other response is returned to the caller as is.
func (s *Session) AuthenticatedRequest(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	switch token, cookie := s.credentials(); {
	case token == "":
	case cookie != "":
		out.AddCookie(&http.Cookie{Name: cookie, Value: token})
	default:
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.httpClient.Do(out)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		_ = s.Logout()
		return nil, ErrSessionExpired
	}
	return resp, nil
}

func (s *Session) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.AuthenticatedRequest(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return &APIError{Status: resp.StatusCode, Message: extractError(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func extractError(body io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return ""
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return strings.TrimSpace(string(data))
	}
	return payload.Error
}
