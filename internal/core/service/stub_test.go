package service

import (
	"context"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/admin-console/internal/core/domain"
)

type stubCredentialRepo struct {
	users     map[string]*domain.User
	findErr   error
	findCalls int
}

func newStubCredentialRepo() *stubCredentialRepo {
	return &stubCredentialRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubCredentialRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.findCalls++
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubCredentialRepo) FindFirstByRole(_ context.Context, role domain.Role) (*domain.User, error) {
	for _, u := range r.users {
		if u.Role == role {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubCredentialRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubCredentialRepo) ListByRole(_ context.Context, role domain.Role) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, cloneUser(u))
		}
	}
	return out, nil
}

// seed stores a user with a low-cost hash so tests stay fast.
func (r *stubCredentialRepo) seed(t *testing.T, name, email, password string, role domain.Role) *domain.User {
	t.Helper()
	u := &domain.User{ID: "id-" + email, Name: name, Email: email, Role: role}
	if password != "" {
		h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		if err != nil {
			t.Fatalf("hash: %v", err)
		}
		u.PasswordHash = string(h)
	}
	r.users[email] = u
	return cloneUser(u)
}

type recordingSink struct {
	mu     sync.Mutex
	events []domain.LoginEvent
}

func (s *recordingSink) Enqueue(e domain.LoginEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) last(t *testing.T) domain.LoginEvent {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		t.Fatalf("expected an audit event")
	}
	return s.events[len(s.events)-1]
}
