package client

import (
	"context"
	"time"
)

// Account is a user record as listed by the API.
type Account struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Me returns the identity the server sees for the held token.
func (s *Session) Me(ctx context.Context) (User, error) {
	var u User
	if err := s.getJSON(ctx, "/api/auth/me", &u); err != nil {
		return User{}, err
	}
	return u, nil
}

// ListUsers returns the Member accounts.
func (s *Session) ListUsers(ctx context.Context) ([]Account, error) {
	var out []Account
	if err := s.getJSON(ctx, "/api/users", &out); err != nil {
		return nil, err
	}
	return out, nil
}
