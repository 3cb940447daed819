package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

// BootstrapAccount holds the credentials of the first privileged account.
// An empty Email or Password disables bootstrap.
type BootstrapAccount struct {
	Name     string
	Email    string
	Password string
}

func (b BootstrapAccount) enabled() bool {
	return b.Email != "" && b.Password != ""
}

// AuthService implements login and the one-time admin bootstrap.
type AuthService struct {
	repo      ports.CredentialRepository
	verifier  *CredentialVerifier
	codec     ports.TokenCodec
	audit     ports.AuditSink
	bootstrap BootstrapAccount
	log       zerolog.Logger
	now       func() time.Time
}

func NewAuthService(
	repo ports.CredentialRepository,
	codec ports.TokenCodec,
	audit ports.AuditSink,
	bootstrap BootstrapAccount,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		repo:      repo,
		verifier:  NewCredentialVerifier(repo),
		codec:     codec,
		audit:     audit,
		bootstrap: bootstrap,
		log:       log,
		now:       time.Now,
	}
}

// Login verifies credentials and issues a session token. Every rejection
// the caller can observe is ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in ports.LoginInput) (*ports.LoginResult, error) {
	email := domain.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	identity, err := s.verifier.Verify(ctx, email, in.Password)
	switch {
	case errors.Is(err, domain.ErrRoleNotPermitted):
		s.log.Warn().Str("email", email).Str("remote_ip", in.RemoteIP).Msg("login rejected: role not permitted")
		s.record(email, "", domain.LoginRoleRejected, in.RemoteIP)
		return nil, domain.ErrInvalidCredentials
	case errors.Is(err, domain.ErrInvalidCredentials):
		s.log.Info().Str("email", email).Str("remote_ip", in.RemoteIP).Msg("login rejected: invalid credentials")
		s.record(email, "", domain.LoginBadCredentials, in.RemoteIP)
		return nil, domain.ErrInvalidCredentials
	case err != nil:
		return nil, err
	}

	token, claims, err := s.codec.Issue(identity)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s.record(email, identity.UserID, domain.LoginSucceeded, in.RemoteIP)
	s.log.Info().Str("user_id", identity.UserID).Str("email", email).Msg("login succeeded")

	return &ports.LoginResult{Token: token, Claims: claims}, nil
}

// Bootstrap creates the configured privileged account unless one exists.
func (s *AuthService) Bootstrap(ctx context.Context) (*ports.BootstrapResult, error) {
	if !s.bootstrap.enabled() {
		return nil, domain.ErrBootstrapDisabled
	}

	existing, err := s.repo.FindFirstByRole(ctx, domain.RolePrivileged)
	if err == nil {
		return &ports.BootstrapResult{Email: existing.Email}, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	hash, err := HashPassword(s.bootstrap.Password)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: hash password: %w", err)
	}

	name := s.bootstrap.Name
	if name == "" {
		name = "Admin"
	}
	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        domain.NormalizeEmail(s.bootstrap.Email),
		PasswordHash: hash,
		Role:         domain.RolePrivileged,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent bootstrap won the unique-email race.
		if errors.Is(err, domain.ErrUserExists) {
			return &ports.BootstrapResult{Email: domain.NormalizeEmail(s.bootstrap.Email)}, nil
		}
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	s.log.Info().Str("email", created.Email).Msg("privileged account bootstrapped")
	return &ports.BootstrapResult{Email: created.Email, Created: true}, nil
}

func (s *AuthService) record(email, userID string, outcome domain.LoginOutcome, ip string) {
	if s.audit == nil {
		return
	}
	s.audit.Enqueue(domain.LoginEvent{
		Email:     email,
		UserID:    userID,
		Outcome:   outcome,
		RemoteIP:  ip,
		Timestamp: s.now().UTC(),
	})
}
