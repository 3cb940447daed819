package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

type UserService struct {
	repo ports.CredentialRepository
	log  zerolog.Logger
}

func NewUserService(repo ports.CredentialRepository, log zerolog.Logger) *UserService {
	return &UserService{repo: repo, log: log}
}

// ListMembers returns every standard-role account.
func (s *UserService) ListMembers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.repo.ListByRole(ctx, domain.RoleStandard)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return users, nil
}

// Create stores a new account. A password is hashed only for the privileged
// role; standard accounts never carry credential material.
func (s *UserService) Create(ctx context.Context, in ports.CreateUserInput) (*domain.User, error) {
	role, err := domain.ParseRole(in.Role)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" {
		return nil, domain.ErrInvalidUser
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if role.IsPrivileged() && in.Password != "" {
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("create user: hash password: %w", err)
		}
		user.PasswordHash = hash
	}

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("user_id", created.ID).
		Str("role", created.Role.String()).
		Str("created_by", in.CreatedBy).
		Msg("user created")
	return created, nil
}
