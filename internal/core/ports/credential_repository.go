package ports

import (
	"context"

	"github.com/taskflow/admin-console/internal/core/domain"
)

// CredentialRepository is the persistence boundary for account records.
// Emails passed in are already normalized.
type CredentialRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindFirstByRole returns any record with the given role, or ErrUserNotFound.
	FindFirstByRole(ctx context.Context, role domain.Role) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error)
}
