package ports

import (
	"context"

	"github.com/taskflow/admin-console/internal/core/domain"
)

// CreateUserInput carries the fields of a new account.
// Password is only honoured for the privileged role.
type CreateUserInput struct {
	Name      string
	Email     string
	Role      string
	Password  string
	CreatedBy string
}

type UserService interface {
	ListMembers(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, in CreateUserInput) (*domain.User, error)
}
