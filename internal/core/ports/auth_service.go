package ports

import (
	"context"

	"github.com/taskflow/admin-console/internal/core/domain"
)

// LoginInput carries a login attempt from the transport layer.
type LoginInput struct {
	Email    string
	Password string
	RemoteIP string
}

// LoginResult is a freshly issued session. Claims.Identity doubles as the
// sanitized user record returned to the caller.
type LoginResult struct {
	Token  string
	Claims domain.SessionClaims
}

// BootstrapResult reports the outcome of the one-time admin bootstrap.
type BootstrapResult struct {
	Email   string
	Created bool
}

type AuthService interface {
	Login(ctx context.Context, in LoginInput) (*LoginResult, error)
	Bootstrap(ctx context.Context) (*BootstrapResult, error)
}
