package ports

import (
	"context"

	"github.com/taskflow/admin-console/internal/core/domain"
)

// AuditRepository persists login events and last-login bookkeeping.
type AuditRepository interface {
	InsertLoginEvent(ctx context.Context, event *domain.LoginEvent) error
	TouchLastLogin(ctx context.Context, userID string, event *domain.LoginEvent) error
}

// AuditService processes login events off the request path.
type AuditService interface {
	Process(ctx context.Context, event domain.LoginEvent) error
}

// AuditSink accepts login events without blocking the caller.
type AuditSink interface {
	Enqueue(event domain.LoginEvent)
}

// LoginLimiter throttles login attempts per key.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}
