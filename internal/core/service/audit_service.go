package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService backed by repo.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a login event and, for successful logins, stamps the
// account's last login time. The stamp is best effort.
func (s *auditService) Process(ctx context.Context, event domain.LoginEvent) error {
	if err := s.repo.InsertLoginEvent(ctx, &event); err != nil {
		return fmt.Errorf("audit login event: %w", err)
	}

	if event.Outcome == domain.LoginSucceeded && event.UserID != "" {
		if err := s.repo.TouchLastLogin(ctx, event.UserID, &event); err != nil {
			s.log.Warn().Err(err).Str("user_id", event.UserID).Msg("failed to update last login")
		}
	}

	s.log.Debug().
		Str("email", event.Email).
		Str("outcome", string(event.Outcome)).
		Msg("login event recorded")
	return nil
}
