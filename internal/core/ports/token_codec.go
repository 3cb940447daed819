package ports

import "github.com/taskflow/admin-console/internal/core/domain"

// TokenCodec signs and verifies session tokens.
type TokenCodec interface {
	Issue(identity domain.Identity) (string, domain.SessionClaims, error)
	// Verify returns ErrTokenTampered or ErrTokenExpired on failure.
	Verify(token string) (domain.SessionClaims, error)
}
