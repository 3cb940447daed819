package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/admin-console/internal/core/domain"
	"github.com/taskflow/admin-console/internal/core/ports"
)

// BcryptCost is the work factor for stored password hashes.
const BcryptCost = 12

// dummyHash is compared against when no account matches, so unknown emails
// cost the same as wrong passwords.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), BcryptCost)
	return h
})

// HashPassword hashes plain with bcrypt at BcryptCost.
func HashPassword(plain string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plain), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CredentialVerifier checks a login attempt against the stored record.
type CredentialVerifier struct {
	repo ports.CredentialRepository
}

func NewCredentialVerifier(repo ports.CredentialRepository) *CredentialVerifier {
	return &CredentialVerifier{repo: repo}
}

// Verify returns the identity for a privileged account whose password matches.
// Unknown email and wrong password both yield ErrInvalidCredentials; a
// non-privileged account yields ErrRoleNotPermitted.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (domain.Identity, error) {
	user, err := v.repo.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return domain.Identity{}, domain.ErrInvalidCredentials
		}
		return domain.Identity{}, fmt.Errorf("verify credentials: %w", err)
	}

	if !user.Role.IsPrivileged() {
		return domain.Identity{}, domain.ErrRoleNotPermitted
	}

	if user.PasswordHash == "" {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	return domain.IdentityOf(user), nil
}
