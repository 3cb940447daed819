package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskflow/admin-console/internal/core/domain"
)

func TestCredentialVerifier_Success(t *testing.T) {
	repo := newStubCredentialRepo()
	stored := repo.seed(t, "Admin", "admin@example.com", "s3cret!", domain.RolePrivileged)
	v := NewCredentialVerifier(repo)

	id, err := v.Verify(context.Background(), "  Admin@Example.COM ", "s3cret!")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if id.UserID != stored.ID || id.Email != "admin@example.com" || id.Name != "Admin" || id.Role != domain.RolePrivileged {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

func TestCredentialVerifier_WrongPassword(t *testing.T) {
	repo := newStubCredentialRepo()
	repo.seed(t, "Admin", "admin@example.com", "s3cret!", domain.RolePrivileged)
	v := NewCredentialVerifier(repo)

	if _, err := v.Verify(context.Background(), "admin@example.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialVerifier_UnknownEmailIndistinguishable(t *testing.T) {
	v := NewCredentialVerifier(newStubCredentialRepo())

	if _, err := v.Verify(context.Background(), "ghost@example.com", "pwd"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialVerifier_StandardRoleRejected(t *testing.T) {
	repo := newStubCredentialRepo()
	repo.seed(t, "Member", "admin@example.com", "s3cret!", domain.RoleStandard)
	v := NewCredentialVerifier(repo)

	if _, err := v.Verify(context.Background(), "admin@example.com", "s3cret!"); !errors.Is(err, domain.ErrRoleNotPermitted) {
		t.Fatalf("expected ErrRoleNotPermitted, got %v", err)
	}
}

func TestCredentialVerifier_PrivilegedWithoutHash(t *testing.T) {
	repo := newStubCredentialRepo()
	repo.seed(t, "Admin", "admin@example.com", "", domain.RolePrivileged)
	v := NewCredentialVerifier(repo)

	if _, err := v.Verify(context.Background(), "admin@example.com", ""); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCredentialVerifier_RepositoryFailure(t *testing.T) {
	repo := newStubCredentialRepo()
	boom := errors.New("connection reset")
	repo.findErr = boom
	v := NewCredentialVerifier(repo)

	_, err := v.Verify(context.Background(), "admin@example.com", "pwd")
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repository error, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("infrastructure failure must not look like bad credentials")
	}
}

func TestHashPassword_Cost(t *testing.T) {
	hash, err := HashPassword("pass123")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost < 12 {
		t.Fatalf("expected cost >= 12, got %d", cost)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("pass123")) != nil {
		t.Fatalf("hash does not match password")
	}
}
