package domain

import "errors"

// Credential outcomes.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRoleNotPermitted   = errors.New("only the privileged role may authenticate")
)

// Gate outcomes.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("access forbidden")
)

// Token codec outcomes. Never surfaced to clients as-is.
var (
	ErrTokenTampered = errors.New("session token signature invalid")
	ErrTokenExpired  = errors.New("session token expired")
)

// ErrMissingSigningSecret is a startup misconfiguration, not a per-request error.
var ErrMissingSigningSecret = errors.New("session signing secret is empty")

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserExists        = errors.New("user already exists")
	ErrInvalidRole       = errors.New("invalid role")
	ErrInvalidUser       = errors.New("name and email are required")
	ErrBootstrapDisabled = errors.New("bootstrap disabled")
	ErrRateLimited       = errors.New("too many login attempts")
)
