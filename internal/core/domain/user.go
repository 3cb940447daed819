package domain

import (
	"strings"
	"time"
)

// Role is the closed set of account roles. Only RolePrivileged may
// authenticate and reach protected routes.
type Role string

const (
	RolePrivileged Role = "Admin"
	RoleStandard   Role = "Member"
)

// ParseRole maps a wire value to a Role, rejecting anything outside the enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePrivileged:
		return RolePrivileged, nil
	case RoleStandard:
		return RoleStandard, nil
	}
	return "", ErrInvalidRole
}

func (r Role) Valid() bool {
	return r == RolePrivileged || r == RoleStandard
}

// IsPrivileged reports whether r passes the single role gate.
func (r Role) IsPrivileged() bool {
	return r == RolePrivileged
}

func (r Role) String() string { return string(r) }

// User models an account record owned by the persistence layer.
// PasswordHash is only set for privileged accounts.
type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         Role       `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
