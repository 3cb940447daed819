package domain

import "time"

// SessionTTL is the fixed lifetime of an issued session token.
const SessionTTL = 24 * time.Hour

// Identity is the verified subject attached to a request by the gate.
type Identity struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   Role   `json:"role"`
}

// SessionClaims is the payload carried by a signed session token.
type SessionClaims struct {
	Identity
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityOf returns the identity fields of a user record, never the hash.
func IdentityOf(u *User) Identity {
	return Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}
}
