package domain

import "time"

// LoginOutcome classifies a login attempt for the audit trail.
type LoginOutcome string

const (
	LoginSucceeded      LoginOutcome = "success"
	LoginBadCredentials LoginOutcome = "invalid_credentials"
	LoginRoleRejected   LoginOutcome = "role_not_permitted"
)

// LoginEvent records a single login attempt.
type LoginEvent struct {
	Email     string
	UserID    string // empty unless the account exists
	Outcome   LoginOutcome
	RemoteIP  string
	Timestamp time.Time
}
