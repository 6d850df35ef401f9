package domain

import "time"

type Role string

const (
	RoleOrganiser Role = "organiser"
	RoleAdmin     Role = "admin"
)

// Session is an opaque login token tied to an organiser or admin account.
type Session struct {
	Token     string
	AccountID string
	Role      Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Identity is the acting account resolved from a session, carried in the
// request context by the auth middleware.
type Identity struct {
	AccountID string
	Username  string
	Role      Role
}
