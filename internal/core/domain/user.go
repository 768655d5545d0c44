package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User models an account as served by the backend. The client keeps a
// read-mostly cache of these; the backend owns the record. FinesDue is an
// opaque server-computed amount; the client never derives it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	FinesDue  float64   `json:"finesDue"`
	AvatarRef string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// IsAdmin reports whether the user carries the admin role. Matched
// case-insensitively; the backend has been observed returning both
// "admin" and "Admin".
func (u User) IsAdmin() bool {
	return strings.EqualFold(u.Role, RoleAdmin)
}
