package domain

import "time"

// RoleAdmin grants elevated privileges. Absence of a role means an
// ordinary user.
const RoleAdmin = "ADMIN"

// User models an account in the system. PasswordHash is always the bcrypt
// digest of the most recently set password, never the plaintext.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Actor is the authenticated identity resolved from a bearer token.
// A nil *Actor means the request is anonymous.
type Actor struct {
	ID       string
	Username string
	Role     string
}

// IsAdmin reports whether the actor carries the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
