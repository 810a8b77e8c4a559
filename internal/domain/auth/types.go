package auth

// Package auth contains domain-level types for the operator session.
// It is pure and free of framework/adapter concerns.

import (
	"strings"
	"time"
)

// Role represents an operator's authorization role as issued by the POS API.
// Keep string form for easy persistence and templates.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

// Identity is the authenticated operator as returned by GET /auth/me.
// Values are replaced wholesale by the session store, never mutated in place.
type Identity struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Empty reports whether the identity payload carries no usable principal.
// The API occasionally answers success with a null or partial user.
func (i Identity) Empty() bool {
	return i.ID == 0 && strings.TrimSpace(i.Email) == ""
}

// Same reports whether two identities describe the same record.
func (i Identity) Same(other Identity) bool {
	return i.ID == other.ID &&
		i.FullName == other.FullName &&
		i.Email == other.Email &&
		i.Role == other.Role &&
		i.CreatedAt.Equal(other.CreatedAt)
}

// Credential is the opaque bearer token issued by the API on login.
type Credential struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Present reports whether the credential carries a token.
func (c Credential) Present() bool { return c.Token != "" }

// Credentials are the login form inputs.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration carries the inputs for POST /auth/register.
type Registration struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Grant is the result of a successful login or registration.
type Grant struct {
	Identity   Identity
	Credential Credential
}
