package entity

import (
	"strings"
	"time"
)

// Role represents an authorization role. Only two exist.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleIntern Role = "intern"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleIntern
}

// User is the aggregate root for the credential domain.
// PasswordHash holds a bcrypt hash; the plaintext is never stored.
//
// Users are created by signup (or the seed command) and never mutated afterwards.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// OwnerKey is the identifier stamped on tasks the user creates.
func (u User) OwnerKey() string {
	return NormalizeEmail(u.Email)
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
