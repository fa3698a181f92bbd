// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import "time"

// Role represents an admin account's permission level.
type Role string

const (
	// RoleAdmin accounts can log in and create content.
	RoleAdmin Role = "admin"
	// RoleMaster accounts can additionally update and delete content.
	RoleMaster Role = "master"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMaster
}

// AdminUser represents an administrator account.
type AdminUser struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never serialize the hash
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"` // Nullable; set during 2FA enrollment
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsMaster returns true if the account has the master role.
func (u *AdminUser) IsMaster() bool {
	return u.Role == RoleMaster
}

// Needs2FA returns true when the account must present a TOTP code to
// complete login. 2FA is opt-in; accounts that never enrolled skip it.
func (u *AdminUser) Needs2FA() bool {
	return u.TOTPEnabled
}
