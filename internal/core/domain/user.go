package domain

import (
	"errors"
	"time"
)

// Role is a named capability tag attached to a user. Authorization is a
// set-membership check over a user's roles, never a hierarchy.
type Role string

const (
	RoleUser       Role = "ROLE_USER"
	RoleAdmin      Role = "ROLE_ADMIN"
	RoleSuperAdmin Role = "ROLE_SUPER_ADMIN"
)

// DefaultRoles is the full set of roles that must exist in the store before
// the service can operate. Seeded idempotently at startup.
var DefaultRoles = []Role{RoleUser, RoleAdmin, RoleSuperAdmin}

var ErrUserExists = errors.New("email already in use")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrEmailDomainNotAllowed = errors.New("email domain not allowed")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrRoleNotSeeded = errors.New("required role missing from store")
var ErrForbidden = errors.New("access forbidden")

// User models an account in the campus system.
type User struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	PasswordHash      string    `json:"-"`
	PhoneNumber       string    `json:"phone_number,omitempty"`
	Department        string    `json:"department,omitempty"`
	YearOfStudy       string    `json:"year_of_study,omitempty"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty"`
	Interests         []string  `json:"interests,omitempty"`
	Roles             []Role    `json:"roles"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether the user holds at least one of the given roles.
func (u *User) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if u.HasRole(r) {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the user already holds an elevated role.
func (u *User) IsPrivileged() bool {
	return u.HasAnyRole(RoleAdmin, RoleSuperAdmin)
}
