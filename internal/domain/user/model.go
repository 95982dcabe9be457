// Package user provides the user account domain.
package user

import (
	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
)

// Role is a user's access level.
type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

// ParseRole validates a role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAdmin:
		return Role(s), nil
	default:
		return "", apperror.NewValidation("unknown role").WithDetail("role", s)
	}
}

// User is an account. The password hash is deliberately absent: it never
// leaves the user repository except through the dedicated hash lookups.
type User struct {
	ID    id.ID  `db:"user_id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email"`
	Role  Role   `db:"role" json:"role"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CreateUser is the account creation request.
type CreateUser struct {
	Name     string
	Email    string
	Password string
}

// Validate checks required fields.
func (e CreateUser) Validate() error {
	switch {
	case e.Name == "":
		return apperror.NewValidation("name is required")
	case e.Email == "":
		return apperror.NewValidation("email is required")
	case e.Password == "":
		return apperror.NewValidation("password is required")
	}
	return nil
}

// UpdateUserPassword is the password change request.
type UpdateUserPassword struct {
	UserID          id.ID
	CurrentPassword string
	NewPassword     string
}

// UpdateUserRole is the role change request.
type UpdateUserRole struct {
	UserID id.ID
	Role   Role
}

// DeleteUser is the account deletion request.
type DeleteUser struct {
	UserID id.ID
}
