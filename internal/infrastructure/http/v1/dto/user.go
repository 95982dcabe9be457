package dto

import (
	"lendhub/internal/domain/user"
)

// --- Request DTOs ---

// CreateUserRequest for account creation.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// ToCreateUser converts to domain request.
func (r *CreateUserRequest) ToCreateUser() user.CreateUser {
	return user.CreateUser{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

// ChangePasswordRequest for a self-service password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// ChangeRoleRequest for an admin role change.
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// --- Response DTOs ---

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// FromUser creates a response from a domain user.
func FromUser(u *user.User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

// FromUsers maps a user list.
func FromUsers(users []user.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, FromUser(&users[i]))
	}
	return out
}
