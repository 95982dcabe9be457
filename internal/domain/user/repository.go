package user

import (
	"context"

	"lendhub/internal/core/id"
)

// Repository defines user storage operations.
type Repository interface {
	// Create inserts a new user with the given password hash.
	Create(ctx context.Context, u *User, passwordHash string) error

	// Delete removes a user.
	Delete(ctx context.Context, userID id.ID) error

	// FindAll lists all users.
	FindAll(ctx context.Context) ([]User, error)

	// FindByID fetches one user.
	FindByID(ctx context.Context, userID id.ID) (*User, error)

	// FindPasswordHashByEmail returns the user id and password hash for an
	// email address.
	FindPasswordHashByEmail(ctx context.Context, email string) (id.ID, string, error)

	// FindPasswordHashByID returns the password hash for a user.
	FindPasswordHashByID(ctx context.Context, userID id.ID) (string, error)

	// UpdatePassword replaces a user's password hash.
	UpdatePassword(ctx context.Context, userID id.ID, passwordHash string) error

	// UpdateRole replaces a user's role.
	UpdateRole(ctx context.Context, userID id.ID, role Role) error
}
