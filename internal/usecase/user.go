package usecase

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/uow"
	"lendhub/internal/domain/user"
	"lendhub/pkg/logger"
)

// UserService manages user accounts. Authorization (admin-only operations) is
// enforced at the HTTP boundary; this layer only owns the account rules.
type UserService struct {
	scopes uow.Factory
}

// NewUserService creates a user service.
func NewUserService(scopes uow.Factory) *UserService {
	return &UserService{scopes: scopes}
}

// Create registers a new account with the User role.
func (s *UserService) Create(ctx context.Context, event user.CreateUser) (*user.User, error) {
	if err := event.Validate(); err != nil {
		return nil, err
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(event.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}

	u := &user.User{
		ID:    id.New(),
		Name:  event.Name,
		Email: event.Email,
		Role:  user.RoleUser,
	}

	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	if err := scope.Users().Create(ctx, u, string(passwordHash)); err != nil {
		return nil, err
	}
	if err := scope.Commit(ctx); err != nil {
		return nil, err
	}

	logger.Info(ctx, "user created", "user_id", u.ID.String())
	return u, nil
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, event user.DeleteUser) error {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	if err := scope.Users().Delete(ctx, event.UserID); err != nil {
		return err
	}
	return scope.Commit(ctx)
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	return scope.Users().FindAll(ctx)
}

// Get fetches one account.
func (s *UserService) Get(ctx context.Context, userID id.ID) (*user.User, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	return scope.Users().FindByID(ctx, userID)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *UserService) ChangePassword(ctx context.Context, event user.UpdateUserPassword) error {
	if event.NewPassword == "" {
		return apperror.NewValidation("new password is required")
	}

	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	currentHash, err := scope.Users().FindPasswordHashByID(ctx, event.UserID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(event.CurrentPassword)); err != nil {
		return apperror.NewUnauthenticated("current password does not match")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(event.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperror.NewInternal(err)
	}

	if err := scope.Users().UpdatePassword(ctx, event.UserID, string(newHash)); err != nil {
		return err
	}
	return scope.Commit(ctx)
}

// ChangeRole replaces a user's role.
func (s *UserService) ChangeRole(ctx context.Context, event user.UpdateUserRole) error {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	if err := scope.Users().UpdateRole(ctx, event.UserID, event.Role); err != nil {
		return err
	}
	return scope.Commit(ctx)
}
