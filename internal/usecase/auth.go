package usecase

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/auth"
	"lendhub/internal/domain/uow"
	"lendhub/internal/domain/user"
	"lendhub/pkg/logger"
)

// AuthService issues and resolves bearer tokens.
type AuthService struct {
	scopes uow.Factory
}

// NewAuthService creates an auth service.
func NewAuthService(scopes uow.Factory) *AuthService {
	return &AuthService{scopes: scopes}
}

// Login verifies the password against the stored hash and issues a token.
// Unknown email and password mismatch are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (id.ID, auth.AccessToken, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return id.Nil(), "", err
	}
	defer scope.Close(ctx)

	userID, passwordHash, err := scope.Users().FindPasswordHashByEmail(ctx, email)
	if err != nil {
		if apperror.IsNotFound(err) {
			return id.Nil(), "", apperror.NewUnauthenticated("invalid email or password")
		}
		return id.Nil(), "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return id.Nil(), "", apperror.NewUnauthenticated("invalid email or password")
	}

	token, err := scope.Auth().CreateToken(ctx, userID)
	if err != nil {
		return id.Nil(), "", err
	}

	if err := scope.Commit(ctx); err != nil {
		return id.Nil(), "", err
	}

	logger.Info(ctx, "user logged in", "user_id", userID.String())
	return userID, token, nil
}

// Logout deletes the token mapping. Idempotent.
func (s *AuthService) Logout(ctx context.Context, token auth.AccessToken) error {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	if err := scope.Auth().DeleteToken(ctx, token); err != nil {
		return err
	}

	return scope.Commit(ctx)
}

// FindAuthorizedUser resolves a token to a user. Absence at either step,
// including an expired token, yields an unauthenticated error.
func (s *AuthService) FindAuthorizedUser(ctx context.Context, token auth.AccessToken) (*user.User, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	userID, ok, err := scope.Auth().FetchUserIDFromToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.NewUnauthenticated("invalid or expired token")
	}

	u, err := scope.Users().FindByID(ctx, userID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthenticated("invalid or expired token")
		}
		return nil, err
	}

	return u, nil
}
