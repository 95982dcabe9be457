package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/user"
)

func newUserFixture(t *testing.T) (*UserService, *stubUserRepo, *fakeScope) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("old password"), bcrypt.MinCost)
	require.NoError(t, err)

	users := &stubUserRepo{
		user: user.User{
			ID:    id.New(),
			Name:  "Ferris",
			Email: "ferris@example.com",
			Role:  user.RoleUser,
		},
		passwordHash: string(hash),
	}
	scope := &fakeScope{users: users}
	return NewUserService(&fakeFactory{scope: scope}), users, scope
}

func TestUserService_Create(t *testing.T) {
	svc, users, scope := newUserFixture(t)

	created, err := svc.Create(context.Background(), user.CreateUser{
		Name:     "New User",
		Email:    "new@example.com",
		Password: "a strong one",
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleUser, created.Role, "new accounts start with the User role")
	assert.False(t, id.IsNil(created.ID))
	assert.Equal(t, 1, scope.commits)

	require.Len(t, users.created, 1)
	require.Len(t, users.newHashes, 1)
	assert.NotEqual(t, "a strong one", users.newHashes[0], "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.newHashes[0]), []byte("a strong one")))
}

func TestUserService_CreateValidation(t *testing.T) {
	svc, users, _ := newUserFixture(t)

	_, err := svc.Create(context.Background(), user.CreateUser{Name: "x", Email: "x@example.com"})
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	assert.Empty(t, users.created)
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("current password verified first", func(t *testing.T) {
		svc, users, scope := newUserFixture(t)

		event := user.UpdateUserPassword{
			UserID:          users.user.ID,
			CurrentPassword: "old password",
			NewPassword:     "new password",
		}
		require.NoError(t, svc.ChangePassword(ctx, event))
		assert.Equal(t, 1, scope.commits)

		require.Len(t, users.newHashes, 1)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(users.newHashes[0]), []byte("new password")))
	})

	t.Run("wrong current password", func(t *testing.T) {
		svc, users, scope := newUserFixture(t)

		event := user.UpdateUserPassword{
			UserID:          users.user.ID,
			CurrentPassword: "not it",
			NewPassword:     "new password",
		}
		err := svc.ChangePassword(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.IsUnauthenticated(err))
		assert.Empty(t, users.newHashes)
		assert.Equal(t, 0, scope.commits)
	})

	t.Run("empty new password", func(t *testing.T) {
		svc, users, _ := newUserFixture(t)

		err := svc.ChangePassword(ctx, user.UpdateUserPassword{
			UserID:          users.user.ID,
			CurrentPassword: "old password",
		})
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	})
}

func TestUserService_ChangeRole(t *testing.T) {
	svc, users, scope := newUserFixture(t)

	event := user.UpdateUserRole{UserID: users.user.ID, Role: user.RoleAdmin}
	require.NoError(t, svc.ChangeRole(context.Background(), event))
	assert.Equal(t, []user.Role{user.RoleAdmin}, users.roleChanges)
	assert.Equal(t, 1, scope.commits)
}

func TestUserService_Delete(t *testing.T) {
	svc, users, scope := newUserFixture(t)

	require.NoError(t, svc.Delete(context.Background(), user.DeleteUser{UserID: users.user.ID}))
	assert.Equal(t, []id.ID{users.user.ID}, users.removed)
	assert.Equal(t, 1, scope.commits)
}
