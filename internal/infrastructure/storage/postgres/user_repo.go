package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/user"
)

// Compile-time check.
var _ user.Repository = (*UserRepo)(nil)

// UserRepo implements user.Repository over a Source. Password hashes stay
// inside this type: they are only reachable through the dedicated lookups.
type UserRepo struct {
	src *Source
}

// NewUserRepo creates a user repository.
func NewUserRepo(src *Source) *UserRepo {
	return &UserRepo{src: src}
}

const userSelect = `
	SELECT u.user_id, u.name, u.email, r.name AS role
	FROM users AS u
		INNER JOIN roles AS r USING (role_id)
`

// Create inserts a new user with the given password hash.
func (r *UserRepo) Create(ctx context.Context, u *user.User, passwordHash string) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `
		INSERT INTO users (user_id, name, email, password_hash, role_id)
		SELECT $1, $2, $3, $4, role_id FROM roles WHERE name = $5
	`

	tag, err := conn.Exec(ctx, query, u.ID, u.Name, u.Email, passwordHash, string(u.Role))
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("insert user: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewIntegrity("no user row was created")
	}

	return nil
}

// Delete removes a user.
func (r *UserRepo) Delete(ctx context.Context, userID id.ID) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("delete user: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}

// FindAll lists all users.
func (r *UserRepo) FindAll(ctx context.Context) ([]user.User, error) {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var users []user.User
	if err := pgxscan.Select(ctx, conn, &users, userSelect+` ORDER BY u.user_id`); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("query users: %w", err))
	}

	return users, nil
}

// FindByID fetches one user.
func (r *UserRepo) FindByID(ctx context.Context, userID id.ID) (*user.User, error) {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var u user.User
	err = pgxscan.Get(ctx, conn, &u, userSelect+` WHERE u.user_id = $1`, userID)
	if pgxscan.NotFound(err) {
		return nil, apperror.NewNotFound("user", userID.String())
	}
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("query user: %w", err))
	}

	return &u, nil
}

// FindPasswordHashByEmail returns the user id and password hash for an email.
func (r *UserRepo) FindPasswordHashByEmail(ctx context.Context, email string) (id.ID, string, error) {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return id.Nil(), "", err
	}
	defer conn.Release()

	var (
		userID id.ID
		hash   string
	)
	err = conn.QueryRow(ctx,
		`SELECT user_id, password_hash FROM users WHERE email = $1`, email,
	).Scan(&userID, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), "", apperror.NewNotFound("user", email)
	}
	if err != nil {
		return id.Nil(), "", apperror.NewStorage(fmt.Errorf("query password hash: %w", err))
	}

	return userID, hash, nil
}

// FindPasswordHashByID returns the password hash for a user.
func (r *UserRepo) FindPasswordHashByID(ctx context.Context, userID id.ID) (string, error) {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer conn.Release()

	var hash string
	err = conn.QueryRow(ctx,
		`SELECT password_hash FROM users WHERE user_id = $1`, userID,
	).Scan(&hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", apperror.NewNotFound("user", userID.String())
	}
	if err != nil {
		return "", apperror.NewStorage(fmt.Errorf("query password hash: %w", err))
	}

	return hash, nil
}

// UpdatePassword replaces a user's password hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID id.ID, passwordHash string) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE user_id = $1`, userID, passwordHash,
	)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("update password: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}

// UpdateRole replaces a user's role.
func (r *UserRepo) UpdateRole(ctx context.Context, userID id.ID, role user.Role) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `
		UPDATE users
		SET role_id = (SELECT role_id FROM roles WHERE name = $2)
		WHERE user_id = $1
	`

	tag, err := conn.Exec(ctx, query, userID, string(role))
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("update role: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewNotFound("user", userID.String())
	}

	return nil
}
