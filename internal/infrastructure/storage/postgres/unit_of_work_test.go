package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendhub/internal/core/apperror"
)

type fakeBeginner struct {
	tx       *fakeTx
	beginErr error
	opts     []pgx.TxOptions
}

func (b *fakeBeginner) BeginTx(_ context.Context, opts pgx.TxOptions) (pgx.Tx, error) {
	b.opts = append(b.opts, opts)
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	return b.tx, nil
}

func TestFactory_BeginIsolationLevels(t *testing.T) {
	ctx := context.Background()
	db := &fakeBeginner{tx: &fakeTx{}}
	factory := NewFactory(db, nil)

	scope, err := factory.Begin(ctx)
	require.NoError(t, err)
	scope.Close(ctx)

	scope, err = factory.BeginSerializable(ctx)
	require.NoError(t, err)
	scope.Close(ctx)

	require.Len(t, db.opts, 2)
	assert.Equal(t, pgx.TxIsoLevel(""), db.opts[0].IsoLevel)
	assert.Equal(t, pgx.Serializable, db.opts[1].IsoLevel)
}

func TestFactory_BeginError(t *testing.T) {
	ctx := context.Background()
	db := &fakeBeginner{beginErr: errors.New("pool exhausted")}
	factory := NewFactory(db, nil)

	_, err := factory.Begin(ctx)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeStorage))
}

func TestScope_CommitConsumes(t *testing.T) {
	ctx := context.Background()
	db := &fakeBeginner{tx: &fakeTx{}}
	factory := NewFactory(db, nil)

	scope, err := factory.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, scope.Commit(ctx))
	assert.Equal(t, 1, db.tx.commits)

	// Close after commit must not roll back.
	scope.Close(ctx)
	assert.Equal(t, 0, db.tx.rollbacks)

	// Repositories from a consumed scope fail on access.
	_, err = scope.Checkouts().FindUnreturnedAll(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScopeConsumed))
}

func TestScope_CloseRollsBackUnconsumed(t *testing.T) {
	ctx := context.Background()
	db := &fakeBeginner{tx: &fakeTx{}}
	factory := NewFactory(db, nil)

	scope, err := factory.Begin(ctx)
	require.NoError(t, err)

	scope.Close(ctx)
	assert.Equal(t, 1, db.tx.rollbacks)
	assert.Equal(t, 0, db.tx.commits)

	// A second close is a no-op.
	scope.Close(ctx)
	assert.Equal(t, 1, db.tx.rollbacks)
}

func TestScope_RollbackThenCommitFails(t *testing.T) {
	ctx := context.Background()
	db := &fakeBeginner{tx: &fakeTx{}}
	factory := NewFactory(db, nil)

	scope, err := factory.Begin(ctx)
	require.NoError(t, err)

	require.NoError(t, scope.Rollback(ctx))

	err = scope.Commit(ctx)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeTransaction))
	assert.Equal(t, 0, db.tx.commits)
}

func TestScope_RepositoriesShareHandle(t *testing.T) {
	ctx := context.Background()
	db := &fakeBeginner{tx: &fakeTx{}}
	factory := NewFactory(db, nil)

	scope, err := factory.Begin(ctx)
	require.NoError(t, err)
	defer scope.Close(ctx)

	// Writes through different repositories land on the same transaction.
	repoA := scope.Checkouts().(*CheckoutRepo)
	repoB := scope.Books().(*BookRepo)

	connA, err := repoA.src.Acquire(ctx)
	require.NoError(t, err)
	_, err = connA.Exec(ctx, "INSERT")
	require.NoError(t, err)
	connA.Release()

	connB, err := repoB.src.Acquire(ctx)
	require.NoError(t, err)
	_, err = connB.Exec(ctx, "INSERT")
	require.NoError(t, err)
	connB.Release()

	assert.Equal(t, 2, db.tx.execs)
}
