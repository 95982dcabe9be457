package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendhub/internal/core/apperror"
)

// fakeTx implements pgx.Tx by embedding the interface and overriding the
// methods the handle exercises.
type fakeTx struct {
	pgx.Tx

	commits   int
	rollbacks int
	execs     int

	commitErr   error
	rollbackErr error
}

func (t *fakeTx) Commit(context.Context) error {
	t.commits++
	return t.commitErr
}

func (t *fakeTx) Rollback(context.Context) error {
	t.rollbacks++
	return t.rollbackErr
}

func (t *fakeTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	t.execs++
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func TestTxSource_AcquireAndRelease(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{}
	handle := NewTxHandle(tx)
	src := TxSource(handle)

	conn, err := src.Acquire(ctx)
	require.NoError(t, err)

	_, err = conn.Exec(ctx, "INSERT")
	require.NoError(t, err)
	assert.Equal(t, 1, tx.execs)

	conn.Release()
	// Second release must be a no-op.
	conn.Release()

	conn2, err := src.Acquire(ctx)
	require.NoError(t, err)
	conn2.Release()
}

func TestTxHandle_ConsumedAfterCommit(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{}
	handle := NewTxHandle(tx)

	require.False(t, handle.Consumed())
	require.NoError(t, handle.commit(ctx))
	require.True(t, handle.Consumed())
	assert.Equal(t, 1, tx.commits)

	// The transaction is gone; acquisition must fail.
	_, err := TxSource(handle).Acquire(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrScopeConsumed))
	assert.True(t, apperror.HasCode(err, apperror.CodeStorage))
}

func TestTxHandle_ConsumedAfterRollback(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{}
	handle := NewTxHandle(tx)

	require.NoError(t, handle.rollback(ctx))
	require.True(t, handle.Consumed())
	assert.Equal(t, 1, tx.rollbacks)

	// Terminal transitions happen at most once.
	err := handle.commit(ctx)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeTransaction))
	assert.Equal(t, 0, tx.commits)

	err = handle.rollback(ctx)
	require.Error(t, err)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestTxHandle_CommitErrorStillConsumes(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{commitErr: errors.New("serialization failure")}
	handle := NewTxHandle(tx)

	err := handle.commit(ctx)
	require.Error(t, err)
	assert.True(t, apperror.HasCode(err, apperror.CodeTransaction))
	assert.True(t, handle.Consumed())
}

func TestTxHandle_MutualExclusion(t *testing.T) {
	ctx := context.Background()
	tx := &fakeTx{}
	handle := NewTxHandle(tx)
	src := TxSource(handle)

	conn, err := src.Acquire(ctx)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		c, err := src.Acquire(ctx)
		assert.NoError(t, err)
		c.Release()
		close(acquired)
	}()

	// The second acquisition must wait for the first release.
	select {
	case <-acquired:
		t.Fatal("second acquire succeeded while handle was held")
	case <-time.After(50 * time.Millisecond):
	}

	conn.Release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second acquire never completed")
	}
}
