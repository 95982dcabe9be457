package postgres

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"lendhub/internal/core/apperror"
)

// ErrScopeConsumed is reported when a transaction handle is used after its
// scope was committed or rolled back.
var ErrScopeConsumed = errors.New("unit-of-work scope already consumed")

// Querier is the subset of pgx operations repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxHandle guards one open transaction with a mutex. Concurrent callers
// holding the same scope serialize on it rather than corrupt shared
// transaction state. Commit and rollback consume the handle.
type TxHandle struct {
	mu   sync.Mutex
	tx   pgx.Tx
	done bool
}

// NewTxHandle wraps an open transaction.
func NewTxHandle(tx pgx.Tx) *TxHandle {
	return &TxHandle{tx: tx}
}

// acquire locks the handle and returns the shared transaction together with
// the unlock function.
func (h *TxHandle) acquire() (Querier, func(), error) {
	h.mu.Lock()
	if h.done {
		h.mu.Unlock()
		return nil, nil, apperror.NewStorage(ErrScopeConsumed)
	}
	return h.tx, h.mu.Unlock, nil
}

// Consumed reports whether the handle reached its terminal state.
func (h *TxHandle) Consumed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.done
}

func (h *TxHandle) commit(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return apperror.NewTransaction(ErrScopeConsumed)
	}
	h.done = true
	if err := h.tx.Commit(ctx); err != nil {
		return apperror.NewTransaction(err)
	}
	return nil
}

func (h *TxHandle) rollback(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.done {
		return apperror.NewTransaction(ErrScopeConsumed)
	}
	h.done = true
	if err := h.tx.Rollback(ctx); err != nil {
		return apperror.NewTransaction(err)
	}
	return nil
}

// Source yields a live connection handle regardless of origin: an independent
// connection from the pool, or the single transaction shared by a
// unit-of-work scope. Repository call sites are identical for both variants.
type Source struct {
	pool *pgxpool.Pool
	tx   *TxHandle
}

// PoolSource backs a Source with the connection pool. Operations acquired
// from it are not part of any larger atomic scope.
func PoolSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

// TxSource backs a Source with a shared open transaction.
func TxSource(tx *TxHandle) *Source {
	return &Source{tx: tx}
}

// Acquire returns a connection handle. The caller must Release it.
func (s *Source) Acquire(ctx context.Context) (*Conn, error) {
	if s.tx != nil {
		q, release, err := s.tx.acquire()
		if err != nil {
			return nil, err
		}
		return &Conn{q: q, release: release}, nil
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, apperror.NewStorage(err)
	}
	return &Conn{q: conn, release: conn.Release}, nil
}

// Conn is a live connection handle. Release returns a pooled connection to
// the pool, or unlocks the shared transaction.
type Conn struct {
	q       Querier
	release func()
}

// Exec runs a statement.
func (c *Conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.q.Exec(ctx, sql, args...)
}

// Query runs a query returning rows.
func (c *Conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.q.Query(ctx, sql, args...)
}

// QueryRow runs a query returning at most one row.
func (c *Conn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.q.QueryRow(ctx, sql, args...)
}

// Release frees the handle. Safe to call more than once.
func (c *Conn) Release() {
	if c.release != nil {
		c.release()
		c.release = nil
	}
}
