package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"lendhub/internal/core/apperror"
	"lendhub/internal/domain/auth"
	"lendhub/internal/domain/book"
	"lendhub/internal/domain/checkout"
	"lendhub/internal/domain/uow"
	"lendhub/internal/domain/user"
	"lendhub/pkg/logger"
)

var tracer = otel.Tracer("lendhub/uow")

// TxBeginner opens transactions. *pgxpool.Pool satisfies it.
type TxBeginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Compile-time check that Factory implements the domain contract.
var _ uow.Factory = (*Factory)(nil)

// Factory opens unit-of-work scopes over one connection pool. The token
// store rides along so the auth repository can be obtained from a scope like
// any other.
type Factory struct {
	db     TxBeginner
	tokens auth.Repository
}

// NewFactory creates a scope factory.
func NewFactory(db TxBeginner, tokens auth.Repository) *Factory {
	return &Factory{db: db, tokens: tokens}
}

// Begin opens a scope at the engine's default isolation.
func (f *Factory) Begin(ctx context.Context) (uow.Scope, error) {
	return f.begin(ctx, pgx.TxOptions{})
}

// BeginSerializable opens a scope at serializable isolation.
func (f *Factory) BeginSerializable(ctx context.Context) (uow.Scope, error) {
	return f.begin(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
}

func (f *Factory) begin(ctx context.Context, opts pgx.TxOptions) (uow.Scope, error) {
	_, span := tracer.Start(ctx, "unit_of_work",
		trace.WithAttributes(
			attribute.String("tx.isolation", string(opts.IsoLevel)),
		))

	tx, err := f.db.BeginTx(ctx, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "begin failed")
		span.End()
		return nil, apperror.NewStorage(err)
	}

	return &Scope{
		handle: NewTxHandle(tx),
		tokens: f.tokens,
		span:   span,
	}, nil
}

// Compile-time check that Scope implements the domain contract.
var _ uow.Scope = (*Scope)(nil)

// Scope is one open transaction. Every repository obtained from it shares
// the same mutex-guarded transaction handle. Commit and Rollback consume the
// scope; repositories obtained from a consumed scope fail on their next
// storage access.
type Scope struct {
	handle *TxHandle
	tokens auth.Repository
	span   trace.Span
}

// Commit makes the scope's writes durable and consumes it.
func (s *Scope) Commit(ctx context.Context) error {
	err := s.handle.commit(ctx)
	s.endSpan("commit", err)
	return err
}

// Rollback discards the scope's writes and consumes it.
func (s *Scope) Rollback(ctx context.Context) error {
	err := s.handle.rollback(ctx)
	s.endSpan("rollback", err)
	return err
}

// Close rolls the scope back unless it was already consumed. The rollback
// uses a background context so it completes even when the request context
// was cancelled.
func (s *Scope) Close(ctx context.Context) {
	if s.handle.Consumed() {
		return
	}
	if err := s.handle.rollback(context.Background()); err != nil {
		logger.Error(ctx, "rollback failed", "error", err)
	}
	s.endSpan("rollback", nil)
}

func (s *Scope) endSpan(outcome string, err error) {
	if s.span == nil {
		return
	}
	s.span.SetAttributes(attribute.String("tx.outcome", outcome))
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, outcome+" failed")
	}
	s.span.End()
	s.span = nil
}

// Checkouts returns the checkout repository bound to this scope.
func (s *Scope) Checkouts() checkout.Repository {
	return NewCheckoutRepo(TxSource(s.handle))
}

// Books returns the book repository bound to this scope.
func (s *Scope) Books() book.Repository {
	return NewBookRepo(TxSource(s.handle))
}

// Users returns the user repository bound to this scope.
func (s *Scope) Users() user.Repository {
	return NewUserRepo(TxSource(s.handle))
}

// Auth returns the token store. It is not transactional: token writes take
// effect immediately and survive a rollback of the surrounding scope.
func (s *Scope) Auth() auth.Repository {
	return s.tokens
}
