// Package uow defines the unit-of-work contracts: one atomic transactional
// scope and the repositories bound to it.
//
// A Scope is single-use. Commit or Rollback consume it; repositories obtained
// from a consumed scope fail on their next storage access. Dropping a scope
// without committing (deferred Close) rolls the transaction back, so a failed
// or cancelled request can never leave partial state.
package uow

import (
	"context"

	"lendhub/internal/domain/auth"
	"lendhub/internal/domain/book"
	"lendhub/internal/domain/checkout"
	"lendhub/internal/domain/user"
)

// Scope is one open transaction plus the repositories bound to it. Every
// repository obtained from the same scope shares the same underlying
// transaction, serialized by a mutual-exclusion guard.
type Scope interface {
	// Commit makes all writes of the scope durable and consumes it.
	Commit(ctx context.Context) error

	// Rollback discards all writes of the scope and consumes it.
	Rollback(ctx context.Context) error

	// Close rolls the scope back unless it was already consumed.
	// Safe to defer immediately after a successful Begin.
	Close(ctx context.Context)

	Checkouts() checkout.Repository
	Books() book.Repository
	Users() user.Repository
	Auth() auth.Repository
}

// Factory opens transactional scopes.
type Factory interface {
	// Begin opens a scope at the storage engine's default isolation.
	Begin(ctx context.Context) (Scope, error)

	// BeginSerializable opens a scope at serializable isolation. Used by
	// operations that must prevent check-then-act races (checkout, return).
	BeginSerializable(ctx context.Context) (Scope, error)
}
