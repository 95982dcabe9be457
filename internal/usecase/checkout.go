// Package usecase wires the domain operations to unit-of-work scopes. Each
// service owns the transaction boundaries of its operations: it decides the
// isolation level, what is read and written inside one scope, and when the
// scope commits.
package usecase

import (
	"context"
	"fmt"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/checkout"
	"lendhub/internal/domain/uow"
	"lendhub/pkg/logger"
)

// CheckoutService enforces the single-holder invariant on books.
//
// Both transitions re-read the consistency projection inside a serializable
// transaction before writing. Under weaker isolation two concurrent checkout
// attempts could each observe "no active checkout" and both insert;
// serializable isolation aborts one of them at commit time instead. Aborts
// surface as storage errors and are not retried here.
type CheckoutService struct {
	scopes uow.Factory
}

// NewCheckoutService creates a checkout service.
func NewCheckoutService(scopes uow.Factory) *CheckoutService {
	return &CheckoutService{scopes: scopes}
}

// Checkout performs the checkout transition for a book.
func (s *CheckoutService) Checkout(ctx context.Context, event checkout.CreateCheckout) error {
	scope, err := s.scopes.BeginSerializable(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	repo := scope.Checkouts()

	state, err := repo.FindCheckoutState(ctx, event.BookID)
	if err != nil {
		return err
	}
	switch {
	case state == nil:
		return apperror.NewNotFound("book", event.BookID.String())
	case state.Active():
		return apperror.NewConflict(
			fmt.Sprintf("book %s is already checked out", event.BookID),
		).WithDetail("book_id", event.BookID.String())
	}

	if err := repo.InsertCheckout(ctx, event); err != nil {
		return err
	}

	if err := scope.Commit(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "book checked out",
		"book_id", event.BookID.String(),
		"user_id", event.CheckedOutBy.String(),
	)
	return nil
}

// Return performs the return transition: the active checkout moves into
// history and the active row is removed, atomically.
func (s *CheckoutService) Return(ctx context.Context, event checkout.ReturnCheckout) error {
	scope, err := s.scopes.BeginSerializable(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	repo := scope.Checkouts()

	state, err := repo.FindCheckoutState(ctx, event.BookID)
	if err != nil {
		return err
	}
	switch {
	case state == nil:
		return apperror.NewNotFound("book", event.BookID.String())
	case state.Active() && !state.HeldBy(event.CheckoutID, event.ReturnedBy):
		// Covers both a wrong checkout id and a wrong user.
		return apperror.NewConflict(
			fmt.Sprintf("checkout %s of book %s cannot be returned by user %s",
				event.CheckoutID, event.BookID, event.ReturnedBy),
		).WithDetail("book_id", event.BookID.String())
	}

	if err := repo.InsertReturnedCheckout(ctx, event); err != nil {
		return err
	}
	if err := repo.DeleteCheckout(ctx, event.CheckoutID); err != nil {
		return err
	}

	if err := scope.Commit(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "book returned",
		"book_id", event.BookID.String(),
		"checkout_id", event.CheckoutID.String(),
		"user_id", event.ReturnedBy.String(),
	)
	return nil
}

// ListActive lists all active checkouts.
func (s *CheckoutService) ListActive(ctx context.Context) ([]checkout.Checkout, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	return scope.Checkouts().FindUnreturnedAll(ctx)
}

// ListActiveByUser lists a user's active checkouts.
func (s *CheckoutService) ListActiveByUser(ctx context.Context, userID id.ID) ([]checkout.Checkout, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	return scope.Checkouts().FindUnreturnedByUser(ctx, userID)
}

// History lists the full lending history of a book, active checkout first.
func (s *CheckoutService) History(ctx context.Context, bookID id.ID) ([]checkout.Checkout, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	return scope.Checkouts().FindHistoryByBook(ctx, bookID)
}
