package checkout

import (
	"context"

	"lendhub/internal/core/id"
)

// Repository defines checkout storage operations.
//
// The write operations (InsertCheckout, InsertReturnedCheckout,
// DeleteCheckout) report an integrity violation when they affect zero rows:
// that indicates a race the transaction isolation level should have
// prevented, and is never silently ignored.
type Repository interface {
	// InsertCheckout creates an active checkout row with a freshly
	// generated id.
	InsertCheckout(ctx context.Context, event CreateCheckout) error

	// InsertReturnedCheckout copies the active checkout row into history,
	// adding the returned timestamp.
	InsertReturnedCheckout(ctx context.Context, event ReturnCheckout) error

	// DeleteCheckout removes an active checkout row.
	DeleteCheckout(ctx context.Context, checkoutID id.ID) error

	// FindCheckoutState reads the consistency projection for a book.
	// Returns nil when the book does not exist.
	FindCheckoutState(ctx context.Context, bookID id.ID) (*State, error)

	// FindUnreturnedAll lists all active checkouts, oldest first.
	FindUnreturnedAll(ctx context.Context) ([]Checkout, error)

	// FindUnreturnedByUser lists a user's active checkouts, oldest first.
	FindUnreturnedByUser(ctx context.Context, userID id.ID) ([]Checkout, error)

	// FindHistoryByBook lists the full lending history of a book: the
	// active checkout first if present, then returned rows by checkout
	// time descending.
	FindHistoryByBook(ctx context.Context, bookID id.ID) ([]Checkout, error)
}
