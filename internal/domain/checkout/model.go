// Package checkout provides the lending state machine for books.
package checkout

import (
	"time"

	"lendhub/internal/core/id"
)

// Checkout is a loan record. Active checkouts have a nil ReturnedAt;
// history rows carry the return timestamp and are immutable once written.
type Checkout struct {
	ID           id.ID      `db:"checkout_id" json:"id"`
	CheckedOutBy id.ID      `db:"user_id" json:"checkedOutBy"`
	CheckedOutAt time.Time  `db:"checked_out_at" json:"checkedOutAt"`
	ReturnedAt   *time.Time `db:"returned_at" json:"returnedAt,omitempty"`

	Book Book `db:"-" json:"book"`
}

// Book is the book summary embedded in a checkout record.
type Book struct {
	BookID id.ID  `db:"book_id" json:"bookId"`
	Title  string `db:"title" json:"title"`
	Author string `db:"author" json:"author"`
	ISBN   string `db:"isbn" json:"isbn"`
}

// State is the consistency projection for one book: whether the book exists
// and, if an active checkout exists, its id and holder. It is the
// authoritative read used to decide whether a transition is legal, and must
// always be read inside the transaction that performs the write.
type State struct {
	BookID     id.ID  `db:"book_id"`
	CheckoutID *id.ID `db:"checkout_id"`
	UserID     *id.ID `db:"user_id"`
}

// Active reports whether the book currently has an active checkout.
func (s *State) Active() bool {
	return s.CheckoutID != nil
}

// HeldBy reports whether the active checkout matches the given
// (checkout id, holder) pair. A book with no active checkout matches nothing.
func (s *State) HeldBy(checkoutID, userID id.ID) bool {
	if s.CheckoutID == nil || s.UserID == nil {
		return false
	}
	return *s.CheckoutID == checkoutID && *s.UserID == userID
}

// CreateCheckout is the checkout transition request.
type CreateCheckout struct {
	BookID       id.ID
	CheckedOutBy id.ID
	CheckedOutAt time.Time
}

// ReturnCheckout is the return transition request.
type ReturnCheckout struct {
	CheckoutID id.ID
	BookID     id.ID
	ReturnedBy id.ID
	ReturnedAt time.Time
}

// MergeHistory builds the full lending history of a book: the active checkout
// (if any) first, then the returned rows, which are expected to be ordered by
// checkout time descending already.
func MergeHistory(active *Checkout, returned []Checkout) []Checkout {
	if active == nil {
		return returned
	}
	merged := make([]Checkout, 0, len(returned)+1)
	merged = append(merged, *active)
	return append(merged, returned...)
}
