package dto

import (
	"time"

	"lendhub/internal/domain/checkout"
)

// CheckoutBookResponse is the book summary embedded in a checkout record.
type CheckoutBookResponse struct {
	BookID string `json:"bookId"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// CheckoutResponse represents a loan record in API responses.
type CheckoutResponse struct {
	ID           string               `json:"id"`
	CheckedOutBy string               `json:"checkedOutBy"`
	CheckedOutAt time.Time            `json:"checkedOutAt"`
	ReturnedAt   *time.Time           `json:"returnedAt,omitempty"`
	Book         CheckoutBookResponse `json:"book"`
}

// FromCheckout creates a response from a domain checkout.
func FromCheckout(co *checkout.Checkout) CheckoutResponse {
	return CheckoutResponse{
		ID:           co.ID.String(),
		CheckedOutBy: co.CheckedOutBy.String(),
		CheckedOutAt: co.CheckedOutAt,
		ReturnedAt:   co.ReturnedAt,
		Book: CheckoutBookResponse{
			BookID: co.Book.BookID.String(),
			Title:  co.Book.Title,
			Author: co.Book.Author,
			ISBN:   co.Book.ISBN,
		},
	}
}

// FromCheckouts maps a checkout list.
func FromCheckouts(checkouts []checkout.Checkout) []CheckoutResponse {
	out := make([]CheckoutResponse, 0, len(checkouts))
	for i := range checkouts {
		out = append(out, FromCheckout(&checkouts[i]))
	}
	return out
}
