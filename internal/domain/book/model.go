// Package book provides the book catalog domain.
package book

import (
	"time"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
)

// Book is a registered book with its owner and, when loaded, the current
// checkout projection. The checkout field is a read-time join, not a stored
// column.
type Book struct {
	ID          id.ID  `db:"book_id" json:"id"`
	Title       string `db:"title" json:"title"`
	Author      string `db:"author" json:"author"`
	ISBN        string `db:"isbn" json:"isbn"`
	Description string `db:"description" json:"description"`

	Owner    Owner         `db:"-" json:"owner"`
	Checkout *BookCheckout `db:"-" json:"checkout,omitempty"`
}

// Owner identifies the user who registered a book.
type Owner struct {
	ID   id.ID  `db:"owner_id" json:"id"`
	Name string `db:"owner_name" json:"name"`
}

// BookCheckout is the current-checkout projection embedded in a book.
type BookCheckout struct {
	CheckoutID   id.ID     `db:"checkout_id" json:"checkoutId"`
	CheckedOutBy id.ID     `db:"checked_out_by" json:"checkedOutBy"`
	CheckedOutAt time.Time `db:"checked_out_at" json:"checkedOutAt"`
}

// CreateBook is the registration request.
type CreateBook struct {
	Title       string
	Author      string
	ISBN        string
	Description string
}

// Validate checks required fields.
func (e CreateBook) Validate() error {
	switch {
	case e.Title == "":
		return apperror.NewValidation("title is required")
	case e.Author == "":
		return apperror.NewValidation("author is required")
	case e.ISBN == "":
		return apperror.NewValidation("isbn is required")
	case e.Description == "":
		return apperror.NewValidation("description is required")
	}
	return nil
}

// UpdateBook carries new field values for an existing book.
type UpdateBook struct {
	BookID      id.ID
	Title       string
	Author      string
	ISBN        string
	Description string
}

// Validate checks required fields.
func (e UpdateBook) Validate() error {
	return CreateBook{
		Title:       e.Title,
		Author:      e.Author,
		ISBN:        e.ISBN,
		Description: e.Description,
	}.Validate()
}
