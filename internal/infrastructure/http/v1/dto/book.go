package dto

import (
	"time"

	"lendhub/internal/core/id"
	"lendhub/internal/domain/book"
)

// --- Request DTOs ---

// CreateBookRequest for book registration.
type CreateBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	ISBN        string `json:"isbn" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// ToCreateBook converts to domain request.
func (r *CreateBookRequest) ToCreateBook() book.CreateBook {
	return book.CreateBook{
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
	}
}

// UpdateBookRequest for book updates.
type UpdateBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Author      string `json:"author" binding:"required"`
	ISBN        string `json:"isbn" binding:"required"`
	Description string `json:"description" binding:"required"`
}

// ToUpdateBook converts to domain request.
func (r *UpdateBookRequest) ToUpdateBook(bookID id.ID) book.UpdateBook {
	return book.UpdateBook{
		BookID:      bookID,
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
	}
}

// ListBooksQuery for catalog pagination.
type ListBooksQuery struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// --- Response DTOs ---

// BookOwnerResponse identifies the owner of a book.
type BookOwnerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// BookCheckoutResponse is the current-checkout projection of a book.
type BookCheckoutResponse struct {
	CheckoutID   string    `json:"checkoutId"`
	CheckedOutBy string    `json:"checkedOutBy"`
	CheckedOutAt time.Time `json:"checkedOutAt"`
}

// BookResponse represents a book in API responses.
type BookResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Author      string                `json:"author"`
	ISBN        string                `json:"isbn"`
	Description string                `json:"description"`
	Owner       BookOwnerResponse     `json:"owner"`
	Checkout    *BookCheckoutResponse `json:"checkout,omitempty"`
}

// FromBook creates a response from a domain book.
func FromBook(b *book.Book) BookResponse {
	resp := BookResponse{
		ID:          b.ID.String(),
		Title:       b.Title,
		Author:      b.Author,
		ISBN:        b.ISBN,
		Description: b.Description,
		Owner: BookOwnerResponse{
			ID:   b.Owner.ID.String(),
			Name: b.Owner.Name,
		},
	}
	if b.Checkout != nil {
		resp.Checkout = &BookCheckoutResponse{
			CheckoutID:   b.Checkout.CheckoutID.String(),
			CheckedOutBy: b.Checkout.CheckedOutBy.String(),
			CheckedOutAt: b.Checkout.CheckedOutAt,
		}
	}
	return resp
}

// FromBooks maps a book list.
func FromBooks(books []book.Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for i := range books {
		out = append(out, FromBook(&books[i]))
	}
	return out
}
