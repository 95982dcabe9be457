package book

import (
	"context"

	"lendhub/internal/core/id"
)

// Repository defines book storage operations.
type Repository interface {
	// Create registers a book owned by the given user.
	Create(ctx context.Context, event CreateBook, ownerID id.ID) (id.ID, error)

	// FindAll lists books newest first, with their current-checkout
	// projections attached.
	FindAll(ctx context.Context, limit, offset int) ([]Book, error)

	// FindByID fetches one book with its current-checkout projection.
	FindByID(ctx context.Context, bookID id.ID) (*Book, error)

	// Update replaces the descriptive fields of a book.
	Update(ctx context.Context, event UpdateBook) error

	// Delete removes a book.
	Delete(ctx context.Context, bookID id.ID) error
}
