package usecase

import (
	"context"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/appctx"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/book"
	"lendhub/internal/domain/uow"
	"lendhub/pkg/logger"
)

// BookService manages the book catalog. Updates and deletions are restricted
// to the owner or an admin.
type BookService struct {
	scopes uow.Factory
}

// NewBookService creates a book service.
func NewBookService(scopes uow.Factory) *BookService {
	return &BookService{scopes: scopes}
}

// Register adds a book owned by the current user.
func (s *BookService) Register(ctx context.Context, event book.CreateBook) (id.ID, error) {
	if err := event.Validate(); err != nil {
		return id.Nil(), err
	}

	ownerID := appctx.GetUserID(ctx)
	if id.IsNil(ownerID) {
		return id.Nil(), apperror.NewUnauthenticated("no authenticated user")
	}

	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return id.Nil(), err
	}
	defer scope.Close(ctx)

	bookID, err := scope.Books().Create(ctx, event, ownerID)
	if err != nil {
		return id.Nil(), err
	}
	if err := scope.Commit(ctx); err != nil {
		return id.Nil(), err
	}

	logger.Info(ctx, "book registered", "book_id", bookID.String(), "owner_id", ownerID.String())
	return bookID, nil
}

// List returns books newest first.
func (s *BookService) List(ctx context.Context, limit, offset int) ([]book.Book, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	return scope.Books().FindAll(ctx, limit, offset)
}

// Get fetches one book with its current-checkout projection.
func (s *BookService) Get(ctx context.Context, bookID id.ID) (*book.Book, error) {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer scope.Close(ctx)

	return scope.Books().FindByID(ctx, bookID)
}

// Update replaces the descriptive fields of a book. Owner or admin only.
func (s *BookService) Update(ctx context.Context, event book.UpdateBook) error {
	if err := event.Validate(); err != nil {
		return err
	}

	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	if err := s.authorizeOwner(ctx, scope, event.BookID); err != nil {
		return err
	}
	if err := scope.Books().Update(ctx, event); err != nil {
		return err
	}
	return scope.Commit(ctx)
}

// Delete removes a book. Owner or admin only.
func (s *BookService) Delete(ctx context.Context, bookID id.ID) error {
	scope, err := s.scopes.Begin(ctx)
	if err != nil {
		return err
	}
	defer scope.Close(ctx)

	if err := s.authorizeOwner(ctx, scope, bookID); err != nil {
		return err
	}
	if err := scope.Books().Delete(ctx, bookID); err != nil {
		return err
	}
	return scope.Commit(ctx)
}

// authorizeOwner checks that the current user owns the book or is an admin.
// The read shares the caller's scope so the decision and the write happen in
// one transaction.
func (s *BookService) authorizeOwner(ctx context.Context, scope uow.Scope, bookID id.ID) error {
	b, err := scope.Books().FindByID(ctx, bookID)
	if err != nil {
		return err
	}
	if appctx.IsAdmin(ctx) {
		return nil
	}
	if b.Owner.ID != appctx.GetUserID(ctx) {
		return apperror.NewForbidden("only the owner or an admin can modify this book")
	}
	return nil
}
