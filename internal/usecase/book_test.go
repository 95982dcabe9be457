package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/appctx"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/book"
)

// fakeBookRepo serves one fixed book and records writes.
type fakeBookRepo struct {
	book *book.Book

	created []book.CreateBook
	updated []book.UpdateBook
	deleted []id.ID
}

func (r *fakeBookRepo) Create(_ context.Context, event book.CreateBook, _ id.ID) (id.ID, error) {
	r.created = append(r.created, event)
	return id.New(), nil
}

func (r *fakeBookRepo) FindAll(context.Context, int, int) ([]book.Book, error) {
	if r.book == nil {
		return nil, nil
	}
	return []book.Book{*r.book}, nil
}

func (r *fakeBookRepo) FindByID(_ context.Context, bookID id.ID) (*book.Book, error) {
	if r.book == nil || r.book.ID != bookID {
		return nil, apperror.NewNotFound("book", bookID.String())
	}
	b := *r.book
	return &b, nil
}

func (r *fakeBookRepo) Update(_ context.Context, event book.UpdateBook) error {
	r.updated = append(r.updated, event)
	return nil
}

func (r *fakeBookRepo) Delete(_ context.Context, bookID id.ID) error {
	r.deleted = append(r.deleted, bookID)
	return nil
}

func userCtx(userID id.ID, admin bool) context.Context {
	return appctx.WithUser(context.Background(), &appctx.UserContext{
		UserID:  userID,
		IsAdmin: admin,
	})
}

func validCreateBook() book.CreateBook {
	return book.CreateBook{
		Title:       "The Go Programming Language",
		Author:      "Donovan & Kernighan",
		ISBN:        "978-0134190440",
		Description: "Reference",
	}
}

func TestBookService_Register(t *testing.T) {
	t.Run("owner is the current user", func(t *testing.T) {
		repo := &fakeBookRepo{}
		scope := &fakeScope{books: repo}
		svc := NewBookService(&fakeFactory{scope: scope})

		bookID, err := svc.Register(userCtx(id.New(), false), validCreateBook())
		require.NoError(t, err)
		assert.False(t, id.IsNil(bookID))
		assert.Len(t, repo.created, 1)
		assert.Equal(t, 1, scope.commits)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := NewBookService(&fakeFactory{scope: &fakeScope{books: &fakeBookRepo{}}})

		_, err := svc.Register(context.Background(), validCreateBook())
		require.Error(t, err)
		assert.True(t, apperror.IsUnauthenticated(err))
	})

	t.Run("missing field", func(t *testing.T) {
		svc := NewBookService(&fakeFactory{scope: &fakeScope{books: &fakeBookRepo{}}})

		event := validCreateBook()
		event.Title = ""
		_, err := svc.Register(userCtx(id.New(), false), event)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeValidation))
	})
}

func TestBookService_OwnerAuthorization(t *testing.T) {
	ownerID := id.New()
	existing := &book.Book{
		ID:          id.New(),
		Title:       "Owned",
		Author:      "A",
		ISBN:        "1",
		Description: "D",
		Owner:       book.Owner{ID: ownerID, Name: "Owner"},
	}

	update := book.UpdateBook{
		BookID:      existing.ID,
		Title:       "Renamed",
		Author:      "A",
		ISBN:        "1",
		Description: "D",
	}

	t.Run("owner may update", func(t *testing.T) {
		repo := &fakeBookRepo{book: existing}
		scope := &fakeScope{books: repo}
		svc := NewBookService(&fakeFactory{scope: scope})

		require.NoError(t, svc.Update(userCtx(ownerID, false), update))
		assert.Len(t, repo.updated, 1)
		assert.Equal(t, 1, scope.commits)
	})

	t.Run("admin may update someone else's book", func(t *testing.T) {
		repo := &fakeBookRepo{book: existing}
		scope := &fakeScope{books: repo}
		svc := NewBookService(&fakeFactory{scope: scope})

		require.NoError(t, svc.Update(userCtx(id.New(), true), update))
		assert.Len(t, repo.updated, 1)
	})

	t.Run("stranger is rejected", func(t *testing.T) {
		repo := &fakeBookRepo{book: existing}
		scope := &fakeScope{books: repo}
		svc := NewBookService(&fakeFactory{scope: scope})

		err := svc.Update(userCtx(id.New(), false), update)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))
		assert.Empty(t, repo.updated)
		assert.Equal(t, 0, scope.commits)
	})

	t.Run("delete follows the same rule", func(t *testing.T) {
		repo := &fakeBookRepo{book: existing}
		scope := &fakeScope{books: repo}
		svc := NewBookService(&fakeFactory{scope: scope})

		err := svc.Delete(userCtx(id.New(), false), existing.ID)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeForbidden))
		assert.Empty(t, repo.deleted)

		scope.consumed = false
		require.NoError(t, svc.Delete(userCtx(ownerID, false), existing.ID))
		assert.Len(t, repo.deleted, 1)
	})

	t.Run("unknown book", func(t *testing.T) {
		repo := &fakeBookRepo{}
		svc := NewBookService(&fakeFactory{scope: &fakeScope{books: repo}})

		err := svc.Update(userCtx(ownerID, false), update)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
	})
}
