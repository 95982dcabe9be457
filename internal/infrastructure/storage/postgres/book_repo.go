package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/book"
)

// Compile-time check.
var _ book.Repository = (*BookRepo)(nil)

// BookRepo implements book.Repository over a Source.
type BookRepo struct {
	src *Source
}

// NewBookRepo creates a book repository.
func NewBookRepo(src *Source) *BookRepo {
	return &BookRepo{src: src}
}

// bookRow is the scan target for book queries joined with owner and the
// current-checkout projection.
type bookRow struct {
	BookID       id.ID      `db:"book_id"`
	Title        string     `db:"title"`
	Author       string     `db:"author"`
	ISBN         string     `db:"isbn"`
	Description  string     `db:"description"`
	OwnerID      id.ID      `db:"owner_id"`
	OwnerName    string     `db:"owner_name"`
	CheckoutID   *id.ID     `db:"checkout_id"`
	CheckedOutBy *id.ID     `db:"checked_out_by"`
	CheckedOutAt *time.Time `db:"checked_out_at"`
}

func (r bookRow) toDomain() book.Book {
	b := book.Book{
		ID:          r.BookID,
		Title:       r.Title,
		Author:      r.Author,
		ISBN:        r.ISBN,
		Description: r.Description,
		Owner: book.Owner{
			ID:   r.OwnerID,
			Name: r.OwnerName,
		},
	}
	// The checkout projection is a read-time join; present only while the
	// book is checked out.
	if r.CheckoutID != nil && r.CheckedOutBy != nil && r.CheckedOutAt != nil {
		b.Checkout = &book.BookCheckout{
			CheckoutID:   *r.CheckoutID,
			CheckedOutBy: *r.CheckedOutBy,
			CheckedOutAt: *r.CheckedOutAt,
		}
	}
	return b
}

// bookSelect builds the base SELECT with owner and checkout joins.
func bookSelect() squirrel.SelectBuilder {
	return builder().
		Select(
			"b.book_id", "b.title", "b.author", "b.isbn", "b.description",
			"u.user_id AS owner_id", "u.name AS owner_name",
			"c.checkout_id", "c.user_id AS checked_out_by", "c.checked_out_at",
		).
		From("books AS b").
		Join("users AS u ON u.user_id = b.owner_user_id").
		LeftJoin("checkouts AS c ON c.book_id = b.book_id")
}

// Create registers a book owned by the given user.
func (r *BookRepo) Create(ctx context.Context, event book.CreateBook, ownerID id.ID) (id.ID, error) {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return id.Nil(), err
	}
	defer conn.Release()

	bookID := id.New()
	query := `
		INSERT INTO books (book_id, title, author, isbn, description, owner_user_id)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = conn.Exec(ctx, query,
		bookID, event.Title, event.Author, event.ISBN, event.Description, ownerID,
	)
	if err != nil {
		return id.Nil(), apperror.NewStorage(fmt.Errorf("insert book: %w", err))
	}

	return bookID, nil
}

// FindAll lists books newest first.
func (r *BookRepo) FindAll(ctx context.Context, limit, offset int) ([]book.Book, error) {
	q := bookSelect().OrderBy("b.book_id DESC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}
	if offset > 0 {
		q = q.Offset(uint64(offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build select: %w", err))
	}

	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var rows []bookRow
	if err := pgxscan.Select(ctx, conn, &rows, sql, args...); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("query books: %w", err))
	}

	books := make([]book.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.toDomain())
	}
	return books, nil
}

// FindByID fetches one book with its current-checkout projection.
func (r *BookRepo) FindByID(ctx context.Context, bookID id.ID) (*book.Book, error) {
	q := bookSelect().Where(squirrel.Eq{"b.book_id": bookID})
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build select: %w", err))
	}

	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var row bookRow
	err = pgxscan.Get(ctx, conn, &row, sql, args...)
	if pgxscan.NotFound(err) {
		return nil, apperror.NewNotFound("book", bookID.String())
	}
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("query book: %w", err))
	}

	b := row.toDomain()
	return &b, nil
}

// Update replaces the descriptive fields of a book.
func (r *BookRepo) Update(ctx context.Context, event book.UpdateBook) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `
		UPDATE books
		SET title = $2, author = $3, isbn = $4, description = $5
		WHERE book_id = $1
	`

	tag, err := conn.Exec(ctx, query,
		event.BookID, event.Title, event.Author, event.ISBN, event.Description,
	)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("update book: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewNotFound("book", event.BookID.String())
	}

	return nil
}

// Delete removes a book.
func (r *BookRepo) Delete(ctx context.Context, bookID id.ID) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM books WHERE book_id = $1`, bookID)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("delete book: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewNotFound("book", bookID.String())
	}

	return nil
}
