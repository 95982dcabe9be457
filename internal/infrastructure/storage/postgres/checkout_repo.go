package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/checkout"
)

// Compile-time check.
var _ checkout.Repository = (*CheckoutRepo)(nil)

// CheckoutRepo implements checkout.Repository over a Source. Bound to a
// scope's transaction when obtained from one, pool-backed otherwise.
type CheckoutRepo struct {
	src *Source
}

// NewCheckoutRepo creates a checkout repository.
func NewCheckoutRepo(src *Source) *CheckoutRepo {
	return &CheckoutRepo{src: src}
}

// checkoutRow is the scan target for checkout queries joined with books.
type checkoutRow struct {
	CheckoutID   id.ID      `db:"checkout_id"`
	BookID       id.ID      `db:"book_id"`
	UserID       id.ID      `db:"user_id"`
	CheckedOutAt time.Time  `db:"checked_out_at"`
	ReturnedAt   *time.Time `db:"returned_at"`
	Title        string     `db:"title"`
	Author       string     `db:"author"`
	ISBN         string     `db:"isbn"`
}

func (r checkoutRow) toDomain() checkout.Checkout {
	return checkout.Checkout{
		ID:           r.CheckoutID,
		CheckedOutBy: r.UserID,
		CheckedOutAt: r.CheckedOutAt,
		ReturnedAt:   r.ReturnedAt,
		Book: checkout.Book{
			BookID: r.BookID,
			Title:  r.Title,
			Author: r.Author,
			ISBN:   r.ISBN,
		},
	}
}

func toDomainList(rows []checkoutRow) []checkout.Checkout {
	out := make([]checkout.Checkout, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out
}

func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// activeSelect builds the base SELECT for active checkouts joined with books.
func activeSelect() squirrel.SelectBuilder {
	return builder().
		Select(
			"c.checkout_id", "c.book_id", "c.user_id", "c.checked_out_at",
			"b.title", "b.author", "b.isbn",
		).
		From("checkouts AS c").
		Join("books AS b USING (book_id)")
}

// InsertCheckout creates an active checkout row with a freshly generated id.
func (r *CheckoutRepo) InsertCheckout(ctx context.Context, event checkout.CreateCheckout) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `
		INSERT INTO checkouts (checkout_id, book_id, user_id, checked_out_at)
		VALUES ($1, $2, $3, $4)
	`

	tag, err := conn.Exec(ctx, query,
		id.New(), event.BookID, event.CheckedOutBy, event.CheckedOutAt,
	)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("insert checkout: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewIntegrity("no checkout row was created")
	}

	return nil
}

// InsertReturnedCheckout copies the active checkout row into history with the
// returned timestamp.
func (r *CheckoutRepo) InsertReturnedCheckout(ctx context.Context, event checkout.ReturnCheckout) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	query := `
		INSERT INTO returned_checkouts (checkout_id, book_id, user_id, checked_out_at, returned_at)
		SELECT checkout_id, book_id, user_id, checked_out_at, $2
		FROM checkouts
		WHERE checkout_id = $1
	`

	tag, err := conn.Exec(ctx, query, event.CheckoutID, event.ReturnedAt)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("insert returned checkout: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewIntegrity("no history row was created")
	}

	return nil
}

// DeleteCheckout removes an active checkout row.
func (r *CheckoutRepo) DeleteCheckout(ctx context.Context, checkoutID id.ID) error {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM checkouts WHERE checkout_id = $1`, checkoutID)
	if err != nil {
		return apperror.NewStorage(fmt.Errorf("delete checkout: %w", err))
	}
	if tag.RowsAffected() < 1 {
		return apperror.NewIntegrity("no checkout row was deleted")
	}

	return nil
}

// FindCheckoutState reads the consistency projection for a book. Returns nil
// when the book does not exist.
func (r *CheckoutRepo) FindCheckoutState(ctx context.Context, bookID id.ID) (*checkout.State, error) {
	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `
		SELECT b.book_id, c.checkout_id, c.user_id
		FROM books AS b
			LEFT OUTER JOIN checkouts AS c USING (book_id)
		WHERE b.book_id = $1
	`

	var state checkout.State
	err = conn.QueryRow(ctx, query, bookID).Scan(&state.BookID, &state.CheckoutID, &state.UserID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("query checkout state: %w", err))
	}

	return &state, nil
}

// FindUnreturnedAll lists all active checkouts, oldest first.
func (r *CheckoutRepo) FindUnreturnedAll(ctx context.Context) ([]checkout.Checkout, error) {
	return r.selectActive(ctx, activeSelect().OrderBy("c.checked_out_at ASC"))
}

// FindUnreturnedByUser lists a user's active checkouts, oldest first.
func (r *CheckoutRepo) FindUnreturnedByUser(ctx context.Context, userID id.ID) ([]checkout.Checkout, error) {
	q := activeSelect().
		Where(squirrel.Eq{"c.user_id": userID}).
		OrderBy("c.checked_out_at ASC")
	return r.selectActive(ctx, q)
}

// FindHistoryByBook lists the full lending history of a book: the active
// checkout first if present, then returned rows by checkout time descending.
func (r *CheckoutRepo) FindHistoryByBook(ctx context.Context, bookID id.ID) ([]checkout.Checkout, error) {
	active, err := r.findUnreturnedByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	query := `
		SELECT
			rc.checkout_id, rc.book_id, rc.user_id,
			rc.checked_out_at, rc.returned_at,
			b.title, b.author, b.isbn
		FROM returned_checkouts AS rc
			INNER JOIN books AS b USING (book_id)
		WHERE rc.book_id = $1
		ORDER BY rc.checked_out_at DESC
	`

	var rows []checkoutRow
	if err := pgxscan.Select(ctx, conn, &rows, query, bookID); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("query checkout history: %w", err))
	}

	return checkout.MergeHistory(active, toDomainList(rows)), nil
}

func (r *CheckoutRepo) selectActive(ctx context.Context, q squirrel.SelectBuilder) ([]checkout.Checkout, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build select: %w", err))
	}

	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var rows []checkoutRow
	if err := pgxscan.Select(ctx, conn, &rows, sql, args...); err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("query active checkouts: %w", err))
	}

	return toDomainList(rows), nil
}

func (r *CheckoutRepo) findUnreturnedByBook(ctx context.Context, bookID id.ID) (*checkout.Checkout, error) {
	q := activeSelect().Where(squirrel.Eq{"c.book_id": bookID})
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("build select: %w", err))
	}

	conn, err := r.src.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	var row checkoutRow
	err = pgxscan.Get(ctx, conn, &row, sql, args...)
	if pgxscan.NotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.NewStorage(fmt.Errorf("query active checkout: %w", err))
	}

	co := row.toDomain()
	return &co, nil
}
