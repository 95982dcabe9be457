package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/auth"
	"lendhub/internal/domain/book"
	"lendhub/internal/domain/checkout"
	"lendhub/internal/domain/uow"
	"lendhub/internal/domain/user"
)

// fakeCheckoutRepo records writes and serves a canned projection.
type fakeCheckoutRepo struct {
	state    *checkout.State
	stateErr error

	insertErr error
	returnErr error
	deleteErr error

	inserted []checkout.CreateCheckout
	returned []checkout.ReturnCheckout
	deleted  []id.ID

	active  []checkout.Checkout
	history []checkout.Checkout
}

func (r *fakeCheckoutRepo) InsertCheckout(_ context.Context, event checkout.CreateCheckout) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, event)
	return nil
}

func (r *fakeCheckoutRepo) InsertReturnedCheckout(_ context.Context, event checkout.ReturnCheckout) error {
	if r.returnErr != nil {
		return r.returnErr
	}
	r.returned = append(r.returned, event)
	return nil
}

func (r *fakeCheckoutRepo) DeleteCheckout(_ context.Context, checkoutID id.ID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	r.deleted = append(r.deleted, checkoutID)
	return nil
}

func (r *fakeCheckoutRepo) FindCheckoutState(context.Context, id.ID) (*checkout.State, error) {
	return r.state, r.stateErr
}

func (r *fakeCheckoutRepo) FindUnreturnedAll(context.Context) ([]checkout.Checkout, error) {
	return r.active, nil
}

func (r *fakeCheckoutRepo) FindUnreturnedByUser(context.Context, id.ID) ([]checkout.Checkout, error) {
	return r.active, nil
}

func (r *fakeCheckoutRepo) FindHistoryByBook(context.Context, id.ID) ([]checkout.Checkout, error) {
	return r.history, nil
}

// fakeScope tracks terminal transitions.
type fakeScope struct {
	checkouts checkout.Repository
	books     book.Repository
	users     user.Repository
	tokens    auth.Repository

	commits   int
	rollbacks int
	consumed  bool

	commitErr error
}

func (s *fakeScope) Commit(context.Context) error {
	if s.commitErr != nil {
		s.consumed = true
		return s.commitErr
	}
	s.commits++
	s.consumed = true
	return nil
}

func (s *fakeScope) Rollback(context.Context) error {
	s.rollbacks++
	s.consumed = true
	return nil
}

func (s *fakeScope) Close(context.Context) {
	if !s.consumed {
		s.rollbacks++
		s.consumed = true
	}
}

func (s *fakeScope) Checkouts() checkout.Repository { return s.checkouts }
func (s *fakeScope) Books() book.Repository         { return s.books }
func (s *fakeScope) Users() user.Repository         { return s.users }
func (s *fakeScope) Auth() auth.Repository          { return s.tokens }

// fakeFactory records which isolation level each scope was opened at.
type fakeFactory struct {
	scope        *fakeScope
	beginErr     error
	defaultOpens int
	serialOpens  int
}

func (f *fakeFactory) Begin(context.Context) (uow.Scope, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.defaultOpens++
	return f.scope, nil
}

func (f *fakeFactory) BeginSerializable(context.Context) (uow.Scope, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.serialOpens++
	return f.scope, nil
}

func heldState(bookID, checkoutID, userID id.ID) *checkout.State {
	return &checkout.State{BookID: bookID, CheckoutID: &checkoutID, UserID: &userID}
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.Background()
	bookID := id.New()
	userID := id.New()

	event := checkout.CreateCheckout{
		BookID:       bookID,
		CheckedOutBy: userID,
		CheckedOutAt: time.Now().UTC(),
	}

	t.Run("free book is checked out", func(t *testing.T) {
		repo := &fakeCheckoutRepo{state: &checkout.State{BookID: bookID}}
		scope := &fakeScope{checkouts: repo}
		factory := &fakeFactory{scope: scope}
		svc := NewCheckoutService(factory)

		require.NoError(t, svc.Checkout(ctx, event))

		assert.Equal(t, 1, factory.serialOpens, "checkout must run serializable")
		assert.Equal(t, 0, factory.defaultOpens)
		require.Len(t, repo.inserted, 1)
		assert.Equal(t, event, repo.inserted[0])
		assert.Equal(t, 1, scope.commits)
		assert.Equal(t, 0, scope.rollbacks)
	})

	t.Run("unknown book", func(t *testing.T) {
		repo := &fakeCheckoutRepo{state: nil}
		scope := &fakeScope{checkouts: repo}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Checkout(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
		assert.Empty(t, repo.inserted)
		assert.Equal(t, 0, scope.commits)
		assert.Equal(t, 1, scope.rollbacks, "failed checkout must roll back")
	})

	t.Run("already checked out", func(t *testing.T) {
		repo := &fakeCheckoutRepo{state: heldState(bookID, id.New(), id.New())}
		scope := &fakeScope{checkouts: repo}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Checkout(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.IsConflict(err))
		assert.Empty(t, repo.inserted)
		assert.Equal(t, 1, scope.rollbacks)
	})

	t.Run("insert failure is not committed", func(t *testing.T) {
		repo := &fakeCheckoutRepo{
			state:     &checkout.State{BookID: bookID},
			insertErr: apperror.NewIntegrity("no checkout row was created"),
		}
		scope := &fakeScope{checkouts: repo}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Checkout(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeIntegrity))
		assert.Equal(t, 0, scope.commits)
		assert.Equal(t, 1, scope.rollbacks)
	})

	t.Run("serialization abort surfaces from commit", func(t *testing.T) {
		repo := &fakeCheckoutRepo{state: &checkout.State{BookID: bookID}}
		scope := &fakeScope{
			checkouts: repo,
			commitErr: apperror.NewTransaction(errors.New("could not serialize access")),
		}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Checkout(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeTransaction))
		assert.Equal(t, 0, scope.commits)
	})

	t.Run("begin failure", func(t *testing.T) {
		svc := NewCheckoutService(&fakeFactory{beginErr: apperror.NewStorage(errors.New("pool exhausted"))})

		err := svc.Checkout(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeStorage))
	})
}

func TestCheckoutService_Return(t *testing.T) {
	ctx := context.Background()
	bookID := id.New()
	checkoutID := id.New()
	userID := id.New()

	event := checkout.ReturnCheckout{
		CheckoutID: checkoutID,
		BookID:     bookID,
		ReturnedBy: userID,
		ReturnedAt: time.Now().UTC(),
	}

	t.Run("holder returns the book", func(t *testing.T) {
		repo := &fakeCheckoutRepo{state: heldState(bookID, checkoutID, userID)}
		scope := &fakeScope{checkouts: repo}
		factory := &fakeFactory{scope: scope}
		svc := NewCheckoutService(factory)

		require.NoError(t, svc.Return(ctx, event))

		assert.Equal(t, 1, factory.serialOpens, "return must run serializable")
		require.Len(t, repo.returned, 1)
		assert.Equal(t, event, repo.returned[0])
		require.Len(t, repo.deleted, 1)
		assert.Equal(t, checkoutID, repo.deleted[0])
		assert.Equal(t, 1, scope.commits)
	})

	t.Run("unknown book", func(t *testing.T) {
		repo := &fakeCheckoutRepo{state: nil}
		scope := &fakeScope{checkouts: repo}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Return(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.IsNotFound(err))
		assert.Empty(t, repo.returned)
	})

	t.Run("wrong holder", func(t *testing.T) {
		repo := &fakeCheckoutRepo{state: heldState(bookID, checkoutID, id.New())}
		scope := &fakeScope{checkouts: repo}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Return(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.IsConflict(err))
		assert.Empty(t, repo.returned)
		assert.Empty(t, repo.deleted)
		assert.Equal(t, 1, scope.rollbacks)
	})

	t.Run("wrong checkout id", func(t *testing.T) {
		repo := &fakeCheckoutRepo{state: heldState(bookID, id.New(), userID)}
		scope := &fakeScope{checkouts: repo}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Return(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.IsConflict(err))
	})

	t.Run("no active checkout hits the integrity check", func(t *testing.T) {
		// The guard lets the write proceed; the repository reports that no
		// history row could be copied.
		repo := &fakeCheckoutRepo{
			state:     &checkout.State{BookID: bookID},
			returnErr: apperror.NewIntegrity("no history row was created"),
		}
		scope := &fakeScope{checkouts: repo}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Return(ctx, event)
		require.Error(t, err)
		assert.True(t, apperror.HasCode(err, apperror.CodeIntegrity))
		assert.Equal(t, 0, scope.commits)
		assert.Equal(t, 1, scope.rollbacks)
	})

	t.Run("delete failure is not committed", func(t *testing.T) {
		repo := &fakeCheckoutRepo{
			state:     heldState(bookID, checkoutID, userID),
			deleteErr: apperror.NewIntegrity("no checkout row was deleted"),
		}
		scope := &fakeScope{checkouts: repo}
		svc := NewCheckoutService(&fakeFactory{scope: scope})

		err := svc.Return(ctx, event)
		require.Error(t, err)
		assert.Len(t, repo.returned, 1)
		assert.Equal(t, 0, scope.commits)
		assert.Equal(t, 1, scope.rollbacks)
	})
}

func TestCheckoutService_Reads(t *testing.T) {
	ctx := context.Background()
	record := checkout.Checkout{ID: id.New(), CheckedOutBy: id.New(), CheckedOutAt: time.Now()}

	repo := &fakeCheckoutRepo{
		active:  []checkout.Checkout{record},
		history: []checkout.Checkout{record},
	}
	scope := &fakeScope{checkouts: repo}
	factory := &fakeFactory{scope: scope}
	svc := NewCheckoutService(factory)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	scope.consumed = false
	mine, err := svc.ListActiveByUser(ctx, record.CheckedOutBy)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	scope.consumed = false
	history, err := svc.History(ctx, id.New())
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// Reads run at default isolation.
	assert.Equal(t, 3, factory.defaultOpens)
	assert.Equal(t, 0, factory.serialOpens)
}
