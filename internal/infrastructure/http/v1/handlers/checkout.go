package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/appctx"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/checkout"
	"lendhub/internal/infrastructure/http/v1/dto"
	"lendhub/internal/usecase"
)

// CheckoutHandler handles lending endpoints.
type CheckoutHandler struct {
	*BaseHandler
	service *usecase.CheckoutService
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(base *BaseHandler, service *usecase.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Checkout handles POST /books/:book_id/checkouts
// The current user becomes the holder; the server assigns the timestamp.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	ctx := c.Request.Context()

	bookID, ok := h.ParseID(c, "book_id")
	if !ok {
		return
	}

	userID := appctx.GetUserID(ctx)
	if id.IsNil(userID) {
		h.Error(c, apperror.NewUnauthenticated("not authenticated"))
		return
	}

	event := checkout.CreateCheckout{
		BookID:       bookID,
		CheckedOutBy: userID,
		CheckedOutAt: time.Now().UTC(),
	}
	if err := h.service.Checkout(ctx, event); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Return handles PUT /books/:book_id/checkouts/:checkout_id/returned
func (h *CheckoutHandler) Return(c *gin.Context) {
	ctx := c.Request.Context()

	bookID, ok := h.ParseID(c, "book_id")
	if !ok {
		return
	}
	checkoutID, ok := h.ParseID(c, "checkout_id")
	if !ok {
		return
	}

	userID := appctx.GetUserID(ctx)
	if id.IsNil(userID) {
		h.Error(c, apperror.NewUnauthenticated("not authenticated"))
		return
	}

	event := checkout.ReturnCheckout{
		CheckoutID: checkoutID,
		BookID:     bookID,
		ReturnedBy: userID,
		ReturnedAt: time.Now().UTC(),
	}
	if err := h.service.Return(ctx, event); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ListActive handles GET /checkouts (admin only).
func (h *CheckoutHandler) ListActive(c *gin.Context) {
	ctx := c.Request.Context()

	checkouts, err := h.service.ListActive(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromCheckouts(checkouts)))
}

// ListMine handles GET /users/me/checkouts
func (h *CheckoutHandler) ListMine(c *gin.Context) {
	ctx := c.Request.Context()

	userID := appctx.GetUserID(ctx)
	if id.IsNil(userID) {
		h.Error(c, apperror.NewUnauthenticated("not authenticated"))
		return
	}

	checkouts, err := h.service.ListActiveByUser(ctx, userID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromCheckouts(checkouts)))
}

// History handles GET /books/:book_id/checkout-history
func (h *CheckoutHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	bookID, ok := h.ParseID(c, "book_id")
	if !ok {
		return
	}

	checkouts, err := h.service.History(ctx, bookID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromCheckouts(checkouts)))
}
