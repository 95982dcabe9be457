package handlers

import (
	"github.com/gin-gonic/gin"

	"lendhub/internal/infrastructure/http/v1/dto"
	"lendhub/internal/usecase"
)

// BookHandler handles book catalog endpoints.
type BookHandler struct {
	*BaseHandler
	service *usecase.BookService
}

// NewBookHandler creates a new book handler.
func NewBookHandler(base *BaseHandler, service *usecase.BookService) *BookHandler {
	return &BookHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Register handles POST /books
func (h *BookHandler) Register(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateBookRequest
	if !h.BindJSON(c, &req) {
		return
	}

	bookID, err := h.service.Register(ctx, req.ToCreateBook())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, bookID.String())
}

// List handles GET /books
func (h *BookHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var query dto.ListBooksQuery
	if !h.BindQuery(c, &query) {
		return
	}

	books, err := h.service.List(ctx, query.Limit, query.Offset)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromBooks(books)))
}

// Get handles GET /books/:book_id
func (h *BookHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	bookID, ok := h.ParseID(c, "book_id")
	if !ok {
		return
	}

	b, err := h.service.Get(ctx, bookID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromBook(b))
}

// Update handles PUT /books/:book_id
func (h *BookHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	bookID, ok := h.ParseID(c, "book_id")
	if !ok {
		return
	}

	var req dto.UpdateBookRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.service.Update(ctx, req.ToUpdateBook(bookID)); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Delete handles DELETE /books/:book_id
func (h *BookHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	bookID, ok := h.ParseID(c, "book_id")
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, bookID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
