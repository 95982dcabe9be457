package handlers

import (
	"github.com/gin-gonic/gin"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/appctx"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/user"
	"lendhub/internal/infrastructure/http/v1/dto"
	"lendhub/internal/usecase"
)

// UserHandler handles user account endpoints.
type UserHandler struct {
	*BaseHandler
	service *usecase.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(base *BaseHandler, service *usecase.UserService) *UserHandler {
	return &UserHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /users (admin only).
func (h *UserHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	u, err := h.service.Create(ctx, req.ToCreateUser())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, u.ID.String())
}

// List handles GET /users (admin only).
func (h *UserHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.service.List(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.NewListResponse(dto.FromUsers(users)))
}

// Delete handles DELETE /users/:user_id (admin only).
func (h *UserHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.ParseID(c, "user_id")
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, user.DeleteUser{UserID: userID}); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ChangeRole handles PUT /users/:user_id/role (admin only).
func (h *UserHandler) ChangeRole(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.ParseID(c, "user_id")
	if !ok {
		return
	}

	var req dto.ChangeRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	role, err := user.ParseRole(req.Role)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.ChangeRole(ctx, user.UpdateUserRole{UserID: userID, Role: role}); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// ChangePassword handles PUT /users/me/password.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	ctx := c.Request.Context()

	userID := appctx.GetUserID(ctx)
	if id.IsNil(userID) {
		h.Error(c, apperror.NewUnauthenticated("not authenticated"))
		return
	}

	var req dto.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}

	event := user.UpdateUserPassword{
		UserID:          userID,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	}
	if err := h.service.ChangePassword(ctx, event); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
