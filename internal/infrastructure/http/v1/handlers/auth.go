package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/appctx"
	"lendhub/internal/infrastructure/http/v1/dto"
	"lendhub/internal/infrastructure/http/v1/middleware"
	"lendhub/internal/usecase"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	*BaseHandler
	service *usecase.AuthService
	users   *usecase.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *usecase.AuthService, users *usecase.UserService) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
		users:       users,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	userID, token, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		UserID:      userID.String(),
		AccessToken: string(token),
		TokenType:   "Bearer",
	})
}

// Logout handles POST /auth/logout
// Revokes exactly the token the request presented.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	token := middleware.AccessToken(c)
	if token == "" {
		h.Error(c, apperror.NewUnauthenticated("not authenticated"))
		return
	}

	if err := h.service.Logout(ctx, token); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userCtx := appctx.GetUser(ctx)
	if userCtx == nil {
		h.Error(c, apperror.NewUnauthenticated("not authenticated"))
		return
	}

	u, err := h.users.Get(ctx, userCtx.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.FromUser(u))
}
