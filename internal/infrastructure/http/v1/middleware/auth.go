package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/appctx"
	"lendhub/internal/domain/auth"
	"lendhub/internal/domain/user"
)

// ginKeyAccessToken holds the raw bearer token for handlers that need it
// (logout revokes exactly the token the request presented).
const ginKeyAccessToken = "access_token"

// TokenResolver resolves a bearer token to a user account.
type TokenResolver interface {
	FindAuthorizedUser(ctx context.Context, token auth.AccessToken) (*user.User, error)
}

// Auth middleware resolves the bearer token through the token store and
// populates the user context.
func Auth(resolver TokenResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}

		u, err := resolver.FindAuthorizedUser(c.Request.Context(), token)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithUser(c.Request.Context(), &appctx.UserContext{
			UserID:  u.ID,
			Email:   u.Email,
			Role:    string(u.Role),
			IsAdmin: u.IsAdmin(),
		})
		c.Request = c.Request.WithContext(ctx)

		// Store in gin context for easy access
		c.Set("user_id", u.ID.String())
		c.Set(ginKeyAccessToken, string(token))

		c.Next()
	}
}

// AdminOnly middleware rejects non-admin users. Must run after Auth.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appctx.IsAdmin(c.Request.Context()) {
			_ = c.Error(apperror.NewForbidden("admin role required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// AccessToken returns the raw bearer token stored by Auth.
func AccessToken(c *gin.Context) auth.AccessToken {
	return auth.AccessToken(c.GetString(ginKeyAccessToken))
}

func bearerToken(c *gin.Context) (auth.AccessToken, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthenticated(c, "missing authorization header")
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		abortUnauthenticated(c, "invalid authorization header format")
		return "", false
	}

	return auth.AccessToken(parts[1]), true
}

func abortUnauthenticated(c *gin.Context, message string) {
	_ = c.Error(apperror.NewUnauthenticated(message))
	c.Abort()
}
