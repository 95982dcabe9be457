// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"lendhub/internal/domain/health"
	"lendhub/internal/infrastructure/http/v1/handlers"
	"lendhub/internal/infrastructure/http/v1/middleware"
	"lendhub/internal/usecase"
	"lendhub/pkg/logger"
)

// RouterConfig holds the services the router exposes.
type RouterConfig struct {
	Logger *logger.Logger

	AuthService     *usecase.AuthService
	UserService     *usecase.UserService
	BookService     *usecase.BookService
	CheckoutService *usecase.CheckoutService
	HealthService   *health.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.HealthService)
	healthGroup := router.Group("/health")
	{
		healthGroup.GET("/live", healthHandler.Live)
		healthGroup.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(base, cfg.AuthService, cfg.UserService)
	userHandler := handlers.NewUserHandler(base, cfg.UserService)
	bookHandler := handlers.NewBookHandler(base, cfg.BookService)
	checkoutHandler := handlers.NewCheckoutHandler(base, cfg.CheckoutService)

	api := router.Group("/api/v1")

	// Public endpoints
	api.POST("/auth/login", authHandler.Login)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(middleware.Auth(cfg.AuthService))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.GET("/auth/me", authHandler.Me)

		books := protected.Group("/books")
		{
			books.POST("", bookHandler.Register)
			books.GET("", bookHandler.List)
			books.GET("/:book_id", bookHandler.Get)
			books.PUT("/:book_id", bookHandler.Update)
			books.DELETE("/:book_id", bookHandler.Delete)

			books.POST("/:book_id/checkouts", checkoutHandler.Checkout)
			books.PUT("/:book_id/checkouts/:checkout_id/returned", checkoutHandler.Return)
			books.GET("/:book_id/checkout-history", checkoutHandler.History)
		}

		protected.GET("/users/me/checkouts", checkoutHandler.ListMine)
		protected.PUT("/users/me/password", userHandler.ChangePassword)

		// Admin endpoints
		admin := protected.Group("")
		admin.Use(middleware.AdminOnly())
		{
			admin.GET("/checkouts", checkoutHandler.ListActive)

			users := admin.Group("/users")
			{
				users.POST("", userHandler.Create)
				users.GET("", userHandler.List)
				users.DELETE("/:user_id", userHandler.Delete)
				users.PUT("/:user_id/role", userHandler.ChangeRole)
			}
		}
	}

	return router
}
