// Package main is the entry point for the lendhub API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lendhub/internal/domain/auth"
	"lendhub/internal/domain/health"
	v1 "lendhub/internal/infrastructure/http/v1"
	"lendhub/internal/infrastructure/kvs"
	"lendhub/internal/infrastructure/storage/postgres"
	"lendhub/internal/usecase"
	"lendhub/pkg/logger"
)

func main() {
	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("APP_ENV", "development") == "development",
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting lendhub server")

	// --- Database connection ---
	poolCfg := postgres.DefaultPoolConfig(mustEnv("DATABASE_URL"))
	if maxConns := getEnvInt("DB_MAX_CONNS", 0); maxConns > 0 {
		poolCfg.MaxConns = int32(maxConns)
	}

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	// --- Token store ---
	tokenTTL := getEnvDuration("TOKEN_TTL", kvs.DefaultTokenTTL)

	var (
		tokens      auth.Repository
		tokenPinger health.Pinger
	)
	if redisAddr := getEnv("REDIS_URL", ""); redisAddr != "" {
		store, err := kvs.NewRedisTokenRepo(ctx, kvs.RedisConfig{
			Addr:     redisAddr,
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TokenTTL: tokenTTL,
		})
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer store.Close()
		tokens, tokenPinger = store, store
		log.Infow("token store initialized", "backend", "redis", "ttl", tokenTTL)
	} else {
		store := kvs.NewMemoryTokenRepo(tokenTTL)
		tokens, tokenPinger = store, store
		log.Warnw("token store initialized", "backend", "memory", "ttl", tokenTTL)
	}

	// --- Unit of work and services ---
	scopes := postgres.NewFactory(pool, tokens)

	authService := usecase.NewAuthService(scopes)
	userService := usecase.NewUserService(scopes)
	bookService := usecase.NewBookService(scopes)
	checkoutService := usecase.NewCheckoutService(scopes)
	healthService := health.NewService(
		postgres.NewHealthRepo(postgres.PoolSource(pool)),
		tokenPinger,
	)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:          log,
		AuthService:     authService,
		UserService:     userService,
		BookService:     bookService,
		CheckoutService: checkoutService,
		HealthService:   healthService,
	})

	// --- HTTP Server ---
	port := getEnv("APP_PORT", "8080")
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Infow("server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func mustEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		fmt.Printf("required environment variable %s not set\n", key)
		os.Exit(1)
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var result int
		if _, err := fmt.Sscanf(value, "%d", &result); err == nil {
			return result
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
