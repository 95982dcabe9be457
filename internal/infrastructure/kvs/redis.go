package kvs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lendhub/internal/core/apperror"
	"lendhub/internal/core/id"
	"lendhub/internal/domain/auth"
	"lendhub/internal/domain/health"
)

// Compile-time checks.
var (
	_ auth.Repository = (*RedisTokenRepo)(nil)
	_ health.Pinger   = (*RedisTokenRepo)(nil)
)

// RedisConfig holds connection settings for the Redis token store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TokenTTL time.Duration
}

// DefaultTokenTTL bounds the lifetime of issued access tokens.
const DefaultTokenTTL = 24 * time.Hour

// RedisTokenRepo stores access tokens in Redis with a per-token TTL. Expiry
// is enforced by the store itself; a token that outlives its TTL simply stops
// resolving.
type RedisTokenRepo struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisTokenRepo connects to Redis and verifies the connection.
func NewRedisTokenRepo(ctx context.Context, cfg RedisConfig) (*RedisTokenRepo, error) {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.Addr, err)
	}

	return &RedisTokenRepo{client: client, ttl: ttl}, nil
}

// CreateToken issues a fresh token mapped to the user for the configured TTL.
func (r *RedisTokenRepo) CreateToken(ctx context.Context, userID id.ID) (auth.AccessToken, error) {
	token, err := newToken()
	if err != nil {
		return "", apperror.NewInternal(err)
	}

	if err := r.client.Set(ctx, tokenKey(token), userID.String(), r.ttl).Err(); err != nil {
		return "", apperror.NewStorage(fmt.Errorf("store token: %w", err))
	}

	return token, nil
}

// DeleteToken revokes a token. Deleting an absent token is not an error.
func (r *RedisTokenRepo) DeleteToken(ctx context.Context, token auth.AccessToken) error {
	if err := r.client.Del(ctx, tokenKey(token)).Err(); err != nil {
		return apperror.NewStorage(fmt.Errorf("delete token: %w", err))
	}
	return nil
}

// FetchUserIDFromToken resolves a token to its user. The second return value
// is false when the token is unknown or expired.
func (r *RedisTokenRepo) FetchUserIDFromToken(ctx context.Context, token auth.AccessToken) (id.ID, bool, error) {
	val, err := r.client.Get(ctx, tokenKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return id.Nil(), false, nil
	}
	if err != nil {
		return id.Nil(), false, apperror.NewStorage(fmt.Errorf("fetch token: %w", err))
	}

	userID, err := id.Parse(val)
	if err != nil {
		return id.Nil(), false, apperror.NewInternal(fmt.Errorf("malformed user id in token store: %w", err))
	}

	return userID, true, nil
}

// Ping reports whether the store is reachable.
func (r *RedisTokenRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close releases the underlying connection.
func (r *RedisTokenRepo) Close() error {
	return r.client.Close()
}
