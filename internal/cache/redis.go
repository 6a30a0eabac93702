package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore caches short-lived provider access tokens in Redis so
// concurrent API processes do not hammer the token endpoint. Tokens
// are keyed per provider product (e.g. mtnmomo collection vs
// disbursement) and expire with the token's own lifetime.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore connects a token store to Redis.
func NewTokenStore(addr, password string, db int) *TokenStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &TokenStore{client: rdb}
}

func tokenKey(product string) string {
	return fmt.Sprintf("token:%s", product)
}

// GetToken returns the cached token for a product, or "" when the key
// is missing or expired.
func (s *TokenStore) GetToken(ctx context.Context, product string) (string, error) {
	token, err := s.client.Get(ctx, tokenKey(product)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis GET error: %w", err)
	}
	return token, nil
}

// SetToken stores a token under the product key for the given TTL.
func (s *TokenStore) SetToken(ctx context.Context, product, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.client.Set(ctx, tokenKey(product), token, ttl).Err()
}

// Ping verifies the Redis connection at startup.
func (s *TokenStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
