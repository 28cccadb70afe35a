// Package redisstore keeps cart blobs in Redis so carts survive process
// restarts and can be shared across instances.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bethys-backend/internal/domain"
	"bethys-backend/internal/repository/blob"
)

type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Redis-backed cart store and verifies connectivity.
func New(ctx context.Context, addr string, db int, ttl time.Duration) (domain.CartRepository, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return &redisStore{client: client, ttl: ttl}, nil
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	payload, err := s.client.Get(ctx, storeKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}
	return blob.Decode(payload)
}

func (s *redisStore) Put(ctx context.Context, sessionID string, cart *domain.Cart) error {
	payload, err := blob.Encode(cart)
	if err != nil {
		return fmt.Errorf("encode cart failed: %w", err)
	}
	if err := s.client.Set(ctx, storeKey(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, storeKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storeKey(sessionID string) string {
	return fmt.Sprintf("cart:%s", sessionID)
}
