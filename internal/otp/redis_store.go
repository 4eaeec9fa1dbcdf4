package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore backs pending registrations with Redis so they survive a
// process restart. TTL mirrors the entry's expiry, so expired entries
// vanish on their own.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func key(email string) string {
	return "otp:pending:" + email
}

func (s *RedisStore) Put(ctx context.Context, email string, reg PendingRegistration) error {
	payload, err := json.Marshal(reg)
	if err != nil {
		return fmt.Errorf("failed to marshal pending registration: %w", err)
	}

	ttl := time.Until(reg.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}

	return s.client.Set(ctx, key(email), payload, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, email string) (*PendingRegistration, error) {
	payload, err := s.client.Get(ctx, key(email)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var reg PendingRegistration
	if err := json.Unmarshal(payload, &reg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal pending registration: %w", err)
	}
	return &reg, nil
}

func (s *RedisStore) Delete(ctx context.Context, email string) error {
	return s.client.Del(ctx, key(email)).Err()
}
