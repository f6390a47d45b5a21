package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paisa/internal/models"

	"github.com/redis/go-redis/v9"
)

// CacheService caches user accounts. Every mutating ledger operation
// invalidates the affected users so reads never see a stale balance for
// longer than one round trip.
type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

func userKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

func (s *CacheService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	val, err := s.client.Get(ctx, userKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(val), &user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached user: %w", err)
	}
	return &user, nil
}

func (s *CacheService) SetUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user for cache: %w", err)
	}
	return s.client.Set(ctx, userKey(user.ID), data, s.ttl).Err()
}

func (s *CacheService) InvalidateUser(ctx context.Context, userID uint) error {
	return s.client.Del(ctx, userKey(userID)).Err()
}

func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

func (s *CacheService) Close() error {
	return s.client.Close()
}
