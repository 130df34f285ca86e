package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"algowatch/internal/patterns/models"
)

const keyPrefix = "algowatch:patterns:"

// RedisCache stores pattern summaries per place with a TTL.
type RedisCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

func NewRedisCache(client redis.UniversalClient, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Key returns the cache key for placeID. The empty place is the global
// summary.
func Key(placeID string) string {
	if placeID == "" {
		return keyPrefix + "_all"
	}
	return keyPrefix + "place:" + placeID
}

// Get returns nil without error on a miss.
func (c *RedisCache) Get(ctx context.Context, placeID string) (*models.Summary, error) {
	raw, err := c.client.Get(ctx, Key(placeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get pattern summary: %w", err)
	}
	var summary models.Summary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("decode pattern summary: %w", err)
	}
	return &summary, nil
}

func (c *RedisCache) Set(ctx context.Context, placeID string, summary *models.Summary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode pattern summary: %w", err)
	}
	if err := c.client.Set(ctx, Key(placeID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set pattern summary: %w", err)
	}
	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, placeID string) error {
	if err := c.client.Del(ctx, Key(placeID)).Err(); err != nil {
		return fmt.Errorf("invalidate pattern summary: %w", err)
	}
	return nil
}
