package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// SettlementCache implements ports.SettlementCache using Redis.
type SettlementCache struct {
	client *goredis.Client
	prefix string
}

// NewSettlementCache creates a new Redis-backed settlement result cache.
func NewSettlementCache(client *goredis.Client) *SettlementCache {
	return &SettlementCache{
		client: client,
		prefix: "settlement:",
	}
}

// Get retrieves a cached settlement result by channel ID.
// Returns nil, nil if the channel has no cached result.
func (c *SettlementCache) Get(ctx context.Context, channelID string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.prefix+channelID).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("redis settlement get: %w", err)
	}
	return val, nil
}

// Set stores a settlement result with TTL.
func (c *SettlementCache) Set(ctx context.Context, channelID string, result []byte, ttl time.Duration) error {
	err := c.client.Set(ctx, c.prefix+channelID, result, ttl).Err()
	if err != nil {
		return fmt.Errorf("redis settlement set: %w", err)
	}
	return nil
}
