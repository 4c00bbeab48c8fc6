package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettlementCache_SetAndGet(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewSettlementCache(client)
	ctx := context.Background()

	channelID := "CH-001"
	value := []byte(`{"channel_id":"CH-001","registered":3,"nonce":1}`)

	// Get before set => nil
	result, err := cache.Get(ctx, channelID)
	assert.NoError(t, err)
	assert.Nil(t, result)

	// Set
	err = cache.Set(ctx, channelID, value, 24*time.Hour)
	require.NoError(t, err)

	// Get after set
	result, err = cache.Get(ctx, channelID)
	require.NoError(t, err)
	assert.Equal(t, value, result)
}

func TestSettlementCache_TTLExpiry(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewSettlementCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "CH-002", []byte(`{"registered":1}`), 1*time.Second)
	require.NoError(t, err)

	// Fast-forward time in miniredis
	s.FastForward(2 * time.Second)

	result, err := cache.Get(ctx, "CH-002")
	assert.NoError(t, err)
	assert.Nil(t, result, "expired result should return nil")
}

func TestSettlementCache_OverwriteKey(t *testing.T) {
	s := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: s.Addr()})
	cache := NewSettlementCache(client)
	ctx := context.Background()

	err := cache.Set(ctx, "CH-003", []byte("first"), 1*time.Hour)
	require.NoError(t, err)

	err = cache.Set(ctx, "CH-003", []byte("second"), 1*time.Hour)
	require.NoError(t, err)

	result, err := cache.Get(ctx, "CH-003")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), result)
}
